package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
	"takeout/internal/pkg/guard"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize well inside the OFFSET range.
	MaxPage = 100_000
)

var ErrSearchOrdersQueryIsNotConstructed = errors.New(
	"SearchOrdersQuery must be created via NewSearchOrdersQuery constructor",
)

// OrderFilter narrows a search. Zero fields match everything; Number and
// Phone match substrings.
type OrderFilter struct {
	UserID *kernel.UUID
	Status order.Status
	Number string
	Phone  string
	Begin  *time.Time
	End    *time.Time
}

// SearchOrdersQuery is one page of orders, newest first. It backs both the
// customer's order history and the merchant's condition search.
type SearchOrdersQuery struct {
	filter   OrderFilter
	page     int
	pageSize int

	guard guard.ConstructorGuard
}

// NewSearchOrdersQuery defaults page to 1 and pageSize to DefaultPageSize.
func NewSearchOrdersQuery(filter OrderFilter, page, pageSize int) (SearchOrdersQuery, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var err error
	if page > MaxPage {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("page", page, 1, MaxPage))
	}
	if pageSize > MaxPageSize {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 1, MaxPageSize))
	}
	if filter.Status != order.Unknown {
		err = errors.Join(err, filter.Status.Validate())
	}
	if filter.UserID != nil {
		err = errors.Join(err, filter.UserID.Validate())
	}
	if filter.Begin != nil && filter.End != nil && filter.End.Before(*filter.Begin) {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("time range",
			fmt.Errorf("end %s is before begin %s", filter.End.Format(time.RFC3339), filter.Begin.Format(time.RFC3339))))
	}
	if err != nil {
		return SearchOrdersQuery{}, err
	}

	filter.Number = strings.TrimSpace(filter.Number)
	filter.Phone = strings.TrimSpace(filter.Phone)
	return SearchOrdersQuery{
		filter:   filter,
		page:     page,
		pageSize: pageSize,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q SearchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrSearchOrdersQueryIsNotConstructed)
}

func (q SearchOrdersQuery) Page() int     { return q.page }
func (q SearchOrdersQuery) PageSize() int { return q.pageSize }

// where renders the filter as a SQL condition and its arguments.
func (q SearchOrdersQuery) where() (string, []any) {
	conds := []string{"1 = 1"}
	var args []any

	f := q.filter
	if f.UserID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID.String())
	}
	if f.Status != order.Unknown {
		conds = append(conds, "status = ?")
		args = append(args, int(f.Status))
	}
	if f.Number != "" {
		conds = append(conds, "number LIKE ?")
		args = append(args, "%"+f.Number+"%")
	}
	if f.Phone != "" {
		conds = append(conds, "phone LIKE ?")
		args = append(args, "%"+f.Phone+"%")
	}
	if f.Begin != nil {
		conds = append(conds, "order_time >= ?")
		args = append(args, *f.Begin)
	}
	if f.End != nil {
		conds = append(conds, "order_time <= ?")
		args = append(args, *f.End)
	}
	return strings.Join(conds, " AND "), args
}

// OrderPage is one page of a search and the total number of matches.
type OrderPage struct {
	Total   int64
	Records []OrderView
}
