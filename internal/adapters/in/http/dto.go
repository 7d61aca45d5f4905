package http

import (
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/core/domain/model/order"
)

type SubmitOrderRequest struct {
	AddressBookID string `json:"addressBookId" validate:"required,uuid"`
	Remark        string `json:"remark"        validate:"max=100"`
}

type SubmitOrderResponse struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	OrderAmount string    `json:"orderAmount"`
	OrderTime   time.Time `json:"orderTime"`
}

type PaymentRequest struct {
	OrderNumber string `json:"orderNumber" validate:"required,numeric,max=32"`
	PayMethod   int    `json:"payMethod"   validate:"omitempty,oneof=1 2"`
}

type ConfirmRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type RejectionRequest struct {
	ID              string `json:"id"              validate:"required,uuid"`
	RejectionReason string `json:"rejectionReason" validate:"required,max=255"`
}

type CancelRequest struct {
	ID           string `json:"id"           validate:"required,uuid"`
	CancelReason string `json:"cancelReason" validate:"required,max=255"`
}

type PageRequest struct {
	Page     int `query:"page"     validate:"gte=0"`
	PageSize int `query:"pageSize" validate:"gte=0,lte=100"`
	Status   int `query:"status"   validate:"gte=0,lte=6"`
}

type ConditionSearchRequest struct {
	PageRequest
	Number    string `query:"number"    validate:"max=32"`
	Phone     string `query:"phone"     validate:"max=11"`
	BeginTime string `query:"beginTime"`
	EndTime   string `query:"endTime"`
}

// TransitionResponse reports the committed status change.
type TransitionResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Status    int       `json:"status"`
	PayStatus int       `json:"payStatus"`
	At        time.Time `json:"at"`
}

type OrderDetailResponse struct {
	ItemID     string `json:"itemId"`
	Name       string `json:"name"`
	Flavor     string `json:"flavor,omitempty"`
	Quantity   int    `json:"number"`
	UnitAmount string `json:"amount"`
}

type OrderResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	UserID          string                `json:"userId"`
	Status          int                   `json:"status"`
	StatusText      string                `json:"statusText"`
	PayStatus       int                   `json:"payStatus"`
	Amount          string                `json:"amount"`
	Consignee       string                `json:"consignee"`
	Phone           string                `json:"phone"`
	Address         string                `json:"address"`
	Remark          string                `json:"remark,omitempty"`
	OrderTime       time.Time             `json:"orderTime"`
	CheckoutTime    *time.Time            `json:"checkoutTime,omitempty"`
	DeliveryTime    *time.Time            `json:"deliveryTime,omitempty"`
	CancelTime      *time.Time            `json:"cancelTime,omitempty"`
	CancelReason    string                `json:"cancelReason,omitempty"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	OrderDetails    []OrderDetailResponse `json:"orderDetailList"`
}

type PageResponse struct {
	Total   int64           `json:"total"`
	Records []OrderResponse `json:"records"`
}

type StatisticsResponse struct {
	ToBeConfirmed      int64 `json:"toBeConfirmed"`
	Confirmed          int64 `json:"confirmed"`
	DeliveryInProgress int64 `json:"deliveryInProgress"`
}

func submitResponse(res commands.SubmitOrderResult) SubmitOrderResponse {
	return SubmitOrderResponse{
		ID:          res.OrderID.String(),
		OrderNumber: res.Number.String(),
		OrderAmount: res.Amount.String(),
		OrderTime:   res.OrderTime,
	}
}

func transitionResponse(tr order.Transition) TransitionResponse {
	return TransitionResponse{
		From:      tr.From.String(),
		To:        tr.To.String(),
		Status:    int(tr.To),
		PayStatus: int(tr.PayStatus),
		At:        tr.At,
	}
}

func orderResponse(v queries.OrderView) OrderResponse {
	details := make([]OrderDetailResponse, 0, len(v.Details))
	for _, d := range v.Details {
		details = append(details, OrderDetailResponse{
			ItemID:     d.ItemID,
			Name:       d.Name,
			Flavor:     d.Flavor,
			Quantity:   d.Quantity,
			UnitAmount: d.UnitAmount.String(),
		})
	}
	return OrderResponse{
		ID:              v.ID.String(),
		Number:          v.Number.String(),
		UserID:          v.UserID.String(),
		Status:          int(v.Status),
		StatusText:      v.Status.String(),
		PayStatus:       int(v.PayStatus),
		Amount:          v.Amount.String(),
		Consignee:       v.Consignee,
		Phone:           v.Phone,
		Address:         v.Address,
		Remark:          v.Remark,
		OrderTime:       v.OrderTime,
		CheckoutTime:    v.CheckoutTime,
		DeliveryTime:    v.DeliveryTime,
		CancelTime:      v.CancelTime,
		CancelReason:    v.CancelReason,
		RejectionReason: v.RejectionReason,
		OrderDetails:    details,
	}
}

func pageResponse(p queries.OrderPage) PageResponse {
	records := make([]OrderResponse, 0, len(p.Records))
	for _, v := range p.Records {
		records = append(records, orderResponse(v))
	}
	return PageResponse{Total: p.Total, Records: records}
}
