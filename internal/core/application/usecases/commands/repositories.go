// Package commands contains the write side of the order service: order
// submission, every lifecycle action, repeat orders and the reconciliation
// sweeps. Each command is validated, runs in its own unit of work, and
// writes orders only through a conditional status update.
package commands

import (
	"context"

	"takeout/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	AddressRepoFactory interface {
		AddressRepository() ports.AddressRepository
	}

	// OrderUoW is enough for lifecycle actions and sweeps.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// SubmitUoW also reads the address book.
	SubmitUoW interface {
		TxManager
		OrderRepoFactory
		AddressRepoFactory
	}

	SubmitUoWFactory interface {
		Create() SubmitUoW
	}
)
