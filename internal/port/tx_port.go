package port

import "context"

// Repositories are bound to a single transaction.
type Repositories struct {
	Orders    OrderRepository
	Payments  PaymentRepository
	Addresses AddressRepository
}

// Transactor runs fn in one database transaction, rolling back when fn returns an error.
type Transactor interface {
	InTx(ctx context.Context, fn func(repos Repositories) error) error
}
