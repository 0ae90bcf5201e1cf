package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
)

// Store hands out repositories bound to a single transaction.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InTx commits when fn returns nil and rolls back otherwise. Callers lock the order row
// before the payment intent row.
func (s *Store) InTx(ctx context.Context, fn func(repos port.Repositories) error) error {
	return runTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(port.Repositories{
			Orders:    NewOrderWithTx(tx),
			Payments:  NewPaymentWithTx(tx),
			Addresses: NewAddressWithTx(tx),
		})
	})
}
