package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

type paymentRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewPayment(pool *pgxpool.Pool) port.PaymentRepository {
	return &paymentRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewPaymentWithTx(tx pgx.Tx) port.PaymentRepository {
	return &paymentRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *paymentRepository) UpsertIntent(ctx context.Context, record domain.PaymentIntentRecord) (domain.PaymentIntentRecord, error) {
	if record.IntentID == "" {
		return domain.PaymentIntentRecord{}, errors.New("intentID is empty")
	}

	dbIntent, err := r.q.UpsertPaymentIntent(ctx, db.UpsertPaymentIntentParams{
		OrderID:     record.OrderID,
		IntentID:    record.IntentID,
		AmountMinor: record.Amount.MinorUnits,
		Currency:    record.Amount.Currency.String(),
	})
	if err != nil {
		return domain.PaymentIntentRecord{}, storageError("q.UpsertPaymentIntent", err)
	}

	return mapDBPaymentIntentToDomain(dbIntent)
}

func (r *paymentRepository) GetIntentByOrder(ctx context.Context, orderID uuid.UUID) (domain.PaymentIntentRecord, error) {
	dbIntent, err := r.q.GetPaymentIntentByOrder(ctx, orderID)
	if err != nil {
		return domain.PaymentIntentRecord{}, dbError("q.GetPaymentIntentByOrder", err, domain.ErrPaymentIntentNotFound)
	}

	return mapDBPaymentIntentToDomain(dbIntent)
}

func (r *paymentRepository) GetIntentByIntentID(ctx context.Context, intentID string) (domain.PaymentIntentRecord, error) {
	dbIntent, err := r.q.GetPaymentIntentByIntentID(ctx, intentID)
	if err != nil {
		return domain.PaymentIntentRecord{}, dbError("q.GetPaymentIntentByIntentID", err, domain.ErrPaymentIntentNotFound)
	}

	return mapDBPaymentIntentToDomain(dbIntent)
}

func (r *paymentRepository) LockIntentByIntentID(ctx context.Context, intentID string) (domain.PaymentIntentRecord, error) {
	dbIntent, err := r.q.GetPaymentIntentByIntentIDForUpdate(ctx, intentID)
	if err != nil {
		return domain.PaymentIntentRecord{}, dbError("q.GetPaymentIntentByIntentIDForUpdate", err, domain.ErrPaymentIntentNotFound)
	}

	return mapDBPaymentIntentToDomain(dbIntent)
}

// MarkIntentSuccessful is idempotent, an intent that is already successful is left untouched.
func (r *paymentRepository) MarkIntentSuccessful(ctx context.Context, intentID string) error {
	if _, err := r.q.MarkPaymentIntentSuccessful(ctx, intentID); err != nil {
		return storageError("q.MarkPaymentIntentSuccessful", err)
	}

	return nil
}

func (r *paymentRepository) InsertAttempt(ctx context.Context, attempt domain.PaymentAttempt) (bool, error) {
	if attempt.ExternalRef == "" {
		return false, errors.New("externalRef is empty")
	}

	_, err := r.q.InsertPaymentAttempt(ctx, db.InsertPaymentAttemptParams{
		OrderID:     attempt.OrderID,
		Processor:   string(attempt.Processor),
		ExternalRef: attempt.ExternalRef,
		Successful:  attempt.Successful,
		AmountMinor: attempt.Amount.MinorUnits,
		Currency:    attempt.Amount.Currency.String(),
		RawResponse: emptyJSONIfNil(attempt.RawResponse),
	})
	if err != nil {
		// ON CONFLICT DO NOTHING returns no row for a duplicate (processor, external_ref)
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, storageError("q.InsertPaymentAttempt", err)
	}

	return true, nil
}

func (r *paymentRepository) GetAttemptByExternalRef(ctx context.Context, processor domain.ProcessorKind, externalRef string) (domain.PaymentAttempt, error) {
	dbAttempt, err := r.q.GetPaymentAttemptByExternalRef(ctx, db.GetPaymentAttemptByExternalRefParams{
		Processor:   string(processor),
		ExternalRef: externalRef,
	})
	if err != nil {
		return domain.PaymentAttempt{}, dbError("q.GetPaymentAttemptByExternalRef", err, domain.ErrPaymentAttemptNotFound)
	}

	return mapDBPaymentAttemptToDomain(dbAttempt)
}

func (r *paymentRepository) ListAttempts(ctx context.Context, orderID uuid.UUID) ([]domain.PaymentAttempt, error) {
	dbAttempts, err := r.q.ListPaymentAttempts(ctx, orderID)
	if err != nil {
		return nil, storageError("q.ListPaymentAttempts", err)
	}

	var attempts []domain.PaymentAttempt
	for _, dbAttempt := range dbAttempts {
		attempt, err := mapDBPaymentAttemptToDomain(dbAttempt)
		if err != nil {
			return nil, fmt.Errorf("mapDBPaymentAttemptToDomain: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, nil
}

func (r *paymentRepository) GetCustomer(ctx context.Context, ownerID string) (domain.Customer, error) {
	dbCustomer, err := r.q.GetCustomer(ctx, ownerID)
	if err != nil {
		return domain.Customer{}, dbError("q.GetCustomer", err, domain.ErrCustomerNotFound)
	}

	return domain.Customer{
		OwnerID:             dbCustomer.OwnerID,
		ProcessorCustomerID: dbCustomer.ProcessorCustomerID,
	}, nil
}

func (r *paymentRepository) InsertCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if customer.OwnerID == "" || customer.ProcessorCustomerID == "" {
		return domain.Customer{}, errors.New("customer is incomplete")
	}

	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Customer, error) {
		if _, err := q.InsertCustomer(ctx, db.InsertCustomerParams{
			OwnerID:             customer.OwnerID,
			ProcessorCustomerID: customer.ProcessorCustomerID,
		}); err != nil {
			return domain.Customer{}, storageError("q.InsertCustomer", err)
		}

		dbCustomer, err := q.GetCustomer(ctx, customer.OwnerID)
		if err != nil {
			return domain.Customer{}, dbError("q.GetCustomer", err, domain.ErrCustomerNotFound)
		}

		return domain.Customer{
			OwnerID:             dbCustomer.OwnerID,
			ProcessorCustomerID: dbCustomer.ProcessorCustomerID,
		}, nil
	})
}

func mapDBPaymentIntentToDomain(row db.PaymentIntent) (domain.PaymentIntentRecord, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.PaymentIntentRecord{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	return domain.PaymentIntentRecord{
		ID:         row.ID,
		OrderID:    row.OrderID,
		IntentID:   row.IntentID,
		Amount:     domain.NewMoney(row.AmountMinor, parsedCurrency),
		Successful: row.Successful,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func mapDBPaymentAttemptToDomain(row db.PaymentAttempt) (domain.PaymentAttempt, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.PaymentAttempt{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	processor, err := domain.ToProcessorKind(row.Processor)
	if err != nil {
		return domain.PaymentAttempt{}, fmt.Errorf("domain.ToProcessorKind[%s]: %w", row.Processor, err)
	}

	return domain.PaymentAttempt{
		ID:          row.ID,
		OrderID:     row.OrderID,
		Processor:   processor,
		ExternalRef: row.ExternalRef,
		Successful:  row.Successful,
		Amount:      domain.NewMoney(row.AmountMinor, parsedCurrency),
		RawResponse: row.RawResponse,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func emptyJSONIfNil(j []byte) []byte {
	if j == nil {
		return []byte(`{}`)
	}
	return j
}
