package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-transactions/internal/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mock_repository -source=interfaces.go

type Accounts interface {
	Create(ctx context.Context, a models.Account) (models.Account, error)
	GetByIBAN(ctx context.Context, iban string) (models.Account, error)
	// GetForUpdate reads the account and holds it locked until the
	// surrounding WithTransaction returns.
	GetForUpdate(ctx context.Context, iban string) (models.Account, error)
	AdjustBalance(ctx context.Context, iban string, delta decimal.Decimal) (models.Account, error)
}

type Transactions interface {
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (models.Transaction, error)
	// ListByAccount orders by amount, ties by insertion order. The
	// descending result is the exact reverse of the ascending one.
	ListByAccount(ctx context.Context, iban string, ascending bool) ([]models.Transaction, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error)
}

// TxManager runs fn as one unit of work: writes issued through the
// repositories with the ctx passed to fn commit together or not at all.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Accounts     Accounts
	Transactions Transactions
	AuditLogs    AuditLogs
	Tx           TxManager
}
