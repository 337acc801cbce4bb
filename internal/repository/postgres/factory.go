package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/baharkarakas/bank-transactions/internal/repository"
)

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	db := &conn{pool: pool}
	return repo.Repositories{
		Accounts:     &accountsRepo{db},
		Transactions: &transactionsRepo{db},
		AuditLogs:    &auditLogsRepo{db},
		Tx:           &txManager{pool: pool},
	}
}
