package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-transactions/internal/models"
)

type accountsRepo struct{ db *conn }

const accountCols = `iban, balance::text, created_at, updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var (
		a   models.Account
		bal string
	)
	if err := row.Scan(&a.IBAN, &bal, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return models.Account{}, err
	}
	d, err := decimal.NewFromString(bal)
	if err != nil {
		return models.Account{}, fmt.Errorf("parse balance %q: %w", bal, err)
	}
	a.Balance = d
	return a, nil
}

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	out, err := scanAccount(r.db.q(ctx).QueryRow(ctx,
		`INSERT INTO accounts (iban, balance)
		 VALUES ($1, $2)
		 RETURNING `+accountCols,
		a.IBAN, a.Balance.String(),
	))
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", a.IBAN, mapErr(err))
	}
	return out, nil
}

func (r *accountsRepo) GetByIBAN(ctx context.Context, iban string) (models.Account, error) {
	a, err := scanAccount(r.db.q(ctx).QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE iban = $1`, iban))
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", iban, mapErr(err))
	}
	return a, nil
}

func (r *accountsRepo) GetForUpdate(ctx context.Context, iban string) (models.Account, error) {
	a, err := scanAccount(r.db.q(ctx).QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE iban = $1 FOR UPDATE`, iban))
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", iban, mapErr(err))
	}
	return a, nil
}

func (r *accountsRepo) AdjustBalance(ctx context.Context, iban string, delta decimal.Decimal) (models.Account, error) {
	a, err := scanAccount(r.db.q(ctx).QueryRow(ctx,
		`UPDATE accounts
		    SET balance = balance + $2::numeric,
		        updated_at = now()
		  WHERE iban = $1
		  RETURNING `+accountCols,
		iban, delta.String(),
	))
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", iban, mapErr(err))
	}
	return a, nil
}
