package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-transactions/internal/models"
)

type transactionsRepo struct{ db *conn }

const txnCols = `reference, account_iban, date, amount::text, fee::text, description, created_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		t           models.Transaction
		amount, fee string
		err         error
	)
	if err := row.Scan(&t.Reference, &t.AccountIBAN, &t.Date, &amount, &fee, &t.Description, &t.CreatedAt); err != nil {
		return models.Transaction{}, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.Fee, err = decimal.NewFromString(fee); err != nil {
		return models.Transaction{}, fmt.Errorf("parse fee %q: %w", fee, err)
	}
	return t, nil
}

func (r *transactionsRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	out, err := scanTransaction(r.db.q(ctx).QueryRow(ctx,
		`INSERT INTO transactions (reference, account_iban, date, amount, fee, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+txnCols,
		t.Reference, t.AccountIBAN, t.Date, t.Amount.String(), t.Fee.String(), t.Description,
	))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", t.Reference, mapErr(err))
	}
	return out, nil
}

func (r *transactionsRepo) GetByReference(ctx context.Context, reference string) (models.Transaction, error) {
	t, err := scanTransaction(r.db.q(ctx).QueryRow(ctx,
		`SELECT `+txnCols+` FROM transactions WHERE reference = $1`, reference))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", reference, mapErr(err))
	}
	return t, nil
}

func (r *transactionsRepo) ListByAccount(ctx context.Context, iban string, ascending bool) ([]models.Transaction, error) {
	order := `amount ASC, seq ASC`
	if !ascending {
		order = `amount DESC, seq DESC`
	}
	rows, err := r.db.q(ctx).Query(ctx,
		`SELECT `+txnCols+`
		   FROM transactions
		  WHERE account_iban = $1
		  ORDER BY `+order,
		iban,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions %s: %w", iban, err)
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
