package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-transactions/internal/api/validate"
	"github.com/baharkarakas/bank-transactions/internal/events"
	"github.com/baharkarakas/bank-transactions/internal/metrics"
	"github.com/baharkarakas/bank-transactions/internal/models"
	repo "github.com/baharkarakas/bank-transactions/internal/repository"
)

type CreateTransactionRequest struct {
	Reference   string            `json:"reference"`
	AccountIBAN string            `json:"account_iban"`
	Date        *models.Timestamp `json:"date"`
	Amount      *decimal.Decimal  `json:"amount"`
	Fee         *decimal.Decimal  `json:"fee"`
	Description string            `json:"description"`
}

type TransactionService struct {
	accounts repo.Accounts
	trx      repo.Transactions
	tx       repo.TxManager
	rec      *Recorder
	now      func() time.Time
	log      *slog.Logger
}

func NewTransactionService(r repo.Repositories, rec *Recorder, now func() time.Time, log *slog.Logger) *TransactionService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &TransactionService{accounts: r.Accounts, trx: r.Transactions, tx: r.Tx, rec: rec, now: now, log: log}
}

// ----------------- Admission -----------------

// Create admits a transaction: the insert and the debit of amount+fee
// happen in one unit of work while the account is locked.
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (models.Transaction, error) {
	t, err := s.build(req)
	if err != nil {
		s.rejected(ctx, req.Reference, err)
		return models.Transaction{}, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		acct, err := s.accounts.GetForUpdate(ctx, t.AccountIBAN)
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, t.AccountIBAN)
		}
		if err != nil {
			return fmt.Errorf("%w: load account: %w", ErrPersistence, err)
		}
		if !acct.CanCover(t.Total()) {
			return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, acct.Balance, t.Total())
		}

		created, err := s.trx.Create(ctx, t)
		if errors.Is(err, repo.ErrDuplicate) {
			return fmt.Errorf("%w: %s", ErrDuplicateReference, t.Reference)
		}
		if err != nil {
			return fmt.Errorf("%w: insert transaction: %w", ErrPersistence, err)
		}
		if _, err := s.accounts.AdjustBalance(ctx, t.AccountIBAN, t.Total().Neg()); err != nil {
			return fmt.Errorf("%w: debit account: %w", ErrPersistence, err)
		}
		t = created
		return nil
	})
	if err != nil {
		err = classifyCommitErr(err, t.Reference)
		s.rejected(ctx, t.Reference, err)
		return models.Transaction{}, err
	}

	metrics.TransactionsAdmitted.Inc()
	s.log.InfoContext(ctx, "transaction admitted", "reference", t.Reference, "iban", t.AccountIBAN, "amount", t.Amount, "fee", t.Fee)
	s.rec.Record(ctx, models.AuditLog{
		EntityType: models.EntityTransaction,
		EntityID:   t.Reference,
		Action:     "created",
		Details: map[string]any{
			"reference":    t.Reference,
			"account_iban": t.AccountIBAN,
			"amount":       t.Amount.String(),
			"fee":          t.Fee.String(),
			"date":         t.Date.Format(time.RFC3339Nano),
		},
	}, events.TypeTransactionCreated)
	return t, nil
}

// classifyCommitErr maps failures raised while committing, after fn
// returned nil, onto admission errors.
func classifyCommitErr(err error, reference string) error {
	for _, known := range []error{ErrAccountNotFound, ErrInsufficientFunds, ErrDuplicateReference, ErrPersistence} {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, repo.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrDuplicateReference, reference)
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func (s *TransactionService) build(req CreateTransactionRequest) (models.Transaction, error) {
	var errs validate.Errs
	errs.Add(validate.Required("account_iban", req.AccountIBAN))
	errs.Add(validate.Positive("amount", req.Amount))
	errs.Add(validate.NonNegative("fee", req.Fee))
	errs.Add(validate.MaxScale("amount", req.Amount, models.MoneyScale))
	errs.Add(validate.MaxScale("fee", req.Fee, models.MoneyScale))
	if err := errs.Err(); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	t := models.Transaction{
		Reference:   strings.TrimSpace(req.Reference),
		AccountIBAN: strings.TrimSpace(req.AccountIBAN),
		Amount:      *req.Amount,
		Fee:         decimal.Zero,
		Description: req.Description,
	}
	if t.Reference == "" {
		t.Reference = uuid.NewString()
	}
	if req.Fee != nil {
		t.Fee = *req.Fee
	}
	now := s.now()
	t.Date = now
	if req.Date != nil {
		// zone-less dates are read in the service time zone
		t.Date = req.Date.In(now.Location())
	}
	return t, nil
}

func (s *TransactionService) rejected(ctx context.Context, reference string, err error) {
	code := ErrorCode(err)
	metrics.TransactionsRejected.WithLabelValues(code).Inc()
	if errors.Is(err, ErrPersistence) {
		s.log.ErrorContext(ctx, "transaction not persisted", "reference", reference, "err", err)
	} else {
		s.log.InfoContext(ctx, "transaction rejected", "reference", reference, "code", code, "err", err)
	}
	if reference == "" {
		return
	}
	s.rec.Record(ctx, models.AuditLog{
		EntityType: models.EntityTransaction,
		EntityID:   reference,
		Action:     "rejected",
		Details:    map[string]any{"code": code, "message": err.Error()},
	}, "")
}

// ----------------- Queries -----------------

// Search lists an account's transactions by amount. An empty IBAN matches
// nothing.
func (s *TransactionService) Search(ctx context.Context, iban string, dir models.SortDirection) ([]models.Transaction, error) {
	iban = strings.TrimSpace(iban)
	if iban == "" {
		return []models.Transaction{}, nil
	}
	out, err := s.trx.ListByAccount(ctx, iban, dir != models.SortDesc)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", iban, err)
	}
	return out, nil
}

// Status resolves reference as seen from channel. The clock is read once.
func (s *TransactionService) Status(ctx context.Context, reference string, channel models.Channel) (models.StatusView, error) {
	if !channel.Valid() {
		return models.StatusView{}, fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
	}
	now := s.now()

	var txn *models.Transaction
	if reference = strings.TrimSpace(reference); reference != "" {
		t, err := s.trx.GetByReference(ctx, reference)
		switch {
		case err == nil:
			txn = &t
		case errors.Is(err, repo.ErrNotFound):
		default:
			return models.StatusView{}, fmt.Errorf("lookup %s: %w", reference, err)
		}
	}

	view, err := ResolveStatus(reference, txn, channel, now)
	if err != nil {
		s.log.ErrorContext(ctx, "status resolution failed", "reference", reference, "channel", channel, "err", err)
		return models.StatusView{}, err
	}
	metrics.StatusLookups.WithLabelValues(string(channel), string(view.Status)).Inc()
	return view, nil
}
