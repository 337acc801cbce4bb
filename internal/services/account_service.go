package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-transactions/internal/api/validate"
	"github.com/baharkarakas/bank-transactions/internal/events"
	"github.com/baharkarakas/bank-transactions/internal/models"
	repo "github.com/baharkarakas/bank-transactions/internal/repository"
)

type CreateAccountRequest struct {
	IBAN    string           `json:"iban"`
	Balance *decimal.Decimal `json:"balance"`
}

type AccountService struct {
	r   repo.Accounts
	rec *Recorder
	log *slog.Logger
}

func NewAccountService(r repo.Accounts, rec *Recorder, log *slog.Logger) *AccountService {
	if log == nil {
		log = slog.Default()
	}
	return &AccountService{r: r, rec: rec, log: log}
}

func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (models.Account, error) {
	var errs validate.Errs
	errs.Add(validate.Required("iban", req.IBAN))
	if req.Balance == nil {
		errs.Add(&validate.ErrField{Field: "balance", Msg: "required"})
	} else {
		errs.Add(validate.NonNegative("balance", req.Balance))
		errs.Add(validate.MaxScale("balance", req.Balance, models.MoneyScale))
	}
	if err := errs.Err(); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	a, err := s.r.Create(ctx, models.Account{IBAN: strings.TrimSpace(req.IBAN), Balance: *req.Balance})
	if errors.Is(err, repo.ErrDuplicate) {
		return models.Account{}, fmt.Errorf("%w: %s", ErrAccountExists, req.IBAN)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: create account: %w", ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "account created", "iban", a.IBAN, "balance", a.Balance)
	s.rec.Record(ctx, models.AuditLog{
		EntityType: models.EntityAccount,
		EntityID:   a.IBAN,
		Action:     "created",
		Details:    map[string]any{"iban": a.IBAN, "opening_balance": a.Balance.String()},
	}, events.TypeAccountCreated)
	return a, nil
}

func (s *AccountService) Get(ctx context.Context, iban string) (models.Account, error) {
	a, err := s.r.GetByIBAN(ctx, strings.TrimSpace(iban))
	if errors.Is(err, repo.ErrNotFound) {
		return models.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, iban)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get account %s: %w", iban, err)
	}
	return a, nil
}
