package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-transactions/internal/models"
	"github.com/baharkarakas/bank-transactions/internal/repository"
)

type accountsRepo struct{ s *Store }

func (r *accountsRepo) Create(_ context.Context, a models.Account) (models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.IBAN]; ok {
		return models.Account{}, fmt.Errorf("account %s: %w", a.IBAN, repository.ErrDuplicate)
	}
	now := r.s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.accounts[a.IBAN] = a
	return a, nil
}

func (r *accountsRepo) GetByIBAN(_ context.Context, iban string) (models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[iban]
	if !ok {
		return models.Account{}, fmt.Errorf("account %s: %w", iban, repository.ErrNotFound)
	}
	return a, nil
}

func (r *accountsRepo) GetForUpdate(ctx context.Context, iban string) (models.Account, error) {
	u := unitFrom(ctx)
	if u == nil {
		return r.GetByIBAN(ctx, iban)
	}
	if !r.s.exists(iban) {
		return models.Account{}, fmt.Errorf("account %s: %w", iban, repository.ErrNotFound)
	}
	u.lock(r.s, iban)
	a, err := r.GetByIBAN(ctx, iban)
	if err != nil {
		return models.Account{}, err
	}
	a.Balance = a.Balance.Add(u.deltas[iban])
	return a, nil
}

func (r *accountsRepo) AdjustBalance(ctx context.Context, iban string, delta decimal.Decimal) (models.Account, error) {
	if u := unitFrom(ctx); u != nil {
		a, err := r.GetForUpdate(ctx, iban)
		if err != nil {
			return models.Account{}, err
		}
		a.Balance = a.Balance.Add(delta)
		if a.Balance.IsNegative() {
			return models.Account{}, fmt.Errorf("account %s: %w", iban, repository.ErrNegativeBalance)
		}
		u.deltas[iban] = u.deltas[iban].Add(delta)
		return a, nil
	}

	if !r.s.exists(iban) {
		return models.Account{}, fmt.Errorf("account %s: %w", iban, repository.ErrNotFound)
	}
	m := r.s.lockFor(iban)
	m.Lock()
	defer m.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.s.accounts[iban]
	b := a.Balance.Add(delta)
	if b.IsNegative() {
		return models.Account{}, fmt.Errorf("account %s: %w", iban, repository.ErrNegativeBalance)
	}
	a.Balance = b
	a.UpdatedAt = r.s.now()
	r.s.accounts[iban] = a
	return a, nil
}
