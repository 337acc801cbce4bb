package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/baharkarakas/bank-transactions/internal/models"
	"github.com/baharkarakas/bank-transactions/internal/repository"
)

type transactionsRepo struct{ s *Store }

func (r *transactionsRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	u := unitFrom(ctx)
	if u != nil && u.pending(t.Reference) {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", t.Reference, repository.ErrDuplicate)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.txns[t.Reference]; ok {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", t.Reference, repository.ErrDuplicate)
	}
	if u != nil {
		u.inserts = append(u.inserts, t)
		return t, nil
	}
	return r.s.insertLocked(t, r.s.now()), nil
}

func (r *transactionsRepo) GetByReference(_ context.Context, reference string) (models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.txns[reference]
	if !ok {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", reference, repository.ErrNotFound)
	}
	return rec.txn, nil
}

func (r *transactionsRepo) ListByAccount(_ context.Context, iban string, ascending bool) ([]models.Transaction, error) {
	r.s.mu.RLock()
	refs := r.s.byAccount[iban]
	recs := make([]record, 0, len(refs))
	for _, ref := range refs {
		recs = append(recs, r.s.txns[ref])
	}
	r.s.mu.RUnlock()

	slices.SortFunc(recs, byAmount)
	if !ascending {
		slices.Reverse(recs)
	}
	out := make([]models.Transaction, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.txn)
	}
	return out, nil
}
