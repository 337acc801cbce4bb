// Package memory keeps accounts, transactions and audit logs in process.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-transactions/internal/models"
	"github.com/baharkarakas/bank-transactions/internal/repository"
)

type record struct {
	seq int64
	txn models.Transaction
}

type Store struct {
	mu        sync.RWMutex
	accounts  map[string]models.Account
	txns      map[string]record
	byAccount map[string][]string
	audit     []models.AuditLog
	seq       int64

	// per-IBAN locks, held for the lifetime of a unit of work
	locks sync.Map
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]models.Account),
		txns:      make(map[string]record),
		byAccount: make(map[string][]string),
		now:       time.Now,
	}
}

func NewRepositories(s *Store) repository.Repositories {
	return repository.Repositories{
		Accounts:     &accountsRepo{s},
		Transactions: &transactionsRepo{s},
		AuditLogs:    &auditLogsRepo{s},
		Tx:           &txManager{s},
	}
}

func (s *Store) lockFor(iban string) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(iban, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func (s *Store) exists(iban string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[iban]
	return ok
}

// insertLocked expects s.mu to be held for writing.
func (s *Store) insertLocked(t models.Transaction, now time.Time) models.Transaction {
	s.seq++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	s.txns[t.Reference] = record{seq: s.seq, txn: t}
	s.byAccount[t.AccountIBAN] = append(s.byAccount[t.AccountIBAN], t.Reference)
	return t
}

// commit applies a unit's buffered writes or none of them.
func (s *Store) commit(u *unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range u.inserts {
		if _, ok := s.txns[t.Reference]; ok {
			return fmt.Errorf("transaction %s: %w", t.Reference, repository.ErrDuplicate)
		}
	}
	balances := make(map[string]decimal.Decimal, len(u.deltas))
	for iban, d := range u.deltas {
		a, ok := s.accounts[iban]
		if !ok {
			return fmt.Errorf("account %s: %w", iban, repository.ErrNotFound)
		}
		b := a.Balance.Add(d)
		if b.IsNegative() {
			return fmt.Errorf("account %s: %w", iban, repository.ErrNegativeBalance)
		}
		balances[iban] = b
	}

	now := s.now()
	for iban, b := range balances {
		a := s.accounts[iban]
		a.Balance = b
		a.UpdatedAt = now
		s.accounts[iban] = a
	}
	for _, t := range u.inserts {
		s.insertLocked(t, now)
	}
	return nil
}

type unitKey struct{}

// unit is the in-memory analogue of a database transaction. It is owned
// by the goroutine running WithTransaction.
type unit struct {
	held    map[string]*sync.Mutex
	inserts []models.Transaction
	deltas  map[string]decimal.Decimal
}

func unitFrom(ctx context.Context) *unit {
	u, _ := ctx.Value(unitKey{}).(*unit)
	return u
}

func (u *unit) lock(s *Store, iban string) {
	if _, ok := u.held[iban]; ok {
		return
	}
	m := s.lockFor(iban)
	m.Lock()
	u.held[iban] = m
}

func (u *unit) pending(reference string) bool {
	return slices.ContainsFunc(u.inserts, func(t models.Transaction) bool { return t.Reference == reference })
}

func (u *unit) release() {
	for iban, m := range u.held {
		m.Unlock()
		delete(u.held, iban)
	}
}

type txManager struct{ s *Store }

func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if unitFrom(ctx) != nil {
		return fn(ctx)
	}
	u := &unit{held: make(map[string]*sync.Mutex), deltas: make(map[string]decimal.Decimal)}
	defer u.release()

	if err := fn(context.WithValue(ctx, unitKey{}, u)); err != nil {
		return err
	}
	return m.s.commit(u)
}

func byAmount(a, b record) int {
	if c := a.txn.Amount.Cmp(b.txn.Amount); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}
