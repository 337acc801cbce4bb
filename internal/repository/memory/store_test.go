package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/bank-transactions/internal/models"
	"github.com/baharkarakas/bank-transactions/internal/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newRepos(t *testing.T, balances map[string]string) repository.Repositories {
	t.Helper()
	repos := NewRepositories(NewStore())
	for iban, b := range balances {
		_, err := repos.Accounts.Create(context.Background(), models.Account{IBAN: iban, Balance: dec(b)})
		require.NoError(t, err)
	}
	return repos
}

func txn(ref, iban, amount string) models.Transaction {
	return models.Transaction{Reference: ref, AccountIBAN: iban, Amount: dec(amount), Date: time.Now()}
}

func TestAccounts_CreateRejectsDuplicate(t *testing.T) {
	repos := newRepos(t, map[string]string{"ES01": "10"})

	_, err := repos.Accounts.Create(context.Background(), models.Account{IBAN: "ES01", Balance: dec("99")})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	a, err := repos.Accounts.GetByIBAN(context.Background(), "ES01")
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("10")), "balance must not be overwritten")
}

func TestAccounts_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t, map[string]string{"ES01": "10"})

	a, err := repos.Accounts.AdjustBalance(ctx, "ES01", dec("-4.50"))
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("5.50")))

	_, err = repos.Accounts.AdjustBalance(ctx, "ES01", dec("-6"))
	assert.ErrorIs(t, err, repository.ErrNegativeBalance)

	_, err = repos.Accounts.AdjustBalance(ctx, "XX00", dec("1"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransactions_DuplicateReference(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t, map[string]string{"ES01": "10"})

	_, err := repos.Transactions.Create(ctx, txn("R1", "ES01", "1"))
	require.NoError(t, err)
	_, err = repos.Transactions.Create(ctx, txn("R1", "ES01", "2"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := repos.Transactions.GetByReference(ctx, "R1")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("1")), "first write wins")
}

func TestTransactions_ListByAccountOrdering(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t, map[string]string{"ES01": "10", "ES02": "10"})

	for _, tx := range []models.Transaction{
		txn("A", "ES01", "30"),
		txn("B", "ES01", "10"),
		txn("C", "ES01", "20"),
		txn("D", "ES01", "10"),
		txn("E", "ES02", "5"),
	} {
		_, err := repos.Transactions.Create(ctx, tx)
		require.NoError(t, err)
	}

	asc, err := repos.Transactions.ListByAccount(ctx, "ES01", true)
	require.NoError(t, err)
	desc, err := repos.Transactions.ListByAccount(ctx, "ES01", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "D", "C", "A"}, refs(asc))
	assert.Equal(t, []string{"A", "C", "D", "B"}, refs(desc))

	none, err := repos.Transactions.ListByAccount(ctx, "NOPE", true)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTxManager_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t, map[string]string{"ES01": "10"})
	boom := errors.New("boom")

	err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := repos.Transactions.Create(ctx, txn("R1", "ES01", "3")); err != nil {
			return err
		}
		if _, err := repos.Accounts.AdjustBalance(ctx, "ES01", dec("-3")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Transactions.GetByReference(ctx, "R1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	a, err := repos.Accounts.GetByIBAN(ctx, "ES01")
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("10")))
}

func TestTxManager_CommitAppliesWritesTogether(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t, map[string]string{"ES01": "10"})

	err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := repos.Transactions.Create(ctx, txn("R1", "ES01", "3")); err != nil {
			return err
		}
		// not visible before commit
		if _, err := repos.Transactions.GetByReference(context.Background(), "R1"); !errors.Is(err, repository.ErrNotFound) {
			return errors.New("insert leaked before commit")
		}
		a, err := repos.Accounts.AdjustBalance(ctx, "ES01", dec("-3"))
		if err != nil {
			return err
		}
		if !a.Balance.Equal(dec("7")) {
			return errors.New("unit must see its own debit")
		}
		return nil
	})
	require.NoError(t, err)

	_, err = repos.Transactions.GetByReference(ctx, "R1")
	assert.NoError(t, err)
	a, err := repos.Accounts.GetByIBAN(ctx, "ES01")
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("7")))
}

func TestTxManager_SerializesPerAccount(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t, map[string]string{"ES01": "100"})

	const workers = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
				a, err := repos.Accounts.GetForUpdate(ctx, "ES01")
				if err != nil {
					return err
				}
				if !a.CanCover(dec("7")) {
					return errors.New("insufficient")
				}
				if _, err := repos.Transactions.Create(ctx, txn(fmt.Sprintf("R%d", i), "ES01", "7")); err != nil {
					return err
				}
				_, err = repos.Accounts.AdjustBalance(ctx, "ES01", dec("-7"))
				return err
			})
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 14, admitted)
	a, err := repos.Accounts.GetByIBAN(ctx, "ES01")
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("2")), "got %s", a.Balance)

	list, err := repos.Transactions.ListByAccount(ctx, "ES01", true)
	require.NoError(t, err)
	assert.Len(t, list, 14)
}

func TestAuditLogs_ListByEntity(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t, nil)

	require.NoError(t, repos.AuditLogs.Create(ctx, models.AuditLog{EntityType: models.EntityTransaction, EntityID: "R1", Action: "created"}))
	require.NoError(t, repos.AuditLogs.Create(ctx, models.AuditLog{EntityType: models.EntityAccount, EntityID: "R1", Action: "created"}))

	logs, err := repos.AuditLogs.ListByEntity(ctx, models.EntityTransaction, "R1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.NotEmpty(t, logs[0].ID)
	assert.False(t, logs[0].CreatedAt.IsZero())
}

func refs(ts []models.Transaction) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Reference)
	}
	return out
}
