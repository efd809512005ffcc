package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestTree(t *testing.T) *TreeStore {
	t.Helper()
	db, err := Open(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTreeStore(db, nil)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db1, err := Open(ctx, dir, nil)
	require.NoError(t, err)
	require.NoError(t, NewTreeStore(db1, nil).Set(ctx, "a/b", "kept"))
	require.NoError(t, db1.Close())

	db2, err := Open(ctx, dir, nil)
	require.NoError(t, err)
	defer func() { _ = db2.Close() }()

	v, err := NewTreeStore(db2, nil).Get(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "kept", v)
}

func TestTreeStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	tree := openTestTree(t)

	require.NoError(t, tree.Set(ctx, "PhoneNumbers/0911", map[string]any{
		"sim":          "MYTEL",
		"access_token": "t",
	}))
	require.NoError(t, tree.Set(ctx, "PhoneNumbers/0911x", map[string]any{"sim": "ATOM"}))
	require.NoError(t, tree.Update(ctx, "PhoneNumbers/0911", map[string]any{"Quest": "Already Claimed"}))

	v, err := tree.Get(ctx, "PhoneNumbers/0911")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"sim":          "MYTEL",
		"access_token": "t",
		"Quest":        "Already Claimed",
	}, v)

	require.NoError(t, tree.Set(ctx, "PhoneNumbers/0911", nil))
	v, err = tree.Get(ctx, "PhoneNumbers/0911")
	require.NoError(t, err)
	assert.Nil(t, v)

	// The sibling whose key shares a prefix is untouched.
	v, err = tree.Get(ctx, "PhoneNumbers/0911x/sim")
	require.NoError(t, err)
	assert.Equal(t, "ATOM", v)
}

func TestTreeStore_AccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := store.NewAccountRepository(openTestTree(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		phone := fmt.Sprintf("09%03d", i)
		require.NoError(t, repo.SaveAccount(ctx, &domain.Account{PhoneNumber: phone, SIM: "MYTEL", AccessToken: "t"}))
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.SetQuestOutcome(ctx, phone, domain.QuestClaimed))
			assert.NoError(t, repo.SetFinishTime(ctx, phone, "2024-03-01 10:00:00"))
		}()
	}
	wg.Wait()

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 20)
	for _, a := range accounts {
		assert.Equal(t, domain.QuestClaimed, a.QuestOutcome, a.PhoneNumber)
		assert.True(t, a.CompletedOn("2024-03-01"), a.PhoneNumber)
	}
}

func TestTreeStore_InvalidPath(t *testing.T) {
	tree := openTestTree(t)
	_, err := tree.Get(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrInvalidPath)
}
