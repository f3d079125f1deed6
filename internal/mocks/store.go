package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// MockStore implements store.Store for testing failure paths that a
// real backend cannot easily produce.
type MockStore struct {
	// ReposFn allows test cases to mock the Repos behavior
	ReposFn func() store.Repositories

	// RunInTxFn allows test cases to mock the RunInTx behavior
	RunInTxFn func(ctx context.Context, fn store.RepoFn) error

	// Repositories is passed to the unit of work when RunInTxFn is nil
	Repositories store.Repositories

	// TxErr is returned by RunInTx when RunInTxFn is nil
	TxErr error

	RunInTxCalls struct {
		mu    sync.Mutex
		Count int
	}
}

var _ store.Store = (*MockStore)(nil)

// Repos implements the store.Store interface
func (m *MockStore) Repos() store.Repositories {
	if m.ReposFn != nil {
		return m.ReposFn()
	}
	return m.Repositories
}

// RunInTx implements the store.Store interface. Without RunInTxFn it
// returns TxErr when set, and otherwise runs fn against Repositories.
func (m *MockStore) RunInTx(ctx context.Context, fn store.RepoFn) error {
	m.RunInTxCalls.mu.Lock()
	m.RunInTxCalls.Count++
	m.RunInTxCalls.mu.Unlock()

	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	if m.TxErr != nil {
		return m.TxErr
	}
	return fn(ctx, m.Repositories)
}

// TxCount returns how many times RunInTx was called.
func (m *MockStore) TxCount() int {
	m.RunInTxCalls.mu.Lock()
	defer m.RunInTxCalls.mu.Unlock()
	return m.RunInTxCalls.Count
}
