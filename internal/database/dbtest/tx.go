// Package dbtest provides an in-memory unit of work for use case tests.
package dbtest

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/database"
)

// Snapshotter is an in-memory store that can save and restore its state.
type Snapshotter interface {
	Snapshot() (restore func())
}

// TxManager mimics database.SQLTxManager over in-memory stores: when fn
// fails, every registered store is rolled back to its state before fn ran.
type TxManager struct {
	stores    []Snapshotter
	Commits   int
	Rollbacks int
}

func NewTxManager(stores ...Snapshotter) *TxManager {
	return &TxManager{stores: stores}
}

func (m *TxManager) Register(stores ...Snapshotter) {
	m.stores = append(m.stores, stores...)
}

type txKey struct{}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	restores := make([]func(), len(m.stores))
	for i, s := range m.stores {
		restores[i] = s.Snapshot()
	}

	txCtx, hooks := database.WithCommitHooks(context.WithValue(ctx, txKey{}, true))
	if err := fn(txCtx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		m.Rollbacks++
		return err
	}
	m.Commits++
	hooks.Run()
	return nil
}
