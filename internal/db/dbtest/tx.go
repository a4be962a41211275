// Package dbtest provides test doubles for the db package.
package dbtest

import (
	"context"
	"sync"
)

// SerialTransactor implements db.Transactor by running transactions one at a
// time under a mutex. It gives in-memory repositories the same isolation a
// row lock gives the Postgres ones, without rollback.
type SerialTransactor struct {
	mu sync.Mutex
}

type inTxKey struct{}

func (t *SerialTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(context.WithValue(ctx, inTxKey{}, true))
}
