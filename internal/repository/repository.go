// Package repository holds what every record store driver shares: the error
// vocabulary engines match on and the transaction contract.
package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrConflict    = errors.New("record was modified by another request, retry")
	ErrUnavailable = errors.New("record store unavailable")
)

// TxManager runs fn as one unit of work. Drivers without transactions run fn
// directly, so a failure part way through leaves earlier writes in place.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type commitHooksKey struct{}

type commitHooks struct {
	fns []func()
}

// Transact runs fn through tm and, once it has committed, runs every hook
// registered with AfterCommit. Nested calls join the outer unit of work.
func Transact(ctx context.Context, tm TxManager, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(commitHooksKey{}).(*commitHooks); ok {
		return tm.WithinTx(ctx, fn)
	}

	hooks := &commitHooks{}
	ctx = context.WithValue(ctx, commitHooksKey{}, hooks)
	if err := tm.WithinTx(ctx, fn); err != nil {
		return err
	}

	for _, hook := range hooks.fns {
		hook()
	}
	return nil
}

// AfterCommit defers fn until the surrounding Transact commits. Outside of
// Transact it runs fn immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(commitHooksKey{}).(*commitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn()
}

// NoTx is the TxManager for drivers that have no transactions.
type NoTx struct{}

func (NoTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
