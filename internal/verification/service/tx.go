package service

import "context"

// StoreTx provides a transactional boundary around case writes and their
// audit events. The Postgres implementation carries the transaction in the
// context handed to fn.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// passthroughTx is used with the in-memory store, where Execute is already
// atomic and audit writes cannot join a transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
