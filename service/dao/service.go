package dao

import (
	"context"
)

// Service is a generic keyed store abstraction.  The dispatcher uses it to
// keep per-thread bookkeeping; alternative backends only need to honour this
// contract.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}
