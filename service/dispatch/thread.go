package dispatch

import (
	"context"
	"sync"

	"github.com/viant/agui/service/dao"
	"github.com/viant/agui/service/dao/store"
)

// threadRecord keeps per-thread bookkeeping.  Its mutex serialises runs on
// the same thread so that concurrent requests cannot interleave tool effects
// on the shared document.
type threadRecord struct {
	ID        string
	Runs      int
	LastRunID string
	mu        sync.Mutex
}

type threads struct {
	store dao.Service[string, threadRecord]
	mux   sync.Mutex
}

func newThreads() *threads {
	return &threads{
		store: store.NewMemoryStore[string, threadRecord](func(t *threadRecord) string { return t.ID }),
	}
}

// acquire returns the record for threadID with its mutex held; the caller
// releases it once the run completes.
func (t *threads) acquire(ctx context.Context, threadID string) (*threadRecord, error) {
	t.mux.Lock()
	record, err := t.store.Load(ctx, threadID)
	if err == nil && record == nil {
		record = &threadRecord{ID: threadID}
		err = t.store.Save(ctx, record)
	}
	t.mux.Unlock()
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	return record, nil
}
