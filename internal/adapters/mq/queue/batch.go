package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Batch tracks a group of jobs enqueued together, such as every player of
// one catalog refresh.
type Batch struct {
	ID    string
	total int

	done   atomic.Int64
	failed atomic.Int64

	finished chan struct{}
	once     sync.Once
}

// BatchResult summarises a finished batch.
type BatchResult struct {
	ID     string
	Total  int
	Failed int
}

// NewBatch creates a batch expecting total jobs. A batch of zero jobs is
// finished immediately.
func NewBatch(total int) *Batch {
	b := &Batch{
		ID:       uuid.NewString(),
		total:    total,
		finished: make(chan struct{}),
	}
	if total <= 0 {
		b.once.Do(func() { close(b.finished) })
	}
	return b
}

// Done marks one job as finished. A non-nil err counts it as failed.
func (b *Batch) Done(err error) {
	if err != nil {
		b.failed.Add(1)
	}
	if int(b.done.Add(1)) >= b.total {
		b.once.Do(func() { close(b.finished) })
	}
}

// Wait blocks until every job in the batch is done or ctx ends.
func (b *Batch) Wait(ctx context.Context) (BatchResult, error) {
	select {
	case <-b.finished:
		return b.result(), nil
	case <-ctx.Done():
		return b.result(), fmt.Errorf("batch %s: %w", b.ID, ctx.Err())
	}
}

func (b *Batch) result() BatchResult {
	return BatchResult{ID: b.ID, Total: b.total, Failed: int(b.failed.Load())}
}
