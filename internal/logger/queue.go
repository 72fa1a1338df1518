package logger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scriptdeck/scriptdeck/internal/model"
)

// BatchQueue buffers entries in memory and flushes them when the batch size
// is reached or the flush interval elapses. The queue is bounded: when it is
// full the oldest entry is dropped and counted, so a stalled sink cannot grow
// memory without limit.
type BatchQueue struct {
	writer    *Writer
	table     RoutingTable
	batchSize int
	capacity  int
	interval  time.Duration

	mu      sync.Mutex
	pending []model.Log

	dropped atomic.Uint64

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewBatchQueue(writer *Writer, table RoutingTable, batchSize, capacity int, interval time.Duration) *BatchQueue {
	if batchSize <= 0 {
		batchSize = 100
	}
	if capacity < batchSize {
		capacity = batchSize * 10
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &BatchQueue{
		writer:    writer,
		table:     table,
		batchSize: batchSize,
		capacity:  capacity,
		interval:  interval,
		pending:   make([]model.Log, 0, batchSize),
		done:      make(chan struct{}),
	}
}

// Start launches the interval flusher.
func (q *BatchQueue) Start() {
	q.ticker = time.NewTicker(q.interval)
	go func() {
		for {
			select {
			case <-q.ticker.C:
				q.Flush(context.Background())
			case <-q.done:
				return
			}
		}
	}()
}

func (q *BatchQueue) Enqueue(entry model.Log) {
	q.mu.Lock()
	if len(q.pending) >= q.capacity {
		q.pending = q.pending[1:]
		q.dropped.Add(1)
	}
	q.pending = append(q.pending, entry)
	full := len(q.pending) >= q.batchSize
	q.mu.Unlock()

	if full {
		q.Flush(context.Background())
	}
}

// Flush swaps the pending batch out before any write starts, so entries
// enqueued during an in-flight flush land in the next batch. Writes run
// concurrently and all are awaited; sink failures are absorbed by the writer.
func (q *BatchQueue) Flush(ctx context.Context) {
	q.mu.Lock()
	batch := q.pending
	q.pending = make([]model.Log, 0, q.batchSize)
	q.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, entry := range batch {
		wg.Add(1)
		go func(e model.Log) {
			defer wg.Done()
			q.writer.Write(ctx, e, q.table.Decide(e.Level, e.Type))
		}(entry)
	}
	wg.Wait()
}

// Stop cancels the interval flusher and drains whatever is still buffered.
func (q *BatchQueue) Stop(ctx context.Context) {
	q.stopOnce.Do(func() {
		if q.ticker != nil {
			q.ticker.Stop()
		}
		close(q.done)
	})
	q.Flush(ctx)
}

// Len reports how many entries are currently buffered.
func (q *BatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Dropped reports how many entries were discarded because the queue was full.
func (q *BatchQueue) Dropped() uint64 {
	return q.dropped.Load()
}
