package syncpipe

import (
	"sync"
	"time"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

// BurstQueue is the owned, concurrently-appended buffer of pending burst
// changes. Many producers enqueue; a drain atomically snapshots and removes
// exactly the entries it returns, so nothing enqueued mid-drain is lost or
// double-packaged.
type BurstQueue struct {
	mu      sync.Mutex
	entries []models.BurstQueueEntry
}

func NewBurstQueue() *BurstQueue {
	return &BurstQueue{}
}

func (q *BurstQueue) Enqueue(entry models.BurstQueueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry)
}

// Drain removes and returns everything currently queued in one atomic step.
func (q *BurstQueue) Drain() []models.BurstQueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.entries
	q.entries = nil
	return drained
}

// Restore puts previously drained entries back at the head of the queue.
// Used when packaging fails after a drain, preserving original order ahead of
// anything enqueued since.
func (q *BurstQueue) Restore(entries []models.BurstQueueEntry) {
	if len(entries) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(append([]models.BurstQueueEntry{}, entries...), q.entries...)
}

func (q *BurstQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// OldestEnqueuedAt returns the enqueue time of the oldest entry, or nil when
// the queue is empty.
func (q *BurstQueue) OldestEnqueuedAt() *time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return nil
	}
	oldest := q.entries[0].EnqueuedAt
	for _, e := range q.entries[1:] {
		if e.EnqueuedAt.Before(oldest) {
			oldest = e.EnqueuedAt
		}
	}
	return &oldest
}
