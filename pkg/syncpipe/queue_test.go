package syncpipe

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

func entry(ref string, at time.Time) models.BurstQueueEntry {
	return models.BurstQueueEntry{
		EntityType: "course",
		EntityRef:  ref,
		ChangeType: "UPDATE",
		EnqueuedAt: at,
	}
}

func TestBurstQueueDrainIsAtomic(t *testing.T) {
	queue := NewBurstQueue()
	now := time.Now()
	queue.Enqueue(entry("a", now))
	queue.Enqueue(entry("b", now))

	drained := queue.Drain()
	assert.Len(t, drained, 2)
	assert.Zero(t, queue.Len())
	assert.Empty(t, queue.Drain())
}

func TestBurstQueueRestorePrepends(t *testing.T) {
	queue := NewBurstQueue()
	now := time.Now()
	queue.Enqueue(entry("a", now))
	queue.Enqueue(entry("b", now))

	drained := queue.Drain()
	queue.Enqueue(entry("c", now))
	queue.Restore(drained)

	final := queue.Drain()
	assert.Len(t, final, 3)
	assert.Equal(t, "a", final[0].EntityRef)
	assert.Equal(t, "b", final[1].EntityRef)
	assert.Equal(t, "c", final[2].EntityRef)
}

func TestBurstQueueRestoreEmptyIsNoop(t *testing.T) {
	queue := NewBurstQueue()
	queue.Restore(nil)
	assert.Zero(t, queue.Len())
}

func TestBurstQueueOldestEnqueuedAt(t *testing.T) {
	queue := NewBurstQueue()
	assert.Nil(t, queue.OldestEnqueuedAt())

	newer := time.Now()
	older := newer.Add(-time.Minute)
	queue.Enqueue(entry("newer", newer))
	queue.Enqueue(entry("older", older))

	oldest := queue.OldestEnqueuedAt()
	assert.NotNil(t, oldest)
	assert.True(t, oldest.Equal(older))
}

func TestBurstQueueConcurrentEnqueueDuringDrain(t *testing.T) {
	queue := NewBurstQueue()
	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				queue.Enqueue(entry(fmt.Sprintf("%d-%d", p, i), time.Now()))
			}
		}(p)
	}

	// Drain repeatedly while producers run; every entry must land in
	// exactly one snapshot.
	collected := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		collected += len(queue.Drain())
		select {
		case <-done:
			collected += len(queue.Drain())
			assert.Equal(t, producers*perProducer, collected)
			return
		default:
		}
	}
}
