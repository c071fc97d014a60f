package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hpkv-io/rioc-go/rioc/common"
)

// --------------------------------------------------------------------------
// Tracker
// --------------------------------------------------------------------------

// Tracker represents an in-flight or completed batch. It owns the batch and
// every buffer the receiver allocated for server-returned values, counters
// and range entries.
//
// completed, received and done are the only synchronization between
// submitter and receiver: the receiver publishes a slot before advancing
// received, and publishes the aggregate status before flipping completed and
// closing done.
type Tracker struct {
	batch *Batch

	done      chan struct{}
	completed atomic.Bool
	status    atomic.Int32
	received  atomic.Uint64

	retireOnce sync.Once
}

// Wait blocks until the batch has completed and returns the aggregate
// status: nil on success, otherwise the first fatal error the receiver
// observed. A timeoutMs of zero waits indefinitely; a positive timeout that
// elapses yields an i/o error without cancelling the receiver.
func (t *Tracker) Wait(timeoutMs uint32) error {
	if timeoutMs == 0 {
		<-t.done
	} else {
		timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
		defer timer.Stop()
		select {
		case <-t.done:
		case <-timer.C:
			return common.Errorf(common.StatusIO, "wait timed out after %d ms", timeoutMs)
		}
	}
	return common.Status(t.status.Load()).Err()
}

// Completed reports whether the receiver has finished, successfully or not.
func (t *Tracker) Completed() bool {
	return t.completed.Load()
}

// Len returns the number of operations in the underlying batch.
func (t *Tracker) Len() int {
	return len(t.batch.ops)
}

// ResponsesReceived returns how many result slots have been populated.
func (t *Tracker) ResponsesReceived() int {
	return int(t.received.Load())
}

// Result returns the status and payload of operation i. An index beyond the
// populated high-water mark yields an i/o error meaning "not yet available".
func (t *Tracker) Result(i int) (OpResult, error) {
	if i < 0 || i >= len(t.batch.ops) {
		return OpResult{}, common.Errorf(common.StatusParam, "result index %d out of range [0,%d)", i, len(t.batch.ops))
	}
	if uint64(i) >= t.received.Load() {
		return OpResult{}, common.Errorf(common.StatusIO, "response %d not yet available", i)
	}
	return t.batch.ops[i].result, nil
}

// Retire joins the background receiver and releases every owned buffer,
// including range-list entries. Further calls are no-ops.
func (t *Tracker) Retire() {
	t.retireOnce.Do(func() {
		<-t.done

		for i := range t.batch.ops {
			t.batch.ops[i].result = OpResult{}
		}
		t.batch.staging = nil
		t.batch.ops = t.batch.ops[:0]
	})
}
