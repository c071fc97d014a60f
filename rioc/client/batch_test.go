package client

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/hpkv-io/rioc-go/rioc/common"
)

// TestBatchMixedOps pipelines four mixed operations and checks every slot.
func TestBatchMixedOps(t *testing.T) {
	srv := newTestServer(t)
	c := srv.connect(t)

	b := c.NewBatch()
	if err := b.AddInsert([]byte("a"), []byte("1"), 1); err != nil {
		t.Fatalf("AddInsert: %v", err)
	}
	if err := b.AddInsert([]byte("b"), []byte("2"), 2); err != nil {
		t.Fatalf("AddInsert: %v", err)
	}
	if err := b.AddGet([]byte("a")); err != nil {
		t.Fatalf("AddGet: %v", err)
	}
	if err := b.AddDelete([]byte("b"), 3); err != nil {
		t.Fatalf("AddDelete: %v", err)
	}

	tracker, err := b.SubmitAsync()
	if err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}
	defer tracker.Retire()

	if err := tracker.Wait(0); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	wantKinds := []ResultKind{ResultNone, ResultNone, ResultBytes, ResultNone}
	for i, want := range wantKinds {
		res, err := tracker.Result(i)
		if err != nil {
			t.Fatalf("Result(%d): %v", i, err)
		}
		if res.Status != common.StatusSuccess {
			t.Errorf("slot %d status = %v, want success", i, res.Status)
		}
		if res.Kind != want {
			t.Errorf("slot %d kind = %v, want %v", i, res.Kind, want)
		}
	}

	res, _ := tracker.Result(2)
	if !bytes.Equal(res.Bytes, []byte("1")) {
		t.Errorf("slot 2 bytes = %q, want 1", res.Bytes)
	}
}

// TestBatchPositionalCorrespondence submits distinct gets and checks that
// slot i always carries the i-th key's value.
func TestBatchPositionalCorrespondence(t *testing.T) {
	srv := newTestServer(t)
	c := srv.connect(t)

	const n = 16
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("pos-%02d", i)
		if err := c.Insert([]byte(key), []byte(fmt.Sprintf("val-%02d", i)), 1); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	b := c.NewBatch()
	// Interleave hits and misses so statuses differ per slot too.
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("pos-%02d", i)
		if i%4 == 3 {
			key = fmt.Sprintf("missing-%02d", i)
		}
		if err := b.AddGet([]byte(key)); err != nil {
			t.Fatalf("AddGet: %v", err)
		}
	}

	tracker, err := b.SubmitAsync()
	if err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}
	defer tracker.Retire()
	if err := tracker.Wait(0); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := tracker.ResponsesReceived(); got != n {
		t.Errorf("ResponsesReceived = %d, want %d", got, n)
	}

	for i := 0; i < n; i++ {
		res, err := tracker.Result(i)
		if err != nil {
			t.Fatalf("Result(%d): %v", i, err)
		}
		if i%4 == 3 {
			if res.Status != common.StatusNotFound {
				t.Errorf("slot %d status = %v, want not found", i, res.Status)
			}
			if res.Kind != ResultNone {
				t.Errorf("slot %d kind = %v, want none", i, res.Kind)
			}
			continue
		}
		if res.Status != common.StatusSuccess {
			t.Fatalf("slot %d status = %v", i, res.Status)
		}
		if want := fmt.Sprintf("val-%02d", i); string(res.Bytes) != want {
			t.Errorf("slot %d = %q, want %q", i, res.Bytes, want)
		}
	}
}

// TestBatchCounterAndRange checks the typed payload variants on the batch
// path.
func TestBatchCounterAndRange(t *testing.T) {
	srv := newTestServer(t)
	c := srv.connect(t)

	b := c.NewBatch()
	if err := b.AddAtomicIncDec([]byte("ctr"), 41, 1); err != nil {
		t.Fatalf("AddAtomicIncDec: %v", err)
	}
	if err := b.AddAtomicIncDec([]byte("ctr"), 1, 2); err != nil {
		t.Fatalf("AddAtomicIncDec: %v", err)
	}
	if err := b.AddInsert([]byte("r_a"), []byte("1"), 3); err != nil {
		t.Fatalf("AddInsert: %v", err)
	}
	if err := b.AddInsert([]byte("r_b"), []byte("2"), 4); err != nil {
		t.Fatalf("AddInsert: %v", err)
	}
	if err := b.AddRangeQuery([]byte("r_a"), []byte("r_b")); err != nil {
		t.Fatalf("AddRangeQuery: %v", err)
	}

	tracker, err := b.SubmitAsync()
	if err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}
	defer tracker.Retire()
	if err := tracker.Wait(0); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	res, _ := tracker.Result(1)
	if res.Kind != ResultCounter || res.Counter != 42 {
		t.Errorf("slot 1 = %v/%d, want counter 42", res.Kind, res.Counter)
	}

	res, _ = tracker.Result(4)
	if res.Kind != ResultRange {
		t.Fatalf("slot 4 kind = %v, want range", res.Kind)
	}
	if len(res.Range) != 2 || string(res.Range[0].Key) != "r_a" || string(res.Range[1].Value) != "2" {
		t.Errorf("slot 4 range = %v", res.Range)
	}
}

// TestBatchSaturation fills a batch to the limit; the 129th add fails and
// the 128 accumulated operations still go through.
func TestBatchSaturation(t *testing.T) {
	srv := newTestServer(t)
	c := srv.connect(t)

	b := c.NewBatch()
	for i := 0; i < 128; i++ {
		key := []byte(fmt.Sprintf("sat-%03d", i))
		if err := b.AddInsert(key, []byte("x"), uint64(i)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	if err := b.AddInsert([]byte("one-too-many"), []byte("x"), 129); common.CodeOf(err) != common.StatusParam {
		t.Fatalf("129th add: err = %v, want param error", err)
	}
	if b.Len() != 128 {
		t.Fatalf("Len = %d after rejected add, want 128", b.Len())
	}

	tracker, err := b.SubmitAsync()
	if err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}
	defer tracker.Retire()
	if err := tracker.Wait(0); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	for i := 0; i < 128; i++ {
		res, err := tracker.Result(i)
		if err != nil || res.Status != common.StatusSuccess {
			t.Fatalf("slot %d: res=%v err=%v", i, res, err)
		}
	}
}

// TestAddValidationDoesNotMutate checks rejected adds leave the batch
// unchanged.
func TestAddValidationDoesNotMutate(t *testing.T) {
	srv := newTestServer(t)
	c := srv.connect(t)

	b := c.NewBatch()
	if err := b.AddGet([]byte("keep")); err != nil {
		t.Fatalf("AddGet: %v", err)
	}

	if err := b.AddGet(make([]byte, 513)); common.CodeOf(err) != common.StatusParam {
		t.Errorf("oversize key: err = %v", err)
	}
	if err := b.AddInsert([]byte("k"), make([]byte, 100_001), 1); common.CodeOf(err) != common.StatusParam {
		t.Errorf("oversize value: err = %v", err)
	}
	if err := b.AddGet(nil); common.CodeOf(err) != common.StatusParam {
		t.Errorf("empty key: err = %v", err)
	}

	if b.Len() != 1 {
		t.Errorf("Len = %d, want 1", b.Len())
	}
}

func TestSubmitEmptyBatch(t *testing.T) {
	srv := newTestServer(t)
	c := srv.connect(t)

	if _, err := c.NewBatch().SubmitAsync(); common.CodeOf(err) != common.StatusParam {
		t.Errorf("err = %v, want param error", err)
	}
}

func TestSubmitTwice(t *testing.T) {
	srv := newTestServer(t)
	c := srv.connect(t)

	b := c.NewBatch()
	if err := b.AddGet([]byte("k")); err != nil {
		t.Fatalf("AddGet: %v", err)
	}
	tracker, err := b.SubmitAsync()
	if err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}
	defer tracker.Retire()
	if err := tracker.Wait(0); common.CodeOf(err) != common.StatusSuccess {
		t.Fatalf("Wait: %v", err)
	}

	if _, err := b.SubmitAsync(); common.CodeOf(err) != common.StatusParam {
		t.Errorf("second submit: err = %v, want param error", err)
	}
	if err := b.AddGet([]byte("k2")); common.CodeOf(err) != common.StatusParam {
		t.Errorf("add after submit: err = %v, want param error", err)
	}
}

// TestSecondSubmitWhileInFlight checks that the session admits only one
// batch at a time.
func TestSecondSubmitWhileInFlight(t *testing.T) {
	srv := newTestServer(t)
	srv.stall.Store(true)
	c := srv.connect(t)

	b := c.NewBatch()
	if err := b.AddGet([]byte("k")); err != nil {
		t.Fatalf("AddGet: %v", err)
	}
	tracker, err := b.SubmitAsync()
	if err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}

	b2 := c.NewBatch()
	if err := b2.AddGet([]byte("k")); err != nil {
		t.Fatalf("AddGet: %v", err)
	}
	if _, err := b2.SubmitAsync(); common.CodeOf(err) != common.StatusBusy {
		t.Errorf("overlapping submit: err = %v, want busy", err)
	}
	if _, err := c.Get([]byte("k")); common.CodeOf(err) != common.StatusBusy {
		t.Errorf("sync op while in flight: err = %v, want busy", err)
	}

	// Unblock the receiver and clean up.
	srv.Close()
	if err := tracker.Wait(0); common.CodeOf(err) != common.StatusIO {
		t.Errorf("Wait after server death: err = %v, want i/o error", err)
	}
	tracker.Retire()
}
