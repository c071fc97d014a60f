// Package client implements the rioc protocol engine: a session to one
// server endpoint with a synchronous single-operation API and a pipelined
// batch API.
//
// A batch accumulates up to 128 operations, goes out as one vectored
// transmission, and is answered by the server with one response per
// operation, strictly in request order. The server does not tag responses
// with opcodes, so the client aligns each response against the originating
// request by position; this is why a batch is immutable between submission
// and retirement.
//
// Key Components:
//
//   - Connect: opens a session over plain TCP or TLS 1.3 depending on the
//     configuration.
//
//   - Client.Get/Insert/Delete/RangeQuery/AtomicIncDec: synchronous
//     single-operation calls. On the wire these are batches of size one,
//     indistinguishable from the batch API.
//
//   - Client.NewBatch, Batch.Add*: assembly of a pipelined batch.
//
//   - Batch.SubmitAsync: sends the batch and returns a Tracker. A background
//     receiver demultiplexes the responses into per-operation result slots.
//
//   - Tracker.Wait/Result/Retire: completion, per-index result access and
//     resource release.
//
// Usage Example:
//
//	cfg := common.ClientConfig{Host: "localhost", Port: 8000, TimeoutMs: 5000}
//	c, _ := client.Connect(cfg)
//	defer c.Close()
//
//	_ = c.Insert([]byte("k"), []byte("v"), uint64(time.Now().UnixNano()))
//	value, _ := c.Get([]byte("k"))
//
//	batch := c.NewBatch()
//	_ = batch.AddGet([]byte("k"))
//	_ = batch.AddDelete([]byte("k"), uint64(time.Now().UnixNano()))
//	tracker, _ := batch.SubmitAsync()
//	_ = tracker.Wait(0)
//	res, _ := tracker.Result(0)
//	tracker.Retire()
//
// Thread Safety:
//
//	A session carries at most one submitter and one in-flight batch at a
//	time. Submitting while a previous batch is unfinished returns a busy
//	error. Tracker results are safe to read from any goroutine once Wait
//	has returned.
package client
