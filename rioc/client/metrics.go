package client

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/hpkv-io/rioc-go/rioc/wire"
)

// --------------------------------------------------------------------------
// Client Metrics
// --------------------------------------------------------------------------

var (
	metricBatches = metrics.NewCounter("rioc_client_batches_total")
	metricErrors  = metrics.NewCounter("rioc_client_errors_total")
)

// opName maps a wire command to its metric label.
func opName(cmd uint16) string {
	switch cmd {
	case wire.CmdGet:
		return "get"
	case wire.CmdInsert:
		return "insert"
	case wire.CmdDelete:
		return "delete"
	case wire.CmdRangeQuery:
		return "range_query"
	case wire.CmdAtomicIncDec:
		return "atomic_inc_dec"
	default:
		return "unknown"
	}
}

func countOp(cmd uint16) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`rioc_client_ops_total{op=%q}`, opName(cmd))).Inc()
}

func observeOpDuration(cmd uint16, start time.Time) {
	metrics.GetOrCreateSummary(fmt.Sprintf(`rioc_client_op_duration_seconds{op=%q}`, opName(cmd))).UpdateDuration(start)
}
