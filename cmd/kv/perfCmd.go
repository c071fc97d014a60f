package kv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpkv-io/rioc-go/cmd/util"
	"github.com/hpkv-io/rioc-go/rioc/client"
	"github.com/hpkv-io/rioc-go/rioc/common"
)

var (
	perfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for rioc servers",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}

	perfKeyPrefix  = "__perf"
	perfThreads    = 4
	perfOps        = 10_000
	perfValueSize  = 128
	perfKeySpread  = 100
	perfBatchSize  = 0
	perfCSVPath    = ""
)

func init() {
	key := "threads"
	perfCmd.Flags().Int(key, 4, util.WrapString("Number of worker goroutines"))
	key = "ops"
	perfCmd.Flags().Int(key, 10_000, util.WrapString("Operations per worker and phase"))
	key = "value-size"
	perfCmd.Flags().Int(key, 128, util.WrapString("Size of inserted values in bytes"))
	key = "keys"
	perfCmd.Flags().Int(key, 100, util.WrapString("How many distinct keys to spread the load over"))
	key = "batch"
	perfCmd.Flags().Int(key, 0, util.WrapString("Pipeline the get phase in batches of this size (0 = synchronous single ops); other phases always use single ops"))
	key = "csv"
	perfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfThreads = viper.GetInt("threads")
	perfOps = viper.GetInt("ops")
	perfValueSize = viper.GetInt("value-size")
	perfKeySpread = viper.GetInt("keys")
	perfBatchSize = viper.GetInt("batch")
	perfCSVPath = viper.GetString("csv")

	if perfBatchSize < 0 || perfBatchSize > 128 {
		return fmt.Errorf("batch size must be between 0 and 128")
	}
	return nil
}

// perfPhase runs fn perfOps times on each of perfThreads workers, each
// worker on its own session, and reports per-op latency and throughput.
type perfPhase struct {
	name string
	fn   func(c *client.Client, worker, i int) error
}

func runPerf(cmd *cobra.Command, _ []string) error {
	value := make([]byte, perfValueSize)
	for i := range value {
		value[i] = byte('a' + i%26)
	}

	phases := []perfPhase{
		{"insert", func(c *client.Client, worker, i int) error {
			return c.Insert(perfKey(worker, i), value, now())
		}},
		{"get", func(c *client.Client, worker, i int) error {
			_, err := c.Get(perfKey(worker, i))
			return err
		}},
		{"incr", func(c *client.Client, worker, i int) error {
			_, err := c.AtomicIncDec([]byte(perfKeyPrefix+"_ctr"), 1, now())
			return err
		}},
		{"delete", func(c *client.Client, worker, i int) error {
			// Repeat deletes of the same spread key miss; that is expected load.
			if err := c.Delete(perfKey(worker, i), now()); err != nil && !common.IsNotFound(err) {
				return err
			}
			return nil
		}},
	}

	var rows [][]string
	for _, phase := range phases {
		row, err := runPhase(phase)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if perfCSVPath != "" {
		return writeCSV(perfCSVPath, rows)
	}
	return nil
}

func perfKey(worker, i int) []byte {
	return []byte(fmt.Sprintf("%s_%d_%d", perfKeyPrefix, worker, i%perfKeySpread))
}

func runPhase(phase perfPhase) ([]string, error) {
	timer := gometrics.NewTimer()
	completed := xsync.NewCounter()
	failed := xsync.NewCounter()

	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < perfThreads; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			c, err := client.Connect(util.GetClientConfig())
			if err != nil {
				failed.Add(int64(perfOps))
				return
			}
			defer c.Close()

			if perfBatchSize > 0 && phase.name == "get" {
				runBatchedWorker(c, worker, timer, completed, failed)
				return
			}

			for i := 0; i < perfOps; i++ {
				opStart := time.Now()
				if err := phase.fn(c, worker, i); err != nil {
					failed.Inc()
					continue
				}
				timer.UpdateSince(opStart)
				completed.Inc()
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)
	throughput := float64(completed.Value()) / elapsed.Seconds()

	fmt.Printf("%-8s  %8d ops  %8.0f ops/s  mean %8.2fµs  p50 %8.2fµs  p99 %8.2fµs  errors %d\n",
		phase.name,
		completed.Value(),
		throughput,
		timer.Mean()/1000,
		timer.Percentile(0.5)/1000,
		timer.Percentile(0.99)/1000,
		failed.Value(),
	)

	return []string{
		phase.name,
		strconv.FormatInt(completed.Value(), 10),
		strconv.FormatFloat(throughput, 'f', 0, 64),
		strconv.FormatFloat(timer.Mean()/1000, 'f', 2, 64),
		strconv.FormatFloat(timer.Percentile(0.99)/1000, 'f', 2, 64),
		strconv.FormatInt(failed.Value(), 10),
	}, nil
}

// runBatchedWorker drives the get phase through the pipelined batch API;
// the latency timer then measures whole batches, not single operations.
func runBatchedWorker(c *client.Client, worker int, timer gometrics.Timer, completed, failed *xsync.Counter) {
	for done := 0; done < perfOps; {
		n := perfBatchSize
		if rest := perfOps - done; rest < n {
			n = rest
		}

		batch := c.NewBatch()
		for i := 0; i < n; i++ {
			if err := batch.AddGet(perfKey(worker, done+i)); err != nil {
				failed.Inc()
			}
		}

		batchStart := time.Now()
		tracker, err := batch.SubmitAsync()
		if err != nil {
			failed.Add(int64(n))
			done += n
			continue
		}
		if err := tracker.Wait(0); err != nil {
			failed.Add(int64(n))
		} else {
			completed.Add(int64(n))
		}
		timer.UpdateSince(batchStart)
		tracker.Retire()

		done += n
	}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"phase", "ops", "ops_per_sec", "mean_us", "p99_us", "errors"}); err != nil {
		return err
	}
	return w.WriteAll(rows)
}
