package kv

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hpkv-io/rioc-go/rioc/client"
	"github.com/hpkv-io/rioc-go/rioc/common"
)

// now returns the caller-side timestamp used when none is given explicitly.
func now() uint64 {
	return uint64(time.Now().UnixNano())
}

var (
	getCmd = &cobra.Command{
		Use:   "get <key>",
		Short: "Fetch the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := session.Get([]byte(args[0]))
			if err != nil {
				if common.IsNotFound(err) {
					fmt.Println("(not found)")
					return nil
				}
				return err
			}
			fmt.Println(string(value))
			return nil
		},
	}

	insertCmd = &cobra.Command{
		Use:   "insert <key> <value>",
		Short: "Store a value under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Insert([]byte(args[0]), []byte(args[1]), now())
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Delete([]byte(args[0]), now())
		},
	}

	rangeCmd = &cobra.Command{
		Use:   "range <start-key> <end-key>",
		Short: "List all entries between two keys (inclusive)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := session.RangeQuery([]byte(args[0]), []byte(args[1]))
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s\t%s\n", e.Key, e.Value)
			}
			return nil
		},
	}

	incrCmd = &cobra.Command{
		Use:   "incr <key> <delta>",
		Short: "Atomically adjust a counter and print the new value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid delta %q: %v", args[1], err)
			}
			value, err := session.AtomicIncDec([]byte(args[0]), delta, now())
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}

	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Read operations from stdin and submit them as one pipelined batch",
		Long: `Reads one operation per line from stdin and submits everything as a
single pipelined batch. Supported lines:

  get <key>
  insert <key> <value>
  delete <key>
  range <start-key> <end-key>
  incr <key> <delta>

Prints one result line per operation, in order; a successful range result
is followed by one line per entry.`,
		Args: cobra.NoArgs,
		RunE: runBatch,
	}
)

func runBatch(cmd *cobra.Command, _ []string) error {
	batch := session.NewBatch()

	scanner := bufio.NewScanner(os.Stdin)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := addBatchLine(batch, fields); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if batch.Len() == 0 {
		return fmt.Errorf("no operations on stdin")
	}

	tracker, err := batch.SubmitAsync()
	if err != nil {
		return err
	}
	defer tracker.Retire()

	if err := tracker.Wait(session.Config().TimeoutMs); err != nil {
		return err
	}

	for i := 0; i < tracker.Len(); i++ {
		res, err := tracker.Result(i)
		if err != nil {
			return err
		}
		printResult(i, res)
	}
	return nil
}

func addBatchLine(batch *client.Batch, fields []string) error {
	op, args := fields[0], fields[1:]
	switch op {
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("get takes one argument")
		}
		return batch.AddGet([]byte(args[0]))
	case "insert":
		if len(args) != 2 {
			return fmt.Errorf("insert takes two arguments")
		}
		return batch.AddInsert([]byte(args[0]), []byte(args[1]), now())
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete takes one argument")
		}
		return batch.AddDelete([]byte(args[0]), now())
	case "range":
		if len(args) != 2 {
			return fmt.Errorf("range takes two arguments")
		}
		return batch.AddRangeQuery([]byte(args[0]), []byte(args[1]))
	case "incr":
		if len(args) != 2 {
			return fmt.Errorf("incr takes two arguments")
		}
		delta, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid delta %q: %v", args[1], err)
		}
		return batch.AddAtomicIncDec([]byte(args[0]), delta, now())
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func printResult(i int, res client.OpResult) {
	if res.Status != common.StatusSuccess {
		fmt.Printf("%d\t%s\n", i, res.Status)
		return
	}
	switch res.Kind {
	case client.ResultBytes:
		fmt.Printf("%d\tok\t%s\n", i, res.Bytes)
	case client.ResultCounter:
		fmt.Printf("%d\tok\t%d\n", i, res.Counter)
	case client.ResultRange:
		fmt.Printf("%d\tok\t%d entries\n", i, len(res.Range))
		for _, e := range res.Range {
			fmt.Printf("\t%s\t%s\n", e.Key, e.Value)
		}
	default:
		fmt.Printf("%d\tok\n", i)
	}
}
