// Package main provides treebench, a workload driver that exercises a
// B+ tree with a randomized insert/search/scan/remove cycle and reports
// timings and tree shape.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/canopydb/bptree"
)

var rootCmd = &cobra.Command{
	Use:   "treebench",
	Short: "treebench",
	Long:  `treebench runs a full insert/search/scan/remove workload against an in-memory B+ tree and reports timings`,

	PreRunE: func(cmd *cobra.Command, args []string) error {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	},

	RunE: runCmdFunc,
}

func init() {
	rootCmd.Flags().Bool("debug", false, "enable debug logging")
	rootCmd.Flags().IntP("order", "o", bptree.DefaultOrder, "tree order (maximum children per node)")
	rootCmd.Flags().IntP("count", "n", 100000, "number of keys to insert")
	rootCmd.Flags().Int64P("seed", "s", 1, "seed for the key permutation")
	rootCmd.Flags().Int("scan-width", 100, "width of each range scan")
	if err := rootCmd.Flags().MarkHidden("debug"); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("treebench failed")
	}
}

func runCmdFunc(cmd *cobra.Command, args []string) error {
	order, err := cmd.Flags().GetInt("order")
	if err != nil {
		return err
	}
	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return err
	}
	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return err
	}
	scanWidth, err := cmd.Flags().GetInt("scan-width")
	if err != nil {
		return err
	}

	tree, err := bptree.NewOrdered[int, int](order)
	if err != nil {
		return fmt.Errorf("creating tree: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order": order,
		"count": count,
		"seed":  seed,
	}).Info("starting workload")

	keys := rand.New(rand.NewSource(seed)).Perm(count)

	start := time.Now()
	for _, key := range keys {
		tree.Insert(key, key)
	}
	logPhase("insert", count, time.Since(start))

	if err := tree.Validate(); err != nil {
		return fmt.Errorf("tree invalid after inserts: %w", err)
	}

	stats := tree.Stats()
	logrus.WithFields(logrus.Fields{
		"height":         stats.Height,
		"internal_nodes": stats.InternalNodes,
		"leaf_nodes":     stats.LeafNodes,
		"total_keys":     stats.TotalKeys,
	}).Info("tree shape")

	start = time.Now()
	for _, key := range keys {
		if _, found := tree.Search(key); !found {
			return fmt.Errorf("key %d missing after insert", key)
		}
	}
	logPhase("search", count, time.Since(start))

	start = time.Now()
	scanned := 0
	for low := 0; low < count; low += scanWidth {
		it := tree.Range(low, low+scanWidth-1)
		scanned += it.Count()
		it.Close()
	}
	if scanned != count {
		return fmt.Errorf("range scans visited %d of %d keys", scanned, count)
	}
	logPhase("scan", scanned, time.Since(start))

	start = time.Now()
	for _, key := range keys {
		if err := tree.Remove(key); err != nil {
			return fmt.Errorf("removing key %d: %w", key, err)
		}
	}
	logPhase("remove", count, time.Since(start))

	if !tree.IsEmpty() {
		return fmt.Errorf("tree still holds %d keys after removing everything", tree.Len())
	}

	logrus.Info("workload complete")
	return nil
}

func logPhase(phase string, ops int, elapsed time.Duration) {
	perOp := time.Duration(0)
	if ops > 0 {
		perOp = elapsed / time.Duration(ops)
	}
	logrus.WithFields(logrus.Fields{
		"ops":     ops,
		"elapsed": elapsed.Round(time.Millisecond).String(),
		"per_op":  perOp.String(),
	}).Infof("%s phase done", phase)
}
