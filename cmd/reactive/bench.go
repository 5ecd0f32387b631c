package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/archive"
	"github.com/vango-dev/reactive/pkg/reactive"
)

func benchCmd() *cobra.Command {
	var (
		profile    string
		iterations int
		saveTrace  bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure tracking and trigger throughput",
		Long: `Run benchmark workloads against the dependency-tracking engine
and report per-write latency percentiles.

Profiles:
  wide    Many records, effects spread across them (default)
  deep    Long memo chains rooted at one ref
  churn   Keyed collection with adds, deletes, and clears
  mixed   Records, lists, and keyed collections together
  all     Every profile in sequence

Examples:
  reactive bench
  reactive bench --profile=deep
  reactive bench -n 50000 --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(profile, iterations, saveTrace)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Workload profile (default from reactive.json)")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Timed iterations (default from reactive.json)")
	cmd.Flags().BoolVar(&saveTrace, "trace", false, "Record events and save a trace to the archive")

	return cmd
}

// benchWorkload builds a dependency graph on a fresh engine and returns
// the per-iteration write step.
type benchWorkload struct {
	name  string
	setup func(eng *reactive.Engine, cfg config.BenchConfig) func(i int)
}

var benchWorkloads = []benchWorkload{
	{name: "wide", setup: setupWide},
	{name: "deep", setup: setupDeep},
	{name: "churn", setup: setupChurn},
	{name: "mixed", setup: setupMixed},
}

type benchResult struct {
	name     string
	calc     *tachymeter.Metrics
	stats    reactive.Stats
	elapsed  time.Duration
	checksum uint64
	traceID  string
}

func runBench(profile string, iterations int, saveTrace bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		re, ok := err.(*errors.ReactiveError)
		if !ok || re.Code != "E101" {
			return err
		}
		// No project file, run with defaults
		cfg = config.New()
	}
	if profile != "" {
		cfg.Bench.Profile = profile
	}
	if iterations > 0 {
		cfg.Bench.Iterations = iterations
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	workloads, err := selectWorkloads(cfg.Bench.Profile)
	if err != nil {
		return err
	}

	printBanner()
	fmt.Println("  bench")
	fmt.Println()
	info("profile:    %s", cfg.Bench.Profile)
	info("iterations: %s (+%s warmup)",
		humanize.Comma(int64(cfg.Bench.Iterations)),
		humanize.Comma(int64(cfg.Bench.Warmup)))
	fmt.Println()

	tbl := table.NewWriter()
	tbl.SetTitle("Reactive Bench")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"workload", "avg", "min", "p75", "p99", "max", "runs/ms"})

	results := make([]benchResult, 0, len(workloads))
	for _, w := range workloads {
		res, err := runWorkload(w, cfg, saveTrace)
		if err != nil {
			return err
		}

		rate := float64(res.stats.Runs) / (float64(res.elapsed) / float64(time.Millisecond))
		tbl.AppendRows([]table.Row{{
			res.name,
			res.calc.Time.Avg,
			res.calc.Time.Min,
			res.calc.Time.P75,
			res.calc.Time.P99,
			res.calc.Time.Max,
			humanize.Comma(int64(rate)),
		}})
		results = append(results, res)
	}

	tbl.Render()
	fmt.Println()

	for _, res := range results {
		info("%-6s %s effect runs, checksum %016x",
			res.name, humanize.Comma(int64(res.stats.Runs)), res.checksum)
		if res.traceID != "" {
			success("%-6s trace saved: %s", res.name, res.traceID)
		}
	}

	return nil
}

func selectWorkloads(profile string) ([]benchWorkload, error) {
	if profile == "all" {
		return benchWorkloads, nil
	}
	for _, w := range benchWorkloads {
		if w.name == profile {
			return []benchWorkload{w}, nil
		}
	}

	names := make([]string, 0, len(benchWorkloads)+1)
	for _, w := range benchWorkloads {
		names = append(names, w.name)
	}
	names = append(names, "all")
	return nil, errors.New("E301").
		WithDetail("No benchmark profile named '" + profile + "'").
		WithSuggestion("Valid profiles: " + strings.Join(names, ", "))
}

func runWorkload(w benchWorkload, cfg *config.Config, saveTrace bool) (benchResult, error) {
	eng := reactive.New()
	step := w.setup(eng, cfg.Bench)

	for i := 0; i < cfg.Bench.Warmup; i++ {
		step(i)
	}

	var rec *archive.Recorder
	if saveTrace {
		rec = archive.NewRecorder(eng, archive.WithCapacity(cfg.Archive.Capacity))
	}

	tach := tachymeter.New(&tachymeter.Config{Size: cfg.Bench.Iterations})
	start := time.Now()
	for i := 0; i < cfg.Bench.Iterations; i++ {
		t0 := time.Now()
		step(cfg.Bench.Warmup + i)
		tach.AddTime(time.Since(t0))
	}
	elapsed := time.Since(start)

	stats := eng.Stats()
	res := benchResult{
		name:    w.name,
		calc:    tach.Calc(),
		stats:   stats,
		elapsed: elapsed,
		checksum: xxhash.Sum64String(fmt.Sprintf("%s:%d:%d:%d:%d",
			w.name, stats.Targets, stats.Tracks, stats.Triggers, stats.Runs)),
	}

	if saveTrace {
		store, err := archive.NewDiskStore(cfg.ArchivePath())
		if err != nil {
			return res, errors.New("E202").Wrap(err)
		}
		trace, err := rec.Flush(store, w.name)
		if err != nil {
			return res, errors.New("E202").Wrap(err)
		}
		res.traceID = trace.ID
	}

	return res, nil
}

func benchKey(i int) string {
	return "k" + strconv.Itoa(i)
}

// setupWide builds many flat records with effects spread across them.
// Each step writes one key of one record.
func setupWide(eng *reactive.Engine, cfg config.BenchConfig) func(int) {
	records := make([]*reactive.Object, cfg.Objects)
	for i := range records {
		m := make(map[string]any, cfg.Keys)
		for k := 0; k < cfg.Keys; k++ {
			m[benchKey(k)] = 0
		}
		records[i] = eng.Mutable(m).(*reactive.Object)
	}

	for i := 0; i < cfg.Effects; i++ {
		o := records[i%len(records)]
		eng.CreateEffect(func() {
			for _, k := range o.Keys() {
				o.Get(k)
			}
		})
	}

	return func(i int) {
		records[i%len(records)].Set(benchKey(i%cfg.Keys), i)
	}
}

// setupDeep builds memo chains rooted at a single ref, one effect on
// each chain tail. Each step rewrites the root.
func setupDeep(eng *reactive.Engine, cfg config.BenchConfig) func(int) {
	src := eng.NewRef(0)
	read := func() int {
		v, _ := src.Get().(int)
		return v
	}

	for c := 0; c < cfg.Objects; c++ {
		prev := read
		for d := 0; d < cfg.Depth; d++ {
			p := prev
			m := reactive.NewMemo(eng, func() int { return p() + 1 })
			prev = m.Get
		}
		tail := prev
		eng.CreateEffect(func() { tail() })
	}

	return func(i int) {
		src.Set(i)
	}
}

// setupChurn drives a keyed collection through a sliding window of adds
// and deletes, with a periodic clear.
func setupChurn(eng *reactive.Engine, cfg config.BenchConfig) func(int) {
	dict := eng.Mutable(map[any]any{}).(*reactive.Dict)

	eng.CreateEffect(func() {
		dict.Range(func(_, _ any) bool { return true })
	})
	for i := 1; i < cfg.Effects; i++ {
		eng.CreateEffect(func() { dict.Len() })
	}

	window := cfg.Objects * cfg.Keys
	return func(i int) {
		dict.Set(i, i)
		if i >= window {
			dict.Delete(i - window)
		}
		if (i+1)%2048 == 0 {
			dict.Clear()
		}
	}
}

// setupMixed spreads effects across a record, a list, and a keyed
// collection, rotating writes among the three.
func setupMixed(eng *reactive.Engine, cfg config.BenchConfig) func(int) {
	rec := eng.Mutable(map[string]any{"hits": 0, "label": "bench"}).(*reactive.Object)
	items := eng.Mutable(&[]any{}).(*reactive.List)
	index := eng.Mutable(map[any]any{}).(*reactive.Dict)

	for i := 0; i < cfg.Effects; i++ {
		switch i % 3 {
		case 0:
			eng.CreateEffect(func() { rec.Get("hits") })
		case 1:
			eng.CreateEffect(func() { items.Len() })
		case 2:
			eng.CreateEffect(func() { index.Len() })
		}
	}

	return func(i int) {
		switch i % 3 {
		case 0:
			rec.Set("hits", i)
		case 1:
			items.Append(i)
		case 2:
			index.Set(i%cfg.Keys, i)
		}
	}
}
