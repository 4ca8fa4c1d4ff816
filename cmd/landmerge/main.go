// landmerge merges Elder Scrolls III-style landscape plugins into a
// single output plugin, reconciling overlapping terrain edits.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/Faultbox/merged-lands/internal/config"
	"github.com/Faultbox/merged-lands/internal/discovery"
	"github.com/Faultbox/merged-lands/internal/history"
	"github.com/Faultbox/merged-lands/internal/logger"
	"github.com/Faultbox/merged-lands/internal/merge"
	"github.com/Faultbox/merged-lands/internal/orchestrator"
	"github.com/Faultbox/merged-lands/internal/policy"
	"github.com/Faultbox/merged-lands/internal/runlog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)
	config.ParseFlags()

	switch command {
	case "merge":
		cmdMerge()
	case "history":
		cmdHistory()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`landmerge - terrain plugin merge tool

Usage:
  landmerge <command> [options]

Commands:
  merge    Merge the configured plugin list into a single output plugin
  history  Show recent recorded merge runs

Options (merge):
  --config <path>              Path to config file
  --plugins <path>             Path to the ordered plugin list
  --patch-policies <path>      Directory of per-plugin patch descriptors
  --debug-vertex-colors        Set the debug_vertex_colors option (no output colors depend on it)
  --height-threshold-max <n>   Max height divergence still classified Minor`)
}

func cmdMerge() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	started := time.Now()

	ordered, err := discovery.LoadPluginList(cfg.Merge.PluginList)
	if err != nil {
		logger.Error("loading plugin list", zap.Error(err))
		os.Exit(1)
	}

	resolver := policy.NewResolver()
	for _, op := range ordered {
		raw, err := discovery.LoadPatchDescriptor(cfg.Merge.PatchPolicyDir, op.Plugin.Identifier)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn(fmt.Sprintf("reading patch descriptor for %s: %v", op.Plugin.Identifier, err))
			}
			continue
		}
		if err := resolver.RegisterDescriptor(op.Plugin.Identifier, raw); err != nil {
			logger.Warn(fmt.Sprintf("invalid patch descriptor for %s: %v", op.Plugin.Identifier, err))
		}
	}

	opts := orchestrator.Options{
		DebugVertexColors: cfg.Merge.DebugVertexColors,
		HeightAutoThreshold: merge.ConflictParams{
			MinorThresholdPct: cfg.Merge.HeightThresholdPct,
			MinorThresholdMin: cfg.Merge.HeightThresholdMin,
			MinorThresholdMax: cfg.Merge.HeightThresholdMax,
		},
	}

	result, err := orchestrator.Run(ordered, resolver, opts)
	if err != nil {
		logger.Error("merge failed", zap.Error(err))
		os.Exit(1)
	}

	summary := summarize(result, len(ordered), started)
	printSummary(summary)

	if cfg.History.Enabled {
		if err := recordRun(cfg, result, summary); err != nil {
			logger.Warn(fmt.Sprintf("recording run history: %v", err))
		}
	}
}

func cmdHistory() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := history.Open(historyDBPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening history store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.Recent(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading history: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  plugins=%d cells=%d major=%d minor=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.PluginCount, r.CellCount, r.MajorCount, r.MinorCount)
	}
}

func historyDBPath(cfg *config.Config) string {
	if cfg.History.DBPath != "" {
		return cfg.History.DBPath
	}
	return "merged-lands-history.db"
}

type runSummary struct {
	pluginCount int
	cellCount   int
	majorCount  int
	minorCount  int
	vertexCount int
	text        string
}

func summarize(result *orchestrator.Result, pluginCount int, started time.Time) runSummary {
	majors, minors := 0, 0
	for _, cp := range result.State.Provenance {
		for _, g := range []merge.Grid{cp.Height, cp.Normals, cp.Colors, cp.Indices, cp.WorldMap} {
			for _, row := range g {
				for _, e := range row {
					switch e.Severity {
					case merge.SeverityMajor:
						majors++
					case merge.SeverityMinor:
						minors++
					}
				}
			}
		}
	}

	cellCount := len(result.Landmass.Cells)
	summary := runlog.Summary{
		RunID:       result.Log.RunID,
		PluginCount: pluginCount,
		CellCount:   cellCount,
		VertexCount: result.VertexCount,
		ByteCount:   uint64(result.VertexCount) * 16, // rough per-vertex serialized size across layers
		Counts:      result.Log.Tally(),
	}

	logger.Info(fmt.Sprintf("merge finished in %s", time.Since(started)))

	return runSummary{
		pluginCount: pluginCount,
		cellCount:   cellCount,
		majorCount:  majors,
		minorCount:  minors,
		vertexCount: result.VertexCount,
		text:        summary.Render(),
	}
}

func printSummary(s runSummary) {
	colored := isatty.IsTerminal(os.Stdout.Fd())
	if colored && s.majorCount > 0 {
		fmt.Printf("\x1b[31m%s\x1b[0m", s.text)
		return
	}
	fmt.Print(s.text)
}

func recordRun(cfg *config.Config, result *orchestrator.Result, s runSummary) error {
	store, err := history.Open(historyDBPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := history.MarshalReport(map[string]int{
		"major": s.majorCount,
		"minor": s.minorCount,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = store.RecordRun(history.Run{
		ID:          result.Log.RunID,
		StartedAt:   now,
		FinishedAt:  now,
		PluginCount: s.pluginCount,
		CellCount:   s.cellCount,
		MajorCount:  s.majorCount,
		MinorCount:  s.minorCount,
		Report:      report,
	})
	return err
}

