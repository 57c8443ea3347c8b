package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aASDa213ASD/noiseless/internal/common"
	"github.com/aASDa213ASD/noiseless/internal/ui"
	"github.com/aASDa213ASD/noiseless/models"
	"github.com/aASDa213ASD/noiseless/pkg/db"
	"github.com/aASDa213ASD/noiseless/pkg/progress"
	"github.com/aASDa213ASD/noiseless/pkg/stash"
	"github.com/urfave/cli/v2"
)

// FilterAction runs one filter pass over a log file, prints the outcome
// metadata as JSON on stdout, and records the run in the history database.
func FilterAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))

	cfg, err := common.LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	if c.NArg() < 1 {
		ui.Error("noiseless: no log file provided to analyze.")
		os.Exit(1)
	}
	name := c.Args().First()
	logPath := common.ResolveLogPath(cfg, name)
	if _, err := os.Stat(logPath); err != nil {
		ui.Error("noiseless: log file '%s' not found.", name)
		os.Exit(1)
	}

	filterName := c.String("filter")
	if filterName == "" {
		ui.Error("noiseless: no filter file provided.")
		os.Exit(1)
	}
	filterPath := common.ResolveFilterPath(cfg, filterName)
	if _, err := os.Stat(filterPath); err != nil {
		ui.Error("noiseless: filter file '%s' not found.", filterName)
		os.Exit(1)
	}

	st, err := stash.New(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize stash", "error", err)
		os.Exit(2)
	}

	reporter := progress.BarFactory("Filtering logs")
	if cfg.Quiet {
		reporter = progress.Discard
	}

	fmt.Printf("Filtering %s... ", ui.Highlight(name))
	startTime := time.Now()

	outcome, err := st.Filter(logPath, filterPath, c.Bool("overwrite"), reporter)
	if err != nil {
		fmt.Println()
		switch {
		case errors.Is(err, stash.ErrEmptyFilter):
			ui.Warning("No filter keys found in filter file. Skipping filtering.")
			return nil
		case errors.Is(err, stash.ErrInvalidFilter):
			ui.Error("noiseless: invalid JSON in filter file '%s'.", filterName)
			os.Exit(1)
		case errors.Is(err, stash.ErrOutputConflict):
			ui.Error("noiseless: Folder '%s' already exists. Use --overwrite to proceed.", st.RunDir(logPath))
			os.Exit(1)
		default:
			logger.Error("filter run failed", "error", err)
			os.Exit(2)
		}
	}

	fmt.Printf("OK. Elapsed %s.\n", ui.Highlight(common.Elapsed(startTime)+" seconds"))

	payload, err := json.MarshalIndent(outcome, "", "    ")
	if err != nil {
		logger.Error("failed to marshal filter outcome", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(payload))

	RecordRun(logger, cfg, logPath, filterPath, outcome)

	if outcome.FailedPartitions > 0 {
		ui.Warning("noiseless: %d partition(s) failed during the scan; results are partial.", outcome.FailedPartitions)
		os.Exit(1)
	}
	return nil
}

// RecordRun stores a finished run in the history database. History is an
// accessory to the run itself, so every failure here is a warning, never an
// error: the artifacts are already on disk.
func RecordRun(logger *slog.Logger, cfg *models.Config, logPath, filterPath string, outcome models.FilterOutcome) {
	database, err := common.OpenHistory(cfg)
	if err != nil {
		logger.Warn("failed to open run history", "error", err)
		return
	}
	defer database.Close()

	run, err := database.InsertRun(db.Run{
		LogFile:          logPath,
		FilterFile:       filterPath,
		TotalHits:        outcome.Hits.Total,
		FailedPartitions: outcome.FailedPartitions,
		Fingerprint:      outcome.Meta.File.Hash,
		LineCount:        outcome.Meta.File.Lines,
		FilteredLog:      outcome.FilteredLog,
	})
	if err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}

	if err := database.InsertRunHits(run.RunID, outcome.Hits.ByKey); err != nil {
		logger.Warn("failed to record run hits", "error", err, "run_id", run.RunID)
		return
	}

	logger.Info("Run recorded", "run_id", run.RunID, "run_uid", run.RunUID, "db", database.Path())
}
