package info

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aASDa213ASD/noiseless/internal/common"
	"github.com/aASDa213ASD/noiseless/internal/ui"
	"github.com/aASDa213ASD/noiseless/pkg/stash"
	"github.com/urfave/cli/v2"
)

// InfoAction fingerprints a log file and prints the snapshot as JSON on
// stdout.
func InfoAction(c *cli.Context) error {
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

	st, err := stash.New(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize stash", "error", err)
		os.Exit(2)
	}

	fmt.Printf("Fetching info for %s. ", ui.Highlight(name))
	startTime := time.Now()

	info, err := st.GetInfo(logPath)
	if err != nil {
		fmt.Println()
		if errors.Is(err, stash.ErrNotFound) {
			ui.Error("noiseless: log file '%s' not found.", name)
			os.Exit(1)
		}
		logger.Error("failed to fingerprint log file", "error", err, "path", logPath)
		os.Exit(2)
	}

	fmt.Printf("OK. Elapsed %s.\n", ui.Highlight(common.Elapsed(startTime)+" seconds"))

	payload, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		logger.Error("failed to marshal file info", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(payload))

	return nil
}
