package shell

import (
	"os"

	"github.com/aASDa213ASD/noiseless/internal/common"
	"github.com/aASDa213ASD/noiseless/pkg/stash"
	"github.com/urfave/cli/v2"
)

// ShellAction starts the interactive shell.
func ShellAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))

	cfg, err := common.LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	st, err := stash.New(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize stash", "error", err)
		os.Exit(2)
	}

	return New(logger, cfg, st, c.App.Version).Run()
}
