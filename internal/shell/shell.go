// Package shell implements the interactive front end: a line-oriented REPL
// over the same stash operations the one-shot CLI commands use.
package shell

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aASDa213ASD/noiseless/internal/common"
	"github.com/aASDa213ASD/noiseless/internal/filter"
	"github.com/aASDa213ASD/noiseless/internal/runs"
	"github.com/aASDa213ASD/noiseless/internal/ui"
	"github.com/aASDa213ASD/noiseless/models"
	"github.com/aASDa213ASD/noiseless/pkg/help"
	"github.com/aASDa213ASD/noiseless/pkg/progress"
	"github.com/aASDa213ASD/noiseless/pkg/stash"
)

// errExit signals a clean exit out of the read loop.
var errExit = errors.New("exit")

// shellCommand is one registry entry. Dispatch is a plain map lookup keyed
// by the first input token.
type shellCommand struct {
	usage   string
	summary string
	run     func(args []string) error
}

// Shell is the interactive session state.
type Shell struct {
	logger   *slog.Logger
	cfg      *models.Config
	st       *stash.Stash
	in       *bufio.Reader
	version  string
	commands map[string]shellCommand
}

// New builds a shell with its command registry.
func New(logger *slog.Logger, cfg *models.Config, st *stash.Stash, version string) *Shell {
	s := &Shell{
		logger:  logger,
		cfg:     cfg,
		st:      st,
		in:      bufio.NewReader(os.Stdin),
		version: version,
	}
	s.commands = map[string]shellCommand{
		"log":     {usage: "log <file> --info | --filter <spec>", summary: "Fetch file info or run a filter pass", run: s.handleLog},
		"runs":    {usage: "runs [id]", summary: "List recorded runs, or show one in detail", run: s.handleRuns},
		"help":    {usage: "help", summary: "Show this help", run: s.handleHelp},
		"version": {usage: "version", summary: "Show the noiseless version", run: s.handleVersion},
		"clear":   {usage: "clear", summary: "Clear the screen", run: s.handleClear},
		"exit":    {usage: "exit", summary: "Leave the shell", run: s.handleExit},
	}
	return s
}

// Run starts the read loop and blocks until exit or EOF.
func (s *Shell) Run() error {
	go func() {
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		<-interrupts
		fmt.Println()
		fmt.Println(ui.Cyan("Exiting CLI. Goodbye!"))
		os.Exit(0)
	}()

	s.clearScreen()
	fmt.Printf("noiseless %s\n", s.version)
	ui.Notice("Type 'help' for available commands.")

	for {
		fmt.Print("\n> ")
		line, err := s.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				fmt.Println(ui.Cyan("Goodbye!"))
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name, args := fields[0], fields[1:]

		cmd, ok := s.commands[name]
		if !ok {
			ui.Error("noiseless: Unknown command '%s'. See 'help' for more information.", name)
			continue
		}

		if err := cmd.run(args); err != nil {
			if errors.Is(err, errExit) {
				fmt.Println(ui.Cyan("Goodbye!"))
				return nil
			}
			ui.Error("noiseless: Error: %v", err)
		}
	}
}

func (s *Shell) handleLog(args []string) error {
	if len(args) == 0 {
		ui.Error("noiseless: no log file provided to analyze.")
		return nil
	}
	name := args[0]
	logPath := common.ResolveLogPath(s.cfg, name)
	if _, err := os.Stat(logPath); err != nil {
		ui.Error("noiseless: log file '%s' not found.", name)
		return nil
	}

	option := ""
	if len(args) > 1 {
		option = args[1]
	}

	switch option {
	case "--info":
		return s.logInfo(name, logPath)
	case "--filter":
		filterName := ""
		if len(args) > 2 {
			filterName = args[2]
		}
		return s.logFilter(name, logPath, filterName)
	default:
		ui.Warning("usage: log <file> --info | --filter <spec>")
		return nil
	}
}

func (s *Shell) logInfo(name, logPath string) error {
	fmt.Printf("Fetching info for %s. ", ui.Highlight(name))
	startTime := time.Now()

	info, err := s.st.GetInfo(logPath)
	if err != nil {
		fmt.Println()
		return err
	}

	fmt.Printf("OK. Elapsed %s.\n", ui.Highlight(common.Elapsed(startTime)+" seconds"))

	payload, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal file info: %w", err)
	}
	fmt.Println(string(payload))
	return nil
}

func (s *Shell) logFilter(name, logPath, filterName string) error {
	if filterName == "" {
		ui.Error("noiseless: no filter file provided.")
		return nil
	}
	filterPath := common.ResolveFilterPath(s.cfg, filterName)
	if _, err := os.Stat(filterPath); err != nil {
		ui.Error("noiseless: filter file '%s' not found.", filterName)
		return nil
	}

	reporter := progress.BarFactory("Filtering logs")
	if s.cfg.Quiet {
		reporter = progress.Discard
	}

	overwrite := false
	for {
		fmt.Printf("Filtering %s... ", ui.Highlight(name))
		startTime := time.Now()

		outcome, err := s.st.Filter(logPath, filterPath, overwrite, reporter)
		if err != nil {
			fmt.Println()
			switch {
			case errors.Is(err, stash.ErrOutputConflict) && !overwrite:
				prompt := fmt.Sprintf("The folder '%s' already exists. Overwrite its contents?", s.st.RunDir(logPath))
				if !ui.Confirm(prompt, false) {
					ui.Warning("noiseless: operation canceled.")
					return nil
				}
				overwrite = true
				continue
			case errors.Is(err, stash.ErrEmptyFilter):
				ui.Warning("No filter keys found in filter file. Skipping filtering.")
				return nil
			case errors.Is(err, stash.ErrInvalidFilter):
				ui.Error("noiseless: invalid JSON in filter file '%s'.", filterName)
				return nil
			default:
				return err
			}
		}

		fmt.Printf("OK. Elapsed %s.\n", ui.Highlight(common.Elapsed(startTime)+" seconds"))

		payload, err := json.MarshalIndent(outcome, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to marshal filter outcome: %w", err)
		}
		fmt.Println(string(payload))

		filter.RecordRun(s.logger, s.cfg, logPath, filterPath, outcome)

		if outcome.FailedPartitions > 0 {
			ui.Warning("noiseless: %d partition(s) failed during the scan; results are partial.", outcome.FailedPartitions)
		}
		return nil
	}
}

func (s *Shell) handleRuns(args []string) error {
	database, err := common.OpenHistory(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			ui.Error("noiseless: '%s' is not a run id.", args[0])
			return nil
		}
		return runs.PrintRunDetail(database, id)
	}

	list, err := database.ListRuns(20)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	runs.PrintRunsTable(list)
	fmt.Printf("\nTotal: %d runs\n", len(list))
	return nil
}

func (s *Shell) handleHelp([]string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available commands:")
	for _, name := range names {
		cmd := s.commands[name]
		fmt.Printf("  %-38s %s\n", cmd.usage, cmd.summary)
	}

	fmt.Println()
	fmt.Println(help.QuickStartYAML)
	return nil
}

func (s *Shell) handleVersion([]string) error {
	fmt.Printf("noiseless %s\n", s.version)
	return nil
}

func (s *Shell) handleClear([]string) error {
	s.clearScreen()
	return nil
}

func (s *Shell) handleExit([]string) error {
	return errExit
}

func (s *Shell) clearScreen() {
	fmt.Print("\033[2J\033[H")
}
