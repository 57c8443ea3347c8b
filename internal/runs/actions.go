package runs

import (
	"fmt"
	"strings"

	"github.com/aASDa213ASD/noiseless/internal/common"
	dbpkg "github.com/aASDa213ASD/noiseless/pkg/db"
	"github.com/urfave/cli/v2"
)

// RunsAction lists recorded filter runs, or shows one run in detail when
// --id is set.
func RunsAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := common.OpenHistory(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if c.IsSet("id") {
		return PrintRunDetail(database, int64(c.Int("id")))
	}

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	PrintRunsTable(runs)

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'noiseless runs --id <id>' to see per-keyword hits\n")

	return nil
}

// PrintRunsTable renders runs as the table the 'runs' command lists them in.
func PrintRunsTable(runs []dbpkg.Run) {
	// Print table header
	fmt.Printf("%-6s %-10s %-20s %-8s %-30s %-30s\n",
		"ID", "UID", "Created", "Hits", "Log File", "Filter")
	fmt.Println(strings.Repeat("-", 120))

	// Print each run
	for _, r := range runs {
		uid := r.RunUID
		if len(uid) > 8 {
			uid = uid[:8]
		}
		fmt.Printf("%-6d %-10s %-20s %-8d %-30s %-30s\n",
			r.RunID,
			uid,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.TotalHits,
			r.LogFile,
			r.FilterFile,
		)
	}
}

// PrintRunDetail shows one run with its per-keyword hit counts.
func PrintRunDetail(database *dbpkg.DB, runID int64) error {
	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	hits, err := database.GetRunHits(runID)
	if err != nil {
		return fmt.Errorf("failed to get run hits: %w", err)
	}

	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:      %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("UID:          %s\n", run.RunUID)
	fmt.Printf("Log:          %s\n", run.LogFile)
	fmt.Printf("Filter:       %s\n", run.FilterFile)
	fmt.Printf("Hits:         %d total across %d keyword(s)\n", run.TotalHits, len(hits))
	fmt.Printf("Lines:        %d\n", run.LineCount)
	fmt.Printf("Fingerprint:  %s\n", run.Fingerprint)
	fmt.Printf("Filtered Log: %s\n", run.FilteredLog)
	if run.FailedPartitions > 0 {
		fmt.Printf("Failed:       %d partition(s), results are partial\n", run.FailedPartitions)
	}

	if len(hits) > 0 {
		fmt.Printf("\nHits (%d):\n", len(hits))
		fmt.Println(strings.Repeat("-", 60))
		for i, h := range hits {
			fmt.Printf("%2d. %-24s %d\n", i+1, h.Keyword, h.Hits)
		}
	}

	fmt.Printf("\nTip: Use 'noiseless runs' to list recent runs\n")

	return nil
}
