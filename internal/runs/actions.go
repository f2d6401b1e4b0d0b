// Package runs holds the CLI actions for browsing generation run history.
package runs

import (
	"fmt"
	"strconv"
	"strings"

	dbpkg "github.com/dtnitsch/llms-builder/pkg/db"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func ListAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-8s %-8s %-8s %-9s %-30s\n",
		"ID", "Created", "Rows", "Pages", "Status", "Enhanced", "Output")
	fmt.Println(strings.Repeat("-", 100))

	for _, r := range runs {
		enhanced := "no"
		if r.Enhanced {
			enhanced = "yes"
		}
		fmt.Printf("%-6d %-20s %-8d %-8d %-8s %-9s %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.TotalRows,
			r.UniquePages,
			r.Status,
			enhanced,
			r.TXTPath,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'llmsb runs show <id>' to see details\n")

	return nil
}

// ShowAction prints the full record of one run as YAML.
func ShowAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("run ID required\nUsage: llmsb runs show <run_id>\nExample: llmsb runs show 3")
	}

	runID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID: %s", c.Args().First())
	}

	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	run, err := database.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", runID, err)
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	fmt.Printf("# Run: %d\n", runID)
	fmt.Print(string(data))

	return nil
}
