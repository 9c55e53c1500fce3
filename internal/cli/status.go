package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/craftly/craftd/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace and asset counts per tier",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.QueryContext(ctx, `
		SELECT w.tier, COUNT(DISTINCT w.id), COUNT(a.id)
		FROM workspaces w
		LEFT JOIN campaigns c ON c.workspace_id = w.id
		LEFT JOIN assets a ON a.campaign_id = c.id
		GROUP BY w.tier ORDER BY w.tier`)
	if err != nil {
		slog.Error("Failed to query status", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rows.Close()
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TIER\tWORKSPACES\tASSETS")

	for rows.Next() {
		var tier string
		var workspaces, assets int64
		if err := rows.Scan(&tier, &workspaces, &assets); err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", tier, workspaces, assets)
	}
	_ = w.Flush()
}
