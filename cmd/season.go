package cmd

import (
	"fmt"

	"natsumin/feature/contracts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seasonLayout      string
	seasonSpreadsheet string
	pruneKeep         int
	pruneYes          bool
)

// seasonCmd is the parent command for season catalog operations.
var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Manage the season catalog and its snapshots",
}

var seasonAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a season",
	Long: `Registers a season. The id is derived from the name ("Season X" becomes
season_x). The layout defaults to the id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		season, err := a.service().RegisterSeason(ctx, args[0], seasonLayout, seasonSpreadsheet)
		if err != nil {
			return err
		}
		return printJSON(season)
	},
}

var seasonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered seasons and layouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc := a.service()
		seasons, err := svc.Seasons(ctx)
		if err != nil {
			return err
		}
		active, err := svc.ActiveSeason(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"active": active, "seasons": seasons, "layouts": contracts.LayoutIDs()})
	},
}

var seasonActiveCmd = &cobra.Command{
	Use:   "active [season]",
	Short: "Show or set the season the timer syncs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc := a.service()
		if len(args) == 1 {
			if err := svc.SetActiveSeason(ctx, args[0]); err != nil {
				return err
			}
		}
		active, err := svc.ActiveSeason(ctx)
		if err != nil {
			return err
		}
		fmt.Println(active)
		return nil
	},
}

var seasonSnapshotsCmd = &cobra.Command{
	Use:   "snapshots <season>",
	Short: "List archived spreadsheet snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		archive, err := a.requireArchive()
		if err != nil {
			return err
		}
		snapshots, err := archive.List(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(snapshots)
	},
}

var seasonPruneCmd = &cobra.Command{
	Use:   "prune <season>",
	Short: "Delete all but the newest snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		archive, err := a.requireArchive()
		if err != nil {
			return err
		}
		snapshots, err := archive.List(ctx, args[0])
		if err != nil {
			return err
		}
		if len(snapshots) <= pruneKeep {
			a.logger.Info("Nothing to prune", zap.Int("snapshots", len(snapshots)), zap.Int("keep", pruneKeep))
			return nil
		}

		prompt := fmt.Sprintf("About to delete %d of %d snapshots of %s.", len(snapshots)-pruneKeep, len(snapshots), args[0])
		if !confirmDestructiveAction(pruneYes, prompt) {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		removed, err := archive.Prune(ctx, args[0], pruneKeep)
		if err != nil {
			return err
		}
		a.logger.Info("Pruned snapshots", zap.String("season", args[0]), zap.Int("removed", removed))
		return nil
	},
}

func init() {
	seasonAddCmd.Flags().StringVar(&seasonLayout, "layout", "", "Layout id (defaults to the season id)")
	seasonAddCmd.Flags().StringVar(&seasonSpreadsheet, "spreadsheet", "", "Spreadsheet id overriding the layout's")
	seasonPruneCmd.Flags().IntVar(&pruneKeep, "keep", 20, "Number of newest snapshots to keep")
	seasonPruneCmd.Flags().BoolVar(&pruneYes, "yes", false, "Auto-confirm (non-interactive)")

	seasonCmd.AddCommand(seasonAddCmd, seasonListCmd, seasonActiveCmd, seasonSnapshotsCmd, seasonPruneCmd)
	RootCmd.AddCommand(seasonCmd)
}
