package cmd

import (
	"strconv"

	"natsumin/feature/badges"
	"natsumin/feature/contracts/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	badgeType        string
	badgeListType    string
	badgeDescription string
	badgeArtist      string
	badgeURL         string
)

// badgeCmd is the parent command for badge catalog operations.
var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Manage badges and awards",
}

// withBadges runs fn against a badge service built from the config.
func withBadges(cmd *cobra.Command, fn func(*app, *badges.Service) error) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a, badges.NewService(a.db, a.resolver, a.logger))
}

func parseBadgeID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}

var badgeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Add a badge to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBadges(cmd, func(_ *app, svc *badges.Service) error {
			badge := &models.Badge{Name: args[0], Type: badgeType, Description: badgeDescription, Artist: badgeArtist, URL: badgeURL}
			if err := svc.Create(cmd.Context(), badge); err != nil {
				return err
			}
			return printJSON(badge)
		})
	},
}

var badgeListCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List badges",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := badges.Filter{Type: badgeListType}
		if len(args) == 1 {
			f.Name = args[0]
		}
		return withBadges(cmd, func(_ *app, svc *badges.Service) error {
			list, err := svc.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(list)
		})
	},
}

var badgeAwardCmd = &cobra.Command{
	Use:   "award <badge-id> <username>",
	Short: "Award a badge to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBadgeID(args[0])
		if err != nil {
			return err
		}
		return withBadges(cmd, func(a *app, svc *badges.Service) error {
			user, awarded, err := svc.Award(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			if !awarded {
				a.logger.Info("User already owns badge", zap.String("username", user.Username), zap.Uint("badge_id", id))
			}
			return nil
		})
	},
}

var badgeRevokeCmd = &cobra.Command{
	Use:   "revoke <badge-id> <username>",
	Short: "Take a badge away from a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBadgeID(args[0])
		if err != nil {
			return err
		}
		return withBadges(cmd, func(a *app, svc *badges.Service) error {
			revoked, err := svc.Revoke(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			a.logger.Info("Revoke", zap.Bool("revoked", revoked))
			return nil
		})
	},
}

var badgeOwnedCmd = &cobra.Command{
	Use:   "owned <username>",
	Short: "List a user's badges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBadges(cmd, func(_ *app, svc *badges.Service) error {
			owned, err := svc.Owned(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(owned)
		})
	},
}

func init() {
	badgeCreateCmd.Flags().StringVar(&badgeType, "type", "misc", "Badge type (contracts, aria, event, misc)")
	badgeCreateCmd.Flags().StringVar(&badgeDescription, "description", "", "Badge description")
	badgeCreateCmd.Flags().StringVar(&badgeArtist, "artist", "", "Artist credit")
	badgeCreateCmd.Flags().StringVar(&badgeURL, "url", "", "Image URL")
	badgeListCmd.Flags().StringVar(&badgeListType, "type", "", "Filter by type")

	badgeCmd.AddCommand(badgeCreateCmd, badgeListCmd, badgeAwardCmd, badgeRevokeCmd, badgeOwnedCmd)
	RootCmd.AddCommand(badgeCmd)
}
