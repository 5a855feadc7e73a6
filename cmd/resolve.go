package cmd

import (
	"fmt"

	"natsumin/feature/identity"
	"natsumin/feature/rep"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resolveRep bool

// resolveCmd shows how a username, or a rep name with --rep, resolves.
var resolveCmd = &cobra.Command{
	Use:   "resolve <text>",
	Short: "Debug identity and rep resolution",
	Long: `Resolves a username the way the sync does: exact username or id, then
alias, then fuzzy match. With --rep the text is classified as a rep instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if resolveRep {
			r, score, ok := rep.Classify(args[0])
			if !ok {
				return fmt.Errorf("no rep matches %q", args[0])
			}
			return printJSON(map[string]any{"query": args[0], "rep": r, "score": score})
		}

		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		id, err := a.service().Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(id)
	},
}

// aliasCmd registers an alternate spelling for an existing user.
var aliasCmd = &cobra.Command{
	Use:   "alias <username> <alias>",
	Short: "Add an alias to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		m, ok, err := a.resolver.ResolveWithCutoff(ctx, args[0], 100)
		if err != nil {
			return err
		}
		if !ok || m.Kind == identity.MatchFuzzy {
			return fmt.Errorf("no user named %q", args[0])
		}
		if err := a.resolver.AddAlias(ctx, m.UserID, args[1]); err != nil {
			return err
		}
		a.logger.Info("Alias added", zap.String("user_id", m.UserID), zap.String("alias", identity.Normalize(args[1])))
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveRep, "rep", false, "Classify the text as a rep")
	resolveCmd.AddCommand(aliasCmd)
	RootCmd.AddCommand(resolveCmd)
}
