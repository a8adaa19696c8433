package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SridharServico/Ghostprotocal/internal/catalog"
	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show which schema objects exist",
	Long: `Probe pg_catalog and report, for every declared schema object,
whether it is present in the target database.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := connectDB(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer pool.Close()

	out := cmd.OutOrStdout()
	cat := catalog.New(pool)
	missing := 0

	for _, obj := range schema.Objects() {
		exists, err := cat.ObjectExists(ctx, obj)
		if err != nil {
			return fmt.Errorf("checking %s %s: %w", obj.Kind, obj.Name, err)
		}

		state := "present"
		if !exists {
			state = "MISSING"
			missing++
		}

		fmt.Fprintf(out, "  %-8s %-34s %s\n", obj.Kind, obj.Name, state)
	}

	if err := printRowSecurity(ctx, out, cat); err != nil {
		return err
	}

	if missing > 0 {
		fmt.Fprintf(out, "\n%d object(s) missing. Run 'ghostctl apply'.\n", missing)
	} else {
		fmt.Fprintln(out, "\nAll schema objects present.")
	}

	return nil
}

// printRowSecurity reports the RLS flag, which backs the access policy
// but is not an object of its own. Skipped while the table is absent.
func printRowSecurity(ctx context.Context, out io.Writer, cat *catalog.Catalog) error {
	tableExists, err := cat.TableExists(ctx, schema.TableName)
	if err != nil {
		return err
	}

	if !tableExists {
		return nil
	}

	enabled, err := cat.RowSecurityEnabled(ctx, schema.TableName)
	if err != nil {
		return fmt.Errorf("checking row security: %w", err)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}

	fmt.Fprintf(out, "  %-8s %-34s %s\n", "rls", schema.TableName, state)

	return nil
}
