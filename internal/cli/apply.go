package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/SridharServico/Ghostprotocal/internal/applier"
	"github.com/SridharServico/Ghostprotocal/internal/config"
	"github.com/SridharServico/Ghostprotocal/internal/database"
	"github.com/SridharServico/Ghostprotocal/internal/guard"
	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

// errUnguardedDDL is returned when apply is blocked by guard findings.
var errUnguardedDDL = errors.New("apply aborted: unguarded DDL detected (use --force to override)")

// errDatabaseURLRequired is returned when no database URL is configured.
var errDatabaseURLRequired = errors.New(
	"database URL is required (set --database-url, GHOST_DATABASE_URL, or database_url in config)",
)

var applyCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "apply",
	Short: "Apply the content_posts schema",
	Long: `Apply the content_posts table, indexes, access policy, and
updated_at trigger. Safe to re-run: objects already present are left
untouched, and the trigger binding is rebuilt atomically.`,
	RunE: runApply,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	applyCmd.Flags().Bool("dry-run", false, "show what would be applied without executing")
	applyCmd.Flags().Bool("force", false, "skip the DDL guard verification")
	applyCmd.Flags().Duration("lock-timeout", 0, "override lock timeout (e.g., 10s, 1m)")
	applyCmd.Flags().Duration("statement-timeout", 0, "override statement timeout (e.g., 30s, 5m)")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	lockTimeout := cfg.LockTimeout
	if cmd.Flags().Changed("lock-timeout") {
		lockTimeout, _ = cmd.Flags().GetDuration("lock-timeout")
	}

	stmtTimeout := cfg.StatementTimeout
	if cmd.Flags().Changed("statement-timeout") {
		stmtTimeout, _ = cmd.Flags().GetDuration("statement-timeout")
	}

	objects := schema.Objects()

	if !force {
		if blocked, verifyErr := checkGuards(cmd, objects); verifyErr != nil {
			return verifyErr
		} else if blocked {
			return errUnguardedDDL
		}
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

	return applyObjects(ctx, cmd.OutOrStdout(), pool, objects, applyOpts{
		lockTimeout: lockTimeout,
		stmtTimeout: stmtTimeout,
		dryRun:      dryRun,
	})
}

type applyOpts struct {
	lockTimeout time.Duration
	stmtTimeout time.Duration
	dryRun      bool
}

func connectDB(ctx context.Context, cfg *config.Config, out io.Writer) (*pgxpool.Pool, error) {
	fmt.Fprintf(out, "Connecting to %s\n", config.RedactURL(cfg.DatabaseURL))

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return pool, nil
}

func applyObjects(
	ctx context.Context,
	out io.Writer,
	pool *pgxpool.Pool,
	objects []schema.Object,
	opts applyOpts,
) error {
	created := 0
	untouched := 0

	app := applier.New(pool,
		applier.WithLockTimeout(opts.lockTimeout),
		applier.WithStatementTimeout(opts.stmtTimeout),
		applier.WithDryRun(opts.dryRun),
		applier.WithProgressCallback(func(event applier.ProgressEvent) {
			switch event.Status {
			case applier.StatusStarting:
				fmt.Fprintf(out, "  %s %s ... ", event.Object.Kind, event.Object.Name)
			case applier.StatusCreated:
				fmt.Fprintf(out, "created (%s)\n", event.Duration.Truncate(time.Millisecond))
				created++
			case applier.StatusExists:
				fmt.Fprintf(out, "already present\n")
				untouched++
			case applier.StatusReplaced:
				fmt.Fprintf(out, "replaced (%s)\n", event.Duration.Truncate(time.Millisecond))
			case applier.StatusSkipped:
				fmt.Fprintf(out, "  %s %s: would apply (%s guard)\n",
					event.Object.Kind, event.Object.Name, event.Object.Guard)
			case applier.StatusFailed:
				fmt.Fprintf(out, "FAILED\n")
				fmt.Fprintf(out, "    Error: %v\n", event.Error)
			}
		}),
	)

	if opts.dryRun {
		fmt.Fprintln(out, "\n--- DRY RUN (no changes will be made) ---")
	}

	if err := app.Apply(ctx, objects); err != nil {
		return err
	}

	if opts.dryRun {
		fmt.Fprintf(out, "\nDry run complete: %d object(s) checked.\n", len(objects))
	} else {
		fmt.Fprintf(out, "\nApply complete: %d created, %d already present.\n", created, untouched)
	}

	return nil
}

// checkGuards runs the static guard verification and returns true if
// findings were reported (blocking apply).
func checkGuards(cmd *cobra.Command, objects []schema.Object) (bool, error) {
	findings, err := guard.New().VerifyAll(objects)
	if err != nil {
		return false, fmt.Errorf("verifying DDL guards: %w", err)
	}

	printFindings(cmd.OutOrStdout(), findings)

	return len(findings) > 0, nil
}

// printFindings writes guard findings in a stable, grep-friendly format.
func printFindings(out io.Writer, findings []guard.Finding) {
	for _, f := range findings {
		fmt.Fprintf(out, "  [%s] %s: %s\n", f.Rule, f.Object, f.Message)
	}
}
