package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SridharServico/Ghostprotocal/internal/guard"
	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

// errVerifyFailed is returned when the DDL guard verification reports findings.
var errVerifyFailed = errors.New("verification failed: unguarded DDL detected")

var verifyCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "verify",
	Short: "Verify the schema DDL is safe to re-run",
	Long: `Parse every schema object's DDL with the real PostgreSQL parser
and check that it implements its declared re-application guard
(IF NOT EXISTS, CREATE OR REPLACE, drop-then-create, or a catalog
pre-check). Runs entirely offline; no database connection needed.`,
	RunE: runVerify,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	objects := schema.Objects()

	findings, err := guard.New().VerifyAll(objects)
	if err != nil {
		return fmt.Errorf("verifying DDL guards: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(findings) == 0 {
		fmt.Fprintf(out, "All %d schema object(s) verified: DDL is safe to re-run.\n", len(objects))
		return nil
	}

	printFindings(out, findings)
	fmt.Fprintf(out, "\n%d finding(s) in %d object(s).\n", len(findings), len(objects))

	return errVerifyFailed
}
