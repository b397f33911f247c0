package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/animator/internal/harness"
)

// ValidationResult reports one scenario file.
type ValidationResult struct {
	File  string `json:"file"`
	Name  string `json:"name,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files without running them.

Checks YAML syntax (unknown fields are rejected), the scenario schema,
and references between components, steps and assertions.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	w := cmd.OutOrStdout()

	results := make([]ValidationResult, 0, len(files))
	invalid := 0
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		r := ValidationResult{File: file, Valid: true}
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			r.Valid = false
			r.Error = err.Error()
			invalid++
		} else {
			r.Name = scenario.Name
		}
		results = append(results, r)

		if !formatter.IsJSON() {
			if r.Valid {
				fmt.Fprintf(w, "✓ %s (%s)\n", file, r.Name)
			} else {
				fmt.Fprintf(w, "✗ %s\n  %s\n", file, r.Error)
			}
		}
	}

	if formatter.IsJSON() {
		if invalid > 0 {
			if err := formatter.Error(ErrCodeLoadFailed, fmt.Sprintf("%d of %d scenarios invalid", invalid, len(files)), results); err != nil {
				return err
			}
		} else if err := formatter.Success(results); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios invalid", invalid, len(files)))
	}
	return nil
}
