package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertere-lang/vertere/compiler/format"
	"github.com/vertere-lang/vertere/internal/diag"
)

var formatWrite bool

// NewFormatCommand re-emits canonical source syntax for a file via the
// round-trip pretty-printer.
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Reformat a Vertere source file to canonical syntax",
		Args:  cobra.ExactArgs(1),
		RunE:  runFormat,
	}
	cmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "rewrite the file in place instead of printing to stdout")
	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	program, diags := diag.Compile(string(src), path)
	if diag.HasErrors(diags) {
		for _, d := range diags {
			fmt.Fprintln(cmd.ErrOrStderr(), d.Message)
		}
		return fmt.Errorf("%s has parse errors, refusing to format", path)
	}

	out := format.Format(program)
	if !formatWrite {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	return os.WriteFile(path, []byte(out), 0o644)
}
