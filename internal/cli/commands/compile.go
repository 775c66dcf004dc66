package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vertere-lang/vertere/compiler/codegen"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/internal/diag"
)

var (
	compileTarget        string
	compileOutput        string
	compileJSON          bool
	compileEmitSourceMap bool
)

// NewCompileCommand compiles one source file to one of the reference
// targets, printing diagnostics and writing generated code on success.
func NewCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a Vertere source file to a reference target",
		Example: `  vertere compile hello.vtr --target fidelis
  vertere compile hello.vtr --target simplex -o hello.py
  vertere compile hello.vtr --json`,
		Args: cobra.ExactArgs(1),
		RunE: runCompile,
	}
	cmd.Flags().StringVarP(&compileTarget, "target", "t", "fidelis", "reference target: fidelis | simplex | firmus")
	cmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (defaults to stdout)")
	cmd.Flags().BoolVar(&compileJSON, "json", false, "emit diagnostics as JSON")
	cmd.Flags().BoolVar(&compileEmitSourceMap, "source-map", false, "record source mappings during generation")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	program, diags := diag.Compile(string(src), path)
	if len(diags) > 0 {
		printDiagnostics(cmd, diags)
	}
	if diag.HasErrors(diags) {
		return fmt.Errorf("%d diagnostic(s)", len(diags))
	}

	target := codegen.TargetName(compileTarget)
	var opts []codegen.Option
	if compileEmitSourceMap {
		opts = append(opts, codegen.WithSourceMap())
	}
	result, err := codegen.Generate(program, target, opts...)
	if err != nil {
		if ce, ok := err.(errors.CompilerError); ok {
			printDiagnostics(cmd, []errors.CompilerError{ce})
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return err
	}

	if compileOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Code)
		return nil
	}
	out := compileOutput
	if out == "-" {
		fmt.Fprint(cmd.OutOrStdout(), result.Code)
		return nil
	}
	if err := os.WriteFile(out, []byte(result.Code), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "compiled %s -> %s\n", path, out)
	return nil
}

func printDiagnostics(cmd *cobra.Command, diags []errors.CompilerError) {
	if compileJSON {
		b, err := errors.ToJSON(diags)
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		}
		return
	}
	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), errors.FormatTerminal(d))
	}
}
