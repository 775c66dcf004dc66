// Package commands implements Vertere's cobra CLI surface: version, init,
// compile, format, and lsp subcommands wrapping internal/diag and
// compiler/codegen.
package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand assembles the full vertere CLI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vertere",
		Short: "Vertere Latin-keyword source-to-source compiler",
		Long: color.CyanString(`Vertere - a Latin-keyword source-to-source compiler

Vertere parses Latin-keyword source files into a closed AST and emits
idiomatic code for one of three reference targets:
  fidelis  TypeScript-shaped
  simplex  Python-shaped
  firmus   Rust-shaped`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewCompileCommand())
	rootCmd.AddCommand(NewFormatCommand())
	rootCmd.AddCommand(NewLSPCommand())

	return rootCmd
}

// NewVersionCommand reports build-time version metadata.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}
			title := color.New(color.FgCyan, color.Bold)
			value := color.New(color.FgWhite)
			title.Print("vertere version: ")
			value.Println(Version)
			title.Print("git commit: ")
			value.Println(GitCommit)
			title.Print("build date: ")
			value.Println(BuildDate)
			title.Print("go version: ")
			value.Println(goVer)
		},
	}
}

// Execute runs the root command, printing a colored error on failure.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
