// Command vertere is the CLI entry point: version, init, compile, format,
// and lsp subcommands wrapping the compiler core (internal/diag and
// compiler/codegen).
package main

import (
	"os"

	"github.com/vertere-lang/vertere/internal/cli/commands"
)

// Version information, set at build time via -ldflags.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
	goVersion = "unknown"
)

func main() {
	commands.Version = version
	commands.GitCommit = gitCommit
	commands.BuildDate = buildDate
	commands.GoVersion = goVersion

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
