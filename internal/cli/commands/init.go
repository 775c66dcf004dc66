package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initInteractive bool

// NewInitCommand scaffolds a vertere.yml project file, prompting
// interactively unless --yes is given.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a vertere.yml project file",
		RunE:  runInit,
	}
	cmd.Flags().BoolVar(&initInteractive, "yes", false, "accept defaults without prompting")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "fidelis"
	outDir := "build"

	if !initInteractive {
		targetPrompt := &survey.Select{
			Message: "Default reference target:",
			Options: []string{"fidelis", "simplex", "firmus"},
			Default: target,
		}
		if err := survey.AskOne(targetPrompt, &target); err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}

		outDirPrompt := &survey.Input{
			Message: "Build output directory:",
			Default: outDir,
		}
		if err := survey.AskOne(outDirPrompt, &outDir, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
	}

	contents := fmt.Sprintf("target:\n  default: %s\n  emit_source_map: false\nbuild:\n  out_dir: %s\nlsp:\n  port: 0\n", target, outDir)
	if _, err := os.Stat("vertere.yml"); err == nil {
		return fmt.Errorf("vertere.yml already exists")
	}
	if err := os.WriteFile("vertere.yml", []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write vertere.yml: %w", err)
	}

	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "created vertere.yml")
	return nil
}
