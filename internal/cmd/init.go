package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/DevSymphony/codecleaner/internal/config"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .codecleaner.yaml for the current directory",
	Long: `Create .codecleaner.yaml with the default rules and thresholds.

This command:
  1. Asks for the languages, the source encoding and the size thresholds
  2. Writes .codecleaner.yaml
  3. Optionally registers the MCP server for AI tools`,
	RunE: runInit,
}

var (
	initForce       bool
	initYes         bool
	skipMCPRegister bool
	registerMCPOnly bool
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept the defaults without prompting")
	initCmd.Flags().BoolVar(&skipMCPRegister, "skip-mcp", false, "Skip MCP server registration prompt")
	initCmd.Flags().BoolVar(&registerMCPOnly, "register-mcp", false, "Register MCP server only (skip config init)")
}

func runInit(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	// MCP registration only mode
	if registerMCPOnly {
		p.Title("MCP", "Registering codecleaner MCP server")
		promptMCPRegistration(p, root)
		return nil
	}

	path := configPath
	if path == "" {
		path = filepath.Join(root, config.FileName)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		p.Warn(fmt.Sprintf("%s already exists", filepath.Base(path)))
		p.Indent("Use --force flag to overwrite")
		return errFindings
	}

	cfg := config.Default()
	if !initYes {
		if err := promptConfig(cfg); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, terminal.InterruptErr) {
				p.Info("Initialization cancelled")
				return nil
			}
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	p.OK(fmt.Sprintf("%s created", filepath.Base(path)))
	p.Indent(fmt.Sprintf("Location: %s", path))

	// MCP registration prompt
	if !skipMCPRegister && !initYes {
		promptMCPRegistration(p, root)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	p.Done("Initialization complete")
	p.Indent("Run 'codecleaner validate' to check the project")
	return nil
}

// promptConfig asks for the settings most projects change.
func promptConfig(cfg *config.Config) error {
	var langs []string
	languages := &survey.MultiSelect{
		Message: "Languages to check:",
		Options: core.SupportedLanguages(),
		Default: cfg.Languages,
	}
	if err := survey.AskOne(languages, &langs, survey.WithValidator(survey.MinItems(1))); err != nil {
		return err
	}
	cfg.Languages = langs

	encoding := promptui.Select{
		Label: "Encoding of files without a byte order mark",
		Items: []string{config.EncodingLatin1, config.EncodingUTF8},
	}
	_, enc, err := encoding.Run()
	if err != nil {
		return err
	}
	cfg.Encoding = enc

	limits := []struct {
		label string
		value *int
	}{
		{"Maximum parameters per method", &cfg.Thresholds.MaxParams},
		{"Maximum lines per method", &cfg.Thresholds.MaxLines},
		{"Maximum nesting depth", &cfg.Thresholds.MaxIndent},
	}
	for _, l := range limits {
		n, err := promptInt(l.label, *l.value)
		if err != nil {
			return err
		}
		*l.value = n
	}
	return nil
}

func promptInt(label string, def int) (int, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(def),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	s, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
