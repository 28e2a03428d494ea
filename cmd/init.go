package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/logger"
)

var forceInit bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Writes a default config.yaml",
	Args:  cobra.MaximumNArgs(1),
	// init must work where no valid configuration exists yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(logger.WithContext(cmd.Context(), logger.NewLogger(logLevel)))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runInit(dir, forceInit)
	},
}

func runInit(dir string, force bool) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	cfg := config.Default()
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config.yaml")
	rootCmd.AddCommand(initCmd)
}
