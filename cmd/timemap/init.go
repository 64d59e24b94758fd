package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/timemap/internal/config"
)

var (
	globalFlag bool
	forceFlag  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Long: `Write a configuration file populated with every default value.

By default the project file (.timemap/config.toml) is written in the current
directory. With --global the file goes to ~/.timemap/config.toml instead.

Examples:
  timemap init              # Project configuration
  timemap init --global     # Global configuration
  timemap init --force      # Overwrite an existing file`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(
		&globalFlag,
		"global",
		"g",
		false,
		"Write the global configuration file",
	)

	initCmd.Flags().BoolVarP(
		&forceFlag,
		"force",
		"f",
		false,
		"Overwrite an existing configuration file",
	)
}

func runInit(cmd *cobra.Command, _ []string) error {
	writer, err := internalconfig.NewWriter()
	if err != nil {
		return errors.Wrap(err, "failed to create config writer")
	}

	cfg := internalconfig.DefaultConfig()

	var path string

	if globalFlag {
		path, err = writer.WriteGlobal(cfg, forceFlag)
	} else {
		path, err = writer.WriteProject(cfg, forceFlag)
	}

	if err != nil {
		if errors.Is(err, internalconfig.ErrConfigExists) {
			return err
		}

		return errors.Wrap(err, "failed to write configuration")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

	return nil
}
