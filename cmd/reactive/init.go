package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/internal/errors"
)

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a reactive.json project file",
		Long: `Create a reactive.json file in the current directory with
default settings for the inspector, the benchmarks, and the
trace archive.

Examples:
  reactive init
  reactive init --name=my-app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: directory name)")

	return cmd
}

func runInit(name string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	if config.Exists(wd) {
		return errors.Newf(errors.CategoryConfig, "reactive.json already exists").
			WithSuggestion("Edit the existing file or remove it first")
	}

	if name == "" {
		name = filepath.Base(wd)
	}

	cfg := config.New()
	cfg.Name = name

	path := filepath.Join(wd, config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	success("Created %s", config.ConfigFileName)
	info("Project:   %s", cfg.Name)
	info("Inspector: %s", cfg.InspectURL())
	info("Bench:     %s profile, %d iterations", cfg.Bench.Profile, cfg.Bench.Iterations)

	return nil
}
