package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/pipeflow/internal/config"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "presets [pipe|valve]",
		Short:     "list available presets",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"pipe", "valve"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []string{"pipe", "valve"}
			if len(args) == 1 {
				kinds = args
			}
			out := cmd.OutOrStdout()
			for _, kind := range kinds {
				names := config.ListPresets(kind)
				if len(names) == 0 {
					fmt.Fprintf(out, "no presets for: %s\n", kind)
					continue
				}
				fmt.Fprintf(out, "%s presets:\n", kind)
				for _, name := range names {
					fmt.Fprintf(out, "  %-22s %s\n", name, config.Presets[kind][name].Description)
				}
			}
			return nil
		},
	}
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
