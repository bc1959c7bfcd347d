package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"assetnamer/internal/naming"
)

func newPatternsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the configured naming patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(cfg.Patterns.Library))
			for name := range cfg.Patterns.Library {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, cfg.Patterns.Library[name]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Pattern"}, rows))
			return nil
		},
	}

	cmd.AddCommand(newPatternsValidateCommand())
	return cmd
}

func newPatternsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <pattern>",
		Short:       "Check a naming pattern for syntax errors and unknown placeholders",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := naming.ParsePattern(args[0])
			if err != nil {
				return err
			}
			if err := pattern.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			placeholders := pattern.Placeholders()
			if len(placeholders) == 0 {
				fmt.Fprintln(out, "Pattern valid (no placeholders)")
				return nil
			}
			fmt.Fprintf(out, "Pattern valid, placeholders: %s\n", strings.Join(placeholders, ", "))
			return nil
		},
	}
}
