package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ojtools/ojtemplate/format"
)

func (a *app) dumpCmd() *cobra.Command {
	var canonical bool
	cmd := &cobra.Command{
		Use:   "dump [flags] FORMAT",
		Short: "Print a format tree",
		Long: `dump prints the format tree one node per line, indented by depth.
With --yaml it prints the tree in its canonical YAML form instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readFormat(cmd, args[0])
			if err != nil {
				return err
			}
			if root == nil {
				return errors.New("empty format tree")
			}
			if !canonical {
				return format.Fprint(cmd.OutOrStdout(), root)
			}
			data, err := format.Encode(root)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&canonical, "yaml", false, "print the canonical YAML form")
	return cmd
}
