package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"input-mapper/internal/project"
)

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a document between JSON and the binary format",
		Long: `Converts between the JSON document format (.json) and the compact
binary format (.mapk). Formats are chosen by file extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := project.Load(args[0])
			if err != nil {
				return err
			}
			if err := project.Save(args[1], doc); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d label(s) to %s\n", successStyle.Render("Converted"), len(doc.Labels), args[1])
			return nil
		},
	}
}
