package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newRenderCommand(configPath *string) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a document to SVG or PNG",
		Long: `Renders a saved mapping document the way the editor exports it. Without
--output the file is written next to the document, named after its title.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := formatExt(format)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			s, err := openSession(*configPath, args[0])
			if err != nil {
				return err
			}
			path, err := render(ctx, s, ext, output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Wrote ")+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format: svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	return cmd
}
