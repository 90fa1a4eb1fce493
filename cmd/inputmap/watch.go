package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"input-mapper/internal/app"
)

func newWatchCommand(configPath *string) *cobra.Command {
	var format string
	var output string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <document>",
		Short: "Re-render a document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := formatExt(format)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			doc := args[0]
			rerender := func() {
				s, err := openSession(*configPath, doc)
				if err != nil {
					log.Printf("Watch: %v", err)
					return
				}
				path, err := render(ctx, s, ext, output)
				if err != nil {
					log.Printf("Watch: render: %v", err)
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Wrote ")+path)
			}
			rerender()

			fw, err := app.NewFileWatcher([]string{doc}, debounce)
			if err != nil {
				return err
			}
			fw.OnChange(func([]string) { rerender() })
			fw.Start()
			defer fw.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Watching "+doc+" (Ctrl+C to stop)"))
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format: svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before re-rendering")
	return cmd
}
