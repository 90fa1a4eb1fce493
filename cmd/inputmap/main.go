// Command inputmap renders, converts and inspects input mapping documents
// without the editor window.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"input-mapper/internal/version"
)

func main() {
	var configPath string
	rootCmd := &cobra.Command{
		Use:   "inputmap",
		Short: "Input Mapper - controller and keyboard mapping diagrams",
		Long: `inputmap works on the documents saved by the Input Mapper editor:
render them to SVG or PNG, convert between JSON and the binary format,
list the device catalog and summarize a document.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config overriding the editor defaults")

	rootCmd.AddCommand(newRenderCommand(&configPath))
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newCatalogCommand())
	rootCmd.AddCommand(newInfoCommand(&configPath))
	rootCmd.AddCommand(newWatchCommand(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
