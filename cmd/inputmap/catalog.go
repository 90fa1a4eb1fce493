package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"input-mapper/internal/catalog"
)

func newCatalogCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "catalog [device]",
		Short: "List device types, or the keys of one device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), listDevices(cat))
				return nil
			}
			out, err := listKeys(cat, args[0], search)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only keys matching this text")
	return cmd
}

func listDevices(cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Devices") + "\n")
	for _, t := range cat.Types() {
		d, _ := cat.Device(t)
		b.WriteString(field(t, fmt.Sprintf("%s %s", d.Name, mutedStyle.Render(fmt.Sprintf("(%d keys)", len(d.Keys))))) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func listKeys(cat *catalog.Catalog, deviceType, search string) (string, error) {
	d, err := cat.Device(deviceType)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name) + "\n")
	for _, k := range cat.Search(deviceType, search) {
		anchor := mutedStyle.Render("no default anchor")
		if k.Anchor != nil {
			anchor = fmt.Sprintf("anchor %.3f, %.3f", k.Anchor[0], k.Anchor[1])
		}
		b.WriteString(field(k.Key, k.DisplayName()+"  "+anchor) + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
