package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"input-mapper/internal/app"
	"input-mapper/internal/mapping"
)

func newInfoCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info <document>",
		Short: "Summarize a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*configPath, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describe(s))
			return nil
		},
	}
}

func describe(s *app.Session) string {
	title := s.Title()
	if title == "" {
		title = mapping.DefaultTitle
	}
	st := s.Style()
	c := s.Colors()

	rows := []string{
		titleStyle.Render(title),
		field("Device", s.DeviceType()),
		field("Labels", fmt.Sprint(len(s.Labels()))),
		field("Body", swatch(c.Body)),
		field("Secondary", swatch(c.Secondary)),
		field("Accent", swatch(c.Accent)),
		field("Line", fmt.Sprintf("%s %s, %gpx, end %s, ", st.Dash, st.Shape, st.Width, st.End)+swatch(st.Color)),
	}

	var labels []string
	for _, l := range s.Labels() {
		text := l.Text
		if text == "" {
			text = mutedStyle.Render(mapping.PlaceholderText)
		}
		labels = append(labels, fmt.Sprintf("%-16s %s  %s", l.Key, strings.ReplaceAll(text, "\n", " / "),
			mutedStyle.Render(fmt.Sprintf("(%.0f%%, %.0f%%)", l.TargetX*100, l.TargetY*100))))
	}
	if len(labels) > 0 {
		rows = append(rows, "", strings.Join(labels, "\n"))
	}

	if stale := s.StaleLabels(); len(stale) > 0 {
		keys := make([]string, len(stale))
		for i, l := range stale {
			keys[i] = l.Key
		}
		rows = append(rows, "", warningStyle.Render(fmt.Sprintf("Keys not on %s: %s", s.DeviceType(), strings.Join(keys, ", "))))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}
