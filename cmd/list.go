package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/richinsley/goshaderfx/effects"
	"github.com/richinsley/goshaderfx/renderer"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available effect kinds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeCatalogue(cmd.OutOrStdout(), effects.Catalogue())
		return nil
	},
}

func resizeName(p renderer.ResizePolicy) string {
	if p == renderer.ResizeOnNotify {
		return "on notify"
	}
	return "every frame"
}

func writeCatalogue(w io.Writer, defs []effects.Definition) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Kind", "Pointer", "Origin", "Max DPR", "Resize", "Description"})
	for _, d := range defs {
		table.Append([]string{
			d.Kind,
			d.Scope.String(),
			d.Convention.String(),
			fmt.Sprintf("%g", d.MaxPixelRatio),
			resizeName(d.Resize),
			d.Description,
		})
	}
	table.Render()
}
