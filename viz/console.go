package viz

import (
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/qolatlas/qolatlas/engine"
)

// PrintTable renders engine table data to the console.
func PrintTable(w io.Writer, td *engine.TableData) {
	if td == nil || len(td.Rows) == 0 {
		return
	}

	if td.Title != "" {
		color.New(color.FgCyan, color.Bold).Fprintln(w, td.Title)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(td.Headers)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range td.Rows {
		table.Append(row)
	}
	table.Render()
}
