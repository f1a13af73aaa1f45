package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/extract"
	"github.com/matzehuels/simplexsight/pkg/material"
	"github.com/matzehuels/simplexsight/pkg/pipeline"
)

// dimRow summarizes one dimension of a complex.
type dimRow struct {
	Dim     int
	Total   int
	Kept    int
	Dropped int
}

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	maxDim := -1

	cmd := &cobra.Command{
		Use:   "info <source>",
		Short: "Show simplex counts and which elements a scene would keep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var bound *int
			if cmd.Flags().Changed("max-dim") {
				bound = &maxDim
			} else {
				bound = c.Config.MaxDim
			}
			return c.runInfo(cmd.Context(), args[0], bound)
		},
	}

	cmd.Flags().IntVar(&maxDim, "max-dim", maxDim, "highest simplex dimension to include (default: the complex's own)")
	return cmd
}

func (c *CLI) runInfo(ctx context.Context, source string, maxDim *int) error {
	src, err := pipeline.OpenSource(ctx, source)
	if err != nil {
		return err
	}
	defer src.Close()

	top, err := src.Dimension(ctx)
	if err != nil {
		return err
	}
	bound := max(top, 0)
	if maxDim != nil {
		bound = *maxDim
	}

	rows, vertices, err := summarize(ctx, src, top, bound)
	if err != nil {
		return err
	}

	printKeyValue("Source", source)
	printKeyValue("Kind", src.Kind)
	printKeyValue("Dimension", strconv.Itoa(top))
	printKeyValue("Max dim", strconv.Itoa(bound))
	printKeyValue("Vertices", strconv.Itoa(vertices))
	printNewline()
	fmt.Fprintln(out, renderDimTable(rows))
	return nil
}

// summarize counts simplices per dimension and how many survive indexing
// under bound. Dimensions the scene cannot hold are reported with nothing
// kept.
func summarize(ctx context.Context, r complex.Reader, top, bound int) ([]dimRow, int, error) {
	counts, err := complex.Counts(ctx, r)
	if err != nil {
		return nil, 0, err
	}
	idx, err := extract.IndexVertices(ctx, r, bound)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]dimRow, 0, top+1)
	for d := 0; d <= top; d++ {
		row := dimRow{Dim: d, Total: counts[d]}
		switch {
		case d == 0:
			row.Kept = row.Total
		case d < len(material.Classes):
			// Edges are always enumerated; faces and up honor the bound.
			res, err := extract.Elements(ctx, r, idx, d, max(bound, 1))
			if err != nil {
				return nil, 0, err
			}
			if d == 1 || d <= bound {
				row.Kept = len(res.Elements)
			}
		}
		row.Dropped = row.Total - row.Kept
		rows = append(rows, row)
	}
	return rows, idx.Len(), nil
}

func renderDimTable(rows []dimRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.Itoa(r.Dim),
			className(r.Dim),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Kept),
			strconv.Itoa(r.Dropped),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Dim", "Class", "Simplices", "Kept", "Dropped").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 && rows[row].Dropped > 0 {
				return StyleWarning
			}
			if col >= 2 {
				return StyleNumber
			}
			return StyleValue
		})
	return t.Render()
}

// className names the scene class for a dimension, or "-" when the scene
// has no class for it.
func className(dim int) string {
	if dim < len(material.Classes) {
		return material.Classes[dim].String()
	}
	return "-"
}
