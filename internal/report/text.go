package report

import (
	"strings"

	"github.com/oxhq/covgroup/core"
)

const textHeader = `
| File | %Stmts | %Branch | %Funcs | %Lines |
| :--- | -----: | ------: | -----: | -----: |
`

// TextReport renders the raw coverage map as a markdown table: an "All" row
// from the total entry, then one row per file in path order. File names are
// made relative to cwd with up leading segments dropped.
func TextReport(data core.CoverageData, cwd string, up int) string {
	var b strings.Builder
	b.WriteString(textHeader)

	if total, ok := data.Total(); ok {
		writeRow(&b, "All", total)
	}
	for _, file := range data.SortedFiles() {
		writeRow(&b, core.DisplayPath(file, cwd, up), data[file])
	}
	return b.String()
}

func writeRow(b *strings.Builder, name string, s core.CoverageSummary) {
	label := strings.TrimSpace(core.Glyph(core.ClassifySummary(s)) + " " + name)
	cells := []string{
		label,
		core.FormatWithGlyph(s.Statements.Pct),
		core.FormatWithGlyph(s.Branches.Pct),
		core.FormatWithGlyph(s.Functions.Pct),
		core.FormatWithGlyph(s.Lines.Pct),
	}
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}
