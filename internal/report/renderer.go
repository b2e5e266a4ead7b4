// Package report renders grouped and per-file coverage into HTML, Markdown,
// JSON and plain markdown tables.
package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/charmbracelet/log"
	cp "github.com/otiai10/copy"
	"github.com/samber/lo"

	"github.com/oxhq/covgroup/core"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Output file names inside the report directory
const (
	IndexFile    = "index.html"
	TableScript  = "table.js"
	ReportCSS    = "report.css"
	CoverageCSS  = "coverage.css"
	MarkdownFile = "grouped_summary.md"
)

// staleFiles are removed before an HTML report is regenerated.
var staleFiles = []string{IndexFile, ReportCSS, TableScript, CoverageCSS}

const (
	dataPlaceholder     = "'__COVERAGE_DATA__'"
	tableMapPlaceholder = "'__COVERAGE_TABLE_MAP__'"
)

// quotedKey matches simple quoted object keys so they can be written bare.
var quotedKey = regexp.MustCompile(`"([A-Za-z0-9]+)"\s*:`)

// Renderer owns its template helper table and parsed templates. Nothing is
// registered globally, so independent renderers never share state.
type Renderer struct {
	Title  string
	Now    func() time.Time
	Logger *log.Logger

	funcs  map[string]any
	html   *htmltemplate.Template
	md     *texttemplate.Template
	writer *core.AtomicWriter
}

// NewRenderer parses the embedded templates with sprig plus the coverage helpers.
func NewRenderer(writer *core.AtomicWriter) (*Renderer, error) {
	funcs := lo.Assign(map[string]any(sprig.TxtFuncMap()), helpers())

	html, err := htmltemplate.New("index.html.tmpl").
		Funcs(htmltemplate.FuncMap(funcs)).
		ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing html template: %w", err)
	}

	md, err := texttemplate.New("grouped_summary.md.tmpl").
		Funcs(texttemplate.FuncMap(funcs)).
		ParseFS(templateFS, "templates/grouped_summary.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing markdown template: %w", err)
	}

	if writer == nil {
		writer = core.NewAtomicWriter(core.DefaultAtomicConfig())
	}

	return &Renderer{
		Title:  "Grouped Coverage Report",
		Now:    time.Now,
		Logger: log.New(io.Discard),
		funcs:  funcs,
		html:   html,
		md:     md,
		writer: writer,
	}, nil
}

// Func returns a helper by name, for callers rendering their own templates.
func (r *Renderer) Func(name string) (any, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

type pageData struct {
	Title     string
	Coverage  core.GroupedCoverage
	Actual    core.CoveragePercentage
	Generated time.Time
}

// RenderHTML executes the index page template.
func (r *Renderer) RenderHTML(grouped core.GroupedCoverage) ([]byte, error) {
	var buf bytes.Buffer
	data := pageData{Title: r.Title, Coverage: grouped, Generated: r.Now()}
	if err := r.html.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderMarkdown executes the grouped summary template. total is the run-wide
// summary from the coverage input; its percentages are floored on output.
func (r *Renderer) RenderMarkdown(grouped core.GroupedCoverage, total core.CoverageSummary) ([]byte, error) {
	var buf bytes.Buffer
	data := pageData{
		Title:     r.Title,
		Coverage:  grouped,
		Actual:    total.Percentages(),
		Generated: r.Now(),
	}
	if err := r.md.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTableScript fills the table script with the grouped data and the
// table id map, both with bare keys where possible.
func RenderTableScript(grouped core.GroupedCoverage) ([]byte, error) {
	script, err := assetFS.ReadFile("assets/" + TableScript)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(grouped)
	if err != nil {
		return nil, err
	}

	idMap := make([]string, 0, len(grouped.Names))
	for _, name := range grouped.Names {
		key, _ := json.Marshal("table-" + lo.KebabCase(name))
		value, _ := json.Marshal(name)
		idMap = append(idMap, string(key)+":"+string(value))
	}

	out := strings.Replace(string(script), dataPlaceholder, unquoteKeys(data), 1)
	out = strings.Replace(out, tableMapPlaceholder, unquoteKeys([]byte("{"+strings.Join(idMap, ",")+"}")), 1)
	return []byte(out), nil
}

func unquoteKeys(b []byte) string {
	return quotedKey.ReplaceAllString(string(b), "$1:")
}

// WriteHTML replaces the HTML report in dir: stale files are removed, the
// page and script are written and the static stylesheets copied in.
func (r *Renderer) WriteHTML(dir string, grouped core.GroupedCoverage) error {
	r.Logger.Debug("Removing old report", "dir", dir)
	if err := r.writer.RemoveStale(dir, staleFiles...); err != nil {
		return err
	}

	r.Logger.Debug("Generating HTML")
	page, err := r.RenderHTML(grouped)
	if err != nil {
		return err
	}

	script, err := RenderTableScript(grouped)
	if err != nil {
		return fmt.Errorf("rendering table script: %w", err)
	}

	r.Logger.Debug("Writing report to disk", "dir", dir)
	if err := r.writer.WriteFile(filepath.Join(dir, IndexFile), page); err != nil {
		return err
	}
	if err := r.writer.WriteFile(filepath.Join(dir, TableScript), script); err != nil {
		return err
	}

	static, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return err
	}
	return cp.Copy("static", dir, cp.Options{
		FS:                static,
		PermissionControl: cp.AddPermission(0o200),
	})
}

// WriteMarkdown writes grouped_summary.md into dir.
func (r *Renderer) WriteMarkdown(dir string, grouped core.GroupedCoverage, total core.CoverageSummary) error {
	r.Logger.Debug("Generating Markdown")
	out, err := r.RenderMarkdown(grouped, total)
	if err != nil {
		return err
	}
	return r.writer.WriteFile(filepath.Join(dir, MarkdownFile), out)
}

// MarshalGrouped renders the grouped result as indented JSON.
func MarshalGrouped(grouped core.GroupedCoverage) ([]byte, error) {
	out, err := json.MarshalIndent(grouped, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// WriteJSON writes the grouped result to path.
func (r *Renderer) WriteJSON(path string, grouped core.GroupedCoverage) error {
	out, err := MarshalGrouped(grouped)
	if err != nil {
		return err
	}
	return r.writer.WriteFile(path, out)
}

// WriteText writes a text report produced by TextReport.
func (r *Renderer) WriteText(path, report string) error {
	return r.writer.WriteString(path, report)
}
