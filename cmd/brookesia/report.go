package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"brookesia/internal/preflight"
)

// verdict is the outcome shown in brackets on a report line.
type verdict int

const (
	verdictNote verdict = iota
	verdictPass
	verdictFail
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const (
	reportIndent   = "  "
	minReportWidth = 20
)

func (v verdict) String() string {
	switch v {
	case verdictPass:
		return "OK"
	case verdictFail:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (v verdict) color() string {
	switch v {
	case verdictPass:
		return ansiGreen
	case verdictFail:
		return ansiRed
	default:
		return ansiBlue
	}
}

type reportLine struct {
	label   string
	verdict verdict
	detail  string
}

// reportSection is a titled block of lines. An empty title prints the
// lines without a header.
type reportSection struct {
	title string
	lines []reportLine
}

func checkLines(results []preflight.Result) []reportLine {
	lines := make([]reportLine, 0, len(results))
	for _, r := range results {
		v := verdictPass
		if !r.Passed {
			v = verdictFail
		}
		lines = append(lines, reportLine{label: r.Name, verdict: v, detail: r.Detail})
	}
	return lines
}

func validationLines(results []validationResult) []reportLine {
	lines := make([]reportLine, 0, len(results))
	for _, r := range results {
		line := reportLine{label: r.Path, verdict: verdictPass, detail: "valid"}
		if !r.Valid {
			line.verdict, line.detail = verdictFail, r.Error
		}
		lines = append(lines, line)
	}
	return lines
}

// renderReport aligns every label across all sections so job file paths
// and check names share one column.
func renderReport(sections []reportSection, colorize bool) string {
	width := minReportWidth
	for _, s := range sections {
		for _, l := range s.lines {
			width = max(width, len(l.label)+1)
		}
	}

	var out []string
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		if s.title != "" {
			out = append(out, sectionHeader(s.title, colorize)...)
		}
		for _, l := range s.lines {
			out = append(out, formatReportLine(l, width, colorize))
		}
	}
	return strings.Join(out, "\n")
}

func formatReportLine(l reportLine, width int, colorize bool) string {
	status := "[" + l.verdict.String() + "]"
	if l.detail != "" {
		status += " " + l.detail
	}
	line := fmt.Sprintf("%s%-*s %s", reportIndent, width, l.label+":", status)
	if colorize {
		return l.verdict.color() + line + ansiReset
	}
	return line
}

func sectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(line))
	if colorize {
		return []string{ansiBlue + line + ansiReset, ansiBlue + rule + ansiReset}
	}
	return []string{line, rule}
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// gridColumn describes one column of a job table.
type gridColumn struct {
	title string
	align text.Align
}

func leftCol(title string) gridColumn  { return gridColumn{title: title, align: text.AlignLeft} }
func rightCol(title string) gridColumn { return gridColumn{title: title, align: text.AlignRight} }

// grid is a titled table of cases, stages or drafts. Rows shorter than
// the column list are padded; a non-empty footer is rendered below them.
type grid struct {
	title   string
	columns []gridColumn
	rows    [][]string
	footer  []string
}

func (g grid) render() string {
	if len(g.columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if g.title != "" {
		tw.SetTitle(g.title)
	}

	tw.AppendHeader(g.row(columnTitles(g.columns)))
	for _, r := range g.rows {
		tw.AppendRow(g.row(r))
	}
	if len(g.footer) > 0 {
		tw.AppendFooter(g.row(g.footer))
	}

	configs := make([]table.ColumnConfig, len(g.columns))
	for i, c := range g.columns {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: text.AlignLeft, AlignFooter: c.align}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func (g grid) row(cells []string) table.Row {
	r := make(table.Row, len(g.columns))
	for i := range r {
		r[i] = ""
		if i < len(cells) {
			r[i] = cells[i]
		}
	}
	return r
}

func columnTitles(cols []gridColumn) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.title
	}
	return out
}
