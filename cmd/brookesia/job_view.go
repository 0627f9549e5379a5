package main

import (
	"fmt"
	"strconv"
	"strings"

	"brookesia/internal/job"
	"brookesia/internal/textutil"
)

func renderJob(j *job.Job) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mechanism: %s\n", j.Main.Mechanism)
	if j.Main.WorkDir != "" {
		fmt.Fprintf(&b, "Main path: %s\n", j.Main.WorkDir)
	}
	if keys := j.Targets.Keys(); len(keys) > 0 {
		labels := make([]string, len(keys))
		for i, k := range keys {
			labels[i] = k.String()
		}
		fmt.Fprintf(&b, "Targets:   %s\n", strings.Join(labels, ", "))
	}
	fmt.Fprintf(&b, "Errors:    %s, coupled by %s\n\n", j.Main.ErrorCalculation, j.Main.ErrorCoupling)

	cases := caseGrid(j.Cases)
	b.WriteString(cases.render())
	b.WriteString("\n\n")

	stages := j.Pipeline.Stages()
	if len(stages) == 0 {
		b.WriteString("No reduction operators.\n")
		return b.String()
	}
	b.WriteString(grid{
		title:   "Operators",
		columns: []gridColumn{rightCol("#"), leftCol("Operator"), rightCol("Eps"), rightCol("Delta eps"), rightCol("Points"), leftCol("Detail")},
		rows:    stageRows(stages),
	}.render())
	b.WriteString("\n")
	return b.String()
}

// caseGrid lists one row per case; the footer totals the active
// conditions the engine will sweep.
func caseGrid(cases []job.Case) grid {
	g := grid{
		title:   "Cases",
		columns: []gridColumn{rightCol("#"), leftCol("Config"), leftCol("P [Pa]"), leftCol("T [K]"), leftCol("Phi"), rightCol("Points"), leftCol("Active")},
		rows:    make([][]string, 0, len(cases)),
	}
	total, active := 0, 0
	for i, c := range cases {
		points := c.Pressure.Count() * c.Burner1.Temperature.Count() * c.Burner1.Phi.Count()
		if c.Active {
			total += points
			active++
		}
		g.rows = append(g.rows, []string{
			strconv.Itoa(i + 1),
			textutil.Label(string(c.Kind)),
			formatRange(c.Pressure),
			formatRange(c.Burner1.Temperature),
			formatRange(c.Burner1.Phi),
			strconv.Itoa(points),
			textutil.YesNo(c.Active),
		})
	}
	g.footer = []string{"", fmt.Sprintf("%d of %d active", active, len(cases)), "", "", "", strconv.Itoa(total), ""}
	return g
}

func stageRows(stages []job.Stage) [][]string {
	rows := make([][]string, 0, len(stages))
	for i, s := range stages {
		row := []string{strconv.Itoa(i + 1), s.Name(), "", "", "", ""}
		switch s.Kind() {
		case job.StageReduction:
			r := s.Reduction
			row[2] = formatFloat(r.Epsilon)
			row[3] = formatFloat(r.DeltaEpsilon)
			row[4] = strconv.Itoa(r.Points)
			row[5] = thresholdSummary(r.Errors)
		case job.StageOptimization:
			o := s.Optimization
			row[4] = strconv.Itoa(o.Individuals)
			detail := fmt.Sprintf("%d gen, %s fitness, %s", o.Generations, o.Fitness, o.Selection.Operator)
			if o.Binding != nil {
				detail += fmt.Sprintf(", on %s", o.Binding.Family)
			}
			row[5] = detail
		}
		rows = append(rows, row)
	}
	return rows
}

func thresholdSummary(errs job.ErrorThresholds) string {
	parts := make([]string, 0, len(errs))
	for _, t := range errs {
		parts = append(parts, fmt.Sprintf("%s %s%%", t.Key, formatFloat(t.Percent)))
	}
	return strings.Join(parts, ", ")
}

func formatRange(r job.Range) string {
	if r.Min == r.Max {
		return formatFloat(r.Min)
	}
	return fmt.Sprintf("%s..%s / %s", formatFloat(r.Min), formatFloat(r.Max), formatFloat(r.Incr))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
