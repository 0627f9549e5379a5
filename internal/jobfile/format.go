package jobfile

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	sectionRule  = "#============================================="
	caseMarker   = "#======> Case "
	opMarker     = "#===========> Op: "
	optimMarker  = "#====> Optimization"
	nullOperator = "NULL"

	leadingGAName = "GA without reduction"
	noReduction   = "no reduction"

	mainKeyWidth  = 18
	opKeyWidth    = 16
	optimKeyWidth = 19
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ", ")
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func formatList(values []string) string {
	return strings.Join(values, ", ")
}

// cleanValue drops the decorations older writers left around values.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.NewReplacer("[", "", "]", "", "'", "", `"`, "").Replace(v)
	return strings.TrimSpace(v)
}

func parseList(v string) []string {
	v = cleanValue(v)
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(cleanValue(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", strings.TrimSpace(v))
	}
	return f, nil
}

// parseInt accepts integral floats such as "250.0".
func parseInt(v string) (int, error) {
	s := cleanValue(v)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid integer %q", strings.TrimSpace(v))
	}
	return int(f), nil
}

func parseBool(v string) (bool, error) {
	switch cleanValue(v) {
	case "True", "true", "1":
		return true, nil
	case "False", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", strings.TrimSpace(v))
}

func parseFloats(v string) ([]float64, error) {
	items := parseList(v)
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := parseFloat(item)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseInts(v string) ([]int, error) {
	items := parseList(v)
	out := make([]int, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		n, err := parseInt(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
