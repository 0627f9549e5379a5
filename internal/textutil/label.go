package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label renders a job-file token such as pp_flame as "Pp Flame".
func Label(token string) string {
	token = strings.TrimSpace(strings.ReplaceAll(token, "_", " "))
	if token == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(token)
}

// YesNo renders a boolean for table output.
func YesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
