package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxConditionName bounds the stem of an archived condition file.
const maxConditionName = 64

// ConditionFileName turns a job name into the file name its condition file
// is archived under. Accents are folded ("Méthane" becomes "methane"),
// ASCII letters are lowercased, digits and hyphens are kept, and every run
// of anything else becomes a single underscore. Returns "" when nothing
// usable remains.
func ConditionFileName(name, ext string) string {
	stem := conditionStem(name)
	if stem == "" {
		return ""
	}
	return stem + ext
}

func conditionStem(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(name),
	)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	gap := false
	for _, r := range folded {
		keep := r == '-' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
		if !keep {
			gap = true
			continue
		}
		if gap && b.Len() > 0 {
			b.WriteByte('_')
		}
		gap = false
		b.WriteRune(unicode.ToLower(r))
	}

	stem := b.String()
	if len(stem) > maxConditionName {
		stem = stem[:maxConditionName]
	}
	return strings.Trim(stem, "_-")
}
