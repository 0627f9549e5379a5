package mechanism

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
)

// Provider exposes the mechanism facts a job needs.
type Provider interface {
	SpeciesCount() int
	SpeciesNames() []string
	ReactionCount() int
	SubMechanisms() SubMechanisms
}

// SubMechanisms records which elemental sub-mechanisms are present.
type SubMechanisms struct {
	MaxCarbon int
	Nitrogen  bool
	Sulfur    bool
	Silicon   bool
}

// Summary is the on-disk description of a mechanism.
type Summary struct {
	Name      string   `toml:"name"`
	Species   []string `toml:"species"`
	Reactions int      `toml:"reactions"`
}

var _ Provider = (*Summary)(nil)

// LoadSummary reads a mechanism summary file.
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mechanism summary: %w", err)
	}
	var s Summary
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse mechanism summary %s: %w", path, err)
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}

// SummaryPath returns where the summary of mech lives inside dir.
func SummaryPath(dir, mech string) string {
	base := filepath.Base(mech)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".toml")
}

func (s *Summary) SpeciesCount() int { return len(s.Species) }

func (s *Summary) SpeciesNames() []string {
	return append([]string(nil), s.Species...)
}

func (s *Summary) ReactionCount() int { return s.Reactions }

// SubMechanisms infers sub-mechanism membership from the species formulas.
func (s *Summary) SubMechanisms() SubMechanisms {
	return InferSubMechanisms(s.Species)
}

// InferSubMechanisms scans species formulas for carbon, nitrogen, sulfur
// and silicon. Species names that are not plain formulas contribute what
// their element tokens say and nothing more.
func InferSubMechanisms(species []string) SubMechanisms {
	var out SubMechanisms
	for _, name := range species {
		counts := elementCounts(name)
		if c := counts["C"]; c > out.MaxCarbon {
			out.MaxCarbon = c
		}
		out.Nitrogen = out.Nitrogen || counts["N"] > 0
		out.Sulfur = out.Sulfur || counts["S"] > 0
		out.Silicon = out.Silicon || counts["Si"] > 0
	}
	return out
}

// elementCounts parses a formula such as CH3CHO into {C:2, H:4, O:1}.
func elementCounts(formula string) map[string]int {
	counts := map[string]int{}
	runes := []rune(formula)
	for i := 0; i < len(runes); {
		r := runes[i]
		if !unicode.IsUpper(r) {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsLower(runes[j]) {
			j++
		}
		element := string(runes[i:j])
		k := j
		for k < len(runes) && unicode.IsDigit(runes[k]) {
			k++
		}
		n := 1
		if k > j {
			n, _ = strconv.Atoi(string(runes[j:k]))
		}
		counts[element] += n
		i = k
	}
	return counts
}

// DefaultSubMechanisms returns the GA sub-mechanism selection enabled by
// default: H2 and CO always, every carbon class up to the largest one in
// the mechanism, then N, S and Si when present.
func DefaultSubMechanisms(p Provider) []string {
	out := []string{"H2", "CO"}
	if p == nil {
		return out
	}
	sub := p.SubMechanisms()
	for c := 1; c <= sub.MaxCarbon; c++ {
		out = append(out, "C"+strconv.Itoa(c))
	}
	if sub.Nitrogen {
		out = append(out, "N")
	}
	if sub.Sulfur {
		out = append(out, "S")
	}
	if sub.Silicon {
		out = append(out, "Si")
	}
	return out
}
