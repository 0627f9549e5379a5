package textutil

import (
	"strings"
	"testing"
)

func TestConditionFileName(t *testing.T) {
	tests := map[string]string{
		"Methane: lean":          "methane_lean.inp",
		"  H2/O2 (1 atm)  ":      "h2_o2_1_atm.inp",
		"Méthane riche":          "methane_riche.inp",
		"pp-flame -- variant B":  "pp-flame_--_variant_b.inp",
		"??":                     "",
		"":                       "",
		"Ωmega":                  "mega.inp",
		"___GRI 3.0 ignition___": "gri_3_0_ignition.inp",
	}
	for in, want := range tests {
		if got := ConditionFileName(in, ".inp"); got != want {
			t.Fatalf("ConditionFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConditionFileNameTruncates(t *testing.T) {
	got := ConditionFileName(strings.Repeat("ab ", 40), "")
	if len(got) > maxConditionName {
		t.Fatalf("expected at most %d bytes, got %d (%q)", maxConditionName, len(got), got)
	}
	if strings.HasSuffix(got, "_") {
		t.Fatalf("truncated name ends with a separator: %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("pp_flame"); got != "Pp Flame" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Label("JSR"); got != "JSR" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Label(""); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}

func TestYesNo(t *testing.T) {
	if YesNo(true) != "yes" || YesNo(false) != "no" {
		t.Fatal("unexpected YesNo rendering")
	}
}
