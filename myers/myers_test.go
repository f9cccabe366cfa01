package myers

import (
	"errors"
	"strings"
	"testing"
)

func gapless(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

func TestAlignGlobal(t *testing.T) {
	tests := []struct {
		a, b string
		dist int
	}{
		{"ACGTACGT", "ACGTACGT", 0},
		{"ACGT", "AGT", 1},
		{"AGT", "ACGT", 1},
		{"ACGTACGTACGT", "ACGTACCTACGT", 1},
		{"AAAA", "TTTT", 4},
		{"ACGT", "", 4},
		{"ACRT", "ACGT", 0},   // R = A|G
		{"ACGTN", "ACGTA", 0}, // N matches anything
		{"ACXT", "ACXT", 1},   // undefined symbols never match, even themselves
	}

	for _, test := range tests {
		aln, d, err := Align(test.a, test.b, Global, 1000)
		if err != nil {
			t.Errorf("unexpected error aligning %s vs %s: %s", test.a, test.b, err)
			continue
		}
		if d != test.dist {
			t.Errorf("aligning %s vs %s: expected distance %d, got %d", test.a, test.b, test.dist, d)
		}
		if len(aln.A) != len(aln.B) {
			t.Errorf("aligning %s vs %s: alignment sides differ in length", test.a, test.b)
		}
		if gapless(aln.A) != test.a {
			t.Errorf("aligning %s vs %s: seqA does not round-trip, got %s", test.a, test.b, aln.A)
		}
		if gapless(aln.B) != test.b {
			t.Errorf("aligning %s vs %s: seqB does not round-trip, got %s", test.a, test.b, aln.B)
		}
	}
}

func TestAlignOverflow(t *testing.T) {
	_, _, err := Align("AAAA", "TTTT", Global, 3)
	if !errors.Is(err, ErrOverflow) {
		t.Error("expected overflow aligning AAAA vs TTTT with maxDist 3")
	}

	// maxDist is inclusive
	_, d, err := Align("AAAA", "TTTT", Global, 4)
	if err != nil || d != 4 {
		t.Error("expected distance 4 aligning AAAA vs TTTT with maxDist 4", d, err)
	}
}

func TestAlignIsPrefix(t *testing.T) {
	aln, d, err := Align("ACGTACGT", "ACGT", IsPrefix, 4)
	if err != nil {
		t.Fatal("unexpected error in prefix alignment:", err)
	}
	if d != 0 {
		t.Error("expected distance 0 for a true prefix, got", d)
	}
	if gapless(aln.B) != "ACGT" {
		t.Error("seqB does not round-trip in prefix mode, got", aln.B)
	}
	if !strings.HasPrefix("ACGTACGT", gapless(aln.A)) {
		t.Error("seqA side should be a prefix of the first input, got", aln.A)
	}
}

func TestAlignHasPrefix(t *testing.T) {
	aln, d, err := Align("ACGT", "ACGTACGT", HasPrefix, 4)
	if err != nil {
		t.Fatal("unexpected error in hasPrefix alignment:", err)
	}
	if d != 0 {
		t.Error("expected distance 0 when seqA is a true prefix, got", d)
	}
	if gapless(aln.A) != "ACGT" {
		t.Error("seqA does not round-trip in hasPrefix mode, got", aln.A)
	}
	if !strings.HasPrefix("ACGTACGT", gapless(aln.B)) {
		t.Error("seqB side should be a prefix of the second input, got", aln.B)
	}
}

func TestAlignGapPlacement(t *testing.T) {
	aln, d, err := Align("ACGT", "AGT", Global, 2)
	if err != nil || d != 1 {
		t.Fatal("expected distance 1 aligning ACGT vs AGT", d, err)
	}
	if aln.A != "ACGT" || aln.B != "A-GT" {
		t.Error("unexpected gap placement:", aln.A, aln.B)
	}
}

func TestPretty(t *testing.T) {
	aln := Alignment{A: "ACGT", B: "ACCT"}
	want := "ACGT\nACCT\n** *\n\n"
	if aln.Pretty(72) != want {
		t.Errorf("unexpected pretty output:\n%s", aln.Pretty(72))
	}
}
