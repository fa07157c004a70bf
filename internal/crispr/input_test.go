package crispr

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_parseLocus(t *testing.T) {
	loc, err := parseLocus("A1,chr7:5529-5549")
	if err != nil {
		t.Fatalf("parseLocus() error: %v", err)
	}

	want := locus{id: "A1", chrom: "chr7", start: 5529, end: 5549, raw: "chr7:5529-5549"}
	if loc != want {
		t.Errorf("parseLocus() = %+v, want %+v", loc, want)
	}
}

func Test_parseLocus_invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no comma", "A1 chr7:5529-5549"},
		{"too many fields", "A1,chr7:5529-5549,extra"},
		{"no chromosome prefix", "A1,7:5529-5549"},
		{"no colon", "A1,chr7_5529-5549"},
		{"no dash", "A1,chr7:5529"},
		{"non-numeric start", "A1,chr7:here-5549"},
		{"non-numeric end", "A1,chr7:5529-there"},
		{"empty range", "A1,chr7:5549-5549"},
		{"inverted range", "A1,chr7:5549-5529"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseLocus(tt.line); err == nil {
				t.Errorf("parseLocus(%q) expected an error", tt.line)
			}
		})
	}
}

func Test_readLoci(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loci.csv")
	contents := `A1,chr7:5529-5549

not a locus line
B2,chr12:100-150
C3,12:100-150
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	loci, err := readLoci(path)
	if err != nil {
		t.Fatalf("readLoci() error: %v", err)
	}

	// blank and malformed lines are skipped, the rest keep input order
	if len(loci) != 2 {
		t.Fatalf("readLoci() returned %d loci, want 2", len(loci))
	}
	if loci[0].id != "A1" || loci[1].id != "B2" {
		t.Errorf("readLoci() ids = %s, %s, want A1, B2", loci[0].id, loci[1].id)
	}
}

func Test_readLoci_noUsableLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loci.csv")
	if err := os.WriteFile(path, []byte("garbage\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := readLoci(path); err == nil {
		t.Error("readLoci() expected an error when no line parses")
	}
}
