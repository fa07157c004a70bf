package crispr

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFasta(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "genome.fa")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_ReadGenome(t *testing.T) {
	path := writeTestFasta(t, `>chr1 AC:CM000663.2
ACGTacgtACGT
ACGT
>chr2
GGGGCCCC
`)

	g, err := ReadGenome("hg38", path)
	if err != nil {
		t.Fatalf("ReadGenome() error: %v", err)
	}

	if g.Name() != "hg38" {
		t.Errorf("Name() = %s, want hg38", g.Name())
	}

	// multi-line records are joined and soft-masked case survives
	seq, err := g.Interval("chr1", 0, 16)
	if err != nil {
		t.Fatal(err)
	}
	if seq != "ACGTacgtACGTACGT" {
		t.Errorf("chr1 = %s, want ACGTacgtACGTACGT", seq)
	}

	// the header is truncated at the first whitespace
	if _, err := g.Interval("chr1 AC:CM000663.2", 0, 1); err == nil {
		t.Error("Interval() resolved the untruncated header")
	}

	seq, err = g.Interval("chr2", 2, 6)
	if err != nil {
		t.Fatal(err)
	}
	if seq != "GGCC" {
		t.Errorf("chr2[2:6] = %s, want GGCC", seq)
	}
}

func Test_ReadGenome_errors(t *testing.T) {
	if _, err := ReadGenome("hg38", filepath.Join(t.TempDir(), "missing.fa")); err == nil {
		t.Error("ReadGenome() expected an error for a missing file")
	}

	path := writeTestFasta(t, "ACGT\n>chr1\nACGT\n")
	if _, err := ReadGenome("hg38", path); err == nil {
		t.Error("ReadGenome() expected an error for sequence before the first header")
	}

	path = writeTestFasta(t, "\n\n")
	if _, err := ReadGenome("hg38", path); err == nil {
		t.Error("ReadGenome() expected an error for an empty FASTA")
	}
}

func Test_Interval_bounds(t *testing.T) {
	g := &Genome{name: "test", seqs: map[string]string{"chr1": "ACGTACGT"}}

	tests := []struct {
		name       string
		chrom      string
		start, end int
	}{
		{"unknown chromosome", "chrX", 0, 4},
		{"negative start", "chr1", -1, 4},
		{"end past chromosome", "chr1", 0, 9},
		{"empty interval", "chr1", 4, 4},
		{"inverted interval", "chr1", 6, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Interval(tt.chrom, tt.start, tt.end); err == nil {
				t.Errorf("Interval(%s, %d, %d) expected an error", tt.chrom, tt.start, tt.end)
			}
		})
	}
}
