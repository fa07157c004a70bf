package crispr

import (
	"testing"
)

func Test_isPcrInput(t *testing.T) {
	candidates := []*Candidate{
		{Left: "ACGTACGTACGTACGTAC", Right: "TGCATGCATGCATGCATG"},
		{Left: "GATTACAGATTACAGATT", Right: "CCGGAATTCCGGAATTCC"},
	}

	got := isPcrInput(candidates, 1000)
	want := "0 ACGTACGTACGTACGTAC TGCATGCATGCATGCATG 1000\n" +
		"1 GATTACAGATTACAGATT CCGGAATTCCGGAATTCC 1000\n"
	if got != want {
		t.Errorf("isPcrInput() = %q, want %q", got, want)
	}
}

func Test_countMatches(t *testing.T) {
	candidates := []*Candidate{{}, {}, {}}

	// candidate 0 amplifies twice, candidate 2 once, candidate 1 never
	output := `>chr1:100+350 0 18bp ACGTACGTACGTACGTAC TGCATGCATGCATGCATG
ACGTACGTACGTACGTAC
>chr7:9000+9250 0 18bp ACGTACGTACGTACGTAC TGCATGCATGCATGCATG
ACGTACGTACGTACGTAC
>chr2:500+760 2 18bp GATTACAGATTACAGATT CCGGAATTCCGGAATTCC
GATTACAGATTACAGATT
`

	if err := countMatches(output, candidates); err != nil {
		t.Fatalf("countMatches() error: %v", err)
	}

	wantCounts := []int{2, 0, 1}
	for i, want := range wantCounts {
		if candidates[i].MatchCount != want {
			t.Errorf("candidate %d MatchCount = %d, want %d", i, candidates[i].MatchCount, want)
		}
	}
}

func Test_countMatches_badOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"header with no index", ">chr1:100+350\n"},
		{"non-numeric index", ">chr1:100+350 first 18bp\n"},
		{"index out of range", ">chr1:100+350 5 18bp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := countMatches(tt.output, []*Candidate{{}}); err == nil {
				t.Error("countMatches() expected an error")
			}
		})
	}
}

func Test_countMatches_ignoresSequenceLines(t *testing.T) {
	candidates := []*Candidate{{}}

	// bare sequence lines and blanks between headers are not matches
	output := "ACGTACGT\n\n>chr1:1+100 0 18bp L R\nACGT\nACGT\n"
	if err := countMatches(output, candidates); err != nil {
		t.Fatalf("countMatches() error: %v", err)
	}
	if candidates[0].MatchCount != 1 {
		t.Errorf("MatchCount = %d, want 1", candidates[0].MatchCount)
	}
}
