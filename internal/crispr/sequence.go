package crispr

import (
	"fmt"
	"strings"
	"unicode"
)

// gcPercent returns the percentage of G/C bases in seq, case-insensitive.
// The empty sequence has no defined GC content.
func gcPercent(seq string) (float64, error) {
	if len(seq) == 0 {
		return 0, fmt.Errorf("cannot compute GC content of an empty sequence")
	}

	gcCount := 0
	for _, bp := range strings.ToUpper(seq) {
		if bp == 'C' || bp == 'G' {
			gcCount++
		}
	}

	return float64(gcCount) / float64(len(seq)) * 100.0, nil
}

// longestHomopolymerRun returns the length of the longest run of a single
// repeated base in seq, case-insensitive.
func longestHomopolymerRun(seq string) int {
	var prevBp rune
	currentRun := 0
	longestRun := 0

	for _, bp := range strings.ToUpper(seq) {
		if bp == prevBp {
			currentRun++
		} else {
			prevBp = bp
			currentRun = 1
		}
		if currentRun > longestRun {
			longestRun = currentRun
		}
	}

	return longestRun
}

// complement returns the Watson-Crick complement of seq. The sequence is
// uppercased first; any base outside ACGT is an error.
func complement(seq string) (string, error) {
	compMap := map[rune]byte{
		'A': 'T',
		'T': 'A',
		'G': 'C',
		'C': 'G',
	}

	var compBuffer strings.Builder
	for _, bp := range strings.ToUpper(seq) {
		comp, ok := compMap[bp]
		if !ok {
			return "", fmt.Errorf("invalid base %q in sequence %s", bp, seq)
		}
		compBuffer.WriteByte(comp)
	}

	return compBuffer.String(), nil
}

// reverse returns seq read back to front. Case is preserved.
func reverse(seq string) string {
	bps := []byte(seq)
	for i := 0; i < len(bps)/2; i++ {
		j := len(bps) - i - 1
		bps[i], bps[j] = bps[j], bps[i]
	}
	return string(bps)
}

// reverseComplement returns the reverse complement of a sequence
func reverseComplement(seq string) (string, error) {
	comp, err := complement(seq)
	if err != nil {
		return "", err
	}
	return reverse(comp), nil
}

// hasMaskedBases reports whether any of the last n bases of seq is
// lowercase. Lowercase bases come from the repeat-masked genome and flag a
// low-complexity priming site.
func hasMaskedBases(seq string, n int) bool {
	tail := seq
	if len(seq) > n {
		tail = seq[len(seq)-n:]
	}
	for _, bp := range tail {
		if unicode.IsLower(bp) {
			return true
		}
	}
	return false
}
