package crispr

import (
	"fmt"
)

// Candidate is one primer pair proposed by primer3 for a locus.
//
// Primer sequences keep the case reported by primer3: lowercase bases were
// repeat-masked in the genome and are treated as a low-complexity signal.
// A Candidate is immutable after parsing except for MatchCount, which the
// specificity search fills in once per qualification round.
type Candidate struct {
	// Left and Right are the primer sequences, 5' to 3'
	Left  string
	Right string

	// LeftPos is the template offset of the left primer's first base.
	// RightPos is the template offset of the right primer's 3'-most base
	// on the forward strand, as primer3 reports it.
	LeftPos  int
	RightPos int

	// melting temperatures in degrees C
	LeftTm  float64
	RightTm float64

	// GC percentages of each primer (informational)
	LeftGC  float64
	RightGC float64

	// ProductSize is the amplicon length in bp
	ProductSize int

	// Product is the amplicon sequence, Template[LeftPos:LeftPos+ProductSize]
	Product string

	// Template is the full window sequence primer3 searched within
	Template string

	// MatchCount is the number of in-silico PCR hits against the genome.
	// Zero until the specificity search has run.
	MatchCount int

	// Chrom and WindowStart anchor the template on the genome:
	// WindowStart is the absolute coordinate of Template[0].
	// Set by the search-window controller before qualification.
	Chrom       string
	WindowStart int
}

// location renders a half-open genomic span as "chrom:start-end".
func location(chrom string, start, end int) string {
	return fmt.Sprintf("%s:%d-%d", chrom, start, end)
}

// LeftLocation is the genomic span of the left primer.
func (c *Candidate) LeftLocation() string {
	start := c.WindowStart + c.LeftPos
	return location(c.Chrom, start, start+len(c.Left))
}

// RightLocation is the genomic span of the right primer. Primer3 reports
// the right primer by its 3' end on the forward strand, so the span starts
// len-1 bases to its left.
func (c *Candidate) RightLocation() string {
	start := c.WindowStart + c.RightPos - len(c.Right) + 1
	return location(c.Chrom, start, start+len(c.Right))
}

// ProductLocation is the genomic span of the amplicon.
func (c *Candidate) ProductLocation() string {
	start := c.WindowStart + c.LeftPos
	return location(c.Chrom, start, start+c.ProductSize)
}
