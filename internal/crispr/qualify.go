package crispr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/czbiohub/crispr-primer/internal/config"
	"golang.org/x/exp/slices"
)

// QualificationResult is the tier a candidate primer pair lands in after
// the rule chain has run.
type QualificationResult int

const (
	// NotQualified candidates are unusable and never reported
	NotQualified QualificationResult = iota

	// Acceptable candidates are usable but missed at least one ideal band
	Acceptable

	// Ideal candidates passed every rule without a downgrade
	Ideal
)

func (q QualificationResult) String() string {
	switch q {
	case Ideal:
		return "ideal"
	case Acceptable:
		return "acceptable"
	default:
		return "not qualified"
	}
}

// ruleOutcome is the verdict of a single qualification rule.
type ruleOutcome int

const (
	// rulePass leaves the running tier untouched
	rulePass ruleOutcome = iota

	// ruleDowngrade caps the tier at Acceptable but later rules still run
	ruleDowngrade

	// ruleDisqualify ends the chain with NotQualified
	ruleDisqualify
)

// rejection records a candidate the specificity rule threw out, for the
// end-of-run diagnostic report.
type rejection struct {
	matches int
	left    string
	right   string
}

// diagnostics collects specificity rejections across an entire run.
// Append-only; shared by the per-locus qualifiers.
type diagnostics struct {
	mu       sync.Mutex
	rejected []rejection
}

func newDiagnostics() *diagnostics {
	return &diagnostics{}
}

func (d *diagnostics) record(c *Candidate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejected = append(d.rejected, rejection{
		matches: c.MatchCount,
		left:    c.Left,
		right:   c.Right,
	})
}

// report logs every specificity-rejected candidate, worst offenders first.
func (d *diagnostics) report() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.rejected) == 0 {
		return
	}
	slices.SortFunc(d.rejected, func(r1, r2 rejection) bool {
		return r1.matches > r2.matches
	})
	rlog.Infof("%d candidates rejected by the specificity search:", len(d.rejected))
	for _, r := range d.rejected {
		rlog.Infof("  %d matches for primer pair %s %s", r.matches, r.left, r.right)
	}
}

// qualifier classifies annotated candidates with the ordered rule chain.
type qualifier struct {
	conf *config.Config
	diag *diagnostics
}

type rule struct {
	name  string
	check func(*Candidate) (ruleOutcome, error)
}

// qualify runs the rules in order. The first disqualifying rule
// short-circuits to NotQualified; a downgrading rule caps the tier at
// Acceptable but keeps checking, so a later disqualification still wins.
func (q *qualifier) qualify(c *Candidate) (QualificationResult, error) {
	tier := Ideal
	for _, r := range q.rules() {
		outcome, err := r.check(c)
		if err != nil {
			return NotQualified, fmt.Errorf("%s check: %w", r.name, err)
		}
		switch outcome {
		case ruleDisqualify:
			return NotQualified, nil
		case ruleDowngrade:
			tier = Acceptable
		}
	}
	return tier, nil
}

func (q *qualifier) rules() []rule {
	return []rule{
		{"specificity", q.checkSpecificity},
		{"low complexity", q.checkLowComplexity},
		{"partner binding", q.checkPartnerBinding},
		{"self binding", q.checkSelfBinding},
		{"adapter binding", q.checkAdapterBinding},
		{"amplicon GC", q.checkAmpliconGC},
		{"homopolymer", q.checkHomopolymer},
		{"melting temperature", q.checkMeltingTemp},
		{"primer length", q.checkPrimerLength},
	}
}

// checkSpecificity requires exactly one in-silico PCR hit on the genome.
// Zero means the pair doesn't amplify where expected, more than one means
// it amplifies somewhere else too.
func (q *qualifier) checkSpecificity(c *Candidate) (ruleOutcome, error) {
	if c.MatchCount != 1 {
		rlog.Debugf("%d isPcr matches for primer pair %s %s", c.MatchCount, c.Left, c.Right)
		q.diag.record(c)
		return ruleDisqualify, nil
	}
	return rulePass, nil
}

// checkLowComplexity rejects primers whose 3' end reaches into a
// repeat-masked (lowercase) region of the genome.
func (q *qualifier) checkLowComplexity(c *Candidate) (ruleOutcome, error) {
	n := q.conf.LowComplexityCheckLength
	if hasMaskedBases(c.Left, n) || hasMaskedBases(c.Right, n) {
		rlog.Debugf("low complexity 3' end for primer pair %s %s", c.Left, c.Right)
		return ruleDisqualify, nil
	}
	return rulePass, nil
}

// threePrimeEnds returns the complements of each primer's 3'-terminal
// 4-mer. If either 4-mer finds its complement in a sequence the pair will
// be exposed to, the 3' end can anneal there and extend.
func (q *qualifier) threePrimeEnds(c *Candidate) (left4, right4 string, err error) {
	if left4, err = complement(tail(c.Left, 4)); err != nil {
		return
	}
	right4, err = complement(head(reverse(c.Right), 4))
	return
}

// checkPartnerBinding looks for either primer's 3' 4-mer annealing to its
// partner (primer-dimer between the two).
func (q *qualifier) checkPartnerBinding(c *Candidate) (ruleOutcome, error) {
	left4, right4, err := q.threePrimeEnds(c)
	if err != nil {
		return ruleDisqualify, err
	}
	if strings.Contains(strings.ToUpper(reverse(c.Right)), left4) {
		return ruleDisqualify, nil
	}
	if strings.Contains(strings.ToUpper(c.Left), right4) {
		return ruleDisqualify, nil
	}
	return rulePass, nil
}

// checkSelfBinding looks for a primer's 3' 4-mer annealing within the
// primer itself (hairpins and self-dimers).
func (q *qualifier) checkSelfBinding(c *Candidate) (ruleOutcome, error) {
	left4, right4, err := q.threePrimeEnds(c)
	if err != nil {
		return ruleDisqualify, err
	}
	if strings.Contains(strings.ToUpper(c.Left), left4) {
		return ruleDisqualify, nil
	}
	if strings.Contains(strings.ToUpper(reverse(c.Right)), right4) {
		return ruleDisqualify, nil
	}
	return rulePass, nil
}

// checkAdapterBinding looks for a primer's 3' 4-mer annealing to the
// partner primer once its sequencing adapter is prepended downstream.
func (q *qualifier) checkAdapterBinding(c *Candidate) (ruleOutcome, error) {
	left4, right4, err := q.threePrimeEnds(c)
	if err != nil {
		return ruleDisqualify, err
	}
	if strings.Contains(strings.ToUpper(reverse(q.conf.RightTag+c.Right)), left4) {
		return ruleDisqualify, nil
	}
	if strings.Contains(strings.ToUpper(q.conf.LeftTag+c.Left), right4) {
		return ruleDisqualify, nil
	}
	return rulePass, nil
}

// checkAmpliconGC disqualifies extreme amplicon GC content and downgrades
// merely unusual GC content.
func (q *qualifier) checkAmpliconGC(c *Candidate) (ruleOutcome, error) {
	gc, err := gcPercent(c.Product)
	if err != nil {
		return ruleDisqualify, err
	}
	if gc < q.conf.AcceptableAmpliconGCMin || gc > q.conf.AcceptableAmpliconGCMax {
		rlog.Debugf("amplicon GC %.1f too extreme for primer pair %s %s", gc, c.Left, c.Right)
		return ruleDisqualify, nil
	}
	if gc < q.conf.IdealAmpliconGCMin || gc > q.conf.IdealAmpliconGCMax {
		return ruleDowngrade, nil
	}
	return rulePass, nil
}

// checkHomopolymer caps the longest single-base run across both primers.
// primer3 already filters at the acceptable ceiling; this re-checks in case
// the profile was loosened.
func (q *qualifier) checkHomopolymer(c *Candidate) (ruleOutcome, error) {
	run := longestHomopolymerRun(c.Left)
	if r := longestHomopolymerRun(c.Right); r > run {
		run = r
	}
	if run > q.conf.AcceptableHomopolymerMax {
		rlog.Debugf("homopolymer run %d too long for primer pair %s %s", run, c.Left, c.Right)
		return ruleDisqualify, nil
	}
	if run > q.conf.IdealHomopolymerMax {
		return ruleDowngrade, nil
	}
	return rulePass, nil
}

// checkMeltingTemp downgrades (never disqualifies) primers melting outside
// the ideal band.
func (q *qualifier) checkMeltingTemp(c *Candidate) (ruleOutcome, error) {
	for _, tm := range []float64{c.LeftTm, c.RightTm} {
		if tm < q.conf.IdealTmMin || tm > q.conf.IdealTmMax {
			return ruleDowngrade, nil
		}
	}
	return rulePass, nil
}

// checkPrimerLength downgrades (never disqualifies) primers outside the
// ideal length band.
func (q *qualifier) checkPrimerLength(c *Candidate) (ruleOutcome, error) {
	for _, n := range []int{len(c.Left), len(c.Right)} {
		if n < q.conf.IdealPrimerLenMin || n > q.conf.IdealPrimerLenMax {
			return ruleDowngrade, nil
		}
	}
	return rulePass, nil
}

// tail returns the last n characters of seq
func tail(seq string, n int) string {
	if len(seq) <= n {
		return seq
	}
	return seq[len(seq)-n:]
}

// head returns the first n characters of seq
func head(seq string, n int) string {
	if len(seq) <= n {
		return seq
	}
	return seq[:n]
}
