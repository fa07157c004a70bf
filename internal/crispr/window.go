package crispr

import (
	"errors"
	"fmt"

	"github.com/czbiohub/crispr-primer/internal/config"
)

// searcher drives the escalating search-window loop for one locus: ask the
// design oracle for candidates at the current window size, annotate them
// with specificity counts, qualify them, and widen the window when nothing
// survives.
type searcher struct {
	conf     *config.Config
	genome   *Genome
	designer designOracle
	ispcr    specificityOracle
	qual     *qualifier
}

func newSearcher(conf *config.Config, genome *Genome, designer designOracle, ispcr specificityOracle, diag *diagnostics) *searcher {
	return &searcher{
		conf:     conf,
		genome:   genome,
		designer: designer,
		ispcr:    ispcr,
		qual:     &qualifier{conf: conf, diag: diag},
	}
}

// topPrimers returns the best qualifying primer pair for a locus, or nil
// when every window up to the exhaustion sentinel has been tried. The
// sentinel itself is never searched. A nil, nil return is the normal
// drop-out outcome, not a fault.
func (s *searcher) topPrimers(loc locus) (*Candidate, error) {
	leeway := s.conf.Leeway

	for w := s.conf.InitialSearchRange; w != s.conf.ExhaustedSearchRange; w += s.conf.SearchRangeStep {
		productSizeRange, ok := s.conf.ProductSizeRange(w)
		if !ok {
			return nil, fmt.Errorf("no primer3 profile for search range %d (have %v)", w, s.conf.SearchRanges())
		}

		windowStart := loc.start - leeway - w
		windowEnd := loc.end + leeway + w
		template, err := s.genome.Interval(loc.chrom, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}

		candidates, err := s.designer.design(designRequest{
			id:               loc.id,
			template:         template,
			targetStart:      w + leeway,
			targetLen:        s.conf.TargetSpan,
			excludeStart:     w,
			excludeLen:       s.conf.TargetSpan + 2*leeway,
			productSizeRange: productSizeRange,
		})
		if err != nil {
			// a malformed/empty design response is the same as an empty
			// round: keep widening. A failed invocation is fatal.
			var kerr *keyError
			if errors.As(err, &kerr) {
				rlog.Warnf("%s: design failed at search range %d: %v", loc.id, w, err)
				continue
			}
			return nil, err
		}
		if len(candidates) == 0 {
			rlog.Debugf("%s: no candidates at search range %d", loc.id, w)
			continue
		}

		if err := s.ispcr.annotate(loc.id, candidates); err != nil {
			return nil, err
		}

		var acceptable *Candidate
		acceptableCount := 0
		for _, c := range candidates {
			c.Chrom = loc.chrom
			c.WindowStart = windowStart

			tier, err := s.qual.qualify(c)
			if err != nil {
				rlog.Warnf("%s: skipping candidate %s %s: %v", loc.id, c.Left, c.Right, err)
				continue
			}
			switch tier {
			case Ideal:
				// first ideal wins outright
				return c, nil
			case Acceptable:
				if acceptable == nil {
					acceptable = c
				}
				acceptableCount++
			}
		}
		if acceptable != nil {
			rlog.Infof("%s: no ideal matches, %d acceptable matches", loc.id, acceptableCount)
			return acceptable, nil
		}
	}

	return nil, nil
}
