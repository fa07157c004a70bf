package crispr

import (
	"fmt"

	"github.com/czbiohub/crispr-primer/internal/config"
	"golang.org/x/sync/errgroup"
)

// DesignParams are the inputs of one design batch.
type DesignParams struct {
	// In is the input file of "id,chr:start-end" lines
	In string

	// Out is the primer table; drop-outs go to Out + ".dropout"
	Out string

	// GenomeName selects the genome FASTA and 2bit index, eg "hg38"
	GenomeName string
}

// Design runs the whole batch: load the genome, search every locus for its
// best primer pair, and write the primer and drop-out tables.
//
// Loci run concurrently up to the configured worker count. Each worker
// owns its design oracle (primer3 calls are temp-file isolated) while the
// single specificity oracle serializes gfPcr calls internally.
func Design(params DesignParams, conf *config.Config) error {
	loci, err := readLoci(params.In)
	if err != nil {
		return err
	}

	if !IndexServerReady(conf) {
		return fmt.Errorf("no gfServer answering on port %d; run 'crispr-primer server start -g %s' first",
			conf.GfServerPort, params.GenomeName)
	}

	genome, err := ReadGenome(params.GenomeName, conf.GenomeFasta(params.GenomeName))
	if err != nil {
		return err
	}

	ispcr := newIsPcr(conf)
	diag := newDiagnostics()
	results := make([]locusResult, len(loci))

	var group errgroup.Group
	workers := conf.DesignWorkers
	if workers < 1 {
		workers = 1
	}
	group.SetLimit(workers)

	for i, loc := range loci {
		i, loc := i, loc
		group.Go(func() error {
			rlog.Infof("Searching primers for %s (%s)", loc.id, loc.raw)
			s := newSearcher(conf, genome, newPrimer3(conf), ispcr, diag)
			winner, err := s.topPrimers(loc)
			if err != nil {
				return fmt.Errorf("locus %s: %w", loc.id, err)
			}
			if winner == nil {
				stderr.Printf("WARNING: %s (%s) has no usable primer pair", loc.id, loc.raw)
			}
			results[i] = locusResult{locus: loc, winner: winner}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	diag.report()

	return writeResults(params.Out, params.GenomeName, results, conf)
}
