package crispr

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Genome is an in-memory view of a soft-masked genome FASTA.
//
// Case is preserved on purpose: lowercase bases mark repeat-masked regions
// and the low-complexity qualification rule depends on seeing them.
type Genome struct {
	// the genome's name, eg "hg38"
	name string

	// chromosome name -> full sequence
	seqs map[string]string
}

// ReadGenome loads a genome FASTA into memory. Headers are truncated at the
// first whitespace, so ">chr1 AC:..." indexes as "chr1".
func ReadGenome(name, path string) (*Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open genome FASTA %s: %v", path, err)
	}
	defer f.Close()

	seqs := make(map[string]string)
	var chrom string
	var seq strings.Builder

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if chrom != "" {
				seqs[chrom] = seq.String()
				seq.Reset()
			}
			chrom = strings.Fields(line[1:])[0]
			continue
		}
		if chrom == "" {
			return nil, fmt.Errorf("%s: sequence before the first FASTA header", path)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read genome FASTA %s: %v", path, err)
	}
	if chrom != "" {
		seqs[chrom] = seq.String()
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("no sequences in genome FASTA %s", path)
	}

	rlog.Infof("Loaded %d sequences from %s", len(seqs), path)
	return &Genome{name: name, seqs: seqs}, nil
}

// Name returns the genome's name, eg "hg38"
func (g *Genome) Name() string {
	return g.name
}

// Interval returns the half-open [start, end) slice of a chromosome.
func (g *Genome) Interval(chrom string, start, end int) (string, error) {
	seq, ok := g.seqs[chrom]
	if !ok {
		return "", fmt.Errorf("genome %s has no chromosome %s", g.name, chrom)
	}
	if start < 0 || end > len(seq) || start >= end {
		return "", fmt.Errorf("interval %s:%d-%d outside chromosome of %d bp", chrom, start, end, len(seq))
	}
	return seq[start:end], nil
}
