package crispr

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// locus is one spacer/cut-site input row: a sample id and a half-open
// genomic span.
type locus struct {
	// the well/sample id from the input file
	id string

	// chromosome name, eg "chr1"
	chrom string

	// half-open genomic span of the spacer/ultramer region
	start int
	end   int

	// the location string as it appeared in the input, for reports
	raw string
}

// readLoci parses an input file of "id,chr:start-end" lines. Malformed
// lines are skipped with a warning rather than aborting the batch.
func readLoci(path string) ([]locus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %v", path, err)
	}
	defer f.Close()

	var loci []locus
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		loc, err := parseLocus(line)
		if err != nil {
			stderr.Printf("skipping invalid line %q: %v", line, err)
			continue
		}
		loci = append(loci, loc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %v", path, err)
	}
	if len(loci) == 0 {
		return nil, fmt.Errorf("no usable loci in %s", path)
	}

	return loci, nil
}

// parseLocus reads one "id,chr:start-end" input line.
func parseLocus(line string) (locus, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return locus{}, fmt.Errorf("want id,location")
	}
	id := strings.TrimSpace(parts[0])
	location := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(location, "chr") {
		return locus{}, fmt.Errorf("location %q does not start with a chromosome", location)
	}

	chromRange := strings.Split(location, ":")
	if len(chromRange) != 2 {
		return locus{}, fmt.Errorf("location %q is not chrom:start-end", location)
	}
	bounds := strings.Split(chromRange[1], "-")
	if len(bounds) != 2 {
		return locus{}, fmt.Errorf("location %q is not chrom:start-end", location)
	}
	start, err := strconv.Atoi(bounds[0])
	if err != nil {
		return locus{}, fmt.Errorf("bad start %q", bounds[0])
	}
	end, err := strconv.Atoi(bounds[1])
	if err != nil {
		return locus{}, fmt.Errorf("bad end %q", bounds[1])
	}
	if start >= end {
		return locus{}, fmt.Errorf("empty range %d-%d", start, end)
	}

	return locus{
		id:    id,
		chrom: chromRange[0],
		start: start,
		end:   end,
		raw:   location,
	}, nil
}
