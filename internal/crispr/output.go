package crispr

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/czbiohub/crispr-primer/internal/config"
)

// locusResult pairs an input locus with its winning candidate. A nil
// winner means the search was exhausted and the locus drops out.
type locusResult struct {
	locus
	winner *Candidate
}

// resultHeader matches the wet-lab ordering sheet's expected columns.
var resultHeader = []string{
	"Name", "Genome",
	"Left Primer Location", "Left Primer",
	"Right Primer Location", "Right Primer",
	"Product Size", "Product Location", "Product",
	"Left Primer with Tag", "Right Primer with Tag",
}

// writeResults writes the primer table for every successful locus and a
// companion <filename>.dropout table for every exhausted one. Rows keep
// the input order.
func writeResults(filename, genomeName string, results []locusResult, conf *config.Config) error {
	if err := writePrimerTable(filename, genomeName, results, conf); err != nil {
		return err
	}
	return writeDropouts(filename+".dropout", results)
}

func writePrimerTable(filename, genomeName string, results []locusResult, conf *config.Config) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %v", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		return err
	}
	for _, res := range results {
		if res.winner == nil {
			continue
		}
		c := res.winner
		row := []string{
			res.id, genomeName,
			c.LeftLocation(), c.Left,
			c.RightLocation(), c.Right,
			fmt.Sprintf("%d", c.ProductSize),
			c.ProductLocation(), c.Product,
			conf.LeftTag + c.Left, conf.RightTag + c.Right,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}

func writeDropouts(filename string, results []locusResult) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create drop-out file %s: %v", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Well ID", "Location"}); err != nil {
		return err
	}
	for _, res := range results {
		if res.winner != nil {
			continue
		}
		if err := w.Write([]string{res.id, res.raw}); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}
