package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "crispr-primer",
	Short: `crispr-primer

Design and qualify sequencing primers around CRISPR cut sites. Looks up
flanking genomic sequence, proposes primer pairs with primer3, verifies
their specificity by in-silico PCR and reports one qualifying pair per
locus`,
	Version: "0.1.0",
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
