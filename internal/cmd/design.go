package cmd

import (
	"log"

	"github.com/czbiohub/crispr-primer/internal/config"
	"github.com/czbiohub/crispr-primer/internal/crispr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// designCmd searches every input locus for a qualifying primer pair
var designCmd = &cobra.Command{
	Use:                        "design",
	Short:                      "Design qualified primer pairs for a list of cut-site loci",
	Run:                        runDesignCmd,
	SuggestionsMinimumDistance: 3,
	Long: `Design primers around each CRISPR cut site in the input file. Every locus
is searched with an escalating window until a primer pair passes the
specificity, self-binding and sequence quality checks; loci with no usable
pair end up in a drop-out report next to the output file.

The genome index server must be running ('crispr-primer server start').`,
	Example: `crispr-primer design -f plate1_primers_in.csv -g hg38 -o plate1_primers_out.csv`,
}

// set flags
func init() {
	designCmd.Flags().StringP("in", "f", "", "input file of id,chrN:start-end lines")
	designCmd.Flags().StringP("genome", "g", "", "reference genome name (eg hg38 or mm10)")
	designCmd.Flags().StringP("out", "o", "", "output primer table (CSV)")
	designCmd.Flags().Int("workers", 0, "loci designed concurrently (0 means the configured default)")
	designCmd.Flags().BoolP("verbose", "v", false, "verbose logging")
	must(designCmd.MarkFlagRequired("in"))
	must(designCmd.MarkFlagRequired("genome"))
	must(designCmd.MarkFlagRequired("out"))

	// config is an optional parameter for a settings file (that overrides defaults)
	RootCmd.PersistentFlags().StringP("config", "c", "", "User defined config file that may override all or some default settings")
	if err := viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config")); err != nil {
		log.Fatal(err)
	}

	RootCmd.AddCommand(designCmd)
}

func runDesignCmd(cmd *cobra.Command, args []string) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		crispr.SetVerboseLogging()
	}

	conf := config.New()
	if workers, err := cmd.Flags().GetInt("workers"); err == nil && workers > 0 {
		conf = conf.Clone()
		conf.DesignWorkers = workers
	}

	params := crispr.DesignParams{
		In:         cmd.Flag("in").Value.String(),
		Out:        cmd.Flag("out").Value.String(),
		GenomeName: cmd.Flag("genome").Value.String(),
	}

	if err := crispr.Design(params, conf); err != nil {
		log.Fatal(err)
	}
}
