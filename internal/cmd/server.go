package cmd

import (
	"log"

	"github.com/czbiohub/crispr-primer/internal/config"
	"github.com/czbiohub/crispr-primer/internal/crispr"
	"github.com/spf13/cobra"
)

// serverCmd manages the gfServer genome index used by the specificity search
var serverCmd = &cobra.Command{
	Use:                        "server",
	Short:                      "Manage the genome index server used by the specificity search",
	SuggestionsMinimumDistance: 3,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the genome index server and wait until it is ready",
	Run:   runServerStartCmd,
	Long: `Start gfServer on the configured port, serving the genome's 2bit index.
Blocks until the server answers status queries. The server keeps running
after this command exits; stop it with 'crispr-primer server stop'.`,
	Example: `crispr-primer server start -g hg38`,
}

var serverStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the genome index server",
	Run:   runServerStopCmd,
}

// set flags
func init() {
	serverStartCmd.Flags().StringP("genome", "g", "", "reference genome name (eg hg38 or mm10)")
	must(serverStartCmd.MarkFlagRequired("genome"))

	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverStopCmd)
	RootCmd.AddCommand(serverCmd)
}

func runServerStartCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	if err := crispr.StartIndexServer(cmd.Flag("genome").Value.String(), conf); err != nil {
		log.Fatal(err)
	}
}

func runServerStopCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	if err := crispr.StopIndexServer(conf); err != nil {
		log.Fatal(err)
	}
}
