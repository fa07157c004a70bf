package main

import (
	"log"
	"os"
	"os/exec"

	"github.com/czbiohub/crispr-primer/internal/cmd"
	"github.com/czbiohub/crispr-primer/internal/config"
)

func main() {
	checkDependencies()
	config.Setup()

	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkDependencies() {
	if _, err := exec.LookPath("primer3_core"); err != nil {
		log.Fatal(`No primer3_core found. Is Primer3 installed? https://primer3.org/manual.html`)
	}

	if _, err := exec.LookPath("gfServer"); err != nil {
		log.Fatal(`No gfServer found. Are the BLAT tools installed? https://genome.ucsc.edu/goldenPath/help/blatSpec.html`)
	}

	if _, err := exec.LookPath("gfPcr"); err != nil {
		log.Fatal(`No gfPcr found. Are the BLAT tools installed? https://genome.ucsc.edu/goldenPath/help/blatSpec.html`)
	}
}
