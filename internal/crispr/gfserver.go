package crispr

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/czbiohub/crispr-primer/internal/config"
)

// serverStartTimeout bounds the wait for gfServer to finish loading its
// genome index. Whole-genome 2bit files take minutes on spinning disks.
const serverStartTimeout = 5 * time.Minute

// serverPollInterval is how often readiness is re-checked during startup.
const serverPollInterval = 5 * time.Second

// StartIndexServer launches gfServer on the configured port serving the
// genome's 2bit index and blocks until it answers status queries.
// The server is a long-lived shared resource: start it once before a batch
// and stop it once after.
func StartIndexServer(genome string, conf *config.Config) error {
	if IndexServerReady(conf) {
		rlog.Infof("gfServer already running on port %d", conf.GfServerPort)
		return nil
	}

	twoBit := conf.GenomeTwoBit(genome)
	gfServerCmd := exec.Command(
		getExecutable("BLAT_HOME", "bin", "gfServer"),
		"start",
		"localhost",
		strconv.Itoa(conf.GfServerPort),
		twoBit,
	)

	rlog.Infof("Starting gfServer for %s on port %d", twoBit, conf.GfServerPort)
	if err := gfServerCmd.Start(); err != nil {
		return fmt.Errorf("failed to start gfServer for %s: %v", twoBit, err)
	}
	// the server outlives this process; don't wait on it
	if err := gfServerCmd.Process.Release(); err != nil {
		return err
	}

	deadline := time.Now().Add(serverStartTimeout)
	for time.Now().Before(deadline) {
		if IndexServerReady(conf) {
			rlog.Infof("gfServer ready for queries on port %d", conf.GfServerPort)
			return nil
		}
		time.Sleep(serverPollInterval)
	}

	return fmt.Errorf("gfServer on port %d not ready after %s", conf.GfServerPort, serverStartTimeout)
}

// StopIndexServer asks the running gfServer to shut down.
func StopIndexServer(conf *config.Config) error {
	stopCmd := exec.Command(
		getExecutable("BLAT_HOME", "bin", "gfServer"),
		"stop",
		"localhost",
		strconv.Itoa(conf.GfServerPort),
	)

	if output, err := stopCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to stop gfServer on port %d: %s: %v", conf.GfServerPort, string(output), err)
	}
	return nil
}

// IndexServerReady reports whether a gfServer answers on the configured port.
func IndexServerReady(conf *config.Config) bool {
	statusCmd := exec.Command(
		getExecutable("BLAT_HOME", "bin", "gfServer"),
		"status",
		"localhost",
		strconv.Itoa(conf.GfServerPort),
	)
	return statusCmd.Run() == nil
}
