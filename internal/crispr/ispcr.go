package crispr

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/czbiohub/crispr-primer/internal/config"
	"go.uber.org/multierr"
)

// specificityOracle annotates a batch of candidates with the number of
// sites their primer pair amplifies in the genome.
type specificityOracle interface {
	annotate(name string, candidates []*Candidate) error
}

// isPcr runs gfPcr, the in-silico PCR search, against a pre-started
// gfServer genome index and counts the amplification sites per candidate.
//
// The request/response protocol is a temp file and a shared server, which
// is not safe to interleave, so one mutex serializes every search in the
// process (the design oracle stays free to run in parallel).
type isPcr struct {
	mu sync.Mutex

	// path to the gfPcr executable
	gfPcrExec string

	// port of the running gfServer
	port int

	// search knobs forwarded to gfPcr
	minGood        int
	maxProductSize int
}

func newIsPcr(conf *config.Config) *isPcr {
	return &isPcr{
		gfPcrExec:      getExecutable("BLAT_HOME", "bin", "gfPcr"),
		port:           conf.GfServerPort,
		minGood:        conf.IsPcrMinGood,
		maxProductSize: conf.MaxIsPcrProductSize,
	}
}

// annotate submits every candidate pair in one gfPcr batch and increments
// MatchCount on the candidate each result line points at. Candidates the
// result stream never mentions keep MatchCount = 0.
func (s *isPcr) annotate(name string, candidates []*Candidate) (err error) {
	if len(candidates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := os.CreateTemp("", "ispcr-in-*")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, os.Remove(in.Name()))
	}()

	if _, err = in.WriteString(isPcrInput(candidates, s.maxProductSize)); err != nil {
		return fmt.Errorf("failed to write isPcr input file %s: %v", in.Name(), err)
	}
	if err = in.Close(); err != nil {
		return err
	}

	gfPcrCmd := exec.Command(
		s.gfPcrExec,
		fmt.Sprintf("-minGood=%d", s.minGood),
		"localhost",
		strconv.Itoa(s.port),
		"./",
		in.Name(),
		"stdout",
	)

	var stdout, cmdErr bytes.Buffer
	gfPcrCmd.Stdout = &stdout
	gfPcrCmd.Stderr = &cmdErr

	rlog.Debugf("Run: %v", gfPcrCmd)
	if err = gfPcrCmd.Run(); err != nil {
		return fmt.Errorf("failed to execute gfPcr for %s: %s: %v", name, cmdErr.String(), err)
	}

	return countMatches(stdout.String(), candidates)
}

// isPcrInput serializes one "<index> <left> <right> <maxProductSize>" line
// per candidate.
func isPcrInput(candidates []*Candidate, maxProductSize int) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d %s %s %d\n", i, c.Left, c.Right, maxProductSize)
	}
	return b.String()
}

// countMatches reads gfPcr's FASTA-style output. Every ">" header is one
// amplification site; its second whitespace token is the index of the
// requesting candidate.
func countMatches(output string, candidates []*Candidate) error {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, ">") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("unparseable isPcr match line %q", line)
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad candidate index in isPcr match line %q: %v", line, err)
		}
		if idx < 0 || idx >= len(candidates) {
			return fmt.Errorf("isPcr match line %q references candidate %d of %d", line, idx, len(candidates))
		}
		candidates[idx].MatchCount++
	}
	return nil
}
