package crispr

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/czbiohub/crispr-primer/internal/config"
	"go.uber.org/multierr"
)

// designRequest is one sequence-context record handed to primer3: a
// template window, a target region the amplicon must cover and an internal
// region primers may not land in.
type designRequest struct {
	// id names the locus in the primer3 exchange (SEQUENCE_ID)
	id string

	// template is the window sequence primer3 searches within
	template string

	// target region within the template, (start, length)
	targetStart int
	targetLen   int

	// excluded region within the template, (start, length)
	excludeStart int
	excludeLen   int

	// productSizeRange is the profile for this window, eg "250-260"
	productSizeRange string
}

// designOracle proposes candidate primer pairs for a request.
type designOracle interface {
	design(req designRequest) ([]*Candidate, error)
}

// keyError reports a key the primer3 output was expected to contain but
// didn't: either the output format changed or the design attempt failed.
type keyError struct {
	key string
}

func (e *keyError) Error() string {
	return fmt.Sprintf("primer3 output is missing %s", e.key)
}

// primer3 is a utility struct for executing primer3 to propose primer
// pairs around a cut site
type primer3 struct {
	// input file
	in *os.File

	// output file
	out *os.File

	// path to primer3 executable
	primer3Exec string

	// configuration
	config *config.Config
}

// newPrimer3 creates a primer3 oracle from the app config
func newPrimer3(conf *config.Config) *primer3 {
	// try to get primer3 executable from env if set
	primer3Exec := getExecutable("PRIMER3_HOME", "bin", "primer3_core")
	return &primer3{
		primer3Exec: primer3Exec,
		config:      conf,
	}
}

// design writes the request, runs primer3_core against it and parses the
// proposed pairs. Temp files are cleaned up before returning.
func (p *primer3) design(req designRequest) (candidates []*Candidate, err error) {
	if err = p.input(req); err != nil {
		return nil, multierr.Append(err, p.close())
	}
	if err = p.run(); err != nil {
		return nil, multierr.Append(err, p.close())
	}

	output, err := os.ReadFile(p.out.Name())
	if err != nil {
		return nil, multierr.Append(err, p.close())
	}
	candidates, err = parsePrimer3Output(string(output))
	return candidates, multierr.Append(err, p.close())
}

// input makes a primer3 input settings file and writes it to the filesystem
func (p *primer3) input(req designRequest) (err error) {
	in, inErr := os.CreateTemp("", "primer3-in-*")
	out, outErr := os.CreateTemp("", "primer3-out-*")

	if inErr != nil || outErr != nil {
		return multierr.Append(inErr, outErr)
	}
	p.in = in
	p.out = out

	settings := p.settings(req)

	// write the settings to a buffer
	var fileBuffer bytes.Buffer
	for key, val := range settings {
		fmt.Fprintf(&fileBuffer, "%s=%s\n", key, val)
	}
	fileBuffer.WriteString("=") // required at file's end

	// then write them to the file
	if _, err = p.in.Write(fileBuffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write primer3 input file: %v", err)
	}
	return
}

// settings returns the settings map for one design request. The template
// keeps the genome's case: primer3 reports masked bases back in lowercase
// and the qualifier reads that as a low-complexity signal.
func (p *primer3) settings(req designRequest) map[string]string {
	return map[string]string{
		"SEQUENCE_ID":                       req.id,
		"SEQUENCE_TEMPLATE":                 req.template,
		"SEQUENCE_TARGET":                   fmt.Sprintf("%d,%d", req.targetStart, req.targetLen),
		"SEQUENCE_INTERNAL_EXCLUDED_REGION": fmt.Sprintf("%d,%d", req.excludeStart, req.excludeLen),
		"PRIMER_PRODUCT_SIZE_RANGE":         req.productSizeRange,
		"PRIMER_NUM_RETURN":                 strconv.Itoa(p.config.Primer3NumReturn),
		"PRIMER_MIN_SIZE":                   strconv.Itoa(p.config.Primer3MinSize),
		"PRIMER_OPT_SIZE":                   strconv.Itoa(p.config.Primer3OptSize),
		"PRIMER_MAX_SIZE":                   strconv.Itoa(p.config.Primer3MaxSize),
		"PRIMER_MIN_TM":                     fmt.Sprintf("%f", p.config.Primer3MinTm),
		"PRIMER_MAX_TM":                     fmt.Sprintf("%f", p.config.Primer3MaxTm),
		"PRIMER_MAX_POLY_X":                 strconv.Itoa(p.config.Primer3MaxPolyX),
	}
}

// run the primer3 executable against the input file
func (p *primer3) run() (err error) {
	p3Cmd := exec.Command(
		p.primer3Exec,
		p.in.Name(),
		"-output", p.out.Name(),
	)

	// execute primer3 and wait on it to finish
	if output, err := p3Cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to execute primer3 on input file %s: %s: %v", p.in.Name(), string(output), err)
	}

	return
}

func (p *primer3) close() (err error) {
	if os.Getenv("DEBUG_CRISPR_PRIMER") == "TRUE" {
		// keep the temporary files
		rlog.Infof("Primer3 input/output: %s, %s", p.in.Name(), p.out.Name())
		return
	}
	// remove temporary input and output
	if p.in != nil {
		err = multierr.Append(err, os.Remove(p.in.Name()))
		p.in = nil
	}
	if p.out != nil {
		err = multierr.Append(err, os.Remove(p.out.Name()))
		p.out = nil
	}
	return
}

// primer3KeyTemplates maps each Candidate field to the primer3 output key
// that carries it, with a %d placeholder for the pair index.
var primer3KeyTemplates = []string{
	"PRIMER_LEFT_%d_SEQUENCE",
	"PRIMER_RIGHT_%d_SEQUENCE",
	"PRIMER_LEFT_%d",
	"PRIMER_RIGHT_%d",
	"PRIMER_LEFT_%d_TM",
	"PRIMER_RIGHT_%d_TM",
	"PRIMER_LEFT_%d_GC_PERCENT",
	"PRIMER_RIGHT_%d_GC_PERCENT",
	"PRIMER_PAIR_%d_PRODUCT_SIZE",
}

// parsePrimer3Output reads primer3's flat KEY=VALUE response into one
// Candidate per returned pair. Any missing expected key is a *keyError.
func parsePrimer3Output(output string) ([]*Candidate, error) {
	// read in results into map, they're all 1:1
	results := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		keyVal := strings.SplitN(line, "=", 2)
		if len(keyVal) > 1 {
			results[strings.TrimSpace(keyVal[0])] = strings.TrimSpace(keyVal[1])
		}
	}

	get := func(key string) (string, error) {
		val, ok := results[key]
		if !ok {
			return "", &keyError{key: key}
		}
		return val, nil
	}

	template, err := get("SEQUENCE_TEMPLATE")
	if err != nil {
		return nil, err
	}
	numPairsVal, err := get("PRIMER_PAIR_NUM_RETURNED")
	if err != nil {
		return nil, err
	}
	numPairs, err := strconv.Atoi(numPairsVal)
	if err != nil {
		return nil, fmt.Errorf("bad PRIMER_PAIR_NUM_RETURNED %q: %v", numPairsVal, err)
	}

	var candidates []*Candidate
	for i := 0; i < numPairs; i++ {
		fields := make(map[string]string, len(primer3KeyTemplates))
		for _, keyTemplate := range primer3KeyTemplates {
			key := fmt.Sprintf(keyTemplate, i)
			val, err := get(key)
			if err != nil {
				return nil, err
			}
			fields[keyTemplate] = val
		}

		leftPos, err := parsePosition(fields["PRIMER_LEFT_%d"])
		if err != nil {
			return nil, err
		}
		rightPos, err := parsePosition(fields["PRIMER_RIGHT_%d"])
		if err != nil {
			return nil, err
		}
		productSize, err := strconv.Atoi(fields["PRIMER_PAIR_%d_PRODUCT_SIZE"])
		if err != nil {
			return nil, fmt.Errorf("bad product size %q: %v", fields["PRIMER_PAIR_%d_PRODUCT_SIZE"], err)
		}
		if leftPos < 0 || leftPos+productSize > len(template) {
			return nil, fmt.Errorf("pair %d: product [%d,%d) outside template of %d bp",
				i, leftPos, leftPos+productSize, len(template))
		}

		leftTm, _ := strconv.ParseFloat(fields["PRIMER_LEFT_%d_TM"], 64)
		rightTm, _ := strconv.ParseFloat(fields["PRIMER_RIGHT_%d_TM"], 64)
		leftGC, _ := strconv.ParseFloat(fields["PRIMER_LEFT_%d_GC_PERCENT"], 64)
		rightGC, _ := strconv.ParseFloat(fields["PRIMER_RIGHT_%d_GC_PERCENT"], 64)

		candidates = append(candidates, &Candidate{
			Left:        fields["PRIMER_LEFT_%d_SEQUENCE"],
			Right:       fields["PRIMER_RIGHT_%d_SEQUENCE"],
			LeftPos:     leftPos,
			RightPos:    rightPos,
			LeftTm:      leftTm,
			RightTm:     rightTm,
			LeftGC:      leftGC,
			RightGC:     rightGC,
			ProductSize: productSize,
			Product:     template[leftPos : leftPos+productSize],
			Template:    template,
		})
	}

	return candidates, nil
}

// parsePosition reads the start of a primer3 "start,length" position pair.
func parsePosition(loc string) (int, error) {
	start, err := strconv.Atoi(strings.Split(loc, ",")[0])
	if err != nil {
		return 0, fmt.Errorf("bad primer position %q: %v", loc, err)
	}
	return start, nil
}
