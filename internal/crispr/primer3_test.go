package crispr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func Test_parsePrimer3Output(t *testing.T) {
	template := strings.Repeat("ACGT", 100)
	output := fmt.Sprintf(`SEQUENCE_ID=A1
SEQUENCE_TEMPLATE=%s
PRIMER_PAIR_NUM_RETURNED=1
PRIMER_LEFT_0_SEQUENCE=ACGTACGTACGTACGTAC
PRIMER_RIGHT_0_SEQUENCE=TGCATGCATGCATGCATG
PRIMER_LEFT_0=10,18
PRIMER_RIGHT_0=259,18
PRIMER_LEFT_0_TM=59.5
PRIMER_RIGHT_0_TM=60.5
PRIMER_LEFT_0_GC_PERCENT=50.0
PRIMER_RIGHT_0_GC_PERCENT=50.0
PRIMER_PAIR_0_PRODUCT_SIZE=250
=
`, template)

	candidates, err := parsePrimer3Output(output)
	if err != nil {
		t.Fatalf("parsePrimer3Output() error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("parsePrimer3Output() returned %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Left != "ACGTACGTACGTACGTAC" || c.Right != "TGCATGCATGCATGCATG" {
		t.Errorf("unexpected primer sequences %s / %s", c.Left, c.Right)
	}
	if c.LeftPos != 10 || c.RightPos != 259 {
		t.Errorf("positions = %d / %d, want 10 / 259", c.LeftPos, c.RightPos)
	}
	if c.LeftTm != 59.5 || c.RightTm != 60.5 {
		t.Errorf("melting temperatures = %f / %f, want 59.5 / 60.5", c.LeftTm, c.RightTm)
	}
	if c.ProductSize != 250 {
		t.Errorf("ProductSize = %d, want 250", c.ProductSize)
	}
	if c.Product != template[10:260] {
		t.Errorf("Product = %s, want the template slice [10,260)", c.Product)
	}
	if c.Template != template {
		t.Error("Template not carried through")
	}
}

func Test_parsePrimer3Output_missingKey(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		missingKey string
	}{
		{
			"no pair count",
			"SEQUENCE_TEMPLATE=ACGT\n=\n",
			"PRIMER_PAIR_NUM_RETURNED",
		},
		{
			"pair fields absent",
			"SEQUENCE_TEMPLATE=ACGT\nPRIMER_PAIR_NUM_RETURNED=1\n=\n",
			"PRIMER_LEFT_0_SEQUENCE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePrimer3Output(tt.output)

			var kerr *keyError
			if !errors.As(err, &kerr) {
				t.Fatalf("parsePrimer3Output() error = %v, want a *keyError", err)
			}
			if kerr.key != tt.missingKey {
				t.Errorf("keyError.key = %s, want %s", kerr.key, tt.missingKey)
			}
		})
	}
}

func Test_parsePrimer3Output_zeroPairs(t *testing.T) {
	output := "SEQUENCE_TEMPLATE=ACGTACGT\nPRIMER_PAIR_NUM_RETURNED=0\n=\n"

	candidates, err := parsePrimer3Output(output)
	if err != nil {
		t.Fatalf("parsePrimer3Output() error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("parsePrimer3Output() returned %d candidates, want 0", len(candidates))
	}
}

func Test_parsePrimer3Output_productOutsideTemplate(t *testing.T) {
	output := `SEQUENCE_TEMPLATE=ACGTACGTACGT
PRIMER_PAIR_NUM_RETURNED=1
PRIMER_LEFT_0_SEQUENCE=ACGT
PRIMER_RIGHT_0_SEQUENCE=ACGT
PRIMER_LEFT_0=8,4
PRIMER_RIGHT_0=11,4
PRIMER_LEFT_0_TM=60.0
PRIMER_RIGHT_0_TM=60.0
PRIMER_LEFT_0_GC_PERCENT=50.0
PRIMER_RIGHT_0_GC_PERCENT=50.0
PRIMER_PAIR_0_PRODUCT_SIZE=100
=
`

	if _, err := parsePrimer3Output(output); err == nil {
		t.Fatal("parsePrimer3Output() expected an out-of-template error")
	}
}

func Test_primer3_settings(t *testing.T) {
	p := newPrimer3(testConfig())
	req := designRequest{
		id:               "A1",
		template:         "acgtACGT",
		targetStart:      90,
		targetLen:        110,
		excludeStart:     40,
		excludeLen:       210,
		productSizeRange: "250-260",
	}

	settings := p.settings(req)

	// the template keeps the genome's repeat-masked case
	if settings["SEQUENCE_TEMPLATE"] != "acgtACGT" {
		t.Errorf("SEQUENCE_TEMPLATE = %s, want the case preserved", settings["SEQUENCE_TEMPLATE"])
	}
	if settings["SEQUENCE_TARGET"] != "90,110" {
		t.Errorf("SEQUENCE_TARGET = %s, want 90,110", settings["SEQUENCE_TARGET"])
	}
	if settings["SEQUENCE_INTERNAL_EXCLUDED_REGION"] != "40,210" {
		t.Errorf("SEQUENCE_INTERNAL_EXCLUDED_REGION = %s, want 40,210", settings["SEQUENCE_INTERNAL_EXCLUDED_REGION"])
	}
	if settings["PRIMER_PRODUCT_SIZE_RANGE"] != "250-260" {
		t.Errorf("PRIMER_PRODUCT_SIZE_RANGE = %s, want 250-260", settings["PRIMER_PRODUCT_SIZE_RANGE"])
	}
	if settings["PRIMER_NUM_RETURN"] != "5" {
		t.Errorf("PRIMER_NUM_RETURN = %s, want 5", settings["PRIMER_NUM_RETURN"])
	}
}

func Test_parsePosition(t *testing.T) {
	got, err := parsePosition("259,18")
	if err != nil {
		t.Fatal(err)
	}
	if got != 259 {
		t.Errorf("parsePosition(259,18) = %d, want 259", got)
	}

	if _, err := parsePosition("notanumber,18"); err == nil {
		t.Error("parsePosition expected an error for a non-numeric start")
	}
}
