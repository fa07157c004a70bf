// Package config is for app wide settings
package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "embed"

	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var (
	home, _ = homedir.Dir()

	// appDir is the root directory where crispr-primer settings and genome files live
	appDir = filepath.Join(home, ".crispr-primer")

	// configPath is the path to a local/default config file
	configPath = filepath.Join(appDir, "config.yaml")

	// GenomeDir is the default directory with genome FASTA and 2bit files
	GenomeDir = filepath.Join(appDir, "genome")
)

// DefaultConfig is the initial client config that's embedded with
// crispr-primer and installed on the first run
//
//go:embed config.yaml
var DefaultConfig []byte

// Config is the Root-level settings struct and is a mix
// of settings available in config.yaml and those
// available from the command line
type Config struct {
	// the config file's version
	Version string `mapstructure:"version"`

	// sequencing adapter prepended to the left primer in the output
	LeftTag string `mapstructure:"left-tag"`

	// sequencing adapter prepended to the right primer in the output
	RightTag string `mapstructure:"right-tag"`

	// buffer in bp between the search window edge and the target region
	Leeway int `mapstructure:"leeway"`

	// half-width in bp of the first search window around the cut site
	InitialSearchRange int `mapstructure:"initial-search-range"`

	// bp added to the search window each time a round finds no usable pair
	SearchRangeStep int `mapstructure:"search-range-step"`

	// sentinel window size: reaching it means the search is exhausted
	ExhaustedSearchRange int `mapstructure:"exhausted-search-range"`

	// length in bp of the primer3 target region around the cut site
	TargetSpan int `mapstructure:"target-span"`

	// number of primer pairs requested from primer3 per round
	Primer3NumReturn int `mapstructure:"primer3-num-return"`

	// primer length range handed to primer3
	Primer3MinSize int `mapstructure:"primer3-min-size"`
	Primer3OptSize int `mapstructure:"primer3-opt-size"`
	Primer3MaxSize int `mapstructure:"primer3-max-size"`

	// primer melting temperature range handed to primer3
	Primer3MinTm float64 `mapstructure:"primer3-min-tm"`
	Primer3MaxTm float64 `mapstructure:"primer3-max-tm"`

	// longest homopolymer primer3 will allow within a primer
	Primer3MaxPolyX int `mapstructure:"primer3-max-poly-x"`

	// amplicon size range per search window half-width, eg 40 -> "250-260"
	ProductSizeRanges map[string]string `mapstructure:"primer3-product-size-ranges"`

	// melting temperature band outside which a candidate is downgraded
	IdealTmMin float64 `mapstructure:"ideal-tm-min"`
	IdealTmMax float64 `mapstructure:"ideal-tm-max"`

	// primer length band outside which a candidate is downgraded
	IdealPrimerLenMin int `mapstructure:"ideal-primer-len-min"`
	IdealPrimerLenMax int `mapstructure:"ideal-primer-len-max"`

	// amplicon GC% band outside which a candidate is downgraded
	IdealAmpliconGCMin float64 `mapstructure:"ideal-amplicon-gc-min"`
	IdealAmpliconGCMax float64 `mapstructure:"ideal-amplicon-gc-max"`

	// amplicon GC% band outside which a candidate is disqualified
	AcceptableAmpliconGCMin float64 `mapstructure:"acceptable-amplicon-gc-min"`
	AcceptableAmpliconGCMax float64 `mapstructure:"acceptable-amplicon-gc-max"`

	// homopolymer run ceilings for downgrade and disqualification
	IdealHomopolymerMax      int `mapstructure:"ideal-homopolymer-max"`
	AcceptableHomopolymerMax int `mapstructure:"acceptable-homopolymer-max"`

	// number of 3'-end bases checked for repeat masking
	LowComplexityCheckLength int `mapstructure:"low-complexity-check-length"`

	// largest product size the in-silico PCR search will report
	MaxIsPcrProductSize int `mapstructure:"max-ispcr-product-size"`

	// gfPcr -minGood: minimum matching bases of a primer's 3' end
	IsPcrMinGood int `mapstructure:"ispcr-min-good"`

	// port of the local gfServer genome index
	GfServerPort int `mapstructure:"gf-server-port"`

	// directory with <genome>.fa and <genome>.2bit files; defaults to
	// ~/.crispr-primer/genome when empty
	GenomeDir string `mapstructure:"genome-dir"`

	// loci designed concurrently; the specificity search itself is
	// serialized regardless
	DesignWorkers int `mapstructure:"design-workers"`
}

// Setup checks that the crispr-primer data directory exists.
// It creates one and writes the default config file to it otherwise.
func Setup() {
	for _, dir := range []string{appDir, GenomeDir} {
		_, err := os.Stat(dir)
		if os.IsNotExist(err) {
			if err = os.Mkdir(dir, 0755); err != nil {
				log.Fatal(err)
			}
		} else if err != nil {
			log.Fatal(err)
		}
	}

	// copy the default config file if it doesn't exist
	_, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		if err = os.WriteFile(configPath, DefaultConfig, 0644); err != nil {
			log.Fatal(err)
		}
	} else if err != nil {
		log.Fatal(err)
	}
}

// New returns a new Config struct populated by the embedded defaults, the
// installed config.yaml (if present) and, last, some other settings file the
// user points to with the "--config" command
func New() *Config {
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewReader(DefaultConfig)); err != nil {
		log.Fatal(err)
	}

	if _, err := os.Stat(configPath); err == nil {
		viper.SetConfigFile(configPath)
		if err := viper.MergeInConfig(); err != nil {
			log.Fatal(err)
		}
	}

	if userConfig := viper.GetString("config"); userConfig != "" {
		viper.SetConfigFile(userConfig)               // user has specified a new path for a settings file
		if err := viper.MergeInConfig(); err != nil { // read in user defined settings file
			log.Fatal(err)
		}

		file, err := os.Open(userConfig)
		if err != nil {
			log.Fatal(err)
		}
		userData := make(map[string]interface{})
		if err := yaml.NewDecoder(file).Decode(userData); err != nil {
			log.Fatal(err)
		}

		userSettings := &Config{}
		if err := mapstructure.Decode(userData, userSettings); err != nil {
			log.Fatal(err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("failed to decode settings file %s: %v", viper.ConfigFileUsed(), err)
	}
	if config.GenomeDir == "" {
		config.GenomeDir = GenomeDir
	}
	return config
}

// Clone returns a deep copy that command-line overrides can mutate without
// touching the shared settings.
func (c *Config) Clone() *Config {
	clone := &Config{}
	if err := copier.Copy(clone, c); err != nil {
		log.Fatal(err)
	}
	return clone
}

// GenomeFasta is the path to the soft-masked FASTA for a genome name
func (c *Config) GenomeFasta(genome string) string {
	return filepath.Join(c.GenomeDir, genome+".fa")
}

// GenomeTwoBit is the path to the 2bit index gfServer serves for a genome name
func (c *Config) GenomeTwoBit(genome string) string {
	return filepath.Join(c.GenomeDir, genome+".2bit")
}

// ProductSizeRange returns the primer3 product size range for a search
// window half-width, and whether a profile exists for it.
func (c *Config) ProductSizeRange(searchRange int) (string, bool) {
	r, ok := c.ProductSizeRanges[strconv.Itoa(searchRange)]
	return r, ok
}

// SearchRanges lists the window half-widths that have a primer3 profile,
// in increasing order.
func (c *Config) SearchRanges() []int {
	ranges := make([]int, 0, len(c.ProductSizeRanges))
	for k := range c.ProductSizeRanges {
		w, err := strconv.Atoi(k)
		if err != nil {
			log.Fatalf("non-numeric search range %q in primer3-product-size-ranges", k)
		}
		ranges = append(ranges, w)
	}
	sort.Ints(ranges)
	return ranges
}
