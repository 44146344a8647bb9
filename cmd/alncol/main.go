package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/guigolab/alncol"
	"github.com/guigolab/alncol/config"
	"github.com/guigolab/alncol/stats"
	"github.com/guigolab/alncol/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	bams                                                     []string
	reference, targets, loglevel, output, statsFile, envFile string
	cpu, maxBuf, window, edge, quantiles, sample             int
	seed                                                     int64
	summary                                                  bool
)

// configure builds the run configuration: defaults, then the environment
// and env file, then the flags given on the command line.
func configure(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Defaults(envFile)
	if err != nil {
		return nil, err
	}
	cfg.Cpu = cpu
	cfg.MaxBuf = maxBuf
	cfg.Reference = reference
	cfg.Targets = targets
	cfg.Seed = seed
	for name, dst := range map[string]*int{
		"window":    &cfg.Window,
		"edge":      &cfg.Edge,
		"quantiles": &cfg.Quantiles,
		"sample":    &cfg.Sample,
	} {
		if cmd.Flags().Changed(name) {
			v, err := cmd.Flags().GetInt(name)
			if err != nil {
				return nil, err
			}
			*dst = v
		}
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, args []string) (err error) {
	// Set loglevel
	level, err := log.ParseLevel(loglevel)
	if err != nil {
		return
	}
	log.SetLevel(level)

	cfg, err := configure(cmd)
	if err != nil {
		return
	}
	logger := log.WithFields(log.Fields{
		"version":   version,
		"commit":    commit,
		"buildTime": date,
	})
	logger.Infof("Running %s", cmd.Use)
	log.Infof("Using %v out of %v logical CPUs", cfg.Cpu, runtime.NumCPU())

	out, err := utils.NewOutput(output)
	if err != nil {
		return
	}
	allStats, err := alncol.Process(bams, cfg, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return
	}

	if summary {
		if s, ok := allStats["sampling"].(*stats.Sampler); ok {
			if err = s.Report(os.Stderr); err != nil {
				return
			}
		}
	}
	if statsFile == "" {
		return
	}
	so, err := utils.NewOutput(statsFile)
	if err != nil {
		return
	}
	if err = utils.OutputJSON(so, allStats); err != nil {
		so.Close()
		return
	}
	return so.Close()
}

func setAlncolFlags(c *cobra.Command) {
	c.PersistentFlags().StringSliceVarP(&bams, "input", "i", nil, "input BAM file, repeatable (required)")
	c.PersistentFlags().StringVarP(&reference, "reference", "r", "", "reference FASTA file")
	c.PersistentFlags().StringVarP(&targets, "targets", "t", "", "target regions BED file, optionally compressed")
	c.PersistentFlags().StringVarP(&output, "output", "o", "-", "output file")
	c.PersistentFlags().StringVarP(&statsFile, "stats", "", "", "write run statistics as JSON to this file")
	c.PersistentFlags().IntVarP(&window, "window", "w", config.DefaultWindow, "window size")
	c.PersistentFlags().IntVarP(&edge, "edge", "e", config.DefaultEdge, "ignore bases closer than this to the alignment ends")
	c.PersistentFlags().IntVarP(&quantiles, "quantiles", "q", config.DefaultQuantiles, "number of quality buckets")
	c.PersistentFlags().IntVarP(&sample, "sample", "p", config.DefaultSample, "percentage of reads sampled for dataset statistics")
	c.PersistentFlags().Int64VarP(&seed, "seed", "", 0, "sampling seed, 0 for a random one")
	c.PersistentFlags().BoolVarP(&summary, "summary", "", false, "print a summary of the sampled dataset statistics on stderr")
	c.PersistentFlags().StringVarP(&loglevel, "loglevel", "", "warn", "logging level")
	c.PersistentFlags().StringVarP(&envFile, "env", "", "", "file with ALNCOL_* default values")
	c.PersistentFlags().IntVarP(&cpu, "cpu", "c", runtime.NumCPU(), "number of cpus to be used")
	c.PersistentFlags().IntVarP(&maxBuf, "max-buf", "", 1000, "maximum number of queued windows")
	c.MarkPersistentFlagRequired("input")

	c.SetVersionTemplate(`{{with .Name}}{{printf "== %s ==\n" .}}{{end}}{{printf "%s\n" .Version}}`)
}

func buildVersion(version, commit, date string) string {
	var result = fmt.Sprintf("version: %s\nformat: %s", version, alncol.FormatVersion())
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	return result
}

func main() {
	var rootCmd = &cobra.Command{
		Use:     "alncol",
		Short:   "Pileup columns",
		Long:    "alncol - compute strand-normalized pileup columns from BAM files",
		RunE:    run,
		Version: buildVersion(version, commit, date),
	}

	setAlncolFlags(rootCmd)

	utils.Check(rootCmd.Execute())
}
