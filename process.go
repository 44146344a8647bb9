// Package alncol builds strand-normalized pileup columns from the
// alignments of a set of BAM files.
package alncol

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guigolab/alncol/column"
	"github.com/guigolab/alncol/config"
	"github.com/guigolab/alncol/mates"
	"github.com/guigolab/alncol/quality"
	"github.com/guigolab/alncol/reference"
	"github.com/guigolab/alncol/region"
	"github.com/guigolab/alncol/sam"
	"github.com/guigolab/alncol/stats"
	"github.com/guigolab/alncol/window"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

type result struct {
	window    window.Window
	alns      []*sam.Record
	positions []column.Position
	err       error
}

// pileup holds what the workers share. Nothing in it is modified once the
// workers start, except the indices cached by the source.
type pileup struct {
	src     *sam.Source
	q       *quality.Quantizer
	targets region.Index
	margin  int
}

func (p *pileup) run(w window.Window, depth *column.Depth) result {
	res := result{window: w}
	alns, err := window.Gather(p.src, w.Grow(1))
	if err != nil {
		res.err = err
		return res
	}
	if !window.Sorted(w, alns) {
		window.Sort(alns)
	}
	for _, a := range alns {
		if a.Pos >= w.Start {
			depth.Collect(a)
		}
	}
	res.alns = alns
	res.err = column.Pileup(w, alns, p.margin, p.q, func(pos column.Position) error {
		if !p.targets.Contains(w.Name, pos.Pos) {
			return nil
		}
		depth.Add(pos)
		res.positions = append(res.positions, pos)
		return nil
	})
	return res
}

func worker(id int, in chan window.Window, out chan result, st chan stats.Map, p *pileup, wg *sync.WaitGroup) {
	defer wg.Done()
	logger := log.WithFields(log.Fields{
		"worker": id,
	})
	logger.Debug("Starting")

	depth := column.NewDepth()
	for w := range in {
		out <- p.run(w, depth)
	}
	logger.Debug("Done")

	st <- stats.Map{"pileup": depth}
}

func dispatch(windows []window.Window, in chan window.Window, stop chan struct{}) {
	defer close(in)
	for _, w := range windows {
		select {
		case in <- w:
		case <-stop:
			return
		}
	}
}

func waitProcess(out chan result, st chan stats.Map, wg *sync.WaitGroup) {
	wg.Wait()
	close(out)
	close(st)
}

// collect writes the results in window order. After the first error the
// remaining results are drained and discarded.
func collect(out chan result, wr *Writer, stop chan struct{}) error {
	pending := make(map[int]result)
	next := 0
	var err error
	fail := func(e error) {
		if err == nil {
			err = e
			close(stop)
		}
	}
	for res := range out {
		if err != nil {
			continue
		}
		if res.err != nil {
			fail(res.err)
			continue
		}
		pending[res.window.Index] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if werr := wr.Write(r.window, r.alns, r.positions); werr != nil {
				fail(werr)
				break
			}
		}
	}
	if err != nil {
		return err
	}
	return wr.Flush()
}

func process(windows []window.Window, p *pileup, wr *Writer, cpu, maxBuf int) (stats.Map, error) {
	var wg sync.WaitGroup

	in := make(chan window.Window, maxBuf)
	out := make(chan result, cpu)
	st := make(chan stats.Map, cpu)
	stop := make(chan struct{})
	for i := 0; i < cpu; i++ {
		id := i + 1
		wg.Add(1)
		go worker(id, in, out, st, p, &wg)
	}
	go dispatch(windows, in, stop)
	go waitProcess(out, st, &wg)

	if err := collect(out, wr, stop); err != nil {
		return nil, err
	}
	sm := <-st
	sm.Merge(st)
	return sm, nil
}

// selectWindows keeps the windows overlapping targets and renumbers them.
func selectWindows(windows []window.Window, targets region.Index) []window.Window {
	selected := windows[:0]
	for _, w := range windows {
		if targets.Overlaps(w.Name, w.Start, w.End) {
			w.Index = len(selected)
			selected = append(selected, w)
		}
	}
	return selected
}

// Process computes the pileup columns of every position covered by the
// references of the BAM files and writes them to output. The returned Map
// holds the sampling and pileup statistics of the run.
func Process(files []string, cfg *config.Config, output io.Writer) (stats.Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.WithFields(log.Fields{
		"run": uuid.NewString(),
	})
	src := sam.NewSource(files, cfg.Cpu)

	catalog, platforms, err := reference.ParseHeaders(src)
	if err != nil {
		return nil, err
	}
	if cfg.Reference != "" {
		start := time.Now()
		if err := catalog.Fill(cfg.Reference); err != nil {
			return nil, err
		}
		logger.Infof("Reference sequences loaded in %v", time.Since(start))
	}

	percent := cfg.Sample
	if !platforms.OnlyIllumina() {
		logger.Warn("Non Illumina read groups found: sampling every read")
		percent = 100
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	start := time.Now()
	sampler, err := stats.Sample(src, percent, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"MinQ":       sampler.MinQ,
		"MaxQ":       sampler.MaxQ,
		"MaxReadLen": sampler.MaxReadLen,
		"Fragment":   sampler.FragMean,
	}).Infof("Sampling done in %v", time.Since(start))

	q, err := quality.NewQuantizer(sampler.MinQ, sampler.MaxQ, cfg.Quantiles)
	if err != nil {
		return nil, err
	}
	registry, err := mates.Build(src, catalog)
	if err != nil {
		return nil, err
	}

	var targets region.Index
	if cfg.Targets != "" {
		if targets, err = region.Load(cfg.Targets); err != nil {
			return nil, err
		}
	}
	windows := selectWindows(window.Tile(catalog, cfg.Window), targets)
	logger.WithFields(log.Fields{
		"References": catalog.Len(),
		"Windows":    len(windows),
	}).Info("Computing pileup columns")

	wr := NewWriter(output, catalog, registry)
	if err := wr.WriteHeader(); err != nil {
		return nil, err
	}
	start = time.Now()
	p := &pileup{src: src, q: q, targets: targets, margin: cfg.Edge}
	sm, err := process(windows, p, wr, cfg.Cpu, cfg.MaxBuf)
	if err != nil {
		return nil, err
	}
	sm.Finalize()
	sm.Add("sampling", sampler)
	logger.Infof("Columns done in %v", time.Since(start))
	return sm, nil
}
