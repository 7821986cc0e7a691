package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/panscan/panscan/internal/aggregate"
	"github.com/panscan/panscan/internal/scanner"
	"github.com/panscan/panscan/internal/scanner/factory"
	"github.com/panscan/panscan/internal/types"
)

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Roots           []string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	DefaultExcludes bool

	NoMask       bool
	MaskChar     string
	RedactLines  bool
	NoDirectives bool

	Risk types.RiskPolicy

	// Progress is invoked once per scanned file from a single goroutine.
	Progress func()
	Logger   hclog.Logger
}

// Result is the outcome of one run.
type Result struct {
	RunID    string
	Results  []types.ScanResult
	Summary  types.Summary
	Skipped  int
	Duration time.Duration
}

// Findings flattens the per-file findings in result order.
func (r Result) Findings() []types.Finding {
	var out []types.Finding
	for _, sr := range r.Results {
		out = append(out, sr.Findings...)
	}
	return out
}

// Scan runs a scan and returns only the findings.
func Scan(cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings(), nil
}

// ScanWithStats runs a scan and returns per-file results with the summary.
func ScanWithStats(cfg Config) (Result, error) {
	return ScanContext(context.Background(), cfg)
}

// ScanContext is ScanWithStats with cancellation. Cancellation stops the walk;
// files already dispatched finish scanning.
func ScanContext(ctx context.Context, cfg Config) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}
	log := cfg.logger().With("run_id", res.RunID)

	if err := ValidateGlobs(cfg); err != nil {
		return res, err
	}
	s, err := factory.New(factory.Config{
		NoMask:       cfg.NoMask,
		MaskChar:     cfg.MaskChar,
		RedactLines:  cfg.RedactLines,
		NoDirectives: cfg.NoDirectives,
	})
	if err != nil {
		return res, err
	}
	targets, err := Walk(ctx, cfg)
	if err != nil {
		return res, err
	}
	res.Skipped = targets.Skipped
	workers := threadCount(cfg.Threads)
	log.Debug("scan started", "files", len(targets.Files), "dirs", targets.Dirs, "workers", workers)

	res.Results = scanAll(s, targets.Files, workers, cfg.Progress)
	for _, sr := range res.Results {
		if sr.Failed() {
			log.Warn("file not scanned", "path", sr.Path, "error", sr.Error)
		}
	}
	policy := cfg.Risk
	if policy.HighMin == 0 && policy.MediumMin == 0 && policy.HighBrands == nil {
		policy = types.DefaultRiskPolicy()
	}
	res.Summary = aggregate.Summarize(res.Results, targets.Dirs, policy)
	res.Duration = time.Since(start)
	log.Info("scan finished",
		"files", res.Summary.FilesScanned,
		"findings", res.Summary.TotalFindings,
		"errors", len(res.Summary.Errors),
		"duration", res.Duration)
	return res, nil
}

func threadCount(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// scanAll scans paths on a pool of at most workers goroutines. Each task owns
// results[i]; the slice is read only after Wait returns.
func scanAll(s scanner.Scanner, paths []string, workers int, progress func()) []types.ScanResult {
	results := make([]types.ScanResult, len(paths))
	var done chan struct{}
	drained := make(chan struct{})
	if progress != nil {
		done = make(chan struct{}, workers)
		go func() {
			defer close(drained)
			for range done {
				progress()
			}
		}()
	} else {
		close(drained)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			results[i] = scanner.ScanFile(s, p)
			if done != nil {
				done <- struct{}{}
			}
			return nil
		})
	}
	_ = g.Wait()
	if done != nil {
		close(done)
	}
	<-drained
	return results
}
