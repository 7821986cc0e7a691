package panscan

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/panscan/panscan/internal/config"
	"github.com/panscan/panscan/internal/engine"
	"github.com/panscan/panscan/internal/logging"
	"github.com/panscan/panscan/internal/report"
	"github.com/panscan/panscan/internal/tui"
	"github.com/panscan/panscan/internal/types"
)

var (
	flagPaths        []string
	flagOutput       string
	flagInclude      string
	flagExclude      string
	flagMaxBytes     int64
	flagText         bool
	flagNoMask       bool
	flagMaskChar     string
	flagRedactLines  bool
	flagNoDirectives bool
	flagHighMin      int
	flagMediumMin    int
	flagHighBrands   string
	flagTUI          bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files and directories for card numbers",
		Example: `  panscan scan -p ./logs,./exports
  panscan scan --json -p dump.sql > findings.json
  panscan scan -p . -o report.xlsx --fail-on high`,
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringSliceVarP(&flagPaths, "path", "p", nil, "comma-separated files or directories to scan (default .)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the report to a file; format from extension (.json .csv .sarif .html .xlsx .txt)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = config or 100MiB)")
	cmd.Flags().BoolVar(&flagText, "text", false, "print one block per finding instead of a table")
	cmd.Flags().BoolVar(&flagNoMask, "no-mask", false, "report full card numbers instead of masked ones")
	cmd.Flags().StringVar(&flagMaskChar, "mask-char", "", "character used to mask card digits (default *)")
	cmd.Flags().BoolVar(&flagRedactLines, "redact-lines", false, "mask card digits inside the reported line text")
	cmd.Flags().BoolVar(&flagNoDirectives, "no-directives", false, "ignore panscan:ignore comments in scanned files")
	cmd.Flags().IntVar(&flagHighMin, "high-min", 0, "high-confidence brand findings that make a file high risk")
	cmd.Flags().IntVar(&flagMediumMin, "medium-min", 0, "findings that make a file medium risk")
	cmd.Flags().StringVar(&flagHighBrands, "high-brands", "", "comma-separated brands counted towards --high-min")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse findings interactively after the scan")
}

const defaultMaxBytes = 100 << 20

// outputSettings are the resolved options that shape output rather than scanning.
type outputSettings struct {
	failOn  string
	noColor bool
}

// buildConfig merges flags over the local and global config files.
func buildConfig(cmd *cobra.Command, paths []string) (engine.Config, outputSettings, error) {
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(configRoot(paths)); err == nil {
		lcfg = c
	} else if !errors.Is(err, config.ErrNotFound) {
		return engine.Config{}, outputSettings{}, err
	}

	cfg := engine.Config{
		Roots:           paths,
		IncludeGlobs:    pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:    pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:        pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:         pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		DefaultExcludes: flagDefaultExcludes,
		NoMask:          pickBool(flagNoMask, negate(lcfg.Mask), negate(gcfg.Mask)),
		MaskChar:        pickString(flagMaskChar, lcfg.MaskChar, gcfg.MaskChar),
		RedactLines:     pickBool(flagRedactLines, lcfg.RedactLines, gcfg.RedactLines),
		NoDirectives:    pickBool(flagNoDirectives, lcfg.NoDirectives, gcfg.NoDirectives),
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if !cmd.Flags().Changed("default-excludes") {
		if lcfg.DefaultExcludes != nil {
			cfg.DefaultExcludes = *lcfg.DefaultExcludes
		} else if gcfg.DefaultExcludes != nil {
			cfg.DefaultExcludes = *gcfg.DefaultExcludes
		}
	}

	src := gcfg
	if lcfg.Risk != nil {
		src = lcfg
	}
	policy, err := src.RiskPolicy()
	if err != nil {
		return cfg, outputSettings{}, err
	}
	if flagHighMin > 0 {
		policy.HighMin = flagHighMin
	}
	if flagMediumMin > 0 {
		policy.MediumMin = flagMediumMin
	}
	if flagHighBrands != "" {
		brands, err := config.ParseBrands(strings.Split(flagHighBrands, ","))
		if err != nil {
			return cfg, outputSettings{}, err
		}
		policy.HighBrands = brands
	}
	cfg.Risk = policy

	failOn := pickString(flagFailOn, lcfg.FailOn, gcfg.FailOn)
	if failOn == "" {
		failOn = string(types.TierMedium)
	}
	if _, err := report.ParseFailOn(failOn); err != nil {
		return cfg, outputSettings{}, err
	}
	out := outputSettings{
		failOn:  failOn,
		noColor: pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor),
	}
	return cfg, out, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	paths := splitPaths(append(append([]string{}, flagPaths...), args...))
	if len(paths) == 0 {
		paths = []string{"."}
	}
	cfg, settings, err := buildConfig(cmd, paths)
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	log, err := logging.NewLogger("panscan", flagLogLevel, stderr)
	if err != nil {
		return err
	}
	cfg.Logger = log
	machine := flagJSON || flagSARIF

	if flagDryRun {
		return printDryRun(cmd, cfg)
	}
	if flagTUI && (machine || !isTerminal(stdout)) {
		return errors.New("--tui needs an interactive terminal and cannot be combined with --json or --sarif")
	}

	if !machine && isTerminal(stderr) {
		if total, err := engine.CountTargets(cfg); err == nil && total > 0 {
			progressed := 0
			cfg.Progress = func() {
				progressed++
				if progressed%10 == 0 || progressed == total {
					pct := float64(progressed) / float64(total) * 100
					_, _ = fmt.Fprintf(stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
				}
			}
			defer func() { _, _ = fmt.Fprintln(stderr) }()
		}
	}

	res, err := engine.ScanWithStats(cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	rep := newReport(paths, cfg, res)

	if flagTUI {
		cfg.Progress = nil
		rescan := func() (report.Report, error) {
			res, err := engine.ScanWithStats(cfg)
			if err != nil {
				return report.Report{}, err
			}
			return newReport(paths, cfg, res), nil
		}
		if err := tui.Run(rep, rescan); err != nil {
			return err
		}
	} else if err := render(stdout, rep, settings.noColor); err != nil {
		return err
	}
	if flagOutput != "" {
		if err := report.Export(flagOutput, rep); err != nil {
			return err
		}
		if !machine {
			_, _ = fmt.Fprintf(stderr, "Results written to %s\n", flagOutput)
		}
	}

	if report.ShouldFail(res.Summary, settings.failOn) {
		return errGateTripped
	}
	return nil
}

func newReport(paths []string, cfg engine.Config, res engine.Result) report.Report {
	return report.Report{
		RunID:       res.RunID,
		Roots:       paths,
		GeneratedAt: time.Now(),
		Duration:    res.Duration,
		Results:     res.Results,
		Summary:     res.Summary,
		Policy:      cfg.Risk,
	}
}

func render(w io.Writer, rep report.Report, noColor bool) error {
	opts := report.PrintOptions{NoColor: colorDisabled(noColor, w)}
	switch {
	case flagSARIF:
		if err := report.WriteSARIF(w, rep); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
		return nil
	case flagJSON:
		return report.WriteJSON(w, rep)
	case flagText:
		report.PrintText(w, rep, opts)
		return nil
	default:
		return report.PrintTable(w, rep, opts)
	}
}

func printDryRun(cmd *cobra.Command, cfg engine.Config) error {
	t, err := engine.Walk(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range t.Files {
		fmt.Fprintln(out, p)
	}
	fmt.Fprintf(out, "%d files in %d directories would be scanned (%d skipped)\n", len(t.Files), t.Dirs, t.Skipped)
	return nil
}
