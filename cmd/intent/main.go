package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"intent-audit/config"
	"intent-audit/internal/model"
	"intent-audit/pkg/log"
)

// flags are the per-invocation options. Options that have a config key are
// also bound into viper.
type flags struct {
	mode      string
	input     string
	runID     string
	overrides []string
	notes     string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := pflag.NewFlagSet("intent", pflag.ContinueOnError)
	fs.StringVar(&f.mode, "mode", "", "rule_predict | report | sweep | train")
	fs.StringVar(&f.input, "input", "", "input JSONL (default run.default_input_path)")
	fs.StringVar(&f.runID, "run_id", "", "run id; generated for rule_predict, required for report")
	fs.StringArrayVar(&f.overrides, "set", nil, "override key=value, repeatable (e.g. thresholds.ambiguous_margin=0.2)")
	fs.StringVar(&f.notes, "notes", "", "free-text notes recorded with the run")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}

	if err := viper.BindPFlag("run.default_input_path", fs.Lookup("input")); err != nil {
		return flags{}, err
	}
	if err := viper.BindPFlag("run.notes", fs.Lookup("notes")); err != nil {
		return flags{}, err
	}

	switch f.mode {
	case model.ModeRulePredict, model.ModeReport, model.ModeSweep, model.ModeTrain:
	case "":
		return flags{}, errors.New("--mode is required")
	default:
		return flags{}, fmt.Errorf("unknown --mode %q", f.mode)
	}
	return f, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "intent:", err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		return 1
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	defer log.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app{l: logger, cfg: cfg, flags: f}
	switch f.mode {
	case model.ModeRulePredict:
		err = a.rulePredict(ctx)
	case model.ModeReport:
		err = a.report(ctx)
	case model.ModeSweep:
		err = a.sweep(ctx)
	case model.ModeTrain:
		err = a.train(ctx)
	}
	if err != nil {
		logger.Errorf(ctx, "%s failed: %v", f.mode, err)
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}
