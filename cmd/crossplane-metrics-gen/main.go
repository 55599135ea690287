// Package main is the entry point for the crossplane-metrics-gen binary. It
// compiles a list of Crossplane claim kinds into three artifacts: a
// kube-state-metrics custom-resource-state configuration, a Prometheus alert
// rule group, and a Grafana claims dashboard. Nothing is written unless the
// whole artifact set passes the cross-reference validation.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"gopkg.in/yaml.v3"

	"github.com/rooneyshuman/crossplane-metrics-gen/config"
	"github.com/rooneyshuman/crossplane-metrics-gen/dashboards"
	"github.com/rooneyshuman/crossplane-metrics-gen/rules"
	"github.com/rooneyshuman/crossplane-metrics-gen/statemetrics"
	"github.com/rooneyshuman/crossplane-metrics-gen/validate"
)

// Version information set by ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// artifacts is the complete generated set. It is validated as a unit and
// written as a unit.
type artifacts struct {
	metrics statemetrics.Configuration
	rules   rules.RuleFile
	dash    dashboard.Dashboard
}

func main() {
	app := kingpin.New("crossplane-metrics-gen", "Generator for Crossplane claim state metrics, alert rules and dashboards.")
	app.Version(fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate))
	app.HelpFlag.Short('h')

	validateOnly := app.Flag("validate", "Validate generated artifacts without writing files.").Bool()

	cfg := config.NewConfig(app)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := setupLogger(cfg.LogLevel)

	cfg.ApplyEnvironment()

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "err", err)
		os.Exit(1)
	}

	logger.Info("Starting crossplane-metrics-gen",
		"version", Version,
		"claims", len(cfg.Claims),
		"pending_for", cfg.PendingFor,
		"output", cfg.OutputDir,
	)

	arts, err := buildArtifacts(cfg)
	if err != nil {
		logger.Error("Generating artifacts failed", "err", err)
		os.Exit(1)
	}

	result := checkArtifacts(arts)
	if output := validate.FormatResult("artifacts", result); output != "" {
		fmt.Print(output)
	}
	if !result.Ok() {
		logger.Error("Generated artifacts are inconsistent, refusing to write", "errors", len(result.Errors))
		os.Exit(1)
	}

	if *validateOnly {
		logger.Info("Artifacts validated, nothing written")
		return
	}

	if err := writeArtifacts(cfg, arts, logger); err != nil {
		logger.Error("Writing artifacts failed", "err", err)
		os.Exit(1)
	}

	logger.Info("Done")
}

// buildArtifacts runs the full synthesis pass.
func buildArtifacts(cfg *config.Config) (artifacts, error) {
	metrics, err := statemetrics.Build(cfg.Claims)
	if err != nil {
		return artifacts{}, fmt.Errorf("state metrics: %w", err)
	}

	rf, err := rules.ClaimRules(cfg.NotReadyReason, cfg.PendingFor)
	if err != nil {
		return artifacts{}, fmt.Errorf("alert rules: %w", err)
	}

	builder, err := dashboards.BuildClaims()
	if err != nil {
		return artifacts{}, fmt.Errorf("dashboard: %w", err)
	}
	dash, err := builder.Build()
	if err != nil {
		return artifacts{}, fmt.Errorf("finalizing dashboard: %w", err)
	}

	return artifacts{metrics: metrics, rules: rf, dash: dash}, nil
}

// checkArtifacts cross-references every rule expression and dashboard query
// against the metric names the configuration defines.
func checkArtifacts(arts artifacts) validate.Result {
	known := validate.KnownMetrics(arts.metrics)

	result := validate.Rules(arts.rules, known)

	dashResult := validate.Dashboard(arts.dash, known)
	result.Errors = append(result.Errors, dashResult.Errors...)
	result.Warnings = append(result.Warnings, dashResult.Warnings...)

	return result
}

func writeArtifacts(cfg *config.Config, arts artifacts, logger *slog.Logger) error {
	if err := writeYAML(cfg.MetricsFile(), arts.metrics, logger); err != nil {
		return err
	}

	var ruleDoc any = arts.rules
	if cfg.WrapPrometheusRule {
		ruleDoc = rules.AlertPrometheusRule(arts.rules, cfg.RuleName, cfg.RuleNamespace)
	}
	if err := writeYAML(cfg.RulesFile(), ruleDoc, logger); err != nil {
		return err
	}

	data, err := json.MarshalIndent(arts.dash, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling dashboard: %w", err)
	}

	// Append trailing newline for POSIX compliance.
	data = append(data, '\n')

	return writeFile(cfg.DashboardFile(), data, logger)
}

func writeYAML(path string, v any, logger *slog.Logger) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}

	return writeFile(path, data, logger)
}

func writeFile(path string, data []byte, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Info("Wrote artifact", "path", path, "bytes", len(data))
	return nil
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
