// Package config handles CLI flags, environment variable overrides, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/common/model"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Config holds all generator configuration.
type Config struct {
	OutputDir          string
	LogLevel           string
	PendingFor         string
	NotReadyReason     string
	WrapPrometheusRule bool
	RuleName           string
	RuleNamespace      string
	Claims             []schema.GroupVersionKind
	claimsRaw          string
}

// DefaultClaims are the claim kinds generated when none are configured.
var DefaultClaims = []schema.GroupVersionKind{
	{Group: "database.example.org", Version: "v1alpha1", Kind: "PostgreSQLInstance"},
}

// NewConfig registers flags on the given kingpin application and returns a Config.
func NewConfig(app *kingpin.Application) *Config {
	cfg := &Config{}

	app.Flag("output-dir", "Directory to write generated artifacts into.").
		Default("contrib").StringVar(&cfg.OutputDir)
	app.Flag("log.level", "Log level.").
		Default("info").EnumVar(&cfg.LogLevel, "debug", "info", "warn", "error")
	app.Flag("pending-for", "How long a claim must stay not ready or not synced before the alerts fire.").
		Default("15m").StringVar(&cfg.PendingFor)
	app.Flag("not-ready-reason", "Regex over Ready condition reasons the not-ready alert fires for.").
		Default(".*").StringVar(&cfg.NotReadyReason)
	app.Flag("prometheus-rule", "Wrap the alert rules in a PrometheusRule CR instead of a plain rule file.").
		BoolVar(&cfg.WrapPrometheusRule)
	app.Flag("prometheus-rule.name", "Name of the generated PrometheusRule CR.").
		Default("crossplane-claims").StringVar(&cfg.RuleName)
	app.Flag("prometheus-rule.namespace", "Namespace of the generated PrometheusRule CR.").
		Default("monitoring").StringVar(&cfg.RuleNamespace)
	app.Flag("claims", "Comma-separated claim descriptors, each group/version/Kind.").
		Default("").StringVar(&cfg.claimsRaw)

	return cfg
}

// ApplyEnvironment applies environment variable overrides.
func (c *Config) ApplyEnvironment() {
	if v := os.Getenv("CROSSPLANE_METRICS_GEN_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}

	if v := os.Getenv("CROSSPLANE_METRICS_GEN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv("CROSSPLANE_METRICS_GEN_PENDING_FOR"); v != "" {
		c.PendingFor = v
	}

	if v := os.Getenv("CROSSPLANE_METRICS_GEN_NOT_READY_REASON"); v != "" {
		c.NotReadyReason = v
	}

	if v := os.Getenv("CROSSPLANE_METRICS_GEN_CLAIMS"); v != "" {
		c.claimsRaw = v
	}
}

// Validate parses the claim list and checks every field that can be wrong at
// startup. Errors are accumulated so the caller sees all of them at once.
func (c *Config) Validate() error {
	var errs []error

	if err := c.parseClaims(); err != nil {
		errs = append(errs, err)
	}

	if c.OutputDir == "" {
		errs = append(errs, ErrNoOutputDir)
	}

	if _, err := model.ParseDuration(c.PendingFor); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrBadPendingFor, c.PendingFor))
	}

	if c.NotReadyReason == "" {
		errs = append(errs, errors.New("not-ready-reason must not be empty"))
	}

	if c.WrapPrometheusRule {
		if c.RuleName == "" {
			errs = append(errs, errors.New("prometheus-rule.name is required when wrapping"))
		}
		if c.RuleNamespace == "" {
			errs = append(errs, errors.New("prometheus-rule.namespace is required when wrapping"))
		}
	}

	return errors.Join(errs...)
}

// MetricsFile is the path of the generated state-metrics configuration.
func (c *Config) MetricsFile() string {
	return filepath.Join(c.OutputDir, "kube-state-metrics", "custom-resource-state.yaml")
}

// RulesFile is the path of the generated alert rules.
func (c *Config) RulesFile() string {
	return filepath.Join(c.OutputDir, "prometheus", "crossplane-claims-alerts.yaml")
}

// DashboardFile is the path of the generated Grafana dashboard.
func (c *Config) DashboardFile() string {
	return filepath.Join(c.OutputDir, "grafana", "crossplane-claims.json")
}

func (c *Config) parseClaims() error {
	if strings.TrimSpace(c.claimsRaw) == "" {
		c.Claims = append([]schema.GroupVersionKind(nil), DefaultClaims...)
		return nil
	}

	var errs []error
	seen := make(map[schema.GroupVersionKind]bool)
	c.Claims = nil

	for _, raw := range strings.Split(c.claimsRaw, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parts := strings.Split(raw, "/")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			errs = append(errs, fmt.Errorf("%w: %q (want group/version/Kind)", ErrBadClaimRef, raw))
			continue
		}

		gvk := schema.GroupVersionKind{Group: parts[0], Version: parts[1], Kind: parts[2]}
		if seen[gvk] {
			errs = append(errs, fmt.Errorf("duplicate claim descriptor %q", raw))
			continue
		}
		seen[gvk] = true

		c.Claims = append(c.Claims, gvk)
	}

	if len(c.Claims) == 0 && len(errs) == 0 {
		errs = append(errs, ErrNoClaims)
	}

	return errors.Join(errs...)
}
