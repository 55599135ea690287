package statemetrics

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

var testGVK = schema.GroupVersionKind{
	Group:   "database.example.org",
	Version: "v1alpha1",
	Kind:    "PostgreSQLInstance",
}

func TestSynthesizeMetricOrder(t *testing.T) {
	r, err := Synthesize(testGVK)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	// Two metrics per condition type, all reason metrics grouped before all
	// status metrics, catalog order within each group.
	want := []string{
		"status_synced_reason",
		"status_ready_reason",
		"status_synced",
		"status_ready",
	}
	if len(r.Metrics) != len(want) {
		t.Fatalf("got %d metrics, want %d", len(r.Metrics), len(want))
	}
	for i, w := range want {
		if r.Metrics[i].Name != w {
			t.Errorf("metric[%d] = %q, want %q", i, r.Metrics[i].Name, w)
		}
	}
}

func TestSynthesizeStateSets(t *testing.T) {
	r, err := Synthesize(testGVK)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	byName := make(map[string]Metric, len(r.Metrics))
	for _, m := range r.Metrics {
		byName[m.Name] = m
	}

	tests := []struct {
		name      string
		labelName string
		path      []string
		list      []string
	}{
		{
			name:      "status_synced_reason",
			labelName: "reason",
			path:      []string{"status", "conditions", "[type=Synced]", "reason"},
			list:      []string{"ReconcileSuccess", "ReconcileError", "ReconcilePaused"},
		},
		{
			name:      "status_ready_reason",
			labelName: "reason",
			path:      []string{"status", "conditions", "[type=Ready]", "reason"},
			list:      []string{"Available", "Unavailable", "Creating", "Deleting"},
		},
		{
			name:      "status_synced",
			labelName: "status",
			path:      []string{"status", "conditions", "[type=Synced]", "status"},
			list:      []string{"True", "False"},
		},
		{
			name:      "status_ready",
			labelName: "status",
			path:      []string{"status", "conditions", "[type=Ready]", "status"},
			list:      []string{"True", "False"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := byName[tt.name]
			if !ok {
				t.Fatalf("metric %q not generated", tt.name)
			}
			if m.Each.Type != MetricTypeStateSet {
				t.Errorf("type = %q, want %q", m.Each.Type, MetricTypeStateSet)
			}
			if m.Help == "" {
				t.Error("missing help text")
			}
			if m.Each.StateSet.LabelName != tt.labelName {
				t.Errorf("labelName = %q, want %q", m.Each.StateSet.LabelName, tt.labelName)
			}
			assertStrings(t, "path", m.Each.StateSet.Path, tt.path)
			assertStrings(t, "list", m.Each.StateSet.List, tt.list)
		})
	}
}

func TestSynthesizeResourceHeader(t *testing.T) {
	r, err := Synthesize(testGVK)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if r.GroupVersionKind != testGVK {
		t.Errorf("groupVersionKind = %v, want %v", r.GroupVersionKind, testGVK)
	}
	if r.MetricNamePrefix != "crossplane" {
		t.Errorf("metricNamePrefix = %q, want %q", r.MetricNamePrefix, "crossplane")
	}
	assertStrings(t, "labelsFromPath[name]", r.LabelsFromPath["name"], []string{"metadata", "name"})
	assertStrings(t, "labelsFromPath[namespace]", r.LabelsFromPath["namespace"], []string{"metadata", "namespace"})
}

func TestSynthesizeIncompleteDescriptor(t *testing.T) {
	tests := []schema.GroupVersionKind{
		{Version: "v1alpha1", Kind: "PostgreSQLInstance"},
		{Group: "database.example.org", Kind: "PostgreSQLInstance"},
		{Group: "database.example.org", Version: "v1alpha1"},
		{},
	}

	for _, gvk := range tests {
		if _, err := Synthesize(gvk); err == nil {
			t.Errorf("expected error for descriptor %v", gvk)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	gvks := []schema.GroupVersionKind{
		testGVK,
		{Group: "cache.example.org", Version: "v1beta1", Kind: "RedisCluster"},
	}

	first := marshalConfig(t, gvks)
	second := marshalConfig(t, gvks)

	if !bytes.Equal(first, second) {
		t.Error("generating twice with identical input produced different output")
	}
}

func TestBuildResourceOrder(t *testing.T) {
	gvks := []schema.GroupVersionKind{
		{Group: "cache.example.org", Version: "v1beta1", Kind: "RedisCluster"},
		testGVK,
	}

	cfg, err := Build(gvks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Kind != ConfigurationKind {
		t.Errorf("kind = %q, want %q", cfg.Kind, ConfigurationKind)
	}
	if len(cfg.Spec.Resources) != 2 {
		t.Fatalf("got %d resources, want 2", len(cfg.Spec.Resources))
	}
	if cfg.Spec.Resources[0].GroupVersionKind.Kind != "RedisCluster" {
		t.Error("resources not in caller-supplied order")
	}
}

func TestBuildRejectsBadDescriptor(t *testing.T) {
	_, err := Build([]schema.GroupVersionKind{testGVK, {Kind: "NoGroup"}})
	if err == nil {
		t.Error("expected error for incomplete descriptor in list")
	}
}

func TestMetricNameDerivation(t *testing.T) {
	if got := MetricName("Ready"); got != "status_ready" {
		t.Errorf("MetricName = %q", got)
	}
	if got := ReasonMetricName("Synced"); got != "status_synced_reason" {
		t.Errorf("ReasonMetricName = %q", got)
	}
	if got := FullMetricName("status_ready"); got != "crossplane_status_ready" {
		t.Errorf("FullMetricName = %q", got)
	}
}

func marshalConfig(t *testing.T, gvks []schema.GroupVersionKind) []byte {
	t.Helper()
	cfg, err := Build(gvks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func assertStrings(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", what, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %q, want %q", what, i, got[i], want[i])
		}
	}
}
