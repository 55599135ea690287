package rules

import (
	"regexp"
	"strings"
	"testing"
)

func TestNotReadyDefaults(t *testing.T) {
	r, err := NotReady("", "")
	if err != nil {
		t.Fatalf("NotReady: %v", err)
	}

	if r.Alert != "CrossplaneClaimNotReady" {
		t.Errorf("alert = %q", r.Alert)
	}
	if r.For != "15m" {
		t.Errorf("for = %q, want 15m", r.For)
	}
	if !strings.Contains(r.Expr, `reason=~".*"`) {
		t.Errorf("expected wildcard reason filter in expr:\n%s", r.Expr)
	}
}

func TestNotReadyExprShape(t *testing.T) {
	r, err := NotReady("Creating", "1h")
	if err != nil {
		t.Fatalf("NotReady: %v", err)
	}

	if r.For != "1h" {
		t.Errorf("for = %q, want 1h", r.For)
	}

	for _, want := range []string{
		`crossplane_status_ready{status="False"} == 1`,
		`* on (customresource_kind, name, namespace, cluster) group_left (reason)`,
		`crossplane_status_ready_reason{reason=~"Creating"} == 1`,
		`sum by (customresource_kind, name, namespace, cluster, status)`,
		`sum by (customresource_kind, name, namespace, cluster, reason)`,
	} {
		if !strings.Contains(r.Expr, want) {
			t.Errorf("expr missing %q:\n%s", want, r.Expr)
		}
	}
}

func TestNotReadyReasonFilterMatchesOnlyGivenReason(t *testing.T) {
	r, err := NotReady("Creating", "1h")
	if err != nil {
		t.Fatalf("NotReady: %v", err)
	}

	filterRe := regexp.MustCompile(`reason=~"([^"]*)"`)
	m := filterRe.FindStringSubmatch(r.Expr)
	if m == nil {
		t.Fatalf("no reason filter in expr:\n%s", r.Expr)
	}

	// Prometheus anchors label regexes.
	anchored := regexp.MustCompile("^(?:" + m[1] + ")$")
	if !anchored.MatchString("Creating") {
		t.Error("filter should match Creating")
	}
	for _, other := range []string{"Deleting", "Unavailable", "Available"} {
		if anchored.MatchString(other) {
			t.Errorf("filter should not match %q", other)
		}
	}
}

func TestNotReadyReasonValidation(t *testing.T) {
	tests := []struct {
		reason string
		ok     bool
	}{
		{"", true},
		{".*", true},
		{"Unavailable", true},
		{"Creating", true},
		{"Deleting", true},
		{"Creating|Deleting", true},
		{"Unavailable|Creating|Deleting", true},
		{"Available", false},
		{"Creating|Available", false},
		{"ReconcileError", false},
		{"Bogus", false},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			_, err := NotReady(tt.reason, "")
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Errorf("expected error for reason %q", tt.reason)
			}
		})
	}
}

func TestNotReadyRejectsBadDuration(t *testing.T) {
	if _, err := NotReady("", "soon"); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestNotSynced(t *testing.T) {
	r, err := NotSynced("15m")
	if err != nil {
		t.Fatalf("NotSynced: %v", err)
	}

	if r.Alert != "CrossplaneClaimNotSynced" {
		t.Errorf("alert = %q", r.Alert)
	}
	if r.For != "15m" {
		t.Errorf("for = %q", r.For)
	}
	for _, want := range []string{
		`crossplane_status_synced{status="False"} == 1`,
		"crossplane_status_synced_reason == 1",
	} {
		if !strings.Contains(r.Expr, want) {
			t.Errorf("expr missing %q:\n%s", want, r.Expr)
		}
	}
	if strings.Contains(r.Expr, "reason=~") {
		t.Errorf("not-synced alert should not filter on reason:\n%s", r.Expr)
	}
}

func TestAnnotationsExplainReasons(t *testing.T) {
	notReady, err := NotReady("", "")
	if err != nil {
		t.Fatal(err)
	}
	desc := notReady.Annotations["description"]
	for _, reason := range []string{"Unavailable", "Creating", "Deleting"} {
		if !strings.Contains(desc, reason+" means") {
			t.Errorf("description missing explanation for %q:\n%s", reason, desc)
		}
	}
	if !strings.Contains(desc, "{{ $labels.reason }}") {
		t.Error("description should template the matched reason label")
	}

	notSynced, err := NotSynced("")
	if err != nil {
		t.Fatal(err)
	}
	desc = notSynced.Annotations["description"]
	for _, reason := range []string{"ReconcileSuccess", "ReconcileError", "ReconcilePaused"} {
		if !strings.Contains(desc, reason+" means") {
			t.Errorf("description missing explanation for %q:\n%s", reason, desc)
		}
	}
}

func TestClaimRules(t *testing.T) {
	rf, err := ClaimRules("", "")
	if err != nil {
		t.Fatalf("ClaimRules: %v", err)
	}

	if len(rf.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(rf.Groups))
	}
	g := rf.Groups[0]
	if g.Name != GroupName {
		t.Errorf("group name = %q, want %q", g.Name, GroupName)
	}
	if len(g.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(g.Rules))
	}
	if g.Rules[0].Alert != "CrossplaneClaimNotReady" || g.Rules[1].Alert != "CrossplaneClaimNotSynced" {
		t.Errorf("unexpected rule order: %q, %q", g.Rules[0].Alert, g.Rules[1].Alert)
	}
}

func TestClaimRulesPropagatesErrors(t *testing.T) {
	if _, err := ClaimRules("Available", ""); err == nil {
		t.Error("expected error for disallowed reason")
	}
	if _, err := ClaimRules("", "never"); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestAlertPrometheusRule(t *testing.T) {
	rf, err := ClaimRules("", "")
	if err != nil {
		t.Fatal(err)
	}

	pr := AlertPrometheusRule(rf, "crossplane-claims", "monitoring")
	if pr.APIVersion != "monitoring.coreos.com/v1" || pr.Kind != "PrometheusRule" {
		t.Errorf("unexpected CR header: %s/%s", pr.APIVersion, pr.Kind)
	}
	if pr.Metadata.Name != "crossplane-claims" || pr.Metadata.Namespace != "monitoring" {
		t.Errorf("unexpected metadata: %+v", pr.Metadata)
	}
	if len(pr.Spec.Groups) != 1 {
		t.Errorf("got %d groups, want 1", len(pr.Spec.Groups))
	}
}
