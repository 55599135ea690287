package rules

import (
	"fmt"
	"strings"

	"github.com/prometheus/common/model"

	"github.com/rooneyshuman/crossplane-metrics-gen/conditions"
	"github.com/rooneyshuman/crossplane-metrics-gen/statemetrics"
)

const (
	// GroupName is the name of the generated rule group.
	GroupName = "crossplane-claims"

	// DefaultPendingFor is how long a claim must stay in a bad state before
	// the alert fires, unless the caller overrides it.
	DefaultPendingFor = "15m"

	// DefaultReasonFilter matches every reason.
	DefaultReasonFilter = ".*"
)

// joinLabels are the identity labels shared by a status metric and its reason
// counterpart. The group_left join matches on these and carries the reason
// label over from the reason side.
var joinLabels = []string{"customresource_kind", "name", "namespace", "cluster"}

// NotReady builds the alert for claims whose Ready condition is False. The
// reason argument filters which Ready reasons fire the alert: either the
// wildcard DefaultReasonFilter, or an alternation of reasons from the Ready
// condition's catalog entry. Available is rejected outright: a claim cannot
// report Available while its Ready status is False, so a rule filtering on it
// could never legitimately fire.
//
// The join relies on the metric producer exposing at most one active reason
// series per claim at a time; the state-set contract guarantees that, the
// composed expression does not re-check it.
func NotReady(reason, pendingFor string) (Rule, error) {
	reason, err := notReadyReasonFilter(reason)
	if err != nil {
		return Rule{}, err
	}
	pendingFor, err = pending(pendingFor)
	if err != nil {
		return Rule{}, err
	}

	expr := joinExpr(
		statemetrics.FullMetricName(statemetrics.MetricName(conditions.TypeReady)),
		statemetrics.FullMetricName(statemetrics.ReasonMetricName(conditions.TypeReady)),
		fmt.Sprintf(`{reason=~%q}`, reason),
	)

	return Rule{
		Alert:  "CrossplaneClaimNotReady",
		Expr:   expr,
		For:    pendingFor,
		Labels: map[string]string{"severity": "warning"},
		Annotations: map[string]string{
			"summary": "Crossplane claim is not ready.",
			"description": fmt.Sprintf(
				"Claim {{ $labels.customresource_kind }} {{ $labels.namespace }}/{{ $labels.name }} has not been ready for more than %s. Current reason is {{ $labels.reason }}. %s",
				pendingFor, explainReasons(notReadyReasons()),
			),
		},
	}, nil
}

// NotSynced builds the alert for claims whose Synced condition is False. All
// Synced reasons are included; any of them is a problem once the claim has
// been out of sync for longer than pendingFor.
func NotSynced(pendingFor string) (Rule, error) {
	pendingFor, err := pending(pendingFor)
	if err != nil {
		return Rule{}, err
	}

	expr := joinExpr(
		statemetrics.FullMetricName(statemetrics.MetricName(conditions.TypeSynced)),
		statemetrics.FullMetricName(statemetrics.ReasonMetricName(conditions.TypeSynced)),
		"",
	)

	synced, err := conditions.Lookup(conditions.TypeSynced)
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		Alert:  "CrossplaneClaimNotSynced",
		Expr:   expr,
		For:    pendingFor,
		Labels: map[string]string{"severity": "warning"},
		Annotations: map[string]string{
			"summary": "Crossplane claim is not synced.",
			"description": fmt.Sprintf(
				"Claim {{ $labels.customresource_kind }} {{ $labels.namespace }}/{{ $labels.name }} has not been synced for more than %s. Current reason is {{ $labels.reason }}. %s",
				pendingFor, explainReasons(synced.Reasons),
			),
		},
	}, nil
}

// ClaimRules composes the full rule group for the claim alerts.
func ClaimRules(reason, pendingFor string) (RuleFile, error) {
	notReady, err := NotReady(reason, pendingFor)
	if err != nil {
		return RuleFile{}, err
	}

	notSynced, err := NotSynced(pendingFor)
	if err != nil {
		return RuleFile{}, err
	}

	return RuleFile{
		Groups: []RuleGroup{
			{
				Name:  GroupName,
				Rules: []Rule{notReady, notSynced},
			},
		},
	}, nil
}

// AlertPrometheusRule wraps a generated rule file as a PrometheusRule CR.
func AlertPrometheusRule(rf RuleFile, name, namespace string) PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{"role": "alert-rules"},
		},
		Spec: PrometheusRuleSpec{Groups: rf.Groups},
	}
}

// joinExpr is the shared shape of both alert expressions: the boolean "False"
// indicator of a status metric, joined many-to-one against the matching
// reason metric on the claim identity labels, carrying the reason label over.
// reasonSelector is an optional label selector appended to the reason metric.
func joinExpr(statusMetric, reasonMetric, reasonSelector string) string {
	on := strings.Join(joinLabels, ", ")
	return fmt.Sprintf(`sum by (%s, status) (%s{status="False"} == 1)
  * on (%s) group_left (reason)
sum by (%s, reason) (%s%s == 1)`,
		on, statusMetric,
		on,
		on, reasonMetric, reasonSelector,
	)
}

// notReadyReasons returns the Ready reasons an alert may filter on: the
// catalog order of the Ready condition with Available removed.
func notReadyReasons() []string {
	ready, err := conditions.Lookup(conditions.TypeReady)
	if err != nil {
		// The Ready type is part of the static catalog; losing it is a
		// programming error in this package's own domain.
		panic(err)
	}

	out := make([]string, 0, len(ready.Reasons)-1)
	for _, r := range ready.Reasons {
		if r == conditions.ReasonAvailable {
			continue
		}
		out = append(out, r)
	}
	return out
}

// notReadyReasonFilter validates the caller-supplied reason filter. An empty
// filter means the wildcard. Anything else must be an alternation of reasons
// from the not-ready allow-set.
func notReadyReasonFilter(reason string) (string, error) {
	if reason == "" || reason == DefaultReasonFilter {
		return DefaultReasonFilter, nil
	}

	allowed := make(map[string]bool)
	for _, r := range notReadyReasons() {
		allowed[r] = true
	}

	for _, part := range strings.Split(reason, "|") {
		if part == conditions.ReasonAvailable {
			return "", fmt.Errorf("reason %q cannot be used in a not-ready alert: a claim cannot be Available while not ready", part)
		}
		if !allowed[part] {
			return "", fmt.Errorf("reason %q is not a known not-ready reason (allowed: %s)", part, strings.Join(notReadyReasons(), ", "))
		}
	}

	return reason, nil
}

// pending validates the pending duration, applying the default when empty.
func pending(pendingFor string) (string, error) {
	if pendingFor == "" {
		pendingFor = DefaultPendingFor
	}
	if _, err := model.ParseDuration(pendingFor); err != nil {
		return "", fmt.Errorf("invalid pending duration %q: %w", pendingFor, err)
	}
	return pendingFor, nil
}

// explainReasons renders the catalog meaning of each reason for use in alert
// annotations.
func explainReasons(reasons []string) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if meaning := conditions.Explain(r); meaning != "" {
			parts = append(parts, fmt.Sprintf("%s means %s", r, meaning))
		}
	}
	return strings.Join(parts, "; ") + "."
}
