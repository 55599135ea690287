package statemetrics

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/rooneyshuman/crossplane-metrics-gen/conditions"
)

// MetricNamePrefix is prepended (with an underscore) by kube-state-metrics to
// every metric name in a generated resource entry.
const MetricNamePrefix = "crossplane"

// MetricTypeStateSet is the metric type of every generated metric.
const MetricTypeStateSet = "StateSet"

// MetricName derives the status metric name for a condition type. The alert
// rules reference generated metrics through this same function, which is what
// keeps the two artifact families consistent.
func MetricName(conditionType string) string {
	return "status_" + strings.ToLower(conditionType)
}

// ReasonMetricName derives the reason metric name for a condition type.
func ReasonMetricName(conditionType string) string {
	return MetricName(conditionType) + "_reason"
}

// FullMetricName is the name a metric carries once kube-state-metrics applies
// the resource's metric name prefix.
func FullMetricName(name string) string {
	return MetricNamePrefix + "_" + name
}

// Synthesize builds the metric definitions for one claim kind. The metric
// order is a two-pass output contract: all reason metrics in catalog order,
// then all status metrics in catalog order.
func Synthesize(gvk schema.GroupVersionKind) (Resource, error) {
	if gvk.Group == "" || gvk.Version == "" || gvk.Kind == "" {
		return Resource{}, fmt.Errorf("incomplete resource descriptor %s: group, version and kind are all required", gvk)
	}

	types := conditions.Types()
	metrics := make([]Metric, 0, 2*len(types))

	for _, ct := range types {
		metrics = append(metrics, reasonMetric(ct))
	}
	for _, ct := range types {
		metrics = append(metrics, statusMetric(ct))
	}

	return Resource{
		GroupVersionKind: gvk,
		MetricNamePrefix: MetricNamePrefix,
		LabelsFromPath: map[string][]string{
			"name":      {"metadata", "name"},
			"namespace": {"metadata", "namespace"},
		},
		Metrics: metrics,
	}, nil
}

// Build assembles the full configuration document for a list of claim kinds,
// in the given order.
func Build(gvks []schema.GroupVersionKind) (Configuration, error) {
	resources := make([]Resource, 0, len(gvks))
	for _, gvk := range gvks {
		r, err := Synthesize(gvk)
		if err != nil {
			return Configuration{}, err
		}
		resources = append(resources, r)
	}

	return Configuration{
		Kind: ConfigurationKind,
		Spec: MetricsSpec{Resources: resources},
	}, nil
}

func reasonMetric(ct conditions.Type) Metric {
	return Metric{
		Name: ReasonMetricName(ct.Name),
		Help: fmt.Sprintf("The reason of the %s condition of the resource.", ct.Name),
		Each: MetricEach{
			Type: MetricTypeStateSet,
			StateSet: StateSet{
				LabelName: "reason",
				Path:      ConditionPath(ct.Name, "reason").Strings(),
				List:      ct.Reasons,
			},
		},
	}
}

func statusMetric(ct conditions.Type) Metric {
	return Metric{
		Name: MetricName(ct.Name),
		Help: fmt.Sprintf("The status of the %s condition of the resource.", ct.Name),
		Each: MetricEach{
			Type: MetricTypeStateSet,
			StateSet: StateSet{
				LabelName: "status",
				Path:      ConditionPath(ct.Name, "status").Strings(),
				List:      conditions.StatusValues,
			},
		},
	}
}
