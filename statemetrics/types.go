// Package statemetrics generates kube-state-metrics CustomResourceStateMetrics
// configuration for Crossplane claims. For every claim kind and every condition
// type in the conditions catalog it emits a pair of StateSet metrics, one over
// the condition's reason field and one over its status field.
package statemetrics

import "k8s.io/apimachinery/pkg/runtime/schema"

// ConfigurationKind is the kind discriminator of the generated document.
const ConfigurationKind = "CustomResourceStateMetrics"

// Configuration is the top-level custom-resource-state configuration document
// consumed by kube-state-metrics.
type Configuration struct {
	Kind string      `yaml:"kind"`
	Spec MetricsSpec `yaml:"spec"`
}

// MetricsSpec holds the per-resource metric families.
type MetricsSpec struct {
	Resources []Resource `yaml:"resources"`
}

// Resource is one watched custom resource kind and its metric definitions.
type Resource struct {
	GroupVersionKind schema.GroupVersionKind `yaml:"groupVersionKind"`
	MetricNamePrefix string                  `yaml:"metricNamePrefix"`
	LabelsFromPath   map[string][]string     `yaml:"labelsFromPath"`
	Metrics          []Metric                `yaml:"metrics"`
}

// Metric is a single generated metric definition.
type Metric struct {
	Name string     `yaml:"name"`
	Help string     `yaml:"help"`
	Each MetricEach `yaml:"each"`
}

// MetricEach describes how a metric is derived from each matched resource.
// Every metric this generator emits is a StateSet.
type MetricEach struct {
	Type     string   `yaml:"type"`
	StateSet StateSet `yaml:"stateSet"`
}

// StateSet exposes a field's value as one boolean series per enumerated value.
type StateSet struct {
	LabelName string   `yaml:"labelName"`
	Path      []string `yaml:"path"`
	List      []string `yaml:"list"`
}
