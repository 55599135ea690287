// Package conditions is the static catalog of Crossplane status condition
// types and the reason values each of them may report. The catalog mirrors
// the condition vocabulary defined by crossplane-runtime; it is fixed at
// compile time and there is no runtime registration path. Adding a condition
// type or a reason means editing this file.
package conditions

import "fmt"

// Condition type names as they appear in the status.conditions array of a
// claim.
const (
	TypeSynced = "Synced"
	TypeReady  = "Ready"
)

// Reasons for the Synced condition.
const (
	ReasonReconcileSuccess = "ReconcileSuccess"
	ReasonReconcileError   = "ReconcileError"
	ReasonReconcilePaused  = "ReconcilePaused"
)

// Reasons for the Ready condition.
const (
	ReasonAvailable   = "Available"
	ReasonUnavailable = "Unavailable"
	ReasonCreating    = "Creating"
	ReasonDeleting    = "Deleting"
)

// StatusValues are the boolean status values every condition can carry,
// in the order they are enumerated in generated state sets.
var StatusValues = []string{"True", "False"}

// Type is one condition type together with the ordered set of reasons that
// are valid for it. Reason order is significant: it determines the order of
// enumerated values in generated metrics.
type Type struct {
	Name    string
	Reasons []string
}

// The catalog. Slice order is the iteration order exposed by Types and is
// part of the generator's output contract.
var catalog = []Type{
	{
		Name: TypeSynced,
		Reasons: []string{
			ReasonReconcileSuccess,
			ReasonReconcileError,
			ReasonReconcilePaused,
		},
	},
	{
		Name: TypeReady,
		Reasons: []string{
			ReasonAvailable,
			ReasonUnavailable,
			ReasonCreating,
			ReasonDeleting,
		},
	},
}

// meanings holds a short human-readable explanation per reason, used in alert
// annotations.
var meanings = map[string]string{
	ReasonReconcileSuccess: "the last reconcile of the resource succeeded",
	ReasonReconcileError:   "the last reconcile of the resource returned an error",
	ReasonReconcilePaused:  "reconciliation of the resource is paused",
	ReasonAvailable:        "the resource is available for use",
	ReasonUnavailable:      "the resource is not available for use",
	ReasonCreating:         "the resource is being created",
	ReasonDeleting:         "the resource is being deleted",
}

// Types returns the catalog in registration order. The returned slice is a
// copy; callers cannot mutate the catalog through it.
func Types() []Type {
	out := make([]Type, len(catalog))
	for i, t := range catalog {
		out[i] = Type{Name: t.Name, Reasons: append([]string(nil), t.Reasons...)}
	}
	return out
}

// Lookup returns the catalog entry for the named condition type. Referencing
// an unregistered type is an authoring error and fails closed.
func Lookup(name string) (Type, error) {
	for _, t := range catalog {
		if t.Name == name {
			return Type{Name: t.Name, Reasons: append([]string(nil), t.Reasons...)}, nil
		}
	}
	return Type{}, fmt.Errorf("condition type %q is not registered", name)
}

// Explain returns the human-readable meaning of a reason, or the empty string
// for an unknown reason.
func Explain(reason string) string {
	return meanings[reason]
}
