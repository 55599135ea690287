// Package dashboards provides functions that build complete Grafana dashboard
// definitions using the Foundation SDK. Each function returns a configured
// DashboardBuilder ready to be built and serialized to JSON.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/rooneyshuman/crossplane-metrics-gen/conditions"
	"github.com/rooneyshuman/crossplane-metrics-gen/panels"
	"github.com/rooneyshuman/crossplane-metrics-gen/statemetrics"
)

// BuildClaims creates the Crossplane Claims dashboard: a readiness overview
// with counts, per-kind trends and a table of the claims that currently need
// attention.
func BuildClaims() (*dashboard.DashboardBuilder, error) {
	b := dashboard.NewDashboardBuilder("Crossplane Claims").
		Uid("crossplane-claims").
		Tags([]string{"crossplane", "prometheus"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair)

	// Variables: datasource + kind.
	b = b.WithVariable(datasourceVar()).
		WithVariable(kindVar())

	// Row: Readiness.
	b = b.WithRow(dashboard.NewRowBuilder("Readiness")).
		WithPanel(panels.NotReadyCount()).
		WithPanel(panels.ReadyByKind()).
		WithPanel(panels.NotReadyReasons()).
		WithPanel(panels.NotReadyTable())

	// Row: Sync.
	b = b.WithRow(dashboard.NewRowBuilder("Sync")).
		WithPanel(panels.NotSyncedCount()).
		WithPanel(panels.SyncedReasons())

	return b, nil
}

// datasourceVar returns the common "datasource" template variable.
func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Data Source").
		Type("prometheus")
}

// kindVar returns the "kind" template variable listing observed claim kinds.
func kindVar() *dashboard.QueryVariableBuilder {
	metric := statemetrics.FullMetricName(statemetrics.MetricName(conditions.TypeReady))

	return dashboard.NewQueryVariableBuilder("kind").
		Label("Claim Kind").
		Datasource(panels.DSRef()).
		Query(dashboard.StringOrMap{String: cog.ToPtr("label_values(" + metric + ", customresource_kind)")}).
		Refresh(dashboard.VariableRefreshOnTimeRangeChanged).
		Sort(dashboard.VariableSortAlphabeticalAsc).
		Multi(true).
		IncludeAll(true)
}
