// Package panels provides reusable Grafana panel builder functions for the
// claims dashboard generator. Each function returns a cog.Builder[dashboard.Panel]
// that can be added to any dashboard.
package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
)

// DSRef returns a DataSourceRef pointing at the $datasource template variable.
func DSRef() common.DataSourceRef {
	return common.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery creates a Prometheus range query builder with common defaults.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

// PromInstantQuery creates a Prometheus instant query builder for table panels.
func PromInstantQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID).
		Instant().
		Format(prometheus.PromQueryFormatTable)
}

// ThresholdsGreenOnly returns a threshold config with a single green step
// (base color, no value trigger). Used for panels without conditional coloring.
func ThresholdsGreenOnly() *dashboard.ThresholdsConfigBuilder {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Value: nil, Color: "green"},
		})
}

// ThresholdsGreenRed returns a threshold config that shows green below the
// threshold value and red at or above it.
func ThresholdsGreenRed(redAt float64) *dashboard.ThresholdsConfigBuilder {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Value: nil, Color: "green"},
			{Value: cog.ToPtr(redAt), Color: "red"},
		})
}

// ColorSchemeThresholds returns a FieldColor configured for threshold-based
// coloring. Used by stat panels.
func ColorSchemeThresholds() *dashboard.FieldColorBuilder {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdThresholds)
}

// ColorSchemePaletteClassic returns a FieldColor configured for the classic
// multi-color palette. Used by timeseries panels.
func ColorSchemePaletteClassic() *dashboard.FieldColorBuilder {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// TableLegend returns a table-mode legend showing the given calculations.
func TableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// MultiTooltip returns a tooltip configured to show all series at the cursor.
func MultiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti)
}

// KindFilter returns the PromQL label filter for the $kind template variable.
func KindFilter() string {
	return `customresource_kind=~"$kind"`
}
