package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/table"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"

	"github.com/rooneyshuman/crossplane-metrics-gen/conditions"
	"github.com/rooneyshuman/crossplane-metrics-gen/statemetrics"
)

// Default grid sizes for claim panels.
const (
	claimStatWidth   = 6
	claimStatHeight  = 4
	claimTSWidth     = 12
	claimTSHeight    = 8
	claimTableHeight = 8
)

func statusMetric(conditionType string) string {
	return statemetrics.FullMetricName(statemetrics.MetricName(conditionType))
}

func reasonMetric(conditionType string) string {
	return statemetrics.FullMetricName(statemetrics.ReasonMetricName(conditionType))
}

// NotReadyCount returns a stat panel counting claims whose Ready condition is
// False.
func NotReadyCount() cog.Builder[dashboard.Panel] {
	return notFalseCount(conditions.TypeReady, "Claims Not Ready",
		"Number of claims whose Ready condition is currently False.")
}

// NotSyncedCount returns a stat panel counting claims whose Synced condition
// is False.
func NotSyncedCount() cog.Builder[dashboard.Panel] {
	return notFalseCount(conditions.TypeSynced, "Claims Not Synced",
		"Number of claims whose Synced condition is currently False.")
}

func notFalseCount(conditionType, title, description string) cog.Builder[dashboard.Panel] {
	expr := fmt.Sprintf(`count(%s{%s, status="False"} == 1) or vector(0)`,
		statusMetric(conditionType), KindFilter())

	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Height(claimStatHeight).
		Span(claimStatWidth).
		Datasource(DSRef()).
		WithTarget(PromQuery(expr, "", "A")).
		Unit("none").
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		Thresholds(ThresholdsGreenRed(1)).
		ColorScheme(ColorSchemeThresholds())
}

// ReadyByKind returns a timeseries panel showing how many claims of each
// kind are ready over time.
func ReadyByKind() cog.Builder[dashboard.Panel] {
	expr := fmt.Sprintf(`sum by (customresource_kind) (%s{%s, status="True"} == 1)`,
		statusMetric(conditions.TypeReady), KindFilter())

	return timeseries.NewPanelBuilder().
		Title("Ready Claims Over Time").
		Description("Number of ready claims per kind.").
		Height(claimTSHeight).
		Span(claimTSWidth).
		Datasource(DSRef()).
		WithTarget(PromQuery(expr, "{{ customresource_kind }}", "A")).
		Unit("none").
		FillOpacity(5).
		ShowPoints(common.VisibilityModeNever).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		Legend(TableLegend("lastNotNull")).
		Tooltip(MultiTooltip())
}

// NotReadyReasons returns a timeseries panel breaking down not-ready claims
// by their Ready condition reason.
func NotReadyReasons() cog.Builder[dashboard.Panel] {
	expr := fmt.Sprintf(`sum by (reason) (%s{%s} == 1)`,
		reasonMetric(conditions.TypeReady), KindFilter())

	return timeseries.NewPanelBuilder().
		Title("Ready Condition Reasons").
		Description("Claims per Ready condition reason over time.").
		Height(claimTSHeight).
		Span(claimTSWidth).
		Datasource(DSRef()).
		WithTarget(PromQuery(expr, "{{ reason }}", "A")).
		Unit("none").
		FillOpacity(5).
		ShowPoints(common.VisibilityModeNever).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		Legend(TableLegend("lastNotNull")).
		Tooltip(MultiTooltip())
}

// SyncedReasons returns a timeseries panel breaking down claims by their
// Synced condition reason.
func SyncedReasons() cog.Builder[dashboard.Panel] {
	expr := fmt.Sprintf(`sum by (reason) (%s{%s} == 1)`,
		reasonMetric(conditions.TypeSynced), KindFilter())

	return timeseries.NewPanelBuilder().
		Title("Synced Condition Reasons").
		Description("Claims per Synced condition reason over time.").
		Height(claimTSHeight).
		Span(claimTSWidth).
		Datasource(DSRef()).
		WithTarget(PromQuery(expr, "{{ reason }}", "A")).
		Unit("none").
		FillOpacity(5).
		ShowPoints(common.VisibilityModeNever).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		Legend(TableLegend("lastNotNull")).
		Tooltip(MultiTooltip())
}

// NotReadyTable returns a table panel listing the claims that are currently
// not ready, with their reason.
func NotReadyTable() cog.Builder[dashboard.Panel] {
	expr := fmt.Sprintf(`%s{%s} == 1 and on (customresource_kind, name, namespace) (%s{%s, status="False"} == 1)`,
		reasonMetric(conditions.TypeReady), KindFilter(),
		statusMetric(conditions.TypeReady), KindFilter())

	return table.NewPanelBuilder().
		Title("Claims Currently Not Ready").
		Description("Claims whose Ready condition is False, with the active reason.").
		Height(claimTableHeight).
		Datasource(DSRef()).
		WithTarget(PromInstantQuery(expr, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		CellHeight(common.TableCellHeightSm).
		ShowHeader(true).
		WithTransformation(dashboard.DataTransformerConfig{
			Id: "organize",
			Options: map[string]any{
				"excludeByName": map[string]any{
					"Time":     true,
					"Value":    true,
					"__name__": true,
					"instance": true,
					"job":      true,
				},
			},
		})
}
