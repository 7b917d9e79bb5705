package engine

import (
	"fmt"
)

// ============================================================================
// EXECUTOR — Query Dispatch
// ============================================================================
// Entry point: Execute(query, view)
//
// Pipeline:
//   1. Apply filters from Query → SubView
//   2. Group and aggregate
//   3. Dispatch to builder (chart / table)
//   4. Return Result
//
// All computation is local. Zero data copy — the engine reads consumer data
// through RecordView and never mutates it.
// ============================================================================

// Execute runs a Query against a RecordView and returns a render-ready Result.
func Execute(query Query, view RecordView) (*Result, error) {
	if query.Measure == "" && query.Aggregation != "count" {
		return nil, fmt.Errorf("query %q: no measure specified", query.Title)
	}

	filtered := ApplyFilters(view, query.Filters)
	if filtered.Len() == 0 {
		return nil, fmt.Errorf("query %q: no rows match filters", query.Title)
	}

	groups := GroupAndAggregate(filtered, query.GroupBy, query.Measure, query.Weight,
		query.Aggregation, query.SortBy, query.Limit)

	result := &Result{
		Title:  query.Title,
		Groups: groups,
	}

	switch query.Visualize {
	case "table":
		result.TableData = BuildTable(query, groups)
	default:
		result.ChartConfig = BuildChart(query, groups)
		if result.ChartConfig == nil {
			return nil, fmt.Errorf("query %q: not enough data for a chart", query.Title)
		}
	}

	return result, nil
}
