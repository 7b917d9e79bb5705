package dataset

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Required columns and header validation
// ============================================================================
// Both datasets have a fixed, known schema. Validation happens once at load;
// a missing column is a hard ErrDataLoad, never a silent skip.
// ============================================================================

// State dataset column names.
const (
	colStateName  = "state"
	colHappiness  = "HappiestStatesTotalHappinessScore"
	colQOLTotal   = "QualityOfLifeTotalScore"
	colQOLEconomy = "QualityOfLifeEconomy"
	colQOLHealth  = "QualityOfLifeEducationAndHealth"
	colQOLSafety  = "QualityOfLifeSafety"
)

// County dataset column names.
const (
	colCounty       = "County"
	colCountyState  = "LSTATE"
	colPopulation   = "2022 Population"
	colUnemployment = "Unemployment"
	colCostOfLiving = "Cost of Living"
	colMedianIncome = "2022 Median Income"
	colWaterQuality = "WaterQualityVPV"
	colParkCoverage = "%CvgCityPark"
	colCrimeRate    = "2016 Crime Rate"
)

var requiredStateColumns = []string{
	colStateName, colHappiness, colQOLTotal, colQOLEconomy, colQOLHealth, colQOLSafety,
}

var requiredCountyColumns = []string{
	colCounty, colCountyState, colPopulation, colUnemployment,
	colCostOfLiving, colMedianIncome, colWaterQuality, colParkCoverage, colCrimeRate,
}

// indexColumns maps each required column name to its position in the header.
// Returns ErrDataLoad naming every missing column at once, so a bad file is
// diagnosed in a single run.
func indexColumns(header []string, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.TrimSpace(h)] = i
	}

	idx := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		pos, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = pos
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s",
			ErrDataLoad, strings.Join(missing, ", "))
	}
	return idx, nil
}
