package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateCSV = `state,HappiestStatesTotalHappinessScore,QualityOfLifeTotalScore,QualityOfLifeEconomy,QualityOfLifeEducationAndHealth,QualityOfLifeSafety
Texas,52.3,60.1,55.0,48.2,44.7
California,58.9,62.5,50.1,57.3,40.2
Nevada,47.1,51.0,46.5,42.0,39.8
`

const countyCSV = `County,LSTATE,2022 Population,Unemployment,Cost of Living,2022 Median Income,WaterQualityVPV,%CvgCityPark,2016 Crime Rate
Travis,TX,100,4%,"$42,000","$68,000",0.8,12%,0.02
Harris,TX,300,8%,"$39,500","$61,000",0.7,9%,0.03
Alameda,CA,200,2%,"$55,250","$92,000",0.9,15%,0.01
Clark,NV,50,10%,"$44,000","$58,500",0.6,7%,0.04
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadFixture(t *testing.T, state, county string) *Dataset {
	t.Helper()
	ds, err := NewLoader(zerolog.Nop()).Load(
		writeFixture(t, "states.csv", state),
		writeFixture(t, "counties.csv", county),
	)
	require.NoError(t, err)
	return ds
}

func TestLoadComputesWeightedUnemployment(t *testing.T) {
	ds := loadFixture(t, stateCSV, countyCSV)
	require.Equal(t, 3, ds.Len())

	tx, err := ds.Get("Texas")
	require.NoError(t, err)
	// (100*0.04 + 300*0.08) / 400 = 0.07
	assert.InDelta(t, 0.07, tx.UnemploymentRate, 1e-9)
	assert.Equal(t, "TX", tx.Abbrev)
	assert.InDelta(t, 52.3, tx.HappinessIndex, 1e-9)
	assert.InDelta(t, 55.0, tx.EconomicScore, 1e-9)

	ca, err := ds.Get("California")
	require.NoError(t, err)
	assert.InDelta(t, 0.02, ca.UnemploymentRate, 1e-9)
}

func TestLoadMissingStateColumnFails(t *testing.T) {
	broken := `state,QualityOfLifeTotalScore,QualityOfLifeEconomy,QualityOfLifeEducationAndHealth,QualityOfLifeSafety
Texas,60.1,55.0,48.2,44.7
`
	_, err := NewLoader(zerolog.Nop()).Load(
		writeFixture(t, "states.csv", broken),
		writeFixture(t, "counties.csv", countyCSV),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLoad)
	assert.Contains(t, err.Error(), "HappiestStatesTotalHappinessScore")
}

func TestLoadMissingCountyColumnFails(t *testing.T) {
	broken := `County,LSTATE,Unemployment,Cost of Living,2022 Median Income,WaterQualityVPV,%CvgCityPark,2016 Crime Rate
Travis,TX,4%,"$42,000","$68,000",0.8,12%,0.02
`
	_, err := NewLoader(zerolog.Nop()).Load(
		writeFixture(t, "states.csv", stateCSV),
		writeFixture(t, "counties.csv", broken),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLoad)
	assert.Contains(t, err.Error(), "2022 Population")
}

func TestLoadNonNumericMetricFails(t *testing.T) {
	broken := `state,HappiestStatesTotalHappinessScore,QualityOfLifeTotalScore,QualityOfLifeEconomy,QualityOfLifeEducationAndHealth,QualityOfLifeSafety
Texas,not-a-number,60.1,55.0,48.2,44.7
`
	_, err := NewLoader(zerolog.Nop()).Load(
		writeFixture(t, "states.csv", broken),
		writeFixture(t, "counties.csv", countyCSV),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := NewLoader(zerolog.Nop()).Load(
		filepath.Join(t.TempDir(), "does-not-exist.csv"),
		writeFixture(t, "counties.csv", countyCSV),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestLoadFillsMissingCountyUnemployment(t *testing.T) {
	county := `County,LSTATE,2022 Population,Unemployment,Cost of Living,2022 Median Income,WaterQualityVPV,%CvgCityPark,2016 Crime Rate
Travis,TX,100,4%,"$42,000","$68,000",0.8,12%,0.02
Harris,TX,100,,"$39,500","$61,000",0.7,9%,0.03
Alameda,CA,100,8%,"$55,250","$92,000",0.9,15%,0.01
`
	ds := loadFixture(t, stateCSV, county)

	// Known values are 0.04 and 0.08, so the gap fills with 0.06 and
	// TX averages (0.04 + 0.06) / 2.
	tx, err := ds.Get("Texas")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, tx.UnemploymentRate, 1e-9)
}

func TestLoadDropsRowsWithoutPopulation(t *testing.T) {
	county := `County,LSTATE,2022 Population,Unemployment,Cost of Living,2022 Median Income,WaterQualityVPV,%CvgCityPark,2016 Crime Rate
Travis,TX,100,4%,"$42,000","$68,000",0.8,12%,0.02
Ghost,TX,,9%,"$1","$1",0.1,1%,0.09
`
	ds := loadFixture(t, stateCSV, county)

	tx, err := ds.Get("Texas")
	require.NoError(t, err)
	assert.InDelta(t, 0.04, tx.UnemploymentRate, 1e-9)
	assert.Equal(t, 1, ds.CountyView().Len())
}

func TestStateWithoutCountyDataHasNaNRate(t *testing.T) {
	county := `County,LSTATE,2022 Population,Unemployment,Cost of Living,2022 Median Income,WaterQualityVPV,%CvgCityPark,2016 Crime Rate
Travis,TX,100,4%,"$42,000","$68,000",0.8,12%,0.02
`
	ds := loadFixture(t, stateCSV, county)

	nv, err := ds.Get("Nevada")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(nv.UnemploymentRate))

	// The unemployment view drops county-less states so downstream
	// queries never aggregate a NaN rate. Only Texas has county rows here.
	assert.Equal(t, 1, ds.UnemploymentView().Len())
	assert.Equal(t, 3, ds.StateView().Len())
}

func TestCoerceMetric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		nan  bool
	}{
		{"4.2%", 0.042, false},
		{"3/4", 0.75, false},
		{"0.8", 0.8, false},
		{"1,234", 1234, false},
		{"-1", 0, true},
		{"", 0, true},
		{"garbage", 0, true},
		{"1/0", 0, true},
	}

	for _, tt := range tests {
		got := coerceMetric(tt.in)
		if tt.nan {
			assert.True(t, math.IsNaN(got), "coerceMetric(%q) should be NaN", tt.in)
		} else {
			assert.InDelta(t, tt.want, got, 1e-9, "coerceMetric(%q)", tt.in)
		}
	}
}

func TestCoerceDollar(t *testing.T) {
	assert.InDelta(t, 55000, coerceDollar("$55,000"), 1e-9)
	assert.InDelta(t, 42.5, coerceDollar("42.5"), 1e-9)
	assert.True(t, math.IsNaN(coerceDollar("")))
	assert.True(t, math.IsNaN(coerceDollar("-1")))
}
