package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchYears(t *testing.T) {
	years := SearchYears()
	require.Len(t, years, 32)
	assert.Equal(t, 2025, years[0])
	assert.Equal(t, 1994, years[len(years)-1])
}

func TestSearchFilter_Complete(t *testing.T) {
	assert.False(t, SearchFilter{}.Complete())
	assert.False(t, SearchFilter{State: "CA", Year: 2021}.Complete())
	assert.False(t, SearchFilter{State: "CA", Year: 2021, Month: 13}.Complete())
	assert.True(t, SearchFilter{State: "CA", Year: 2021, Month: 7}.Complete())
}

func TestFilterFires(t *testing.T) {
	catalog := FallbackFires()

	got := FilterFires(catalog, SearchFilter{State: "CA", Year: 2021, Month: 7})
	require.Len(t, got, 1)
	assert.Equal(t, "dixie-fire-2021", got[0].ID)

	assert.Empty(t, FilterFires(catalog, SearchFilter{State: "CA", Year: 2021, Month: 8}))

	undated := []Fire{{ID: "x", State: "OR", Year: 2021}}
	assert.Len(t, FilterFires(undated, SearchFilter{State: "OR", Year: 2021, Month: 2}), 1)
}

func TestNormalizeCatalog_YearFromStartDate(t *testing.T) {
	in := []Fire{
		{ID: "a", Year: 1999, StartDate: "2020-08-16"},
		{ID: "b", Year: 2017},
		{ID: "c", Year: 2015, StartDate: "garbage"},
		{ID: "d", StartDate: "2022-04-06T00:00:00Z"},
	}
	out := NormalizeCatalog(in)

	assert.Equal(t, 2020, out[0].Year)
	assert.Equal(t, 2017, out[1].Year)
	assert.Equal(t, 2015, out[2].Year)
	assert.Equal(t, 2022, out[3].Year)
	assert.Equal(t, 1999, in[0].Year, "input untouched")
}

func TestFireOrDefault(t *testing.T) {
	catalog := FallbackFires()
	assert.Equal(t, "maui-fire-2023", FireOrDefault(catalog, "maui-fire-2023").ID)
	assert.Equal(t, "camp-fire-2018", FireOrDefault(catalog, "nope").ID)
	assert.Equal(t, "camp-fire-2018", FireOrDefault(nil, "nope").ID)
}

func TestLatLngJSON(t *testing.T) {
	data, err := json.Marshal(LatLng{Lat: 39.73, Lng: -121.6})
	require.NoError(t, err)
	assert.JSONEq(t, `[39.73,-121.6]`, string(data))

	var p LatLng
	require.NoError(t, json.Unmarshal([]byte(`[20.88,-156.68]`), &p))
	assert.Equal(t, LatLng{Lat: 20.88, Lng: -156.68}, p)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"lat":1}`), &p))
}
