package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationIndex_CityCountryCreatesThreeKeys(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Kyoto, Japan", 0)

	for _, key := range []string{"Kyoto, Japan", "Kyoto", "Japan"} {
		refs, ok := ix.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, []int{0}, refs, key)
	}
	assert.Equal(t, 3, ix.Len())
}

func TestLocationIndex_CountryWinsAndCityGoesStale(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Kyoto, Japan", 0)
	ix.Add("Osaka, Japan", 1)
	ix.Add("Kyoto, Japan", 2)

	japan, ok := ix.Lookup("Japan")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, japan)

	kyoto, ok := ix.Lookup("Kyoto")
	require.True(t, ok)
	assert.Equal(t, []int{0}, kyoto, "city key is not updated once the country exists")
	assert.True(t, CityIndexMayBeStale)

	_, ok = ix.Lookup("Osaka")
	assert.False(t, ok, "city is never created when the country already exists")

	full, ok := ix.Lookup("Kyoto, Japan")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, full, "full descriptor accumulates")
}

func TestLocationIndex_CityFallback(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Honshu", 0)
	ix.Add("Honshu, Japan", 1)

	honshu, ok := ix.Lookup("Honshu")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, honshu)

	_, ok = ix.Lookup("Japan")
	assert.False(t, ok, "country is not created when the city already exists")
}

func TestLocationIndex_BareDescriptorFiledOnce(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Fiji region", 0)
	ix.Add("Fiji region", 1)

	refs, ok := ix.Lookup("Fiji region")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, refs)
	assert.Equal(t, 1, ix.Len())
}

func TestLocationIndex_SplitsOnFirstSeparator(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Ridgecrest, California, USA", 0)

	_, ok := ix.Lookup("Ridgecrest")
	assert.True(t, ok)
	_, ok = ix.Lookup("California, USA")
	assert.True(t, ok)
	_, ok = ix.Lookup("USA")
	assert.False(t, ok)
}

func TestLocationIndex_LookupMiss(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Kyoto, Japan", 0)

	refs, ok := ix.Lookup("Nowhereland")
	assert.False(t, ok)
	assert.Nil(t, refs)

	_, ok = ix.Lookup("japan")
	assert.False(t, ok, "lookup is case sensitive")
}

func TestLocationIndex_LookupReturnsCopy(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Lima, Peru", 0)

	refs, _ := ix.Lookup("Peru")
	refs[0] = 99

	again, _ := ix.Lookup("Peru")
	assert.Equal(t, []int{0}, again)
}

func TestLocationIndex_Keys(t *testing.T) {
	ix := NewLocationIndex()
	ix.Add("Lima, Peru", 0)
	ix.Add("Fiji region", 1)

	assert.Equal(t, []string{"Fiji region", "Lima", "Lima, Peru", "Peru"}, ix.Keys())
}
