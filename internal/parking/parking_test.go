package parking

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories() {
		assert.True(t, c.Valid())
		assert.False(t, seen[c.String()], "duplicate name %s", c)
		seen[c.String()] = true

		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	assert.Equal(t, "category(7)", Category(7).String())
	assert.False(t, Category(-1).Valid())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Private ")
	require.NoError(t, err)
	assert.Equal(t, Private, c)

	_, err = ParseCategory("prywatny")
	assert.Error(t, err)
}

func TestMarshalText(t *testing.T) {
	b, err := Paid.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "paid", string(b))

	_, err = Category(9).MarshalText()
	assert.Error(t, err)
}

func TestRecordValidate(t *testing.T) {
	assert.NoError(t, Record{Lat: 52.5, Lon: 19.6}.Validate())

	err := Record{Lat: math.NaN(), Lon: 19.6}.Validate()
	var coordErr *InvalidCoordinateError
	require.True(t, errors.As(err, &coordErr))
	assert.True(t, math.IsNaN(coordErr.Lat))

	assert.Error(t, Record{Lat: 10, Lon: 181}.Validate())
}

func TestCoordinates(t *testing.T) {
	coords := Coordinates([]Record{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})
	require.Len(t, coords, 2)
	assert.Equal(t, 3.0, coords[1].Lat)
	assert.Equal(t, 4.0, coords[1].Lon)
}
