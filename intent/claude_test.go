package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResolution(t *testing.T) {
	known := map[string]bool{"cancel-trip": true, "flight-status": true}

	for scenario, fn := range map[string]func(t *testing.T){
		"test id only": func(t *testing.T) {
			res, err := parseResolution("cancel-trip", known)
			require.NoError(t, err)
			require.Equal(t, "cancel-trip", res.RequestTypeId)
			require.Empty(t, res.Entities)
		},
		"test id with entities": func(t *testing.T) {
			res, err := parseResolution("flight-status\npnr: ABC123\n", known)
			require.NoError(t, err)
			require.Equal(t, "flight-status", res.RequestTypeId)
			require.Equal(t, "ABC123", res.Entities["pnr"])
		},
		"test none": func(t *testing.T) {
			_, err := parseResolution("NONE", known)
			require.ErrorIs(t, err, ErrNoMatch)
		},
		"test unknown id": func(t *testing.T) {
			_, err := parseResolution("book-a-yacht", known)
			require.ErrorIs(t, err, ErrNoMatch)
		},
		"test empty": func(t *testing.T) {
			_, err := parseResolution("", known)
			require.ErrorIs(t, err, ErrNoMatch)
		},
		"test surrounding whitespace": func(t *testing.T) {
			res, err := parseResolution("  cancel-trip  \n  PNR : DEF456  ", known)
			require.NoError(t, err)
			require.Equal(t, "cancel-trip", res.RequestTypeId)
			require.Equal(t, "DEF456", res.Entities["pnr"])
		},
	} {
		t.Run(scenario, fn)
	}
}
