package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionData() map[string]any {
	return map[string]any{
		"collected": map[string]any{
			"pnr": "ABC123",
		},
		"results": map[string]any{
			"booking": map[string]any{
				"flight_id":   "SD101",
				"source":      "JFK",
				"destination": "LAX",
			},
			"cancellation": map[string]any{
				"fee":    "$50.00",
				"refund": "$450.00",
			},
		},
	}
}

func TestResolveTokens(t *testing.T) {
	for scenario, tc := range map[string]struct {
		template string
		want     string
	}{
		"collected field":    {"Booking {$.collected.pnr}", "Booking ABC123"},
		"nested result":      {"Flight {$.results.booking.flight_id} from {$.results.booking.source} to {$.results.booking.destination}", "Flight SD101 from JFK to LAX"},
		"multiple tokens":    {"Fee {$.results.cancellation.fee}, refund {$.results.cancellation.refund}.", "Fee $50.00, refund $450.00."},
		"unresolvable token": {"Seat {$.results.booking.seat} assigned", "Seat  assigned"},
		"no tokens":          {"Anything else I can help with?", "Anything else I can help with?"},
		"non path braces":    {"literal {braces} stay", "literal {braces} stay"},
	} {
		t.Run(scenario, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveTokens(sessionData(), tc.template))
		})
	}
}

func TestResolveParams(t *testing.T) {
	params := map[string]any{
		"pnr":   "{$.collected.pnr}",
		"limit": 10,
		"nested": map[string]any{
			"flight": "{$.results.booking.flight_id}",
		},
		"list": []any{"{$.collected.pnr}", "static"},
	}
	out := ResolveParams(sessionData(), params)
	require.Equal(t, "ABC123", out["pnr"])
	require.Equal(t, 10, out["limit"])
	require.Equal(t, "SD101", out["nested"].(map[string]any)["flight"])
	require.Equal(t, []any{"ABC123", "static"}, out["list"])
}
