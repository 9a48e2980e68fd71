package intent

import (
	"context"
	"testing"

	"github.com/skydeskhq/skydesk/catalog"
	"github.com/stretchr/testify/require"
)

func TestKeywordResolver(t *testing.T) {
	resolver := NewKeywordResolver()

	for scenario, tc := range map[string]struct {
		utterance     string
		requestTypeId string
		pnr           string
	}{
		"cancel with pnr":         {"I want to cancel booking ABC123", catalog.REQUEST_TYPE_CANCEL_TRIP, "ABC123"},
		"cancel without pnr":      {"cancel my trip please", catalog.REQUEST_TYPE_CANCEL_TRIP, ""},
		"cancellation fee":        {"what is the fee if I cancel?", catalog.REQUEST_TYPE_CANCELLATION_POLICY, ""},
		"flight status":           {"is my flight on time?", catalog.REQUEST_TYPE_FLIGHT_STATUS, ""},
		"flight status with pnr":  {"status of DEF456", catalog.REQUEST_TYPE_FLIGHT_STATUS, "DEF456"},
		"seat availability":       {"any seats left on the JFK to LAX flight", catalog.REQUEST_TYPE_SEAT_AVAILABILITY, ""},
		"pet travel":              {"can I bring my dog on board", catalog.REQUEST_TYPE_PET_TRAVEL, ""},
		"baggage policy":          {"how much does overweight luggage cost", catalog.REQUEST_TYPE_BAGGAGE_POLICY, ""},
		"bare policy question":    {"what is your policy on changes", catalog.REQUEST_TYPE_CANCELLATION_POLICY, ""},
		"courtesy reply":          {"thanks", catalog.REQUEST_TYPE_GENERAL_INQUIRY, ""},
	} {
		t.Run(scenario, func(t *testing.T) {
			res, err := resolver.Resolve(context.Background(), tc.utterance, nil)
			require.NoError(t, err)
			require.Equal(t, tc.requestTypeId, res.RequestTypeId)
			if len(tc.pnr) > 0 {
				require.Equal(t, tc.pnr, res.Entities["pnr"])
			} else {
				require.NotContains(t, res.Entities, "pnr")
			}
		})
	}
}

func TestKeywordResolverNoMatch(t *testing.T) {
	resolver := NewKeywordResolver()
	for _, utterance := range []string{"asdkjh", "tell me about the weather", ""} {
		_, err := resolver.Resolve(context.Background(), utterance, nil)
		require.ErrorIs(t, err, ErrNoMatch)
	}
}

func TestIsSimpleReply(t *testing.T) {
	require.True(t, IsSimpleReply("thanks"))
	require.True(t, IsSimpleReply("  No Thanks "))
	require.True(t, IsSimpleReply("bye"))
	require.False(t, IsSimpleReply("cancel my trip"))
	require.False(t, IsSimpleReply("what about my bag"))
}

func TestExtractPNR(t *testing.T) {
	require.Equal(t, "ABC123", ExtractPNR("my reference is abc123"))
	require.Equal(t, "JKL012", ExtractPNR("JKL012"))
	require.Equal(t, "", ExtractPNR("no reference here"))
}
