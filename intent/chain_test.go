package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/skydeskhq/skydesk/model"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	name string
	res  *Resolution
	err  error
}

func (s *stubResolver) Name() string { return s.name }

func (s *stubResolver) Resolve(ctx context.Context, utterance string, sess *model.Session) (*Resolution, error) {
	return s.res, s.err
}

func TestChain(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"test first match wins":            testFirstMatchWins,
		"test no match falls through":      testNoMatchFallsThrough,
		"test resolver error falls through": testResolverErrorFallsThrough,
		"test all empty reports no match":  testAllEmptyReportsNoMatch,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}

func testFirstMatchWins(t *testing.T) {
	chain := NewChain(
		&stubResolver{name: "first", res: &Resolution{RequestTypeId: "cancel-trip"}},
		&stubResolver{name: "second", res: &Resolution{RequestTypeId: "flight-status"}},
	)
	res, err := chain.Resolve(context.Background(), "cancel my trip", nil)
	require.NoError(t, err)
	require.Equal(t, "cancel-trip", res.RequestTypeId)
}

func testNoMatchFallsThrough(t *testing.T) {
	chain := NewChain(
		&stubResolver{name: "first", err: ErrNoMatch},
		&stubResolver{name: "second", res: &Resolution{RequestTypeId: "flight-status"}},
	)
	res, err := chain.Resolve(context.Background(), "is it on time", nil)
	require.NoError(t, err)
	require.Equal(t, "flight-status", res.RequestTypeId)
}

func testResolverErrorFallsThrough(t *testing.T) {
	chain := NewChain(
		&stubResolver{name: "first", err: errors.New("adapter unavailable")},
		&stubResolver{name: "second", res: &Resolution{RequestTypeId: "baggage-policy"}},
	)
	res, err := chain.Resolve(context.Background(), "baggage", nil)
	require.NoError(t, err)
	require.Equal(t, "baggage-policy", res.RequestTypeId)
}

func testAllEmptyReportsNoMatch(t *testing.T) {
	chain := NewChain(
		&stubResolver{name: "first", err: ErrNoMatch},
		&stubResolver{name: "second", err: errors.New("adapter unavailable")},
	)
	_, err := chain.Resolve(context.Background(), "asdkjh", nil)
	require.ErrorIs(t, err, ErrNoMatch)
}
