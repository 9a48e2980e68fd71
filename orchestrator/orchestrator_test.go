package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skydeskhq/skydesk/airline"
	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/executor"
	"github.com/skydeskhq/skydesk/intent"
	"github.com/skydeskhq/skydesk/model"
	"github.com/skydeskhq/skydesk/policy"
	"github.com/skydeskhq/skydesk/session"
	"github.com/stretchr/testify/require"
)

type fakeAirline struct {
	bookings   map[string]*airline.Booking
	failCancel bool
}

func newFakeAirline() *fakeAirline {
	return &fakeAirline{
		bookings: map[string]*airline.Booking{
			"ABC123": {
				PNR:                "ABC123",
				FlightId:           101,
				Source:             "JFK",
				Destination:        "LAX",
				ScheduledDeparture: "2026-09-04 08:00",
				ScheduledArrival:   "2026-09-04 11:30",
				Seat:               "12A",
				Status:             "Confirmed",
			},
		},
	}
}

func (f *fakeAirline) GetBooking(ctx context.Context, pnr string) (*airline.Booking, error) {
	b, ok := f.bookings[pnr]
	if !ok {
		return nil, airline.NotFoundError{Kind: "booking", Ref: pnr}
	}
	return b, nil
}

func (f *fakeAirline) Cancel(ctx context.Context, pnr string, reason string) (*airline.CancelResult, error) {
	if f.failCancel {
		return nil, errors.New("connection refused")
	}
	if _, ok := f.bookings[pnr]; !ok {
		return nil, airline.NotFoundError{Kind: "booking", Ref: pnr}
	}
	return &airline.CancelResult{
		Message:      "Your booking ABC123 has been cancelled.",
		FeeAmount:    50,
		Fee:          "50.00",
		RefundAmount: "450.00",
		RefundDate:   "2026-09-06",
	}, nil
}

func (f *fakeAirline) AvailableSeats(ctx context.Context, query string) (*airline.SeatAvailability, error) {
	return &airline.SeatAvailability{FlightId: 101, Summary: "Flight 101 has 12 seats available."}, nil
}

func (f *fakeAirline) FlightStatus(ctx context.Context, pnr string) (*airline.FlightStatus, error) {
	if _, ok := f.bookings[pnr]; !ok {
		return nil, airline.NotFoundError{Kind: "booking", Ref: pnr}
	}
	return &airline.FlightStatus{
		FlightId:           101,
		Source:             "JFK",
		Destination:        "LAX",
		ScheduledDeparture: "2026-09-04 08:00",
		CurrentDeparture:   "2026-09-04 08:00",
		Status:             "On Time",
		Seat:               "12A",
	}, nil
}

func newOrchestrator(t *testing.T, ops airline.Operations) *Orchestrator {
	cat := catalog.NewService(catalog.NewInMemoryStorage())
	require.NoError(t, catalog.Seed(cat))

	policies := policy.NewInMemoryStore()
	require.NoError(t, policy.SeedDefaults(context.Background(), policies))

	exec := executor.New(ops, policies, executor.DefaultMaxStepsPerTurn, time.Second)
	return New(session.NewInMemoryStore(), cat, intent.NewChain(intent.NewKeywordResolver()), exec)
}

func TestOrchestrator(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"test cancel trip conversation":     testCancelTripConversation,
		"test cancel with pnr in query":     testCancelWithPnrInQuery,
		"test declined cancellation":        testDeclinedCancellation,
		"test clarification loop":           testClarificationLoop,
		"test retry after upstream failure": testRetryAfterUpstreamFailure,
		"test wrong pnr reprompts":          testWrongPnrReprompts,
		"test policy question":              testPolicyQuestion,
		"test courtesy close":               testCourtesyClose,
		"test followup after completion":    testFollowupAfterCompletion,
		"test history":                      testHistory,
		"test unknown session":              testUnknownSession,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}

func testCancelTripConversation(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "I want to cancel my trip", "")
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionId)
	require.True(t, res.NeedsInput)
	require.Contains(t, res.Text, "PNR")

	res, err = o.SubmitInput(ctx, res.SessionId, "ABC123")
	require.NoError(t, err)
	require.True(t, res.NeedsInput)
	require.Equal(t, "confirmation", res.InputType)
	require.Contains(t, res.Text, "JFK")
	require.Contains(t, res.Text, "LAX")
	require.Contains(t, res.Text, "12A")

	res, err = o.SubmitInput(ctx, res.SessionId, "yes")
	require.NoError(t, err)
	require.False(t, res.NeedsInput)
	require.Contains(t, res.Text, "has been cancelled")
	require.Contains(t, res.Text, "$50.00")
	require.Contains(t, res.Text, "$450.00")
}

func testCancelWithPnrInQuery(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	// the extracted pnr entity skips the collection prompt entirely
	res, err := o.SubmitQuery(ctx, "cancel my booking ABC123", "")
	require.NoError(t, err)
	require.True(t, res.NeedsInput)
	require.Equal(t, "confirmation", res.InputType)
}

func testDeclinedCancellation(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "cancel my booking ABC123", "")
	require.NoError(t, err)
	require.True(t, res.NeedsInput)

	res, err = o.SubmitInput(ctx, res.SessionId, "no")
	require.NoError(t, err)
	require.False(t, res.NeedsInput)
	require.Contains(t, res.Text, "Cancellation cancelled")
}

func testClarificationLoop(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "asdkjh", "")
	require.NoError(t, err)
	require.Contains(t, res.Text, "didn't quite get that")
	require.False(t, res.NeedsInput)

	// the session stays usable; the next message resolves normally
	res, err = o.SubmitQuery(ctx, "what is the status of my flight DEF456", res.SessionId)
	require.NoError(t, err)
	require.Contains(t, res.Text, "verify your booking reference")
}

func testRetryAfterUpstreamFailure(t *testing.T) {
	ops := newFakeAirline()
	o := newOrchestrator(t, ops)
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "cancel my booking ABC123", "")
	require.NoError(t, err)
	require.True(t, res.NeedsInput)
	sessionId := res.SessionId

	ops.failCancel = true
	res, err = o.SubmitInput(ctx, sessionId, "yes")
	require.NoError(t, err)
	require.Contains(t, res.Text, "error processing your cancellation")

	// same session, operation succeeds on the next attempt
	ops.failCancel = false
	res, err = o.SubmitQuery(ctx, "please try again", sessionId)
	require.NoError(t, err)
	require.Contains(t, res.Text, "has been cancelled")
}

func testWrongPnrReprompts(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "cancel my trip", "")
	require.NoError(t, err)
	require.True(t, res.NeedsInput)

	res, err = o.SubmitInput(ctx, res.SessionId, "ZZZ999")
	require.NoError(t, err)
	require.True(t, res.NeedsInput)
	require.Contains(t, res.Text, "ZZZ999")
	require.Contains(t, res.Text, "verify")

	res, err = o.SubmitInput(ctx, res.SessionId, "ABC123")
	require.NoError(t, err)
	require.Equal(t, "confirmation", res.InputType)
}

func testPolicyQuestion(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "can I travel with my dog?", "")
	require.NoError(t, err)
	require.False(t, res.NeedsInput)
	require.Contains(t, res.Text, "Pet")
}

func testCourtesyClose(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "baggage allowance?", "")
	require.NoError(t, err)
	sessionId := res.SessionId

	res, err = o.SubmitQuery(ctx, "thanks", sessionId)
	require.NoError(t, err)
	require.Contains(t, res.Text, "You're welcome")

	res, err = o.SubmitQuery(ctx, "bye", sessionId)
	require.NoError(t, err)
	require.Contains(t, res.Text, "Goodbye")
}

func testFollowupAfterCompletion(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "baggage allowance?", "")
	require.NoError(t, err)
	sessionId := res.SessionId

	// a completed session picks up a fresh request type on the next query
	res, err = o.SubmitQuery(ctx, "what is the status of flight ABC123", sessionId)
	require.NoError(t, err)
	require.Contains(t, res.Text, "On Time")
}

func testHistory(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	ctx := context.Background()

	res, err := o.SubmitQuery(ctx, "cancel my trip", "")
	require.NoError(t, err)

	history, err := o.History(ctx, res.SessionId)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, model.SENDER_USER, history[0].Sender)
	require.Equal(t, "cancel my trip", history[0].Text)
	require.Equal(t, model.SENDER_SYSTEM, history[1].Sender)
	require.True(t, history[1].NeedsInput)

	// reading history does not mutate the session
	again, err := o.History(ctx, res.SessionId)
	require.NoError(t, err)
	require.Len(t, again, 2)
}

func testUnknownSession(t *testing.T) {
	o := newOrchestrator(t, newFakeAirline())
	_, err := o.SubmitInput(context.Background(), "missing", "yes")
	require.Error(t, err)
	_, ok := err.(session.SessionNotFoundError)
	require.True(t, ok)
}
