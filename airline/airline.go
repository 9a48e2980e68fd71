package airline

import (
	"context"
	"fmt"
	"time"
)

const TimeLayout string = "2006-01-02 15:04"
const DateLayout string = "2006-01-02"

// Operations is the airline backend the task executor calls into.
// Implementations own the inventory; the orchestration core never
// touches bookings directly.
type Operations interface {
	GetBooking(ctx context.Context, pnr string) (*Booking, error)
	Cancel(ctx context.Context, pnr string, reason string) (*CancelResult, error)
	AvailableSeats(ctx context.Context, query string) (*SeatAvailability, error)
	FlightStatus(ctx context.Context, pnr string) (*FlightStatus, error)
}

type NotFoundError struct {
	Kind string
	Ref  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

type BookingCancelledError struct {
	PNR string
}

func (e BookingCancelledError) Error() string {
	return fmt.Sprintf("booking %s has already been cancelled", e.PNR)
}

// Booking carries display-ready fields; templates address them through
// the api_call result key.
type Booking struct {
	PNR                string `json:"pnr"`
	FlightId           int64  `json:"flight_id"`
	Source             string `json:"source"`
	Destination        string `json:"destination"`
	ScheduledDeparture string `json:"scheduled_departure"`
	ScheduledArrival   string `json:"scheduled_arrival"`
	Seat               string `json:"seat"`
	Status             string `json:"status"`
}

type CancelResult struct {
	Message      string  `json:"message"`
	FeeAmount    float64 `json:"fee_amount"`
	Fee          string  `json:"fee"`
	RefundAmount string  `json:"refund_amount"`
	RefundDate   string  `json:"refund_date"`
}

type FlightStatus struct {
	FlightId           int64  `json:"flight_id"`
	Source             string `json:"source"`
	Destination        string `json:"destination"`
	ScheduledDeparture string `json:"scheduled_departure"`
	CurrentDeparture   string `json:"current_departure"`
	Status             string `json:"status"`
	Seat               string `json:"seat"`
}

type Seat struct {
	Row    int     `json:"row"`
	Column string  `json:"column"`
	Class  string  `json:"class"`
	Price  float64 `json:"price"`
}

type SeatAvailability struct {
	FlightId int64  `json:"flight_id"`
	Seats    []Seat `json:"seats"`
	Summary  string `json:"summary"`
}

// FeeTier applies its fare fraction when the cancellation happens more
// than MinDaysBefore full days before departure.
type FeeTier struct {
	MinDaysBefore int
	FareFraction  float64
}

type FeeSchedule []FeeTier

// DefaultFeeSchedule mirrors the published cancellation tiers: 10% when
// more than a week out, up to 75% inside the last day.
var DefaultFeeSchedule = FeeSchedule{
	{MinDaysBefore: 7, FareFraction: 0.10},
	{MinDaysBefore: 3, FareFraction: 0.25},
	{MinDaysBefore: 1, FareFraction: 0.50},
	{MinDaysBefore: 0, FareFraction: 0.75},
}

func (s FeeSchedule) Fee(fare float64, untilDeparture time.Duration) float64 {
	days := int(untilDeparture.Hours() / 24)
	for _, tier := range s {
		if days > tier.MinDaysBefore {
			return fare * tier.FareFraction
		}
	}
	if len(s) == 0 {
		return 0
	}
	return fare * s[len(s)-1].FareFraction
}
