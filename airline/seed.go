package airline

import (
	"fmt"
	"time"

	"github.com/skydeskhq/skydesk/logger"
	"go.uber.org/zap"
)

type seedFlight struct {
	source      string
	destination string
	departure   time.Duration
	duration    time.Duration
	status      string
	delay       time.Duration
	rows        int
	columns     int
}

type seedBooking struct {
	pnr         string
	flightIndex int
	passenger   string
	seat        string
}

// Seed fills an empty inventory with demonstration flights, seats and
// bookings. Departures are relative to now so the cancellation fee
// tiers stay exercised.
func (s *Service) Seed() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM flights").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	flights := []seedFlight{
		{source: "JFK", destination: "LAX", departure: 5*24*time.Hour + 8*time.Hour, duration: 6 * time.Hour, status: "On Time", rows: 30, columns: 6},
		{source: "BOS", destination: "SFO", departure: 3*24*time.Hour + 10*time.Hour, duration: 6*time.Hour + 30*time.Minute, status: "On Time", rows: 25, columns: 6},
		{source: "ORD", destination: "MIA", departure: 7*24*time.Hour + 14*time.Hour, duration: 3*time.Hour + 45*time.Minute, status: "On Time", rows: 28, columns: 6},
		{source: "SEA", destination: "JFK", departure: 2*24*time.Hour + 6*time.Hour, duration: 8*time.Hour + 20*time.Minute, status: "Delayed", delay: 90 * time.Minute, rows: 32, columns: 6},
	}
	bookings := []seedBooking{
		{pnr: "ABC123", flightIndex: 0, passenger: "John Doe", seat: "12A"},
		{pnr: "DEF456", flightIndex: 1, passenger: "Jane Smith", seat: "8C"},
		{pnr: "GHI789", flightIndex: 2, passenger: "Bob Johnson", seat: "15F"},
		{pnr: "JKL012", flightIndex: 3, passenger: "Alice Williams", seat: "3B"},
	}

	now := time.Now().UTC()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	flightIds := make([]int64, len(flights))
	for i, f := range flights {
		departs := now.Add(f.departure)
		arrives := departs.Add(f.duration)
		var current any
		if f.delay > 0 {
			current = departs.Add(f.delay).Format(time.RFC3339)
		}
		res, err := tx.Exec(`
			INSERT INTO flights (source, destination, scheduled_departure, scheduled_arrival, current_departure, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			f.source, f.destination, departs.Format(time.RFC3339), arrives.Format(time.RFC3339), current, f.status)
		if err != nil {
			return err
		}
		flightIds[i], err = res.LastInsertId()
		if err != nil {
			return err
		}
	}

	occupied := make(map[string]string)
	for _, b := range bookings {
		if _, err := tx.Exec(`
			INSERT INTO bookings (pnr, flight_id, passenger_name, seat, status, fare)
			VALUES (?, ?, ?, ?, 'Confirmed', ?)`,
			b.pnr, flightIds[b.flightIndex], b.passenger, b.seat, baseFare); err != nil {
			return err
		}
		occupied[fmt.Sprintf("%d:%s", flightIds[b.flightIndex], b.seat)] = b.pnr
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	for i, f := range flights {
		for row := 1; row <= f.rows; row++ {
			seatClass, price := "Economy", 150.0
			if row <= 3 {
				seatClass, price = "Business", 500.0
			}
			for _, col := range columns[:f.columns] {
				pnr, taken := occupied[fmt.Sprintf("%d:%d%s", flightIds[i], row, col)]
				var occupiedBy any
				if taken {
					occupiedBy = pnr
				}
				if _, err := tx.Exec(`
					INSERT INTO seats (flight_id, row_number, column_letter, seat_class, price, is_available, occupied_by_pnr)
					VALUES (?, ?, ?, ?, ?, ?, ?)`,
					flightIds[i], row, col, seatClass, price, !taken, occupiedBy); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Info("seeded airline inventory",
		zap.Int("flights", len(flights)), zap.Int("bookings", len(bookings)))
	return nil
}
