package airline

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skydeskhq/skydesk/logger"
	"go.uber.org/zap"
)

const baseFare float64 = 500.0

var pnrPattern = regexp.MustCompile(`\b[A-Z]{2,3}[0-9]{3,4}\b`)
var routePattern = regexp.MustCompile(`(?i)\b([A-Z]{3})\s+to\s+([A-Z]{3})\b`)

// Service implements Operations on top of a SQLite inventory of
// flights, seats and bookings.
type Service struct {
	db   *sql.DB
	fees FeeSchedule
	path string
}

var _ Operations = new(Service)

// Open opens the inventory database, creating parent directories and
// enabling WAL mode for concurrent reads.
func Open(path string) (*Service, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Service{db: db, fees: DefaultFeeSchedule, path: path}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// SetFeeSchedule replaces the cancellation fee tiers. The schedule is
// collaborator-supplied data, not orchestrator logic.
func (s *Service) SetFeeSchedule(fees FeeSchedule) {
	s.fees = fees
}

// Migrate applies pending schema migrations.
func (s *Service) Migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		stmts   []string
	}{
		{
			version: 1,
			stmts: []string{
				`CREATE TABLE flights (
					flight_id INTEGER PRIMARY KEY AUTOINCREMENT,
					source TEXT NOT NULL,
					destination TEXT NOT NULL,
					scheduled_departure TEXT NOT NULL,
					scheduled_arrival TEXT NOT NULL,
					current_departure TEXT,
					current_arrival TEXT,
					status TEXT NOT NULL DEFAULT 'On Time'
				)`,
				`CREATE TABLE bookings (
					pnr TEXT PRIMARY KEY,
					flight_id INTEGER NOT NULL REFERENCES flights(flight_id),
					passenger_name TEXT,
					seat TEXT,
					status TEXT NOT NULL DEFAULT 'Confirmed',
					fare REAL NOT NULL DEFAULT 500.0
				)`,
				`CREATE TABLE seats (
					flight_id INTEGER NOT NULL REFERENCES flights(flight_id),
					row_number INTEGER NOT NULL,
					column_letter TEXT NOT NULL,
					seat_class TEXT NOT NULL,
					price REAL NOT NULL,
					is_available INTEGER NOT NULL DEFAULT 1,
					occupied_by_pnr TEXT,
					PRIMARY KEY (flight_id, row_number, column_letter)
				)`,
			},
		},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d: %w", m.version, err)
			}
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		logger.Info("applied inventory migration", zap.Int("version", m.version))
	}
	return nil
}

func (s *Service) GetBooking(ctx context.Context, pnr string) (*Booking, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT b.pnr, f.flight_id, f.source, f.destination,
			f.scheduled_departure, f.scheduled_arrival, b.seat, b.status
		FROM bookings b JOIN flights f ON f.flight_id = b.flight_id
		WHERE b.pnr = ?`, pnr)

	var b Booking
	var departure, arrival string
	err := row.Scan(&b.PNR, &b.FlightId, &b.Source, &b.Destination, &departure, &arrival, &b.Seat, &b.Status)
	if err == sql.ErrNoRows {
		return nil, NotFoundError{Kind: "booking", Ref: pnr}
	}
	if err != nil {
		return nil, err
	}
	if b.Status == "Cancelled" {
		return nil, BookingCancelledError{PNR: pnr}
	}
	b.ScheduledDeparture = displayTime(departure)
	b.ScheduledArrival = displayTime(arrival)
	return &b, nil
}

func (s *Service) Cancel(ctx context.Context, pnr string, reason string) (*CancelResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT b.flight_id, b.status, b.fare, f.scheduled_departure
		FROM bookings b JOIN flights f ON f.flight_id = b.flight_id
		WHERE b.pnr = ?`, pnr)

	var flightId int64
	var status, departure string
	var fare float64
	err := row.Scan(&flightId, &status, &fare, &departure)
	if err == sql.ErrNoRows {
		return nil, NotFoundError{Kind: "booking", Ref: pnr}
	}
	if err != nil {
		return nil, err
	}
	if status == "Cancelled" {
		return nil, BookingCancelledError{PNR: pnr}
	}

	departsAt, err := time.Parse(time.RFC3339, departure)
	if err != nil {
		return nil, fmt.Errorf("parse departure time: %w", err)
	}
	now := time.Now().UTC()
	fee := s.fees.Fee(fare, departsAt.Sub(now))
	refund := fare - fee

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE bookings SET status = 'Cancelled' WHERE pnr = ?", pnr); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE seats SET is_available = 1, occupied_by_pnr = NULL
		WHERE flight_id = ? AND occupied_by_pnr = ?`, flightId, pnr); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logger.Info("booking cancelled", zap.String("pnr", pnr), zap.String("reason", reason))

	return &CancelResult{
		Message:      "Flight Cancelled",
		FeeAmount:    fee,
		Fee:          fmt.Sprintf("%.2f", fee),
		RefundAmount: fmt.Sprintf("%.2f", refund),
		RefundDate:   now.AddDate(0, 0, 7).Format(DateLayout),
	}, nil
}

func (s *Service) FlightStatus(ctx context.Context, pnr string) (*FlightStatus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT f.flight_id, f.source, f.destination, f.scheduled_departure,
			COALESCE(f.current_departure, f.scheduled_departure), f.status, b.seat, b.status
		FROM bookings b JOIN flights f ON f.flight_id = b.flight_id
		WHERE b.pnr = ?`, pnr)

	var fs FlightStatus
	var departure, current, bookingStatus string
	err := row.Scan(&fs.FlightId, &fs.Source, &fs.Destination, &departure, &current, &fs.Status, &fs.Seat, &bookingStatus)
	if err == sql.ErrNoRows {
		return nil, NotFoundError{Kind: "booking", Ref: pnr}
	}
	if err != nil {
		return nil, err
	}
	if bookingStatus == "Cancelled" {
		return nil, BookingCancelledError{PNR: pnr}
	}
	fs.ScheduledDeparture = displayTime(departure)
	fs.CurrentDeparture = displayTime(current)
	return &fs, nil
}

func (s *Service) AvailableSeats(ctx context.Context, query string) (*SeatAvailability, error) {
	if pnr := pnrPattern.FindString(strings.ToUpper(query)); len(pnr) > 0 {
		return s.seatsByPNR(ctx, pnr)
	}
	if m := routePattern.FindStringSubmatch(query); m != nil {
		return s.seatsByRoute(ctx, strings.ToUpper(m[1]), strings.ToUpper(m[2]))
	}
	return nil, NotFoundError{Kind: "flight", Ref: query}
}

func (s *Service) seatsByPNR(ctx context.Context, pnr string) (*SeatAvailability, error) {
	booking, err := s.GetBooking(ctx, pnr)
	if err != nil {
		return nil, err
	}
	seats, err := s.openSeats(ctx, booking.FlightId)
	if err != nil {
		return nil, err
	}
	summary := fmt.Sprintf("Available seats for your flight (%s -> %s):\n\n%s\nYour current seat: %s",
		booking.Source, booking.Destination, seatListing(seats), booking.Seat)
	return &SeatAvailability{FlightId: booking.FlightId, Seats: seats, Summary: summary}, nil
}

func (s *Service) seatsByRoute(ctx context.Context, source string, destination string) (*SeatAvailability, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT flight_id, scheduled_departure FROM flights
		WHERE source LIKE ? AND destination LIKE ?
		ORDER BY scheduled_departure LIMIT 1`,
		"%"+source+"%", "%"+destination+"%")

	var flightId int64
	var departure string
	err := row.Scan(&flightId, &departure)
	if err == sql.ErrNoRows {
		return nil, NotFoundError{Kind: "flight", Ref: fmt.Sprintf("%s to %s", source, destination)}
	}
	if err != nil {
		return nil, err
	}
	seats, err := s.openSeats(ctx, flightId)
	if err != nil {
		return nil, err
	}
	summary := fmt.Sprintf("Available seats for flight %d (%s -> %s):\nDeparture: %s\n\n%s",
		flightId, source, destination, displayTime(departure), seatListing(seats))
	return &SeatAvailability{FlightId: flightId, Seats: seats, Summary: summary}, nil
}

func (s *Service) openSeats(ctx context.Context, flightId int64) ([]Seat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_number, column_letter, seat_class, price FROM seats
		WHERE flight_id = ? AND is_available = 1
		ORDER BY row_number, column_letter`, flightId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []Seat
	for rows.Next() {
		var seat Seat
		if err := rows.Scan(&seat.Row, &seat.Column, &seat.Class, &seat.Price); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func seatListing(seats []Seat) string {
	var economy, business []Seat
	for _, s := range seats {
		if s.Class == "Business" {
			business = append(business, s)
		} else {
			economy = append(economy, s)
		}
	}
	var sb strings.Builder
	writeClass := func(name string, class []Seat) {
		if len(class) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s (%d seats):\n", name, len(class))
		for i, seat := range class {
			if i == 10 {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(class)-10)
				break
			}
			fmt.Fprintf(&sb, "  - %d%s ($%.0f)\n", seat.Row, seat.Column, seat.Price)
		}
	}
	writeClass("Economy", economy)
	writeClass("Business", business)
	if sb.Len() == 0 {
		sb.WriteString("Unfortunately, there are no available seats on this flight.\n")
	}
	return sb.String()
}

func displayTime(stored string) string {
	t, err := time.Parse(time.RFC3339, stored)
	if err != nil {
		return stored
	}
	return t.Format(TimeLayout)
}
