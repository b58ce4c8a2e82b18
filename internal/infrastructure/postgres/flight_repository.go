package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
)

type flightRow struct {
	ID             string    `db:"id"`
	FlightNumber   string    `db:"flight_number"`
	Origin         string    `db:"origin"`
	Destination    string    `db:"destination"`
	DepartureTime  time.Time `db:"departure_time"`
	ArrivalTime    time.Time `db:"arrival_time"`
	AircraftType   string    `db:"aircraft_type"`
	Gate           string    `db:"gate"`
	TotalSeats     int       `db:"total_seats"`
	AvailableSeats int       `db:"available_seats"`
	Status         string    `db:"status"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const flightColumns = `id, flight_number, origin, destination, departure_time, arrival_time, aircraft_type, gate, total_seats, available_seats, status, version, created_at, updated_at`

// FlightRepository はPostgreSQLバックエンドのフライトリポジトリ
// 運賃表はflight_prices、使用中座席はflight_seatsに正規化して保持する
type FlightRepository struct{ db *sqlx.DB }

func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) Create(ctx context.Context, f *flight.Flight) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO flights (id, flight_number, origin, destination, departure_time, arrival_time, aircraft_type, gate, total_seats, available_seats, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := tx.ExecContext(ctx, query, f.ID, f.FlightNumber, f.Origin, f.Destination,
		f.DepartureTime, f.ArrivalTime, f.AircraftType, f.Gate,
		f.TotalSeats, f.AvailableSeats, string(f.Status), f.Version, f.CreatedAt, f.UpdatedAt); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return flight.ErrFlightNumberTaken
		}
		return fmt.Errorf("フライト作成に失敗: %w", err)
	}

	for class, price := range f.ClassPrices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flight_prices (flight_id, travel_class, price_cents) VALUES ($1, $2, $3)`,
			f.ID, string(class), price); err != nil {
			return fmt.Errorf("運賃登録に失敗: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id string) (*flight.Flight, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *FlightRepository) GetByNumber(ctx context.Context, flightNumber string) (*flight.Flight, error) {
	return r.getWhere(ctx, "flight_number = $1", flightNumber)
}

func (r *FlightRepository) getWhere(ctx context.Context, where string, arg any) (*flight.Flight, error) {
	var row flightRow
	query := fmt.Sprintf(`SELECT %s FROM flights WHERE %s`, flightColumns, where)
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, flight.ErrFlightNotFound
		}
		return nil, fmt.Errorf("フライト取得に失敗: %w", err)
	}
	return r.loadDetails(ctx, &row)
}

func (r *FlightRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]*flight.Flight, error) {
	query := fmt.Sprintf(`SELECT %s FROM flights
		WHERE origin = $1 AND destination = $2 AND status = 'SCHEDULED' AND available_seats > 0`, flightColumns)
	args := []any{origin, destination}
	if !date.IsZero() {
		query += ` AND departure_time >= $3 AND departure_time < $4`
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
	}
	query += ` ORDER BY departure_time`

	var rows []flightRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("フライト検索に失敗: %w", err)
	}
	return r.loadAll(ctx, rows)
}

func (r *FlightRepository) List(ctx context.Context, limit, offset int) ([]*flight.Flight, error) {
	var rows []flightRow
	query := fmt.Sprintf(`SELECT %s FROM flights ORDER BY flight_number LIMIT $1 OFFSET $2`, flightColumns)
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("フライト一覧取得に失敗: %w", err)
	}
	return r.loadAll(ctx, rows)
}

// Update はフライトを更新する
// versionカラムによる楽観的ロックで、同時更新の一方は競合エラーになる
func (r *FlightRepository) Update(ctx context.Context, f *flight.Flight) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE flights SET origin = $1, destination = $2, departure_time = $3, arrival_time = $4,
		aircraft_type = $5, gate = $6, available_seats = $7, status = $8, version = version + 1, updated_at = $9
		WHERE id = $10 AND version = $11`
	result, err := tx.ExecContext(ctx, query, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime,
		f.AircraftType, f.Gate, f.AvailableSeats, string(f.Status), f.UpdatedAt, f.ID, f.Version)
	if err != nil {
		return fmt.Errorf("フライト更新に失敗: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM flights WHERE id = $1)`, f.ID); err != nil {
			return fmt.Errorf("フライト更新に失敗: %w", err)
		}
		if !exists {
			return flight.ErrFlightNotFound
		}
		return flight.ErrOptimisticLockConflict
	}

	// 使用中座席は全置換
	if _, err := tx.ExecContext(ctx, `DELETE FROM flight_seats WHERE flight_id = $1`, f.ID); err != nil {
		return fmt.Errorf("座席情報の更新に失敗: %w", err)
	}
	for seatNumber := range f.OccupiedSeats {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flight_seats (flight_id, seat_number) VALUES ($1, $2)`, f.ID, seatNumber); err != nil {
			return fmt.Errorf("座席情報の更新に失敗: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	f.Version++
	return nil
}

func (r *FlightRepository) loadAll(ctx context.Context, rows []flightRow) ([]*flight.Flight, error) {
	result := make([]*flight.Flight, len(rows))
	for i := range rows {
		f, err := r.loadDetails(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		result[i] = f
	}
	return result, nil
}

func (r *FlightRepository) loadDetails(ctx context.Context, row *flightRow) (*flight.Flight, error) {
	type priceRow struct {
		TravelClass string `db:"travel_class"`
		PriceCents  int64  `db:"price_cents"`
	}
	var prices []priceRow
	if err := r.db.SelectContext(ctx, &prices,
		`SELECT travel_class, price_cents FROM flight_prices WHERE flight_id = $1`, row.ID); err != nil {
		return nil, fmt.Errorf("運賃取得に失敗: %w", err)
	}

	var seatNumbers []string
	if err := r.db.SelectContext(ctx, &seatNumbers,
		`SELECT seat_number FROM flight_seats WHERE flight_id = $1`, row.ID); err != nil {
		return nil, fmt.Errorf("座席情報取得に失敗: %w", err)
	}

	classPrices := make(map[flight.TravelClass]int64, len(prices))
	for _, p := range prices {
		classPrices[flight.TravelClass(p.TravelClass)] = p.PriceCents
	}
	occupied := make(map[string]bool, len(seatNumbers))
	for _, s := range seatNumbers {
		occupied[s] = true
	}

	return &flight.Flight{
		ID: row.ID, FlightNumber: row.FlightNumber,
		Origin: row.Origin, Destination: row.Destination,
		DepartureTime: row.DepartureTime, ArrivalTime: row.ArrivalTime,
		AircraftType: row.AircraftType, Gate: row.Gate,
		TotalSeats: row.TotalSeats, AvailableSeats: row.AvailableSeats,
		ClassPrices: classPrices, Status: flight.Status(row.Status),
		OccupiedSeats: occupied, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		Version: row.Version,
	}, nil
}

var _ flight.Repository = (*FlightRepository)(nil)
