package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
)

type passengerRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	PassportNumber string    `db:"passport_number"`
	Role           string    `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const passengerColumns = `id, name, email, phone, passport_number, role, created_at, updated_at`

type PassengerRepository struct{ db *sqlx.DB }

func NewPassengerRepository(db *sqlx.DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

func (r *PassengerRepository) Create(ctx context.Context, p *passenger.Passenger) error {
	query := `INSERT INTO passengers (id, name, email, phone, passport_number, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Email, p.Phone,
		p.PassportNumber, string(p.Role), p.CreatedAt, p.UpdatedAt); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return passenger.ErrEmailTaken
		}
		return fmt.Errorf("搭乗者作成に失敗: %w", err)
	}
	return nil
}

func (r *PassengerRepository) GetByID(ctx context.Context, id string) (*passenger.Passenger, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *PassengerRepository) GetByEmail(ctx context.Context, email string) (*passenger.Passenger, error) {
	return r.getWhere(ctx, "email = $1", email)
}

func (r *PassengerRepository) getWhere(ctx context.Context, where string, arg any) (*passenger.Passenger, error) {
	var row passengerRow
	query := fmt.Sprintf(`SELECT %s FROM passengers WHERE %s`, passengerColumns, where)
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, passenger.ErrPassengerNotFound
		}
		return nil, fmt.Errorf("搭乗者取得に失敗: %w", err)
	}
	return &passenger.Passenger{
		ID: row.ID, Name: row.Name, Email: row.Email, Phone: row.Phone,
		PassportNumber: row.PassportNumber, Role: passenger.Role(row.Role),
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *PassengerRepository) Update(ctx context.Context, p *passenger.Passenger) error {
	query := `UPDATE passengers SET name = $1, email = $2, phone = $3, passport_number = $4, role = $5, updated_at = $6 WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Email, p.Phone,
		p.PassportNumber, string(p.Role), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("搭乗者更新に失敗: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return passenger.ErrPassengerNotFound
	}
	return nil
}

var _ passenger.Repository = (*PassengerRepository)(nil)
