package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vroomauto/marketplace/internal/domain"
)

// AppointmentRepo defines the persistence operations for bookings.
type AppointmentRepo interface {
	// Create inserts a new appointment and returns the persisted record
	// (with DB-generated id and created_at populated).
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}

// pgAppointmentRepo is the Postgres implementation of AppointmentRepo.
type pgAppointmentRepo struct {
	db db
}

// NewAppointmentRepo constructs an AppointmentRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewAppointmentRepo(db db) AppointmentRepo {
	return &pgAppointmentRepo{db: db}
}

func (r *pgAppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	const q = `
		INSERT INTO appointments (appointment_date, start_time, duration_minutes, vroomer, name, email, phone, message)
		VALUES (@appointment_date, @start_time, @duration_minutes, @vroomer, @name, @email, @phone, @message)
		RETURNING id, appointment_date, start_time, duration_minutes, vroomer, name, email, phone, message, created_at`

	args := pgx.NamedArgs{
		"appointment_date": appt.Date,
		"start_time":       appt.StartTime,
		"duration_minutes": appt.DurationMinutes,
		"vroomer":          appt.Vroomer,
		"name":             appt.Name,
		"email":            appt.Email,
		"phone":            nullable(appt.Phone),
		"message":          nullable(appt.Message),
	}

	var (
		result domain.Appointment
		id     pgtype.UUID
		date   pgtype.Date
		phone  pgtype.Text
		msg    pgtype.Text
	)
	err := r.db.QueryRow(ctx, q, args).Scan(
		&id, &date, &result.StartTime, &result.DurationMinutes, &result.Vroomer,
		&result.Name, &result.Email, &phone, &msg, &result.CreatedAt,
	)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("repo.AppointmentRepo.Create: %w", err)
	}

	result.ID = uuid.UUID(id.Bytes)
	result.Date = date.Time
	result.Phone = phone.String
	result.Message = msg.String
	return result, nil
}
