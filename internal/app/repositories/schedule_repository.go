package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/dberrors"
)

// ScheduleRepository handles rooms and weekly schedule slots
type ScheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateRoom stores a new room
func (r *ScheduleRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (tenant_id, code, building, capacity, kind)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		room.TenantID, room.Code, room.Building, room.Capacity, room.Kind,
	).Scan(&room.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "rooms_tenant_id_code_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating room: %w", err)
	}

	return nil
}

// GetRoomByID retrieves a room by ID within a tenant
func (r *ScheduleRepository) GetRoomByID(ctx context.Context, tenantID, id int64) (*models.Room, error) {
	query := `SELECT id, tenant_id, code, building, capacity, kind FROM rooms WHERE tenant_id = $1 AND id = $2`

	var room models.Room
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&room.ID, &room.TenantID, &room.Code, &room.Building, &room.Capacity, &room.Kind,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("error retrieving room: %w", err)
	}
	return &room, nil
}

// LockRoom takes a row lock on the room for the duration of the transaction,
// serializing concurrent bookings of the same room.
func (r *ScheduleRepository) LockRoom(ctx context.Context, tx pgx.Tx, tenantID, id int64) error {
	var roomID int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM rooms WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, id,
	).Scan(&roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrRoomNotFound
		}
		return fmt.Errorf("error locking room: %w", err)
	}
	return nil
}

// ListRooms retrieves all rooms of a tenant
func (r *ScheduleRepository) ListRooms(ctx context.Context, tenantID int64) ([]*models.Room, error) {
	query := `SELECT id, tenant_id, code, building, capacity, kind FROM rooms WHERE tenant_id = $1 ORDER BY building, code`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.TenantID, &room.Code, &room.Building, &room.Capacity, &room.Kind); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	return rooms, rows.Err()
}

// CreateSlot stores a weekly meeting of a section
func (r *ScheduleRepository) CreateSlot(ctx context.Context, tx pgx.Tx, slot *models.ScheduleSlot) error {
	query := `
		INSERT INTO schedule_slots (tenant_id, section_id, room_id, day_of_week, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		slot.TenantID, slot.SectionID, slot.RoomID, slot.DayOfWeek, slot.StartMinute, slot.EndMinute,
	).Scan(&slot.ID)
	if err != nil {
		return fmt.Errorf("error creating schedule slot: %w", err)
	}

	return nil
}

// HasRoomConflict reports whether a room is already booked in an overlapping
// interval by a section of the same semester. Intervals are half-open, so
// back-to-back slots do not conflict.
func (r *ScheduleRepository) HasRoomConflict(ctx context.Context, tx pgx.Tx, tenantID, semesterID, roomID int64, dayOfWeek, startMinute, endMinute int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM schedule_slots sl
			JOIN sections s ON s.id = sl.section_id
			WHERE sl.tenant_id = $1 AND s.semester_id = $2 AND sl.room_id = $3
			  AND sl.day_of_week = $4
			  AND sl.start_minute < $6 AND $5 < sl.end_minute
		)
	`

	var exists bool
	err := tx.QueryRow(ctx, query, tenantID, semesterID, roomID, dayOfWeek, startMinute, endMinute).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking room conflict: %w", err)
	}
	return exists, nil
}

// HasInstructorConflict reports whether the instructor already teaches an
// overlapping slot in the same semester.
func (r *ScheduleRepository) HasInstructorConflict(ctx context.Context, tx pgx.Tx, tenantID, semesterID, instructorID int64, dayOfWeek, startMinute, endMinute int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM schedule_slots sl
			JOIN sections s ON s.id = sl.section_id
			WHERE sl.tenant_id = $1 AND s.semester_id = $2 AND s.instructor_id = $3
			  AND sl.day_of_week = $4
			  AND sl.start_minute < $6 AND $5 < sl.end_minute
		)
	`

	var exists bool
	err := tx.QueryRow(ctx, query, tenantID, semesterID, instructorID, dayOfWeek, startMinute, endMinute).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking instructor conflict: %w", err)
	}
	return exists, nil
}

// HasSectionConflict reports whether the section itself already meets in an
// overlapping interval.
func (r *ScheduleRepository) HasSectionConflict(ctx context.Context, tx pgx.Tx, tenantID, sectionID int64, dayOfWeek, startMinute, endMinute int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM schedule_slots
			WHERE tenant_id = $1 AND section_id = $2
			  AND day_of_week = $3
			  AND start_minute < $5 AND $4 < end_minute
		)
	`

	var exists bool
	err := tx.QueryRow(ctx, query, tenantID, sectionID, dayOfWeek, startMinute, endMinute).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking section conflict: %w", err)
	}
	return exists, nil
}

const slotSelect = `
	SELECT sl.id, sl.tenant_id, sl.section_id, sl.room_id, sl.day_of_week, sl.start_minute, sl.end_minute,
	       r.id, r.tenant_id, r.code, r.building, r.capacity, r.kind
	FROM schedule_slots sl
	JOIN rooms r ON r.id = sl.room_id
`

func scanSlot(row pgx.Row) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	var room models.Room
	err := row.Scan(
		&slot.ID, &slot.TenantID, &slot.SectionID, &slot.RoomID,
		&slot.DayOfWeek, &slot.StartMinute, &slot.EndMinute,
		&room.ID, &room.TenantID, &room.Code, &room.Building, &room.Capacity, &room.Kind,
	)
	if err != nil {
		return nil, err
	}
	slot.Room = &room
	return &slot, nil
}

// ListSectionSlots retrieves the weekly slots of a section
func (r *ScheduleRepository) ListSectionSlots(ctx context.Context, tenantID, sectionID int64) ([]*models.ScheduleSlot, error) {
	query := slotSelect + ` WHERE sl.tenant_id = $1 AND sl.section_id = $2 ORDER BY sl.day_of_week, sl.start_minute`

	rows, err := r.db.Query(ctx, query, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.ScheduleSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// ListRoomSlots retrieves a room's weekly slots for one semester
func (r *ScheduleRepository) ListRoomSlots(ctx context.Context, tenantID, semesterID, roomID int64) ([]*models.ScheduleSlot, error) {
	query := slotSelect + `
		JOIN sections s ON s.id = sl.section_id
		WHERE sl.tenant_id = $1 AND s.semester_id = $2 AND sl.room_id = $3
		ORDER BY sl.day_of_week, sl.start_minute`

	rows, err := r.db.Query(ctx, query, tenantID, semesterID, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.ScheduleSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// ListStudentSlots retrieves a student's weekly slots for one semester,
// across all sections the student is actively enrolled in.
func (r *ScheduleRepository) ListStudentSlots(ctx context.Context, tenantID, semesterID, studentID int64) ([]*models.ScheduleSlot, error) {
	query := slotSelect + `
		JOIN sections s ON s.id = sl.section_id
		JOIN enrollments e ON e.section_id = s.id AND e.status = 'ENROLLED'
		WHERE sl.tenant_id = $1 AND s.semester_id = $2 AND e.student_id = $3
		ORDER BY sl.day_of_week, sl.start_minute`

	rows, err := r.db.Query(ctx, query, tenantID, semesterID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.ScheduleSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// DeleteSlot removes a schedule slot
func (r *ScheduleRepository) DeleteSlot(ctx context.Context, tenantID, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM schedule_slots WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("error deleting schedule slot: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
