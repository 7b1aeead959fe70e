package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
)

// ScheduleService manages rooms and weekly slots with conflict detection
type ScheduleService struct {
	pool         *pgxpool.Pool
	scheduleRepo *repositories.ScheduleRepository
	courseRepo   *repositories.CourseRepository
}

// NewScheduleService creates a new schedule service
func NewScheduleService(pool *pgxpool.Pool, scheduleRepo *repositories.ScheduleRepository, courseRepo *repositories.CourseRepository) *ScheduleService {
	return &ScheduleService{
		pool:         pool,
		scheduleRepo: scheduleRepo,
		courseRepo:   courseRepo,
	}
}

// CreateRoom registers a room
func (s *ScheduleService) CreateRoom(ctx context.Context, tenantID int64, req *dto.CreateRoomRequest) (*models.Room, error) {
	room := &models.Room{
		TenantID: tenantID,
		Code:     req.Code,
		Building: req.Building,
		Capacity: req.Capacity,
		Kind:     models.RoomKind(req.Kind),
	}
	if err := s.scheduleRepo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms retrieves a tenant's rooms
func (s *ScheduleService) ListRooms(ctx context.Context, tenantID int64) ([]*models.Room, error) {
	return s.scheduleRepo.ListRooms(ctx, tenantID)
}

// CreateSlot books a weekly meeting for a section after checking room,
// instructor and section-internal conflicts. The room row is locked for the
// duration of the transaction so two requests cannot double-book it.
func (s *ScheduleService) CreateSlot(ctx context.Context, tenantID int64, req *dto.CreateScheduleSlotRequest) (*models.ScheduleSlot, error) {
	if req.StartMinute >= req.EndMinute {
		return nil, apperrors.ErrInvalidTimeInterval
	}

	section, err := s.courseRepo.GetSectionByID(ctx, tenantID, req.SectionID)
	if err != nil {
		return nil, err
	}
	room, err := s.scheduleRepo.GetRoomByID(ctx, tenantID, req.RoomID)
	if err != nil {
		return nil, err
	}
	if room.Capacity < section.Capacity {
		return nil, apperrors.ErrRoomTooSmall
	}

	slot := &models.ScheduleSlot{
		TenantID:    tenantID,
		SectionID:   req.SectionID,
		RoomID:      req.RoomID,
		DayOfWeek:   req.DayOfWeek,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
	}
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.scheduleRepo.LockRoom(ctx, tx, tenantID, req.RoomID); err != nil {
			return err
		}

		conflict, err := s.scheduleRepo.HasRoomConflict(ctx, tx, tenantID, section.SemesterID, req.RoomID, req.DayOfWeek, req.StartMinute, req.EndMinute)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.ErrRoomConflict
		}

		conflict, err = s.scheduleRepo.HasInstructorConflict(ctx, tx, tenantID, section.SemesterID, section.InstructorID, req.DayOfWeek, req.StartMinute, req.EndMinute)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.ErrInstructorConflict
		}

		conflict, err = s.scheduleRepo.HasSectionConflict(ctx, tx, tenantID, req.SectionID, req.DayOfWeek, req.StartMinute, req.EndMinute)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.ErrSectionSlotConflict
		}

		return s.scheduleRepo.CreateSlot(ctx, tx, slot)
	})
	if err != nil {
		return nil, err
	}

	slot.Room = room
	return slot, nil
}

// DeleteSlot removes a slot
func (s *ScheduleService) DeleteSlot(ctx context.Context, tenantID, id int64) error {
	return s.scheduleRepo.DeleteSlot(ctx, tenantID, id)
}

// SectionTimetable retrieves a section's weekly slots
func (s *ScheduleService) SectionTimetable(ctx context.Context, tenantID, sectionID int64) ([]*models.ScheduleSlot, error) {
	return s.scheduleRepo.ListSectionSlots(ctx, tenantID, sectionID)
}

// RoomTimetable retrieves a room's weekly slots for one semester
func (s *ScheduleService) RoomTimetable(ctx context.Context, tenantID, semesterID, roomID int64) ([]*models.ScheduleSlot, error) {
	return s.scheduleRepo.ListRoomSlots(ctx, tenantID, semesterID, roomID)
}

// StudentTimetable retrieves a student's weekly slots for one semester
func (s *ScheduleService) StudentTimetable(ctx context.Context, tenantID, semesterID, studentID int64) ([]*models.ScheduleSlot, error) {
	return s.scheduleRepo.ListStudentSlots(ctx, tenantID, semesterID, studentID)
}
