package models

// RoomKind classifies rooms.
type RoomKind string

const (
	RoomClassroom  RoomKind = "CLASSROOM"
	RoomLab        RoomKind = "LAB"
	RoomAuditorium RoomKind = "AUDITORIUM"
)

// Room is a physical teaching room.
type Room struct {
	ID       int64    `json:"id" db:"id"`
	TenantID int64    `json:"tenantId" db:"tenant_id"`
	Code     string   `json:"code" db:"code"`
	Building string   `json:"building" db:"building"`
	Capacity int      `json:"capacity" db:"capacity"`
	Kind     RoomKind `json:"kind" db:"kind"`
}

// ScheduleSlot is a weekly meeting of a section in a room. Times are minutes
// from midnight; the interval is half-open [StartMinute, EndMinute).
type ScheduleSlot struct {
	ID          int64    `json:"id" db:"id"`
	TenantID    int64    `json:"tenantId" db:"tenant_id"`
	SectionID   int64    `json:"sectionId" db:"section_id"`
	RoomID      int64    `json:"roomId" db:"room_id"`
	DayOfWeek   int      `json:"dayOfWeek" db:"day_of_week"` // 1=Monday .. 7=Sunday
	StartMinute int      `json:"startMinute" db:"start_minute"`
	EndMinute   int      `json:"endMinute" db:"end_minute"`
	Room        *Room    `json:"room,omitempty"`    // relation, no db tag
	Section     *Section `json:"section,omitempty"` // relation, no db tag
}

// Overlaps reports whether two slots on the same day collide. Half-open
// intervals: back-to-back slots (end == start) do not overlap.
func (s *ScheduleSlot) Overlaps(other *ScheduleSlot) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartMinute < other.EndMinute && other.StartMinute < s.EndMinute
}
