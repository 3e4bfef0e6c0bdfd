package models

// Subject is a course a professor may be eligible to teach.
type Subject struct {
	Code        string  `db:"code" json:"code"`
	ShortName   string  `db:"short_name" json:"short_name"`
	FullName    *string `db:"full_name" json:"full_name,omitempty"`
	WeeklyHours int     `db:"weekly_hours" json:"weekly_hours"`
	DayCount    int     `db:"day_count" json:"day_count"`
}

// Shift groups time ranges under a name such as "Mañana".
type Shift struct {
	Name string `db:"name" json:"name"`
}

// TimeRange is a start/end pair as stored by Postgres (HH:MM:SS).
type TimeRange struct {
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// ScheduleBlock is a concrete weekday slot.
type ScheduleBlock struct {
	ID        int64  `db:"id" json:"id"`
	Day       string `db:"day" json:"day"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// ShiftTimeRange maps a shift to a time range and optionally a single block.
type ShiftTimeRange struct {
	ID        int64  `db:"id" json:"id"`
	Shift     string `db:"shift" json:"shift"`
	BlockID   *int64 `db:"block_id" json:"block_id,omitempty"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// TeachingEligibility states that a professor may teach a subject in a shift.
type TeachingEligibility struct {
	ProfessorID string `db:"professor_id" json:"professor_id"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	Shift       string `db:"shift" json:"shift"`
	MaxGroups   int    `db:"max_groups" json:"max_groups"`
}

// EligibleSubject is a TeachingEligibility row joined with its subject.
type EligibleSubject struct {
	Subject
	Shift     string `db:"shift" json:"shift"`
	MaxGroups int    `db:"max_groups" json:"max_groups"`
}
