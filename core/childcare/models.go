package childcare

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tadika/core"
)

type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "active"
	EnrollmentInactive EnrollmentStatus = "inactive"
)

type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceParents  Audience = "parents"
	AudienceTeachers Audience = "teachers"
)

// Attendance statuses
const (
	StatusNotCheckedIn = "not checked in"
	StatusCheckedIn    = "checked in"
	StatusCheckedOut   = "checked out"
)

var ActivityTypes = []string{"meal", "milk", "nap", "diaper", "health", "photo", "learning", "play"}

type Child struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Allergies   string    `json:"allergies,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c Child) FullName() string {
	return core.CleanString(c.FirstName + " " + c.LastName)
}

// Age returns the number of full years between the child's birth and `today`.
func (c Child) Age(today time.Time) int {
	if c.DateOfBirth.IsZero() {
		return 0
	}
	age := today.Year() - c.DateOfBirth.Year()
	if today.Month() < c.DateOfBirth.Month() ||
		(today.Month() == c.DateOfBirth.Month() && today.Day() < c.DateOfBirth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AgeGroup  string    `json:"age_group"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

type Enrollment struct {
	ID         string           `json:"id"`
	ClassID    string           `json:"class_id"`
	ChildID    string           `json:"child_id"`
	Status     EnrollmentStatus `json:"status"`
	EnrolledAt time.Time        `json:"enrolled_at"`

	// embedded
	ClassName string `json:"class_name,omitempty"`
}

type TeacherAssignment struct {
	TeacherID     string `json:"teacher_id"`
	ClassID       string `json:"class_id"`
	IsLeadTeacher bool   `json:"is_lead_teacher"`

	// embedded
	Class Class `json:"class"`
}

// Attendance is at most one row per child per day.
type Attendance struct {
	ID           string    `json:"id"`
	ChildID      string    `json:"child_id"`
	Date         time.Time `json:"date"`
	CheckInTime  time.Time `json:"check_in_time,omitempty"`
	CheckOutTime time.Time `json:"check_out_time,omitempty"`
	RecordedBy   string    `json:"recorded_by,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

func (a Attendance) Status() string {
	switch {
	case !a.CheckOutTime.IsZero():
		return StatusCheckedOut
	case !a.CheckInTime.IsZero():
		return StatusCheckedIn
	default:
		return StatusNotCheckedIn
	}
}

type Activity struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	TeacherID   string    `json:"teacher_id"`
	Type        string    `json:"activity_type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// embedded
	ClassName   string `json:"class_name,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
}

type Announcement struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  Audience  `json:"audience"`
	CreatedAt time.Time `json:"created_at"`
}

// NewActivity contains information needed to log an Activity.
type NewActivity struct {
	ClassID     string `json:"class_id" form:"class_id" validate:"required"`
	Type        string `json:"activity_type" form:"activity_type" validate:"required,activitytype"`
	Title       string `json:"title" form:"title" validate:"required,notblank"`
	Description string `json:"description" form:"description"`
	PhotoURL    string `json:"photo_url" form:"photo_url" validate:"omitempty,url"`
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.ClassID = core.CleanString(na.ClassID)
	na.Type = core.CleanString(na.Type, true /* lower */)
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.PhotoURL = core.CleanString(na.PhotoURL)
	return validate.Struct(na)
}

// NewAnnouncement contains information needed to post an Announcement.
type NewAnnouncement struct {
	Title    string `json:"title" form:"title" validate:"required,notblank"`
	Body     string `json:"body" form:"body" validate:"required,notblank"`
	Audience string `json:"audience" form:"audience" validate:"omitempty,audience"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Body = core.CleanString(na.Body)
	na.Audience = core.CleanString(na.Audience, true /* lower */)
	return validate.Struct(na)
}

type AttendanceRequest struct {
	ChildID string `json:"child_id" form:"child_id" validate:"required"`
	Notes   string `json:"notes" form:"notes"`
}

func (ar *AttendanceRequest) Validate(validate *validator.Validate) error {
	ar.ChildID = core.CleanString(ar.ChildID)
	ar.Notes = core.CleanString(ar.Notes)
	return validate.Struct(ar)
}

// Query filters; zero fields and nil slices are ignored, an empty non-nil slice matches nothing.
type (
	AttendanceFilter struct {
		ChildIDs []string
		Date     time.Time
	}

	EnrollmentFilter struct {
		ClassIDs []string
		ChildIDs []string
		Status   EnrollmentStatus
	}

	ActivityFilter struct {
		ClassIDs []string
		Ordering []core.DBOrdering
		Limit    int
	}

	AnnouncementFilter struct {
		Audiences []Audience
		Ordering  []core.DBOrdering
		Limit     int
	}
)
