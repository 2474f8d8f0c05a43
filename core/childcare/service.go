package childcare

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/profile"
)

var (
	// errors
	ErrNotFound          = errors.New("record not found")
	ErrNotAssigned       = errors.New("you are not assigned to this class")
	ErrNotEnrolled       = errors.New("child is not enrolled in any class")
	ErrAlreadyCheckedIn  = errors.New("child is already checked in today")
	ErrNotCheckedIn      = errors.New("child has not been checked in today")
	ErrAlreadyCheckedOut = errors.New("child is already checked out today")
)

// Repository is the generic query surface the dashboards read from.
type Repository interface {
	CountChildren(ctx context.Context) (int, error)
	CountClasses(ctx context.Context) (int, error)
	CountAttendance(ctx context.Context, filter AttendanceFilter) (int, error)
	QueryAttendance(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	GetAttendance(ctx context.Context, childID string, date time.Time) (Attendance, error)
	CountEnrollments(ctx context.Context, filter EnrollmentFilter) (int, error)
	// QueryEnrollments embeds Enrollment.ClassName.
	QueryEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error)
	QueryParentChildren(ctx context.Context, parentID string) ([]Child, error)
	// QueryTeacherAssignments embeds TeacherAssignment.Class.
	QueryTeacherAssignments(ctx context.Context, teacherID string) ([]TeacherAssignment, error)
	// QueryActivities embeds Activity.ClassName and Activity.TeacherName.
	QueryActivities(ctx context.Context, filter ActivityFilter) ([]Activity, error)
	QueryAnnouncements(ctx context.Context, filter AnnouncementFilter) ([]Announcement, error)

	CreateChild(ctx context.Context, child Child) (Child, error)
	LinkParentChild(ctx context.Context, parentID, childID string) error
	CreateClass(ctx context.Context, class Class) (Class, error)
	CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
	CreateTeacherAssignment(ctx context.Context, ta TeacherAssignment) error
	CreateActivity(ctx context.Context, act Activity) (Activity, error)
	CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
	CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
	UpdateAttendance(ctx context.Context, att Attendance) (Attendance, error)
}

type Service struct {
	repo  Repository
	loc   *time.Location
	clock core.Clock
}

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, loc: conf.TimeZone, clock: time.Now}
}

// WithClock swaps the clock used to compute "today".
func (svc *Service) WithClock(clock core.Clock) *Service {
	svc.clock = clock
	return svc
}

func (svc *Service) now() time.Time {
	return svc.clock().UTC()
}

func (svc *Service) today() time.Time {
	return svc.clock.Today(svc.loc)
}

func (svc *Service) isAssigned(ctx context.Context, teacherID, classID string) (bool, error) {
	assignments, err := svc.repo.QueryTeacherAssignments(ctx, teacherID)
	if err != nil {
		return false, err
	}
	for _, ta := range assignments {
		if ta.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

// LogActivity records an activity for a class the teacher is assigned to. `na` must have been validated.
func (svc *Service) LogActivity(ctx context.Context, teacherID string, na NewActivity) (Activity, error) {
	ok, err := svc.isAssigned(ctx, teacherID, na.ClassID)
	if err != nil {
		return Activity{}, err
	}
	if !ok {
		return Activity{}, ErrNotAssigned
	}
	return svc.repo.CreateActivity(ctx, Activity{
		ClassID:     na.ClassID,
		TeacherID:   teacherID,
		Type:        na.Type,
		Title:       na.Title,
		Description: na.Description,
		PhotoURL:    na.PhotoURL,
		CreatedAt:   svc.now(),
	})
}

// Announce posts an announcement. `na` must have been validated.
func (svc *Service) Announce(ctx context.Context, authorID string, na NewAnnouncement) (Announcement, error) {
	audience := Audience(na.Audience)
	if audience == "" {
		audience = AudienceAll
	}
	return svc.repo.CreateAnnouncement(ctx, Announcement{
		AuthorID:  authorID,
		Title:     na.Title,
		Body:      na.Body,
		Audience:  audience,
		CreatedAt: svc.now(),
	})
}

// audienceSwitch maps a role to the announcement audiences it may read.
type audienceSwitch struct {
	audiences []Audience
}

func (s *audienceSwitch) Admin() {
	s.audiences = []Audience{AudienceAll, AudienceParents, AudienceTeachers}
}
func (s *audienceSwitch) Teacher()             { s.audiences = []Audience{AudienceAll, AudienceTeachers} }
func (s *audienceSwitch) Parent()              { s.audiences = []Audience{AudienceAll, AudienceParents} }
func (s *audienceSwitch) Unknown(profile.Role) { s.audiences = nil }

// AudiencesFor returns the announcement audiences visible to `role`; none for an unknown role.
func AudiencesFor(role profile.Role) []Audience {
	sw := new(audienceSwitch)
	profile.Dispatch(role, sw)
	return sw.audiences
}

// Announcements returns the most recent announcements visible to `role`.
func (svc *Service) Announcements(ctx context.Context, role profile.Role, limit int) ([]Announcement, error) {
	audiences := AudiencesFor(role)
	if len(audiences) == 0 {
		return []Announcement{}, nil
	}
	return svc.repo.QueryAnnouncements(ctx, AnnouncementFilter{
		Audiences: audiences,
		Ordering:  core.NewestFirst,
		Limit:     limit,
	})
}

// checkAttendanceAccess ensures the child is actively enrolled in a class the teacher is assigned to.
func (svc *Service) checkAttendanceAccess(ctx context.Context, teacherID, childID string) error {
	enrollments, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{
		ChildIDs: []string{childID},
		Status:   EnrollmentActive,
	})
	if err != nil {
		return err
	}
	if len(enrollments) == 0 {
		return core.NewValidationError(ErrNotEnrolled, core.FieldError{Field: "child_id", Error: ErrNotEnrolled.Error()})
	}
	for _, enr := range enrollments {
		ok, err := svc.isAssigned(ctx, teacherID, enr.ClassID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrNotAssigned
}

func (svc *Service) CheckIn(ctx context.Context, teacherID string, req AttendanceRequest) (Attendance, error) {
	if err := svc.checkAttendanceAccess(ctx, teacherID, req.ChildID); err != nil {
		return Attendance{}, err
	}

	today := svc.today()
	att, err := svc.repo.GetAttendance(ctx, req.ChildID, today)
	switch {
	case err == ErrNotFound:
		return svc.repo.CreateAttendance(ctx, Attendance{
			ChildID:     req.ChildID,
			Date:        today,
			CheckInTime: svc.now(),
			RecordedBy:  teacherID,
			Notes:       req.Notes,
		})
	case err != nil:
		return Attendance{}, err
	case !att.CheckInTime.IsZero():
		return Attendance{}, core.NewValidationError(
			ErrAlreadyCheckedIn, core.FieldError{Field: "child_id", Error: ErrAlreadyCheckedIn.Error()},
		)
	}

	// a row may exist without a check-in (e.g. notes recorded ahead)
	att.CheckInTime = svc.now()
	att.RecordedBy = teacherID
	if req.Notes != "" {
		att.Notes = req.Notes
	}
	return svc.repo.UpdateAttendance(ctx, att)
}

func (svc *Service) CheckOut(ctx context.Context, teacherID string, req AttendanceRequest) (Attendance, error) {
	if err := svc.checkAttendanceAccess(ctx, teacherID, req.ChildID); err != nil {
		return Attendance{}, err
	}

	att, err := svc.repo.GetAttendance(ctx, req.ChildID, svc.today())
	if err != nil && err != ErrNotFound {
		return Attendance{}, err
	}
	if err == ErrNotFound || att.CheckInTime.IsZero() {
		return Attendance{}, core.NewValidationError(
			ErrNotCheckedIn, core.FieldError{Field: "child_id", Error: ErrNotCheckedIn.Error()},
		)
	}
	if !att.CheckOutTime.IsZero() {
		return Attendance{}, core.NewValidationError(
			ErrAlreadyCheckedOut, core.FieldError{Field: "child_id", Error: ErrAlreadyCheckedOut.Error()},
		)
	}

	att.CheckOutTime = svc.now()
	if req.Notes != "" {
		att.Notes = req.Notes
	}
	return svc.repo.UpdateAttendance(ctx, att)
}

// Setup helpers used by the admin CLI.

func (svc *Service) AddClass(ctx context.Context, class Class) (Class, error) {
	class.CreatedAt = svc.now()
	return svc.repo.CreateClass(ctx, class)
}

// AddChild stores a child and links it to every given parent.
func (svc *Service) AddChild(ctx context.Context, child Child, parentIDs ...string) (Child, error) {
	child.CreatedAt = svc.now()
	child, err := svc.repo.CreateChild(ctx, child)
	if err != nil {
		return Child{}, err
	}
	for _, pid := range parentIDs {
		if err := svc.repo.LinkParentChild(ctx, pid, child.ID); err != nil {
			return Child{}, err
		}
	}
	return child, nil
}

func (svc *Service) Enroll(ctx context.Context, classID, childID string) (Enrollment, error) {
	return svc.repo.CreateEnrollment(ctx, Enrollment{
		ClassID:    classID,
		ChildID:    childID,
		Status:     EnrollmentActive,
		EnrolledAt: svc.now(),
	})
}

func (svc *Service) AssignTeacher(ctx context.Context, teacherID, classID string, lead bool) error {
	return svc.repo.CreateTeacherAssignment(ctx, TeacherAssignment{
		TeacherID:     teacherID,
		ClassID:       classID,
		IsLeadTeacher: lead,
	})
}
