package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/childcare"
)

// foreignKeyViolation is the PostgreSQL error code of a missing referenced row.
const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == foreignKeyViolation
}

func nullTime(t time.Time) null.Time {
	return null.NewTime(t, !t.IsZero())
}

type (
	childRow struct {
		ID          string      `db:"id"`
		FirstName   string      `db:"first_name"`
		LastName    string      `db:"last_name"`
		DateOfBirth time.Time   `db:"date_of_birth"`
		PhotoURL    null.String `db:"photo_url"`
		Allergies   null.String `db:"allergies"`
		CreatedAt   time.Time   `db:"created_at"`
	}

	classRow struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		AgeGroup  string    `db:"age_group"`
		Capacity  int       `db:"capacity"`
		CreatedAt time.Time `db:"created_at"`
	}

	enrollmentRow struct {
		ID         string    `db:"id"`
		ClassID    string    `db:"class_id"`
		ChildID    string    `db:"child_id"`
		Status     string    `db:"status"`
		EnrolledAt time.Time `db:"enrolled_at"`
		ClassName  string    `db:"class_name"`
	}

	assignmentRow struct {
		TeacherID     string `db:"teacher_id"`
		IsLeadTeacher bool   `db:"is_lead_teacher"`
		classRow
	}

	attendanceRow struct {
		ID           string      `db:"id"`
		ChildID      string      `db:"child_id"`
		Date         time.Time   `db:"date"`
		CheckInTime  null.Time   `db:"check_in_time"`
		CheckOutTime null.Time   `db:"check_out_time"`
		RecordedBy   null.String `db:"recorded_by"`
		Notes        null.String `db:"notes"`
	}

	activityRow struct {
		ID          string      `db:"id"`
		ClassID     string      `db:"class_id"`
		TeacherID   null.String `db:"teacher_id"`
		Type        string      `db:"activity_type"`
		Title       string      `db:"title"`
		Description string      `db:"description"`
		PhotoURL    null.String `db:"photo_url"`
		CreatedAt   time.Time   `db:"created_at"`
		ClassName   string      `db:"class_name"`
		TeacherName null.String `db:"teacher_name"`
	}

	announcementRow struct {
		ID        string      `db:"id"`
		AuthorID  null.String `db:"author_id"`
		Title     string      `db:"title"`
		Body      string      `db:"body"`
		Audience  string      `db:"audience"`
		CreatedAt time.Time   `db:"created_at"`
	}
)

func (r childRow) child() childcare.Child {
	return childcare.Child{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		PhotoURL:    r.PhotoURL.String,
		Allergies:   r.Allergies.String,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func (r classRow) class() childcare.Class {
	return childcare.Class{ID: r.ID, Name: r.Name, AgeGroup: r.AgeGroup, Capacity: r.Capacity, CreatedAt: r.CreatedAt.UTC()}
}

func (r attendanceRow) attendance() childcare.Attendance {
	return childcare.Attendance{
		ID:           r.ID,
		ChildID:      r.ChildID,
		Date:         r.Date,
		CheckInTime:  r.CheckInTime.Time.UTC(),
		CheckOutTime: r.CheckOutTime.Time.UTC(),
		RecordedBy:   r.RecordedBy.String,
		Notes:        r.Notes.String,
	}
}

var (
	childColumns = []string{
		"c.id", "c.first_name", "c.last_name", "c.date_of_birth", "c.photo_url", "c.allergies", "c.created_at",
	}
	attendanceColumns = []string{
		"id", "child_id", "date", "check_in_time", "check_out_time", "recorded_by", "notes",
	}
	announcementColumns = []string{"id", "author_id", "title", "body", "audience", "created_at"}
)

type childcareRepository struct {
	db *sqlx.DB
}

var _ childcare.Repository = (*childcareRepository)(nil)

func NewChildcareRepository(db *sqlx.DB) childcare.Repository {
	return &childcareRepository{db: db}
}

func (repo *childcareRepository) CountChildren(ctx context.Context) (int, error) {
	n, err := count(ctx, repo.db, psql.Select("count(*)").From("children"))
	return n, errors.Wrap(err, "counting children")
}

func (repo *childcareRepository) CountClasses(ctx context.Context) (int, error) {
	n, err := count(ctx, repo.db, psql.Select("count(*)").From("classes"))
	return n, errors.Wrap(err, "counting classes")
}

func filterAttendance(qry sq.SelectBuilder, filter childcare.AttendanceFilter) sq.SelectBuilder {
	qry = restrict(qry, "child_id", filter.ChildIDs)
	if !filter.Date.IsZero() {
		qry = qry.Where(sq.Eq{"date": sqlDate(filter.Date)})
	}
	return qry
}

func (repo *childcareRepository) CountAttendance(ctx context.Context, filter childcare.AttendanceFilter) (int, error) {
	n, err := count(ctx, repo.db, filterAttendance(psql.Select("count(*)").From("attendance"), filter))
	return n, errors.Wrap(err, "counting attendance")
}

func (repo *childcareRepository) QueryAttendance(ctx context.Context, filter childcare.AttendanceFilter) ([]childcare.Attendance, error) {
	var rows []attendanceRow
	qry := filterAttendance(psql.Select(attendanceColumns...).From("attendance"), filter).OrderBy("date DESC")
	if err := selectAll(ctx, repo.db, &rows, qry); err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}
	res := make([]childcare.Attendance, len(rows))
	for i, row := range rows {
		res[i] = row.attendance()
	}
	return res, nil
}

func (repo *childcareRepository) GetAttendance(ctx context.Context, childID string, date time.Time) (childcare.Attendance, error) {
	var row attendanceRow
	err := get(ctx, repo.db, &row, psql.Select(attendanceColumns...).From("attendance").
		Where(sq.Eq{"child_id": childID, "date": sqlDate(date)}))
	if err == sql.ErrNoRows {
		return childcare.Attendance{}, childcare.ErrNotFound
	} else if err != nil {
		return childcare.Attendance{}, errors.Wrap(err, "selecting attendance")
	}
	return row.attendance(), nil
}

func filterEnrollments(qry sq.SelectBuilder, filter childcare.EnrollmentFilter) sq.SelectBuilder {
	qry = restrict(qry, "e.class_id", filter.ClassIDs)
	qry = restrict(qry, "e.child_id", filter.ChildIDs)
	if filter.Status != "" {
		qry = qry.Where(sq.Eq{"e.status": string(filter.Status)})
	}
	return qry
}

func (repo *childcareRepository) CountEnrollments(ctx context.Context, filter childcare.EnrollmentFilter) (int, error) {
	n, err := count(ctx, repo.db, filterEnrollments(psql.Select("count(*)").From("class_enrollments e"), filter))
	return n, errors.Wrap(err, "counting enrollments")
}

func (repo *childcareRepository) QueryEnrollments(ctx context.Context, filter childcare.EnrollmentFilter) ([]childcare.Enrollment, error) {
	var rows []enrollmentRow
	qry := filterEnrollments(
		psql.Select("e.id", "e.class_id", "e.child_id", "e.status", "e.enrolled_at", "c.name AS class_name").
			From("class_enrollments e").
			Join("classes c ON c.id = e.class_id"),
		filter,
	).OrderBy("e.enrolled_at ASC")
	if err := selectAll(ctx, repo.db, &rows, qry); err != nil {
		return nil, errors.Wrap(err, "selecting enrollments")
	}
	res := make([]childcare.Enrollment, len(rows))
	for i, row := range rows {
		res[i] = childcare.Enrollment{
			ID:         row.ID,
			ClassID:    row.ClassID,
			ChildID:    row.ChildID,
			Status:     childcare.EnrollmentStatus(row.Status),
			EnrolledAt: row.EnrolledAt.UTC(),
			ClassName:  row.ClassName,
		}
	}
	return res, nil
}

func (repo *childcareRepository) QueryParentChildren(ctx context.Context, parentID string) ([]childcare.Child, error) {
	var rows []childRow
	qry := psql.Select(childColumns...).
		From("children c").
		Join("parent_children pc ON pc.child_id = c.id").
		Where(sq.Eq{"pc.parent_id": parentID}).
		OrderBy("c.first_name ASC")
	if err := selectAll(ctx, repo.db, &rows, qry); err != nil {
		return nil, errors.Wrap(err, "selecting children")
	}
	res := make([]childcare.Child, len(rows))
	for i, row := range rows {
		res[i] = row.child()
	}
	return res, nil
}

func (repo *childcareRepository) QueryTeacherAssignments(ctx context.Context, teacherID string) ([]childcare.TeacherAssignment, error) {
	var rows []assignmentRow
	qry := psql.Select("ta.teacher_id", "ta.is_lead_teacher", "c.id", "c.name", "c.age_group", "c.capacity", "c.created_at").
		From("teacher_assignments ta").
		Join("classes c ON c.id = ta.class_id").
		Where(sq.Eq{"ta.teacher_id": teacherID}).
		OrderBy("c.name ASC")
	if err := selectAll(ctx, repo.db, &rows, qry); err != nil {
		return nil, errors.Wrap(err, "selecting teacher assignments")
	}
	res := make([]childcare.TeacherAssignment, len(rows))
	for i, row := range rows {
		res[i] = childcare.TeacherAssignment{
			TeacherID:     row.TeacherID,
			ClassID:       row.ID,
			IsLeadTeacher: row.IsLeadTeacher,
			Class:         row.class(),
		}
	}
	return res, nil
}

func (repo *childcareRepository) QueryActivities(ctx context.Context, filter childcare.ActivityFilter) ([]childcare.Activity, error) {
	var rows []activityRow
	qry := psql.Select(
		"a.id", "a.class_id", "a.teacher_id", "a.activity_type", "a.title", "a.description", "a.photo_url", "a.created_at",
		"c.name AS class_name", "p.full_name AS teacher_name",
	).
		From("activities a").
		Join("classes c ON c.id = a.class_id").
		LeftJoin("profiles p ON p.id = a.teacher_id")
	qry = restrict(qry, "a.class_id", filter.ClassIDs)
	qry = limit(orderBy(qry, "a.", filter.Ordering), filter.Limit)
	if err := selectAll(ctx, repo.db, &rows, qry); err != nil {
		return nil, errors.Wrap(err, "selecting activities")
	}
	res := make([]childcare.Activity, len(rows))
	for i, row := range rows {
		res[i] = childcare.Activity{
			ID:          row.ID,
			ClassID:     row.ClassID,
			TeacherID:   row.TeacherID.String,
			Type:        row.Type,
			Title:       row.Title,
			Description: row.Description,
			PhotoURL:    row.PhotoURL.String,
			CreatedAt:   row.CreatedAt.UTC(),
			ClassName:   row.ClassName,
			TeacherName: row.TeacherName.String,
		}
	}
	return res, nil
}

func (repo *childcareRepository) QueryAnnouncements(ctx context.Context, filter childcare.AnnouncementFilter) ([]childcare.Announcement, error) {
	var rows []announcementRow
	qry := psql.Select(announcementColumns...).From("announcements")
	if filter.Audiences != nil {
		audiences := make([]string, len(filter.Audiences))
		for i, aud := range filter.Audiences {
			audiences[i] = string(aud)
		}
		qry = qry.Where(sq.Eq{"audience": audiences})
	}
	qry = limit(orderBy(qry, "", filter.Ordering), filter.Limit)
	if err := selectAll(ctx, repo.db, &rows, qry); err != nil {
		return nil, errors.Wrap(err, "selecting announcements")
	}
	res := make([]childcare.Announcement, len(rows))
	for i, row := range rows {
		res[i] = childcare.Announcement{
			ID:        row.ID,
			AuthorID:  row.AuthorID.String,
			Title:     row.Title,
			Body:      row.Body,
			Audience:  childcare.Audience(row.Audience),
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return res, nil
}

func (repo *childcareRepository) CreateChild(ctx context.Context, child childcare.Child) (childcare.Child, error) {
	child.ID = newID(child.ID)
	if child.CreatedAt.IsZero() {
		child.CreatedAt = time.Now().UTC()
	}
	_, err := exec(ctx, repo.db, psql.Insert("children").
		Columns("id", "first_name", "last_name", "date_of_birth", "photo_url", "allergies", "created_at").
		Values(child.ID, child.FirstName, child.LastName, sqlDate(child.DateOfBirth),
			nullString(child.PhotoURL), nullString(child.Allergies), child.CreatedAt))
	if err != nil {
		return childcare.Child{}, errors.Wrap(err, "inserting child")
	}
	return child, nil
}

func (repo *childcareRepository) LinkParentChild(ctx context.Context, parentID, childID string) error {
	_, err := exec(ctx, repo.db, psql.Insert("parent_children").
		Columns("parent_id", "child_id").
		Values(parentID, childID).
		Suffix("ON CONFLICT DO NOTHING"))
	if isForeignKeyViolation(err) {
		return childcare.ErrNotFound
	}
	return errors.Wrap(err, "linking parent and child")
}

func (repo *childcareRepository) CreateClass(ctx context.Context, class childcare.Class) (childcare.Class, error) {
	class.ID = newID(class.ID)
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	_, err := exec(ctx, repo.db, psql.Insert("classes").
		Columns("id", "name", "age_group", "capacity", "created_at").
		Values(class.ID, class.Name, class.AgeGroup, class.Capacity, class.CreatedAt))
	if err != nil {
		return childcare.Class{}, errors.Wrap(err, "inserting class")
	}
	return class, nil
}

func (repo *childcareRepository) CreateEnrollment(ctx context.Context, enr childcare.Enrollment) (childcare.Enrollment, error) {
	enr.ID = newID(enr.ID)
	if enr.EnrolledAt.IsZero() {
		enr.EnrolledAt = time.Now().UTC()
	}
	_, err := exec(ctx, repo.db, psql.Insert("class_enrollments").
		Columns("id", "class_id", "child_id", "status", "enrolled_at").
		Values(enr.ID, enr.ClassID, enr.ChildID, string(enr.Status), enr.EnrolledAt))
	if isForeignKeyViolation(err) {
		return childcare.Enrollment{}, childcare.ErrNotFound
	} else if err != nil {
		return childcare.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *childcareRepository) CreateTeacherAssignment(ctx context.Context, ta childcare.TeacherAssignment) error {
	_, err := exec(ctx, repo.db, psql.Insert("teacher_assignments").
		Columns("teacher_id", "class_id", "is_lead_teacher").
		Values(ta.TeacherID, ta.ClassID, ta.IsLeadTeacher).
		Suffix("ON CONFLICT (teacher_id, class_id) DO UPDATE SET is_lead_teacher = EXCLUDED.is_lead_teacher"))
	if isForeignKeyViolation(err) {
		return childcare.ErrNotFound
	}
	return errors.Wrap(err, "assigning teacher")
}

func (repo *childcareRepository) CreateActivity(ctx context.Context, act childcare.Activity) (childcare.Activity, error) {
	act.ID = newID(act.ID)
	_, err := exec(ctx, repo.db, psql.Insert("activities").
		Columns("id", "class_id", "teacher_id", "activity_type", "title", "description", "photo_url", "created_at").
		Values(act.ID, act.ClassID, nullString(act.TeacherID), act.Type, act.Title, act.Description,
			nullString(act.PhotoURL), act.CreatedAt))
	if isForeignKeyViolation(err) {
		return childcare.Activity{}, childcare.ErrNotFound
	} else if err != nil {
		return childcare.Activity{}, errors.Wrap(err, "inserting activity")
	}
	return act, nil
}

func (repo *childcareRepository) CreateAnnouncement(ctx context.Context, ann childcare.Announcement) (childcare.Announcement, error) {
	ann.ID = newID(ann.ID)
	_, err := exec(ctx, repo.db, psql.Insert("announcements").
		Columns(announcementColumns...).
		Values(ann.ID, nullString(ann.AuthorID), ann.Title, ann.Body, string(ann.Audience), ann.CreatedAt))
	if err != nil {
		return childcare.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return ann, nil
}

func (repo *childcareRepository) CreateAttendance(ctx context.Context, att childcare.Attendance) (childcare.Attendance, error) {
	att.ID = newID(att.ID)
	att.Date = core.Date(att.Date)
	_, err := exec(ctx, repo.db, psql.Insert("attendance").
		Columns(attendanceColumns...).
		Values(att.ID, att.ChildID, sqlDate(att.Date), nullTime(att.CheckInTime), nullTime(att.CheckOutTime),
			nullString(att.RecordedBy), nullString(att.Notes)))
	if isUniqueViolation(err) {
		return childcare.Attendance{}, childcare.ErrAlreadyCheckedIn
	} else if err != nil {
		return childcare.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo *childcareRepository) UpdateAttendance(ctx context.Context, att childcare.Attendance) (childcare.Attendance, error) {
	var row attendanceRow
	err := get(ctx, repo.db, &row, psql.Update("attendance").
		Set("check_in_time", nullTime(att.CheckInTime)).
		Set("check_out_time", nullTime(att.CheckOutTime)).
		Set("recorded_by", nullString(att.RecordedBy)).
		Set("notes", nullString(att.Notes)).
		Where(sq.Eq{"id": att.ID}).
		Suffix("RETURNING "+strings.Join(attendanceColumns, ", ")))
	if err == sql.ErrNoRows {
		return childcare.Attendance{}, childcare.ErrNotFound
	} else if err != nil {
		return childcare.Attendance{}, errors.Wrap(err, "updating attendance")
	}
	return row.attendance(), nil
}
