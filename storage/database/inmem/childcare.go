package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/childcare"
)

type childcareRepository struct {
	db *DB
}

var _ childcare.Repository = (*childcareRepository)(nil)

func NewChildcareRepository(db *DB) childcare.Repository {
	return &childcareRepository{db: db}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func limit(n, lim int) int {
	if lim > 0 && lim < n {
		return lim
	}
	return n
}

func (repo *childcareRepository) CountChildren(_ context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.children), nil
}

func (repo *childcareRepository) CountClasses(_ context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.classes), nil
}

func (repo *childcareRepository) filterAttendance(filter childcare.AttendanceFilter) []childcare.Attendance {
	res := make([]childcare.Attendance, 0)
	for _, att := range repo.db.attendance {
		if filter.ChildIDs != nil && !contains(filter.ChildIDs, att.ChildID) {
			continue
		}
		if !filter.Date.IsZero() && !sameDay(att.Date, filter.Date) {
			continue
		}
		res = append(res, *att)
	}
	return res
}

func (repo *childcareRepository) CountAttendance(_ context.Context, filter childcare.AttendanceFilter) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.filterAttendance(filter)), nil
}

func (repo *childcareRepository) QueryAttendance(_ context.Context, filter childcare.AttendanceFilter) ([]childcare.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.filterAttendance(filter), nil
}

func (repo *childcareRepository) GetAttendance(_ context.Context, childID string, date time.Time) (childcare.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, att := range repo.db.attendance {
		if att.ChildID == childID && sameDay(att.Date, date) {
			return *att, nil
		}
	}
	return childcare.Attendance{}, childcare.ErrNotFound
}

func (repo *childcareRepository) filterEnrollments(filter childcare.EnrollmentFilter) []childcare.Enrollment {
	res := make([]childcare.Enrollment, 0)
	for _, enr := range repo.db.enrollments {
		if filter.ClassIDs != nil && !contains(filter.ClassIDs, enr.ClassID) {
			continue
		}
		if filter.ChildIDs != nil && !contains(filter.ChildIDs, enr.ChildID) {
			continue
		}
		if filter.Status != "" && enr.Status != filter.Status {
			continue
		}
		e := *enr
		if class, ok := repo.db.classes[e.ClassID]; ok {
			e.ClassName = class.Name
		}
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].EnrolledAt.Before(res[j].EnrolledAt) })
	return res
}

func (repo *childcareRepository) CountEnrollments(_ context.Context, filter childcare.EnrollmentFilter) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.filterEnrollments(filter)), nil
}

func (repo *childcareRepository) QueryEnrollments(_ context.Context, filter childcare.EnrollmentFilter) ([]childcare.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.filterEnrollments(filter), nil
}

func (repo *childcareRepository) QueryParentChildren(_ context.Context, parentID string) ([]childcare.Child, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ids := repo.db.parentChildren[parentID]
	res := make([]childcare.Child, 0, len(ids))
	for _, id := range ids {
		if child, ok := repo.db.children[id]; ok {
			res = append(res, *child)
		}
	}
	return res, nil
}

func (repo *childcareRepository) QueryTeacherAssignments(_ context.Context, teacherID string) ([]childcare.TeacherAssignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	res := make([]childcare.TeacherAssignment, 0)
	for _, ta := range repo.db.assignments {
		if ta.TeacherID != teacherID {
			continue
		}
		if class, ok := repo.db.classes[ta.ClassID]; ok {
			ta.Class = *class
		}
		res = append(res, ta)
	}
	return res, nil
}

func (repo *childcareRepository) QueryActivities(_ context.Context, filter childcare.ActivityFilter) ([]childcare.Activity, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	res := make([]childcare.Activity, 0)
	for _, act := range repo.db.activities {
		if filter.ClassIDs != nil && !contains(filter.ClassIDs, act.ClassID) {
			continue
		}
		a := *act
		if class, ok := repo.db.classes[a.ClassID]; ok {
			a.ClassName = class.Name
		}
		if prof, ok := repo.db.profiles[a.TeacherID]; ok {
			a.TeacherName = prof.FullName
		}
		res = append(res, a)
	}
	newest := newestFirst(filter.Ordering)
	sort.Slice(res, func(i, j int) bool {
		if newest {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res[:limit(len(res), filter.Limit)], nil
}

func (repo *childcareRepository) QueryAnnouncements(_ context.Context, filter childcare.AnnouncementFilter) ([]childcare.Announcement, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	res := make([]childcare.Announcement, 0)
	for _, ann := range repo.db.announcements {
		if filter.Audiences != nil && !hasAudience(filter.Audiences, ann.Audience) {
			continue
		}
		res = append(res, *ann)
	}
	newest := newestFirst(filter.Ordering)
	sort.Slice(res, func(i, j int) bool {
		if newest {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res[:limit(len(res), filter.Limit)], nil
}

func hasAudience(audiences []childcare.Audience, aud childcare.Audience) bool {
	for _, a := range audiences {
		if a == aud {
			return true
		}
	}
	return false
}

func (repo *childcareRepository) CreateChild(_ context.Context, child childcare.Child) (childcare.Child, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if child.ID == "" {
		child.ID = newID()
	}
	repo.db.children[child.ID] = &child
	return child, nil
}

func (repo *childcareRepository) LinkParentChild(_ context.Context, parentID, childID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.children[childID]; !ok {
		return childcare.ErrNotFound
	}
	if !contains(repo.db.parentChildren[parentID], childID) {
		repo.db.parentChildren[parentID] = append(repo.db.parentChildren[parentID], childID)
	}
	return nil
}

func (repo *childcareRepository) CreateClass(_ context.Context, class childcare.Class) (childcare.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if class.ID == "" {
		class.ID = newID()
	}
	repo.db.classes[class.ID] = &class
	return class, nil
}

func (repo *childcareRepository) CreateEnrollment(_ context.Context, enr childcare.Enrollment) (childcare.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[enr.ClassID]; !ok {
		return childcare.Enrollment{}, childcare.ErrNotFound
	}
	if enr.ID == "" {
		enr.ID = newID()
	}
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *childcareRepository) CreateTeacherAssignment(_ context.Context, ta childcare.TeacherAssignment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for i, a := range repo.db.assignments {
		if a.TeacherID == ta.TeacherID && a.ClassID == ta.ClassID {
			repo.db.assignments[i].IsLeadTeacher = ta.IsLeadTeacher
			return nil
		}
	}
	ta.Class = childcare.Class{}
	repo.db.assignments = append(repo.db.assignments, ta)
	return nil
}

func (repo *childcareRepository) CreateActivity(_ context.Context, act childcare.Activity) (childcare.Activity, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if act.ID == "" {
		act.ID = newID()
	}
	repo.db.activities[act.ID] = &act
	return act, nil
}

func (repo *childcareRepository) CreateAnnouncement(_ context.Context, ann childcare.Announcement) (childcare.Announcement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if ann.ID == "" {
		ann.ID = newID()
	}
	repo.db.announcements[ann.ID] = &ann
	return ann, nil
}

func (repo *childcareRepository) CreateAttendance(_ context.Context, att childcare.Attendance) (childcare.Attendance, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	att.Date = core.Date(att.Date)
	for _, a := range repo.db.attendance {
		if a.ChildID == att.ChildID && sameDay(a.Date, att.Date) {
			return childcare.Attendance{}, childcare.ErrAlreadyCheckedIn
		}
	}
	if att.ID == "" {
		att.ID = newID()
	}
	repo.db.attendance[att.ID] = &att
	return att, nil
}

func (repo *childcareRepository) UpdateAttendance(_ context.Context, att childcare.Attendance) (childcare.Attendance, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	orig, ok := repo.db.attendance[att.ID]
	if !ok {
		return childcare.Attendance{}, childcare.ErrNotFound
	}
	orig.CheckInTime = att.CheckInTime
	orig.CheckOutTime = att.CheckOutTime
	orig.RecordedBy = att.RecordedBy
	orig.Notes = att.Notes
	return *orig, nil
}
