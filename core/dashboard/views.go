package dashboard

import (
	"context"
	"time"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/profile"
)

type AdminStats struct {
	TotalChildren   int `json:"total_children"`
	TotalTeachers   int `json:"total_teachers"`
	TotalParents    int `json:"total_parents"`
	TotalClasses    int `json:"total_classes"`
	TodayAttendance int `json:"today_attendance"`
}

type AdminView struct {
	Kind             string               `json:"kind"`
	Stats            AdminStats           `json:"stats"`
	RecentActivities []childcare.Activity `json:"recent_activities"`
}

func (v *AdminView) ViewKind() string { return v.Kind }

func (d *Dispatcher) adminView(ctx context.Context, prof profile.Profile) *AdminView {
	view := &AdminView{Kind: KindAdmin, RecentActivities: []childcare.Activity{}}
	today := d.today()

	b := d.newBatch(prof)
	b.Count("total children", &view.Stats.TotalChildren, func() (int, error) {
		return d.repo.CountChildren(ctx)
	})
	b.Count("total teachers", &view.Stats.TotalTeachers, func() (int, error) {
		return d.profiles.CountByRole(ctx, profile.RoleTeacher)
	})
	b.Count("total parents", &view.Stats.TotalParents, func() (int, error) {
		return d.profiles.CountByRole(ctx, profile.RoleParent)
	})
	b.Count("total classes", &view.Stats.TotalClasses, func() (int, error) {
		return d.repo.CountClasses(ctx)
	})
	b.Count("today's attendance", &view.Stats.TodayAttendance, func() (int, error) {
		return d.repo.CountAttendance(ctx, childcare.AttendanceFilter{Date: today})
	})
	b.Go("recent activities", func() error {
		acts, err := d.repo.QueryActivities(ctx, childcare.ActivityFilter{
			Ordering: core.NewestFirst,
			Limit:    adminRecentActivities,
		})
		if err != nil {
			return err
		}
		view.RecentActivities = acts
		return nil
	})
	b.Wait()
	return view
}

type ClassSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AgeGroup        string `json:"age_group"`
	Capacity        int    `json:"capacity"`
	IsLeadTeacher   bool   `json:"is_lead_teacher"`
	EnrollmentCount int    `json:"enrollment_count"`
	AttendanceToday int    `json:"attendance_today"`
}

type TeacherTotals struct {
	Classes      int `json:"classes"`
	Students     int `json:"students"`
	PresentToday int `json:"present_today"`
}

type TeacherView struct {
	Kind          string                   `json:"kind"`
	Classes       []ClassSummary           `json:"classes"`
	Totals        TeacherTotals            `json:"totals"`
	Announcements []childcare.Announcement `json:"announcements"`
}

func (v *TeacherView) ViewKind() string { return v.Kind }

func (d *Dispatcher) teacherView(ctx context.Context, prof profile.Profile) *TeacherView {
	view := &TeacherView{
		Kind:          KindTeacher,
		Classes:       []ClassSummary{},
		Announcements: []childcare.Announcement{},
	}
	today := d.today()

	var assignments []childcare.TeacherAssignment
	b := d.newBatch(prof)
	b.Go("assigned classes", func() (err error) {
		assignments, err = d.repo.QueryTeacherAssignments(ctx, prof.ID)
		return err
	})
	b.Go("announcements", func() error {
		anns, err := d.announcements(ctx, profile.RoleTeacher)
		if err != nil {
			return err
		}
		view.Announcements = anns
		return nil
	})
	b.Wait()

	view.Classes = make([]ClassSummary, len(assignments))
	b = d.newBatch(prof)
	for i, ta := range assignments {
		summary := &view.Classes[i]
		*summary = ClassSummary{
			ID:            ta.Class.ID,
			Name:          ta.Class.Name,
			AgeGroup:      ta.Class.AgeGroup,
			Capacity:      ta.Class.Capacity,
			IsLeadTeacher: ta.IsLeadTeacher,
		}
		classID := ta.ClassID
		b.Count("class enrollment", &summary.EnrollmentCount, func() (int, error) {
			return d.repo.CountEnrollments(ctx, childcare.EnrollmentFilter{
				ClassIDs: []string{classID},
				Status:   childcare.EnrollmentActive,
			})
		})
		b.Count("class attendance", &summary.AttendanceToday, func() (int, error) {
			enrollments, err := d.repo.QueryEnrollments(ctx, childcare.EnrollmentFilter{ClassIDs: []string{classID}})
			if err != nil {
				return 0, err
			}
			childIDs := make([]string, 0, len(enrollments))
			for _, enr := range enrollments {
				childIDs = append(childIDs, enr.ChildID)
			}
			return d.repo.CountAttendance(ctx, childcare.AttendanceFilter{ChildIDs: childIDs, Date: today})
		})
	}
	b.Wait()

	view.Totals.Classes = len(view.Classes)
	for _, c := range view.Classes {
		view.Totals.Students += c.EnrollmentCount
		view.Totals.PresentToday += c.AttendanceToday
	}
	return view
}

type ChildSummary struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	Allergies    string     `json:"allergies,omitempty"`
	Age          int        `json:"age"`
	ClassName    string     `json:"class_name,omitempty"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       string     `json:"status"`
}

type ParentView struct {
	Kind             string                   `json:"kind"`
	Children         []ChildSummary           `json:"children"`
	RecentActivities []childcare.Activity     `json:"recent_activities"`
	Announcements    []childcare.Announcement `json:"announcements"`
}

func (v *ParentView) ViewKind() string { return v.Kind }

func (d *Dispatcher) parentView(ctx context.Context, prof profile.Profile) *ParentView {
	view := &ParentView{
		Kind:             KindParent,
		Children:         []ChildSummary{},
		RecentActivities: []childcare.Activity{},
		Announcements:    []childcare.Announcement{},
	}
	today := d.today()

	var children []childcare.Child
	b := d.newBatch(prof)
	b.Go("children", func() (err error) {
		children, err = d.repo.QueryParentChildren(ctx, prof.ID)
		return err
	})
	b.Go("announcements", func() error {
		anns, err := d.announcements(ctx, profile.RoleParent)
		if err != nil {
			return err
		}
		view.Announcements = anns
		return nil
	})
	b.Wait()

	if len(children) == 0 {
		return view
	}

	view.Children = make([]ChildSummary, len(children))
	childIDs := make([]string, 0, len(children))
	b = d.newBatch(prof)
	for i, child := range children {
		summary := &view.Children[i]
		*summary = ChildSummary{
			ID:        child.ID,
			FirstName: child.FirstName,
			LastName:  child.LastName,
			PhotoURL:  child.PhotoURL,
			Allergies: child.Allergies,
			Age:       child.Age(today),
			Status:    childcare.StatusNotCheckedIn,
		}
		childID := child.ID
		childIDs = append(childIDs, childID)

		b.Go("child class", func() error {
			enrollments, err := d.repo.QueryEnrollments(ctx, childcare.EnrollmentFilter{
				ChildIDs: []string{childID},
				Status:   childcare.EnrollmentActive,
			})
			if err != nil {
				return err
			}
			if len(enrollments) > 0 {
				summary.ClassName = enrollments[0].ClassName
			}
			return nil
		})
		b.Go("child attendance", func() error {
			att, err := d.repo.GetAttendance(ctx, childID, today)
			if err == childcare.ErrNotFound {
				return nil
			} else if err != nil {
				return err
			}
			summary.Status = att.Status()
			if !att.CheckInTime.IsZero() {
				t := att.CheckInTime
				summary.CheckInTime = &t
			}
			if !att.CheckOutTime.IsZero() {
				t := att.CheckOutTime
				summary.CheckOutTime = &t
			}
			return nil
		})
	}
	b.Go("recent activities", func() error {
		enrollments, err := d.repo.QueryEnrollments(ctx, childcare.EnrollmentFilter{ChildIDs: childIDs})
		if err != nil {
			return err
		}
		if len(enrollments) == 0 {
			return nil
		}
		classIDs := make([]string, 0, len(enrollments))
		for _, enr := range enrollments {
			classIDs = append(classIDs, enr.ClassID)
		}
		acts, err := d.repo.QueryActivities(ctx, childcare.ActivityFilter{
			ClassIDs: classIDs,
			Ordering: core.NewestFirst,
			Limit:    parentRecentActivities,
		})
		if err != nil {
			return err
		}
		view.RecentActivities = acts
		return nil
	})
	b.Wait()
	return view
}

func (d *Dispatcher) announcements(ctx context.Context, role profile.Role) ([]childcare.Announcement, error) {
	return d.repo.QueryAnnouncements(ctx, childcare.AnnouncementFilter{
		Audiences: childcare.AudiencesFor(role),
		Ordering:  core.NewestFirst,
		Limit:     announcementsLimit,
	})
}
