package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/profile"
)

// DB is a process-local database holding every table behind one lock.
type DB struct {
	mu sync.RWMutex

	accounts       map[string]*auth.Account
	profiles       map[string]*profile.Profile
	children       map[string]*childcare.Child
	parentChildren map[string][]string // {parentID: [childID]}
	classes        map[string]*childcare.Class
	enrollments    map[string]*childcare.Enrollment
	assignments    []childcare.TeacherAssignment
	attendance     map[string]*childcare.Attendance
	activities     map[string]*childcare.Activity
	announcements  map[string]*childcare.Announcement
}

func Open() *DB {
	return &DB{
		accounts:       make(map[string]*auth.Account),
		profiles:       make(map[string]*profile.Profile),
		children:       make(map[string]*childcare.Child),
		parentChildren: make(map[string][]string),
		classes:        make(map[string]*childcare.Class),
		enrollments:    make(map[string]*childcare.Enrollment),
		attendance:     make(map[string]*childcare.Attendance),
		activities:     make(map[string]*childcare.Activity),
		announcements:  make(map[string]*childcare.Announcement),
	}
}

func newID() string { return uuid.New().String() }

func contains(vals []string, val string) bool {
	for _, v := range vals {
		if v == val {
			return true
		}
	}
	return false
}

// newestFirst reports whether the ordering (empty means default) sorts created_at descending.
func newestFirst(ordering []core.DBOrdering) bool {
	for _, ord := range ordering {
		if ord.Field == "created_at" {
			return !ord.Ascending
		}
	}
	return true
}
