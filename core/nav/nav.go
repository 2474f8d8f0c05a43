// Package nav maps a role to its dashboard navigation.
package nav

import "github.com/trezcool/tadika/core/profile"

// Entry is a navigation link; Label is an i18n key and Icon an icon name.
type Entry struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var (
	dashboard     = Entry{Path: "/dashboard", Label: "dashboard", Icon: "activity"}
	users         = Entry{Path: "/dashboard/users", Label: "users", Icon: "users"}
	children      = Entry{Path: "/dashboard/children", Label: "children", Icon: "user"}
	classes       = Entry{Path: "/dashboard/classes", Label: "classes", Icon: "graduation-cap"}
	attendance    = Entry{Path: "/dashboard/attendance", Label: "attendance", Icon: "calendar"}
	activities    = Entry{Path: "/dashboard/activities", Label: "activities", Icon: "image"}
	announcements = Entry{Path: "/dashboard/announcements", Label: "announcements", Icon: "bell"}
	myChild       = Entry{Path: "/dashboard/my-child", Label: "myChild", Icon: "baby"}

	adminEntries   = []Entry{dashboard, users, children, classes, attendance, announcements}
	teacherEntries = []Entry{dashboard, classes, attendance, activities, announcements}
	parentEntries  = []Entry{dashboard, myChild, activities, announcements}
)

type entriesSwitch struct {
	entries []Entry
}

func (s *entriesSwitch) Admin()               { s.entries = adminEntries }
func (s *entriesSwitch) Teacher()             { s.entries = teacherEntries }
func (s *entriesSwitch) Parent()              { s.entries = parentEntries }
func (s *entriesSwitch) Unknown(profile.Role) { s.entries = nil }

// ForRole returns a copy of the ordered navigation of `role`; an unknown role gets none.
func ForRole(role profile.Role) []Entry {
	sw := new(entriesSwitch)
	profile.Dispatch(role, sw)
	res := make([]Entry, len(sw.entries))
	copy(res, sw.entries)
	return res
}
