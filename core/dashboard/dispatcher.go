// Package dashboard selects and builds the role-specific dashboard of a signed-in profile.
//
// Every view fires its queries concurrently and waits for the whole batch. A failing query is
// logged and its statistic is left zero or empty; it never fails the view.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kat-co/vala"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/profile"
)

// View kinds
const (
	KindAdmin       = "admin"
	KindTeacher     = "teacher"
	KindParent      = "parent"
	KindInvalidRole = "invalid_role"
)

const (
	adminRecentActivities  = 5
	parentRecentActivities = 6
	announcementsLimit     = 5
)

type (
	View interface {
		ViewKind() string
	}

	// RoleCounter is the subset of profile.Service the admin view needs.
	RoleCounter interface {
		CountByRole(ctx context.Context, role profile.Role) (int, error)
	}
)

type Dispatcher struct {
	profiles RoleCounter
	repo     childcare.Repository
	logger   core.Logger
	loc      *time.Location
	clock    core.Clock
}

func NewDispatcher(conf *core.Config, profiles RoleCounter, repo childcare.Repository, logger core.Logger) *Dispatcher {
	vala.BeginValidation().Validate(
		core.IsNotNil(conf, "conf"),
		core.IsNotNil(profiles, "profiles"),
		core.IsNotNil(repo, "repo"),
		core.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Dispatcher{
		profiles: profiles,
		repo:     repo,
		logger:   logger,
		loc:      conf.TimeZone,
		clock:    time.Now,
	}
}

// WithClock swaps the clock used to compute "today".
func (d *Dispatcher) WithClock(clock core.Clock) *Dispatcher {
	d.clock = clock
	return d
}

func (d *Dispatcher) today() time.Time {
	return d.clock.Today(d.loc)
}

// Dispatch builds the view matching the role of `prof`.
func (d *Dispatcher) Dispatch(ctx context.Context, prof profile.Profile) View {
	sw := &viewSwitch{ctx: ctx, d: d, prof: prof}
	profile.Dispatch(prof.Role, sw)
	return sw.view
}

type viewSwitch struct {
	ctx  context.Context
	d    *Dispatcher
	prof profile.Profile
	view View
}

func (s *viewSwitch) Admin()   { s.view = s.d.adminView(s.ctx, s.prof) }
func (s *viewSwitch) Teacher() { s.view = s.d.teacherView(s.ctx, s.prof) }
func (s *viewSwitch) Parent()  { s.view = s.d.parentView(s.ctx, s.prof) }
func (s *viewSwitch) Unknown(role profile.Role) {
	s.view = &InvalidRoleView{Kind: KindInvalidRole, Role: string(role), Notice: "Invalid role"}
}

// InvalidRoleView is rendered for a profile whose role the application does not serve.
type InvalidRoleView struct {
	Kind   string `json:"kind"`
	Role   string `json:"role"`
	Notice string `json:"notice"`
}

func (v *InvalidRoleView) ViewKind() string { return v.Kind }

// batch runs queries concurrently; failures are logged against the signed-in profile.
type batch struct {
	wg     sync.WaitGroup
	logger core.Logger
	prof   profile.Profile
}

func (d *Dispatcher) newBatch(prof profile.Profile) *batch {
	return &batch{logger: d.logger, prof: prof}
}

func (b *batch) Go(stat string, query func() error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := query(); err != nil {
			b.logger.Error(fmt.Sprintf("dashboard: fetching %s: %v", stat, err), err, b.prof)
		}
	}()
}

// Count stores the result of count in dst, which is left untouched on failure.
func (b *batch) Count(stat string, dst *int, count func() (int, error)) {
	b.Go(stat, func() error {
		n, err := count()
		if err != nil {
			return err
		}
		*dst = n
		return nil
	})
}

func (b *batch) Wait() { b.wg.Wait() }
