package chore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/database"
	"github.com/dukerupert/chorecore/internal/events"
	"github.com/dukerupert/chorecore/internal/model"
	"github.com/dukerupert/chorecore/internal/store"
)

// Saturday Feb 7 2026 and Tuesday Feb 3 2026.
const (
	saturday = "2026-02-07"
	tuesday  = "2026-02-03"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Type
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	svc      *Service
	chores   *store.ChoreStore
	profiles *store.ProfileStore
	pub      *recordingPublisher
	admin    auth.Caller
	alex     auth.Caller
	kim      auth.Caller
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	accounts := store.NewAccountStore(db)
	profiles := store.NewProfileStore(db)

	newCaller := func(email string, profile *model.UserProfile) auth.Caller {
		return auth.Caller{Identity: auth.Identity{UserID: profile.UserID, Email: email}, Profile: profile}
	}

	adminAcct, err := accounts.Create(ctx, "pat@example.com", "hash")
	if err != nil {
		t.Fatalf("create admin account: %v", err)
	}
	house, adminProfile, err := store.NewHouseStore(db).CreateWithAdmin(ctx, "Home", adminAcct.ID, "Pat")
	if err != nil {
		t.Fatalf("create house: %v", err)
	}

	join := func(email, name string) auth.Caller {
		a, err := accounts.Create(ctx, email, "hash")
		if err != nil {
			t.Fatalf("create account: %v", err)
		}
		p, err := profiles.Create(ctx, a.ID, house.ID, name, model.RoleMember)
		if err != nil {
			t.Fatalf("create profile: %v", err)
		}
		return newCaller(email, p)
	}

	env := &testEnv{
		chores:   store.NewChoreStore(db),
		profiles: profiles,
		pub:      &recordingPublisher{},
		admin:    newCaller(adminAcct.Email, adminProfile),
	}
	env.alex = join("alex@example.com", "Alex")
	env.kim = join("kim@example.com", "Kim")
	env.svc = NewService(
		store.NewTemplateStore(db),
		env.chores,
		profiles,
		env.pub,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return env
}

func (env *testEnv) weekdayTemplate(t *testing.T) *model.RecurringTask {
	t.Helper()
	tmpl, err := env.svc.CreateTemplate(context.Background(), env.admin, model.RecurringTask{
		Title:      "Feed the cat",
		Assignee:   "Alex",
		Points:     10,
		Difficulty: model.DifficultyEasy,
		Recurrence: model.RecurrenceWeekdays,
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return tmpl
}

func (env *testEnv) points(t *testing.T, c auth.Caller) int {
	t.Helper()
	p, err := env.profiles.Get(context.Background(), c.UserID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	return p.Points
}

func TestGeneratedID(t *testing.T) {
	d, _ := model.ParseDate(tuesday)
	if got := GeneratedID("tmpl-1", d); got != "tmpl-1-2026-02-03" {
		t.Errorf("GeneratedID = %q, want %q", got, "tmpl-1-2026-02-03")
	}
}

func TestPlanCopiesTemplateFields(t *testing.T) {
	caller := auth.Caller{
		Identity: auth.Identity{UserID: "u1"},
		Profile:  &model.UserProfile{UserID: "u1", HouseID: "h1"},
	}
	templates := []model.RecurringTask{
		{ID: "a", Title: "A", Assignee: "Alex", Points: 10, Emoji: "🐈", ColorTheme: "blue",
			Difficulty: model.DifficultyEasy, Recurrence: model.RecurrenceDaily},
		{ID: "b", Title: "B", Recurrence: model.RecurrenceWeekends, Difficulty: model.DifficultyEasy},
	}
	d, _ := model.ParseDate(tuesday)

	got := Plan(templates, caller, d)
	if len(got) != 1 {
		t.Fatalf("planned = %d, want 1", len(got))
	}
	c := got[0]
	if c.ID != "a-2026-02-03" || c.Date != tuesday {
		t.Errorf("id/date = %q/%q", c.ID, c.Date)
	}
	if c.Status != model.StatusIncomplete {
		t.Errorf("status = %q, want incomplete", c.Status)
	}
	if c.HouseID != "h1" || c.CreatedBy != "u1" {
		t.Errorf("house/creator = %q/%q, want h1/u1", c.HouseID, c.CreatedBy)
	}
	if c.Emoji != "🐈" || c.ColorTheme != "blue" || c.Assignee != "Alex" || c.Points != 10 {
		t.Errorf("copied fields = %+v", c)
	}
	if c.RecurringTaskID == nil || *c.RecurringTaskID != "a" {
		t.Errorf("recurring task id = %v, want a", c.RecurringTaskID)
	}
}

func TestPlanSameTemplateSameID(t *testing.T) {
	caller := auth.Caller{Identity: auth.Identity{UserID: "u1"}, Profile: &model.UserProfile{HouseID: "h1"}}
	tmpl := []model.RecurringTask{{ID: "x", Recurrence: model.RecurrenceDaily, Difficulty: model.DifficultyEasy}}
	d, _ := model.ParseDate(tuesday)

	a := Plan(tmpl, caller, d)
	b := Plan(tmpl, caller, d)
	if a[0].ID != b[0].ID || a[0].ID != "x-"+tuesday {
		t.Errorf("ids = %q, %q, want x-%s", a[0].ID, b[0].ID, tuesday)
	}
}

func TestWeekdayTemplateScenario(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	tmpl := env.weekdayTemplate(t)

	sat, err := env.svc.Generate(ctx, env.admin, saturday)
	if err != nil {
		t.Fatalf("generate saturday: %v", err)
	}
	if len(sat.Chores) != 0 || sat.AlreadyGenerated {
		t.Fatalf("saturday = %+v, want zero new chores", sat)
	}

	tue, err := env.svc.Generate(ctx, env.admin, tuesday)
	if err != nil {
		t.Fatalf("generate tuesday: %v", err)
	}
	if len(tue.Chores) != 1 {
		t.Fatalf("tuesday chores = %d, want 1", len(tue.Chores))
	}
	c := tue.Chores[0]
	if c.ID != tmpl.ID+"-"+tuesday {
		t.Errorf("id = %q, want %q", c.ID, tmpl.ID+"-"+tuesday)
	}
	if c.Status != model.StatusIncomplete || c.Points != 10 {
		t.Errorf("status/points = %q/%d, want incomplete/10", c.Status, c.Points)
	}
}

func TestSubmitAndApproveScenario(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)

	res, err := env.svc.Generate(ctx, env.admin, tuesday)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	id := res.Chores[0].ID

	submitted, err := env.svc.Toggle(ctx, env.alex, id)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if submitted.Status != model.StatusPendingApproval {
		t.Errorf("status = %q, want pending_approval", submitted.Status)
	}
	if submitted.CompletedBy == nil || *submitted.CompletedBy != env.alex.UserID {
		t.Errorf("completed_by = %v, want %s", submitted.CompletedBy, env.alex.UserID)
	}

	before := env.points(t, env.alex)
	approved, err := env.svc.Approve(ctx, env.admin, id, 15)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Chore.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", approved.Chore.Status)
	}
	if approved.Chore.AwardedPoints == nil || *approved.Chore.AwardedPoints != 15 {
		t.Errorf("awarded = %v, want 15", approved.Chore.AwardedPoints)
	}
	if approved.CreditedUserID != env.alex.UserID {
		t.Errorf("credited = %q, want alex", approved.CreditedUserID)
	}
	if after := env.points(t, env.alex); after != before+15 {
		t.Errorf("alex points = %d, want %d", after, before+15)
	}

	want := []events.Type{events.ChoresGenerated, events.ChoreSubmitted, events.ChoreApproved}
	got := env.pub.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)

	first, err := env.svc.Generate(ctx, env.admin, tuesday)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := env.svc.Generate(ctx, env.admin, tuesday)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if !second.AlreadyGenerated {
		t.Error("expected second call to report already generated")
	}
	if len(first.Chores) != len(second.Chores) {
		t.Fatalf("chores = %d then %d", len(first.Chores), len(second.Chores))
	}
	for i := range first.Chores {
		if first.Chores[i].ID != second.Chores[i].ID {
			t.Errorf("chore[%d] = %q then %q", i, first.Chores[i].ID, second.Chores[i].ID)
		}
	}

	all, err := env.chores.ListByHouse(ctx, env.admin.HouseID(), tuesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("stored chores = %d, want 1", len(all))
	}
}

func TestGenerateConcurrentCallsDoNotDuplicate(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.Generate(ctx, env.admin, tuesday); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("generate: %v", err)
	}

	all, err := env.chores.ListByHouse(ctx, env.admin.HouseID(), tuesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("stored chores = %d, want 1", len(all))
	}
}

func TestGenerateOncePerHouse(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)

	first, err := env.svc.Generate(ctx, env.admin, tuesday)
	if err != nil {
		t.Fatalf("admin generate: %v", err)
	}
	if first.AlreadyGenerated || len(first.Chores) != 1 {
		t.Fatalf("admin generate = %+v, want 1 new chore", first)
	}

	second, err := env.svc.Generate(ctx, env.alex, tuesday)
	if err != nil {
		t.Fatalf("member generate: %v", err)
	}
	if !second.AlreadyGenerated {
		t.Error("expected member call to report already generated")
	}
	if len(second.Chores) != 1 || second.Chores[0].ID != first.Chores[0].ID {
		t.Errorf("member chores = %+v, want [%s]", second.Chores, first.Chores[0].ID)
	}

	want := []events.Type{events.ChoresGenerated}
	if got := env.pub.types(); len(got) != 1 || got[0] != want[0] {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestGenerateKeepsDeletedChoreDeleted(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)

	res, err := env.svc.Generate(ctx, env.admin, tuesday)
	if err != nil {
		t.Fatalf("admin generate: %v", err)
	}
	if err := env.svc.Delete(ctx, env.admin, res.Chores[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, c := range []auth.Caller{env.alex, env.admin} {
		res, err := env.svc.Generate(ctx, c, tuesday)
		if err != nil {
			t.Fatalf("generate as %s: %v", c.DisplayName(), err)
		}
		if !res.AlreadyGenerated || len(res.Chores) != 0 {
			t.Errorf("generate as %s = %+v, want already generated with no chores", c.DisplayName(), res)
		}
	}

	all, err := env.chores.ListByHouse(ctx, env.admin.HouseID(), tuesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("stored chores = %d, want 0 after delete", len(all))
	}
}

func TestGenerateEmptyDayStaysOpen(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)

	res, err := env.svc.Generate(ctx, env.admin, saturday)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.AlreadyGenerated || len(res.Chores) != 0 {
		t.Fatalf("saturday = %+v, want nothing generated", res)
	}

	if _, err := env.svc.CreateTemplate(ctx, env.admin, model.RecurringTask{
		Title:      "Water plants",
		Assignee:   "Kim",
		Difficulty: model.DifficultyEasy,
		Recurrence: model.RecurrenceWeekends,
	}); err != nil {
		t.Fatalf("create template: %v", err)
	}

	res, err = env.svc.Generate(ctx, env.kim, saturday)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.AlreadyGenerated || len(res.Chores) != 1 {
		t.Errorf("saturday after new template = %+v, want 1 new chore", res)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	var ve *ValidationError
	if _, err := env.svc.Generate(ctx, env.admin, "Feb 3"); !errors.As(err, &ve) {
		t.Errorf("bad date err = %v, want *ValidationError", err)
	}

	unprovisioned := auth.Caller{Identity: auth.Identity{UserID: "new"}}
	if _, err := env.svc.Generate(ctx, unprovisioned, tuesday); !errors.Is(err, auth.ErrUnprovisioned) {
		t.Errorf("unprovisioned err = %v, want ErrUnprovisioned", err)
	}
}

func TestCustomTemplateWithoutDaysRejected(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	_, err := env.svc.CreateTemplate(ctx, env.admin, model.RecurringTask{
		Title:      "Water plants",
		Difficulty: model.DifficultyEasy,
		Recurrence: model.RecurrenceCustom,
		CustomDays: []int{},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}

	templates, err := env.svc.ListTemplates(ctx, env.admin)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 0 {
		t.Errorf("templates = %d, want 0", len(templates))
	}
}

func TestMemberCannotManageTemplates(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	tmpl := env.weekdayTemplate(t)

	if _, err := env.svc.CreateTemplate(ctx, env.alex, *tmpl); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("create err = %v, want ErrNotAdmin", err)
	}
	if _, err := env.svc.UpdateTemplate(ctx, env.alex, *tmpl); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("update err = %v, want ErrNotAdmin", err)
	}
	if err := env.svc.DeleteTemplate(ctx, env.alex, tmpl.ID); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("delete err = %v, want ErrNotAdmin", err)
	}
}

func TestDeleteTemplateKeepsChores(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	tmpl := env.weekdayTemplate(t)

	if _, err := env.svc.Generate(ctx, env.admin, tuesday); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := env.svc.DeleteTemplate(ctx, env.admin, tmpl.ID); err != nil {
		t.Fatalf("delete template: %v", err)
	}

	chores, err := env.svc.List(ctx, env.admin, tuesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chores) != 1 {
		t.Errorf("chores = %d, want 1 after template delete", len(chores))
	}
	if err := env.svc.DeleteTemplate(ctx, env.admin, tmpl.ID); !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("second delete err = %v, want ErrTemplateMissing", err)
	}
}

func TestToggleRevertsPending(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID

	if _, err := env.svc.Toggle(ctx, env.alex, id); err != nil {
		t.Fatalf("submit: %v", err)
	}
	reverted, err := env.svc.Toggle(ctx, env.alex, id)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.Status != model.StatusIncomplete {
		t.Errorf("status = %q, want incomplete", reverted.Status)
	}
	if reverted.ApprovedAt != nil || reverted.AwardedPoints != nil {
		t.Error("revert must not touch approval fields")
	}
}

func TestCompletedChoreRejectsToggleAndApprove(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID

	if _, err := env.svc.Toggle(ctx, env.alex, id); err != nil {
		t.Fatalf("submit: %v", err)
	}
	done, err := env.svc.Approve(ctx, env.admin, id, 10)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	balance := env.points(t, env.alex)

	for _, caller := range []auth.Caller{env.alex, env.admin} {
		if _, err := env.svc.Toggle(ctx, caller, id); !errors.Is(err, ErrAlreadyApproved) {
			t.Errorf("toggle err = %v, want ErrAlreadyApproved", err)
		}
	}
	if _, err := env.svc.Approve(ctx, env.admin, id, 99); !errors.Is(err, ErrAlreadyApproved) {
		t.Errorf("approve err = %v, want ErrAlreadyApproved", err)
	}

	after, err := env.chores.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if after.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", after.Status)
	}
	if *after.AwardedPoints != 10 {
		t.Errorf("awarded = %d, want 10", *after.AwardedPoints)
	}
	if !after.ApprovedAt.Equal(*done.Chore.ApprovedAt) {
		t.Errorf("approved_at changed: %v -> %v", done.Chore.ApprovedAt, after.ApprovedAt)
	}
	if got := env.points(t, env.alex); got != balance {
		t.Errorf("alex points = %d, want %d", got, balance)
	}
}

func TestMemberCannotApprove(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID

	// Rejected while incomplete, pending, and for a missing chore alike.
	if _, err := env.svc.Approve(ctx, env.alex, id, 10); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("incomplete err = %v, want ErrNotAdmin", err)
	}
	if _, err := env.svc.Toggle(ctx, env.alex, id); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Approve(ctx, env.alex, id, 10); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("pending err = %v, want ErrNotAdmin", err)
	}
	if _, err := env.svc.Approve(ctx, env.kim, "missing", 10); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("missing err = %v, want ErrNotAdmin", err)
	}

	c, _ := env.chores.GetByID(ctx, id)
	if c.Status != model.StatusPendingApproval {
		t.Errorf("status = %q, want pending_approval", c.Status)
	}
}

func TestMemberCannotToggleOthersChore(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID

	if _, err := env.svc.Toggle(ctx, env.kim, id); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	c, _ := env.chores.GetByID(ctx, id)
	if c.Status != model.StatusIncomplete {
		t.Errorf("status = %q, want incomplete", c.Status)
	}

	// Admins may toggle on a member's behalf.
	if _, err := env.svc.Toggle(ctx, env.admin, id); err != nil {
		t.Errorf("admin toggle: %v", err)
	}
}

func TestApproveRequiresSubmission(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID

	if _, err := env.svc.Approve(ctx, env.admin, id, 10); !errors.Is(err, ErrNotSubmitted) {
		t.Errorf("err = %v, want ErrNotSubmitted", err)
	}

	if _, err := env.svc.Toggle(ctx, env.alex, id); err != nil {
		t.Fatalf("submit: %v", err)
	}
	var ve *ValidationError
	if _, err := env.svc.Approve(ctx, env.admin, id, -1); !errors.As(err, &ve) {
		t.Errorf("negative points err = %v, want *ValidationError", err)
	}
}

func TestApproveZeroPoints(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID
	if _, err := env.svc.Toggle(ctx, env.alex, id); err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := env.svc.Approve(ctx, env.admin, id, 0)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Chore.AwardedPoints == nil || *got.Chore.AwardedPoints != 0 {
		t.Errorf("awarded = %v, want 0", got.Chore.AwardedPoints)
	}
}

func TestApproveCreditsSubmitterWhenAssigneeUnknown(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	c, err := env.svc.CreateOneOff(ctx, env.admin, model.Chore{
		Title: "Wash car", Assignee: "Whoever", Difficulty: model.DifficultyMedium, Date: tuesday,
	})
	if err != nil {
		t.Fatalf("create one-off: %v", err)
	}
	if c.RecurringTaskID != nil {
		t.Error("one-off chore must not reference a template")
	}

	if _, err := env.svc.Toggle(ctx, env.admin, c.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := env.svc.Approve(ctx, env.admin, c.ID, 25)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.CreditedUserID != env.admin.UserID {
		t.Errorf("credited = %q, want admin", got.CreditedUserID)
	}
	if got.Balance != 25 {
		t.Errorf("balance = %d, want 25", got.Balance)
	}
}

func TestChoresScopedToHouse(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID

	outsider := auth.Caller{
		Identity: auth.Identity{UserID: "other"},
		Profile:  &model.UserProfile{UserID: "other", HouseID: "elsewhere", DisplayName: "Alex", Role: model.RoleAdmin},
	}
	if _, err := env.svc.Toggle(ctx, outsider, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle err = %v, want ErrNotFound", err)
	}
	if _, err := env.svc.Approve(ctx, outsider, id, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("approve err = %v, want ErrNotFound", err)
	}
	if err := env.svc.Delete(ctx, outsider, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete err = %v, want ErrNotFound", err)
	}
}

func TestPendingQueueAndDelete(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.weekdayTemplate(t)
	res, _ := env.svc.Generate(ctx, env.admin, tuesday)
	id := res.Chores[0].ID

	if _, err := env.svc.ListPending(ctx, env.alex); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("member pending err = %v, want ErrNotAdmin", err)
	}
	if _, err := env.svc.Toggle(ctx, env.alex, id); err != nil {
		t.Fatalf("submit: %v", err)
	}
	pending, err := env.svc.ListPending(ctx, env.admin)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Errorf("pending = %+v, want [%s]", pending, id)
	}

	if err := env.svc.Delete(ctx, env.alex, id); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("member delete err = %v, want ErrNotAdmin", err)
	}
	if err := env.svc.Delete(ctx, env.admin, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.svc.Delete(ctx, env.admin, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
