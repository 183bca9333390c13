package boards

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintboard/internal/metrics"
	"sprintboard/internal/models"
	"sprintboard/internal/sprints"
	"sprintboard/internal/storage/sqlite"
)

var (
	admin   = models.Actor{ID: "1", Role: models.RoleAdmin}
	student = models.Actor{ID: "2", Role: "student"}
)

func d(s string) models.Date { return models.MustParseDate(s) }

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) set(day string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = d(day).Time().Add(10 * time.Hour)
}

func newService(t *testing.T, today string) (*Service, *sqlite.Store, *clock) {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "sprintboard.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	c := &clock{}
	c.set(today)
	return New(store, nil, WithClock(c.now), WithMetrics(metrics.New())), store, c
}

func createBoard(t *testing.T, s *Service, count int) models.Board {
	t.Helper()

	b, err := s.CreateBoard(context.Background(), CreateBoardInput{
		Title:       "Capstone",
		StartDate:   d("2024-01-01"),
		EndDate:     d("2024-01-20"),
		SprintCount: count,
	})
	require.NoError(t, err)
	return b
}

func lengths(list []models.Sprint) []int {
	out := make([]int, len(list))
	for i, s := range list {
		out[i] = s.Range().Days()
	}
	return out
}

func columnStatuses(b models.Board) map[models.ColumnRole]models.ColumnStatus {
	out := make(map[models.ColumnRole]models.ColumnStatus, len(b.Columns))
	for _, c := range b.Columns {
		out[c.Role] = c.Status
	}
	return out
}

func TestCreateBoard(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	b := createBoard(t, s, 4)

	assert.Equal(t, []int{5, 5, 5, 5}, lengths(b.Sprints))
	assert.Equal(t, models.SprintPlanning, b.Sprints[0].Status)
	require.Len(t, b.Columns, 4)

	want := map[models.ColumnRole]models.ColumnStatus{
		models.RoleBacklog:       models.ColumnActive,
		models.RoleSprintBacklog: models.ColumnActive,
		models.RoleGeneric:       models.ColumnLocked,
		models.RoleDone:          models.ColumnLocked,
	}
	if diff := cmp.Diff(want, columnStatuses(b)); diff != "" {
		t.Errorf("column statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateBoardRejectsBadInput(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()

	_, err := s.CreateBoard(ctx, CreateBoardInput{Title: "x", StartDate: d("2024-02-01"), EndDate: d("2024-01-01"), SprintCount: 2})
	require.ErrorIs(t, err, models.ErrInvalidRange)

	_, err = s.CreateBoard(ctx, CreateBoardInput{Title: "x", StartDate: d("2024-01-01"), EndDate: d("2024-01-02"), SprintCount: 5})
	require.ErrorIs(t, err, models.ErrInvalidRange)

	_, err = s.CreateBoard(ctx, CreateBoardInput{Title: " ", StartDate: d("2024-01-01"), EndDate: d("2024-01-20")})
	require.ErrorIs(t, err, models.ErrInvalidInput)

	boards, err := s.ListBoards(ctx)
	require.NoError(t, err)
	assert.Empty(t, boards)
}

func TestAddAndRemoveSprint(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	added, err := s.AddSprint(ctx, b.ID, "Hardening")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4, 4, 4}, lengths(added.Sprints))
	assert.Equal(t, "Hardening", added.Sprints[4].Title)
	require.NoError(t, sprints.Validate(added.Range(), added.Sprints))

	removed, err := s.RemoveSprint(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.Len(t, removed.Sprints, 4)
	assert.Equal(t, "Sprint 3", removed.Sprints[1].Title)

	_, err = s.RemoveSprint(ctx, b.ID, 42)
	require.ErrorIs(t, err, models.ErrNotFound)
	var me *models.Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, b.ID, me.BoardID)

	stored, err := s.ListSprints(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, removed.Sprints, stored)

	_, err = s.AddSprint(ctx, 999, "")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateSprintOverride(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	active := models.SprintActive
	_, _, err := s.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &active}, student)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	stored, err := s.GetBoard(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SprintPlanning, stored.Sprints[0].Status, "rejected override must not persist")

	title := "Kickoff"
	updated, changes, err := s.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Title: &title, Status: &active}, admin)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "Kickoff", updated.Sprints[0].Title)
	assert.Equal(t, models.SprintActive, updated.Sprints[0].Status)
	for _, c := range updated.Columns {
		assert.Equal(t, models.ColumnActive, c.Status, "column %q", c.Title)
	}

	bad := models.SprintStatus("done")
	_, _, err = s.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &bad}, admin)
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateSprintSignOffCascades(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-18")
	ctx := context.Background()
	b := createBoard(t, s, 3)

	locked, checked := models.SprintLocked, models.SprintChecked
	for _, id := range []int{1, 2} {
		_, _, err := s.UpdateSprint(ctx, b.ID, id, SprintUpdate{Status: &locked}, admin)
		require.NoError(t, err)
	}

	updated, changes, err := s.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &checked}, admin)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, models.SprintPlanning, updated.Sprints[1].Status)

	current, ok, err := s.CurrentSprint(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, current.ID)
	assert.Equal(t, models.ColumnActive, columnStatuses(updated)[models.RoleSprintBacklog])
	assert.Equal(t, models.ColumnLocked, columnStatuses(updated)[models.RoleDone])
}

func TestUpdateBoardEndDateRedistributes(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	end := d("2024-01-28")
	title := "Capstone II"
	updated, err := s.UpdateBoard(ctx, b.ID, UpdateBoardInput{Title: &title, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, "Capstone II", updated.Title)
	assert.Equal(t, end, updated.EndDate)
	assert.Equal(t, []int{7, 7, 7, 7}, lengths(updated.Sprints))
	assert.Equal(t, models.SprintPlanning, updated.Sprints[0].Status)

	before := d("2023-12-01")
	_, err = s.UpdateBoard(ctx, b.ID, UpdateBoardInput{EndDate: &before})
	require.ErrorIs(t, err, models.ErrInvalidRange)

	empty := ""
	_, err = s.UpdateBoard(ctx, b.ID, UpdateBoardInput{Title: &empty})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSweepLocksExpiredSprints(t *testing.T) {
	t.Parallel()

	s, _, c := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	active := models.SprintActive
	_, _, err := s.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &active}, admin)
	require.NoError(t, err)
	untouched := createBoard(t, s, 2)

	c.set("2024-01-05")
	report, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.False(t, report.Changed(), "sprint ending today stays active")

	c.set("2024-01-06")
	report, err = s.Sweep(ctx)
	require.NoError(t, err)
	require.Len(t, report.Boards, 1)
	assert.Equal(t, b.ID, report.Boards[0].BoardID)
	assert.Equal(t, []models.StatusChange{{
		SprintID:  1,
		Title:     "Sprint 1",
		OldStatus: models.SprintActive,
		NewStatus: models.SprintLocked,
		StartDate: d("2024-01-01"),
		EndDate:   d("2024-01-05"),
	}}, report.Boards[0].Changes)

	swept, err := s.GetBoard(ctx, b.ID)
	require.NoError(t, err)
	for _, col := range swept.Columns {
		assert.Equal(t, models.ColumnLocked, col.Status, "column %q", col.Title)
	}

	other, err := s.GetBoard(ctx, untouched.ID)
	require.NoError(t, err)
	assert.Equal(t, untouched.Sprints, other.Sprints)

	logs, err := s.SweepLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, SweepLogName, logs[0].Name)
	assert.Contains(t, logs[0].Data, `"board_title":"Capstone"`)

	again, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.False(t, again.Changed())

	logs, err = s.SweepLogs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "a sweep without changes leaves no log")
}

// flakyStore fails reads of one board.
type flakyStore struct {
	*sqlite.Store
	failID int64
}

func (f flakyStore) GetBoard(ctx context.Context, id int64) (models.Board, error) {
	if id == f.failID {
		return models.Board{}, errors.New("disk on fire")
	}
	return f.Store.GetBoard(ctx, id)
}

func TestSweepContinuesPastFailingBoard(t *testing.T) {
	t.Parallel()

	seed, store, c := newService(t, "2024-01-03")
	ctx := context.Background()
	active := models.SprintActive

	var ids []int64
	for i := 0; i < 2; i++ {
		b := createBoard(t, seed, 2)
		_, _, err := seed.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &active}, admin)
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	c.set("2024-02-01")
	s := New(flakyStore{Store: store, failID: ids[0]}, nil, WithClock(c.now))
	report, err := s.Sweep(ctx)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, ids[0], report.Errors[0].BoardID)
	require.Len(t, report.Boards, 1)
	assert.Equal(t, ids[1], report.Boards[0].BoardID)
}

// logFailStore cannot write sweep logs.
type logFailStore struct {
	*sqlite.Store
}

func (logFailStore) InsertSweepLog(context.Context, models.SweepLog) (models.SweepLog, error) {
	return models.SweepLog{}, errors.New("read-only database")
}

func TestSweepCountsFailedRuns(t *testing.T) {
	t.Parallel()

	seed, store, c := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, seed, 2)
	active := models.SprintActive
	_, _, err := seed.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &active}, admin)
	require.NoError(t, err)

	c.set("2024-02-01")
	m := metrics.New()
	s := New(logFailStore{Store: store}, nil, WithClock(c.now), WithMetrics(m))

	_, err = s.Sweep(ctx)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepsTotal.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SweepsTotal.WithLabelValues("changed")))
}

func TestCardsRespectColumnLock(t *testing.T) {
	t.Parallel()

	s, _, c := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)
	backlog, progress, done := b.Columns[0], b.Columns[2], b.Columns[3]

	// Planning: only the backlogs accept cards.
	_, err := s.CreateCard(ctx, progress.ID, models.Card{Title: "Blocked", Points: 1})
	require.ErrorIs(t, err, models.ErrLocked)

	card, err := s.CreateCard(ctx, backlog.ID, models.Card{Title: "Login", Points: 5})
	require.NoError(t, err)

	_, err = s.MoveCard(ctx, card.ID, done.ID)
	require.ErrorIs(t, err, models.ErrLocked)

	active := models.SprintActive
	_, _, err = s.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &active}, admin)
	require.NoError(t, err)

	c.set("2024-01-04")
	moved, err := s.MoveCard(ctx, card.ID, done.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.StatusUpdatedAt)
	assert.Equal(t, d("2024-01-04"), models.DateOf(*moved.StatusUpdatedAt))

	locked, err := s.ToggleColumnLock(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnLocked, locked.Status)

	points := 8.0
	_, err = s.UpdateCard(ctx, card.ID, models.CardChanges{Points: &points})
	require.ErrorIs(t, err, models.ErrLocked)
	require.ErrorIs(t, s.DeleteCard(ctx, card.ID), models.ErrLocked)

	unlocked, err := s.ToggleColumnLock(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnActive, unlocked.Status)
	require.NoError(t, s.DeleteCard(ctx, card.ID))
}

func TestMoveCardAcrossBoards(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	a := createBoard(t, s, 1)
	b := createBoard(t, s, 1)

	card, err := s.CreateCard(ctx, a.Columns[0].ID, models.Card{Title: "Stray"})
	require.NoError(t, err)

	_, err = s.MoveCard(ctx, card.ID, b.Columns[0].ID)
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCreateColumnFollowsCurrentSprint(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	review, err := s.CreateColumn(ctx, b.ID, "Review", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGeneric, review.Role)
	assert.Equal(t, models.ColumnLocked, review.Status)

	_, err = s.CreateColumn(ctx, b.ID, "Odd", models.ColumnRole("archive"))
	require.ErrorIs(t, err, models.ErrInvalidInput)

	renamed, err := s.UpdateColumn(ctx, review.ID, "QA", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGeneric, renamed.Role)

	columns, err := s.ListColumns(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, columns, 5)

	require.NoError(t, s.DeleteColumn(ctx, review.ID))
}

func TestBoardKeepsOneDoneColumn(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)
	done := b.Columns[3]
	require.Equal(t, models.RoleDone, done.Role)

	_, err := s.CreateColumn(ctx, b.ID, "Also Done", models.RoleDone)
	require.ErrorIs(t, err, models.ErrInvalidInput)

	review, err := s.CreateColumn(ctx, b.ID, "Review", models.RoleGeneric)
	require.NoError(t, err)
	_, err = s.UpdateColumn(ctx, review.ID, "Review", models.RoleDone)
	require.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = s.UpdateColumn(ctx, done.ID, "Done", models.RoleGeneric)
	require.ErrorIs(t, err, models.ErrInvalidInput)
	require.ErrorIs(t, s.DeleteColumn(ctx, done.ID), models.ErrInvalidInput)

	renamed, err := s.UpdateColumn(ctx, done.ID, "Shipped", models.RoleDone)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", renamed.Title)

	columns, err := s.ListColumns(ctx, b.ID)
	require.NoError(t, err)
	count := 0
	for _, c := range columns {
		if c.IsDone() {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUpdateColumnRoleRecomputesStatus(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	// Planning: generic columns are locked, backlogs are open.
	review, err := s.CreateColumn(ctx, b.ID, "Review", "")
	require.NoError(t, err)
	require.Equal(t, models.ColumnLocked, review.Status)

	promoted, err := s.UpdateColumn(ctx, review.ID, "Ready", models.RoleSprintBacklog)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSprintBacklog, promoted.Role)
	assert.Equal(t, models.ColumnActive, promoted.Status)

	demoted, err := s.UpdateColumn(ctx, review.ID, "Ready", models.RoleGeneric)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnLocked, demoted.Status)
}

func TestColumnEditsDoNotBreakConcurrentSprintChanges(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	extra := make([]models.Column, 6)
	for i := range extra {
		col, err := s.CreateColumn(ctx, b.ID, "Lane", "")
		require.NoError(t, err)
		// Unlocked by hand, so the next cascade has to write it.
		extra[i], err = s.ToggleColumnLock(ctx, col.ID)
		require.NoError(t, err)
		require.Equal(t, models.ColumnActive, extra[i].Status)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2*len(extra))
	for _, col := range extra {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			errs <- s.DeleteColumn(ctx, id)
		}(col.ID)
		go func() {
			defer wg.Done()
			_, err := s.AddSprint(ctx, b.ID, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetBoard(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, got.Sprints, 4+len(extra))
	assert.Len(t, got.Columns, len(models.DefaultColumns()))
}

func TestNonWorkingDaysIncludeActiveVacation(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, CreateBoardInput{
		Title:          "Week",
		StartDate:      d("2024-01-01"),
		EndDate:        d("2024-01-07"),
		SprintCount:    1,
		NonWorkingDays: []models.Date{d("2024-01-03")},
	})
	require.NoError(t, err)

	v, err := s.ImportVacation(ctx, models.Vacation{SchoolYear: "2023/2024", VacationDates: []models.Date{d("2024-01-02")}})
	require.NoError(t, err)
	assert.Equal(t, models.VacationInactive, v.Status)

	days, err := s.NonWorkingDays(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Date{d("2024-01-03"), d("2024-01-06"), d("2024-01-07")}, days, "inactive vacations are ignored")

	_, err = s.ActivateVacation(ctx, v.ID)
	require.NoError(t, err)
	active, err := s.ActiveVacation(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, v.ID, active.ID)

	_, err = s.ActivateVacation(ctx, 999)
	require.ErrorIs(t, err, models.ErrNotFound)

	days, err = s.NonWorkingDays(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Date{d("2024-01-02"), d("2024-01-03"), d("2024-01-06"), d("2024-01-07")}, days)

	_, err = s.NonWorkingDays(ctx, 999)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestBurndown(t *testing.T) {
	t.Parallel()

	s, _, c := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 4)

	active := models.SprintActive
	_, _, err := s.UpdateSprint(ctx, b.ID, 1, SprintUpdate{Status: &active}, admin)
	require.NoError(t, err)

	card, err := s.CreateCard(ctx, b.Columns[0].ID, models.Card{Title: "Login", Points: 10})
	require.NoError(t, err)
	_, err = s.CreateCard(ctx, b.Columns[0].ID, models.Card{Title: "Signup", Points: 20})
	require.NoError(t, err)

	c.set("2024-01-09")
	_, err = s.MoveCard(ctx, card.ID, b.Columns[3].ID)
	require.NoError(t, err)

	board, err := s.Burndown(ctx, b.ID, 0)
	require.NoError(t, err)
	require.Len(t, board.Labels, 20)
	assert.Equal(t, 30.0, board.Actual[0])
	assert.Equal(t, 20.0, board.Actual[8])
	assert.Equal(t, 0.0, board.Ideal[19])

	sprint, err := s.Burndown(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 20, 20, 17, 14}, sprint.Ideal)
	assert.Equal(t, []float64{30, 30, 30, 20, 20}, sprint.Actual)

	_, err = s.Burndown(ctx, b.ID, 9)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestConcurrentAddsKeepCoverage(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b, err := s.CreateBoard(ctx, CreateBoardInput{
		Title:       "Busy",
		StartDate:   d("2024-01-01"),
		EndDate:     d("2024-06-30"),
		SprintCount: 2,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddSprint(ctx, b.ID, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.ListSprints(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	require.NoError(t, sprints.Validate(b.Range(), got))
}

func TestDeleteBoard(t *testing.T) {
	t.Parallel()

	s, _, _ := newService(t, "2024-01-03")
	ctx := context.Background()
	b := createBoard(t, s, 1)

	require.NoError(t, s.DeleteBoard(ctx, b.ID))
	require.ErrorIs(t, s.DeleteBoard(ctx, b.ID), models.ErrNotFound)

	_, _, err := s.CurrentSprint(ctx, b.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}
