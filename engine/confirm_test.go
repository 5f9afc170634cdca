package engine_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"gearbook/dao/model"
	"gearbook/engine"
	"gearbook/engine/enginetest"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func project(id uint, status model.Status, start, end time.Time) model.Project {
	return model.Project{
		Model:      gorm.Model{ID: id},
		Title:      "project",
		Status:     status,
		UsageStart: &start,
		UsageEnd:   &end,
	}
}

func equipment(id uint, name string, total int) model.Equipment {
	return model.Equipment{
		Model:         gorm.Model{ID: id},
		Name:          name,
		TotalQuantity: total,
	}
}

func item(projectID, equipmentID uint, qty int) model.ProjectItem {
	return model.ProjectItem{
		ProjectID:   projectID,
		EquipmentID: equipmentID,
		Quantity:    qty,
	}
}

func TestConfirmSuccess(t *testing.T) {
	st := enginetest.NewStore()
	st.AddEquipment(equipment(1, "mixer", 2))
	st.AddProject(project(1, model.StatusDraft, ts(9, 0), ts(17, 0)))
	st.AddItem(item(1, 1, 2))

	co := engine.NewCoordinator(st)
	require.NoError(t, co.Confirm(context.Background(), 1))

	p, ok := st.Project(1)
	require.True(t, ok)
	require.Equal(t, model.StatusConfirmed, p.Status)
}

func TestConfirmNoItemsSucceeds(t *testing.T) {
	st := enginetest.NewStore()
	st.AddProject(project(1, model.StatusDraft, ts(9, 0), ts(17, 0)))

	co := engine.NewCoordinator(st)
	require.NoError(t, co.Confirm(context.Background(), 1))

	p, _ := st.Project(1)
	require.Equal(t, model.StatusConfirmed, p.Status)
}

func TestConfirmShortageLeavesDraftAndReportsAllRows(t *testing.T) {
	st := enginetest.NewStore()
	st.AddEquipment(equipment(1, "mixer", 2))
	st.AddEquipment(equipment(2, "truss", 4))
	st.AddEquipment(equipment(3, "cable drum", 50))

	st.AddProject(project(1, model.StatusConfirmed, ts(9, 0), ts(17, 0)))
	st.AddItem(item(1, 1, 2))
	st.AddItem(item(1, 2, 3))

	st.AddProject(project(2, model.StatusDraft, ts(10, 0), ts(12, 0)))
	st.AddItem(item(2, 1, 1))
	st.AddItem(item(2, 2, 2))
	st.AddItem(item(2, 3, 10))

	co := engine.NewCoordinator(st)
	err := co.Confirm(context.Background(), 2)

	var shortage *engine.ShortageError
	require.ErrorAs(t, err, &shortage)
	// Both short rows, ascending by equipment id; the satisfiable cable
	// drum row is absent.
	require.Len(t, shortage.Shortages, 2)
	require.Equal(t, uint(1), shortage.Shortages[0].EquipmentID)
	require.Equal(t, 0, shortage.Shortages[0].Available)
	require.Equal(t, 1, shortage.Shortages[0].ShortageAmount)
	require.Equal(t, uint(2), shortage.Shortages[1].EquipmentID)
	require.Equal(t, 1, shortage.Shortages[1].Available)
	require.Equal(t, 1, shortage.Shortages[1].ShortageAmount)

	p, _ := st.Project(2)
	require.Equal(t, model.StatusDraft, p.Status)
}

func TestConfirmTouchingBookingDoesNotBlock(t *testing.T) {
	st := enginetest.NewStore()
	st.AddEquipment(equipment(1, "mixer", 3))

	// Confirmed booking ends exactly when the draft starts.
	st.AddProject(project(1, model.StatusConfirmed, ts(8, 0), ts(10, 0)))
	st.AddItem(item(1, 1, 3))

	st.AddProject(project(2, model.StatusDraft, ts(10, 0), ts(12, 0)))
	st.AddItem(item(2, 1, 3))

	co := engine.NewCoordinator(st)
	require.NoError(t, co.Confirm(context.Background(), 2))
}

func TestConfirmCancelledIsTerminal(t *testing.T) {
	st := enginetest.NewStore()
	st.AddProject(project(1, model.StatusCancelled, ts(9, 0), ts(17, 0)))

	co := engine.NewCoordinator(st)
	err := co.Confirm(context.Background(), 1)
	require.ErrorIs(t, err, engine.ErrAlreadyTerminal)

	p, _ := st.Project(1)
	require.Equal(t, model.StatusCancelled, p.Status)
}

func TestConfirmConfirmedIsIdempotent(t *testing.T) {
	st := enginetest.NewStore()
	st.AddEquipment(equipment(1, "mixer", 3))
	st.AddProject(project(1, model.StatusDraft, ts(9, 0), ts(17, 0)))
	st.AddItem(item(1, 1, 3))

	co := engine.NewCoordinator(st)
	require.NoError(t, co.Confirm(context.Background(), 1))
	// Second confirm is a benign no-op; the project must not start
	// counting its own committed rows against itself.
	require.NoError(t, co.Confirm(context.Background(), 1))

	rows, err := co.Availability(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 0, rows[0].Used)
	require.False(t, rows[0].Shortage)
}

func TestConfirmUnknownProject(t *testing.T) {
	st := enginetest.NewStore()
	co := engine.NewCoordinator(st)
	require.ErrorIs(t, co.Confirm(context.Background(), 42), engine.ErrNotFound)
}

func TestConfirmMissingInterval(t *testing.T) {
	st := enginetest.NewStore()
	st.AddProject(model.Project{Model: gorm.Model{ID: 1}, Status: model.StatusDraft})

	co := engine.NewCoordinator(st)
	require.ErrorIs(t, co.Confirm(context.Background(), 1), engine.ErrMissingInterval)
}

func TestConfirmUnknownEquipment(t *testing.T) {
	st := enginetest.NewStore()
	st.AddProject(project(1, model.StatusDraft, ts(9, 0), ts(17, 0)))
	st.AddItem(item(1, 99, 1))

	co := engine.NewCoordinator(st)
	require.ErrorIs(t, co.Confirm(context.Background(), 1), engine.ErrNotFound)

	p, _ := st.Project(1)
	require.Equal(t, model.StatusDraft, p.Status)
}

func TestConcurrentConfirmExactlyOneWins(t *testing.T) {
	// total=5, A and B both need 3 over overlapping intervals: one commits,
	// the other must see required=3, available=2.
	st := enginetest.NewStore()
	st.AddEquipment(equipment(1, "LED panel", 5))
	st.AddProject(project(1, model.StatusDraft, ts(9, 0), ts(17, 0)))
	st.AddProject(project(2, model.StatusDraft, ts(10, 0), ts(18, 0)))
	st.AddItem(item(1, 1, 3))
	st.AddItem(item(2, 1, 3))

	co := engine.NewCoordinator(st)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = co.Confirm(context.Background(), uint(i+1))
		}(i)
	}
	wg.Wait()

	var winners, losers int
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		losers++
		var shortage *engine.ShortageError
		require.ErrorAs(t, err, &shortage)
		require.Len(t, shortage.Shortages, 1)
		require.Equal(t, 3, shortage.Shortages[0].Required)
		require.Equal(t, 2, shortage.Shortages[0].Available)
		require.Equal(t, 1, shortage.Shortages[0].ShortageAmount)
	}
	require.Equal(t, 1, winners)
	require.Equal(t, 1, losers)
}

// TestConfirmInvariantUnderRandomConcurrency hammers the coordinator with
// random overlapping demands and then checks the global consistency
// invariant: at every instant, confirmed usage never exceeds any equipment
// total.
func TestConfirmInvariantUnderRandomConcurrency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	st := enginetest.NewStore()
	totals := map[uint]int{1: 5, 2: 3, 3: 8}
	for id, total := range totals {
		st.AddEquipment(equipment(id, "equipment", total))
	}

	base := ts(0, 0)
	const projects = 40
	for pid := uint(1); pid <= projects; pid++ {
		start := base.Add(time.Duration(rng.Intn(7*24)) * time.Hour)
		end := start.Add(time.Duration(1+rng.Intn(48)) * time.Hour)
		st.AddProject(project(pid, model.StatusDraft, start, end))
		for eid := uint(1); eid <= 3; eid++ {
			if rng.Intn(2) == 0 {
				st.AddItem(item(pid, eid, 1+rng.Intn(4)))
			}
		}
	}

	co := engine.NewCoordinator(st)
	errs := make([]error, projects)
	var wg sync.WaitGroup
	for pid := uint(1); pid <= projects; pid++ {
		wg.Add(1)
		go func(pid uint) {
			defer wg.Done()
			errs[pid-1] = co.Confirm(context.Background(), pid)
		}(pid)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			var shortage *engine.ShortageError
			require.ErrorAs(t, err, &shortage)
		}
	}

	// Collect confirmed demand lines and check usage at every interval
	// start (the maximum concurrent sum changes only at start instants).
	type line struct {
		equipmentID uint
		qty         int
		start, end  time.Time
	}
	var lines []line
	var instants []time.Time
	for pid := uint(1); pid <= projects; pid++ {
		p, ok := st.Project(pid)
		require.True(t, ok)
		if p.Status != model.StatusConfirmed {
			continue
		}
		snapStart, snapEnd := *p.UsageStart, *p.UsageEnd
		instants = append(instants, snapStart)
		rows, err := co.Availability(context.Background(), pid)
		require.NoError(t, err)
		for _, r := range rows {
			lines = append(lines, line{r.EquipmentID, r.Required, snapStart, snapEnd})
		}
	}
	for _, at := range instants {
		sums := map[uint]int{}
		for _, l := range lines {
			if !l.start.After(at) && l.end.After(at) {
				sums[l.equipmentID] += l.qty
			}
		}
		for eid, sum := range sums {
			require.LessOrEqual(t, sum, totals[eid], "equipment %d over-allocated at %v", eid, at)
		}
	}
}
