package engine

import (
	"context"
	"sort"

	"gearbook/dao/model"
)

// Coordinator owns the draft -> confirmed transition. It is the only code
// path allowed to set a project confirmed; everything it does happens
// inside one unit of work on the interval store.
type Coordinator struct {
	store Store
}

func NewCoordinator(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// Confirm transitions a draft project to confirmed if and only if no
// required equipment is short at commit time.
//
// The race it closes: two projects concurrently read "enough stock" and
// both commit, jointly exceeding an equipment total. The project row lock
// serializes confirmations of the same project; the equipment row locks,
// always taken in ascending id order, serialize confirmations that share
// equipment and force the loser to re-read the winner's committed usage.
// Confirmations over disjoint equipment sets proceed in parallel.
//
// A confirmed project confirms again as a benign no-op. A cancelled one
// fails with ErrAlreadyTerminal. On shortage the unit of work aborts and
// the error carries the full shortage list.
func (co *Coordinator) Confirm(ctx context.Context, projectID uint) error {
	return co.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.ProjectForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		switch p.Status {
		case model.StatusConfirmed:
			// Re-running the check here would count the project against
			// itself through rows it already committed.
			return nil
		case model.StatusCancelled:
			return ErrAlreadyTerminal
		}

		iv, err := NewInterval(p.UsageStart, p.UsageEnd)
		if err != nil {
			return err
		}

		// Re-read inside the lock; a pre-fetched requirement list is the
		// classic check-then-act staleness bug.
		items, err := tx.Requirements(ctx, projectID)
		if err != nil {
			return err
		}
		required := sumRequired(items)
		if len(required) == 0 {
			return tx.SetStatus(ctx, projectID, model.StatusConfirmed)
		}

		ids := sortedIDs(required)
		equipment, err := tx.LockEquipment(ctx, ids)
		if err != nil {
			return err
		}
		if len(equipment) != len(ids) {
			return ErrNotFound
		}

		uses, err := tx.CommittedUse(ctx, projectID, ids)
		if err != nil {
			return err
		}

		snap := &Snapshot{
			Required: required,
			Names:    make(map[uint]string, len(equipment)),
			Totals:   make(map[uint]int, len(equipment)),
			Others:   uses,
		}
		for _, e := range equipment {
			snap.Names[e.ID] = e.Name
			snap.Totals[e.ID] = e.TotalQuantity
		}

		if shorts := shortOnly(Compute(iv, snap)); len(shorts) > 0 {
			return &ShortageError{Shortages: shorts}
		}
		return tx.SetStatus(ctx, projectID, model.StatusConfirmed)
	})
}

// Availability runs the read-only inspection path: same calculation as
// Confirm, over an unlocked snapshot. The result is advisory, a concurrent
// confirm can invalidate it; Confirm always re-checks under locks.
func (co *Coordinator) Availability(ctx context.Context, projectID uint) ([]Availability, error) {
	p, snap, err := co.store.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	iv, err := NewInterval(p.UsageStart, p.UsageEnd)
	if err != nil {
		return nil, err
	}
	return Compute(iv, snap), nil
}

func sumRequired(items []model.ProjectItem) map[uint]int {
	required := make(map[uint]int, len(items))
	for _, it := range items {
		required[it.EquipmentID] += it.Quantity
	}
	return required
}

func sortedIDs(required map[uint]int) []uint {
	ids := make([]uint, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
