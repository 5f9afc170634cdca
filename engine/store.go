package engine

import (
	"context"
	"time"

	"gearbook/dao/model"
)

// CommittedUse is one requirement row of another, confirmed project,
// together with that project's usage interval. The calculator decides
// overlap itself so the predicate lives in exactly one place.
type CommittedUse struct {
	EquipmentID uint
	Quantity    int
	UsageStart  time.Time
	UsageEnd    time.Time
}

// Snapshot is everything the availability calculator needs, fetched in one
// consistent read: the target's per-equipment demand, the equipment rows it
// references, and the committed usage of every other project on those rows.
type Snapshot struct {
	Required map[uint]int    // equipment id -> summed demand of the target
	Names    map[uint]string // equipment id -> catalog name
	Totals   map[uint]int    // equipment id -> total owned stock
	Others   []CommittedUse
}

// Tx is the locked view of the interval store inside one unit of work.
// Implementations must guarantee that ProjectForUpdate and LockEquipment
// take exclusive row locks held until the unit of work ends, and that
// LockEquipment locks in ascending equipment-id order regardless of the
// order of ids passed in.
type Tx interface {
	ProjectForUpdate(ctx context.Context, id uint) (*model.Project, error)
	Requirements(ctx context.Context, projectID uint) ([]model.ProjectItem, error)
	LockEquipment(ctx context.Context, ids []uint) ([]model.Equipment, error)
	CommittedUse(ctx context.Context, excludeProjectID uint, equipmentIDs []uint) ([]CommittedUse, error)
	SetStatus(ctx context.Context, projectID uint, status Status) error
}

// Status re-exported so store implementations don't need a second import.
type Status = model.Status

// Store is the interval store collaborator. InTx runs fn inside a single
// atomic, isolated unit of work: if fn returns an error every write and
// every lock taken inside is rolled back or released. Snapshot serves the
// read-only inspection path and takes no locks.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Snapshot(ctx context.Context, projectID uint) (*model.Project, *Snapshot, error)
}
