package dao

import (
	"context"
	"errors"

	"gearbook/dao/model"
	"gearbook/engine"
	"gearbook/logutils"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

// Store is the gorm-backed interval store. It implements engine.Store with
// postgres row locks: SELECT ... FOR UPDATE on the project row and on the
// referenced equipment rows.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn in one database transaction. Any error from fn rolls the
// whole transaction back, so a failed confirm never leaves a partial
// status change, and lock-wait timeouts surface as engine.ErrBusy.
func (s *Store) InTx(ctx context.Context, fn func(tx engine.Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storeTx{db: tx})
	})
	return mapLockError(err)
}

// Snapshot loads the unlocked view used by the read-only availability
// path: the project, its per-equipment demand, the equipment rows it
// references and the committed usage of other projects on those rows.
func (s *Store) Snapshot(ctx context.Context, projectID uint) (*model.Project, *engine.Snapshot, error) {
	db := s.db.WithContext(ctx)

	var p model.Project
	if err := db.First(&p, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, engine.ErrNotFound
		}
		return nil, nil, err
	}

	var items []model.ProjectItem
	if err := db.Where("project_id = ?", projectID).Order("equipment_id ASC").Find(&items).Error; err != nil {
		return nil, nil, err
	}

	snap := &engine.Snapshot{
		Required: make(map[uint]int, len(items)),
		Names:    make(map[uint]string, len(items)),
		Totals:   make(map[uint]int, len(items)),
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if _, seen := snap.Required[it.EquipmentID]; !seen {
			ids = append(ids, it.EquipmentID)
		}
		snap.Required[it.EquipmentID] += it.Quantity
	}
	if len(ids) == 0 {
		return &p, snap, nil
	}

	var equipment []model.Equipment
	if err := db.Where("id IN ?", ids).Order("id ASC").Find(&equipment).Error; err != nil {
		return nil, nil, err
	}
	for _, e := range equipment {
		snap.Names[e.ID] = e.Name
		snap.Totals[e.ID] = e.TotalQuantity
	}

	uses, err := committedUse(db, projectID, ids)
	if err != nil {
		return nil, nil, err
	}
	snap.Others = uses
	return &p, snap, nil
}

type storeTx struct {
	db *gorm.DB
}

func (t *storeTx) ProjectForUpdate(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *storeTx) Requirements(ctx context.Context, projectID uint) ([]model.ProjectItem, error) {
	var items []model.ProjectItem
	err := t.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("equipment_id ASC").
		Find(&items).Error
	return items, err
}

// LockEquipment takes FOR UPDATE locks on the given equipment rows. The
// ORDER BY id ASC is load-bearing: a fixed global lock order prevents
// lock-ordering deadlocks between two confirms sharing equipment.
func (t *storeTx) LockEquipment(ctx context.Context, ids []uint) ([]model.Equipment, error) {
	var equipment []model.Equipment
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&equipment).Error
	return equipment, err
}

func (t *storeTx) CommittedUse(ctx context.Context, excludeProjectID uint, equipmentIDs []uint) ([]engine.CommittedUse, error) {
	return committedUse(t.db.WithContext(ctx), excludeProjectID, equipmentIDs)
}

func (t *storeTx) SetStatus(ctx context.Context, projectID uint, status engine.Status) error {
	return t.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", projectID).
		Update("status", status).Error
}

// committedUse fetches the requirement rows of every other confirmed
// project on the given equipment, with each project's usage interval.
// Overlap with the target interval is decided by the engine, not here, so
// the overlap rule exists in exactly one place.
func committedUse(db *gorm.DB, excludeProjectID uint, equipmentIDs []uint) ([]engine.CommittedUse, error) {
	var uses []engine.CommittedUse
	err := db.Model(&model.ProjectItem{}).
		Select("project_items.equipment_id AS equipment_id, project_items.quantity AS quantity, projects.usage_start AS usage_start, projects.usage_end AS usage_end").
		Joins("JOIN projects ON projects.id = project_items.project_id").
		Where("projects.status = ?", model.StatusConfirmed).
		Where("projects.id <> ?", excludeProjectID).
		Where("projects.deleted_at IS NULL").
		Where("projects.usage_start IS NOT NULL AND projects.usage_end IS NOT NULL").
		Where("project_items.equipment_id IN ?", equipmentIDs).
		Scan(&uses).Error
	return uses, err
}

// mapLockError converts postgres lock contention failures into the
// retryable busy condition; everything else passes through untouched.
func mapLockError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgLockNotAvailable || pgErr.Code == pgDeadlockDetected {
			logutils.Log.WithFields(logutils.Fields{"code": pgErr.Code}).Warn("lock contention, transaction rolled back")
			return engine.ErrBusy
		}
	}
	return err
}
