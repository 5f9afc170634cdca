// Package enginetest provides an in-memory engine.Store for tests. InTx
// serializes units of work with a mutex and restores the previous state
// when the unit fails, mimicking the serialized, all-or-nothing behavior
// of the real database transaction.
package enginetest

import (
	"context"
	"sort"
	"sync"

	"gearbook/dao/model"
	"gearbook/engine"
)

type Store struct {
	mu        sync.Mutex
	projects  map[uint]*model.Project
	items     []model.ProjectItem
	equipment map[uint]*model.Equipment
}

func NewStore() *Store {
	return &Store{
		projects:  make(map[uint]*model.Project),
		equipment: make(map[uint]*model.Equipment),
	}
}

func (s *Store) AddProject(p model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = &p
}

func (s *Store) AddEquipment(e model.Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment[e.ID] = &e
}

func (s *Store) AddItem(it model.ProjectItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, it)
}

// Project returns a copy of the stored project for assertions.
func (s *Store) Project(id uint) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return model.Project{}, false
	}
	return *p, true
}

func (s *Store) InTx(ctx context.Context, fn func(tx engine.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.cloneState()
	if err := fn(&storeTx{s: s}); err != nil {
		s.projects = saved.projects
		s.items = saved.items
		s.equipment = saved.equipment
		return err
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context, projectID uint) (*model.Project, *engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, nil, engine.ErrNotFound
	}
	proj := *p

	snap := &engine.Snapshot{
		Required: make(map[uint]int),
		Names:    make(map[uint]string),
		Totals:   make(map[uint]int),
	}
	for _, it := range s.items {
		if it.ProjectID == projectID {
			snap.Required[it.EquipmentID] += it.Quantity
		}
	}
	ids := make([]uint, 0, len(snap.Required))
	for id := range snap.Required {
		ids = append(ids, id)
		if e, ok := s.equipment[id]; ok {
			snap.Names[id] = e.Name
			snap.Totals[id] = e.TotalQuantity
		}
	}
	snap.Others = s.committedUse(projectID, ids)
	return &proj, snap, nil
}

type storeState struct {
	projects  map[uint]*model.Project
	items     []model.ProjectItem
	equipment map[uint]*model.Equipment
}

func (s *Store) cloneState() storeState {
	st := storeState{
		projects:  make(map[uint]*model.Project, len(s.projects)),
		items:     append([]model.ProjectItem(nil), s.items...),
		equipment: make(map[uint]*model.Equipment, len(s.equipment)),
	}
	for id, p := range s.projects {
		cp := *p
		st.projects[id] = &cp
	}
	for id, e := range s.equipment {
		ce := *e
		st.equipment[id] = &ce
	}
	return st
}

func (s *Store) committedUse(excludeProjectID uint, equipmentIDs []uint) []engine.CommittedUse {
	wanted := make(map[uint]bool, len(equipmentIDs))
	for _, id := range equipmentIDs {
		wanted[id] = true
	}
	var uses []engine.CommittedUse
	for _, it := range s.items {
		if it.ProjectID == excludeProjectID || !wanted[it.EquipmentID] {
			continue
		}
		p, ok := s.projects[it.ProjectID]
		if !ok || p.Status != model.StatusConfirmed || p.UsageStart == nil || p.UsageEnd == nil {
			continue
		}
		uses = append(uses, engine.CommittedUse{
			EquipmentID: it.EquipmentID,
			Quantity:    it.Quantity,
			UsageStart:  *p.UsageStart,
			UsageEnd:    *p.UsageEnd,
		})
	}
	return uses
}

type storeTx struct {
	s *Store
}

func (t *storeTx) ProjectForUpdate(ctx context.Context, id uint) (*model.Project, error) {
	p, ok := t.s.projects[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *storeTx) Requirements(ctx context.Context, projectID uint) ([]model.ProjectItem, error) {
	var items []model.ProjectItem
	for _, it := range t.s.items {
		if it.ProjectID == projectID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].EquipmentID < items[j].EquipmentID })
	return items, nil
}

func (t *storeTx) LockEquipment(ctx context.Context, ids []uint) ([]model.Equipment, error) {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var equipment []model.Equipment
	for _, id := range sorted {
		if e, ok := t.s.equipment[id]; ok {
			equipment = append(equipment, *e)
		}
	}
	return equipment, nil
}

func (t *storeTx) CommittedUse(ctx context.Context, excludeProjectID uint, equipmentIDs []uint) ([]engine.CommittedUse, error) {
	return t.s.committedUse(excludeProjectID, equipmentIDs), nil
}

func (t *storeTx) SetStatus(ctx context.Context, projectID uint, status engine.Status) error {
	p, ok := t.s.projects[projectID]
	if !ok {
		return engine.ErrNotFound
	}
	p.Status = status
	return nil
}
