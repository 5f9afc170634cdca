package engine

import "sort"

// Availability is the per-equipment result of a feasibility check. JSON
// field names follow the wire contract of GET /api/shortages.
type Availability struct {
	EquipmentID    uint   `json:"equipment_id"`
	EquipmentName  string `json:"equipment_name"`
	Required       int    `json:"required"`
	Total          int    `json:"total"`
	Used           int    `json:"used"`
	Available      int    `json:"available"`
	ShortageAmount int    `json:"shortage_amount"`
	Shortage       bool   `json:"shortage"`
}

// Compute runs the availability calculation for a target interval over a
// snapshot of the store. It is pure: the same snapshot always yields the
// same rows, ordered ascending by equipment id. Only equipment the target
// actually requires appears in the result.
//
// used counts requirement rows of other confirmed projects whose interval
// overlaps the target interval under the half-open rule, so two bookings
// that merely touch never count against each other.
func Compute(target Interval, snap *Snapshot) []Availability {
	ids := make([]uint, 0, len(snap.Required))
	for id := range snap.Required {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	used := make(map[uint]int, len(ids))
	for _, u := range snap.Others {
		if Overlaps(u.UsageStart, u.UsageEnd, target.Start, target.End) {
			used[u.EquipmentID] += u.Quantity
		}
	}

	rows := make([]Availability, 0, len(ids))
	for _, id := range ids {
		required := snap.Required[id]
		total := snap.Totals[id]
		available := total - used[id]
		shortage := required - available
		if shortage < 0 {
			shortage = 0
		}
		rows = append(rows, Availability{
			EquipmentID:    id,
			EquipmentName:  snap.Names[id],
			Required:       required,
			Total:          total,
			Used:           used[id],
			Available:      available,
			ShortageAmount: shortage,
			Shortage:       required > available,
		})
	}
	return rows
}

// shortOnly filters a result down to the rows that are actually short.
func shortOnly(rows []Availability) []Availability {
	var shorts []Availability
	for _, r := range rows {
		if r.Shortage {
			shorts = append(shorts, r)
		}
	}
	return shorts
}
