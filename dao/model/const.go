package model

// Project lifecycle status. Draft is the initial state; confirmed and
// cancelled are terminal for the conflict engine. Only confirmed projects
// count against shared equipment stock.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// User role in the platform
type Role uint8

const (
	_ Role = iota
	RoleStaff
	RoleAdmin
)
