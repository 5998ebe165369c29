// Package types provides common value types used across the mint ledgers.
package types

import "time"

// Entity carries the creation and last-transition timestamps of a ledger
// instance. Both come from the settlement clock, never the wall clock.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates an Entity stamped at t.
func NewEntity(t time.Time) Entity {
	t = t.UTC()
	return Entity{
		CreatedAt: t,
		UpdatedAt: t,
	}
}

// Touch records a transition at t.
func (e *Entity) Touch(t time.Time) {
	e.UpdatedAt = t.UTC()
}
