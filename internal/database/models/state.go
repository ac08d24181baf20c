package models

import "time"

// RecordState is the lifecycle partition a record lives in.
type RecordState string

const (
	StateActive      RecordState = "ACTIVE"
	StateSoftDeleted RecordState = "SOFT_DELETED"
)

// stateOf derives the state from a soft-delete marker.
func stateOf(deletedAt *time.Time) RecordState {
	if deletedAt == nil {
		return StateActive
	}
	return StateSoftDeleted
}
