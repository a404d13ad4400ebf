// Package audit is an append-only event sink. Events are written alongside
// most mutations and are never read back by this process.
package audit

import (
	"context"
	"time"

	"github.com/Tanish6738/project-management-sub001/logging"
)

// Event is one audit record.
type Event struct {
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
	Details    string
	CreatedAt  time.Time
}

// Recorder appends audit events. Implementations must not fail the calling
// request; a lost audit record is logged, not surfaced.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// LogRecorder writes audit events to the application log. Used when no
// Cassandra cluster is configured.
type LogRecorder struct{}

func (LogRecorder) Record(_ context.Context, event Event) {
	logging.Logger.Infof("Event ID: AUDIT_EVENT, Description: actor=%s action=%s target=%s/%s details=%s",
		event.ActorID, event.Action, event.TargetType, event.TargetID, event.Details)
}
