// Package telemetry records structured treasury events for off-chain
// indexers and operational auditing.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event names for every state-changing treasury operation.
const (
	EventTreasuryInitialized = "treasury_init"
	EventDeposit             = "deposit"
	EventWithdrawalProposed  = "withdraw_proposed"
	EventTxApproved          = "tx_approved"
	EventTxExecuted          = "tx_executed"
	EventBudgetUpdated       = "budget_updated"
	EventAllowanceGranted    = "allowance_granted"
	EventPause               = "pause"
	EventHighValueThreshold  = "high_value_threshold"
)

// Event is one recorded treasury event.
type Event struct {
	ID         string
	TreasuryID uint64
	Name       string
	Severity   Severity
	Actor      string
	Metadata   map[string]string
	Timestamp  time.Time
}

// Store persists telemetry events.
type Store interface {
	AppendTelemetryEvent(ctx context.Context, evt Event) error
	// ListTelemetryEvents returns the most recent limit events for a
	// treasury, newest first.
	ListTelemetryEvents(ctx context.Context, treasuryID uint64, limit int) ([]Event, error)
}

// Emitter records treasury events.
type Emitter struct {
	store Store
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store Store) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Severity == "" {
		evt.Severity = SeverityInfo
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}
