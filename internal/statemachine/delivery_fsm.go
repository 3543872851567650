package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/dairydash-api/internal/models"
)

// StateUnmarked is the state of a day that has no ledger record yet
const StateUnmarked = "unmarked"

// Delivery events
const (
	EventToggle        = "toggle"
	EventMarkDelivered = "mark_delivered"
	EventMarkSkipped   = "mark_skipped"
	EventMarkPending   = "mark_pending"
)

var allStates = []string{
	StateUnmarked,
	string(models.DeliveryStatusDelivered),
	string(models.DeliveryStatusSkipped),
	string(models.DeliveryStatusPending),
}

// DeliveryFSM drives the status of a single (customer, day) pair
type DeliveryFSM struct {
	fsm *fsm.FSM
}

// NewDeliveryFSM creates a state machine starting from the day's current
// record, or from StateUnmarked when rec is nil.
func NewDeliveryFSM(rec *models.DeliveryRecord) *DeliveryFSM {
	initial := StateUnmarked
	if rec != nil {
		initial = string(rec.Status)
	}

	return &DeliveryFSM{
		fsm: fsm.NewFSM(
			initial,
			fsm.Events{
				// Calendar tap: unmarked → skipped → delivered → skipped …
				{Name: EventToggle, Src: []string{StateUnmarked}, Dst: string(models.DeliveryStatusSkipped)},
				{Name: EventToggle, Src: []string{string(models.DeliveryStatusSkipped)}, Dst: string(models.DeliveryStatusDelivered)},
				{Name: EventToggle, Src: []string{string(models.DeliveryStatusDelivered), string(models.DeliveryStatusPending)}, Dst: string(models.DeliveryStatusSkipped)},

				// Explicit writes reach any status from anywhere
				{Name: EventMarkDelivered, Src: allStates, Dst: string(models.DeliveryStatusDelivered)},
				{Name: EventMarkSkipped, Src: allStates, Dst: string(models.DeliveryStatusSkipped)},
				{Name: EventMarkPending, Src: allStates, Dst: string(models.DeliveryStatusPending)},
			},
			fsm.Callbacks{},
		),
	}
}

// Toggle advances the day along the calendar tap cycle and returns the new status
func (d *DeliveryFSM) Toggle(ctx context.Context) (models.DeliveryStatus, error) {
	if err := d.fsm.Event(ctx, EventToggle); err != nil {
		return "", fmt.Errorf("failed to toggle delivery: %w", err)
	}
	return d.Status(), nil
}

// Mark moves the day to the given status. Marking a day with its current
// status is not an error.
func (d *DeliveryFSM) Mark(ctx context.Context, status models.DeliveryStatus) error {
	var event string
	switch status {
	case models.DeliveryStatusDelivered:
		event = EventMarkDelivered
	case models.DeliveryStatusSkipped:
		event = EventMarkSkipped
	case models.DeliveryStatusPending:
		event = EventMarkPending
	default:
		return fmt.Errorf("unknown delivery status: %s", status)
	}

	if err := d.fsm.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return nil
		}
		return fmt.Errorf("failed to mark delivery %s: %w", status, err)
	}
	return nil
}

// Status returns the current status, or "" while the day is unmarked
func (d *DeliveryFSM) Status() models.DeliveryStatus {
	if d.fsm.Current() == StateUnmarked {
		return ""
	}
	return models.DeliveryStatus(d.fsm.Current())
}

// Current returns the raw current state
func (d *DeliveryFSM) Current() string {
	return d.fsm.Current()
}
