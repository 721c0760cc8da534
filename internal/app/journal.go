package app

import (
	"encoding/json"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/store"
)

// StoreJournal writes emitted actions to a session in the event store.
type StoreJournal struct {
	Events    *store.EventRepository
	SessionID string
	// Moves also records cursor moves, which otherwise fire every frame.
	Moves bool
}

// Record implements Journal.
func (j *StoreJournal) Record(ev action.Event, gesture string, at time.Time) error {
	if ev.Kind == action.KindMoveCursor && !j.Moves {
		return nil
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return j.Events.Record(&store.Event{
		SessionID: j.SessionID,
		Kind:      ev.Kind.String(),
		Gesture:   gesture,
		Payload:   payload,
		CreatedAt: at,
	})
}
