package model

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/multiformats/go-multihash"
)

// Kind is the type of notification an event records.
type Kind string

const (
	KindNext     Kind = "next"
	KindError    Kind = "error"
	KindComplete Kind = "complete"
)

// Terminal reports whether no more events follow this kind in a run.
func (k Kind) Terminal() bool {
	return k == KindError || k == KindComplete
}

// Event is a single notification delivered to an observer during a run.
type Event struct {
	ID      uuid.UUID `json:"id"`
	Run     uuid.UUID `json:"run"`     // all events of one subscription share a run ID
	Seq     int       `json:"seq"`     // position of the event within the run
	Kind    Kind      `json:"kind"`    // next, error or complete
	Value   int       `json:"value"`   // emitted value, or the value that caused the error
	Error   Error     `json:"error"`   // set for error events only
	Digest  Multihash `json:"digest"`  // sha2-256 over run, seq, kind, value and error
	Emitted time.Time `json:"emitted"` // when the observer was notified
}

// NewEvent creates an event and computes its digest.
func NewEvent(run uuid.UUID, seq int, kind Kind, value int, err error) (Event, error) {
	evt := Event{
		ID:      uuid.New(),
		Run:     run,
		Seq:     seq,
		Kind:    kind,
		Value:   value,
		Error:   ToError(err),
		Emitted: time.Now(),
	}
	digest, err := EventDigest(evt)
	if err != nil {
		return Event{}, err
	}
	evt.Digest = Multihash{digest}
	return evt, nil
}

// EventDigest hashes the fields of the event that describe what the observer
// saw. ID and emitted time are not included.
func EventDigest(evt Event) (multihash.Multihash, error) {
	data := fmt.Appendf(nil, "%s\x00%d\x00%s\x00%d\x00%s", evt.Run, evt.Seq, evt.Kind, evt.Value, evt.Error.Message)
	digest, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return nil, fmt.Errorf("hashing event: %w", err)
	}
	return digest, nil
}

// Verify checks the event digest matches its contents.
func (e Event) Verify() error {
	digest, err := EventDigest(e)
	if err != nil {
		return err
	}
	if !bytes.Equal(digest, e.Digest.Multihash) {
		return fmt.Errorf("hash integrity failure: event %d of run %s: %s", e.Seq, e.Run, e.ID)
	}
	return nil
}
