// Package reconcile keeps a local journal of every gateway refund attempt.
//
// The journal exists for two failure modes the audit ledger cannot cover on
// its own:
//
//  1. Duplicate submission: an attempt is journaled as pending before the
//     gateway call goes out, so a second submission for the same booking is
//     rejected while the first is still in flight, even across restarts.
//  2. Lost ledger writes: if the gateway confirms a refund but the ledger
//     append then fails, the money has already moved and must never be
//     rolled back. The journal keeps the confirmed attempt in ledger_failed
//     state until an operator reconciles it by hand.
//
// All data lives in one BoltDB file next to the service; no external
// database process is involved.
package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/shopspring/decimal"
)

const bucketName = "refund_attempts"

// ErrInFlight is returned when a refund attempt for the booking is already
// pending. The caller must wait for its outcome before submitting again.
var ErrInFlight = errors.New("refund attempt already in flight for booking")

type AttemptStatus string

const (
	AttemptPending      AttemptStatus = "pending"
	AttemptSucceeded    AttemptStatus = "succeeded"
	AttemptFailed       AttemptStatus = "failed"
	AttemptLedgerFailed AttemptStatus = "ledger_failed"
)

// Attempt is the journaled record of one gateway submission. One attempt per
// booking at a time; a completed attempt is overwritten by the next Begin.
type Attempt struct {
	BookingID   string          `json:"booking_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      AttemptStatus   `json:"status"`
	GatewayRef  string          `json:"gateway_ref,omitempty"`
	Note        string          `json:"note,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type Journal struct {
	db *bolt.DB
}

// Open opens (or creates) the journal file and ensures its bucket exists.
func Open(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Begin journals a pending attempt for the booking before the gateway call
// is made. Returns ErrInFlight if a pending attempt already exists.
func (j *Journal) Begin(bookingID string, amount decimal.Decimal) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		if existing := b.Get([]byte(bookingID)); existing != nil {
			var prev Attempt
			if err := json.Unmarshal(existing, &prev); err != nil {
				return fmt.Errorf("decode journaled attempt for %s: %w", bookingID, err)
			}
			if prev.Status == AttemptPending {
				return ErrInFlight
			}
		}

		attempt := Attempt{
			BookingID: bookingID,
			Amount:    amount,
			Status:    AttemptPending,
			StartedAt: time.Now().UTC(),
		}

		data, err := json.Marshal(attempt)
		if err != nil {
			return err
		}
		return b.Put([]byte(bookingID), data)
	})
}

// Complete records the outcome of the booking's pending attempt.
func (j *Journal) Complete(bookingID string, status AttemptStatus, gatewayRef, note string) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		existing := b.Get([]byte(bookingID))
		if existing == nil {
			return fmt.Errorf("no journaled attempt for booking %s", bookingID)
		}

		var attempt Attempt
		if err := json.Unmarshal(existing, &attempt); err != nil {
			return fmt.Errorf("decode journaled attempt for %s: %w", bookingID, err)
		}

		now := time.Now().UTC()
		attempt.Status = status
		attempt.GatewayRef = gatewayRef
		attempt.Note = note
		attempt.CompletedAt = &now

		data, err := json.Marshal(attempt)
		if err != nil {
			return err
		}
		return b.Put([]byte(bookingID), data)
	})
}

// Unreconciled lists attempts the gateway confirmed but the ledger missed.
// These need manual reconciliation; they are never dropped automatically.
func (j *Journal) Unreconciled() ([]Attempt, error) {
	var items []Attempt

	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.ForEach(func(k, v []byte) error {
			var a Attempt
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			if a.Status == AttemptLedgerFailed {
				items = append(items, a)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []Attempt{}
	}
	return items, nil
}
