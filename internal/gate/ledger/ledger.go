// Package ledger maintains the security recommendation trail. Entries are
// append-only and approval is one-way: once approved, a recommendation can
// never return to pending, and approving twice is an error so duplicate
// approvals surface instead of being swallowed.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// Error definitions for the ledger package
var (
	// ErrEmptyText is returned when a recommendation has no text
	ErrEmptyText = errors.New("recommendation text cannot be empty")
)

// DeviceChecker reports whether a device ID is registered. The device
// registry satisfies this interface.
type DeviceChecker interface {
	Has(id string) bool
}

// Ledger stores recommendations keyed by generated ID, in insertion order.
type Ledger struct {
	mu      sync.RWMutex
	devices DeviceChecker
	recs    map[string]*gatetypes.Recommendation
	order   []string
}

// New creates an empty ledger that validates device references against
// devices.
func New(devices DeviceChecker) *Ledger {
	return &Ledger{
		devices: devices,
		recs:    make(map[string]*gatetypes.Recommendation),
	}
}

// Add appends a recommendation for a registered device and returns it with
// a generated ID. Referencing an unknown device fails and leaves the ledger
// unchanged.
func (l *Ledger) Add(deviceID, text string, now time.Time) (gatetypes.Recommendation, error) {
	if text == "" {
		return gatetypes.Recommendation{}, ErrEmptyText
	}
	if !l.devices.Has(deviceID) {
		return gatetypes.Recommendation{}, fmt.Errorf("%w: %q", gatetypes.ErrDeviceNotFound, deviceID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := &gatetypes.Recommendation{
		ID:        uuid.New().String(),
		DeviceID:  deviceID,
		Text:      text,
		CreatedAt: now,
	}
	l.recs[rec.ID] = rec
	l.order = append(l.order, rec.ID)

	return *rec, nil
}

// Approve transitions a recommendation from pending to approved and records
// who approved it. A second approval fails with ErrAlreadyApproved rather
// than succeeding silently.
func (l *Ledger) Approve(recommendationID, approvedBy string) (gatetypes.Recommendation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.recs[recommendationID]
	if !ok {
		return gatetypes.Recommendation{}, fmt.Errorf("%w: %q", gatetypes.ErrRecommendationNotFound, recommendationID)
	}
	if rec.Approved {
		return gatetypes.Recommendation{}, fmt.Errorf("%w: %q", gatetypes.ErrAlreadyApproved, recommendationID)
	}

	rec.Approved = true
	rec.ApprovedBy = approvedBy
	return *rec, nil
}

// Get retrieves a recommendation by ID
func (l *Ledger) Get(recommendationID string) (gatetypes.Recommendation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.recs[recommendationID]
	if !ok {
		return gatetypes.Recommendation{}, fmt.Errorf("%w: %q", gatetypes.ErrRecommendationNotFound, recommendationID)
	}
	return *rec, nil
}

// ListForDevice returns the recommendations for one device in insertion order
func (l *Ledger) ListForDevice(deviceID string) []gatetypes.Recommendation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var recs []gatetypes.Recommendation
	for _, id := range l.order {
		if rec := l.recs[id]; rec.DeviceID == deviceID {
			recs = append(recs, *rec)
		}
	}
	return recs
}

// All returns every recommendation in insertion order
func (l *Ledger) All() []gatetypes.Recommendation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	recs := make([]gatetypes.Recommendation, 0, len(l.order))
	for _, id := range l.order {
		recs = append(recs, *l.recs[id])
	}
	return recs
}

// Size returns the number of recommendations in the ledger
func (l *Ledger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}
