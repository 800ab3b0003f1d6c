// Package registry maintains the in-memory device inventory. Devices are
// keyed by caller-supplied ID and listed in insertion order. All accessors
// return value copies so callers cannot mutate registry state behind the
// lock.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// Error definitions for the registry package
var (
	// ErrEmptyDeviceID is returned when a device ID is empty
	ErrEmptyDeviceID = errors.New("device id cannot be empty")

	// ErrEmptyFirmwareVersion is returned when a firmware version is empty
	ErrEmptyFirmwareVersion = errors.New("firmware version cannot be empty")
)

// Registry is the device inventory. The zero value is not usable; call New.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*gatetypes.Device
	order   []string
}

// New creates an empty device registry
func New() *Registry {
	return &Registry{
		devices: make(map[string]*gatetypes.Device),
	}
}

// AddDevice validates the attributes and registers a new device. The device
// starts active with both timestamps set to now. Duplicate IDs are rejected
// so a stale device cannot be silently replaced.
func (r *Registry) AddDevice(id string, deviceType gatetypes.DeviceType, firmware string, now time.Time) (gatetypes.Device, error) {
	if id == "" {
		return gatetypes.Device{}, ErrEmptyDeviceID
	}
	if _, err := gatetypes.ParseDeviceType(string(deviceType)); err != nil {
		return gatetypes.Device{}, err
	}
	if firmware == "" {
		return gatetypes.Device{}, fmt.Errorf("%w: device %q", ErrEmptyFirmwareVersion, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[id]; exists {
		return gatetypes.Device{}, fmt.Errorf("%w: %q", gatetypes.ErrDeviceExists, id)
	}

	dev := &gatetypes.Device{
		ID:              id,
		Type:            deviceType,
		FirmwareVersion: firmware,
		Status:          gatetypes.StatusActive,
		RegisteredAt:    now,
		LastUpdatedAt:   now,
	}
	r.devices[id] = dev
	r.order = append(r.order, id)

	return *dev, nil
}

// Get retrieves a device by ID
func (r *Registry) Get(id string) (gatetypes.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[id]
	if !ok {
		return gatetypes.Device{}, fmt.Errorf("%w: %q", gatetypes.ErrDeviceNotFound, id)
	}
	return *dev, nil
}

// List returns all devices in insertion order
func (r *Registry) List() []gatetypes.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]gatetypes.Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, *r.devices[id])
	}
	return devices
}

// Size returns the number of registered devices
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// UpdateStatus transitions a device to the given status. The update
// timestamp is deliberately left alone: status changes say nothing about
// firmware currency, which is what staleness measures.
func (r *Registry) UpdateStatus(id string, status gatetypes.DeviceStatus) (gatetypes.Device, error) {
	if _, err := gatetypes.ParseDeviceStatus(string(status)); err != nil {
		return gatetypes.Device{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok {
		return gatetypes.Device{}, fmt.Errorf("%w: %q", gatetypes.ErrDeviceNotFound, id)
	}

	dev.Status = status
	return *dev, nil
}

// UpdateFirmware records a firmware change and stamps the update time.
func (r *Registry) UpdateFirmware(id string, firmware string, now time.Time) (gatetypes.Device, error) {
	if firmware == "" {
		return gatetypes.Device{}, fmt.Errorf("%w: device %q", ErrEmptyFirmwareVersion, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok {
		return gatetypes.Device{}, fmt.Errorf("%w: %q", gatetypes.ErrDeviceNotFound, id)
	}

	dev.FirmwareVersion = firmware
	dev.LastUpdatedAt = now
	return *dev, nil
}

// Has reports whether a device with the given ID is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.devices[id]
	return ok
}
