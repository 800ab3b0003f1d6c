package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

func TestApplyPolicyDefaults(t *testing.T) {
	t.Run("fills unset fields", func(t *testing.T) {
		spec := &gatetypes.RiskPolicySpec{}
		ApplyPolicyDefaults(spec)

		assert.Equal(t, DefaultCurrentFirmware, spec.CurrentFirmware)
		assert.Equal(t, DefaultFirmwarePenalty, *spec.FirmwarePenalty)
		assert.Equal(t, DefaultStalenessDays, *spec.StalenessDays)
		assert.Equal(t, DefaultStalenessPenalty, *spec.StalenessPenalty)
		assert.Equal(t, DefaultRandomBound, *spec.RandomBound)
		assert.Equal(t, DefaultHighThreshold, *spec.HighThreshold)
	})

	t.Run("preserves explicit zero", func(t *testing.T) {
		zero := 0
		spec := &gatetypes.RiskPolicySpec{RandomBound: &zero}
		ApplyPolicyDefaults(spec)

		// random_bound = 0 turns off perturbation; it must not be
		// overwritten with the default.
		assert.Equal(t, 0, *spec.RandomBound)
	})

	t.Run("leaves type weights alone", func(t *testing.T) {
		spec := &gatetypes.RiskPolicySpec{}
		ApplyPolicyDefaults(spec)
		assert.Nil(t, spec.TypeWeights)
	})
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, DefaultTypeWeights(), p.TypeWeights)
	assert.Equal(t, DefaultHighThreshold, p.HighThreshold)

	// Every known device type has a weight.
	for _, dt := range gatetypes.DeviceTypes() {
		_, ok := p.WeightFor(dt)
		assert.True(t, ok, "missing weight for %s", dt)
	}

	// Weights order device classes by exposure.
	sensor, _ := p.WeightFor(gatetypes.DeviceTypeSensor)
	actuator, _ := p.WeightFor(gatetypes.DeviceTypeActuator)
	camera, _ := p.WeightFor(gatetypes.DeviceTypeCamera)
	gateway, _ := p.WeightFor(gatetypes.DeviceTypeGateway)
	assert.Less(t, sensor, actuator)
	assert.Less(t, actuator, camera)
	assert.Less(t, camera, gateway)
}
