package transcriber

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/bowdoin-robotics/biped/hardware"
	"github.com/bowdoin-robotics/biped/kinematics"
)

// AccelCalibration is the per-axis linear map from raw accelerometer counts
// to m/s^2: a_cal = a_raw * (-g / k_axis). k_x, k_y, k_z are robot-specific
// and must be configured per unit (see config.Calibration).
type AccelCalibration struct {
	KX, KY, KZ float32
}

// DefaultAccelCalibration returns the representative NAO-class calibration
// constants named in spec.md §6.
func DefaultAccelCalibration() AccelCalibration {
	return AccelCalibration{KX: 50, KY: 54, KZ: 56.5}
}

func (c AccelCalibration) apply(rawX, rawY, rawZ float32) r3.Vector {
	const g = 9.81
	return r3.Vector{
		X: float64(rawX) * (-g / float64(c.KX)),
		Y: float64(rawY) * (-g / float64(c.KY)),
		Z: float64(rawZ) * (-g / float64(c.KZ)),
	}
}

// lowPassAlpha is the exponential filter coefficient applied to the
// calibrated accelerometer reading: out = alpha*in + (1-alpha)*prevOut.
const lowPassAlpha = 0.3

// Transcriber copies raw sensor values from a hardware.SensorSource into a
// Sensors record once per motion tick, applying accelerometer calibration
// and a low-pass filter. On a sensor proxy error, it logs and reuses the
// previous tick's values rather than propagating a partial read, per
// spec.md §7.
type Transcriber struct {
	logger golog.Logger
	source hardware.SensorSource
	calib  AccelCalibration

	sensors      Sensors
	namesCache   []string
	filteredAcc  r3.Vector
	haveFiltered bool
}

// New builds a Transcriber reading from source with the given accelerometer
// calibration.
func New(source hardware.SensorSource, calib AccelCalibration, logger golog.Logger) *Transcriber {
	return &Transcriber{
		logger:     logger,
		source:     source,
		calib:      calib,
		namesCache: allSensorNames(),
	}
}

// Sensors returns the shared record this transcriber writes; safe to read
// concurrently from any goroutine.
func (t *Transcriber) Sensors() *Sensors {
	return &t.sensors
}

// Tick performs one bulk fetch and updates the shared Sensors record. On a
// read error it logs, returns nil and leaves the previous reading in place
// so a transient device hiccup never produces a partial or zeroed vector;
// on a value-count mismatch it returns an error, also leaving the previous
// reading in place.
func (t *Transcriber) Tick() error {
	values, err := t.source.GetValues(t.namesCache)
	if err != nil {
		t.logger.Errorw("transcriber: sensor proxy read failed, reusing previous values", "error", err)
		return nil
	}
	if len(values) != len(t.namesCache) {
		return errors.Errorf("transcriber: expected %d sensor values, got %d", len(t.namesCache), len(values))
	}

	var angles, temps [kinematics.NumJoints]float32
	copy(angles[:], values[:kinematics.NumJoints])

	offset := kinematics.NumJoints
	var fsr [FSRCount]float32
	copy(fsr[:], values[offset:offset+FSRCount])
	offset += FSRCount

	rawAccX, rawAccY, rawAccZ := values[offset], values[offset+1], values[offset+2]
	offset += 3

	var gyro [2]float32
	copy(gyro[:], values[offset:offset+2])
	offset += 2

	var tilt [2]float32
	copy(tilt[:], values[offset:offset+2])
	offset += 2

	copy(temps[:], values[offset:offset+kinematics.NumJoints])

	calibrated := t.calib.apply(rawAccX, rawAccY, rawAccZ)
	if !t.haveFiltered {
		t.filteredAcc = calibrated
		t.haveFiltered = true
	} else {
		t.filteredAcc = t.filteredAcc.Mul(1 - lowPassAlpha).Add(calibrated.Mul(lowPassAlpha))
	}

	t.sensors.setAll(angles, temps, fsr, t.filteredAcc, gyro, tilt)
	return nil
}
