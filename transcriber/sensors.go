// Package transcriber copies raw device sensor values into the shared
// Sensors record once per motion tick, applying accelerometer calibration
// and a low-pass filter, per spec.md §2 step 1 and §6's sensor input
// interface.
package transcriber

import (
	"sync"

	"github.com/golang/geo/r3"

	"github.com/bowdoin-robotics/biped/kinematics"
)

// FSR corner names, four per foot.
const (
	FSRCount = 8
)

var fsrNames = [FSRCount]string{
	"LFsrFL", "LFsrFR", "LFsrBL", "LFsrBR",
	"RFsrFL", "RFsrFR", "RFsrBL", "RFsrBR",
}

var accelNames = [3]string{"AccX", "AccY", "AccZ"}
var gyroNames = [2]string{"GyrX", "GyrY"}
var tiltNames = [2]string{"AngleX", "AngleY"}

func jointAngleNames() []string {
	names := make([]string, kinematics.NumJoints)
	for i, n := range kinematics.JointNames {
		names[i] = n
	}
	return names
}

func jointTempNames() []string {
	names := make([]string, kinematics.NumJoints)
	for i, n := range kinematics.JointNames {
		names[i] = n + "Temperature"
	}
	return names
}

// allSensorNames is the full pre-registered list the transcriber pulls from
// the sensor source every tick: 22 joint angles, 15 auxiliary sensors (8
// FSR + 3 accel + 2 gyro + 2 tilt), and 22 joint temperatures.
func allSensorNames() []string {
	names := jointAngleNames()
	names = append(names, fsrNames[:]...)
	names = append(names, accelNames[:]...)
	names = append(names, gyroNames[:]...)
	names = append(names, tiltNames[:]...)
	names = append(names, jointTempNames()...)
	return names
}

// Sensors is the shared record every pipeline stage reads; the transcriber
// is its sole writer, and writes are whole-vector. A single RWMutex guards
// every field: there is no separate lock per field or per category.
type Sensors struct {
	mu sync.RWMutex

	jointAngles [kinematics.NumJoints]float32
	jointTemps  [kinematics.NumJoints]float32

	fsr   [FSRCount]float32
	accel r3.Vector // calibrated, filtered, m/s^2
	gyro  [2]float32
	tilt  [2]float32
}

// JointAngles returns a copy of the current joint angle vector.
func (s *Sensors) JointAngles() [kinematics.NumJoints]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jointAngles
}

// JointTemperatures returns a copy of the current joint temperature vector.
func (s *Sensors) JointTemperatures() [kinematics.NumJoints]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jointTemps
}

// FSR returns a copy of the current 8-corner force-sensitive-resistor
// vector (left foot corners first, then right).
func (s *Sensors) FSR() [FSRCount]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fsr
}

// Accel returns the calibrated, filtered accelerometer reading in m/s^2.
func (s *Sensors) Accel() r3.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accel
}

// Gyro returns the current two-axis gyro reading.
func (s *Sensors) Gyro() [2]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gyro
}

// Tilt returns the current two-axis filtered tilt angle reading.
func (s *Sensors) Tilt() [2]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tilt
}

func (s *Sensors) setAll(angles, temps [kinematics.NumJoints]float32, fsr [FSRCount]float32, accel r3.Vector, gyro, tilt [2]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jointAngles = angles
	s.jointTemps = temps
	s.fsr = fsr
	s.accel = accel
	s.gyro = gyro
	s.tilt = tilt
}
