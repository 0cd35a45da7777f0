package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

const sampleYAML = `
defaultGait: default
gaits:
  - name: default
    stance:
      bodyOffsetXMM: 20
      bodyHeightMM: 300
      legSeparationYMM: 100
      footLiftMM: 18
    step:
      durationSec: 0.5
      doubleSupportFraction: 0.2
      maxStepLengthXMM: 60
      maxStepWidthYMM: 40
      maxStepTurnRad: 0.3
      maxAccelXMMPerStep: 20
      maxAccelYMMPerStep: 15
      maxAccelThetaPerStep: 0.1
    zmp:
      staticFraction: 0.6
      leftOffsetYMM: 20
      rightOffsetYMM: 20
      turnOffsetMM: 7
      strafeOffsetMM: 0.1
      footLengthXMM: 0
    hack:
      armAmplitudeXMM: 30
      armAmplitudeYMM: 10
    sensor:
      observerScale: 0
    stiffness:
      leg: 0.85
      arm: 0.5
      head: 0.3
calibration:
  kx: 50
  ky: 54
  kz: 56.5
hardware:
  actuators:
    device: ${BIPED_ACTUATOR_PORT:-/dev/ttyUSB0}
    baudHz: 1000000
  sensors:
    device: /dev/ttyUSB1
    baudHz: 57600
    slaveId: 1
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "robot.yaml")
	test.That(t, os.WriteFile(path, []byte(sampleYAML), 0o600), test.ShouldBeNil)
	return path
}

func TestLoadParsesGaitsAndHardware(t *testing.T) {
	path := writeSample(t)
	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(cfg.Gaits), test.ShouldEqual, 1)
	test.That(t, cfg.Gaits[0].Stance.BodyHeightMM, test.ShouldEqual, float32(300))
	test.That(t, cfg.Hardware.Sensors.SlaveID, test.ShouldEqual, byte(1))
}

func TestLoadSubstitutesEnvVarsWithDefault(t *testing.T) {
	path := writeSample(t)
	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Hardware.Actuators.Device, test.ShouldEqual, "/dev/ttyUSB0")
}

func TestLoadSubstitutesEnvVarsFromEnvironment(t *testing.T) {
	t.Setenv("BIPED_ACTUATOR_PORT", "/dev/ttyACM3")
	path := writeSample(t)
	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Hardware.Actuators.Device, test.ShouldEqual, "/dev/ttyACM3")
}

func TestGaitReturnsErrorForUnknownName(t *testing.T) {
	path := writeSample(t)
	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	_, err = cfg.Gait("nonexistent")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadRejectsEmptyGaitList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	test.That(t, os.WriteFile(path, []byte("defaultGait: default\ngaits: []\n"), 0o600), test.ShouldBeNil)
	_, err := Load(path)
	test.That(t, err, test.ShouldNotBeNil)
}
