// Package enactor implements the actuator-facing half of the motion
// pipeline: per spec.md §4.6, it reads the switchboard's target joint and
// stiffness vectors once per actuator frame, velocity-clips them against
// both the last commanded and currently sensed pose, and pushes the result
// to a hardware.ActuatorBus.
package enactor

import (
	"time"

	"github.com/edaniels/golog"

	"github.com/bowdoin-robotics/biped/hardware"
	"github.com/bowdoin-robotics/biped/kinematics"
)

// AllActuatorPositionAlias and AllActuatorHardnessAlias are the two
// aliases the enactor declares once at startup, per spec.md §6.
const (
	AllActuatorPositionAlias = "AllActuatorPosition"
	AllActuatorHardnessAlias = "AllActuatorHardness"
)

// sendDelay is the offset of the device-clock time the enactor computes for
// each position command. That time only appears in the error log: the
// ActuatorBus interface carries no timestamp, so a position command is
// applied when SetAlias is called, with no delay.
const sendDelay = 20 * time.Millisecond

// ultrasoundPeriod is the actuator-frame interval between ultrasound mode
// advances: 4 Hz against a 50 Hz actuator clock is every 12.5 frames,
// rounded to 13 (Open Question (c): orthogonal to the joint pipeline, so it
// lives entirely in Enactor.Tick rather than the switchboard).
const ultrasoundPeriod = 13

// UltrasoundMode cycles through the four US firing patterns.
type UltrasoundMode int

// The four ultrasound modes the enactor cycles through on its own slow
// tick, independent of the 50Hz joint pipeline.
const (
	USBothEyes UltrasoundMode = iota
	USLeftEye
	USRightEye
	USNone
)

// JointSource is what the enactor reads from every actuator frame: the
// switchboard's current target joint/stiffness vectors. NextJoints and
// NextStiffness return the latest latched vectors on every call;
// providers.MotionSwitchboard clears its newJoints flag in NextJoints, but
// the enactor does not consult that flag, so when no new frame has been
// produced it sends the latest vector again.
type JointSource interface {
	NextJoints() [kinematics.NumJoints]float32
	NextStiffness() [kinematics.NumJoints]float32
}

// SensorSource is the subset of transcriber.Sensors the safety clip needs:
// the currently sensed joint angle vector.
type SensorSource interface {
	JointAngles() [kinematics.NumJoints]float32
}

// Enactor is the final pipeline stage: safety-clips and emits joint and
// stiffness commands, and drives the ultrasound sensor's independent slow
// cycle. One instance owns its own "last command" state; nothing here is
// process-global.
type Enactor struct {
	logger golog.Logger
	bus    hardware.ActuatorBus
	joints JointSource
	sensed SensorSource

	maxStepPerTick [kinematics.NumJoints]float32

	lastCommanded [kinematics.NumJoints]float32
	lastStiffness [kinematics.NumJoints]float32
	haveLast      bool

	frameCount  int
	usMode      UltrasoundMode
}

// New builds an Enactor. maxVelNoLoad is the per-joint max radians/tick
// envelope (kinematics.MaxVelNoLoad is the representative default); bus,
// joints, and sensed are the three collaborators it reads from and writes
// to every actuator frame.
func New(bus hardware.ActuatorBus, joints JointSource, sensed SensorSource, maxVelNoLoad [kinematics.NumJoints]float32, logger golog.Logger) (*Enactor, error) {
	e := &Enactor{
		logger:         logger,
		bus:            bus,
		joints:         joints,
		sensed:         sensed,
		maxStepPerTick: maxVelNoLoad,
	}
	jointNames := make([]string, kinematics.NumJoints)
	for i, n := range kinematics.JointNames {
		jointNames[i] = n
	}
	if err := bus.CreateAlias(AllActuatorPositionAlias, jointNames); err != nil {
		return nil, err
	}
	if err := bus.CreateAlias(AllActuatorHardnessAlias, jointNames); err != nil {
		return nil, err
	}
	return e, nil
}

// SafetyCheck clips target against the last commanded angle (protecting
// against exceeding the motor's max velocity per tick) and then against the
// sensed angle with a 6x allowance (protecting against commands unreachable
// given the robot's current physical pose, accounting for sensor
// staleness), per spec.md §4.6.
func SafetyCheck(target, lastCmd, sensed, maxStep float32) float32 {
	clippedByMotion := clip(target, lastCmd, maxStep)
	clippedBySensor := clip(clippedByMotion, sensed, 6*maxStep)
	return clippedBySensor
}

func clip(target, center, window float32) float32 {
	if target > center+window {
		return center + window
	}
	if target < center-window {
		return center - window
	}
	return target
}

// Tick runs one actuator frame: read, clip, and push joint/stiffness
// commands, then advance the ultrasound cycle if due. Errors from the
// actuator bus are logged and swallowed, per spec.md §7 — the enactor
// keeps its last known-good command in memory and retries next tick.
func (e *Enactor) Tick() error {
	target := e.joints.NextJoints()
	stiffness := e.joints.NextStiffness()
	sensed := e.sensed.JointAngles()

	if !e.haveLast {
		e.lastCommanded = sensed
		e.haveLast = true
	}

	var clipped [kinematics.NumJoints]float32
	for i := range clipped {
		clipped[i] = SafetyCheck(target[i], e.lastCommanded[i], sensed[i], e.maxStepPerTick[i])
	}

	cmdTime := e.bus.GetTime(sendDelay)
	if err := e.bus.SetAlias(AllActuatorPositionAlias, clipped[:]); err != nil {
		e.logger.Errorw("enactor: actuator position command failed, keeping last known-good", "error", err, "at", cmdTime)
	} else {
		e.lastCommanded = clipped
	}

	if stiffness != e.lastStiffness {
		if err := e.bus.SetAlias(AllActuatorHardnessAlias, stiffness[:]); err != nil {
			e.logger.Errorw("enactor: actuator stiffness command failed, keeping last known-good", "error", err)
		} else {
			e.lastStiffness = stiffness
		}
	}

	e.frameCount++
	if e.frameCount >= ultrasoundPeriod {
		e.frameCount = 0
		e.usMode = (e.usMode + 1) % 4
	}

	return nil
}

// UltrasoundMode returns the current US firing mode, advanced on its own
// ~4Hz cycle independent of the 50Hz joint pipeline.
func (e *Enactor) UltrasoundMode() UltrasoundMode {
	return e.usMode
}
