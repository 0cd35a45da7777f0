// Package motion exposes MotionInterface, the single facade callers use to
// drive the robot: it validates commands, logs them, and forwards to a
// providers.MotionSwitchboard. Nothing outside this package and the
// switchboard itself needs to know a switchboard exists.
package motion

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/providers"
)

// Interface is the facade the outer world (cmd/walkctl, a future gRPC
// service) drives the robot through.
type Interface struct {
	logger golog.Logger
	sb     *providers.MotionSwitchboard

	headStiffness float32
}

// New builds a MotionInterface around an already-wired switchboard.
// headStiffness is the stiffness applied to SetHeadCommand moves (the head
// chain has no per-command stiffness field of its own, unlike the body
// chains' JointKeyframes).
func New(sb *providers.MotionSwitchboard, headStiffness float32, logger golog.Logger) *Interface {
	return &Interface{logger: logger, sb: sb, headStiffness: headStiffness}
}

func validFloat(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// SetNextWalkCommand sets a continuous target walk velocity.
func (m *Interface) SetNextWalkCommand(x, y, theta float32) error {
	if !validFloat(x) || !validFloat(y) || !validFloat(theta) {
		return errors.Errorf("motion: walk command has non-finite component (%v, %v, %v)", x, y, theta)
	}
	cmd := providers.WalkCommand{X: x, Y: y, Theta: theta}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendWalkCommand(cmd)
	return nil
}

// SendStepCommand queues a fixed number of steps at a given velocity.
func (m *Interface) SendStepCommand(x, y, theta float32, numSteps int) error {
	if !validFloat(x) || !validFloat(y) || !validFloat(theta) {
		return errors.Errorf("motion: step command has non-finite component (%v, %v, %v)", x, y, theta)
	}
	if numSteps <= 0 {
		return errors.Errorf("motion: step command numSteps must be positive, got %d", numSteps)
	}
	cmd := providers.StepCommand{X: x, Y: y, Theta: theta, NumSteps: numSteps}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendStepCommand(cmd)
	return nil
}

// SendDistanceCommand walks a fixed planar distance.
func (m *Interface) SendDistanceCommand(xMM, yMM, thetaRad float32) error {
	if !validFloat(xMM) || !validFloat(yMM) || !validFloat(thetaRad) {
		return errors.Errorf("motion: distance command has non-finite component (%v, %v, %v)", xMM, yMM, thetaRad)
	}
	cmd := providers.DistanceCommand{XMM: xMM, YMM: yMM, ThetaRad: thetaRad}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendDistanceCommand(cmd)
	return nil
}

// SetGait begins a bounded-tick transition to g.
func (m *Interface) SetGait(g gait.Gait, transitionTicks int) error {
	if transitionTicks < 0 {
		return errors.Errorf("motion: gait command transitionTicks must be >= 0, got %d", transitionTicks)
	}
	cmd := providers.GaitCommand{Gait: g, TransitionTicks: transitionTicks}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendGaitCommand(cmd)
	return nil
}

// Enqueue queues a scripted (non-walk) body motion.
func (m *Interface) Enqueue(keyframes []providers.JointKeyframe) error {
	if len(keyframes) == 0 {
		return errors.New("motion: body joint command has no keyframes")
	}
	cmd := providers.BodyJointCommand{Keyframes: keyframes}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendBodyJointCommand(cmd)
	return nil
}

// EnqueueHead queues a scripted head motion.
func (m *Interface) EnqueueHead(keyframes []providers.HeadKeyframe) error {
	if len(keyframes) == 0 {
		return errors.New("motion: head joint command has no keyframes")
	}
	cmd := providers.HeadJointCommand{Keyframes: keyframes}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendHeadJointCommand(cmd)
	return nil
}

// SetHead moves the head directly to (yaw, pitch).
func (m *Interface) SetHead(yaw, pitch float32) error {
	if !validFloat(yaw) || !validFloat(pitch) {
		return errors.Errorf("motion: set head command has non-finite component (%v, %v)", yaw, pitch)
	}
	cmd := providers.SetHeadCommand{Yaw: yaw, Pitch: pitch}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendSetHeadCommand(cmd, m.headStiffness)
	return nil
}

// SendFreezeCommand holds the current pose at stiffness, decoupling the
// active provider.
func (m *Interface) SendFreezeCommand(stiffness float32) error {
	if !validFloat(stiffness) {
		return errors.Errorf("motion: freeze command has non-finite stiffness %v", stiffness)
	}
	cmd := providers.FreezeCommand{Stiffness: stiffness}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendFreezeCommand(cmd)
	return nil
}

// SendUnfreezeCommand reinstates the walk and live head providers after a
// freeze.
func (m *Interface) SendUnfreezeCommand() error {
	cmd := providers.UnfreezeCommand{}
	m.logger.Debugw("motion: forwarding", "cmd", cmd.String())
	m.sb.SendUnfreezeCommand(cmd)
	return nil
}

// StopBodyMoves asks the active body provider to wind down to a stop.
func (m *Interface) StopBodyMoves() {
	m.logger.Debugw("motion: forwarding stop body moves")
	m.sb.StopBodyMoves()
}

// StopHeadMoves asks the active head provider to stop; the live head
// provider drops its whole remaining keyframe queue on its next Tick.
func (m *Interface) StopHeadMoves() {
	m.logger.Debugw("motion: forwarding stop head moves")
	m.sb.StopHeadMoves()
}

// ResetWalkProvider hard-resets the walk engine after a fault.
func (m *Interface) ResetWalkProvider() {
	m.logger.Debugw("motion: forwarding reset walk provider")
	m.sb.ResetWalkProvider()
}

// ResetScriptedProvider clears any queued scripted body motion.
func (m *Interface) ResetScriptedProvider() {
	m.logger.Debugw("motion: forwarding reset scripted provider")
	m.sb.ResetScriptedProvider()
}

// GetOdometryUpdate consumes the walk engine's accumulated odometry delta
// since the last call.
func (m *Interface) GetOdometryUpdate() (dx, dy, dtheta float32) {
	return m.sb.GetOdometryUpdate()
}

// IsWalkActive reports whether the walk provider is installed and stepping.
func (m *Interface) IsWalkActive() bool { return m.sb.IsWalkActive() }

// IsBodyActive reports whether any non-null body provider is active.
func (m *Interface) IsBodyActive() bool { return m.sb.IsBodyActive() }

// IsHeadActive reports whether the head chain is animating.
func (m *Interface) IsHeadActive() bool { return m.sb.IsHeadActive() }
