package providers

import (
	"fmt"

	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/kinematics"
)

// WalkCommand sets the walk engine's target continuous velocity.
type WalkCommand struct {
	X, Y, Theta float32
}

func (c WalkCommand) String() string {
	return fmt.Sprintf("WalkCommand(%.1f, %.1f, %.3f)", c.X, c.Y, c.Theta)
}

// StepCommand queues a fixed number of steps at a given velocity, as
// opposed to WalkCommand's open-ended continuous target.
type StepCommand struct {
	X, Y, Theta float32
	NumSteps    int
}

func (c StepCommand) String() string {
	return fmt.Sprintf("StepCommand(%.1f, %.1f, %.3f x%d)", c.X, c.Y, c.Theta, c.NumSteps)
}

// DistanceCommand walks a fixed planar distance rather than a fixed number
// of steps; x_mm, y_mm, theta_rad in the source this is grounded on.
type DistanceCommand struct {
	XMM, YMM, ThetaRad float32
}

func (c DistanceCommand) String() string {
	return fmt.Sprintf("DistanceCommand(%.1f, %.1f, %.3f)", c.XMM, c.YMM, c.ThetaRad)
}

// GaitCommand hot-swaps the active gait, interpolated over TransitionTicks.
type GaitCommand struct {
	Gait            gait.Gait
	TransitionTicks int
}

func (c GaitCommand) String() string {
	return fmt.Sprintf("GaitCommand(%s over %d ticks)", c.Gait.Name, c.TransitionTicks)
}

// JointKeyframe is one waypoint in a scripted joint-angle command: a set of
// joint values to reach, the chains it applies to, and how long to take.
type JointKeyframe struct {
	Joints       [kinematics.NumJoints]float32
	Stiffness    [kinematics.NumJoints]float32
	DurationSecs float32
}

// BodyJointCommand enqueues a scripted (non-walk) body motion: a sequence
// of keyframes over the leg and arm chains.
type BodyJointCommand struct {
	Keyframes []JointKeyframe
}

func (c BodyJointCommand) String() string {
	return fmt.Sprintf("BodyJointCommand(%d keyframes)", len(c.Keyframes))
}

// HeadJointCommand enqueues a scripted head motion.
type HeadJointCommand struct {
	Keyframes []HeadKeyframe
}

func (c HeadJointCommand) String() string {
	return fmt.Sprintf("HeadJointCommand(%d keyframes)", len(c.Keyframes))
}

// HeadKeyframe is one waypoint of a scripted head motion.
type HeadKeyframe struct {
	Yaw, Pitch   float32
	Stiffness    float32
	DurationSecs float32
}

// SetHeadCommand moves the head directly to one pose, abandoning whatever
// scripted head motion is in progress.
type SetHeadCommand struct {
	Yaw, Pitch float32
}

func (c SetHeadCommand) String() string {
	return fmt.Sprintf("SetHeadCommand(%.3f, %.3f)", c.Yaw, c.Pitch)
}

// FreezeCommand swaps in the null body/head providers, holding the current
// pose at a caller-chosen stiffness.
type FreezeCommand struct {
	Stiffness float32
}

func (c FreezeCommand) String() string {
	return fmt.Sprintf("FreezeCommand(%.2f)", c.Stiffness)
}

// UnfreezeCommand hands the body chain back to the walk provider and the
// head chain back to the live head provider, whichever providers were
// active before the matching FreezeCommand.
type UnfreezeCommand struct{}

func (c UnfreezeCommand) String() string { return "UnfreezeCommand()" }
