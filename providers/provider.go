// Package providers implements the MotionProvider family the switchboard
// dispatches to: one way of producing joint/stiffness values per tick for
// the body chains (legs + arms) and one for the head chain, plus the
// switchboard itself that owns and swaps between them.
package providers

import "github.com/bowdoin-robotics/biped/walk"

// BodyProvider is one way of driving the leg and arm joints for one motion
// tick: the walk engine, a scripted keyframe player, or the null provider
// that holds the current pose.
type BodyProvider interface {
	// Tick advances this provider by one motion frame. Errors are fatal to
	// this provider (the switchboard treats them as an implicit
	// requestStop and falls back to the null body provider).
	Tick() error

	NextLegJoints() (left, right walk.JointAngles)
	NextArmJoints() (left, right walk.ArmJointAngles)
	NextLegStiffness() (left, right [6]float32)
	NextArmStiffness() (left, right [4]float32)

	// IsDone reports whether this provider has nothing further to do.
	IsDone() bool
	// IsActive is the negation of IsDone for providers with no setup
	// latency; kept distinct because a provider may report active before
	// it has produced its first frame.
	IsActive() bool
	// ReadyToSwap reports whether now is a safe moment to swap this
	// provider out: IsDone() for most providers, but the walk provider
	// additionally requires both legs be in double support so a swap
	// never interrupts mid-swing.
	ReadyToSwap() bool
	// RequestStop asks the provider to wind down (e.g. decelerate to a
	// stop) rather than halting mid-stride.
	RequestStop()
}

// HeadProvider is one way of driving the two head joints.
type HeadProvider interface {
	Tick() error
	NextHeadJoints() (yaw, pitch float32)
	NextHeadStiffness() (yaw, pitch float32)
	IsDone() bool
	IsActive() bool
	RequestStop()
}
