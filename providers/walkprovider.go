package providers

import (
	"github.com/edaniels/golog"

	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/walk"
)

// WalkProvider is the BodyProvider that drives walk.StepGenerator: it's the
// body provider walk commands install, receiving WalkCommand/StepCommand/
// DistanceCommand/GaitCommand and ticking the full step-planning pipeline
// once per motion frame.
type WalkProvider struct {
	logger golog.Logger
	gen    *walk.StepGenerator
	meta   *gait.MetaGait

	stopRequested bool

	leftLeg, rightLeg   walk.LegResult
	leftArm, rightArm   walk.ArmJointAngles
}

// NewWalkProvider builds a WalkProvider around an already-constructed
// StepGenerator and the MetaGait it ticks once per motion frame, while a
// transition is pending, for GaitCommand transitions.
func NewWalkProvider(gen *walk.StepGenerator, meta *gait.MetaGait, logger golog.Logger) *WalkProvider {
	return &WalkProvider{logger: logger, gen: gen, meta: meta}
}

// SetSpeed forwards to the underlying generator (routed from a WalkCommand).
func (w *WalkProvider) SetSpeed(x, y, theta float32) {
	w.stopRequested = false
	w.gen.SetSpeed(x, y, theta)
}

// TakeSteps forwards to the underlying generator (routed from a
// StepCommand).
func (w *WalkProvider) TakeSteps(x, y, theta float32, n int) {
	w.stopRequested = false
	w.gen.TakeSteps(x, y, theta, n)
}

// SetDistance forwards to the underlying generator (routed from a
// DistanceCommand).
func (w *WalkProvider) SetDistance(dx, dy, dtheta float32) {
	w.stopRequested = false
	w.gen.SetDistance(dx, dy, dtheta)
}

// SetGaitTarget begins a bounded-tick transition to g, advanced on each
// following Tick (routed from a GaitCommand).
func (w *WalkProvider) SetGaitTarget(g gait.Gait, transitionTicks int) {
	w.meta.SetTarget(g, transitionTicks)
}

// GetOdometryUpdate forwards to the underlying generator.
func (w *WalkProvider) GetOdometryUpdate() (dx, dy, dtheta float32) {
	return w.gen.GetOdometryUpdate()
}

// Tick advances the meta-gait by one tick while a transition is pending
// (every motion frame, not gated on a support swap — the generator itself
// only snapshots gait at step-creation time, so applying the new
// interpolated gait here changes what the steps generated from now on will
// use), then runs the full controller/legs/arms pipeline.
func (w *WalkProvider) Tick() error {
	if !w.meta.Done() {
		w.gen.SetGait(w.meta.Tick())
	}

	if w.stopRequested && !w.gen.Done() {
		w.gen.SetSpeed(0, 0, 0)
	}

	if err := w.gen.TickController(); err != nil {
		w.logger.Errorw("walk: controller tick failed, resetting hard", "error", err)
		w.gen.ResetHard()
		return err
	}

	left, right, err := w.gen.TickLegs()
	if err != nil {
		w.logger.Errorw("walk: leg tick failed, resetting hard", "error", err)
		w.gen.ResetHard()
		return err
	}
	w.leftLeg, w.rightLeg = left, right

	w.leftArm, w.rightArm = w.gen.TickArms()
	return nil
}

// NextLegJoints returns this frame's six-joint angle vectors for each leg.
func (w *WalkProvider) NextLegJoints() (left, right walk.JointAngles) {
	return w.leftLeg.Joints, w.rightLeg.Joints
}

// NextArmJoints returns this frame's four-joint angle vectors for each arm.
func (w *WalkProvider) NextArmJoints() (left, right walk.ArmJointAngles) {
	return w.leftArm, w.rightArm
}

// NextLegStiffness returns this frame's per-leg stiffness vectors.
func (w *WalkProvider) NextLegStiffness() (left, right [6]float32) {
	return w.leftLeg.Stiffness, w.rightLeg.Stiffness
}

// NextArmStiffness returns a flat arm stiffness from the active gait,
// applied uniformly across all four arm joints.
func (w *WalkProvider) NextArmStiffness() (left, right [4]float32) {
	s := w.gen.ActiveGait().Stiffness.Arm
	return [4]float32{s, s, s, s}, [4]float32{s, s, s, s}
}

// IsDone reports whether the generator has fully stopped.
func (w *WalkProvider) IsDone() bool { return w.gen.Done() }

// IsActive is the negation of IsDone.
func (w *WalkProvider) IsActive() bool { return !w.gen.Done() }

// ReadyToSwap requires the generator be fully stopped (both legs settled in
// double support at zero commanded velocity), per spec.md §4.5's swap
// discipline.
func (w *WalkProvider) ReadyToSwap() bool { return w.gen.Done() }

// RequestStop asks the generator to decelerate to a stop (an END-step
// sequence) rather than halting mid-stride; applied on the next Tick.
func (w *WalkProvider) RequestStop() {
	w.stopRequested = true
}
