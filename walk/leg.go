package walk

import "github.com/bowdoin-robotics/biped/spatialmath"

// LegState is one state in the walking-leg's four-state cycle.
type LegState int

// The four states a walking leg cycles through.
const (
	Supporting LegState = iota
	DoubleSupport
	Swinging
	PersistentDoubleSupport
)

func (s LegState) String() string {
	switch s {
	case Supporting:
		return "supporting"
	case DoubleSupport:
		return "double_support"
	case Swinging:
		return "swinging"
	case PersistentDoubleSupport:
		return "persistent_double_support"
	default:
		return "unknown"
	}
}

// JointAngles are the six joint angles of one leg: hip yaw-pitch, hip roll,
// hip pitch, knee pitch, ankle pitch, ankle roll.
type JointAngles [6]float32

// LegResult is what a WalkingLeg produces each tick: its six joint angles,
// a matching six-entry stiffness vector, and the incremental odometry this
// leg contributed (zero unless it is the support leg).
type LegResult struct {
	Joints     JointAngles
	Stiffness  [6]float32
	OdoUpdate  [3]float32 // dx, dy, dtheta; only nonzero for the support leg
	FootAngle  float32    // current rotation of this foot about z, f frame
}

// WalkingLeg drives one leg's FSM and IK solver. It holds no reference to
// the other leg; the step generator is responsible for keeping the pair
// 180 degrees out of phase by alternating which step gets assigned to
// which foot.
type WalkingLeg struct {
	foot  Foot
	solve IKSolver

	state         LegState
	framesInState int
	justEntered   bool
	footRotation  float32

	// odoBaselineValid, prevComF, and prevBodyRotAngle track this leg's
	// last-tick COM position/orientation (in the current support-foot
	// frame) while it is the support leg, so Tick can report a genuine
	// per-tick incremental delta rather than a once-per-swap lump sum.
	// ResetOdometryBaseline is called whenever if_Transform changes (the
	// support-foot frame moved), since a stale baseline would otherwise be
	// compared against a COM position expressed in a different frame.
	odoBaselineValid bool
	prevComF         spatialmath.Vector3
	prevBodyRotAngle float32
}

// NewWalkingLeg constructs a leg starting in the SUPPORTING state, which is
// the state the support foot begins in when a walk starts.
func NewWalkingLeg(foot Foot, solver IKSolver) *WalkingLeg {
	return &WalkingLeg{foot: foot, solve: solver, state: Supporting, justEntered: true}
}

// IsSwitchingSupportMode reports whether this is the first tick after the
// leg entered its current state.
func (l *WalkingLeg) IsSwitchingSupportMode() bool {
	return l.justEntered
}

// StateIsDoubleSupport reports whether the leg is in either double-support
// state (the two states differ only in which leg was previously active;
// both represent the phase where both feet are grounded).
func (l *WalkingLeg) StateIsDoubleSupport() bool {
	return l.state == DoubleSupport || l.state == PersistentDoubleSupport
}

// GetFootRotation returns this leg's current rotation about z in the f
// frame, used by the generator (always from the left leg, per the
// original's choice to read body rotation from a fixed leg regardless of
// which one is currently supporting, so as to depend on as little
// leg-internal state as possible).
func (l *WalkingLeg) GetFootRotation() float32 {
	return l.footRotation
}

// ResetOdometryBaseline discards this leg's previous-tick COM
// position/orientation, forcing the next Tick in which it is the support
// leg to report a zero delta rather than one measured against a COM
// position expressed in the old support-foot frame. The generator calls
// this on both legs whenever it advances if_Transform.
func (l *WalkingLeg) ResetOdometryBaseline() {
	l.odoBaselineValid = false
}

// advance moves the FSM forward by one tick given the frame counts of the
// step currently driving this leg, transitioning and resetting
// justEntered/framesInState as needed.
func (l *WalkingLeg) advance(singleSupportFrames, doubleSupportFrames int) {
	l.justEntered = false
	l.framesInState++

	switch l.state {
	case Supporting:
		if l.framesInState >= singleSupportFrames {
			l.state, l.framesInState, l.justEntered = DoubleSupport, 0, true
		}
	case DoubleSupport:
		if l.framesInState >= doubleSupportFrames {
			l.state, l.framesInState, l.justEntered = Swinging, 0, true
		}
	case Swinging:
		if l.framesInState >= singleSupportFrames {
			l.state, l.framesInState, l.justEntered = PersistentDoubleSupport, 0, true
		}
	case PersistentDoubleSupport:
		if l.framesInState >= doubleSupportFrames {
			l.state, l.framesInState, l.justEntered = Supporting, 0, true
		}
	}
}

// Tick computes this leg's goal foot position for the current frame —
// stationary over the support step if supporting, or along a cycloid lift
// path if swinging — solves IK against it in the c frame, and returns the
// joint/stiffness/odometry result. fcTransform carries the foot (f frame)
// pose into the COM (c) frame; comF and bodyRotAngleFC are the COM
// position and orientation (in the current support-foot frame) this same
// tick, used only to derive this leg's odometry contribution when it is
// the support leg.
func (l *WalkingLeg) Tick(
	supportStep *Step,
	swingSourceF spatialmath.Vector3, swingSourceTheta float32,
	swingDestF spatialmath.Vector3, swingDestTheta float32,
	fcTransform spatialmath.Matrix3,
	comF spatialmath.Vector3, bodyRotAngleFC float32,
) (LegResult, error) {
	singleSupportFrames := supportStep.SingleSupportFrames
	doubleSupportFrames := supportStep.DoubleSupportFrames

	isSupportFoot := supportStep.Foot == l.foot

	var goalF spatialmath.Vector3
	var angleF float32
	var odo [3]float32
	var height float32

	if isSupportFoot {
		goalF = spatialmath.NewVector3(0, 0)
		angleF = 0
	} else {
		frac := float32(l.framesInState) / float32(maxInt(singleSupportFrames, 1))
		if frac > 1 {
			frac = 1
		}
		height = cycloidLift(frac) * supportStep.gaitSnapshot.Stance.FootLiftMM

		x := swingSourceF.X() + frac*(swingDestF.X()-swingSourceF.X())
		y := swingSourceF.Y() + frac*(swingDestF.Y()-swingSourceF.Y())
		theta := swingSourceTheta + frac*(swingDestTheta-swingSourceTheta)

		goalF = spatialmath.NewVector3(x, y)
		angleF = theta
	}

	l.footRotation = angleF

	goalC := fcTransform.Mul(goalF)

	joints, err := l.solve(LegGoal{
		Foot:      l.foot,
		X:         goalC.X(),
		Y:         goalC.Y(),
		Z:         -supportStep.gaitSnapshot.Stance.BodyHeightMM + height,
		Theta:     angleF,
		HipOffset: legSign(l.foot) * supportStep.gaitSnapshot.Stance.LegSeparationYMM / 2,
	})
	if err != nil {
		return LegResult{}, err
	}

	if isSupportFoot {
		// While this leg supports the body, the support foot itself is
		// planted and motionless in the world; the COM's tick-to-tick
		// motion in the (world-fixed-for-this-phase) support-foot frame
		// *is* the robot's world-frame displacement this tick, matching
		// the original's per-tick updateOdometry(supportLeg.getOdoUpdate()).
		if l.odoBaselineValid {
			odo = [3]float32{
				comF.X() - l.prevComF.X(),
				comF.Y() - l.prevComF.Y(),
				bodyRotAngleFC - l.prevBodyRotAngle,
			}
		}
		l.prevComF = comF
		l.prevBodyRotAngle = bodyRotAngleFC
		l.odoBaselineValid = true
	}

	stiff := supportStep.gaitSnapshot.Stiffness.Leg
	l.advance(singleSupportFrames, doubleSupportFrames)

	return LegResult{
		Joints:    joints,
		Stiffness: [6]float32{stiff, stiff, stiff, stiff, stiff, stiff},
		OdoUpdate: odo,
		FootAngle: angleF,
	}, nil
}

// cycloidLift maps a swing fraction in [0,1] to a normalized lift height in
// [0,1], peaking at the midpoint the way a cycloid curve does: smooth
// liftoff and touchdown with no velocity discontinuity.
func cycloidLift(frac float32) float32 {
	return (1 - cosf(2*pi*frac)) / 2
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
