package walk

import (
	"math"

	"github.com/bowdoin-robotics/biped/gait"
)

// Step is one planned footstep: the support foot it lands on, its planar
// displacement from the previous step, and a snapshot of the gait that
// generated it (so a gait change mid-walk never retroactively alters a
// step already in flight).
type Step struct {
	X, Y, Theta float32
	WalkVector  WalkVector // originating velocity command, for re-clipping neighbors

	Foot Foot
	Type StepType

	StepDurationFrames  int
	DoubleSupportFrames int
	SingleSupportFrames int

	// SOffsetY is the lateral offset of this step's support-foot frame from
	// the body's sagittal plane: positive for the left foot.
	SOffsetY float32

	// ZMPd marks a step whose ZMP reference has already been queued, so the
	// generator doesn't double-emit it.
	ZMPd bool

	gaitSnapshot gait.Gait
}

// NewStepFromVelocity builds a step by clipping a commanded WalkVector
// against the gait's acceleration (relative to last), ellipse, and
// lateral-clamp envelopes, then integrating the clipped velocity over one
// step duration.
func NewStepFromVelocity(target WalkVector, g gait.Gait, foot Foot, last WalkVector, stepType StepType) *Step {
	clipped := clipVelocity(target, last, g, foot)
	disp := getDispFromVel(clipped, g)
	return newStep(disp, clipped, g, foot, stepType)
}

// NewStepFromDisplacement builds a step directly from a planar displacement
// (used by setDistance, which works in displacement space).
func NewStepFromDisplacement(target StepDisplacement, g gait.Gait, foot Foot, stepType StepType) *Step {
	clippedDisp := ellipseClipDisplacement(target, g.Step)
	vel := getVelFromDisp(clippedDisp, g)
	return newStep(clippedDisp, vel, g, foot, stepType)
}

func newStep(disp StepDisplacement, vel WalkVector, g gait.Gait, foot Foot, stepType StepType) *Step {
	s := &Step{
		X:            disp.X,
		Y:            disp.Y,
		Theta:        disp.Theta,
		WalkVector:   vel,
		Foot:         foot,
		Type:         stepType,
		gaitSnapshot: g,
	}
	s.updateFrameLengths(g.Step.DurationSec, g.Step.DoubleSupportFraction)
	s.sOffsetY(g)
	return s
}

// updateFrameLengths converts the gait's step duration and double-support
// fraction into integer motion-tick counts, matching
// Step::updateFrameLengths's rounding.
func (s *Step) updateFrameLengths(durationSec, dblSupF float32) {
	const tickHz = 50
	total, double, single := gait.Step{DurationSec: durationSec, DoubleSupportFraction: dblSupF}.FrameCounts(tickHz)
	s.StepDurationFrames = total
	s.DoubleSupportFrames = double
	s.SingleSupportFrames = single
}

// WithPose returns a shallow copy of s with its (x, y, theta) replaced,
// used to re-express a step's position in a different coordinate frame
// without disturbing its cached gait snapshot, frame counts, or foot/type.
func (s *Step) WithPose(x, y, theta float32) *Step {
	cp := *s
	cp.X, cp.Y, cp.Theta = x, y, theta
	return &cp
}

func (s *Step) sOffsetY(g gait.Gait) {
	if s.Foot == LeftFoot {
		s.SOffsetY = g.Stance.LegSeparationYMM / 2
	} else {
		s.SOffsetY = -g.Stance.LegSeparationYMM / 2
	}
}

// clipVelocity applies acceleration clipping (relative to last), then
// ellipse clipping against the step-size envelope, then the asymmetric
// lateral clamp that prevents a step from swinging into the stance leg.
func clipVelocity(target, last WalkVector, g gait.Gait, foot Foot) WalkVector {
	accelClipped := accelClipVelocities(target, last, g.Step)
	ellipseClipped := ellipseClipVelocities(accelClipped, g.Step)
	return lateralClipVelocities(ellipseClipped, foot)
}

// accelClipVelocities clips the per-step change in velocity (not the
// velocity itself) against the gait's max-acceleration envelope.
func accelClipVelocities(target, last WalkVector, step gait.Step) WalkVector {
	return WalkVector{
		X:     clipDelta(target.X, last.X, step.MaxAccelXMMPerStep),
		Y:     clipDelta(target.Y, last.Y, step.MaxAccelYMMPerStep),
		Theta: clipDelta(target.Theta, last.Theta, step.MaxAccelThetaPerStep),
	}
}

func clipDelta(target, last, maxDelta float32) float32 {
	delta := target - last
	if delta > maxDelta {
		delta = maxDelta
	} else if delta < -maxDelta {
		delta = -maxDelta
	}
	return last + delta
}

// ellipseClipVelocities scales (x, y, theta) uniformly, preserving
// direction, so that (x/maxX, y/maxY, theta/maxTheta) lies within the unit
// sphere. A vector already inside the envelope is returned unchanged.
func ellipseClipVelocities(v WalkVector, step gait.Step) WalkVector {
	nx := safeDiv(v.X, step.MaxStepLengthXMM)
	ny := safeDiv(v.Y, step.MaxStepWidthYMM)
	nt := safeDiv(v.Theta, step.MaxStepTurnRad)
	mag := float32(math.Sqrt(float64(nx*nx + ny*ny + nt*nt)))
	if mag <= 1 {
		return v
	}
	scale := 1 / mag
	return WalkVector{X: v.X * scale, Y: v.Y * scale, Theta: v.Theta * scale}
}

// ellipseClipDisplacement is the StepDisplacement analog of
// ellipseClipVelocities, used by setDistance which works in displacement
// units directly rather than per-second rates.
func ellipseClipDisplacement(d StepDisplacement, step gait.Step) StepDisplacement {
	nx := safeDiv(d.X, step.MaxStepLengthXMM)
	ny := safeDiv(d.Y, step.MaxStepWidthYMM)
	nt := safeDiv(d.Theta, step.MaxStepTurnRad)
	mag := float32(math.Sqrt(float64(nx*nx + ny*ny + nt*nt)))
	if mag <= 1 {
		return d
	}
	scale := 1 / mag
	return StepDisplacement{X: d.X * scale, Y: d.Y * scale, Theta: d.Theta * scale}
}

func safeDiv(n, d float32) float32 {
	if d == 0 {
		return 0
	}
	return n / d
}

// lateralClipVelocities disallows a step whose y-component would carry the
// swing foot across the stance leg's sagittal plane: the left foot may not
// step further right than directly under the body, and vice versa.
func lateralClipVelocities(v WalkVector, foot Foot) WalkVector {
	if foot == LeftFoot && v.Y < 0 {
		v.Y = 0
	} else if foot == RightFoot && v.Y > 0 {
		v.Y = 0
	}
	return v
}

// getDispFromVel converts a per-second WalkVector into the StepDisplacement
// it produces over one step's nominal duration.
func getDispFromVel(v WalkVector, g gait.Gait) StepDisplacement {
	d := g.Step.DurationSec
	return StepDisplacement{X: v.X * d, Y: v.Y * d, Theta: v.Theta * d}
}

// getVelFromDisp is the inverse of getDispFromVel.
func getVelFromDisp(d StepDisplacement, g gait.Gait) WalkVector {
	dur := g.Step.DurationSec
	if dur == 0 {
		return WalkVector{}
	}
	return WalkVector{X: d.X / dur, Y: d.Y / dur, Theta: d.Theta / dur}
}
