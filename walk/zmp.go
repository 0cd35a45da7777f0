package walk

import "github.com/bowdoin-robotics/biped/spatialmath"

// NumPreviewFrames is the length of the preview window the controller looks
// ahead over: 60 future ZMP samples plus the current one.
const NumPreviewFrames = 60

// ZMPFrame is one sample of the ZMP reference trajectory in the inertial
// frame.
type ZMPFrame struct {
	X, Y float32
}

// zmpState is the transform bookkeeping fillZMP needs across calls: the
// transform from the current step's local frame into the inertial frame,
// and the end of the last
// queued ZMP sample expressed in the current step's local frame.
type zmpState struct {
	siTransform spatialmath.Matrix3
	lastZMPEndS spatialmath.Vector3
}

func newZMPState() zmpState {
	return zmpState{
		siTransform: spatialmath.Identity3(),
		lastZMPEndS: spatialmath.NewVector3(0, 0),
	}
}

// fillZMP appends the ZMP reference samples for newSupportStep to the
// queue and advances the transform state, dispatching on step type.
func (z *zmpState) fillZMP(step *Step, bodyOffsetX, hipOffsetY float32) ([]ZMPFrame, error) {
	var frames []ZMPFrame
	switch step.Type {
	case RegularStep:
		frames = z.fillZMPRegular(step, bodyOffsetX, hipOffsetY)
	case EndStep:
		frames = z.fillZMPEnd(step, bodyOffsetX, hipOffsetY)
	default:
		return nil, fatalStepTypeError(step.Type)
	}
	step.ZMPd = true
	return frames, nil
}

// fillZMPRegular produces the double-support (static/moving/static) and
// single-support (linear) ZMP reference segments for one ordinary step.
func (z *zmpState) fillZMPRegular(step *Step, bodyOffsetX, hipOffsetY float32) []ZMPFrame {
	sign := legSign(step.Foot)

	turnOff := step.gaitSnapshot.ZMP.TurnOffsetMM
	strafeOff := step.gaitSnapshot.ZMP.StrafeOffsetMM

	adjustment := (step.Theta / pi) * turnOff
	adjustment += (step.Y - sign*hipOffsetY) * strafeOff

	var yOffset float32
	if step.Foot == LeftFoot {
		yOffset = step.gaitSnapshot.ZMP.LeftOffsetYMM
	} else {
		yOffset = step.gaitSnapshot.ZMP.RightOffsetYMM
	}
	yOffset += adjustment

	yOffsetX := -sinf(absf(step.Theta)) * yOffset
	yOffsetY := cosf(step.Theta) * yOffset

	xFootLen := step.gaitSnapshot.ZMP.FootLengthXMM

	startS := z.lastZMPEndS
	endS := spatialmath.NewVector3(step.X+bodyOffsetX+yOffsetX, step.Y+sign*yOffsetY)
	midS := spatialmath.NewVector3(step.X+bodyOffsetX+yOffsetX-xFootLen, step.Y+sign*yOffsetY)

	startI := z.siTransform.Mul(startS)
	midI := z.siTransform.Mul(midS)
	endI := z.siTransform.Mul(endS)

	halfDSChops := int(float32(step.DoubleSupportFrames) * step.gaitSnapshot.ZMP.StaticFraction / 2)
	numDMChops := step.DoubleSupportFrames - halfDSChops*2
	numSChops := step.SingleSupportFrames

	frames := make([]ZMPFrame, 0, step.DoubleSupportFrames+step.SingleSupportFrames)

	for i := 0; i < halfDSChops; i++ {
		frames = append(frames, ZMPFrame{startI.X(), startI.Y()})
	}
	for i := 0; i < numDMChops; i++ {
		frac := float32(i) / float32(numDMChops)
		frames = append(frames, ZMPFrame{
			X: startI.X() + frac*(midI.X()-startI.X()),
			Y: startI.Y() + frac*(midI.Y()-startI.Y()),
		})
	}
	for i := 0; i < halfDSChops; i++ {
		frames = append(frames, ZMPFrame{midI.X(), midI.Y()})
	}
	for i := 0; i < numSChops; i++ {
		frac := float32(i) / float32(numSChops)
		frames = append(frames, ZMPFrame{
			X: midI.X() + frac*(endI.X()-midI.X()),
			Y: midI.Y() + frac*(endI.Y()-midI.Y()),
		})
	}

	z.siTransform = z.siTransform.Compose(sSprime(step, hipOffsetY))
	z.lastZMPEndS = sprimeS(step, hipOffsetY).Mul(endS)
	return frames
}

// fillZMPEnd fills the final step of a walk with a constant neutral-stance
// ZMP and, unlike fillZMPRegular, never advances siTransform: the walk has
// already stopped moving its support-foot frame by this point.
func (z *zmpState) fillZMPEnd(step *Step, bodyOffsetX, hipOffsetY float32) []ZMPFrame {
	endS := spatialmath.NewVector3(bodyOffsetX, 0)
	endI := z.siTransform.Mul(endS)

	frames := make([]ZMPFrame, step.StepDurationFrames)
	for i := range frames {
		frames[i] = ZMPFrame{endI.X(), endI.Y()}
	}

	z.lastZMPEndS = sprimeS(step, hipOffsetY).Mul(endS)
	return frames
}
