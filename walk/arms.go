package walk

// ArmJointAngles are the four arm joint angles: shoulder pitch, shoulder
// roll, elbow yaw, elbow roll.
type ArmJointAngles [4]float32

// WalkingArms swings both arms opposite the legs (left arm with the right
// leg's support phase, and vice versa) by an amplitude taken from the
// gait's Hack group — named for the original's own acknowledgment that arm
// swing is a cosmetic addition layered on top of the walk, not part of the
// balance solution.
type WalkingArms struct {
	neutral ArmJointAngles
}

// NewWalkingArms builds a WalkingArms that swings around the given rest
// pose.
func NewWalkingArms(neutral ArmJointAngles) *WalkingArms {
	return &WalkingArms{neutral: neutral}
}

// Tick produces this frame's left and right arm angles, synchronized to
// the support step: swing phase runs from 0 to 1 across the step's total
// duration and is mirrored between the two arms.
func (a *WalkingArms) Tick(supportStep *Step, frameInStep int) (left, right ArmJointAngles) {
	total := supportStep.StepDurationFrames
	if total == 0 {
		return a.neutral, a.neutral
	}
	frac := float32(frameInStep) / float32(total)
	swing := sinf(frac * 2 * pi)

	ampX := supportStep.gaitSnapshot.Hack.ArmAmplitudeXMM
	ampY := supportStep.gaitSnapshot.Hack.ArmAmplitudeYMM

	sign := legSign(supportStep.Foot)

	left = a.neutral
	left[0] += sign * swing * ampX / 100
	left[1] += sign * swing * ampY / 100

	right = a.neutral
	right[0] -= sign * swing * ampX / 100
	right[1] -= sign * swing * ampY / 100

	return left, right
}
