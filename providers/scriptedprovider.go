package providers

import (
	"github.com/bowdoin-robotics/biped/kinematics"
	"github.com/bowdoin-robotics/biped/walk"
)

// ScriptedProvider is the BodyProvider that plays back a queue of
// JointKeyframes: non-walk body motion such as a sit, a stand, or a
// choreographed gesture. Frames interpolate linearly between the previous
// and target keyframe over its DurationSecs.
type ScriptedProvider struct {
	tickHz float32

	queue []JointKeyframe
	from  [kinematics.NumJoints]float32

	framesIntoCurrent int
	framesTotal       int

	stopRequested bool
}

// NewScriptedProvider builds a player ticking at tickHz (matching the
// switchboard's motion-tick rate), starting from restPose (held until the
// first Enqueue call).
func NewScriptedProvider(tickHz float32, restPose [kinematics.NumJoints]float32) *ScriptedProvider {
	return &ScriptedProvider{tickHz: tickHz, from: restPose}
}

// Enqueue appends a scripted body motion's keyframes to the playback queue.
func (s *ScriptedProvider) Enqueue(cmd BodyJointCommand) {
	s.stopRequested = false
	s.queue = append(s.queue, cmd.Keyframes...)
}

// Tick advances playback by one motion frame, starting the next keyframe
// when the current one completes.
func (s *ScriptedProvider) Tick() error {
	if len(s.queue) == 0 {
		return nil
	}
	if s.stopRequested {
		s.queue = nil
		return nil
	}

	if s.framesTotal == 0 {
		s.framesTotal = maxInt1(int(s.queue[0].DurationSecs*s.tickHz), 1)
		s.framesIntoCurrent = 0
	}

	s.framesIntoCurrent++
	if s.framesIntoCurrent >= s.framesTotal {
		s.from = s.queue[0].Joints
		s.queue = s.queue[1:]
		s.framesTotal = 0
		s.framesIntoCurrent = 0
	}
	return nil
}

func maxInt1(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *ScriptedProvider) currentPose() [kinematics.NumJoints]float32 {
	if len(s.queue) == 0 {
		return s.from
	}
	target := s.queue[0]
	frac := float32(0)
	if s.framesTotal > 0 {
		frac = float32(s.framesIntoCurrent) / float32(s.framesTotal)
	}
	var out [kinematics.NumJoints]float32
	for i := range out {
		out[i] = s.from[i] + frac*(target.Joints[i]-s.from[i])
	}
	return out
}

func (s *ScriptedProvider) currentStiffness() [kinematics.NumJoints]float32 {
	if len(s.queue) == 0 {
		var zero [kinematics.NumJoints]float32
		return zero
	}
	return s.queue[0].Stiffness
}

// NextLegJoints extracts the leg portion of the current interpolated pose.
func (s *ScriptedProvider) NextLegJoints() (left, right walk.JointAngles) {
	pose := s.currentPose()
	copy(left[:], pose[kinematics.LegOffset(true):kinematics.LegOffset(true)+6])
	copy(right[:], pose[kinematics.LegOffset(false):kinematics.LegOffset(false)+6])
	return left, right
}

// NextArmJoints extracts the arm portion of the current interpolated pose.
func (s *ScriptedProvider) NextArmJoints() (left, right walk.ArmJointAngles) {
	pose := s.currentPose()
	copy(left[:], pose[kinematics.ArmOffset(true):kinematics.ArmOffset(true)+4])
	copy(right[:], pose[kinematics.ArmOffset(false):kinematics.ArmOffset(false)+4])
	return left, right
}

// NextLegStiffness extracts the leg portion of the current keyframe's
// stiffness vector.
func (s *ScriptedProvider) NextLegStiffness() (left, right [6]float32) {
	stiff := s.currentStiffness()
	copy(left[:], stiff[kinematics.LegOffset(true):kinematics.LegOffset(true)+6])
	copy(right[:], stiff[kinematics.LegOffset(false):kinematics.LegOffset(false)+6])
	return left, right
}

// NextArmStiffness extracts the arm portion of the current keyframe's
// stiffness vector.
func (s *ScriptedProvider) NextArmStiffness() (left, right [4]float32) {
	stiff := s.currentStiffness()
	copy(left[:], stiff[kinematics.ArmOffset(true):kinematics.ArmOffset(true)+4])
	copy(right[:], stiff[kinematics.ArmOffset(false):kinematics.ArmOffset(false)+4])
	return left, right
}

// IsDone reports whether the keyframe queue has drained.
func (s *ScriptedProvider) IsDone() bool { return len(s.queue) == 0 }

// IsActive is the negation of IsDone.
func (s *ScriptedProvider) IsActive() bool { return len(s.queue) != 0 }

// ReadyToSwap is the same as IsDone for a scripted provider: there's no
// mid-swing constraint the way there is for the walk.
func (s *ScriptedProvider) ReadyToSwap() bool { return s.IsDone() }

// RequestStop drops the remainder of the queue on the next Tick, holding
// whatever pose playback has reached.
func (s *ScriptedProvider) RequestStop() {
	s.stopRequested = true
}
