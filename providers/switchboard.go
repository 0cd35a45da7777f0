package providers

import (
	"sync"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"

	"github.com/bowdoin-robotics/biped/kinematics"
	"github.com/bowdoin-robotics/biped/walk"
)

// MotionSwitchboard is the single point of arbitration between the body and
// head providers driving the robot on any given motion tick. It owns the
// currently-active BodyProvider/HeadProvider, routes incoming commands to
// the right one, and exposes the joint/stiffness vectors the enactor reads
// once per frame.
//
// Command-driven provider swaps happen at IsDone()/ReadyToSwap() boundaries
// (both legs settled in double support for the body chain); outside of that
// the switchboard keeps ticking whatever is already active, remembers the
// requested body provider, and installs it on the first Tick at which the
// old one reports it's safe to let go. FreezeCommand and UnfreezeCommand
// are the exception: they install their providers immediately, whatever
// state the active provider is in. A body provider whose Tick fails is
// replaced by the null provider holding its last pose.
type MotionSwitchboard struct {
	mu sync.Mutex

	logger golog.Logger

	walkProvider     *WalkProvider
	scriptedProvider *ScriptedProvider
	nullBody         *NullBodyProvider
	activeBody       BodyProvider
	pendingBody      BodyProvider

	headProvider *LiveHeadProvider
	nullHead     *NullHeadProvider
	activeHead   HeadProvider

	newJoints bool

	legJoints      [2]walk.JointAngles
	armJoints      [2]walk.ArmJointAngles
	legStiffness   [2][6]float32
	armStiffness   [2][4]float32
	headJoints     [2]float32
	headStiffness  [2]float32
}

// NewMotionSwitchboard wires a switchboard around its three concrete body
// providers and the head provider; the body chain starts parked on the null
// provider (zero stiffness, zero pose) and the head on its own null
// provider, mirroring the robot's power-on state before any command has
// been received.
func NewMotionSwitchboard(walkP *WalkProvider, scriptedP *ScriptedProvider, headP *LiveHeadProvider, logger golog.Logger) *MotionSwitchboard {
	nullBody := NewNullBodyProvider()
	nullHead := NewNullHeadProvider()
	return &MotionSwitchboard{
		logger:           logger,
		walkProvider:     walkP,
		scriptedProvider: scriptedP,
		nullBody:         nullBody,
		activeBody:       nullBody,
		headProvider:     headP,
		nullHead:         nullHead,
		activeHead:       nullHead,
	}
}

// SendWalkCommand installs the walk provider as active (if it wasn't
// already) and forwards a continuous-velocity walk command to it.
func (m *MotionSwitchboard) SendWalkCommand(cmd WalkCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapBodyIfReady(m.walkProvider)
	m.walkProvider.SetSpeed(cmd.X, cmd.Y, cmd.Theta)
}

// SendStepCommand installs the walk provider and forwards a fixed-count
// step command to it.
func (m *MotionSwitchboard) SendStepCommand(cmd StepCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapBodyIfReady(m.walkProvider)
	m.walkProvider.TakeSteps(cmd.X, cmd.Y, cmd.Theta, cmd.NumSteps)
}

// SendDistanceCommand installs the walk provider and forwards a
// fixed-distance command to it.
func (m *MotionSwitchboard) SendDistanceCommand(cmd DistanceCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapBodyIfReady(m.walkProvider)
	m.walkProvider.SetDistance(cmd.XMM, cmd.YMM, cmd.ThetaRad)
}

// SendGaitCommand begins a bounded-tick gait transition on the walk
// provider's MetaGait. It does not itself install the walk provider as
// active; a gait only matters once walking is underway.
func (m *MotionSwitchboard) SendGaitCommand(cmd GaitCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.walkProvider.SetGaitTarget(cmd.Gait, cmd.TransitionTicks)
}

// SendBodyJointCommand installs the scripted provider and enqueues cmd's
// keyframes onto it.
func (m *MotionSwitchboard) SendBodyJointCommand(cmd BodyJointCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapBodyIfReady(m.scriptedProvider)
	m.scriptedProvider.Enqueue(cmd)
}

// SendHeadJointCommand enqueues a scripted head motion.
func (m *MotionSwitchboard) SendHeadJointCommand(cmd HeadJointCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapHeadIfReady(m.headProvider)
	m.headProvider.Enqueue(cmd)
}

// SendSetHeadCommand moves the head directly to a pose.
func (m *MotionSwitchboard) SendSetHeadCommand(cmd SetHeadCommand, stiffness float32) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapHeadIfReady(m.headProvider)
	m.headProvider.SetHead(cmd, stiffness)
}

// SendFreezeCommand stops body and head motion and parks both chains on
// their null providers, holding current joint values at cmd's stiffness.
func (m *MotionSwitchboard) SendFreezeCommand(cmd FreezeCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	left, right := m.activeBody.NextLegJoints()
	armLeft, armRight := m.activeBody.NextArmJoints()
	m.nullBody.Hold(left, right, armLeft, armRight, cmd.Stiffness)
	m.activeBody = m.nullBody
	m.pendingBody = nil

	yaw, pitch := m.activeHead.NextHeadJoints()
	m.nullHead.Hold(yaw, pitch, cmd.Stiffness, cmd.Stiffness)
	m.activeHead = m.nullHead
}

// SendUnfreezeCommand releases a freeze by handing control back to the walk
// provider and the live head provider, whichever providers were active
// before the freeze. The walk provider resumes in whatever state its
// generator was left in; a walk in progress before the freeze continues.
func (m *MotionSwitchboard) SendUnfreezeCommand(cmd UnfreezeCommand) {
	m.logger.Debugw("switchboard: command", "cmd", cmd.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeBody = m.walkProvider
	m.pendingBody = nil
	m.activeHead = m.headProvider
}

// StopBodyMoves requests that whatever body provider is active wind down
// to a stop rather than halting mid-stride.
func (m *MotionSwitchboard) StopBodyMoves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeBody.RequestStop()
}

// StopHeadMoves requests that the active head provider stop; the live head
// provider drops its whole remaining keyframe queue on its next Tick.
func (m *MotionSwitchboard) StopHeadMoves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeHead.RequestStop()
}

// IsWalkActive reports whether the walk provider is both installed and
// actively stepping.
func (m *MotionSwitchboard) IsWalkActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeBody == BodyProvider(m.walkProvider) && m.walkProvider.IsActive()
}

// IsBodyActive reports whether any body provider other than the null
// provider is currently installed and active.
func (m *MotionSwitchboard) IsBodyActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeBody.IsActive()
}

// IsHeadActive reports whether the head chain is currently animating.
func (m *MotionSwitchboard) IsHeadActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeHead.IsActive()
}

// ResetWalkProvider hard-resets the walk provider's generator (used after a
// fault, per spec's resetHard discipline) without touching whichever
// provider is currently active.
func (m *MotionSwitchboard) ResetWalkProvider() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.walkProvider.gen.ResetHard()
}

// ResetScriptedProvider clears any queued scripted keyframes.
func (m *MotionSwitchboard) ResetScriptedProvider() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scriptedProvider.RequestStop()
}

// GetOdometryUpdate forwards to the walk provider, consuming its
// accumulated odometry delta since the last read.
func (m *MotionSwitchboard) GetOdometryUpdate() (dx, dy, dtheta float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.walkProvider.GetOdometryUpdate()
}

// swapBodyIfReady installs next as the active body provider if a different
// provider is currently active and that provider is ready to let go; if it
// is not ready, next is remembered and Tick installs it once it is. If the
// requested provider is already active this is a no-op.
func (m *MotionSwitchboard) swapBodyIfReady(next BodyProvider) {
	if m.activeBody == next {
		m.pendingBody = nil
		return
	}
	if !m.activeBody.ReadyToSwap() {
		m.logger.Debugw("switchboard: body provider swap deferred, active provider not ready")
		m.pendingBody = next
		return
	}
	m.activeBody = next
	m.pendingBody = nil
}

func (m *MotionSwitchboard) swapHeadIfReady(next HeadProvider) {
	if m.activeHead == next {
		return
	}
	if !m.activeHead.IsDone() {
		m.logger.Debugw("switchboard: head provider swap deferred, active provider not ready")
		return
	}
	m.activeHead = next
}

// Tick advances whichever body and head providers are active by one motion
// frame and latches their output into the switchboard's joint/stiffness
// vectors for the enactor to read via NextJoints/NextStiffness. This is the
// single call the motion-tick thread makes per frame once signaled by the
// enactor.
func (m *MotionSwitchboard) Tick() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pendingBody != nil && m.activeBody.ReadyToSwap() {
		m.activeBody = m.pendingBody
		m.pendingBody = nil
	}

	// Both chains tick independently of one another: a fault in one must
	// not starve the other of its frame, so their errors are combined
	// rather than short-circuited.
	bodyErr := m.activeBody.Tick()
	if bodyErr != nil && m.activeBody != BodyProvider(m.nullBody) {
		// Treat the error as a requestStop and hold the failed provider's
		// last pose on the null provider at the last latched leg stiffness.
		m.activeBody.RequestStop()
		left, right := m.activeBody.NextLegJoints()
		armLeft, armRight := m.activeBody.NextArmJoints()
		m.nullBody.Hold(left, right, armLeft, armRight, m.legStiffness[0][0])
		m.activeBody = m.nullBody
	}
	err := multierr.Combine(bodyErr, m.activeHead.Tick())

	m.legJoints[0], m.legJoints[1] = m.activeBody.NextLegJoints()
	m.armJoints[0], m.armJoints[1] = m.activeBody.NextArmJoints()
	m.legStiffness[0], m.legStiffness[1] = m.activeBody.NextLegStiffness()
	m.armStiffness[0], m.armStiffness[1] = m.activeBody.NextArmStiffness()
	m.headJoints[0], m.headJoints[1] = m.activeHead.NextHeadJoints()
	m.headStiffness[0], m.headStiffness[1] = m.activeHead.NextHeadStiffness()
	m.newJoints = true
	return err
}

// NextJoints assembles the full flat joint vector (legs, arms, head, in
// kinematics index order) for the enactor, clearing the newJoints flag.
func (m *MotionSwitchboard) NextJoints() [kinematics.NumJoints]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newJoints = false
	return m.assembleJoints()
}

// NextStiffness assembles the full flat stiffness vector matching
// NextJoints' layout.
func (m *MotionSwitchboard) NextStiffness() [kinematics.NumJoints]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assembleStiffness()
}

// HasNewJoints reports whether Tick has produced a frame not yet consumed
// by NextJoints.
func (m *MotionSwitchboard) HasNewJoints() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newJoints
}

func (m *MotionSwitchboard) assembleJoints() [kinematics.NumJoints]float32 {
	var out [kinematics.NumJoints]float32
	copy(out[kinematics.LegOffset(true):], m.legJoints[0][:])
	copy(out[kinematics.LegOffset(false):], m.legJoints[1][:])
	copy(out[kinematics.ArmOffset(true):], m.armJoints[0][:])
	copy(out[kinematics.ArmOffset(false):], m.armJoints[1][:])
	out[kinematics.HeadYaw] = m.headJoints[0]
	out[kinematics.HeadPitch] = m.headJoints[1]
	return out
}

func (m *MotionSwitchboard) assembleStiffness() [kinematics.NumJoints]float32 {
	var out [kinematics.NumJoints]float32
	copy(out[kinematics.LegOffset(true):], m.legStiffness[0][:])
	copy(out[kinematics.LegOffset(false):], m.legStiffness[1][:])
	copy(out[kinematics.ArmOffset(true):], m.armStiffness[0][:])
	copy(out[kinematics.ArmOffset(false):], m.armStiffness[1][:])
	out[kinematics.HeadYaw] = m.headStiffness[0]
	out[kinematics.HeadPitch] = m.headStiffness[1]
	return out
}
