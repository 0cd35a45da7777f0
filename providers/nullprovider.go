package providers

import "github.com/bowdoin-robotics/biped/walk"

// NullBodyProvider holds whatever joint values it was last told to hold,
// at a caller-chosen stiffness. The switchboard starts on it (zero pose,
// zero stiffness) and swaps it in on FreezeCommand and when the active body
// provider's Tick fails; it is not swapped in merely because another
// provider has gone idle.
type NullBodyProvider struct {
	legLeft, legRight walk.JointAngles
	armLeft, armRight walk.ArmJointAngles
	stiffness         float32
}

// NewNullBodyProvider builds a null provider holding the zero pose at zero
// stiffness (fully decoupled); callers should call Hold before it becomes
// active if a specific pose must be held.
func NewNullBodyProvider() *NullBodyProvider {
	return &NullBodyProvider{}
}

// Hold sets the pose and stiffness this provider reports from now on,
// typically the outgoing provider's last commanded values.
func (n *NullBodyProvider) Hold(legLeft, legRight walk.JointAngles, armLeft, armRight walk.ArmJointAngles, stiffness float32) {
	n.legLeft, n.legRight = legLeft, legRight
	n.armLeft, n.armRight = armLeft, armRight
	n.stiffness = stiffness
}

// Tick does nothing; the null provider never changes its held pose on its
// own.
func (n *NullBodyProvider) Tick() error { return nil }

// NextLegJoints returns the held leg pose.
func (n *NullBodyProvider) NextLegJoints() (left, right walk.JointAngles) {
	return n.legLeft, n.legRight
}

// NextArmJoints returns the held arm pose.
func (n *NullBodyProvider) NextArmJoints() (left, right walk.ArmJointAngles) {
	return n.armLeft, n.armRight
}

// NextLegStiffness returns the held stiffness, broadcast across all six leg
// joints of each leg.
func (n *NullBodyProvider) NextLegStiffness() (left, right [6]float32) {
	s := [6]float32{n.stiffness, n.stiffness, n.stiffness, n.stiffness, n.stiffness, n.stiffness}
	return s, s
}

// NextArmStiffness returns the held stiffness, broadcast across all four
// arm joints of each arm.
func (n *NullBodyProvider) NextArmStiffness() (left, right [4]float32) {
	s := [4]float32{n.stiffness, n.stiffness, n.stiffness, n.stiffness}
	return s, s
}

// IsDone is always true: a null provider has nothing further to do and is
// always ready to be swapped out.
func (n *NullBodyProvider) IsDone() bool { return true }

// IsActive is always false; holding a pose is not "active" motion.
func (n *NullBodyProvider) IsActive() bool { return false }

// ReadyToSwap is always true.
func (n *NullBodyProvider) ReadyToSwap() bool { return true }

// RequestStop is a no-op: there is nothing in motion to wind down.
func (n *NullBodyProvider) RequestStop() {}

// NullHeadProvider is NullBodyProvider's head-chain counterpart.
type NullHeadProvider struct {
	yaw, pitch           float32
	stiffYaw, stiffPitch float32
}

// NewNullHeadProvider builds a null head provider holding (0, 0) at zero
// stiffness.
func NewNullHeadProvider() *NullHeadProvider {
	return &NullHeadProvider{}
}

// Hold sets the head pose and stiffness this provider reports from now on.
func (n *NullHeadProvider) Hold(yaw, pitch, stiffYaw, stiffPitch float32) {
	n.yaw, n.pitch = yaw, pitch
	n.stiffYaw, n.stiffPitch = stiffYaw, stiffPitch
}

// Tick does nothing.
func (n *NullHeadProvider) Tick() error { return nil }

// NextHeadJoints returns the held head pose.
func (n *NullHeadProvider) NextHeadJoints() (yaw, pitch float32) { return n.yaw, n.pitch }

// NextHeadStiffness returns the held head stiffness.
func (n *NullHeadProvider) NextHeadStiffness() (yaw, pitch float32) {
	return n.stiffYaw, n.stiffPitch
}

// IsDone is always true.
func (n *NullHeadProvider) IsDone() bool { return true }

// IsActive is always false.
func (n *NullHeadProvider) IsActive() bool { return false }

// RequestStop is a no-op.
func (n *NullHeadProvider) RequestStop() {}
