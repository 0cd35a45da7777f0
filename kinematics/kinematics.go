// Package kinematics holds the joint layout shared by every package that
// touches a flat per-joint vector: providers, enactor, sensors, transcriber.
// It names no algorithm of its own; it's the numbering scheme everything
// else agrees on.
package kinematics

// NumLegJoints is the joint count of one leg: hip yaw-pitch, hip roll, hip
// pitch, knee pitch, ankle pitch, ankle roll.
const NumLegJoints = 6

// NumArmJoints is the joint count of one arm: shoulder pitch, shoulder roll,
// elbow yaw, elbow roll.
const NumArmJoints = 4

// NumHeadJoints is the joint count of the head: yaw, pitch.
const NumHeadJoints = 2

// NumJoints is the total body joint count across both legs, both arms, and
// the head, in the fixed order the rest of the module agrees on.
const NumJoints = 2*NumLegJoints + 2*NumArmJoints + NumHeadJoints

// Joint indices into the flat NumJoints-length vector every provider,
// the switchboard, the enactor, and the transcriber pass around.
const (
	LHipYawPitch = iota
	LHipRoll
	LHipPitch
	LKneePitch
	LAnklePitch
	LAnkleRoll

	RHipYawPitch
	RHipRoll
	RHipPitch
	RKneePitch
	RAnklePitch
	RAnkleRoll

	LShoulderPitch
	LShoulderRoll
	LElbowYaw
	LElbowRoll

	RShoulderPitch
	RShoulderRoll
	RElbowYaw
	RElbowRoll

	HeadYaw
	HeadPitch
)

// JointNames gives each joint index a stable name for logging.
var JointNames = [NumJoints]string{
	LHipYawPitch: "LHipYawPitch", LHipRoll: "LHipRoll", LHipPitch: "LHipPitch",
	LKneePitch: "LKneePitch", LAnklePitch: "LAnklePitch", LAnkleRoll: "LAnkleRoll",

	RHipYawPitch: "RHipYawPitch", RHipRoll: "RHipRoll", RHipPitch: "RHipPitch",
	RKneePitch: "RKneePitch", RAnklePitch: "RAnklePitch", RAnkleRoll: "RAnkleRoll",

	LShoulderPitch: "LShoulderPitch", LShoulderRoll: "LShoulderRoll",
	LElbowYaw: "LElbowYaw", LElbowRoll: "LElbowRoll",

	RShoulderPitch: "RShoulderPitch", RShoulderRoll: "RShoulderRoll",
	RElbowYaw: "RElbowYaw", RElbowRoll: "RElbowRoll",

	HeadYaw: "HeadYaw", HeadPitch: "HeadPitch",
}

// MaxVelNoLoad is the maximum per-tick (20ms motion frame) joint travel in
// radians, used by the enactor's safety clip. Leg joints move fastest,
// head joints slowest; these are representative NAO-class servo limits,
// not a specific unit's calibration; config does not override them.
var MaxVelNoLoad = [NumJoints]float32{
	LHipYawPitch: 0.13, LHipRoll: 0.13, LHipPitch: 0.13,
	LKneePitch: 0.13, LAnklePitch: 0.13, LAnkleRoll: 0.13,

	RHipYawPitch: 0.13, RHipRoll: 0.13, RHipPitch: 0.13,
	RKneePitch: 0.13, RAnklePitch: 0.13, RAnkleRoll: 0.13,

	LShoulderPitch: 0.10, LShoulderRoll: 0.10, LElbowYaw: 0.10, LElbowRoll: 0.10,

	RShoulderPitch: 0.10, RShoulderRoll: 0.10, RElbowYaw: 0.10, RElbowRoll: 0.10,

	HeadYaw: 0.07, HeadPitch: 0.07,
}

// LegOffset returns the starting index of the given leg's six joints
// (0 for left, NumLegJoints for right).
func LegOffset(left bool) int {
	if left {
		return LHipYawPitch
	}
	return RHipYawPitch
}

// ArmOffset returns the starting index of the given arm's four joints.
func ArmOffset(left bool) int {
	if left {
		return LShoulderPitch
	}
	return RShoulderPitch
}
