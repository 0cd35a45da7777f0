package walk

import "math"

// LegGoal is the target foot pose, in the COM (c) frame, that the closed
// form solver must reach: position, foot yaw, and the hip's lateral offset
// from the body's sagittal plane (positive for the left leg).
type LegGoal struct {
	Foot      Foot
	X, Y, Z   float32 // mm
	Theta     float32 // rad, foot yaw about z
	HipOffset float32 // mm
}

// IKSolver solves a LegGoal into six joint angles or reports it unreachable.
type IKSolver func(goal LegGoal) (JointAngles, error)

// Link lengths for the closed-form hip-knee-ankle solver, mm. These name a
// specific robot's leg geometry and are overridden per-robot via
// NewClosedFormIK; the defaults are representative NAO-class dimensions.
type LegGeometry struct {
	HipToKneeMM  float32
	KneeToAnkleMM float32
	AnkleToFootMM float32
}

// DefaultLegGeometry returns NAO-class leg link lengths.
func DefaultLegGeometry() LegGeometry {
	return LegGeometry{HipToKneeMM: 100, KneeToAnkleMM: 102.9, AnkleToFootMM: 45.19}
}

// NewClosedFormIK returns an IKSolver implementing the standard
// hip-yaw-pitch/hip-roll/hip-pitch/knee-pitch/ankle-pitch/ankle-roll leg
// chain: the hip-to-ankle distance is solved via the law of cosines for the
// knee angle, then the hip and ankle pitch/roll angles are recovered from
// the direction of the hip-to-ankle vector in the rotated hip frame. This
// mirrors the two-link-planar-arm decomposition the older arm kinematics
// code in the example pack uses, generalized to a spherical hip joint.
func NewClosedFormIK(geo LegGeometry) IKSolver {
	return func(goal LegGoal) (JointAngles, error) {
		// Translate the goal into the hip-local frame: the hip sits at
		// (0, hipOffset, 0) relative to the body origin the goal is
		// already expressed in.
		dx := goal.X
		dy := goal.Y - goal.HipOffset
		dz := goal.Z

		reach := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
		maxReach := geo.HipToKneeMM + geo.KneeToAnkleMM + geo.AnkleToFootMM
		minReach := absf(geo.HipToKneeMM - geo.KneeToAnkleMM)
		if reach > maxReach {
			return JointAngles{}, &IKError{Foot: goal.Foot, Reason: "goal beyond maximum leg extension"}
		}
		if reach < minReach {
			return JointAngles{}, &IKError{Foot: goal.Foot, Reason: "goal inside minimum leg extension"}
		}

		// Knee pitch via law of cosines on the hip-knee-ankle triangle.
		cosKnee := (geo.HipToKneeMM*geo.HipToKneeMM + geo.KneeToAnkleMM*geo.KneeToAnkleMM - reach*reach) /
			(2 * geo.HipToKneeMM * geo.KneeToAnkleMM)
		cosKnee = clampUnit(cosKnee)
		kneePitch := pi - float32(math.Acos(float64(cosKnee)))

		// Angle between the hip-to-ankle line and the upper leg link.
		cosHipAnkle := (geo.HipToKneeMM*geo.HipToKneeMM + reach*reach - geo.KneeToAnkleMM*geo.KneeToAnkleMM) /
			(2 * geo.HipToKneeMM * reach)
		cosHipAnkle = clampUnit(cosHipAnkle)
		hipAnkleAngle := float32(math.Acos(float64(cosHipAnkle)))

		// Direction of the hip-to-ankle vector, decomposed into pitch
		// (forward/back + down) and roll (side + down).
		horiz := float32(math.Sqrt(float64(dx*dx + dz*dz)))
		dirPitch := float32(math.Atan2(float64(-dx), float64(-dz)))
		dirRoll := float32(math.Atan2(float64(dy), float64(horiz)))

		hipPitch := dirPitch - hipAnkleAngle
		hipRoll := dirRoll
		anklePitch := -(kneePitch - hipAnkleAngle) // levels the foot flat
		ankleRoll := -hipRoll

		// Hip yaw-pitch couples roll and yaw on this leg's real joint (a
		// mechanical quirk of the NAO hip); folding the foot's commanded
		// yaw directly into that joint is the closed-form approximation
		// the original solver uses rather than an iterative refinement.
		hipYawPitch := goal.Theta

		return JointAngles{hipYawPitch, hipRoll, hipPitch, kneePitch, anklePitch, ankleRoll}, nil
	}
}

func clampUnit(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
