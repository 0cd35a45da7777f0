// Package gait holds the immutable parameter bundles that drive the walk
// engine: named groups for stance, step timing, ZMP shaping, arm swing
// amplitude, sensor feedback, and joint stiffness. A Gait value is never
// mutated in place; transitions between gaits go through MetaGait.
package gait

// Stance bundles the robot's standing posture parameters.
type Stance struct {
	BodyOffsetXMM    float32 `yaml:"bodyOffsetXMM"`    // forward offset of the COM from the hip, mm
	BodyHeightMM     float32 `yaml:"bodyHeightMM"`     // height of the hip above the ground, mm
	LegSeparationYMM float32 `yaml:"legSeparationYMM"` // lateral distance between the hips, mm
	FootLiftMM       float32 `yaml:"footLiftMM"`       // height the swing foot rises to at mid-swing, mm
}

// Step bundles step timing and the size envelope used for clipping.
type Step struct {
	DurationSec           float32 `yaml:"durationSec"` // total time for one step, support+swing
	DoubleSupportFraction float32 `yaml:"doubleSupportFraction"`
	MaxStepLengthXMM      float32 `yaml:"maxStepLengthXMM"`
	MaxStepWidthYMM       float32 `yaml:"maxStepWidthYMM"`
	MaxStepTurnRad        float32 `yaml:"maxStepTurnRad"`
	MaxAccelXMMPerStep    float32 `yaml:"maxAccelXMMPerStep"` // max change in per-step x displacement
	MaxAccelYMMPerStep    float32 `yaml:"maxAccelYMMPerStep"`
	MaxAccelThetaPerStep  float32 `yaml:"maxAccelThetaPerStep"`
}

// ZMP bundles the offsets used to shape the ZMP reference trajectory.
type ZMP struct {
	StaticFraction float32 `yaml:"staticFraction"` // fraction of double support spent motionless at each end
	LeftOffsetYMM  float32 `yaml:"leftOffsetYMM"`  // shifts ZMP toward the outside of the left foot
	RightOffsetYMM float32 `yaml:"rightOffsetYMM"`
	TurnOffsetMM   float32 `yaml:"turnOffsetMM"`   // additional offset, scaled by theta/pi
	StrafeOffsetMM float32 `yaml:"strafeOffsetMM"` // additional offset per mm of lateral step
	FootLengthXMM  float32 `yaml:"footLengthXMM"`  // approximate foot length, used for the mid anchor point
}

// Hack bundles the arm-swing amplitudes (named for the source's own
// admission that arm swing is a cosmetic hack layered on top of the walk).
type Hack struct {
	ArmAmplitudeXMM float32 `yaml:"armAmplitudeXMM"`
	ArmAmplitudeYMM float32 `yaml:"armAmplitudeYMM"`
}

// Sensor bundles the ZMP observer feedback gain.
type Sensor struct {
	ObserverScale float32 `yaml:"observerScale"` // 0 disables sensor feedback; see DESIGN.md Open Question (b)
}

// Stiffness bundles the per-chain joint stiffness fractions sent with every
// joint command, in [0,1] (or -1 to decouple the motor).
type Stiffness struct {
	Leg  float32 `yaml:"leg"`
	Arm  float32 `yaml:"arm"`
	Head float32 `yaml:"head"`
}

// Gait is the full immutable parameter bundle for one walking style.
type Gait struct {
	Name      string    `yaml:"name"`
	Stance    Stance    `yaml:"stance"`
	Step      Step      `yaml:"step"`
	ZMP       ZMP       `yaml:"zmp"`
	Hack      Hack      `yaml:"hack"`
	Sensor    Sensor    `yaml:"sensor"`
	Stiffness Stiffness `yaml:"stiffness"`
}

// Default returns the baseline walking gait. Values are representative of a
// small humanoid (NAO-class) biped: ~50mm hip offset, a 220mm hip height
// (inside the ~248mm reach of walk.DefaultLegGeometry), 50 Hz tick rate,
// 0.5s nominal step.
func Default() Gait {
	return Gait{
		Name: "default",
		Stance: Stance{
			BodyOffsetXMM:    20,
			BodyHeightMM:     220,
			LegSeparationYMM: 100,
			FootLiftMM:       18,
		},
		Step: Step{
			DurationSec:           0.5,
			DoubleSupportFraction: 0.2,
			MaxStepLengthXMM:      60,
			MaxStepWidthYMM:       40,
			MaxStepTurnRad:        0.3,
			MaxAccelXMMPerStep:    20,
			MaxAccelYMMPerStep:    15,
			MaxAccelThetaPerStep:  0.1,
		},
		ZMP: ZMP{
			StaticFraction: 0.6,
			LeftOffsetYMM:  20,
			RightOffsetYMM: 20,
			TurnOffsetMM:   7,
			StrafeOffsetMM: 0.1,
			FootLengthXMM:  0,
		},
		Hack: Hack{
			ArmAmplitudeXMM: 30,
			ArmAmplitudeYMM: 10,
		},
		Sensor: Sensor{
			ObserverScale: 0, // left at zero pending tuning, see Open Question (b)
		},
		Stiffness: Stiffness{
			Leg:  0.85,
			Arm:  0.5,
			Head: 0.3,
		},
	}
}

// FrameCounts returns the number of motion ticks a step with this gait's
// Step config spends in double support, single support, and total, at the
// given tick rate.
func (s Step) FrameCounts(tickHz float32) (total, double, single int) {
	total = int(s.DurationSec*tickHz + 0.5)
	double = int(s.DurationSec*s.DoubleSupportFraction*tickHz + 0.5)
	single = total - double
	return total, double, single
}
