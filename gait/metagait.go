package gait

// MetaGait interpolates between an active Gait and a target Gait over a
// bounded number of ticks, so a gait swap (e.g. walk -> stop-stance) never
// discontinuously jumps step length or stiffness mid-stride. Each Tick call
// is one transition tick; MetaGait has no notion of step boundaries, and the
// walk provider calls Tick once per motion frame while a transition is
// pending.
type MetaGait struct {
	active    Gait
	start     Gait
	target    Gait
	remaining int
	total     int
}

// NewMetaGait starts a MetaGait already settled on g, with no transition
// pending.
func NewMetaGait(g Gait) *MetaGait {
	return &MetaGait{active: g, target: g}
}

// SetTarget begins a transition from the current gait to g over the given
// number of ticks. A ticks value of 0 or 1 switches immediately on the next
// Tick.
func (m *MetaGait) SetTarget(g Gait, ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	m.start = m.active
	m.target = g
	m.total = ticks
	m.remaining = ticks
}

// Current returns the gait in effect without advancing the transition.
func (m *MetaGait) Current() Gait {
	return m.active
}

// Done reports whether any transition in progress has completed.
func (m *MetaGait) Done() bool {
	return m.remaining == 0
}

// Tick advances the transition by one tick and returns the resulting gait,
// interpolated linearly between the gait at SetTarget time and the target.
// Once remaining reaches zero, active snaps exactly to target so repeated
// interpolation error can't accumulate.
func (m *MetaGait) Tick() Gait {
	if m.remaining == 0 {
		return m.active
	}
	m.remaining--
	frac := float32(1)
	if m.total > 0 {
		frac = 1 - float32(m.remaining)/float32(m.total)
	}
	if m.remaining == 0 {
		m.active = m.target
		return m.active
	}
	m.active = lerpGait(m.start, m.target, frac)
	return m.active
}

func lerp(a, b, frac float32) float32 {
	return a + (b-a)*frac
}

func lerpGait(a, b Gait, frac float32) Gait {
	return Gait{
		Name: b.Name,
		Stance: Stance{
			BodyOffsetXMM:    lerp(a.Stance.BodyOffsetXMM, b.Stance.BodyOffsetXMM, frac),
			BodyHeightMM:     lerp(a.Stance.BodyHeightMM, b.Stance.BodyHeightMM, frac),
			LegSeparationYMM: lerp(a.Stance.LegSeparationYMM, b.Stance.LegSeparationYMM, frac),
			FootLiftMM:       lerp(a.Stance.FootLiftMM, b.Stance.FootLiftMM, frac),
		},
		Step: Step{
			DurationSec:           lerp(a.Step.DurationSec, b.Step.DurationSec, frac),
			DoubleSupportFraction: lerp(a.Step.DoubleSupportFraction, b.Step.DoubleSupportFraction, frac),
			MaxStepLengthXMM:      lerp(a.Step.MaxStepLengthXMM, b.Step.MaxStepLengthXMM, frac),
			MaxStepWidthYMM:       lerp(a.Step.MaxStepWidthYMM, b.Step.MaxStepWidthYMM, frac),
			MaxStepTurnRad:        lerp(a.Step.MaxStepTurnRad, b.Step.MaxStepTurnRad, frac),
			MaxAccelXMMPerStep:    lerp(a.Step.MaxAccelXMMPerStep, b.Step.MaxAccelXMMPerStep, frac),
			MaxAccelYMMPerStep:    lerp(a.Step.MaxAccelYMMPerStep, b.Step.MaxAccelYMMPerStep, frac),
			MaxAccelThetaPerStep:  lerp(a.Step.MaxAccelThetaPerStep, b.Step.MaxAccelThetaPerStep, frac),
		},
		ZMP: ZMP{
			StaticFraction: lerp(a.ZMP.StaticFraction, b.ZMP.StaticFraction, frac),
			LeftOffsetYMM:  lerp(a.ZMP.LeftOffsetYMM, b.ZMP.LeftOffsetYMM, frac),
			RightOffsetYMM: lerp(a.ZMP.RightOffsetYMM, b.ZMP.RightOffsetYMM, frac),
			TurnOffsetMM:   lerp(a.ZMP.TurnOffsetMM, b.ZMP.TurnOffsetMM, frac),
			StrafeOffsetMM: lerp(a.ZMP.StrafeOffsetMM, b.ZMP.StrafeOffsetMM, frac),
			FootLengthXMM:  lerp(a.ZMP.FootLengthXMM, b.ZMP.FootLengthXMM, frac),
		},
		Hack: Hack{
			ArmAmplitudeXMM: lerp(a.Hack.ArmAmplitudeXMM, b.Hack.ArmAmplitudeXMM, frac),
			ArmAmplitudeYMM: lerp(a.Hack.ArmAmplitudeYMM, b.Hack.ArmAmplitudeYMM, frac),
		},
		Sensor: Sensor{
			ObserverScale: lerp(a.Sensor.ObserverScale, b.Sensor.ObserverScale, frac),
		},
		Stiffness: Stiffness{
			Leg:  lerp(a.Stiffness.Leg, b.Stiffness.Leg, frac),
			Arm:  lerp(a.Stiffness.Arm, b.Stiffness.Arm, frac),
			Head: lerp(a.Stiffness.Head, b.Stiffness.Head, frac),
		},
	}
}
