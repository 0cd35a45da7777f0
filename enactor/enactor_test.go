package enactor

import (
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/bowdoin-robotics/biped/kinematics"
)

type fakeBus struct {
	aliases   map[string][]string
	lastPos   []float32
	lastStiff []float32
	posCalls  int
}

func newFakeBus() *fakeBus { return &fakeBus{aliases: map[string][]string{}} }

func (b *fakeBus) CreateAlias(name string, jointList []string) error {
	b.aliases[name] = jointList
	return nil
}

func (b *fakeBus) SetAlias(alias string, command []float32) error {
	cp := append([]float32(nil), command...)
	if alias == AllActuatorPositionAlias {
		b.lastPos = cp
		b.posCalls++
	} else {
		b.lastStiff = cp
	}
	return nil
}

func (b *fakeBus) GetTime(offset time.Duration) time.Time { return time.Time{}.Add(offset) }

type fakeJoints struct {
	target    [kinematics.NumJoints]float32
	stiffness [kinematics.NumJoints]float32
}

func (f *fakeJoints) NextJoints() [kinematics.NumJoints]float32    { return f.target }
func (f *fakeJoints) NextStiffness() [kinematics.NumJoints]float32 { return f.stiffness }

type fakeSensed struct {
	angles [kinematics.NumJoints]float32
}

func (f *fakeSensed) JointAngles() [kinematics.NumJoints]float32 { return f.angles }

func TestSafetyClipLimitsLargeJump(t *testing.T) {
	got := SafetyCheck(1.0, 0, 0, 0.05)
	test.That(t, got, test.ShouldEqual, float32(0.05))
}

func TestSafetyClipAllowsSmallMotion(t *testing.T) {
	got := SafetyCheck(0.02, 0, 0, 0.05)
	test.That(t, got, test.ShouldEqual, float32(0.02))
}

func TestTickClipsAgainstLastAndSensed(t *testing.T) {
	bus := newFakeBus()
	joints := &fakeJoints{}
	joints.target[kinematics.LKneePitch] = 1.0
	sensed := &fakeSensed{}

	maxVel := kinematics.MaxVelNoLoad
	e, err := New(bus, joints, sensed, maxVel, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, e.Tick(), test.ShouldBeNil)
	test.That(t, bus.lastPos[kinematics.LKneePitch], test.ShouldEqual, maxVel[kinematics.LKneePitch])
}

func TestStiffnessOnlySentOnChange(t *testing.T) {
	bus := newFakeBus()
	joints := &fakeJoints{}
	joints.stiffness[kinematics.LKneePitch] = 0.85
	sensed := &fakeSensed{}
	e, err := New(bus, joints, sensed, kinematics.MaxVelNoLoad, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, e.Tick(), test.ShouldBeNil)
	firstStiff := bus.lastStiff
	bus.lastStiff = nil

	test.That(t, e.Tick(), test.ShouldBeNil)
	test.That(t, bus.lastStiff, test.ShouldBeNil)
	test.That(t, firstStiff, test.ShouldNotBeNil)
}

func TestUltrasoundCyclesOnItsOwnSlowTick(t *testing.T) {
	bus := newFakeBus()
	joints := &fakeJoints{}
	sensed := &fakeSensed{}
	e, err := New(bus, joints, sensed, kinematics.MaxVelNoLoad, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	start := e.UltrasoundMode()
	for i := 0; i < ultrasoundPeriod; i++ {
		test.That(t, e.Tick(), test.ShouldBeNil)
	}
	test.That(t, e.UltrasoundMode(), test.ShouldNotEqual, start)
}
