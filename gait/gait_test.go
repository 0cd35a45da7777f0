package gait

import (
	"testing"

	"go.viam.com/test"
)

func TestMetaGaitSettlesOnTarget(t *testing.T) {
	start := Default()
	target := Default()
	target.Stance.BodyHeightMM = 280

	mg := NewMetaGait(start)
	mg.SetTarget(target, 4)

	for i := 0; i < 3; i++ {
		mg.Tick()
		test.That(t, mg.Done(), test.ShouldBeFalse)
	}
	final := mg.Tick()
	test.That(t, mg.Done(), test.ShouldBeTrue)
	test.That(t, final.Stance.BodyHeightMM, test.ShouldEqual, target.Stance.BodyHeightMM)
}

func TestMetaGaitNoTransitionIsStable(t *testing.T) {
	g := Default()
	mg := NewMetaGait(g)
	test.That(t, mg.Done(), test.ShouldBeTrue)
	test.That(t, mg.Tick(), test.ShouldResemble, g)
}

func TestMetaGaitInterpolatesMonotonically(t *testing.T) {
	start := Default()
	target := Default()
	target.Step.MaxStepLengthXMM = start.Step.MaxStepLengthXMM + 40

	mg := NewMetaGait(start)
	mg.SetTarget(target, 5)

	prev := start.Step.MaxStepLengthXMM
	for i := 0; i < 5; i++ {
		cur := mg.Tick().Step.MaxStepLengthXMM
		test.That(t, cur, test.ShouldBeGreaterThanOrEqualTo, prev)
		prev = cur
	}
	test.That(t, prev, test.ShouldEqual, target.Step.MaxStepLengthXMM)
}
