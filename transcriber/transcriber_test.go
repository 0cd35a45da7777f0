package transcriber

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/bowdoin-robotics/biped/kinematics"
)

type fakeSource struct {
	values []float32
	err    error
}

func (f *fakeSource) GetValues(names []string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]float32, len(names))
	copy(out, f.values)
	return out, nil
}

func allZeros() []float32 {
	return make([]float32, kinematics.NumJoints+FSRCount+3+2+2+kinematics.NumJoints)
}

func TestTickPopulatesJointAngles(t *testing.T) {
	values := allZeros()
	values[kinematics.LKneePitch] = 0.5
	src := &fakeSource{values: values}
	tr := New(src, DefaultAccelCalibration(), golog.NewTestLogger(t))

	test.That(t, tr.Tick(), test.ShouldBeNil)
	test.That(t, tr.Sensors().JointAngles()[kinematics.LKneePitch], test.ShouldEqual, float32(0.5))
}

func TestTickReusesPreviousOnError(t *testing.T) {
	values := allZeros()
	values[kinematics.LKneePitch] = 1.25
	src := &fakeSource{values: values}
	tr := New(src, DefaultAccelCalibration(), golog.NewTestLogger(t))
	test.That(t, tr.Tick(), test.ShouldBeNil)

	src.err = errAny
	test.That(t, tr.Tick(), test.ShouldBeNil)
	test.That(t, tr.Sensors().JointAngles()[kinematics.LKneePitch], test.ShouldEqual, float32(1.25))
}

var errAny = &transientError{}

type transientError struct{}

func (*transientError) Error() string { return "transient read failure" }

func TestAccelCalibrationSignFlip(t *testing.T) {
	calib := DefaultAccelCalibration()
	out := calib.apply(1, 0, 0)
	test.That(t, out.X < 0, test.ShouldBeTrue)
}
