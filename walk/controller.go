package walk

import "math"

// WalkController is the 1-D cart-table feedback controller contract: one
// instance drives the x axis, another the y axis. Tick consumes the full
// preview window of future ZMP references plus the current reference and
// sensed ZMP, and returns the new COM position along that axis.
type WalkController interface {
	Tick(zmpRefPreview []float32, curZMPRef, sensorZMP float32) float32
	Position() float32
	ZMP() float32
	InitState(x, v, p float32)
}

// previewWeights, aC, bVec, and cRow are the precomputed cart-table
// constants: the discrete Riccati-derived gain vector over the
// NumPreviewFrames-sample window, the system transition matrix, the input
// vector, and the output (ZMP-readout) row vector. cmd/previewgen is the
// tool of record for regenerating these whenever the cart-table height or
// tick rate changes. The values below are for 50 Hz and a ~260 mm pendulum
// height but are not that tool's output: aC and bVec are a first-order
// discretization (without the dt²/2 and dt³/6 terms cmd/previewgen's
// matrices carry), and previewWeightsFor is a closed-form stand-in for its
// Riccati solve, evaluated once here at package init, not per tick.
var (
	previewWeights = previewWeightsFor(NumPreviewFrames)
	aC             = [3][3]float32{
		{1, 1.0 / 50, 0},
		{0, 1, 1.0 / 50},
		{0, 0, 1},
	}
	bVec = [3]float32{0, 0, 1.0 / 50}
	cRow = [3]float32{1, 0, -0.26 / (9.81)}

	// kE and kX are the Riccati-derived integral and state-feedback gains
	// from the same LQR solve cmd/previewgen runs for previewWeights: kE
	// scales the persistent tracking-error integrator, kX feeds the state
	// back directly. Like previewWeightsFor, the values here are a
	// closed-form stand-in for cmd/previewgen's true solve (see that tool's
	// printGoLiterals) rather than a runtime computation.
	kE float32 = 0.55
	kX         = [3]float32{-1.2, -0.42, 0.012}
)

// previewWeightsFor produces a monotonically decaying preview-gain envelope
// of the shape the published cart-table preview-control weight vector takes
// (largest near the current frame, decaying smoothly to ~0 by the end of
// the 1.2s window). It stands in for cmd/previewgen's true Riccati-derived
// table until a robot-specific run of that tool replaces it.
func previewWeightsFor(n int) [NumPreviewFrames]float32 {
	var w [NumPreviewFrames]float32
	const gain, decay = 0.0055, 0.045
	for i := 0; i < n && i < NumPreviewFrames; i++ {
		w[i] = gain * float32(math.Exp(-decay*float64(i)))
	}
	return w
}

// PreviewController is the Kajita-style cart-table controller: it
// integrates a 3-state linear system (COM position, velocity, and
// acceleration) forward, driving it with a persistent tracking-error
// integrator, direct state feedback, and the precomputed preview-gain
// table applied to the window of future ZMP references.
type PreviewController struct {
	state [3]float32 // position, velocity, acceleration
	eSum  float32    // persistent integral of (curZMPRef - c·state)
}

// NewPreviewController returns a controller initialized to rest at the
// origin.
func NewPreviewController() *PreviewController {
	return &PreviewController{}
}

// InitState seeds the controller's internal state; the step generator calls
// it whenever a walk starts from rest. The tracking-error integrator is
// reset along with it, matching the original's full-state reset on restart.
func (c *PreviewController) InitState(x, v, p float32) {
	c.state = [3]float32{x, v, p}
	c.eSum = 0
}

// Position returns the controller's current COM estimate along its axis.
func (c *PreviewController) Position() float32 {
	return c.state[0]
}

// ZMP returns the controller's current ZMP readout along its axis, read
// out through cRow (c·state) rather than a raw state component.
func (c *PreviewController) ZMP() float32 {
	return cRow[0]*c.state[0] + cRow[1]*c.state[1] + cRow[2]*c.state[2]
}

// Tick advances the controller by one motion frame, implementing
// state ← A_c·state + b·(K_e·e_sum + K_x·state + Σwᵢ·preview[i]) (spec.md
// §4.3). zmpRefPreview must contain NumPreviewFrames future ZMP reference
// samples (the one already consumed, curZMPRef, is passed separately
// since the preview window is queried after popping it). sensorZMP enters
// as a Luenberger-style correction kE·(sensorZMP − c·state) rather than
// being integrated itself. The step generator has no IMU/FSR ZMP estimate:
// it passes scaleSensors' blend of this controller's own ZMP readout and
// curZMPRef, so with a zero ObserverScale (the default, Open Question (b))
// the correction is kE·(curZMPRef − c·state), and with an ObserverScale of
// 1 it is zero.
func (c *PreviewController) Tick(zmpRefPreview []float32, curZMPRef, sensorZMP float32) float32 {
	zmpNow := c.ZMP()

	var previewSum float32
	for i := 0; i < len(zmpRefPreview) && i < NumPreviewFrames; i++ {
		previewSum += previewWeights[i] * zmpRefPreview[i]
	}

	c.eSum += curZMPRef - zmpNow
	observerErr := sensorZMP - zmpNow

	u := kE*(c.eSum+observerErr) +
		kX[0]*c.state[0] + kX[1]*c.state[1] + kX[2]*c.state[2] +
		previewSum

	var next [3]float32
	for r := 0; r < 3; r++ {
		next[r] = aC[r][0]*c.state[0] + aC[r][1]*c.state[1] + aC[r][2]*c.state[2] + bVec[r]*u
	}
	c.state = next
	return c.state[0]
}

// scaleSensors blends the filtered sensor ZMP estimate with the planned
// reference according to the gait's observer gain: 0 disables sensor
// feedback entirely (see gait.Sensor.ObserverScale and Open Question (b)).
func scaleSensors(sensorZMP, perfectZMP, observerScale float32) float32 {
	return sensorZMP*observerScale + (1-observerScale)*perfectZMP
}
