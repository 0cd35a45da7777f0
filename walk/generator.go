package walk

import (
	"github.com/edaniels/golog"

	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/spatialmath"
)

// MinNumEnqueuedSteps is the minimum number of steps that must remain
// queued (across futureSteps and the already-ZMPd steps) while walking; a
// support-foot swap that would drop below this fails with
// ErrInsufficientSteps.
const MinNumEnqueuedSteps = 3

// tickHz is the motion frame rate the generator assumes when converting a
// gait's step duration into integer frame counts.
const tickHz = 50

// StepGenerator is the central walk-planning engine: it owns the step and
// ZMP reference queues, the two 1-D preview controllers, both walking legs,
// and the arm-swing helper, and exposes the velocity/distance command
// surface the motion switchboard's walk provider drives.
type StepGenerator struct {
	logger golog.Logger

	activeGait gait.Gait

	x, y, theta float32 // current commanded WalkVector
	done        bool
	nextLeft    bool

	futureSteps []*Step
	zmpdSteps   []*Step
	lastQueued  *Step

	zmpRefX, zmpRefY []float32
	zmp              zmpState

	ifTransform spatialmath.Matrix3
	ccTransform spatialmath.Matrix3
	comI        spatialmath.Vector3

	controllerX, controllerY WalkController

	leftLeg, rightLeg *WalkingLeg
	arms              *WalkingArms

	framesSinceSupportSwap int

	// swingSourceF/Theta is the position (in the current f frame) where
	// the now-swinging foot started: the previous support step's origin,
	// carried forward through fprimeF at swap time.
	swingSourceF     spatialmath.Vector3
	swingSourceTheta float32
}

// NewStepGenerator builds a generator at rest (done == true), ready for its
// first SetSpeed/TakeSteps/SetDistance call.
func NewStepGenerator(g gait.Gait, solver IKSolver, armsNeutral ArmJointAngles, logger golog.Logger) *StepGenerator {
	sg := &StepGenerator{
		logger:      logger,
		activeGait:  g,
		done:        true,
		ifTransform: spatialmath.Identity3(),
		ccTransform: spatialmath.Identity3(),
		controllerX: NewPreviewController(),
		controllerY: NewPreviewController(),
		leftLeg:     NewWalkingLeg(LeftFoot, solver),
		rightLeg:    NewWalkingLeg(RightFoot, solver),
		arms:        NewWalkingArms(armsNeutral),
	}
	return sg
}

// Done reports whether the generator has fully stopped (no queued motion,
// velocity at rest).
func (sg *StepGenerator) Done() bool {
	return sg.done
}

// ActiveGait returns the generator's currently active gait.
func (sg *StepGenerator) ActiveGait() gait.Gait {
	return sg.activeGait
}

// SetGait installs a new active gait immediately; steps already queued keep
// the gait they were created with. A bounded transition is driven through a
// gait.MetaGait, whose interpolated output the walk provider passes here on
// every motion tick until the transition completes.
func (sg *StepGenerator) SetGait(g gait.Gait) {
	sg.activeGait = g
}

// SetSpeed sets the continuously-commanded walk velocity. If the generator
// was previously stopped, this resets all queues/frames and picks a
// starting swing foot per decideStartLeft.
func (sg *StepGenerator) SetSpeed(x, y, theta float32) {
	sg.clearFutureSteps()

	sg.x, sg.y, sg.theta = x, y, theta

	if sg.done {
		sg.resetQueues()
		startLeft := decideStartLeft(y, theta)
		sg.resetSteps(startLeft)
	}
	sg.done = false
}

// TakeSteps enqueues exactly numSteps velocity-derived steps and then
// stops. If the generator is already active, the steps are appended
// (rather than the queue being reset) and a warning is logged, matching
// the original's "APPENDED because StepGenerator is already active"
// behavior.
func (sg *StepGenerator) TakeSteps(x, y, theta float32, numSteps int) {
	if !sg.done {
		sg.logger.Warnf("walk: takeSteps(%v,%v,%v,%d) appended because generator is already active", x, y, theta, numSteps)
	} else {
		sg.resetQueues()
		startLeft := decideStartLeft(y, theta)
		sg.resetSteps(startLeft)
		sg.generateStep(x, y, theta, false)
		sg.done = false
	}

	for i := 0; i < numSteps; i++ {
		sg.generateStep(x, y, theta, false)
	}

	// the end step is generated automatically once the commanded velocity
	// drops back to zero.
	sg.x, sg.y, sg.theta = 0, 0, 0
}

// SetDistance enqueues the minimum number of equal-sized steps needed to
// cover the given absolute displacement, ellipse-clipping the remaining
// distance against the step-size envelope at each iteration so every step
// (except possibly the last) is as large as the envelope allows.
func (sg *StepGenerator) SetDistance(dx, dy, dtheta float32) {
	sg.futureSteps = nil

	if sg.done {
		startLeft := decideStartLeft(dy, dtheta)
		sg.resetSteps(startLeft)
		sg.done = false
	}

	remaining := StepDisplacement{X: dx, Y: dy, Theta: dtheta}
	const maxIterations = 1000
	for i := 0; (remaining.X != 0 || remaining.Y != 0 || remaining.Theta != 0) && i < maxIterations; i++ {
		clipped := ellipseClipDisplacement(remaining, sg.activeGait.Step)

		numSteps := stepCountFor(remaining, clipped)
		if numSteps < 1 {
			numSteps = 1
		}

		stepDisp := StepDisplacement{
			X:     remaining.X / float32(numSteps),
			Y:     remaining.Y / float32(numSteps),
			Theta: remaining.Theta / float32(numSteps),
		}

		newStep := sg.generateStep(stepDisp.X, stepDisp.Y, stepDisp.Theta, true)

		destLastS := spatialmath.NewVector3(remaining.X, remaining.Y)
		destThisS := sprimeS(newStep, sg.hipOffsetY()).Mul(destLastS)
		remaining.X = destThisS.X()
		remaining.Y = destThisS.Y()
		remaining.Theta -= newStep.Theta
	}

	sg.x, sg.y, sg.theta = 0, 0, 0
}

// stepCountFor estimates, as the original does, how many steps of size
// clipped it will take to cover remaining, taking the max across axes and
// doubling the lateral/turn estimate since those axes can't always run at
// their clipped maximum every other step.
func stepCountFor(remaining, clipped StepDisplacement) int {
	xSteps := ceilRatio(remaining.X, clipped.X, 1)
	yScale := float32(1)
	if remaining.Y > clipped.Y {
		yScale = 2
	}
	ySteps := ceilRatio(remaining.Y, clipped.Y, yScale)
	tScale := float32(1)
	if remaining.Theta > clipped.Theta {
		tScale = 2
	}
	tSteps := ceilRatio(remaining.Theta, clipped.Theta, tScale)

	steps := xSteps
	if ySteps > steps {
		steps = ySteps
	}
	if tSteps > steps {
		steps = tSteps
	}
	return steps
}

func ceilRatio(remaining, clipped, scale float32) int {
	if clipped == 0 {
		return 0
	}
	r := scale * remaining / clipped
	n := int(r)
	if float32(n) < r {
		n++
	}
	return n
}

// ResetHard is the emergency stop: it drops all queued state and marks the
// generator done, discarding in-flight motion.
func (sg *StepGenerator) ResetHard() {
	sg.resetQueues()
	sg.done = true
	sg.x, sg.y, sg.theta = 0, 0, 0
}

func (sg *StepGenerator) hipOffsetY() float32 {
	return sg.activeGait.Stance.LegSeparationYMM / 2
}

func (sg *StepGenerator) resetQueues() {
	sg.futureSteps = nil
	sg.zmpdSteps = nil
	sg.zmpRefX = nil
	sg.zmpRefY = nil
}

func (sg *StepGenerator) clearFutureSteps() {
	sg.futureSteps = nil
}

// decideStartLeft chooses the first swing foot from the initial commanded
// velocity: lateral motion takes precedence over turning, and a y of
// exactly zero falls through to the turn direction.
func decideStartLeft(lateral, radial float32) bool {
	if lateral == 0 {
		return radial > 0
	}
	return lateral > 0
}

// resetSteps re-initializes the controllers, frame transforms, and leg/arm
// phase so the first real swing happens on the chosen foot two steps from
// now (the first queued step is a dummy, the second an END-type support
// step with no ZMP motion).
func (sg *StepGenerator) resetSteps(startLeft bool) {
	sg.controllerX.InitState(sg.activeGait.Stance.BodyOffsetXMM, 0, sg.activeGait.Stance.BodyOffsetXMM)
	sg.controllerY.InitState(0, 0, 0)

	sg.zmp = newZMPState()

	var dummyFoot, firstSupportFoot Foot
	var supportSign float32
	if startLeft {
		dummyFoot, firstSupportFoot, supportSign = LeftFoot, RightFoot, -1
		sg.nextLeft = true
	} else {
		dummyFoot, firstSupportFoot, supportSign = RightFoot, LeftFoot, 1
		sg.nextLeft = false
	}

	sg.ifTransform = spatialmath.Translation3(0, supportSign*sg.hipOffsetY())
	sg.resetOdometry(sg.activeGait.Stance.BodyOffsetXMM, -supportSign*sg.hipOffsetY())

	firstSupport := newStep(StepDisplacement{}, WalkVector{}, sg.activeGait, firstSupportFoot, EndStep)
	dummy := newStep(StepDisplacement{}, WalkVector{}, sg.activeGait, dummyFoot, RegularStep)

	sg.zmpdSteps = append(sg.zmpdSteps, dummy)
	sg.fillZMPFor(firstSupport)
	sg.zmpdSteps = append(sg.zmpdSteps, firstSupport)
	sg.lastQueued = firstSupport
}

func (sg *StepGenerator) resetOdometry(initX, initY float32) {
	sg.ccTransform = spatialmath.Translation3(-initX, -initY)
}

// GetOdometryUpdate returns the (dx, dy, dtheta) accumulated since the
// previous call and resets the accumulator, matching the original's
// read-and-reset semantics.
func (sg *StepGenerator) GetOdometryUpdate() (dx, dy, dtheta float32) {
	rotation := -spatialmath.SafeAsin(sg.ccTransform[1][0])
	odo := sg.ccTransform.Mul(spatialmath.NewVector3(0, 0))
	sg.ccTransform = spatialmath.Translation3(0, 0)
	return odo.X(), odo.Y(), rotation
}

func (sg *StepGenerator) updateOdometry(dx, dy, dtheta float32) {
	update := spatialmath.Translation3(dx, dy).Compose(spatialmath.Rotation3(-dtheta))
	sg.ccTransform = sg.ccTransform.Compose(update)
}

// generateStep enqueues a new step derived from either a velocity or a
// displacement (useDisplacement selects which), assigning it to whichever
// foot is next in the alternation and determining its StepType from the
// current walk state: a fully-zero command yields an END step. When motion
// resumes after an END step, an END step not yet expanded into ZMP samples
// is resurrected as REGULAR; if it has already been expanded, the new step
// is a REGULAR step with zero displacement.
func (sg *StepGenerator) generateStep(x, y, theta float32, useDisplacement bool) *Step {
	stepType := RegularStep
	switch {
	case x == 0 && y == 0 && theta == 0:
		stepType = EndStep
	case sg.lastQueued != nil && sg.lastQueued.Type == EndStep:
		if sg.lastQueued.ZMPd {
			stepType = RegularStep
			x, y, theta = 0, 0, 0
		} else {
			sg.lastQueued.Type = RegularStep
			stepType = RegularStep
		}
	}

	foot := RightFoot
	if sg.nextLeft {
		foot = LeftFoot
	}

	var lastVel WalkVector
	if sg.lastQueued != nil {
		lastVel = sg.lastQueued.WalkVector
	}

	var step *Step
	if useDisplacement {
		step = NewStepFromDisplacement(StepDisplacement{X: x, Y: y, Theta: theta}, sg.activeGait, foot, stepType)
	} else {
		step = NewStepFromVelocity(WalkVector{X: x, Y: y, Theta: theta}, sg.activeGait, foot, lastVel, stepType)
	}

	sg.futureSteps = append(sg.futureSteps, step)
	sg.lastQueued = step
	sg.nextLeft = !sg.nextLeft
	return step
}

func (sg *StepGenerator) fillZMPFor(step *Step) error {
	frames, err := sg.zmp.fillZMP(step, sg.activeGait.Stance.BodyOffsetXMM, sg.hipOffsetY())
	if err != nil {
		return err
	}
	for _, f := range frames {
		sg.zmpRefX = append(sg.zmpRefX, f.X)
		sg.zmpRefY = append(sg.zmpRefY, f.Y)
	}
	return nil
}

// generateZMPRef replenishes the ZMP reference queues and the zmpd-step
// queue until there are at least NumPreviewFrames+1 samples queued and at
// least MinNumEnqueuedSteps steps have been expanded, generating a fresh
// step from the current walk vector whenever futureSteps runs dry.
func (sg *StepGenerator) generateZMPRef() error {
	for len(sg.zmpRefY) <= NumPreviewFrames || len(sg.zmpdSteps) < MinNumEnqueuedSteps {
		if len(sg.futureSteps) == 0 {
			sg.generateStep(sg.x, sg.y, sg.theta, false)
			continue
		}
		next := sg.futureSteps[0]
		sg.futureSteps = sg.futureSteps[1:]
		if err := sg.fillZMPFor(next); err != nil {
			return err
		}
		sg.zmpdSteps = append(sg.zmpdSteps, next)
	}
	return nil
}

// TickController advances the ZMP preview queue, runs the 1-D controller
// on each axis, and updates the current COM estimate in the inertial
// frame.
func (sg *StepGenerator) TickController() error {
	if err := sg.generateZMPRef(); err != nil {
		return err
	}

	curRefX, curRefY := sg.zmpRefX[0], sg.zmpRefY[0]
	previewX := append([]float32(nil), sg.zmpRefX[1:]...)
	previewY := append([]float32(nil), sg.zmpRefY[1:]...)
	sg.zmpRefX = sg.zmpRefX[1:]
	sg.zmpRefY = sg.zmpRefY[1:]

	observerScale := sg.activeGait.Sensor.ObserverScale
	estZMPX := scaleSensors(sg.controllerX.ZMP(), curRefX, observerScale)
	estZMPY := scaleSensors(sg.controllerY.ZMP(), curRefY, observerScale)

	comX := sg.controllerX.Tick(previewX, curRefX, estZMPX)
	comY := sg.controllerY.Tick(previewY, curRefY, estZMPY)
	sg.comI = spatialmath.NewVector3(comX, comY)
	return nil
}

// TickLegs executes the support-foot swap (if due), then ticks both
// walking legs for this frame, updating odometry and the fc transform.
func (sg *StepGenerator) TickLegs() (left, right LegResult, err error) {
	if sg.leftLeg.IsSwitchingSupportMode() && sg.leftLeg.StateIsDoubleSupport() {
		if err := sg.swapSupportLegs(); err != nil {
			return LegResult{}, LegResult{}, err
		}
	}

	if len(sg.zmpdSteps) < 2 {
		return LegResult{}, LegResult{}, &ErrInsufficientSteps{Queued: len(sg.zmpdSteps) + len(sg.futureSteps)}
	}
	supportStep := sg.zmpdSteps[0]
	swingingStep := sg.zmpdSteps[1]
	var lastStep *Step
	if len(sg.zmpdSteps) > 2 {
		lastStep = sg.zmpdSteps[2]
	}

	comF := sg.ifTransform.Mul(sg.comI)

	bodyRotAngleFC := sg.leftLeg.GetFootRotation() / 2

	fcTransform := spatialmath.Rotation3(bodyRotAngleFC).Compose(spatialmath.Translation3(-comF.X(), -comF.Y()))

	swingDestF := spatialmath.NewVector3(swingingStep.X, swingingStep.Y)

	left, err = sg.leftLeg.Tick(supportStep, sg.swingSourceF, sg.swingSourceTheta, swingDestF, swingingStep.Theta, fcTransform, comF, bodyRotAngleFC)
	if err != nil {
		return LegResult{}, LegResult{}, err
	}
	right, err = sg.rightLeg.Tick(supportStep, sg.swingSourceF, sg.swingSourceTheta, swingDestF, swingingStep.Theta, fcTransform, comF, bodyRotAngleFC)
	if err != nil {
		return LegResult{}, LegResult{}, err
	}

	// Only the support leg's OdoUpdate is nonzero this tick; read whichever
	// one that is and fold it into accumulated odometry, matching the
	// original's per-tick updateOdometry(supportLeg.getOdoUpdate()).
	if supportStep.Foot == LeftFoot {
		sg.updateOdometry(left.OdoUpdate[0], left.OdoUpdate[1], left.OdoUpdate[2])
	} else {
		sg.updateOdometry(right.OdoUpdate[0], right.OdoUpdate[1], right.OdoUpdate[2])
	}

	sg.framesSinceSupportSwap++

	if supportStep.Type == EndStep && swingingStep.Type == EndStep &&
		(lastStep == nil || lastStep.Type == EndStep) &&
		sg.x == 0 && sg.y == 0 && sg.theta == 0 {
		sg.done = true
	}

	return left, right, nil
}

// TickArms produces synchronized arm swing angles for this frame, keyed
// off the current support step.
func (sg *StepGenerator) TickArms() (left, right ArmJointAngles) {
	if len(sg.zmpdSteps) == 0 {
		return
	}
	return sg.arms.Tick(sg.zmpdSteps[0], sg.framesSinceSupportSwap)
}

// swapSupportLegs pops the oldest zmpd step and advances if_Transform by
// the new support step's f'->f transform, per §4.2.4.
func (sg *StepGenerator) swapSupportLegs() error {
	if len(sg.zmpdSteps)+len(sg.futureSteps) < MinNumEnqueuedSteps || len(sg.zmpdSteps) < 2 {
		return &ErrInsufficientSteps{Queued: len(sg.zmpdSteps) + len(sg.futureSteps)}
	}

	sg.zmpdSteps = sg.zmpdSteps[1:]
	newSupport := sg.zmpdSteps[0]

	fprimeFT := fprimeF(newSupport, sg.hipOffsetY())
	sg.ifTransform = fprimeFT.Compose(sg.ifTransform)

	origin := fprimeFT.Mul(spatialmath.NewVector3(0, 0))
	sg.swingSourceF = origin
	sg.swingSourceTheta = fprimeFT.Angle()

	// if_Transform just moved, so both legs' odometry baselines (COM
	// position/orientation expressed in the old support-foot frame) are
	// stale; odometry itself now accumulates per tick from each leg's own
	// OdoUpdate in TickLegs, not from the step's planned displacement here.
	sg.leftLeg.ResetOdometryBaseline()
	sg.rightLeg.ResetOdometryBaseline()

	sg.framesSinceSupportSwap = 0
	return nil
}
