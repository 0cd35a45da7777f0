package providers

// LiveHeadProvider is the live HeadProvider implementation: it drives the
// head either directly to a SetHeadCommand pose or through a queue of
// scripted HeadKeyframes, interpolating linearly within each keyframe's
// duration exactly as ScriptedProvider does for the body chains.
type LiveHeadProvider struct {
	tickHz float32

	yaw, pitch float32
	stiffYaw, stiffPitch float32

	// fromYaw/fromPitch is the pose the current keyframe started from.
	fromYaw, fromPitch float32

	queue             []HeadKeyframe
	framesIntoCurrent int
	framesTotal       int

	stopRequested bool
}

// NewHeadProvider builds a head provider ticking at tickHz, starting at
// (0, 0).
func NewHeadProvider(tickHz float32) *LiveHeadProvider {
	return &LiveHeadProvider{tickHz: tickHz}
}

// SetHead moves directly to cmd's pose, abandoning any scripted motion in
// progress.
func (h *LiveHeadProvider) SetHead(cmd SetHeadCommand, stiffness float32) {
	h.queue = nil
	h.yaw, h.pitch = cmd.Yaw, cmd.Pitch
	h.stiffYaw, h.stiffPitch = stiffness, stiffness
}

// Enqueue appends a scripted head motion's keyframes to the playback queue.
func (h *LiveHeadProvider) Enqueue(cmd HeadJointCommand) {
	h.stopRequested = false
	h.queue = append(h.queue, cmd.Keyframes...)
}

// Tick advances scripted playback by one motion frame; a no-op when the
// queue is empty (SetHead poses are held, not animated).
func (h *LiveHeadProvider) Tick() error {
	if len(h.queue) == 0 {
		return nil
	}
	if h.stopRequested {
		h.queue = nil
		return nil
	}

	if h.framesTotal == 0 {
		h.framesTotal = maxInt1(int(h.queue[0].DurationSecs*h.tickHz), 1)
		h.framesIntoCurrent = 0
		h.fromYaw, h.fromPitch = h.yaw, h.pitch
	}

	target := h.queue[0]
	h.framesIntoCurrent++
	frac := float32(h.framesIntoCurrent) / float32(h.framesTotal)
	h.yaw = h.fromYaw + frac*(target.Yaw-h.fromYaw)
	h.pitch = h.fromPitch + frac*(target.Pitch-h.fromPitch)
	h.stiffYaw, h.stiffPitch = target.Stiffness, target.Stiffness

	if h.framesIntoCurrent >= h.framesTotal {
		h.yaw, h.pitch = target.Yaw, target.Pitch
		h.queue = h.queue[1:]
		h.framesTotal = 0
		h.framesIntoCurrent = 0
	}
	return nil
}

// NextHeadJoints returns the current head pose.
func (h *LiveHeadProvider) NextHeadJoints() (yaw, pitch float32) { return h.yaw, h.pitch }

// NextHeadStiffness returns the current head stiffness.
func (h *LiveHeadProvider) NextHeadStiffness() (yaw, pitch float32) {
	return h.stiffYaw, h.stiffPitch
}

// IsDone reports whether the scripted queue has drained; a directly-set
// pose is always "done" since there's nothing left to animate toward.
func (h *LiveHeadProvider) IsDone() bool { return len(h.queue) == 0 }

// IsActive is the negation of IsDone.
func (h *LiveHeadProvider) IsActive() bool { return len(h.queue) != 0 }

// RequestStop drops the remainder of the scripted queue on the next Tick.
func (h *LiveHeadProvider) RequestStop() {
	h.stopRequested = true
}
