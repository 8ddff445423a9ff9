package kernel

// Renderer is the concrete engine a Processor drives. The methods are
// resolved at compile time through the type parameter, keeping dynamic
// dispatch out of the render path.
type Renderer interface {
	// RenderFrames filters one sub-block. ins and outs hold one slice per
	// channel, each exactly frames long; outs may alias ins for in-place
	// operation.
	RenderFrames(ins, outs [][]float64, frames int)
	// HandleParameterEvent applies a parameter or parameter-ramp event.
	HandleParameterEvent(ev *Event)
	// HandleMIDIEvent applies a MIDI event.
	HandleMIDIEvent(ev *Event)
}

// Processor interleaves scheduled events with sample rendering so that
// every event takes effect at its exact sample position. It owns the input
// staging buffer and the bypass switch.
type Processor[R Renderer] struct {
	renderer R
	input    inputBuffer
	bypassed bool

	// Per-segment channel headers, pre-sized at Configure.
	ins  [][]float64
	outs [][]float64
}

// NewProcessor returns a processor driving the given renderer.
func NewProcessor[R Renderer](r R) *Processor[R] {
	return &Processor[R]{renderer: r}
}

// Configure sizes the staging buffer and channel headers. Not safe during
// rendering.
func (p *Processor[R]) Configure(channels, maxFrames int) {
	p.input.configure(channels, maxFrames)
	p.ins = make([][]float64, channels)
	p.outs = make([][]float64, channels)
}

// Release frees the render resources. Not safe during rendering.
func (p *Processor[R]) Release() {
	p.input.release()
	p.ins = nil
	p.outs = nil
}

// SetBypass switches pass-through mode on or off.
func (p *Processor[R]) SetBypass(bypass bool) {
	p.bypassed = bypass
}

// Bypassed reports whether pass-through mode is active.
func (p *Processor[R]) Bypassed() bool {
	return p.bypassed
}

// ProcessAndRender pulls upstream samples, then renders frames samples
// into out while applying scheduled events at their sample positions.
// out must hold one slice per configured channel; a nil out[ch] requests
// in-place rendering and is pointed at the staged input for that channel.
func (p *Processor[R]) ProcessAndRender(now int64, frames, bus int, out [][]float64, events *Event, pull PullFunc) error {
	staged, err := p.input.pull(now, frames, bus, pull)
	if err != nil {
		return err
	}

	for ch := range out {
		if out[ch] == nil {
			out[ch] = staged[ch]
		}
	}

	p.render(now, frames, staged, out, events)
	return nil
}

func (p *Processor[R]) render(now int64, frames int, ins, outs [][]float64, events *Event) {
	framesRemaining := frames
	for framesRemaining > 0 {
		if events == nil {
			p.renderSegment(ins, outs, frames-framesRemaining, framesRemaining)
			return
		}

		// Segment length never exceeds the caller's buffer, so an event
		// scheduled past this render span waits for a later cycle.
		framesThisSegment := int(events.Time - now)
		if framesThisSegment > framesRemaining {
			framesThisSegment = framesRemaining
		}
		if framesThisSegment > 0 {
			p.renderSegment(ins, outs, frames-framesRemaining, framesThisSegment)
			framesRemaining -= framesThisSegment
			now += int64(framesThisSegment)
		}

		events = p.applyEventsUntil(now, events)
	}
}

// applyEventsUntil dispatches every event with Time at or before now, in
// list order, and returns the first event still pending.
func (p *Processor[R]) applyEventsUntil(now int64, ev *Event) *Event {
	for ev != nil && ev.Time <= now {
		switch ev.Kind {
		case EventParameter, EventParameterRamp:
			p.renderer.HandleParameterEvent(ev)
		case EventMIDI:
			p.renderer.HandleMIDIEvent(ev)
		}
		ev = ev.Next
	}
	return ev
}

func (p *Processor[R]) renderSegment(ins, outs [][]float64, offset, frames int) {
	if p.bypassed {
		for ch := range outs {
			if &outs[ch][0] == &ins[ch][0] {
				continue
			}
			copy(outs[ch][offset:offset+frames], ins[ch][offset:offset+frames])
		}
		return
	}

	for ch := range ins {
		p.ins[ch] = ins[ch][offset : offset+frames]
		p.outs[ch] = outs[ch][offset : offset+frames]
	}
	p.renderer.RenderFrames(p.ins, p.outs, frames)
}
