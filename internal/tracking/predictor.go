package tracking

import (
	"math"

	"github.com/banshee-data/velocity.camera/internal/geom"
	"github.com/banshee-data/velocity.camera/internal/monitoring"
)

// minEntryMotion is the smallest front bumper motion, in pixels per frame
// pair, assumed while a track is still establishing identity.
const minEntryMotion = 10.0

// Predictor projects tracks one frame pair ahead.
type Predictor struct {
	cfg   TrackerConfig
	trace TraceSink
}

// NewPredictor creates a predictor. A nil trace discards narration.
func NewPredictor(cfg TrackerConfig, trace TraceSink) *Predictor {
	if trace == nil {
		trace = monitoring.Discard
	}
	return &Predictor{cfg: cfg, trace: trace}
}

// Project advances t to frame and returns its projection. A track whose
// outcome is not OK gets a zero box; the caller is expected to retire it.
func (p *Predictor) Project(t *Track, frame int) Projection {
	if len(t.snaps) == 0 {
		monitoring.Logf("tracking: projection requested for track %s with no snapshots", t.TrackID)
		t.State = Entering
		return Projection{State: Entering, Frame: frame}
	}
	if t.Outcome != OK {
		return Projection{State: t.State, Frame: frame}
	}

	t.Outcome = p.estimate(t, frame)
	if t.Outcome != OK {
		p.trace.Tracef(frame, "%s track %s terminated: %s", t.Direction, t.TrackID, t.Outcome)
		return Projection{State: t.State, Frame: frame}
	}

	p.advanceState(t, frame)
	return Projection{
		Box:      boxFromBumpers(t.Direction, t.NextFrontBumper, t.NextRearBumper, t.NextY, t.NextHeight),
		State:    t.State,
		Velocity: t.EstVelocity,
		Frame:    frame,
	}
}

func (p *Predictor) advanceState(t *Track, frame int) {
	if len(t.snaps) == 1 {
		t.State = Entering
		return
	}
	d := t.Direction
	s := d.sign()
	switch t.State {
	case Entering:
		if s*(int(t.NextRearBumper)-p.cfg.entryEdge(d)) > 0 {
			t.State = InMiddle
		}
	case InMiddle:
		if s*(int(t.NextFrontBumper)-p.cfg.exitEdge(d)) >= 0 {
			t.State = Exiting
			t.assembleStats(frame)
		}
	case Exiting:
		if s*(int(t.NextRearBumper)-p.cfg.exitEdge(d)) >= 0 {
			t.State = Exited
		}
	}
}

// estimate updates the bumper projections of t for frame.
func (p *Predictor) estimate(t *Track, frame int) Outcome {
	cfg := p.cfg
	d := t.Direction
	s, fs := d.sign(), d.fsign()

	last := t.snaps[len(t.snaps)-1].Box
	lastFrame := t.snaps[len(t.snaps)-1].Frame
	prevFront, prevRear, prevVel := t.NextFrontBumper, t.NextRearBumper, t.EstVelocity

	// Step 1: bridge a single missing frame pair, give up on longer gaps
	gap := (frame - lastFrame) / 2
	if gap > 2 || (gap == 2 && t.coasting) {
		t.assembleStats(frame)
		return LostTrack
	}
	if gap == 2 {
		var box geom.Rect
		if d == LeftToRight {
			box = geom.Rect{X: int(prevRear + 0.5), Y: t.NextY, W: int(prevFront - prevRear + 0.5), H: t.BestHeight}
		} else {
			box = geom.Rect{X: int(prevFront + 0.5), Y: t.NextY, W: int(prevRear - prevFront + 0.5), H: t.BestHeight}
		}
		t.snaps = append(t.snaps, Snapshot{Box: box, Frame: frame - 2})
		t.coasting = true
		p.trace.Tracef(frame, "%s track %s coasting, synthesised %v at %d", d, t.TrackID, box, frame-2)
	} else {
		t.coasting = false
	}

	n := len(t.snaps)
	backFrame := t.snaps[n-1].Frame
	lastFront := frontEdge(d, last)

	// Step 2: single observation, seed the estimates
	if n == 1 {
		t.front.push(backFrame, float64(lastFront))
		rear := lastFront - s*cfg.EntryLookBack
		if d == LeftToRight {
			rear = max(cfg.PixelLeft, rear)
		} else {
			rear = min(cfg.PixelRight, rear)
		}
		t.NextRearBumper = float64(rear)
		t.NextFrontBumper = float64(lastFront + s*cfg.maxEntry(d))
		t.NextHeight = cfg.DefaultHeight
		t.BestHeight = cfg.DefaultHeight
		t.NextY = cfg.InitialY
		t.EstVelocity = cfg.InitialVelocity
		return OK
	}

	ntl := t.snaps[n-2].Box
	ntlFront := frontEdge(d, ntl)

	// Step 3: two or three observations, blend observed motion with the
	// maximum entry speed
	if n <= 3 {
		if t.Overlap.frontOccluded() {
			return LostTrack
		}
		belief := float64(n-1) / float64(n)
		motion := math.Max(float64(s*(lastFront-ntlFront)), minEntryMotion)
		t.NextFrontBumper = float64(lastFront) + fs*(belief*motion+(1-belief)*float64(cfg.maxEntry(d)))
		t.front.push(backFrame, float64(lastFront))
		p.recordStart(t, frame, prevFront, lastFront)

		p.projectEnteringRear(t, last, backFrame)
		t.NextHeight = cfg.DefaultHeight
		t.EstVelocity = absInt(lastFront - ntlFront)
		if !t.frontAhead() {
			t.assembleStats(frame)
			return LostTrack
		}
		return OK
	}

	// Step 4: regression over the sample windows
	if t.State == Entering || t.State == InMiddle {
		if t.DeadReckonFront {
			t.NextFrontBumper = prevFront + fs*float64(t.EstVelocity)
		} else {
			sample := float64(lastFront)
			if cfg.inFrontObstruction(d, int(prevFront)) ||
				s*(lastFront-ntlFront) < t.EstVelocity/2 ||
				t.Overlap.frontOccluded() {
				sample = prevFront
			}
			t.front.push(backFrame, sample)
			slope, intercept, ok := t.front.fit()
			if ok {
				t.FrontSlope, t.FrontIntercept = slope, intercept
				if fs*slope < 0 {
					t.assembleStats(frame)
					return NegativeVelocity
				}
				t.NextFrontBumper = slope*float64(frame) + intercept
			} else {
				t.NextFrontBumper = prevFront + fs*float64(t.EstVelocity)
			}
		}
		t.NextFrontBumper = cfg.clampPixel(t.NextFrontBumper)

		p.recordStart(t, frame, prevFront, lastFront)
		p.recordEnd(t, frame, prevFront, lastFront)

		if t.State == Entering {
			p.projectEnteringRear(t, last, backFrame)
		} else {
			p.projectMiddleRear(t, frame, last, ntl, prevRear)
			if !t.frontAhead() {
				t.assembleStats(frame)
				return LostTrack
			}
			p.updateBestProfile(t, last)
		}

		t.EstVelocity = (absInt(int(prevFront-t.NextFrontBumper)) + prevVel) / 2
		if !t.frontAhead() {
			t.assembleStats(frame)
			return LostTrack
		}
	} else {
		// Exiting: dead reckon out of the corridor
		vel := t.BestVelocity
		if vel == 0 {
			vel = t.EstVelocity
		}
		rear := int(prevRear + fs*float64(vel))
		if d == LeftToRight {
			rear = min(rear, cfg.PixelRight)
		} else {
			rear = max(rear, cfg.PixelLeft)
		}
		t.NextRearBumper = float64(rear)
		t.NextFrontBumper = float64(cfg.exitEdge(d))
	}

	t.NextY = (last.Y + t.NextY) / 2
	t.NextHeight = (last.H + t.BestHeight) / 2
	return OK
}

// projectEnteringRear keeps the rear bumper pinned at the entry edge until
// it is clearly inside the corridor and unoccluded, then starts sampling it.
func (p *Predictor) projectEnteringRear(t *Track, last geom.Rect, backFrame int) {
	cfg := p.cfg
	d := t.Direction
	s := d.sign()
	entry := cfg.entryEdge(d)
	observedRear := rearEdge(d, last)

	if s*(observedRear-entry) < cfg.EdgeMargin ||
		s*(int(t.NextFrontBumper)-entry) < cfg.EntryLookBack ||
		t.Overlap.rearOccluded() {
		t.NextRearBumper = float64(entry)
		return
	}
	t.NextRearBumper = float64(observedRear + s*t.EstVelocity)
	t.rear.push(backFrame, float64(observedRear))
}

// projectMiddleRear refits the rear bumper once it has left the entry edge.
// The rear bumper never moves backwards; at worst it creeps forward at half
// the estimated velocity.
func (p *Predictor) projectMiddleRear(t *Track, frame int, last, ntl geom.Rect, prevRear float64) {
	cfg := p.cfg
	d := t.Direction
	s, fs := d.sign(), d.fsign()

	if t.DeadReckonRear {
		t.NextRearBumper = prevRear + fs*float64(t.EstVelocity)
	} else {
		back := t.snaps[len(t.snaps)-1]
		sample := float64(rearEdge(d, back.Box))
		if cfg.inRearObstruction(d, int(prevRear)) ||
			s*(rearEdge(d, last)-rearEdge(d, ntl)) < 0 ||
			t.Overlap.rearOccluded() {
			sample = prevRear
		}
		t.rear.push(back.Frame, sample)

		if t.rear.len() <= cfg.MinRearSamples {
			t.NextRearBumper = prevRear + fs*float64(t.EstVelocity)
		} else if slope, intercept, ok := t.rear.fit(); ok {
			t.RearSlope, t.RearIntercept = slope, intercept
			t.NextRearBumper = slope*float64(frame) + intercept
		} else {
			t.NextRearBumper = prevRear + fs*float64(t.EstVelocity)
		}
	}

	if fs*(t.NextRearBumper-prevRear) < 0 {
		t.NextRearBumper = prevRear + fs*float64(t.EstVelocity/2)
	}
	if fs*(t.NextRearBumper-float64(cfg.exitLine(d))) > 0 {
		t.DeadReckonRear = true
	}
	t.NextRearBumper = cfg.clampPixel(t.NextRearBumper)
}

// updateBestProfile samples height, width and velocity while the vehicle is
// centred in the corridor.
func (p *Predictor) updateBestProfile(t *Track, last geom.Rect) {
	centre := float64((p.cfg.PixelLeft + p.cfg.PixelRight) / 2)
	if math.Abs((t.NextFrontBumper+t.NextRearBumper)/2-centre) <= float64(p.cfg.CenterWindow) {
		t.BestHeight = last.H
		t.BestWidth = last.W
		t.BestVelocity = t.EstVelocity
	}
}

// recordStart notes the first time the projected front bumper reaches the
// entry line.
func (p *Predictor) recordStart(t *Track, frame int, prevFront float64, observedFront int) {
	d := t.Direction
	if t.startRecorded || d.fsign()*(t.NextFrontBumper-float64(p.cfg.entryLine(d))) < 0 {
		return
	}
	t.EntryGap = int(prevFront) - observedFront
	t.TrackStartPixel = int(t.NextFrontBumper)
	t.TrackStartFrame = frame
	t.startRecorded = true
	p.trace.Tracef(frame, "%s track %s crossed entry line at %d, gap %d", d, t.TrackID, t.TrackStartPixel, t.EntryGap)
}

// recordEnd handles the exit line crossing: it validates the measurement
// gap and computes the final speed.
func (p *Predictor) recordEnd(t *Track, frame int, prevFront float64, observedFront int) {
	d := t.Direction
	if t.endRecorded || d.fsign()*(t.NextFrontBumper-float64(p.cfg.exitLine(d))) <= 0 {
		return
	}
	t.endRecorded = true

	endGap := int(prevFront) - observedFront
	if !t.startRecorded || !p.cfg.ValidGap(t.EntryGap-endGap) {
		t.TrackEndPixel = -1
		p.trace.Tracef(frame, "%s track %s invalid speed measurement (%d)", d, t.TrackID, t.EntryGap-endGap)
		return
	}

	t.TrackEndPixel = int(t.NextFrontBumper)
	t.TrackEndFrame = frame
	t.FinalSpeed = ComputeFinalSpeed(p.cfg, d,
		Crossing{Frame: t.TrackStartFrame, Pixel: t.TrackStartPixel},
		Crossing{Frame: t.TrackEndFrame, Pixel: t.TrackEndPixel},
		t.EstVelocity)
	t.DeadReckonFront = true
	p.trace.Tracef(frame, "%s track %s speed %d", d, t.TrackID, t.FinalSpeed)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
