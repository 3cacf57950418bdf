package tracking

import (
	"github.com/banshee-data/velocity.camera/internal/geom"
	"github.com/banshee-data/velocity.camera/internal/monitoring"
)

// Re-observation search window around a projection, in pixels.
const (
	searchBehind = 80 // behind the rear bumper
	searchAhead  = 20 // beyond the front bumper
)

// Multipliers of the max entry distance used to size the safe entry zones.
const (
	safeAheadFactor  = 2 // ahead of an oncoming vehicle
	safeBehindFactor = 6 // behind a preceding vehicle
)

// coalesceMargins returns how far behind the rear bumper and ahead of the
// front bumper blobs are grabbed for a track in state st.
func coalesceMargins(d Direction, st VehicleState) (behind, ahead int) {
	switch st {
	case Entering:
		return 10, 20
	case Exiting:
		return 10, 10
	default:
		if d == RightToLeft {
			return 50, 20
		}
		return 50, 10
	}
}

// TrackProjection is the per-track output of a step, for rendering and
// highlight selection collaborators.
type TrackProjection struct {
	TrackID    string
	Direction  Direction
	Projection Projection
	Overlap    OverlapType
	FinalSpeed int
}

// StepResult summarises one frame pair.
type StepResult struct {
	Frame          int
	Projections    []TrackProjection
	Records        []VehicleRecord
	NewTracks      int
	MotionDetected bool
	Bailing        bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStatsSink sets the sink that receives retired vehicle records.
func WithStatsSink(s StatsSink) ManagerOption {
	return func(m *Manager) { m.stats = s }
}

// WithTraceSink sets the sink that receives diagnostic narration.
func WithTraceSink(t TraceSink) ManagerOption {
	return func(m *Manager) {
		if t != nil {
			m.trace = t
		}
	}
}

// Manager owns the active tracks of both directions and runs the per frame
// pair tracking step. It is not safe for concurrent use.
type Manager struct {
	cfg       TrackerConfig
	predictor *Predictor
	stats     StatsSink
	trace     TraceSink

	// Ordered by entry; index 0 is nearest the exit.
	l2r []*Track
	r2l []*Track

	bailing bool
}

// NewManager creates a manager with no active tracks.
func NewManager(cfg TrackerConfig, opts ...ManagerOption) *Manager {
	m := &Manager{cfg: cfg, trace: monitoring.Discard}
	for _, opt := range opts {
		opt(m)
	}
	m.predictor = NewPredictor(cfg, m.trace)
	return m
}

// Tracks returns the active tracks for direction d, oldest first.
func (m *Manager) Tracks(d Direction) []*Track {
	src := m.l2r
	if d == RightToLeft {
		src = m.r2l
	}
	out := make([]*Track, len(src))
	copy(out, src)
	return out
}

// Bailing reports whether the manager is waiting for a quiet scene.
func (m *Manager) Bailing() bool { return m.bailing }

// Reset drops all tracks without emitting records and clears bailing.
func (m *Manager) Reset() {
	m.l2r, m.r2l = nil, nil
	m.bailing = false
}

// Step processes one frame pair.
func (m *Manager) Step(frame int, blobs LaneBlobs) StepResult {
	res := StepResult{Frame: frame, MotionDetected: blobs.Total() > 0}

	// Step 1: project every active track
	projL2R := m.projectAll(m.l2r, frame)
	projR2L := m.projectAll(m.r2l, frame)

	// Step 2: retire exited and failed tracks
	m.l2r, projL2R = m.retire(m.l2r, projL2R, frame, &res)
	m.r2l, projR2L = m.retire(m.r2l, projR2L, frame, &res)

	// Step 3: a later entrant overtaking the one ahead means identity is lost
	if m.overrun(LeftToRight, projL2R, frame) || m.overrun(RightToLeft, projR2L, frame) {
		m.bail(frame, "overrun")
		projL2R, projR2L = nil, nil
	}

	// Step 4: stay out of the scene until it goes quiet
	if m.bailing {
		if blobs.Total() > 0 {
			m.trace.Tracef(frame, "still bailing")
			res.Bailing = true
			return res
		}
		m.bailing = false
		m.trace.Tracef(frame, "returning to analysing traffic")
	}
	if blobs.Total() == 0 {
		res.Projections = m.views(projL2R, projR2L)
		return res
	}
	m.trace.Tracef(frame, "blobs l2r=%d r2l=%d tracks l2r=%d r2l=%d",
		len(blobs.L2R), len(blobs.R2L), len(m.l2r), len(m.r2l))

	// Step 5: new vehicles at either edge
	if m.detectEntryLeft(frame, blobs.L2R, projL2R, projR2L) {
		res.NewTracks++
	}
	if m.detectEntryRight(frame, blobs.R2L, projL2R, projR2L) {
		res.NewTracks++
	}

	// Step 6: the heuristics only disambiguate small bidirectional scenes
	if len(m.l2r)*len(m.r2l) > 2 {
		m.bail(frame, "more than three vehicles in bidirectional traffic")
		res.Bailing = true
		return res
	}
	m.classifyOverlaps(projL2R, projR2L)

	// Step 7: refine each projected track with the blobs around it
	for i, p := range projL2R {
		m.reobserve(m.l2r[i], p, blobs.L2R, frame)
	}
	for i, p := range projR2L {
		m.reobserve(m.r2l[i], p, blobs.R2L, frame)
	}

	res.Projections = m.views(projL2R, projR2L)
	return res
}

func (m *Manager) projectAll(tracks []*Track, frame int) []Projection {
	out := make([]Projection, len(tracks))
	for i, t := range tracks {
		out[i] = m.predictor.Project(t, frame)
		b := out[i].Box
		m.trace.Tracef(frame, "project %s[%d] box=[%d %d %d %d] state=%s overlap=%s vel=%d fb=%.1f rb=%.1f fbSlope=%.3f fbIntercept=%.1f rbSlope=%.3f rbIntercept=%.1f",
			t.Direction, i, b.X, b.Y, b.W, b.H, out[i].State, t.Overlap, out[i].Velocity,
			t.NextFrontBumper, t.NextRearBumper, t.FrontSlope, t.FrontIntercept, t.RearSlope, t.RearIntercept)
	}
	return out
}

// retire flushes the exited lead track and every failed track.
func (m *Manager) retire(tracks []*Track, proj []Projection, frame int, res *StepResult) ([]*Track, []Projection) {
	if len(tracks) > 0 && proj[0].State == Exited {
		m.trace.Tracef(frame, "%s track %s exited", tracks[0].Direction, tracks[0].TrackID)
		m.flush(tracks[0], frame, true, res)
		tracks, proj = tracks[1:], proj[1:]
	}

	keptTracks := make([]*Track, 0, len(tracks))
	keptProj := make([]Projection, 0, len(proj))
	for i, t := range tracks {
		if t.Outcome != OK {
			m.trace.Tracef(frame, "%s track %s deleted: %s", t.Direction, t.TrackID, t.Outcome)
			m.flush(t, frame, t.TrackEndPixel > 0, res)
			continue
		}
		keptTracks = append(keptTracks, t)
		keptProj = append(keptProj, proj[i])
	}
	return keptTracks, keptProj
}

func (m *Manager) flush(t *Track, frame int, isOK bool, res *StepResult) {
	rec := newVehicleRecord(t, frame, isOK)
	res.Records = append(res.Records, rec)
	m.trace.Tracef(frame, "%s track %s entry frame %d exit frame %d entry pixel %d exit pixel %d speed %d valid %t",
		t.Direction, t.TrackID, rec.EntryFrame, rec.ExitFrame, rec.EntryPixel, rec.ExitPixel, rec.FinalSpeed, rec.Valid)
	if m.stats == nil {
		return
	}
	if err := m.stats.RecordVehicle(rec); err != nil {
		monitoring.Logf("tracking: failed to record vehicle %s: %v", rec.TrackID, err)
	}
}

// overrun reports whether any track in proj has caught up with the one
// ahead of it.
func (m *Manager) overrun(d Direction, proj []Projection, frame int) bool {
	s := d.sign()
	for i := len(proj) - 1; i > 0; i-- {
		gap := s * (frontEdge(d, proj[i].Box) - rearEdge(d, proj[i-1].Box))
		if gap > -m.cfg.OverrunMargin {
			m.trace.Tracef(frame, "%s vehicle[%d] is overrunning", d, i)
			return true
		}
	}
	return false
}

// bail drops every track in both directions. Dropped tracks are narrated
// but produce no records.
func (m *Manager) bail(frame int, reason string) {
	for _, t := range append(append([]*Track(nil), m.l2r...), m.r2l...) {
		m.trace.Tracef(frame, "%s track %s dropped", t.Direction, t.TrackID)
	}
	m.l2r, m.r2l = nil, nil
	m.bailing = true
	m.trace.Tracef(frame, "starting to bail: %s", reason)
}

func (m *Manager) detectEntryLeft(frame int, blobs []geom.Rect, projL2R, projR2L []Projection) bool {
	cfg := m.cfg
	safeL2R := cfg.PixelRight - cfg.PixelLeft
	safeR2L := safeL2R
	if len(projR2L) > 0 {
		safeR2L = max(projR2L[0].Box.X-safeAheadFactor*cfg.MaxL2RDistOnEntry, 0)
	}
	if len(projL2R) > 0 {
		safeL2R = max(projL2R[len(projL2R)-1].Box.X-safeBehindFactor*cfg.MaxL2RDistOnEntry, 0)
	}
	if safeL2R <= 0 || safeR2L <= 0 {
		return false
	}

	hi := min(safeR2L, safeL2R, (cfg.PixelLeft+cfg.PixelRight)/2)
	r := Coalesce(blobs, cfg.PixelLeft, hi, GrabStrict)
	if r.IsNone() {
		return false
	}
	t := NewTrack(LeftToRight, cfg.SampleWindow)
	t.AddSnapshot(r, frame)
	if r.Right() >= cfg.SpeedLineLeft {
		t.MarkInvalidSpeed()
	}
	m.l2r = append(m.l2r, t)
	m.trace.Tracef(frame, "added l2r track %s at %v", t.TrackID, r)
	return true
}

func (m *Manager) detectEntryRight(frame int, blobs []geom.Rect, projL2R, projR2L []Projection) bool {
	cfg := m.cfg
	safeL2R := cfg.PixelRight - cfg.PixelLeft
	safeR2L := safeL2R
	if len(projR2L) > 0 {
		last := projR2L[len(projR2L)-1].Box
		safeR2L = max(cfg.PixelRight-(last.Right()+safeBehindFactor*cfg.MaxR2LDistOnEntry), 0)
	}
	if len(projL2R) > 0 {
		safeL2R = max(cfg.PixelRight-(projL2R[0].Box.Right()+safeAheadFactor*cfg.MaxR2LDistOnEntry), 0)
	}
	if safeL2R <= 0 || safeR2L <= 0 {
		return false
	}

	lo := max(cfg.PixelRight-safeL2R, cfg.PixelRight-safeR2L, (cfg.PixelLeft+cfg.PixelRight)/2)
	r := Coalesce(blobs, lo, cfg.PixelRight, GrabStrict)
	if r.IsNone() {
		return false
	}
	t := NewTrack(RightToLeft, cfg.SampleWindow)
	t.AddSnapshot(r, frame)
	if r.X <= cfg.SpeedLineRight {
		t.MarkInvalidSpeed()
	}
	m.r2l = append(m.r2l, t)
	m.trace.Tracef(frame, "added r2l track %s at %v", t.TrackID, r)
	return true
}

// classifyOverlaps resets every overlap status, then classifies projected
// tracks against the opposing projections.
func (m *Manager) classifyOverlaps(projL2R, projR2L []Projection) {
	for _, t := range m.l2r {
		t.Overlap = OverlapNone
	}
	for _, t := range m.r2l {
		t.Overlap = OverlapNone
	}
	if len(projL2R) == 0 || len(projR2L) == 0 {
		return
	}
	boxesL2R, boxesR2L := boxes(projL2R), boxes(projR2L)
	for i, p := range projL2R {
		m.l2r[i].Overlap = ClassifyOverlap(m.cfg, LeftToRight, p.Box, boxesR2L)
	}
	for i, p := range projR2L {
		m.r2l[i].Overlap = ClassifyOverlap(m.cfg, RightToLeft, p.Box, boxesL2R)
	}
}

// reobserve looks for blobs around the projection of t and, if any are
// found, adds the coalesced box as a new snapshot.
func (m *Manager) reobserve(t *Track, p Projection, lane []geom.Rect, frame int) {
	cfg := m.cfg
	d := t.Direction

	lo, hi := p.Box.X-searchBehind, p.Box.Right()+searchAhead
	if d == RightToLeft {
		lo, hi = p.Box.X-searchAhead, p.Box.Right()+searchBehind
	}
	lo = geom.Clamp(lo, cfg.PixelLeft, cfg.PixelRight)
	hi = geom.Clamp(hi, cfg.PixelLeft, cfg.PixelRight)

	candidates := make([]geom.Rect, 0, len(lane))
	for _, b := range lane {
		if !b.OverlapsX(lo, hi) {
			continue
		}
		c := b.ClipX(lo, hi)
		if c.Area() < cfg.MinBlobArea {
			continue
		}
		candidates = append(candidates, c)
	}
	m.trace.Tracef(frame, "%s track %s: %d objects inside [%d, %d]", d, t.TrackID, len(candidates), lo, hi)
	if len(candidates) == 0 {
		return
	}

	policy := GrabGreedy
	if t.Overlap == OverlapRearOnly {
		policy = GrabStrict
	}
	behind, ahead := coalesceMargins(d, p.State)
	front, rear := frontEdge(d, p.Box), rearEdge(d, p.Box)
	qlo, qhi := rear-behind, front+ahead
	if d == RightToLeft {
		qlo, qhi = front-ahead, rear+behind
	}
	qlo = geom.Clamp(qlo, cfg.PixelLeft, cfg.PixelRight)
	qhi = geom.Clamp(qhi, cfg.PixelLeft, cfg.PixelRight)

	r := Coalesce(candidates, qlo, qhi, policy)
	if r.IsNone() {
		return
	}
	t.AddSnapshot(r, frame)
	m.trace.Tracef(frame, "%s track %s observed %v", d, t.TrackID, r)
}

func (m *Manager) views(projL2R, projR2L []Projection) []TrackProjection {
	out := make([]TrackProjection, 0, len(projL2R)+len(projR2L))
	for i, p := range projL2R {
		t := m.l2r[i]
		out = append(out, TrackProjection{TrackID: t.TrackID, Direction: t.Direction, Projection: p, Overlap: t.Overlap, FinalSpeed: t.FinalSpeed})
	}
	for i, p := range projR2L {
		t := m.r2l[i]
		out = append(out, TrackProjection{TrackID: t.TrackID, Direction: t.Direction, Projection: p, Overlap: t.Overlap, FinalSpeed: t.FinalSpeed})
	}
	return out
}

func boxes(proj []Projection) []geom.Rect {
	out := make([]geom.Rect, len(proj))
	for i, p := range proj {
		out[i] = p.Box
	}
	return out
}
