package vsdisplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/flavioheleno/vsdisplay/dc"
	"github.com/flavioheleno/vsdisplay/hdmi"
	"github.com/flavioheleno/vsdisplay/internal/logging"
	"github.com/flavioheleno/vsdisplay/kms"
)

var (
	// ErrCommitAborted wraps errors that aborted a commit after hardware was
	// touched. The output is left disabled.
	ErrCommitAborted = errors.New("vsdisplay: commit aborted")
	// ErrNoMode is returned by Check for a commit without an active area.
	ErrNoMode = errors.New("vsdisplay: commit has no mode")
	// ErrHalted is returned by every operation after Halt.
	ErrHalted = errors.New("vsdisplay: halted")
)

// Transmitter is the encoder end of a pipeline. *hdmi.Dev implements it.
type Transmitter interface {
	ModeValid(m kms.Mode) kms.ModeStatus
	AtomicCheck(m kms.Mode, s *hdmi.ConnectorState) (kms.BusFormat, kms.EncoderType, error)
	Enable(m kms.Mode, s *hdmi.ConnectorState) error
	Disable() error
	Detect() bool
	GetModes(ctx context.Context) ([]kms.Mode, error)
}

// Composer is the display controller end of a pipeline. *dc.Dev implements
// it.
type Composer interface {
	Info() *dc.Info
	CheckPlane(id dc.PlaneID, s *kms.PlaneState, m kms.Mode) error
	Enable(panel int, m kms.Mode, enc kms.EncoderType, bus kms.BusFormat) error
	Disable(panel int) error
	AtomicBegin(panel int, colorMgmtChanged bool, lut []kms.ColorLUT) error
	UpdatePlane(id dc.PlaneID, s *kms.PlaneState) error
	DisablePlane(id dc.PlaneID) error
	UpdateCursor(panel int, s *kms.PlaneState) error
	DisableCursor(panel int) error
	AtomicFlush(panel int, e *dc.Event) error
}

// binder is implemented by transmitters that must be attached to the CRTCs
// able to feed them.
type binder interface {
	Bind(possibleCRTCs uint32) error
}

var (
	_ Transmitter = (*hdmi.Dev)(nil)
	_ Composer    = (*dc.Dev)(nil)
	_ binder      = (*hdmi.Dev)(nil)
)

// Opts is the configuration of a pipeline.
type Opts struct {
	// Panel of the composer feeding the transmitter (default: 0)
	Panel int
}

// Commit is a requested display state.
type Commit struct {
	Mode kms.Mode

	// Color state for the connector. nil keeps the committed one. The
	// pipeline works on a copy.
	Connector *hdmi.ConnectorState

	// Layer states. Layers left out are disabled. CRTC is forced to the
	// pipeline's panel.
	Planes map[dc.PlaneID]*kms.PlaneState

	// Cursor state, nil to hide the cursor.
	Cursor *kms.PlaneState

	// Gamma is loaded when GammaChanged is set. An empty table turns gamma
	// correction off.
	GammaChanged bool
	Gamma        []kms.ColorLUT
}

// State is a checked display state. The committed one is returned by
// Pipeline.State.
type State struct {
	Mode      kms.Mode
	Connector *hdmi.ConnectorState
	Bus       kms.BusFormat
	Encoder   kms.EncoderType
	Planes    map[dc.PlaneID]*kms.PlaneState
	Cursor    *kms.PlaneState
	Gamma     []kms.ColorLUT

	// Active is set while the output runs this state.
	Active bool
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Connector = s.Connector.Clone()
	c.Planes = make(map[dc.PlaneID]*kms.PlaneState, len(s.Planes))
	for id, p := range s.Planes {
		c.Planes[id] = p.Clone()
	}
	c.Cursor = s.Cursor.Clone()
	c.Gamma = append([]kms.ColorLUT(nil), s.Gamma...)
	return &c
}

// needsModeset reports whether going from s to n reprograms the timing
// generator and the transmitter.
func (s *State) needsModeset(n *State) bool {
	return !s.Active || s.Mode != n.Mode || *s.Connector != *n.Connector || s.Bus != n.Bus || s.Encoder != n.Encoder
}

// Pipeline drives one transmitter from one composer panel. Commits are
// serialized.
type Pipeline struct {
	// Devices
	tx    Transmitter
	comp  Composer
	panel int

	// Commit state
	mu    sync.Mutex
	state atomic.Pointer[State] // Committed, never modified in place

	halted atomic.Bool
}

// New ties tx to panel opts.Panel of comp. When tx needs binding, it is bound
// to that panel; a nil comp binds it to no CRTC, which fails with
// hdmi.ErrProbeDefer.
//
// opts can be nil to use defaults.
func New(tx Transmitter, comp Composer, opts *Opts) (*Pipeline, error) {
	if tx == nil {
		return nil, errors.New("vsdisplay: nil transmitter")
	}
	if opts == nil {
		opts = &Opts{}
	}
	var crtcs uint32
	if comp != nil {
		if opts.Panel < 0 || opts.Panel >= comp.Info().Panels {
			return nil, fmt.Errorf("vsdisplay: panel %d: %w", opts.Panel, dc.ErrPanel)
		}
		crtcs = 1 << opts.Panel
	}
	if b, ok := tx.(binder); ok {
		if err := b.Bind(crtcs); err != nil {
			return nil, fmt.Errorf("vsdisplay: failed to bind transmitter: %w", err)
		}
	}
	if comp == nil {
		return nil, errors.New("vsdisplay: nil composer")
	}
	p := &Pipeline{tx: tx, comp: comp, panel: opts.Panel}
	p.state.Store(&State{Connector: hdmi.DefaultConnectorState()})
	return p, nil
}

func (p *Pipeline) String() string {
	return fmt.Sprintf("vsdisplay.Pipeline{%s, panel %d}", p.comp.Info().Name, p.panel)
}

// ModeValid checks whether the transmitter can drive m.
func (p *Pipeline) ModeValid(m kms.Mode) kms.ModeStatus {
	return p.tx.ModeValid(m)
}

// Detect reports whether a sink is connected.
func (p *Pipeline) Detect() bool {
	return p.tx.Detect()
}

// GetModes returns the modes of the connected sink the transmitter can drive.
func (p *Pipeline) GetModes(ctx context.Context) ([]kms.Mode, error) {
	if p.halted.Load() {
		return nil, ErrHalted
	}
	return p.tx.GetModes(ctx)
}

// State returns a copy of the committed state.
func (p *Pipeline) State() *State {
	return p.state.Load().Clone()
}

// Check validates c without touching the hardware and returns the state a
// commit of c would produce. The committed state is not modified.
func (p *Pipeline) Check(c *Commit) (*State, error) {
	if p.halted.Load() {
		return nil, ErrHalted
	}
	return p.check(c, p.state.Load())
}

func (p *Pipeline) check(c *Commit, cur *State) (*State, error) {
	if c == nil || c.Mode.HDisplay <= 0 || c.Mode.VDisplay <= 0 {
		return nil, ErrNoMode
	}
	n := &State{
		Mode:   c.Mode,
		Planes: make(map[dc.PlaneID]*kms.PlaneState, len(c.Planes)),
	}
	if c.Connector != nil {
		n.Connector = c.Connector.Clone()
	} else {
		n.Connector = cur.Connector.Clone()
	}
	bus, enc, err := p.tx.AtomicCheck(c.Mode, n.Connector)
	if err != nil {
		return nil, err
	}
	if n.Bus, err = dc.CheckBusFormat(bus); err != nil {
		return nil, err
	}
	n.Encoder = enc

	zpos := map[int]dc.PlaneID{}
	for _, id := range sortedIDs(c.Planes) {
		if id.Cursor() {
			return nil, fmt.Errorf("vsdisplay: %s is not a layer: %w", id, dc.ErrPlane)
		}
		s := c.Planes[id].Clone()
		if s == nil {
			continue
		}
		s.CRTC = p.panel
		if err := p.comp.CheckPlane(id, s, c.Mode); err != nil {
			return nil, err
		}
		if s.Visible {
			if other, ok := zpos[s.Zpos]; ok {
				return nil, fmt.Errorf("vsdisplay: %s and %s share zpos %d: %w", other, id, s.Zpos, dc.ErrZpos)
			}
			zpos[s.Zpos] = id
		}
		n.Planes[id] = s
	}

	if c.Cursor != nil {
		s := c.Cursor.Clone()
		s.CRTC = p.panel
		if err := p.comp.CheckPlane(dc.Cursor0+dc.PlaneID(p.panel), s, c.Mode); err != nil {
			return nil, err
		}
		n.Cursor = s
	}

	n.Gamma = cur.Gamma
	if c.GammaChanged {
		if size := p.comp.Info().GammaSize; len(c.Gamma) != 0 && len(c.Gamma) != size {
			return nil, fmt.Errorf("vsdisplay: gamma has %d entries, want %d: %w", len(c.Gamma), size, dc.ErrGammaSize)
		}
		n.Gamma = append([]kms.ColorLUT(nil), c.Gamma...)
	}
	return n, nil
}

// Commit checks c and programs it. A mode change runs the timing generator
// before the transmitter, whose PLL needs the pixel clock. Plane updates are
// bracketed by the composer's shadow registers and land together at the next
// vblank, which completes the returned event.
//
// When Check fails nothing is touched and the committed state stays active.
// Any later failure disables the output; the error then matches
// ErrCommitAborted and IsFatal. The committed state is only replaced on
// success.
func (p *Pipeline) Commit(ctx context.Context, c *Commit) (*dc.Event, error) {
	if p.halted.Load() {
		return nil, ErrHalted
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.state.Load()
	n, err := p.check(c, cur)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logging.Logger()
	if cur.needsModeset(n) {
		log.Debug("vsdisplay: mode set", "mode", n.Mode.String(), "connector", n.Connector.String(), "bus", n.Bus.String())
		if cur.Active {
			p.shutdown()
		}
		if err := p.comp.Enable(p.panel, n.Mode, n.Encoder, n.Bus); err != nil {
			return nil, p.abort(cur, err)
		}
		if err := p.tx.Enable(n.Mode, n.Connector); err != nil {
			return nil, p.abort(cur, err)
		}
	}

	e, err := p.apply(cur, n, c.GammaChanged)
	if err != nil {
		return nil, p.abort(cur, err)
	}
	n.Active = true
	p.state.Store(n)
	return e, nil
}

// apply programs the planes of n inside one shadow register bracket.
func (p *Pipeline) apply(cur, n *State, gammaChanged bool) (*dc.Event, error) {
	if err := p.comp.AtomicBegin(p.panel, gammaChanged, n.Gamma); err != nil {
		return nil, err
	}
	for _, id := range sortedIDs(n.Planes) {
		s := n.Planes[id]
		var err error
		if s.Visible {
			err = p.comp.UpdatePlane(id, s)
		} else {
			err = p.comp.DisablePlane(id)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, id := range sortedIDs(cur.Planes) {
		if _, ok := n.Planes[id]; ok {
			continue
		}
		if err := p.comp.DisablePlane(id); err != nil {
			return nil, err
		}
	}
	switch {
	case n.Cursor != nil && n.Cursor.Visible:
		if err := p.comp.UpdateCursor(p.panel, n.Cursor); err != nil {
			return nil, err
		}
	case cur.Cursor != nil:
		if err := p.comp.DisableCursor(p.panel); err != nil {
			return nil, err
		}
	}
	e := dc.NewEvent()
	if err := p.comp.AtomicFlush(p.panel, e); err != nil {
		return nil, err
	}
	return e, nil
}

// abort turns the output off after a failed commit. cur stays the committed
// state, marked inactive so the next commit runs a full mode set.
func (p *Pipeline) abort(cur *State, err error) error {
	logging.Logger().Error("vsdisplay: commit aborted", "err", err)
	p.shutdown()
	if cur.Active {
		s := cur.Clone()
		s.Active = false
		p.state.Store(s)
	}
	return fmt.Errorf("%w: %w", ErrCommitAborted, err)
}

// shutdown disables the transmitter then the panel. Errors are logged: the
// output is going down either way.
func (p *Pipeline) shutdown() {
	if err := p.tx.Disable(); err != nil {
		logging.Logger().Warn("vsdisplay: failed to disable transmitter", "err", err)
	}
	if err := p.comp.Disable(p.panel); err != nil {
		logging.Logger().Warn("vsdisplay: failed to disable panel", "panel", p.panel, "err", err)
	}
}

// Disable turns the output off: the transmitter first, then the panel,
// which completes pending frame events.
func (p *Pipeline) Disable(ctx context.Context) error {
	if p.halted.Load() {
		return ErrHalted
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disable()
}

func (p *Pipeline) disable() error {
	cur := p.state.Load()
	if !cur.Active {
		return nil
	}
	err := p.tx.Disable()
	if err2 := p.comp.Disable(p.panel); err == nil {
		err = err2
	}
	s := cur.Clone()
	s.Active = false
	p.state.Store(s)
	if err != nil {
		return fmt.Errorf("vsdisplay: failed to disable output: %w", err)
	}
	return nil
}

// Halt disables the output. Further calls return ErrHalted. The transmitter
// and composer are not halted.
func (p *Pipeline) Halt() error {
	if p.halted.Swap(true) {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disable()
}

// IsFatal reports whether err aborted a commit and left the output disabled.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCommitAborted) ||
		errors.Is(err, hdmi.ErrPLLLock) ||
		errors.Is(err, hdmi.ErrInfoframe)
}

// IsRetryable reports whether the operation that returned err may succeed
// when tried again later.
func IsRetryable(err error) bool {
	return errors.Is(err, hdmi.ErrTryAgain) || errors.Is(err, hdmi.ErrProbeDefer)
}

// SetLogger installs l as the logger of all vsdisplay packages. A nil l
// discards everything, which is the default.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

func sortedIDs(m map[dc.PlaneID]*kms.PlaneState) []dc.PlaneID {
	// Equivalent to slices.Sorted(maps.Keys(m)), which needs Go 1.23.
	var ids []dc.PlaneID
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
