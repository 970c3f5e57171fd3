// Package session implements the AUX protocol engine: a writer
// draining an outbound queue, a reader dispatching parsed frames to
// handlers, and a periodic poller, all sharing one mutex-guarded
// MountState. Grounded on nexstarevo.py's handle_read/handle_write/
// get_status/handle_msg/ctrl coroutines, translated from cooperative
// asyncio tasks to goroutines synchronized with a sync.Mutex per the
// thread-based recommendation in the source's own design notes.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/jochym/nexstar-evo/aux"
	"github.com/jochym/nexstar-evo/logging"
)

// ErrEOF is returned from Run when the connection closed from the
// peer side or on a local I/O error while reading.
var ErrEOF = errors.New("session: connection closed")

// ErrClosed is returned by Send once the session has begun shutting
// down and will no longer accept outbound messages.
var ErrClosed = errors.New("session: closed")

// Conn is the byte-level transport a Session drives: satisfied by
// *transport.Conn, and by net.Conn (including net.Pipe) for tests —
// accepting the interface instead of the concrete type keeps the
// reader/writer loops testable without a real socket.
type Conn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
}

// State identifies where a Session is in its lifecycle.
type State int

const (
	StateInit State = iota
	StateHandshaking
	StateOpen
	StateDraining
	StateClosed
)

// Config controls a Session's cadence and bookkeeping. The zero value
// is not usable directly; start from DefaultConfig.
type Config struct {
	PollInterval      time.Duration
	WriterThrottle    time.Duration
	OutboundQueueSize int
	LastReplyTTL      time.Duration
	Logger            logging.Logger
}

// DefaultConfig returns the reference cadence: 1 Hz poll, 50ms writer
// throttle, matching nexstarevo.py's get_status(sleep=1) and the
// asyncio.sleep(0.05) in handle_write.
func DefaultConfig() Config {
	return Config{
		PollInterval:      time.Second,
		WriterThrottle:    50 * time.Millisecond,
		OutboundQueueSize: 64,
		LastReplyTTL:      30 * time.Second,
		Logger:            logging.NewNop(),
	}
}

// Session is the concurrent AUX protocol engine for one connection.
type Session struct {
	conn   Conn
	cfg    Config
	logger logging.Logger

	outbound chan *aux.Message
	handlers map[dispatchKey]handlerFunc

	mu    sync.Mutex
	state MountState

	lastReply *cache.Cache

	hookMu sync.RWMutex
	onRaw  func(aux.Message)

	lifecycleMu sync.Mutex
	lifecycle   State

	stopOnce sync.Once
	stopped  chan struct{}

	pollTick int
}

// New constructs a Session bound to conn, not yet running. Call Run to
// start the writer/reader/poller and pump traffic.
func New(conn Conn, cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.OutboundQueueSize <= 0 {
		cfg.OutboundQueueSize = 64
	}
	if cfg.LastReplyTTL <= 0 {
		cfg.LastReplyTTL = 30 * time.Second
	}
	s := &Session{
		conn:      conn,
		cfg:       cfg,
		logger:    cfg.Logger,
		outbound:  make(chan *aux.Message, cfg.OutboundQueueSize),
		stopped:   make(chan struct{}),
		lifecycle: StateInit,
		lastReply: cache.New(cfg.LastReplyTTL, cfg.LastReplyTTL/2),
	}
	s.handlers = s.buildHandlers()
	s.mu.Lock()
	s.state.Connected = true
	s.mu.Unlock()
	s.setLifecycle(StateOpen)
	return s
}

// OnRawFrame registers an observer invoked for every parsed frame,
// before the destination-based echo-drop filter runs, so a caller
// monitoring the bus can see peer-to-peer traffic the default dispatch
// silently discards (spec's Open Question 4, resolved additively).
func (s *Session) OnRawFrame(f func(aux.Message)) {
	s.hookMu.Lock()
	s.onRaw = f
	s.hookMu.Unlock()
}

func (s *Session) rawFrameHook() func(aux.Message) {
	s.hookMu.RLock()
	defer s.hookMu.RUnlock()
	return s.onRaw
}

// LastReply returns the most recent reply seen from target for the
// given command, if one has arrived and not yet aged out of the TTL
// cache. Backed by go-cache, the same "recently seen, TTL-expired"
// shape as a decoder's ICAO address cache.
func (s *Session) LastReply(target aux.TargetId, mid aux.CommandId) (aux.Message, bool) {
	v, ok := s.lastReply.Get(lastReplyKey(target, mid))
	if !ok {
		return aux.Message{}, false
	}
	return v.(aux.Message), true
}

func lastReplyKey(target aux.TargetId, mid aux.CommandId) string {
	return strconv.Itoa(int(target)) + ":" + strconv.Itoa(int(mid))
}

// State returns a copy of the current MountState.
func (s *Session) State() MountState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns a MountStatus snapshot with DMS-rendered angles, the
// data half of nexstarevo.py's show_status (the printing half belongs
// to cmd/nexstar-evo).
func (s *Session) Status() MountStatus {
	st := s.State()
	alt := st.AltFraction
	if alt > 0.5 {
		alt -= 1
	}
	ad, am, as := aux.FToDMS(alt)
	zd, zm, zs := aux.FToDMS(st.AzmFraction)
	return MountStatus{
		MountState: st,
		AltDeg:     ad, AltMin: am, AltSec: as,
		AzmDeg: zd, AzmMin: zm, AzmSec: zs,
	}
}

func (s *Session) setLifecycle(v State) {
	s.lifecycleMu.Lock()
	s.lifecycle = v
	s.lifecycleMu.Unlock()
}

// Lifecycle reports the session's current state-machine value.
func (s *Session) Lifecycle() State {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	return s.lifecycle
}

// BeginSlew records a newly commanded goto target and marks both axes
// as slewing, mirroring nexstarevo.py:goto setting target_alt/target_azm
// and slew_alt/slew_azm before the MC_GOTO frames are even enqueued.
func (s *Session) BeginSlew(alt, azm float64) {
	s.mu.Lock()
	s.state.TargetAlt = alt
	s.state.TargetAzm = azm
	s.state.SlewAltPending = true
	s.state.SlewAzmPending = true
	s.mu.Unlock()
}

// SetGuiding records whether the mount is currently under rate-based
// guide control, mutated by package motion around Guide calls.
func (s *Session) SetGuiding(g bool) {
	s.mu.Lock()
	s.state.Guiding = g
	s.mu.Unlock()
}

// Send enqueues msg for the writer. It blocks if the outbound queue is
// full, honoring ctx cancellation, and preserves FIFO order (property
// law 6): concurrent senders are serialized by the channel itself.
func (s *Session) Send(ctx context.Context, msg aux.Message) error {
	select {
	case <-s.stopped:
		return ErrClosed
	default:
	}
	select {
	case s.outbound <- &msg:
		return nil
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close requests an orderly shutdown: a sentinel nil message is
// enqueued for the writer, exactly nexstarevo.py's oq.put(None). The
// writer drains up to the sentinel, then closes the connection, which
// unblocks the reader's pending Read with an error and ends its loop —
// the Go translation of "writer exit -> inbound sentinel -> reader
// exit -> socket close" that preserves the same net effect (every
// task ends and the socket is released) without a separate inbound
// sentinel channel, which Go's single real reader goroutine has no
// need for.
func (s *Session) Close() {
	s.stopOnce.Do(func() {
		s.setLifecycle(StateDraining)
		close(s.stopped)
		select {
		case s.outbound <- nil:
		default:
			// Queue full: the writer will observe stopped being closed
			// on its next trip around the select and exit anyway.
		}
	})
}

// Run starts the writer, reader and poller and blocks until the
// session ends, either because Close was called, ctx was canceled, or
// the connection failed. It returns the terminal error, wrapping
// ErrEOF for a normal peer-initiated close; a shutdown begun by Close or
// by ctx returns nil.
func (s *Session) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errc := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writerLoop()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.readerLoop(); err != nil {
			select {
			case <-s.stopped:
				// Read failed because shutdown closed the connection.
			default:
				errc <- err
			}
		}
		s.Close()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.pollerLoop(ctx)
	}()

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.stopped:
		}
	}()

	wg.Wait()
	s.mu.Lock()
	s.state.Connected = false
	s.mu.Unlock()
	s.setLifecycle(StateClosed)
	s.conn.Close()

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

func (s *Session) writerLoop() {
	defer s.conn.Close()
	for {
		var msg *aux.Message
		select {
		case msg = <-s.outbound:
		default:
			select {
			case msg = <-s.outbound:
			case <-s.stopped:
				return
			}
		}
		if msg == nil {
			return
		}
		wire := aux.Encode(*msg)
		if _, err := s.conn.Write(wire); err != nil {
			s.logger.Warnw("write failed", "err", err)
			s.Close()
			return
		}
		time.Sleep(s.cfg.WriterThrottle)
	}
}

func (s *Session) readerLoop() error {
	buf := make([]byte, 1024)
	var pending []byte
	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEOF, err)
		}
		pending = append(pending, buf[:n]...)

		frames, remainder := aux.SplitStream(pending)
		pending = append([]byte(nil), remainder...)
		for _, f := range frames {
			s.dispatch(f)
		}
	}
}

func (s *Session) pollerLoop(ctx context.Context) {
	t := time.NewTicker(s.cfg.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.poll(ctx)
		case <-s.stopped:
			return
		case <-ctx.Done():
			return
		}
	}
}

// poll enqueues the periodic status-refresh commands: position for
// both axes every tick, battery voltage every 16th tick, and a
// slew-done check for whichever axis is still mid-slew. Grounded on
// nexstarevo.py:get_status.
func (s *Session) poll(ctx context.Context) {
	send := func(dst aux.TargetId, mid aux.CommandId) {
		_ = s.Send(ctx, aux.Message{Source: aux.APP, Destination: dst, MessageId: mid})
	}

	if s.pollTick == 0 {
		send(aux.BAT, aux.GetVoltage)
		s.pollTick = 16
	}
	s.pollTick--

	send(aux.ALT, aux.MCGetPosition)
	send(aux.AZM, aux.MCGetPosition)

	st := s.State()
	if st.SlewAltPending {
		send(aux.ALT, aux.MCSlewDone)
	}
	if st.SlewAzmPending {
		send(aux.AZM, aux.MCSlewDone)
	}
}
