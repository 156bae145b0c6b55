package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaminalder/tic-tac-based/internal/domain"
	"github.com/jaminalder/tic-tac-based/internal/store"
	"github.com/jaminalder/tic-tac-based/internal/view"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("session not found")

// errUnchanged tells update to return the loaded session without saving it.
var errUnchanged = errors.New("unchanged")

// Session is everything one loaded page owns: the game, its stats and the chrome.
type Session struct {
	ID      string      `json:"id"`
	Game    domain.Game `json:"game"`
	Chrome  view.Chrome `json:"chrome"`
	Created time.Time   `json:"created"`
	Updated time.Time   `json:"updated"`
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service applies input events to sessions. Each event runs load, mutate and
// save under one lock, so a session never sees two writers at once.
type Service struct {
	mu           sync.Mutex
	store        store.Store
	subs         map[string]map[*subscriber]struct{}
	render       func(Session) []byte
	log          *slog.Logger
	now          func() time.Time
	overlayDelay time.Duration
	tracer       trace.Tracer
	metrics      *metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.With("component", "app")
		}
	}
}

// WithRenderer sets the function that turns a session into a broadcast payload.
func WithRenderer(renderer func(Session) []byte) Option {
	return func(s *Service) { s.setRenderer(renderer) }
}

// WithOverlayDelay overrides how long the controls overlay stays up.
func WithOverlayDelay(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.overlayDelay = d
		}
	}
}

// WithClock overrides the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a service over st. Without a renderer broadcasts carry no payload.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:        st,
		subs:         make(map[string]map[*subscriber]struct{}),
		render:       func(Session) []byte { return nil },
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		overlayDelay: view.OverlayDelay,
		tracer:       otel.Tracer("github.com/jaminalder/tic-tac-based/internal/app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(s.log)
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(Session) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRenderer(renderer)
}

func (s *Service) setRenderer(renderer func(Session) []byte) {
	if renderer == nil {
		s.render = func(Session) []byte { return nil }
		return
	}
	s.render = renderer
}

// Create starts a new session: empty board, B to move, zero stats, controls shown.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "app.Create")
	defer span.End()

	now := s.now()
	sess := &Session{
		ID:      uuid.NewString(),
		Game:    domain.NewGame(),
		Chrome:  view.NewChrome(),
		Created: now,
		Updated: now,
	}
	span.SetAttributes(attribute.String("session.id", sess.ID))

	s.mu.Lock()
	err := s.save(ctx, sess)
	s.mu.Unlock()
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	s.log.Debug("session created", "session", sess.ID)
	cp := *sess
	return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitMove plays the active side at index. Rejected moves (occupied cell,
// finished game, bad index) leave the session as it was and are not reported
// as errors; the returned session is simply unchanged.
func (s *Service) SubmitMove(ctx context.Context, id string, index int) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "app.SubmitMove", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Int("cell", index),
	))
	defer span.End()

	var rejected error
	sess, err := s.update(ctx, id, func(sess *Session) error {
		if err := sess.Game.SubmitMove(index); err != nil {
			rejected = err
			return errUnchanged
		}
		s.metrics.moves.Add(ctx, 1)
		if sess.Game.Terminal() {
			s.metrics.finished.Add(ctx, 1, metricResult(sess.Game.Result))
		}
		return nil
	})
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	if rejected != nil {
		s.metrics.rejected.Add(ctx, 1)
		span.AddEvent("move rejected", trace.WithAttributes(attribute.String("reason", rejected.Error())))
		s.log.Debug("move ignored", "session", id, "cell", index, "reason", rejected)
		return sess, nil
	}
	if sess.Game.Terminal() {
		s.log.Info("game finished", "session", id, "result", sess.Game.Result.String(),
			"b_wins", sess.Game.Stats.BWins, "e_wins", sess.Game.Stats.EWins, "ties", sess.Game.Stats.Ties)
	}
	return sess, nil
}

// NewGame clears the board and gives B the first move. Stats are kept.
func (s *Service) NewGame(ctx context.Context, id string) (*Session, error) {
	return s.traced(ctx, "app.NewGame", id, func(sess *Session) error {
		sess.Game.ResetGame()
		return nil
	})
}

// ResetStats zeroes the session counters.
func (s *Service) ResetStats(ctx context.Context, id string) (*Session, error) {
	return s.traced(ctx, "app.ResetStats", id, func(sess *Session) error {
		sess.Game.ResetStats()
		return nil
	})
}

func (s *Service) ToggleControls(ctx context.Context, id string) (*Session, error) {
	return s.traced(ctx, "app.ToggleControls", id, func(sess *Session) error {
		sess.Chrome.ToggleControls()
		return nil
	})
}

// SetWidth records the viewport width reported by the page.
func (s *Service) SetWidth(ctx context.Context, id string, width int) (*Session, error) {
	return s.traced(ctx, "app.SetWidth", id, func(sess *Session) error {
		sess.Chrome.SetWidth(width)
		return nil
	})
}

// HideControls is the one-shot overlay auto-hide. It pushes the new state to
// subscribers, and does nothing once the session has been auto-hidden before.
func (s *Service) HideControls(ctx context.Context, id string) (*Session, error) {
	changed := false
	sess, err := s.traced(ctx, "app.HideControls", id, func(sess *Session) error {
		if sess.Chrome.AutoHidden {
			return errUnchanged
		}
		changed = sess.Chrome.ShowControls
		sess.Chrome.AutoHide()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(*sess)
	}
	return sess, nil
}

// ArmOverlay hides the controls overlay once the overlay delay has passed. It
// does nothing if ctx ends first, which is how a torn down view cancels it, or
// if the session was already auto-hidden by an earlier view.
func (s *Service) ArmOverlay(ctx context.Context, id string) {
	if sess, err := s.Get(ctx, id); err != nil || sess.Chrome.AutoHidden {
		return
	}
	go func() {
		timer := time.NewTimer(s.overlayDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if _, err := s.HideControls(ctx, id); err != nil && ctx.Err() == nil {
			s.log.Warn("overlay auto-hide failed", "session", id, "error", err)
		}
	}()
}

// Subscribe registers a subscriber for a session. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.load(ctx, id); err != nil {
		return nil, nil, err
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.dropLocked(id, sub)
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) traced(ctx context.Context, name, id string, fn func(*Session) error) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	sess, err := s.update(ctx, id, fn)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return sess, nil
}

func (s *Service) update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = fn(sess); errors.Is(err, errUnchanged) {
		cp := *sess
		return &cp, nil
	} else if err != nil {
		return nil, err
	}
	sess.Updated = s.now()
	if err = s.save(ctx, sess); err != nil {
		return nil, err
	}
	cp := *sess
	return &cp, nil
}

// publish fans a rendered session out; slow subscribers are closed and dropped.
// Sends happen under the lock so no channel is closed mid-send.
func (s *Service) publish(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := s.render(sess)
	for sub := range s.subs[sess.ID] {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			s.dropLocked(sess.ID, sub)
		}
	}
}

func (s *Service) dropLocked(id string, sub *subscriber) {
	set, ok := s.subs[id]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(s.subs, id)
	}
}

func (s *Service) load(ctx context.Context, id string) (*Session, error) {
	data, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err = s.store.Save(ctx, sess.ID, data); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func recordError(span trace.Span, err error) {
	if errors.Is(err, ErrNotFound) {
		span.SetAttributes(attribute.Bool("session.missing", true))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
