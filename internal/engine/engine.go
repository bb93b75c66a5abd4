package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mortise/tenon/internal/assist"
	"github.com/mortise/tenon/internal/constraint"
	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
	"github.com/mortise/tenon/internal/store"
)

// DefaultSolverTimeout bounds a single constraint-solver call. A solver
// that misses the deadline degrades the validation status to unknown; it
// never fails the session.
const DefaultSolverTimeout = 2 * time.Second

// Engine orchestrates specification-refinement sessions.
type Engine struct {
	store   store.Store
	guard   store.Guard
	drafter assist.Drafter
	lifter  assist.Lifter
	solver  constraint.Solver

	now          func() time.Time
	newHoleID    func() string
	newSessionID func() string

	log           *slog.Logger
	solverTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithGuard sets the per-session concurrency strategy. Default: NopGuard
// (no locking, last write wins).
func WithGuard(g store.Guard) Option {
	return func(e *Engine) { e.guard = g }
}

// WithDrafter sets the draft/assist collaborator. Default: RuleDrafter.
func WithDrafter(d assist.Drafter) Option {
	return func(e *Engine) { e.drafter = d }
}

// WithLifter sets the reverse-mode source lifter. Default: RuleLifter.
func WithLifter(l assist.Lifter) Option {
	return func(e *Engine) { e.lifter = l }
}

// WithSolver sets the constraint solver. Default: CUESolver.
func WithSolver(s constraint.Solver) Option {
	return func(e *Engine) { e.solver = s }
}

// WithClock sets the timestamp source for resolution records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHoleIDs sets the hole id generator.
func WithHoleIDs(newID func() string) Option {
	return func(e *Engine) { e.newHoleID = newID }
}

// WithSessionIDs sets the session id generator.
func WithSessionIDs(newID func() string) Option {
	return func(e *Engine) { e.newSessionID = newID }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSolverTimeout bounds each solver call. Default: DefaultSolverTimeout.
func WithSolverTimeout(d time.Duration) Option {
	return func(e *Engine) { e.solverTimeout = d }
}

// New creates an Engine backed by the given store.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:         s,
		guard:         store.NopGuard{},
		now:           time.Now,
		newHoleID:     func() string { return "h-" + uuid.NewString() },
		newSessionID:  uuid.NewString,
		log:           slog.Default(),
		solverTimeout: DefaultSolverTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.drafter == nil {
		e.drafter = assist.NewRuleDrafter(e.newHoleID)
	}
	if e.lifter == nil {
		e.lifter = assist.NewRuleLifter(e.newHoleID)
	}
	if e.solver == nil {
		e.solver = constraint.NewCUESolver()
	}
	return e
}

// Create starts a session from prompt text. The drafter proposes the
// initial draft; whatever it leaves open becomes the session's starting
// ambiguity set.
func (e *Engine) Create(ctx context.Context, prompt string) (*session.Session, error) {
	draft, err := e.drafter.ProposeInitialDraft(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("propose initial draft: %w", err)
	}
	s := &session.Session{
		ID:               e.newSessionID(),
		Origin:           session.Origin{Kind: session.OriginPrompt, Prompt: prompt},
		Draft:            draft,
		ValidationStatus: session.StatusPending,
		State:            session.StateDraft,
	}
	s.Rescan()
	if err := e.store.Create(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("session created",
		"session", s.ID, "origin", s.Origin.Kind, "open_holes", len(s.Ambiguities))
	return s, nil
}

// CreateFromIR starts a session from a ready-made draft (reverse mode).
// The draft may already contain holes and evidence.
func (e *Engine) CreateFromIR(ctx context.Context, draft *ir.IR, source string) (*session.Session, error) {
	if draft == nil {
		return nil, fmt.Errorf("reverse-mode draft is nil")
	}
	if err := draft.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("reverse-mode draft: %w", err)
	}
	s := &session.Session{
		ID:               e.newSessionID(),
		Origin:           session.Origin{Kind: session.OriginReverse, Source: source},
		Draft:            draft.Clone(),
		ValidationStatus: session.StatusPending,
		State:            session.StateDraft,
	}
	s.Rescan()
	if err := e.store.Create(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("session created",
		"session", s.ID, "origin", s.Origin.Kind, "open_holes", len(s.Ambiguities))
	return s, nil
}

// CreateFromSource starts a session by lifting a draft out of existing
// source text (reverse mode). The lifter decides what the source pins down
// and what stays open.
func (e *Engine) CreateFromSource(ctx context.Context, source string) (*session.Session, error) {
	draft, err := e.lifter.Lift(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("lift source: %w", err)
	}
	return e.CreateFromIR(ctx, draft, source)
}

// Get returns a snapshot of the session.
func (e *Engine) Get(ctx context.Context, id string) (*session.Session, error) {
	return e.store.Get(ctx, id)
}

// List returns summaries of all sessions, ordered by id.
func (e *Engine) List(ctx context.Context) ([]session.Summary, error) {
	return e.store.List(ctx)
}

// Delete destroys a session. Finalized sessions can be deleted too;
// finalization freezes, deletion destroys.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.log.Info("session deleted", "session", id)
	return nil
}
