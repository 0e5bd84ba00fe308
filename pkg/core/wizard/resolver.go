// Package wizard resolves a free-text vehicle description into a concrete
// catalog configuration.
//
// The upstream catalog narrows a vehicle one attribute at a time. Every step
// is addressed by an opaque continuation token; a [Session] carries that
// token explicitly and is never mutated in place, so any session value can
// be retried or resumed later.
//
// # Phases
//
// A session moves through four phases:
//
//	Start -> Narrowing -> Complete
//	              \
//	               -> Dead
//
// In Narrowing the resolver repeatedly fetches the wizard state and
// auto-fills fields whose value it already knows (see [AutoFill]). When no
// field can be filled it suspends and hands the open fields to the caller,
// who continues with [Resolver.Resume] and the chosen option's token.
//
// # Failures
//
// A failed upstream call returns the session as it was before the call,
// together with an error coded STEP_FAILED; the same step can be repeated
// with [Resolver.Retry]. A Dead session rejects every operation with
// RESOLUTION_FAILED.
package wizard

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
	"github.com/matzehuels/partscout/pkg/observability"
)

// defaultMaxSteps bounds the auto-fill steps of one call.
const defaultMaxSteps = 64

// Catalog is the part of the catalog client the resolver drives.
// [*autodoc.Catalog] implements it.
type Catalog interface {
	ResolveBrandCode(ctx context.Context, name string) (string, error)
	WizardState(ctx context.Context, brandCode, token string) (*autodoc.WizardState, error)
	Modifications(ctx context.Context, brandCode, token string) (*autodoc.Modifications, error)
}

// Options configures a [Resolver].
type Options struct {
	Logger   *log.Logger // Debug output; nil discards
	MaxSteps int         // Auto-fill steps per call; 0 means 64
}

// Query starts a resolution. Brand is required; Model and Year become known
// values, and Known adds further label/value pairs.
type Query struct {
	Brand string
	Model string
	Year  string
	Known map[string]string
}

// Resolver runs the configuration wizard. It holds no per-session state
// and is safe for concurrent use.
type Resolver struct {
	catalog  Catalog
	logger   *log.Logger
	maxSteps int
}

// New creates a Resolver over catalog.
func New(catalog Catalog, opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	return &Resolver{catalog: catalog, logger: opts.Logger, maxSteps: opts.MaxSteps}
}

// Start resolves the brand and narrows as far as the known values allow.
//
// The returned session is Narrowing with open choices, Complete, or Dead.
// An unknown brand yields a Dead session and an error coded
// BRAND_NOT_FOUND.
func (r *Resolver) Start(ctx context.Context, q Query) (*Session, error) {
	brand := strings.TrimSpace(q.Brand)
	if brand == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "brand is required")
	}
	raw := make(map[string]string, len(q.Known)+2)
	for k, v := range q.Known {
		raw[k] = v
	}
	if q.Model != "" {
		raw[KeyModel] = q.Model
	}
	if q.Year != "" {
		raw[KeyModelYear] = q.Year
	}
	s := &Session{
		ID:    uuid.NewString(),
		Brand: brand,
		Known: NewKnownValues(raw),
		Phase: PhaseStart,
	}
	return r.advance(ctx, s)
}

// Resume continues a suspended session with the token of a chosen option.
// On failure the given session is returned unchanged.
func (r *Resolver) Resume(ctx context.Context, s *Session, token string) (*Session, error) {
	if err := checkLive(s); err != nil {
		return s, err
	}
	if s.Phase != PhaseNarrowing {
		return s, perrors.New(perrors.ErrCodeInvalidInput, "session %s is %s, not waiting for a choice", s.ID, s.Phase)
	}
	if token == "" {
		return s, perrors.New(perrors.ErrCodeInvalidInput, "empty continuation token")
	}
	state, err := r.catalog.WizardState(ctx, s.BrandCode, token)
	if err != nil {
		return s, stepFailed(err, "fetch wizard state")
	}
	next := s.clone()
	next.Token = token
	return r.settle(ctx, next, state)
}

// Retry repeats the step that last failed, or re-runs the current step.
func (r *Resolver) Retry(ctx context.Context, s *Session) (*Session, error) {
	if err := checkLive(s); err != nil {
		return s, err
	}
	return r.advance(ctx, s)
}

func (r *Resolver) advance(ctx context.Context, s *Session) (*Session, error) {
	switch s.Phase {
	case PhaseComplete:
		return s, nil
	case PhaseStart:
		code, err := r.catalog.ResolveBrandCode(ctx, s.Brand)
		if perrors.Is(err, perrors.ErrCodeBrandNotFound) {
			return s.kill(err), err
		}
		if err != nil {
			return s, stepFailed(err, "resolve brand %s", s.Brand)
		}
		next := s.clone()
		next.BrandCode = code
		next.Phase = PhaseNarrowing
		r.logger.Debug("brand resolved", "session", s.ID, "brand", s.Brand, "code", code)
		return r.narrow(ctx, next)
	default:
		return r.narrow(ctx, s)
	}
}

// narrow fetches the state of the session token and settles from there.
func (r *Resolver) narrow(ctx context.Context, s *Session) (*Session, error) {
	state, err := r.catalog.WizardState(ctx, s.BrandCode, s.Token)
	if err != nil {
		return s, stepFailed(err, "fetch wizard state")
	}
	return r.settle(ctx, s.clone(), state)
}

// settle auto-fills from state until a pass fills nothing, then either
// suspends or completes. next is owned by settle; the session token always
// names state.
func (r *Resolver) settle(ctx context.Context, next *Session, state *autodoc.WizardState) (*Session, error) {
	visited := map[string]bool{next.Token: true}
	for step := 0; ; step++ {
		open := state.Open()
		observability.Wizard().OnStep(ctx, next.ID, len(open))
		if len(open) == 0 {
			return r.complete(ctx, next, state)
		}
		if step >= r.maxSteps {
			r.logger.Warn("auto-fill step limit reached", "session", next.ID, "steps", step)
			return next.suspend(state), nil
		}

		fill, ok := AutoFill(state, next.Known, visited)
		if !ok {
			return next.suspend(state), nil
		}

		nextState, err := r.catalog.WizardState(ctx, next.BrandCode, fill.Token)
		if err != nil {
			return next.suspend(state), stepFailed(err, "apply %s = %s", fill.Field, fill.Value)
		}
		visited[fill.Token] = true
		next.Token = fill.Token
		next.Filled = append(next.Filled, fill)
		state = nextState
		observability.Wizard().OnAutoFill(ctx, next.ID, fill.Field, fill.Value)
		r.logger.Debug("auto-filled", "session", next.ID, "field", fill.Field, "value", fill.Value)
	}
}

func (r *Resolver) complete(ctx context.Context, next *Session, state *autodoc.WizardState) (*Session, error) {
	mods, err := r.catalog.Modifications(ctx, next.BrandCode, next.Token)
	if err != nil {
		return next.suspend(state), stepFailed(err, "fetch modifications")
	}
	if mods == nil || len(mods.Specific) == 0 {
		err := perrors.New(perrors.ErrCodeEmptyCatalog, "no modifications for this configuration")
		return next.kill(err), err
	}
	next.Phase = PhaseComplete
	next.State = nil
	next.Common = mods.Common
	next.Modifications = mods.Specific
	r.logger.Debug("configuration resolved", "session", next.ID, "modifications", len(mods.Specific))
	return next, nil
}

func checkLive(s *Session) error {
	if s == nil {
		return perrors.New(perrors.ErrCodeInvalidInput, "nil session")
	}
	if s.Phase == PhaseDead {
		return perrors.Wrap(perrors.ErrCodeResolutionFailed, s.Failure, "session %s is dead", s.ID)
	}
	return nil
}

func stepFailed(err error, format string, args ...any) error {
	return perrors.Wrap(perrors.ErrCodeStepFailed, err, format, args...)
}
