package wizard

import (
	"slices"

	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// Phase is the position of a session in the resolution state machine.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseNarrowing
	PhaseComplete
	PhaseDead
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseNarrowing:
		return "narrowing"
	case PhaseComplete:
		return "complete"
	case PhaseDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Session is one resolution in progress. Resolver methods return a new
// Session rather than modifying the one passed in.
type Session struct {
	ID        string
	Brand     string
	BrandCode string
	Token     string // Continuation token of the last verified state
	Known     KnownValues
	Phase     Phase

	// State holds the wizard state while the session waits for a choice.
	State *autodoc.WizardState

	// Filled records the fields chosen by auto-fill, in order.
	Filled []Fill

	// Populated once Complete.
	Common        []autodoc.Attribute
	Modifications []autodoc.Modification

	// Failure is why the session died.
	Failure error
}

// Suspended reports whether the session waits for the caller to choose.
func (s *Session) Suspended() bool {
	return s.Phase == PhaseNarrowing && s.State != nil && len(s.State.Open()) > 0
}

// Choices returns the fields the caller may choose from.
func (s *Session) Choices() []autodoc.AttributeField {
	if s.State == nil {
		return nil
	}
	return s.State.Open()
}

func (s *Session) clone() *Session {
	c := *s
	// Clip so appends on the copy never write into the original's array.
	c.Filled = slices.Clip(s.Filled)
	return &c
}

func (s *Session) suspend(state *autodoc.WizardState) *Session {
	s.Phase = PhaseNarrowing
	s.State = state
	return s
}

func (s *Session) kill(err error) *Session {
	c := s.clone()
	c.Phase = PhaseDead
	c.State = nil
	c.Failure = err
	return c
}
