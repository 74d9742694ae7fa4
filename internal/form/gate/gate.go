// Package gate interposes an SMS verification step between "form valid" and
// "data persisted" for the advisory workflow. The visit is only written once
// the beneficiary confirms the challenge code sent to their phone.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// State is the gate's position in the two-phase submission.
type State int

const (
	// StateFormValid: the visit passed validation, no challenge issued yet.
	StateFormValid State = iota
	// StateChallengeSent: a code is out; edits are blocked, codes may be tried.
	StateChallengeSent
	// StateChallengeAccepted: the code matched but persisting failed; the save
	// may be retried without a new code.
	StateChallengeAccepted
	// StatePersisted: the visit was saved; the gate is spent.
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StateFormValid:
		return "form_valid"
	case StateChallengeSent:
		return "challenge_sent"
	case StateChallengeAccepted:
		return "challenge_accepted"
	case StatePersisted:
		return "persisted"
	}
	return "unknown"
}

var (
	// ErrChallengeRejected: wrong code, another attempt is allowed.
	ErrChallengeRejected = errors.New("código incorrecto")
	// ErrTooManyAttempts: the retry budget is spent; the pending data is discarded.
	ErrTooManyAttempts = errors.New("demasiados intentos de verificación")
	// ErrChallengePending rejects a second Begin while a code is out.
	ErrChallengePending = errors.New("ya hay una verificación en curso")
	// ErrNotPending: SubmitCode/Cancel with no challenge outstanding.
	ErrNotPending = errors.New("no hay una verificación pendiente")
	// ErrPersisted: the gate already completed.
	ErrPersisted = errors.New("la visita ya fue guardada")
)

// Challenger is the external SMS collaborator.
type Challenger interface {
	Request(ctx context.Context, beneficiaryID string) error
	Verify(ctx context.Context, beneficiaryID, code string) (bool, error)
}

// DefaultMaxAttempts bounds code guessing; the retry count is deliberate,
// the original channel imposed none.
const DefaultMaxAttempts = 5

// Gate runs the challenge round-trip for one pending visit. One gate is
// shared by every request touching the same beneficiary, so all state
// transitions are serialized under mu; concurrent SubmitCode calls cannot
// both observe ChallengeSent and persist the staged visit twice.
type Gate struct {
	challenger Challenger

	mu            sync.Mutex
	beneficiaryID string
	maxAttempts   int
	attempts      int
	state         State
}

func New(ch Challenger, maxAttempts int) *Gate {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Gate{challenger: ch, maxAttempts: maxAttempts, state: StateFormValid}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Attempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts
}

// AttemptsLeft is how many code entries remain before lockout.
func (g *Gate) AttemptsLeft() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxAttempts - g.attempts
}

// Begin issues the challenge code. On send failure the gate stays in
// FormValid so the submission can be retried by the user.
func (g *Gate) Begin(ctx context.Context, beneficiaryID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.state {
	case StateChallengeSent, StateChallengeAccepted:
		return ErrChallengePending
	case StatePersisted:
		return ErrPersisted
	}
	if err := g.challenger.Request(ctx, beneficiaryID); err != nil {
		return fmt.Errorf("enviando código de verificación: %w", err)
	}
	g.beneficiaryID = beneficiaryID
	g.attempts = 0
	g.state = StateChallengeSent
	return nil
}

// SubmitCode verifies the entered code and, once accepted, persists. A wrong
// code keeps the gate in ChallengeSent (the code is not re-requested) until
// the attempt budget runs out. A persist failure after acceptance moves to
// ChallengeAccepted: the code is single-use for unlocking the save, so a
// retried SubmitCode skips verification and only retries the save.
func (g *Gate) SubmitCode(ctx context.Context, code string, persist func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.state {
	case StateFormValid:
		return ErrNotPending
	case StatePersisted:
		return ErrPersisted
	case StateChallengeSent:
		ok, err := g.challenger.Verify(ctx, g.beneficiaryID, code)
		if err != nil {
			// Collaborator failure: back to FormValid, the whole
			// submission must be re-initiated.
			g.state = StateFormValid
			return fmt.Errorf("validando código: %w", err)
		}
		if !ok {
			g.attempts++
			if g.attempts >= g.maxAttempts {
				g.state = StateFormValid
				return ErrTooManyAttempts
			}
			return ErrChallengeRejected
		}
		g.state = StateChallengeAccepted
	}

	if err := persist(ctx); err != nil {
		// Stay accepted: no new code is issued for a save failure.
		return fmt.Errorf("guardando la visita: %w", err)
	}
	g.state = StatePersisted
	return nil
}

// Cancel discards the pending submission at any point before persistence.
func (g *Gate) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.state {
	case StatePersisted:
		return ErrPersisted
	case StateFormValid:
		return ErrNotPending
	}
	g.state = StateFormValid
	g.attempts = 0
	return nil
}
