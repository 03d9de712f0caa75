package diagnosis

import (
	"errors"
	"fmt"
)

// Validation failures. A transition that returns one of these leaves the
// session state untouched.
var (
	ErrInvalidWinner        = errors.New("winner is not one of the two participants")
	ErrSameCandidate        = errors.New("a battle needs two distinct candidates")
	ErrUnknownCandidate     = errors.New("candidate is not in the pool")
	ErrDuplicateCandidate   = errors.New("candidate id appears more than once")
	ErrNoCandidates         = errors.New("no candidate pool selected")
	ErrTournamentComplete   = errors.New("tournament already complete")
	ErrTournamentIncomplete = errors.New("tournament not complete")
	ErrInvalidRanking       = errors.New("ranking is not a permutation of the candidate pool")
	ErrInvalidKoreanLevel   = errors.New("unknown korean level")
	ErrInvalidRound         = errors.New("round out of range")
)

// TransitionError reports which action was rejected and why.
type TransitionError struct {
	Action ActionType
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Action, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

func reject(a ActionType, err error) error {
	return &TransitionError{Action: a, Err: err}
}
