package report

import (
	"sort"
	"time"

	"github.com/pavelanni/reporter/internal/model"
)

// Attempt is a completed response paired with its parsed completion instant.
type Attempt struct {
	Response    model.StudentResponse
	CompletedAt time.Time
}

// Resolver produces the time-ordered, completed-only response history of a
// student. Results are memoized per student id for the resolver's lifetime.
// A Resolver is not safe for concurrent use; build one per report request.
type Resolver struct {
	responses []model.StudentResponse
	loc       *time.Location
	cache     map[string][]Attempt
}

// NewResolver creates a resolver over the given responses. A nil loc means UTC.
func NewResolver(responses []model.StudentResponse, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		responses: responses,
		loc:       loc,
		cache:     make(map[string][]Attempt),
	}
}

// CompletedResponses returns the student's completed responses sorted by
// completion time ascending. Equal instants keep input order. An unknown
// student yields an empty slice. Any unparseable completion time fails the
// whole history with a *TimestampError.
func (r *Resolver) CompletedResponses(studentID string) ([]Attempt, error) {
	if cached, ok := r.cache[studentID]; ok {
		return cached, nil
	}

	attempts := []Attempt{}
	for _, resp := range r.responses {
		if resp.Student.ID != studentID || !resp.IsCompleted() {
			continue
		}
		at, err := ParseTimestamp(resp.Completed, r.loc)
		if err != nil {
			return nil, &TimestampError{ResponseID: resp.ID, Value: resp.Completed, Err: err}
		}
		attempts = append(attempts, Attempt{Response: resp, CompletedAt: at})
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].CompletedAt.Before(attempts[j].CompletedAt)
	})

	r.cache[studentID] = attempts
	return attempts, nil
}

// FirstCompleted returns the oldest completed response.
func (r *Resolver) FirstCompleted(studentID string) (Attempt, error) {
	attempts, err := r.CompletedResponses(studentID)
	if err != nil {
		return Attempt{}, err
	}
	if len(attempts) == 0 {
		return Attempt{}, ErrNoCompletedResponses
	}
	return attempts[0], nil
}

// LastCompleted returns the most recent completed response.
func (r *Resolver) LastCompleted(studentID string) (Attempt, error) {
	attempts, err := r.CompletedResponses(studentID)
	if err != nil {
		return Attempt{}, err
	}
	if len(attempts) == 0 {
		return Attempt{}, ErrNoCompletedResponses
	}
	return attempts[len(attempts)-1], nil
}
