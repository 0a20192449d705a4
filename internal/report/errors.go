package report

import (
	"errors"
	"fmt"
)

var (
	// ErrStudentNotFound is returned when the student id has no record.
	ErrStudentNotFound = errors.New("student not found")
	// ErrAssessmentNotFound is returned when a response references an unknown assessment.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrQuestionNotFound is returned when an answer references an unknown question.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoCompletedResponses is returned when the student has no completed response.
	ErrNoCompletedResponses = errors.New("no completed responses")
	// ErrMalformedTimestamp is matched by every *TimestampError.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrUnknownKind is returned for a report kind other than 1, 2 or 3.
	ErrUnknownKind = errors.New("unknown report kind")
)

// TimestampError names the response whose completion time could not be parsed.
type TimestampError struct {
	ResponseID string
	Value      string
	Err        error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("response %s: malformed completed timestamp %q", e.ResponseID, e.Value)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedTimestamp) hold for any TimestampError.
func (e *TimestampError) Is(target error) bool {
	return target == ErrMalformedTimestamp
}
