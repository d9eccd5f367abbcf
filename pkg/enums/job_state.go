package enums

import "fmt"

// JobState tracks the workflow of a production job.
type JobState string

const (
	JobStateDraft     JobState = "draft"
	JobStateConfirmed JobState = "confirmed"
	JobStateDone      JobState = "done"
	JobStateCancelled JobState = "cancelled"
)

var validJobStates = []JobState{
	JobStateDraft,
	JobStateConfirmed,
	JobStateDone,
	JobStateCancelled,
}

// jobStateTransitions lists the allowed successor states per state.
var jobStateTransitions = map[JobState][]JobState{
	JobStateDraft:     {JobStateConfirmed, JobStateCancelled},
	JobStateConfirmed: {JobStateDone, JobStateCancelled},
	JobStateDone:      {},
	JobStateCancelled: {},
}

// String implements fmt.Stringer.
func (j JobState) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JobState.
func (j JobState) IsValid() bool {
	for _, candidate := range validJobStates {
		if candidate == j {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving to next.
func (j JobState) CanTransitionTo(next JobState) bool {
	for _, candidate := range jobStateTransitions[j] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseJobState converts raw input into a JobState.
func ParseJobState(value string) (JobState, error) {
	for _, candidate := range validJobStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job state %q", value)
}
