package domain

import "github.com/google/uuid"

// TaskID is the immutable identifier of a task aggregate.
type TaskID struct {
	value string
}

// NewTaskID generates a random TaskID.
func NewTaskID() TaskID {
	return TaskID{value: uuid.NewString()}
}

// ParseTaskID validates a textual id and returns the TaskID it denotes.
func ParseTaskID(value string) (TaskID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return TaskID{}, ErrInvalidTaskID
	}
	return TaskID{value: id.String()}, nil
}

func (id TaskID) String() string {
	return id.value
}

// Equals reports whether two ids denote the same aggregate.
func (id TaskID) Equals(other TaskID) bool {
	return id.value == other.value
}
