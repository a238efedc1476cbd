package threshold

import "fmt"

// ExceededError is returned by a check when a value is above the limit.
type ExceededError struct {
	Value int
	Limit int
}

func (e ExceededError) Error() string {
	return fmt.Sprintf("Value %d is greater than %d", e.Value, e.Limit)
}

// Check returns a function that fails with an [ExceededError] for any value
// greater than limit.
func Check(limit int) func(int) error {
	return func(v int) error {
		if v > limit {
			return ExceededError{Value: v, Limit: limit}
		}
		return nil
	}
}
