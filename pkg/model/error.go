package model

import (
	"encoding/json"
	"strings"
)

// Error is an error message that survives a trip through an event log. The
// zero value means "no error".
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Error())
}

func (e *Error) UnmarshalJSON(b []byte) error {
	var str string
	err := json.Unmarshal(b, &str)
	if err != nil {
		// CSV readers turn numeric looking cells into numbers, keep the text.
		*e = Error{strings.TrimSpace(string(b))}
		return nil
	}
	*e = Error{str}
	return nil
}

// ToError converts an error into its event log form.
func ToError(err error) Error {
	if err == nil {
		return Error{}
	}
	return Error{Message: err.Error()}
}
