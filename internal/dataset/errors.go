package dataset

import "fmt"

// MalformedDatasetError indicates a document that does not match the expected
// feature collection structure. Index is the offending feature, or -1 when the
// document itself is at fault.
type MalformedDatasetError struct {
	Err    error
	Reason string
	Index  int
}

func (e *MalformedDatasetError) Error() string {
	msg := "malformed dataset"
	if e.Index >= 0 {
		msg += fmt.Sprintf(": feature %d", e.Index)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDatasetError) Unwrap() error {
	return e.Err
}

func documentError(reason string, err error) error {
	return &MalformedDatasetError{Index: -1, Reason: reason, Err: err}
}

func featureError(index int, reason string, err error) error {
	return &MalformedDatasetError{Index: index, Reason: reason, Err: err}
}
