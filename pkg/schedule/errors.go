package schedule

import "errors"

var (
	// ErrSubjectNotFound means no anchor text for the requested group or teacher exists in the document
	ErrSubjectNotFound = errors.New("subject not found in document")
	// ErrTableNotFound means anchors matched but none of them led to a table
	ErrTableNotFound = errors.New("no timetable found for subject")
	// ErrMalformedTable means a matched table has fewer than two rows
	ErrMalformedTable = errors.New("malformed timetable")
)
