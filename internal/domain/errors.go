package domain

// Validation messages shared across models and handlers.
const (
	MsgBlank        = "can't be blank"
	MsgTaken        = "has already been taken"
	MsgMustExist    = "must exist"
	MsgBorrowed     = "is already borrowed"
	MsgLoanClosed   = "borrowing is already closed"
	MsgRatingRange  = "must be between 1 and 5"
	MsgInvalidRole  = "is not included in the list"
	MsgPasswordSize = "is too short (minimum is 6 characters)"
)

// Errors collects field-attributed validation messages, rendered as the
// body of a 422 response.
type Errors map[string][]string

// Add appends a message for the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether at least one message was collected.
func (e Errors) Any() bool {
	return len(e) > 0
}
