package schema

// ErrorCode categorizes build errors.
type ErrorCode string

const (
    // InvalidField marks a structurally invalid field descriptor.
    InvalidField ErrorCode = "InvalidField"
    // FieldBuild wraps any failure while building a field, naming the field.
    FieldBuild ErrorCode = "FieldBuild"
)

// Error is a structured build error naming the owning type and field.
type Error struct {
    Code    ErrorCode
    Message string
    Type    string
    Field   string
    Cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }

// Is matches sentinel errors by code.
func (e *Error) Is(target error) bool {
    t, ok := target.(*Error)
    if !ok || t.Message != "" {
        return false
    }
    return t.Code == e.Code
}

var (
    ErrInvalidField = &Error{Code: InvalidField}
    ErrFieldBuild   = &Error{Code: FieldBuild}
)
