package docs

// ErrorCode categorizes document build errors.
type ErrorCode string

const (
    UnrecognizedControllerKind ErrorCode = "UnrecognizedControllerKind"
    UnknownParameterLocation   ErrorCode = "UnknownParameterLocation"
    MissingHandler             ErrorCode = "MissingHandler"
    InvalidParameter           ErrorCode = "InvalidParameter"
    ConversionFailed           ErrorCode = "ConversionFailed"
)

// Error is a structured build error. A build that returns one produced no
// document.
type Error struct {
    Code    ErrorCode
    Message string
    Cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }

// Is matches the sentinel of the same code.
func (e *Error) Is(target error) bool {
    t, ok := target.(*Error)
    if !ok || t.Message != "" {
        return false
    }
    return t.Code == e.Code
}

var (
    ErrUnrecognizedControllerKind = &Error{Code: UnrecognizedControllerKind}
    ErrUnknownParameterLocation   = &Error{Code: UnknownParameterLocation}
    ErrMissingHandler             = &Error{Code: MissingHandler}
    ErrInvalidParameter           = &Error{Code: InvalidParameter}
    ErrConversionFailed           = &Error{Code: ConversionFailed}
)
