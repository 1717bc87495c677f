package contract

type ErrorCode string

const (
	ErrMissingID     ErrorCode = "MISSING_ID"
	ErrInvalidRange  ErrorCode = "INVALID_RANGE"
	ErrInvalidScroll ErrorCode = "INVALID_SCROLL"
)

// RequestError reports a request the services refuse before touching
// storage.
type RequestError struct {
	Code    ErrorCode
	Message string
}

func (e *RequestError) Error() string {
	return string(e.Code) + ": " + e.Message
}
