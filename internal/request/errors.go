package request

// MalformedRequestError reports a request that cannot be turned into an event.
type MalformedRequestError struct {
	Reason string
	Err    error
}

func (e *MalformedRequestError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *MalformedRequestError) Unwrap() error {
	return e.Err
}
