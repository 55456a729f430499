package filter

// ConfigurationError reports a malformed rule source: duplicate rule names,
// an unparseable clause, or an invalid pattern. It is fatal and raised
// before any discovery work begins.
type ConfigurationError struct {
	Msg string
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return "invalid rule configuration: " + e.Msg + ": " + e.Err.Error()
	}
	return "invalid rule configuration: " + e.Msg
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
