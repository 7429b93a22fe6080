package dispatcher

// ConfigurationError reports a dispatcher that cannot be set up.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}
