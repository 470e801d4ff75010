// Package log provides slog loggers that mask API keys and other
// credentials before they reach log output.
//
// LinkWeave handles provider API keys on every embedding request. The
// SecureHandler masks them whether they appear as attribute values,
// inside error messages, or as a "key=" URL parameter:
//
//	logger := log.NewSecureLogger(os.Stderr, true)
//	logger.Debug("embedding request", "api_key", key) // api_key=***REDACTED***
//	slog.SetDefault(logger)
package log
