package models

import "errors"

var (
	// ErrEmptyResume and ErrEmptyJobDescription are returned before any
	// network call is made.
	ErrEmptyResume         = errors.New("resume text is empty")
	ErrEmptyJobDescription = errors.New("job description is empty")

	// ErrInputTooLarge means the combined resume and job description exceed
	// the configured input limit.
	ErrInputTooLarge = errors.New("combined input exceeds the model input limit")

	// ErrUpstreamUnavailable wraps network, auth and rate-limit failures
	// from the model provider.
	ErrUpstreamUnavailable = errors.New("model provider unavailable")

	// ErrParseAmbiguous means the model reply carried no recognizable match
	// score. The evaluation result is still returned with the raw reply.
	ErrParseAmbiguous = errors.New("no recognizable score in model reply")
)
