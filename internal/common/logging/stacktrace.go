package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const Stacktrace = "stacktrace"

// Unexported but considered part of the stable interface of pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStacktrace returns a new logrus.Entry obtained by adding error information and, if available, a stack trace
// as fields to the provided logrus.Entry.
func WithStacktrace(logger *logrus.Entry, err error) *logrus.Entry {
	logger = logger.WithError(err)
	stack := ExtractStack(err)
	if stack != nil {
		logger = logger.WithField(Stacktrace, stack)
	}
	return logger
}

// ExtractStack returns the deepest errors.StackTrace of the chain of err, which is the closest to where the error
// was created. Both Unwrap and Cause chains are followed. It returns nil when no stack trace is recorded.
func ExtractStack(err error) errors.StackTrace {
	var stack errors.StackTrace
	for err != nil {
		if tracer, ok := err.(stackTracer); ok {
			stack = tracer.StackTrace()
		}
		err = next(err)
	}
	return stack
}

func next(err error) error {
	if u := errors.Unwrap(err); u != nil {
		return u
	}
	if c, ok := err.(interface{ Cause() error }); ok {
		if cause := c.Cause(); cause != err {
			return cause
		}
	}
	return nil
}
