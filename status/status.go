// Package status implements the typed result/error values used across every
// package in this module: a small Code enum plus a message and optional
// context, in place of bare errors or panics. No package in this module
// panics as part of normal control flow.
package status

import (
	"fmt"
	"sort"
)

// Code classifies the kind of failure a Status carries.
type Code int

const (
	Ok Code = iota
	InvalidArgument
	NotFound
	FailedPrecondition
	PermissionDenied
	Internal
	Unknown
	Unimplemented
	// MemoryLimitExceeded and MaxDiffExceeded are LCS-engine-specific
	// resource-bound sentinels (spec §4.1's "error policy").
	MemoryLimitExceeded
	MaxDiffExceeded
)

func (c Code) String() string {
	switch c {
	case Ok:
		return "OK"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case NotFound:
		return "NOT_FOUND"
	case FailedPrecondition:
		return "FAILED_PRECONDITION"
	case PermissionDenied:
		return "PERMISSION_DENIED"
	case Internal:
		return "INTERNAL"
	case Unknown:
		return "UNKNOWN"
	case Unimplemented:
		return "UNIMPLEMENTED"
	case MemoryLimitExceeded:
		return "MEMORY_LIMIT_EXCEEDED"
	case MaxDiffExceeded:
		return "MAX_DIFF_EXCEEDED"
	default:
		return fmt.Sprintf("CODE(%d)", int(c))
	}
}

// Status is a structured, typed failure carrying a code, a human-readable
// message, and optional key/value context (file, line, offending keyword,
// ...). A nil *Status and a Status whose Code is Ok both mean success;
// OK() reports true for either.
type Status struct {
	Code    Code
	Message string
	Context map[string]any
}

// Error implements the error interface so a *Status can be returned and
// compared anywhere a plain error is expected.
func (s *Status) Error() string {
	if s == nil {
		return "OK"
	}
	if len(s.Context) == 0 {
		return fmt.Sprintf("%s: %s", s.Code, s.Message)
	}
	keys := make([]string, 0, len(s.Context))
	for k := range s.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := fmt.Sprintf("%s: %s", s.Code, s.Message)
	for _, k := range keys {
		msg += fmt.Sprintf(" [%s=%v]", k, s.Context[k])
	}
	return msg
}

// OK reports whether s represents success (nil or Code==Ok).
func (s *Status) OK() bool {
	return s == nil || s.Code == Ok
}

func New(code Code, format string, args ...any) *Status {
	return &Status{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (s *Status) WithContext(key string, value any) *Status {
	if s == nil {
		return nil
	}
	if s.Context == nil {
		s.Context = make(map[string]any)
	}
	s.Context[key] = value
	return s
}

func InvalidArgumentf(format string, args ...any) *Status {
	return New(InvalidArgument, format, args...)
}

func NotFoundf(format string, args ...any) *Status {
	return New(NotFound, format, args...)
}

func FailedPreconditionf(format string, args ...any) *Status {
	return New(FailedPrecondition, format, args...)
}

func Unknownf(format string, args ...any) *Status {
	return New(Unknown, format, args...)
}

func Internalf(format string, args ...any) *Status {
	return New(Internal, format, args...)
}

func Unimplementedf(format string, args ...any) *Status {
	return New(Unimplemented, format, args...)
}
