// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chai

// OutcomeKind tags the variant of an Outcome.
type OutcomeKind int

const (
	// KindSuccess means the service returned a reply.
	KindSuccess OutcomeKind = iota

	// KindTransientFailure means retries were exhausted on a retryable
	// condition (timeout, connection error, 429, 5xx).
	KindTransientFailure

	// KindFatalFailure means a non-retryable condition (auth rejection,
	// malformed request) was surfaced without retrying.
	KindFatalFailure
)

// String returns a human-readable name for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTransientFailure:
		return "transient failure"
	case KindFatalFailure:
		return "fatal failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of one conversation turn. Exactly one of Text
// or Err is meaningful, selected by Kind.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

// Success builds a successful outcome carrying the reply text.
func Success(text string) Outcome {
	return Outcome{Kind: KindSuccess, Text: text}
}

// TransientFailure builds an outcome for an exhausted retryable error.
func TransientFailure(err error) Outcome {
	return Outcome{Kind: KindTransientFailure, Err: err}
}

// FatalFailure builds an outcome for a non-retryable error.
func FatalFailure(err error) Outcome {
	return Outcome{Kind: KindFatalFailure, Err: err}
}

// OK reports whether the outcome carries a reply.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Retryable reports whether the failure was transient. The user can
// simply resend the same message.
func (o Outcome) Retryable() bool {
	return o.Kind == KindTransientFailure
}
