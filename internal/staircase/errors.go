package staircase

import "errors"

// ErrBadConfig reports a malformed test definition: an empty or non-contiguous
// level table, an empty stimulus alphabet, or pass constants that can never be
// met. It is returned at session construction and is fatal to the attempt.
var ErrBadConfig = errors.New("staircase: invalid configuration")

// ErrInvalidState reports a call the session's state does not allow:
// submitting a response to a terminated session, or finalizing one that is
// still running. It indicates a caller bug, typically a stray input event
// reaching the session after termination; callers should drop the input
// rather than crash.
var ErrInvalidState = errors.New("staircase: invalid session state")
