package msgchan

import (
	"errors"
	"fmt"
)

// Result-kind sentinels. Operations return these (possibly wrapped);
// test for them with [errors.Is].
var (
	// ErrClosed is returned by every operation on a closed channel, and by
	// a second [Channel.Close].
	ErrClosed = errors.New("msgchan: channel is closed")

	// ErrFull is returned by [Channel.TrySend] when the value cannot be
	// accepted without blocking.
	ErrFull = errors.New("msgchan: channel is full")

	// ErrEmpty is returned by [Channel.TryReceive] when no value is
	// available without blocking.
	ErrEmpty = errors.New("msgchan: channel is empty")

	// ErrDestroy is returned by [Channel.Destroy] on a channel that has not
	// been closed. The channel stays usable.
	ErrDestroy = errors.New("msgchan: destroy called on open channel")

	// ErrGeneric is the root of every failure that is neither a close nor a
	// capacity condition.
	ErrGeneric = errors.New("msgchan: internal error")

	// ErrNotReady is returned by [TrySelect] when no case can proceed.
	ErrNotReady = errors.New("msgchan: no select case ready")
)

// Generic failures. Each wraps [ErrGeneric].
var (
	ErrNilChannel = fmt.Errorf("%w: nil channel", ErrGeneric)
	ErrDestroyed  = fmt.Errorf("%w: channel destroyed", ErrGeneric)
	ErrNoCases    = fmt.Errorf("%w: select with no cases", ErrGeneric)
	ErrNilCase    = fmt.Errorf("%w: nil select case", ErrGeneric)
)

// SelectError attributes a [Select] failure to the case that produced it.
type SelectError struct {
	Index int
	Dir   Dir
	Err   error
}

func (e *SelectError) Error() string {
	return fmt.Sprintf("select case %d (%s) failed: %v", e.Index, e.Dir, e.Err)
}

func (e *SelectError) Unwrap() error {
	return e.Err
}

// IsSelectError reports whether err (or any error in its chain) is a
// [*SelectError].
func IsSelectError(err error) bool {
	if err == nil {
		return false
	}
	var se *SelectError
	return errors.As(err, &se)
}

// IndexOf returns the case index carried by the first [*SelectError] in
// err's chain.
func IndexOf(err error) (int, bool) {
	if err == nil {
		return -1, false
	}
	var se *SelectError
	if errors.As(err, &se) {
		return se.Index, true
	}
	return -1, false
}

// CauseOf unwraps the first [*SelectError] in err's chain and returns its
// underlying cause. Other errors are returned as-is.
func CauseOf(err error) error {
	if err == nil {
		return nil
	}
	var se *SelectError
	if errors.As(err, &se) {
		return se.Err
	}
	return err
}

// Status is the result kind of a channel operation.
type Status int

const (
	Success Status = iota
	ClosedError
	Full
	Empty
	DestroyError
	NotReady
	GenError
)

var statusNames = [...]string{
	Success:      "success",
	ClosedError:  "closed",
	Full:         "full",
	Empty:        "empty",
	DestroyError: "destroy",
	NotReady:     "not-ready",
	GenError:     "generic",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// StatusOf classifies an error returned by this package.
// Unknown non-nil errors are [GenError].
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrClosed):
		return ClosedError
	case errors.Is(err, ErrFull):
		return Full
	case errors.Is(err, ErrEmpty):
		return Empty
	case errors.Is(err, ErrDestroy):
		return DestroyError
	case errors.Is(err, ErrNotReady):
		return NotReady
	default:
		return GenError
	}
}
