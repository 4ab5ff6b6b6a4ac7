package goom

import "fmt"

// BufferState is the lifecycle state of a transform buffer within one
// production pass. The states cycle in declaration order.
type BufferState uint8

const (
	// AtStart means no pass has been requested. The buffer contents are
	// stale and the zoom function may be reconfigured.
	AtStart BufferState = iota
	// InProgress means the worker owns the buffer and is filling it.
	InProgress
	// AtEnd means the pass is complete and the buffer may be read.
	AtEnd
	// HasBeenCopied means the consumer has taken the buffer. This is the
	// safe point for committing new settings.
	HasBeenCopied
)

var bufferStateNames = [...]string{
	AtStart:       "AT_START",
	InProgress:    "IN_PROGRESS",
	AtEnd:         "AT_END",
	HasBeenCopied: "HAS_BEEN_COPIED",
}

// String returns the state name.
func (s BufferState) String() string {
	if int(s) < len(bufferStateNames) {
		return bufferStateNames[s]
	}
	return fmt.Sprintf("BufferState(%d)", uint8(s))
}
