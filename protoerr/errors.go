// Package protoerr defines the typed, sentinel-wrapped error values the
// streaming pipeline returns. There is no logging here and no panics (stage
// reports even a caller bug, CanvasFor on a non-Clear layer, as a returned
// error); every recoverable condition is a value a caller can inspect with
// errors.Is or errors.As.
package protoerr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of protocol failure. Every kind is fatal to the
// current stream session; "need more data" is not a Kind but the separate
// ErrNeedMoreData sentinel.
type Kind int

const (
	// KindBadFrame means the end marker was absent or mismatched, or a layer
	// block carried an unknown frame type.
	KindBadFrame Kind = iota
	// KindUnknownOp means an operation byte outside the known op table was seen.
	KindUnknownOp
	// KindUnknownProp means a SetContext property byte outside the known
	// property table was seen.
	KindUnknownProp
	// KindLayerID means a layer id at or above the configured MaxLayers (16
	// by default) was decoded.
	KindLayerID
	// KindBadRemain means Remain targeted a layer id absent from prev_frame.
	KindBadRemain
	// KindOverflow means a varint's value would not fit the target width.
	KindOverflow
	// KindResourceExhausted means a resource limit was hit: the layer pool's
	// cap, a polygon's point limit, a text's byte limit, or a session's
	// receive buffer.
	KindResourceExhausted
)

func (k Kind) String() string {
	switch k {
	case KindBadFrame:
		return "BadFrame"
	case KindUnknownOp:
		return "UnknownOp"
	case KindUnknownProp:
		return "UnknownProp"
	case KindLayerID:
		return "LayerId"
	case KindBadRemain:
		return "BadRemain"
	case KindOverflow:
		return "Overflow"
	case KindResourceExhausted:
		return "ResourceExhausted"
	default:
		return "Unknown"
	}
}

// ProtocolError is the error type every fatal decode/session failure is
// wrapped in. Two ProtocolErrors compare equal under errors.Is when their
// Kind matches, regardless of Detail, so callers can match on e.g.
// errors.Is(err, protoerr.BadFrame).
type ProtocolError struct {
	Kind   Kind
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("protocol error: %s", e.Kind)
	}
	return fmt.Sprintf("protocol error: %s: %s", e.Kind, e.Detail)
}

func (e *ProtocolError) Is(target error) bool {
	other, ok := target.(*ProtocolError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New builds a ProtocolError of the given kind with a formatted detail.
func New(kind Kind, format string, args ...any) *ProtocolError {
	return &ProtocolError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Sentinels usable with errors.Is without allocating a Detail string.
var (
	BadFrame          = &ProtocolError{Kind: KindBadFrame}
	UnknownOp         = &ProtocolError{Kind: KindUnknownOp}
	UnknownProp       = &ProtocolError{Kind: KindUnknownProp}
	LayerID           = &ProtocolError{Kind: KindLayerID}
	BadRemain         = &ProtocolError{Kind: KindBadRemain}
	Overflow          = &ProtocolError{Kind: KindOverflow}
	ResourceExhausted = &ProtocolError{Kind: KindResourceExhausted}
)

// ErrNeedMoreData is not an error condition: it signals the decoder should
// be retried once more bytes have arrived. It carries no state and is
// always returned via errors.Is-compatible identity comparison.
var ErrNeedMoreData = errors.New("stream: need more data")
