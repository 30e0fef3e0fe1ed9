// Package proto names the wire-level byte codes and fixed sizes of the
// streaming protocol: frame types, draw operation codes, and SetContext
// property codes. It mirrors the size-table idiom of
// gioui.org/internal/ops' opProps array, adapted to this protocol's op set.
package proto

// FrameType is the per-layer frame_type byte.
type FrameType byte

const (
	Master FrameType = 0
	Clear  FrameType = 1
	Remain FrameType = 2
)

func (t FrameType) String() string {
	switch t {
	case Master:
		return "Master"
	case Clear:
		return "Clear"
	case Remain:
		return "Remain"
	default:
		return "Unknown"
	}
}

// OpCode identifies a draw/context operation inside a Master layer block.
type OpCode byte

const (
	OpSetContext     OpCode = 0x01
	OpSaveContext    OpCode = 0x02
	OpRestoreContext OpCode = 0x03
	OpResetContext   OpCode = 0x04
	OpDrawPolygon    OpCode = 0x10
	OpDrawText       OpCode = 0x11
	OpDrawCircle     OpCode = 0x12
	OpDrawRect       OpCode = 0x13
	OpDrawLine       OpCode = 0x14
)

// PropCode identifies a property inside a SetContext operation's payload.
type PropCode byte

const (
	PropStroke    PropCode = 0x01
	PropFill      PropCode = 0x02
	PropFontColor PropCode = 0x03
	PropThickness PropCode = 0x04
	PropFontSize  PropCode = 0x05
	PropOffset    PropCode = 0x06
	PropRotation  PropCode = 0x07
	PropScale     PropCode = 0x08
	PropSkew      PropCode = 0x09
	PropMatrix    PropCode = 0x0A
)

// EndMarker terminates every frame on the wire.
var EndMarker = [2]byte{0xFF, 0xFF}

// Fixed-width field sizes, in bytes, named the way
// gioui.org/internal/ops names its TypeXxxLen constants.
const (
	FrameIDLen     = 8
	LayerCountLen  = 1
	LayerIDLen     = 1
	FrameTypeLen   = 1
	ColorLen       = 4
	Float32Len     = 4
	MatrixLen      = 6 * Float32Len
	FrameHeaderLen = FrameIDLen + LayerCountLen
	LayerBlockLen  = LayerIDLen + FrameTypeLen
	EndMarkerLen   = 2

	// MinFrameLen is the smallest possible legal frame: header, zero
	// layers, end marker.
	MinFrameLen = FrameHeaderLen + EndMarkerLen
)

// DefaultMaxLayers is the protocol's default layer-id ceiling (exclusive).
const DefaultMaxLayers = 16

// DefaultSaveStackDepth is the default LayerContext save-stack capacity.
const DefaultSaveStackDepth = 16

// DefaultMaxPolygonPoints bounds DrawPolygon's point count.
const DefaultMaxPolygonPoints = 65536

// DefaultMaxTextBytes bounds DrawText's UTF-8 payload length.
const DefaultMaxTextBytes = 65536

// DefaultReceiveBufferBytes is an advisory upper bound on in-flight bytes a
// transport layer should hold; the decoder itself never allocates it.
const DefaultReceiveBufferBytes = 8 * 1024 * 1024

// DefaultLayerWidth and DefaultLayerHeight are the fallback fixed pixel
// dimensions a session rents every layer at, absent any
// config.WithLayerDimensions override.
const (
	DefaultLayerWidth  = 1280
	DefaultLayerHeight = 720
)
