package flatbuffers

import (
	"encoding/binary"
	"math"
)

// The Get/Write pairs below are the only place the wire byte order appears.
// They do not check lengths; Table does that before calling them.

// GetBool decodes a little-endian bool from a byte slice.
func GetBool(buf []byte) bool { return buf[0] == 1 }

// GetByte decodes a little-endian byte from a byte slice.
func GetByte(buf []byte) byte { return buf[0] }

// GetUint8 decodes a little-endian uint8 from a byte slice.
func GetUint8(buf []byte) uint8 { return buf[0] }

// GetInt8 decodes a little-endian int8 from a byte slice.
func GetInt8(buf []byte) int8 { return int8(buf[0]) }

// GetUint16 decodes a little-endian uint16 from a byte slice.
func GetUint16(buf []byte) uint16 { return binary.LittleEndian.Uint16(buf) }

// GetInt16 decodes a little-endian int16 from a byte slice.
func GetInt16(buf []byte) int16 { return int16(binary.LittleEndian.Uint16(buf)) }

// GetUint32 decodes a little-endian uint32 from a byte slice.
func GetUint32(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf) }

// GetInt32 decodes a little-endian int32 from a byte slice.
func GetInt32(buf []byte) int32 { return int32(binary.LittleEndian.Uint32(buf)) }

// GetUint64 decodes a little-endian uint64 from a byte slice.
func GetUint64(buf []byte) uint64 { return binary.LittleEndian.Uint64(buf) }

// GetInt64 decodes a little-endian int64 from a byte slice.
func GetInt64(buf []byte) int64 { return int64(binary.LittleEndian.Uint64(buf)) }

// GetFloat32 decodes a little-endian float32 from a byte slice.
func GetFloat32(buf []byte) float32 { return math.Float32frombits(GetUint32(buf)) }

// GetFloat64 decodes a little-endian float64 from a byte slice.
func GetFloat64(buf []byte) float64 { return math.Float64frombits(GetUint64(buf)) }

// GetUOffsetT decodes a little-endian UOffsetT from a byte slice.
func GetUOffsetT(buf []byte) UOffsetT { return UOffsetT(GetUint32(buf)) }

// GetSOffsetT decodes a little-endian SOffsetT from a byte slice.
func GetSOffsetT(buf []byte) SOffsetT { return SOffsetT(GetInt32(buf)) }

// GetVOffsetT decodes a little-endian VOffsetT from a byte slice.
func GetVOffsetT(buf []byte) VOffsetT { return VOffsetT(GetUint16(buf)) }

// WriteBool encodes a little-endian bool into a byte slice.
func WriteBool(buf []byte, b bool) {
	buf[0] = 0
	if b {
		buf[0] = 1
	}
}

// WriteByte encodes a little-endian byte into a byte slice.
func WriteByte(buf []byte, n byte) { buf[0] = n }

// WriteUint8 encodes a little-endian uint8 into a byte slice.
func WriteUint8(buf []byte, n uint8) { buf[0] = n }

// WriteInt8 encodes a little-endian int8 into a byte slice.
func WriteInt8(buf []byte, n int8) { buf[0] = byte(n) }

// WriteUint16 encodes a little-endian uint16 into a byte slice.
func WriteUint16(buf []byte, n uint16) { binary.LittleEndian.PutUint16(buf, n) }

// WriteInt16 encodes a little-endian int16 into a byte slice.
func WriteInt16(buf []byte, n int16) { binary.LittleEndian.PutUint16(buf, uint16(n)) }

// WriteUint32 encodes a little-endian uint32 into a byte slice.
func WriteUint32(buf []byte, n uint32) { binary.LittleEndian.PutUint32(buf, n) }

// WriteInt32 encodes a little-endian int32 into a byte slice.
func WriteInt32(buf []byte, n int32) { binary.LittleEndian.PutUint32(buf, uint32(n)) }

// WriteUint64 encodes a little-endian uint64 into a byte slice.
func WriteUint64(buf []byte, n uint64) { binary.LittleEndian.PutUint64(buf, n) }

// WriteInt64 encodes a little-endian int64 into a byte slice.
func WriteInt64(buf []byte, n int64) { binary.LittleEndian.PutUint64(buf, uint64(n)) }

// WriteFloat32 encodes a little-endian float32 into a byte slice.
func WriteFloat32(buf []byte, n float32) { WriteUint32(buf, math.Float32bits(n)) }

// WriteFloat64 encodes a little-endian float64 into a byte slice.
func WriteFloat64(buf []byte, n float64) { WriteUint64(buf, math.Float64bits(n)) }

// WriteUOffsetT encodes a little-endian UOffsetT into a byte slice.
func WriteUOffsetT(buf []byte, n UOffsetT) { WriteUint32(buf, uint32(n)) }

// WriteSOffsetT encodes a little-endian SOffsetT into a byte slice.
func WriteSOffsetT(buf []byte, n SOffsetT) { WriteInt32(buf, int32(n)) }

// WriteVOffsetT encodes a little-endian VOffsetT into a byte slice.
func WriteVOffsetT(buf []byte, n VOffsetT) { WriteUint16(buf, uint16(n)) }
