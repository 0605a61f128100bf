package frodopir

import (
	"encoding/binary"
	"fmt"

	"github.com/chalametpir/chalametpir-go/ring"
)

// ModeIndex and ModeKeyword are the two query-message modes of spec §6.
const (
	ModeIndex   uint8 = 0
	ModeKeyword uint8 = 1
)

// QueryMessage is the index-mode query wire message of spec §6:
// session_id (u128) || mode (u8: 0=idx) || q vector (m u32 LE).
type QueryMessage struct {
	SessionID [16]byte
	Query     []ring.Elem
}

// MarshalBinary encodes m per spec §6.
func (m QueryMessage) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 16+1+len(m.Query)*4)
	copy(buf, m.SessionID[:])
	buf[16] = ModeIndex
	for i, v := range m.Query {
		binary.LittleEndian.PutUint32(buf[17+i*4:], v)
	}
	return buf, nil
}

// UnmarshalBinary decodes an index-mode QueryMessage. Returns an error if
// the mode byte is not ModeIndex.
func (m *QueryMessage) UnmarshalBinary(data []byte) error {
	if len(data) < 17 {
		return fmt.Errorf("frodopir: QueryMessage.UnmarshalBinary: too short")
	}
	copy(m.SessionID[:], data[:16])
	if data[16] != ModeIndex {
		return fmt.Errorf("frodopir: QueryMessage.UnmarshalBinary: mode %d is not index mode", data[16])
	}
	rest := data[17:]
	if len(rest)%4 != 0 {
		return fmt.Errorf("%w: query body is not a whole number of u32 elements", ErrDimensionMismatch)
	}
	q := make([]ring.Elem, len(rest)/4)
	for i := range q {
		q[i] = binary.LittleEndian.Uint32(rest[i*4:])
	}
	m.Query = q
	return nil
}

// ResponseMessage is the response wire message of spec §6:
// session_id (u128) || r vector (w u32 LE).
type ResponseMessage struct {
	SessionID [16]byte
	Response  []ring.Elem
}

// MarshalBinary encodes m per spec §6.
func (m ResponseMessage) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 16+len(m.Response)*4)
	copy(buf, m.SessionID[:])
	for i, v := range m.Response {
		binary.LittleEndian.PutUint32(buf[16+i*4:], v)
	}
	return buf, nil
}

// UnmarshalBinary decodes a ResponseMessage.
func (m *ResponseMessage) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return fmt.Errorf("frodopir: ResponseMessage.UnmarshalBinary: too short")
	}
	copy(m.SessionID[:], data[:16])
	rest := data[16:]
	if len(rest)%4 != 0 {
		return fmt.Errorf("%w: response body is not a whole number of u32 elements", ErrDimensionMismatch)
	}
	r := make([]ring.Elem, len(rest)/4)
	for i := range r {
		r[i] = binary.LittleEndian.Uint32(rest[i*4:])
	}
	m.Response = r
	return nil
}
