package keyword

import (
	"encoding/binary"
	"fmt"

	"github.com/chalametpir/chalametpir-go/frodopir"
	"github.com/chalametpir/chalametpir-go/ring"
)

// QueryMessage is the keyword-mode query wire message of spec §6:
// session_id (u128) || mode (u8: 1=kw) || three m*u32 LE vectors
// concatenated.
type QueryMessage struct {
	SessionID [16]byte
	Queries   [3][]ring.Elem
}

// MarshalBinary encodes m per spec §6.
func (m QueryMessage) MarshalBinary() ([]byte, error) {
	total := 16 + 1
	for _, q := range m.Queries {
		total += len(q) * 4
	}
	buf := make([]byte, total)
	copy(buf, m.SessionID[:])
	buf[16] = frodopir.ModeKeyword

	off := 17
	for _, q := range m.Queries {
		for _, v := range q {
			binary.LittleEndian.PutUint32(buf[off:], v)
			off += 4
		}
	}
	return buf, nil
}

// UnmarshalBinary decodes a keyword-mode QueryMessage. vectorLen is the
// number of u32 elements per vector (the filter's m), required to split
// the concatenated body into three equal vectors.
func (m *QueryMessage) UnmarshalBinary(data []byte, vectorLen int) error {
	if len(data) < 17 {
		return fmt.Errorf("keyword: QueryMessage.UnmarshalBinary: too short")
	}
	copy(m.SessionID[:], data[:16])
	if data[16] != frodopir.ModeKeyword {
		return fmt.Errorf("keyword: QueryMessage.UnmarshalBinary: mode %d is not keyword mode", data[16])
	}

	rest := data[17:]
	want := vectorLen * 4 * 3
	if len(rest) != want {
		return fmt.Errorf("%w: keyword query body is %d bytes, want %d", frodopir.ErrDimensionMismatch, len(rest), want)
	}

	for i := 0; i < 3; i++ {
		vec := make([]ring.Elem, vectorLen)
		base := rest[i*vectorLen*4:]
		for j := range vec {
			vec[j] = binary.LittleEndian.Uint32(base[j*4:])
		}
		m.Queries[i] = vec
	}
	return nil
}

// ResponseMessage is the keyword-mode response wire message of spec §6:
// session_id (u128) || three w*u32 LE vectors concatenated.
type ResponseMessage struct {
	SessionID [16]byte
	Responses [3][]ring.Elem
}

// MarshalBinary encodes m per spec §6.
func (m ResponseMessage) MarshalBinary() ([]byte, error) {
	total := 16
	for _, r := range m.Responses {
		total += len(r) * 4
	}
	buf := make([]byte, total)
	copy(buf, m.SessionID[:])

	off := 16
	for _, r := range m.Responses {
		for _, v := range r {
			binary.LittleEndian.PutUint32(buf[off:], v)
			off += 4
		}
	}
	return buf, nil
}

// UnmarshalBinary decodes a ResponseMessage. vectorLen is the number of
// u32 elements per vector (params.W()).
func (m *ResponseMessage) UnmarshalBinary(data []byte, vectorLen int) error {
	if len(data) < 16 {
		return fmt.Errorf("keyword: ResponseMessage.UnmarshalBinary: too short")
	}
	copy(m.SessionID[:], data[:16])

	rest := data[16:]
	want := vectorLen * 4 * 3
	if len(rest) != want {
		return fmt.Errorf("%w: keyword response body is %d bytes, want %d", frodopir.ErrDimensionMismatch, len(rest), want)
	}

	for i := 0; i < 3; i++ {
		vec := make([]ring.Elem, vectorLen)
		base := rest[i*vectorLen*4:]
		for j := range vec {
			vec[j] = binary.LittleEndian.Uint32(base[j*4:])
		}
		m.Responses[i] = vec
	}
	return nil
}
