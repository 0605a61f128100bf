// Package frodopir implements the lattice-based index-PIR engine: the
// FrodoPIR construction of a public LWE matrix A, a per-database hint
// M = A^T.D, and the client query/parse and server response operations
// built on it.
package frodopir

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/chalametpir/chalametpir-go/ring"
	"github.com/google/go-cmp/cmp"
)

// ErrInvalidParams is returned when a ParametersLiteral fails validation.
var ErrInvalidParams = errors.New("frodopir: invalid params")

// ParametersLiteral is the unchecked, JSON-serializable configuration
// shape recognized by the core (spec §6's "Configuration"): m = 1 <<
// NumElementsExp, n = LWEDimension, w = ceil(ElementSizeBits/PlaintextBits).
type ParametersLiteral struct {
	NumElementsExp  uint8  `json:"number_of_elements_exp"`
	LWEDimension    uint16 `json:"lwe_dimension"`
	ElementSizeBits uint32 `json:"element_size_bits"`
	PlaintextBits   uint8  `json:"plaintext_bits"`
	NumShards       uint16 `json:"num_shards"`
}

// Parameters is the validated, public parameter set shared verbatim
// between server and client (spec §6's "Public parameter blob"). Its
// fields are private; callers read them through accessors so a client
// cannot construct an internally-inconsistent instance by hand.
type Parameters struct {
	m             uint64
	n             uint64
	w             uint64
	plaintextBits uint8
	elemSizeBits  uint32
	numShards     uint16
	aSeed         [32]byte
	hint          *ring.Matrix // n x w, nil until Setup runs
}

// NewParametersFromLiteral validates lit and returns a Parameters with M
// and A_seed left unset; Setup fills them in. Returns ErrInvalidParams,
// wrapped with the offending field, if plaintextBits is outside [1,16] or
// m/n would be zero (spec §7). m is always a power of two here
// (1 << NumElementsExp); index mode always uses this constructor.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {
	m := uint64(1) << lit.NumElementsExp
	return newParameters(m, uint64(lit.LWEDimension), uint64(lit.ElementSizeBits), lit.PlaintextBits, lit.NumShards)
}

// NewParametersForDimensions builds a Parameters directly from explicit
// dimensions rather than NumElementsExp's power-of-two m. Keyword mode
// needs this: the Binary Fuse Filter's slot count
// (segment_count_len + 2*segment_len, spec §3) is not generally a power
// of two, so it cannot be expressed as 1 << NumElementsExp.
func NewParametersForDimensions(m, n uint64, elemSizeBits uint32, plaintextBits uint8, numShards uint16) (Parameters, error) {
	return newParameters(m, n, uint64(elemSizeBits), plaintextBits, numShards)
}

func newParameters(m, n, elemSizeBits uint64, plaintextBits uint8, numShards uint16) (Parameters, error) {
	if plaintextBits < 1 || plaintextBits > 16 {
		return Parameters{}, fmt.Errorf("%w: plaintext_bits %d outside [1,16]", ErrInvalidParams, plaintextBits)
	}
	if m == 0 {
		return Parameters{}, fmt.Errorf("%w: m is zero", ErrInvalidParams)
	}
	if n == 0 {
		return Parameters{}, fmt.Errorf("%w: lwe_dimension is zero", ErrInvalidParams)
	}
	w := elemSizeBits / uint64(plaintextBits)
	if elemSizeBits%uint64(plaintextBits) != 0 {
		w++
	}
	if w == 0 {
		w = 1
	}

	if numShards == 0 {
		numShards = 1
	}

	return Parameters{
		m:             m,
		n:             n,
		w:             w,
		plaintextBits: plaintextBits,
		elemSizeBits:  uint32(elemSizeBits),
		numShards:     numShards,
	}, nil
}

func (p Parameters) M() uint64            { return p.m }
func (p Parameters) N() uint64            { return p.n }
func (p Parameters) W() uint64            { return p.w }
func (p Parameters) PlaintextBits() uint8 { return p.plaintextBits }
func (p Parameters) ElemSizeBits() uint32 { return p.elemSizeBits }
func (p Parameters) NumShards() uint16    { return p.numShards }
func (p Parameters) ASeed() [32]byte      { return p.aSeed }
func (p Parameters) Delta() ring.Elem     { return ring.Delta(int(p.plaintextBits)) }

// Hint returns the n x w public hint matrix M, or nil if Setup has not
// run yet.
func (p Parameters) Hint() *ring.Matrix { return p.hint }

// Equal reports whether p and other describe the same public parameter
// set, including the hint matrix contents. Header fields are compared
// directly; the hint matrix data is compared with go-cmp. numShards is not
// compared, since it is not part of the public parameter blob.
func (p Parameters) Equal(other Parameters) bool {
	return p.m == other.m &&
		p.n == other.n &&
		p.w == other.w &&
		p.plaintextBits == other.plaintextBits &&
		p.elemSizeBits == other.elemSizeBits &&
		p.aSeed == other.aSeed &&
		cmp.Equal(hintData(p.hint), hintData(other.hint))
}

func hintData(m *ring.Matrix) []ring.Elem {
	if m == nil {
		return nil
	}
	return m.Data
}

// MarshalBinary encodes the public parameter blob exactly as spec §6
// lays it out: A_seed (32B) || m (u64 LE) || n (u64 LE) || w (u64 LE) ||
// plaintext_bits (u32 LE) || elem_size_bits (u32 LE) || M (n*w u32 LE).
// plaintext_bits is widened to u32 on the wire to keep the header
// four-byte aligned; spec §6 only fixes the logical field widths.
func (p Parameters) MarshalBinary() ([]byte, error) {
	if p.hint == nil {
		return nil, fmt.Errorf("frodopir: MarshalBinary: hint matrix not set, call Setup first")
	}
	buf := make([]byte, 0, headerSize+len(p.hint.Data)*4)
	w := newByteWriter(&buf)
	if _, err := p.WriteTo(w); err != nil {
		return nil, err
	}
	return buf, nil
}

// UnmarshalBinary decodes a blob produced by MarshalBinary.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	_, err := p.ReadFrom(newByteReader(data))
	return err
}

const headerSize = 32 + 8 + 8 + 8 + 4 + 4

// WriteTo writes the wire encoding of p to w, implementing io.WriterTo.
func (p Parameters) WriteTo(w io.Writer) (int64, error) {
	if p.hint == nil {
		return 0, fmt.Errorf("frodopir: WriteTo: hint matrix not set, call Setup first")
	}

	header := make([]byte, headerSize)
	off := 0
	off += copy(header[off:], p.aSeed[:])
	binary.LittleEndian.PutUint64(header[off:], p.m)
	off += 8
	binary.LittleEndian.PutUint64(header[off:], p.n)
	off += 8
	binary.LittleEndian.PutUint64(header[off:], p.w)
	off += 8
	binary.LittleEndian.PutUint32(header[off:], uint32(p.plaintextBits))
	off += 4
	binary.LittleEndian.PutUint32(header[off:], p.elemSizeBits)
	off += 4

	n, err := w.Write(header)
	total := int64(n)
	if err != nil {
		return total, err
	}

	body := make([]byte, len(p.hint.Data)*4)
	for i, v := range p.hint.Data {
		binary.LittleEndian.PutUint32(body[i*4:], v)
	}
	n2, err := w.Write(body)
	total += int64(n2)
	return total, err
}

// ReadFrom decodes the wire encoding written by WriteTo, implementing
// io.ReaderFrom.
func (p *Parameters) ReadFrom(r io.Reader) (int64, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("frodopir: ReadFrom: header: %w", err)
	}

	off := 0
	copy(p.aSeed[:], header[off:off+32])
	off += 32
	p.m = binary.LittleEndian.Uint64(header[off:])
	off += 8
	p.n = binary.LittleEndian.Uint64(header[off:])
	off += 8
	p.w = binary.LittleEndian.Uint64(header[off:])
	off += 8
	p.plaintextBits = uint8(binary.LittleEndian.Uint32(header[off:]))
	off += 4
	p.elemSizeBits = binary.LittleEndian.Uint32(header[off:])

	if p.numShards == 0 {
		p.numShards = 1
	}

	body := make([]byte, p.n*p.w*4)
	n2, err := io.ReadFull(r, body)
	total += int64(n2)
	if err != nil {
		return total, fmt.Errorf("frodopir: ReadFrom: hint body: %w", err)
	}

	hint := ring.NewMatrix(int(p.n), int(p.w))
	for i := range hint.Data {
		hint.Data[i] = binary.LittleEndian.Uint32(body[i*4:])
	}
	p.hint = hint

	return total, nil
}

// newByteWriter and newByteReader keep MarshalBinary/UnmarshalBinary thin
// wrappers around WriteTo/ReadFrom, following the convention
// that the byte-slice API and the io.Writer/io.Reader API share one
// implementation.
func newByteWriter(buf *[]byte) io.Writer {
	return &sliceWriter{buf: buf}
}

type sliceWriter struct{ buf *[]byte }

func (s *sliceWriter) Write(p []byte) (int, error) {
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}

func newByteReader(data []byte) io.Reader {
	return &byteSliceReader{data: data}
}

type byteSliceReader struct {
	data []byte
	pos  int
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
