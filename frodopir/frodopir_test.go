package frodopir

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildIndexDB sets up a full index-PIR instance (database, setup) ready
// for querying, with a fixed A_seed so the test is deterministic.
func buildIndexDB(t *testing.T, lit ParametersLiteral, values [][]byte) Parameters {
	t.Helper()
	params, err := NewParametersFromLiteral(lit)
	require.NoError(t, err)

	db, err := NewDatabase(values, params)
	require.NoError(t, err)

	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	params, err = Setup(db, params, seed)
	require.NoError(t, err)
	require.NotNil(t, params.Hint())

	return params
}

func TestScenario1SmallIndexRoundTrip(t *testing.T) {
	values := make([][]byte, 8)
	for i := range values {
		values[i] = []byte{byte(i), byte(i + 1)}
	}

	lit := ParametersLiteral{
		NumElementsExp:  3, // m = 8
		LWEDimension:    32,
		ElementSizeBits: 16,
		PlaintextBits:   8,
	}
	params := buildIndexDB(t, lit, values)

	db, err := NewDatabase(values, params)
	require.NoError(t, err)

	sess := NewSession(params)
	q, err := sess.Query(3)
	require.NoError(t, err)

	r, err := Respond(db, q)
	require.NoError(t, err)

	got, err := sess.Parse(params, r)
	require.NoError(t, err)

	require.Equal(t, []byte{0x03, 0x04}, got)
}

func TestScenario2LargeIndexRoundTrip(t *testing.T) {
	const n = 1024
	values := make([][]byte, n)
	for i := range values {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(i))
		values[i] = b[:]
	}

	lit := ParametersLiteral{
		NumElementsExp:  10, // m = 1024
		LWEDimension:    512,
		ElementSizeBits: 64,
		PlaintextBits:   10,
	}
	params := buildIndexDB(t, lit, values)

	db, err := NewDatabase(values, params)
	require.NoError(t, err)

	for _, idx := range []int{0, 1, 500, 1023} {
		sess := NewSession(params)
		q, err := sess.Query(idx)
		require.NoError(t, err)

		r, err := Respond(db, q)
		require.NoError(t, err)

		got, err := sess.Parse(params, r)
		require.NoError(t, err)

		require.Equal(t, uint64(idx), binary.LittleEndian.Uint64(got))
	}
}

func TestScenario4ParamsReuseFails(t *testing.T) {
	values := make([][]byte, 8)
	for i := range values {
		values[i] = []byte{byte(i), byte(i + 1)}
	}
	lit := ParametersLiteral{NumElementsExp: 3, LWEDimension: 32, ElementSizeBits: 16, PlaintextBits: 8}
	params := buildIndexDB(t, lit, values)

	sess := NewSession(params)
	_, err := sess.Query(5)
	require.NoError(t, err)

	_, err = sess.Query(5)
	require.ErrorIs(t, err, ErrParamsAlreadyUsed)
}

func TestScenario5DimensionMismatch(t *testing.T) {
	values := make([][]byte, 8)
	for i := range values {
		values[i] = []byte{byte(i), byte(i + 1)}
	}
	lit := ParametersLiteral{NumElementsExp: 3, LWEDimension: 32, ElementSizeBits: 16, PlaintextBits: 8}
	params := buildIndexDB(t, lit, values)

	sess := NewSession(params)
	_, err := sess.Query(2)
	require.NoError(t, err)

	shortResponse := make([]uint32, int(params.W())-1)
	_, err = sess.Parse(params, shortResponse)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestParseTwiceFails(t *testing.T) {
	values := make([][]byte, 8)
	for i := range values {
		values[i] = []byte{byte(i), byte(i + 1)}
	}
	lit := ParametersLiteral{NumElementsExp: 3, LWEDimension: 32, ElementSizeBits: 16, PlaintextBits: 8}
	params := buildIndexDB(t, lit, values)

	db, err := NewDatabase(values, params)
	require.NoError(t, err)

	sess := NewSession(params)
	q, err := sess.Query(1)
	require.NoError(t, err)
	r, err := Respond(db, q)
	require.NoError(t, err)

	_, err = sess.Parse(params, r)
	require.NoError(t, err)

	_, err = sess.Parse(params, r)
	require.ErrorIs(t, err, ErrParamsAlreadyUsed)
}

func TestInvalidParamsRejected(t *testing.T) {
	_, err := NewParametersFromLiteral(ParametersLiteral{
		NumElementsExp:  3,
		LWEDimension:    32,
		ElementSizeBits: 16,
		PlaintextBits:   17,
	})
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewParametersFromLiteral(ParametersLiteral{
		NumElementsExp:  3,
		LWEDimension:    0,
		ElementSizeBits: 16,
		PlaintextBits:   8,
	})
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestParametersWireRoundTrip(t *testing.T) {
	values := make([][]byte, 8)
	for i := range values {
		values[i] = []byte{byte(i), byte(i + 1)}
	}
	lit := ParametersLiteral{NumElementsExp: 3, LWEDimension: 32, ElementSizeBits: 16, PlaintextBits: 8}
	params := buildIndexDB(t, lit, values)

	blob, err := params.MarshalBinary()
	require.NoError(t, err)

	var decoded Parameters
	err = decoded.UnmarshalBinary(blob)
	require.NoError(t, err)

	require.True(t, params.Equal(decoded))
}

func TestSetupIsDeterministic(t *testing.T) {
	values := make([][]byte, 8)
	for i := range values {
		values[i] = []byte{byte(i), byte(i + 1)}
	}
	lit := ParametersLiteral{NumElementsExp: 3, LWEDimension: 32, ElementSizeBits: 16, PlaintextBits: 8}

	params1, err := NewParametersFromLiteral(lit)
	require.NoError(t, err)
	params2, err := NewParametersFromLiteral(lit)
	require.NoError(t, err)

	db1, err := NewDatabase(values, params1)
	require.NoError(t, err)
	db2, err := NewDatabase(values, params2)
	require.NoError(t, err)

	var seed [32]byte
	for i := range seed {
		seed[i] = 0xAB
	}

	params1, err = Setup(db1, params1, seed)
	require.NoError(t, err)
	params2, err = Setup(db2, params2, seed)
	require.NoError(t, err)

	require.True(t, params1.Equal(params2))
}
