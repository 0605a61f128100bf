package keyword

import (
	"fmt"
	"testing"

	"github.com/chalametpir/chalametpir-go/frodopir"
	"github.com/stretchr/testify/require"
)

func sequentialSeeds() func() uint64 {
	var n uint64
	return func() uint64 {
		n++
		return n
	}
}

func TestScenario3KeywordRoundTrip(t *testing.T) {
	const n = 100
	kv := make(map[string][]byte, n)
	for i := 0; i < n; i++ {
		kv[fmt.Sprintf("k%d", i)] = []byte(fmt.Sprintf("v%04d", i))
	}

	cfg := Config{
		LWEDimension:  64,
		PlaintextBits: 10,
		MaxValueBytes: 5, // "v0042" etc.
	}

	db, params, err := NewDatabase(kv, cfg, sequentialSeeds())
	require.NoError(t, err)

	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i * 3)
	}
	setupParams, err := frodopir.Setup(db.FrodoDatabase(), params, seed)
	require.NoError(t, err)

	descriptor := db.Descriptor()

	sess := NewSession(setupParams)
	queries, err := sess.Query(descriptor, []byte("k42"))
	require.NoError(t, err)

	responses, err := Respond(db, queries)
	require.NoError(t, err)

	got, err := sess.Parse(setupParams, descriptor, responses)
	require.NoError(t, err)

	require.Equal(t, []byte("v0042"), got)
}

func TestScenario3AllKeysRecoverable(t *testing.T) {
	const n = 100
	kv := make(map[string][]byte, n)
	for i := 0; i < n; i++ {
		kv[fmt.Sprintf("k%d", i)] = []byte(fmt.Sprintf("v%04d", i))
	}

	cfg := Config{LWEDimension: 64, PlaintextBits: 10, MaxValueBytes: 5}
	db, params, err := NewDatabase(kv, cfg, sequentialSeeds())
	require.NoError(t, err)

	var seed [32]byte
	setupParams, err := frodopir.Setup(db.FrodoDatabase(), params, seed)
	require.NoError(t, err)
	descriptor := db.Descriptor()

	for k, want := range kv {
		sess := NewSession(setupParams)
		queries, err := sess.Query(descriptor, []byte(k))
		require.NoError(t, err)

		responses, err := Respond(db, queries)
		require.NoError(t, err)

		got, err := sess.Parse(setupParams, descriptor, responses)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestKeywordValueTooLongRejected(t *testing.T) {
	kv := map[string][]byte{
		"short": []byte("ok"),
		"long":  []byte("this value is far too long"),
	}
	cfg := Config{LWEDimension: 64, PlaintextBits: 10, MaxValueBytes: 5}

	_, _, err := NewDatabase(kv, cfg, sequentialSeeds())
	require.ErrorIs(t, err, frodopir.ErrDbEncodingOverflow)
}

func TestKeywordSessionParseBeforeQueryFails(t *testing.T) {
	cfg := Config{LWEDimension: 64, PlaintextBits: 10, MaxValueBytes: 5}
	kv := map[string][]byte{"k0": []byte("v0000")}
	db, params, err := NewDatabase(kv, cfg, sequentialSeeds())
	require.NoError(t, err)

	var seed [32]byte
	setupParams, err := frodopir.Setup(db.FrodoDatabase(), params, seed)
	require.NoError(t, err)
	descriptor := db.Descriptor()

	sess := NewSession(setupParams)
	_, err = sess.Parse(setupParams, descriptor, [3][]uint32{})
	require.ErrorIs(t, err, frodopir.ErrParamsAlreadyUsed)
}
