// Package keyword implements ChalametPIR's keyword-to-index adapter: it
// builds a modified Binary Fuse Filter over a key-value map (fuse package)
// and wraps its slot array as a frodopir.Database, then drives three
// parallel frodopir sessions per keyword query, recombining their
// responses via the filter's XOR contract to recover the value.
package keyword

import (
	"fmt"

	"github.com/chalametpir/chalametpir-go/frodopir"
	"github.com/chalametpir/chalametpir-go/fuse"
	"github.com/chalametpir/chalametpir-go/ring"
)

// Database is a keyword-mode PIR database: a fuse.Filter whose slot array
// has been wrapped as a frodopir.Database (spec §4.D keyword mode, §3
// "Binary Fuse Filter... in practice, collapsed into the DB matrix
// itself").
type Database struct {
	Filter *fuse.Filter
	db     *frodopir.Database
}

// Config holds the pieces of frodopir.ParametersLiteral that keyword mode
// fixes from the key set itself (NumElementsExp, ElementSizeBits) versus
// the pieces a caller still chooses freely.
type Config struct {
	LWEDimension  uint16
	PlaintextBits uint8
	NumShards     uint16

	// MaxValueBytes bounds every value's encoded length; values longer
	// than this are rejected up front with ErrDbEncodingOverflow, the
	// same error NewDatabase itself returns for an individual oversized
	// value.
	MaxValueBytes int
}

// NewDatabase builds a keyword PIR database over kv. The Binary Fuse
// Filter's slot count m = segment_count_len + 2*segment_len (spec §3) is
// not generally a power of two, so unlike index mode, m cannot be chosen
// up front: NewDatabase builds the filter first, then derives the
// matching frodopir.Parameters directly from the filter's dimensions
// (frodopir.NewParametersForDimensions), and returns both. seedFn
// supplies the 64-bit filter seeds tried during construction (spec
// §4.C.3's seed-resampling retry loop); pass fuse.RandomSeedSource() for
// production use.
func NewDatabase(kv map[string][]byte, cfg Config, seedFn func() uint64) (*Database, frodopir.Parameters, error) {
	plaintextBits := int(cfg.PlaintextBits)
	maxDigits := cfg.MaxValueBytes * 8 / plaintextBits
	if (cfg.MaxValueBytes*8)%plaintextBits != 0 {
		maxDigits++
	}
	w := maxDigits + 1 // +1 for the reserved fingerprint digit

	keys := make([][]byte, 0, len(kv))
	valueDigits := make([][]ring.Elem, 0, len(kv))
	for k, v := range kv {
		if len(v) > cfg.MaxValueBytes {
			return nil, frodopir.Parameters{}, fmt.Errorf("%w: value for key %q is %d bytes, max %d", frodopir.ErrDbEncodingOverflow, k, len(v), cfg.MaxValueBytes)
		}
		keys = append(keys, []byte(k))
		valueDigits = append(valueDigits, ring.EncodeRow(v, maxDigits, plaintextBits))
	}

	filter, err := fuse.Build(keys, valueDigits, w, plaintextBits, seedFn)
	if err != nil {
		return nil, frodopir.Parameters{}, err
	}

	params, err := frodopir.NewParametersForDimensions(
		filter.M,
		uint64(cfg.LWEDimension),
		uint32(w*plaintextBits),
		cfg.PlaintextBits,
		cfg.NumShards,
	)
	if err != nil {
		return nil, frodopir.Parameters{}, err
	}

	return &Database{
		Filter: filter,
		db:     frodopir.NewDatabaseFromMatrix(filter.Slots),
	}, params, nil
}

// FrodoDatabase exposes the underlying index-mode database, e.g. for
// Respond.
func (d *Database) FrodoDatabase() *frodopir.Database { return d.db }

// Descriptor returns the public filter parameters a client needs to
// compute slot locations and fingerprint rows locally, without access to
// the slot contents (spec §6: filter_seed, segment_len,
// segment_count_len).
func (d *Database) Descriptor() Descriptor {
	return Descriptor{
		Seed:            d.Filter.Seed,
		SegmentLen:      d.Filter.SegmentLen,
		SegmentCountLen: d.Filter.SegmentCountLen,
		W:               d.Filter.W,
		PlaintextBits:   d.Filter.PlaintextBits,
	}
}

// Descriptor is the client-visible half of a fuse.Filter: enough to
// compute Locations and FingerprintRow, but not the slot contents
// (spec §6's keyword-mode public parameter blob suffix).
type Descriptor struct {
	Seed            uint64
	SegmentLen      uint64
	SegmentCountLen uint64
	W               int
	PlaintextBits   int
}

func (d Descriptor) filter() *fuse.Filter {
	return &fuse.Filter{
		Seed:            d.Seed,
		SegmentLen:      d.SegmentLen,
		SegmentCountLen: d.SegmentCountLen,
		M:               d.SegmentCountLen + 2*d.SegmentLen,
		W:               d.W,
		PlaintextBits:   d.PlaintextBits,
	}
}

// Locations returns the three slot indices key hashes to.
func (d Descriptor) Locations(key []byte) (h0, h1, h2 int) {
	return d.filter().Locations(key)
}

// FingerprintRow returns key's deterministic fingerprint row.
func (d Descriptor) FingerprintRow(key []byte) []ring.Elem {
	return d.filter().FingerprintRow(key)
}
