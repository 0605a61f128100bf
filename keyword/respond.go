package keyword

import (
	"fmt"

	"github.com/chalametpir/chalametpir-go/frodopir"
	"github.com/chalametpir/chalametpir-go/ring"
)

// Respond computes the three independent server responses to a keyword
// query triple (spec §4.G, applied once per slot). Stateless, like
// frodopir.Respond.
func Respond(db *Database, queries [3][]ring.Elem) ([3][]ring.Elem, error) {
	var out [3][]ring.Elem
	for i, q := range queries {
		r, err := frodopir.Respond(db.FrodoDatabase(), q)
		if err != nil {
			return out, fmt.Errorf("keyword: Respond: slot %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}
