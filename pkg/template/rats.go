package template

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/barnhunt/barnhunt/pkg/coursemaps"
)

// Rats is a row of rat counts. It prints as space separated numbers.
type Rats []int

func (r Rats) String() string {
	parts := make([]string, len(r))
	for i, n := range r {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// RatsSeed derives the seed used by rats from the document random seed, the
// source file token and the id of the layer holding the text.
func RatsSeed(randomSeed, svgfile any, layerID string) uint64 {
	h := sha256.New()
	fmt.Fprintf(h, "%v\x00%v\x00%s", randomSeed, svgfile, layerID)
	return binary.BigEndian.Uint64(h.Sum(nil))
}

// ExplicitRatsSeed derives the seed used by rats when the template passes
// one. Equal seed values give equal numbers on every layer.
func ExplicitRatsSeed(seed any) uint64 {
	sum := sha256.Sum256(fmt.Appendf(nil, "seed\x00%v", seed))
	return binary.BigEndian.Uint64(sum[:])
}

// RandomRats returns n integers in [lo, hi] after discarding skip draws.
// The same seed always gives the same numbers.
func RandomRats(seed uint64, n, lo, hi, skip int) Rats {
	if hi < lo {
		lo, hi = hi, lo
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	span := hi - lo + 1
	for range skip {
		rng.IntN(span)
	}
	out := make(Rats, n)
	for i := range out {
		out[i] = lo + rng.IntN(span)
	}
	return out
}

// rats is the template function rats(n=5, min=1, max=5, skip=0, seed).
// Without a seed the numbers are fixed per layer; seed false draws new
// numbers on every call.
func rats(ctx *pongo2.ExecutionContext, args ...*pongo2.Value) Rats {
	params := []int{5, 1, 5, 0}
	for i, a := range args {
		if i < len(params) {
			params[i] = a.Integer()
		}
	}

	var seed uint64
	switch {
	case len(args) > 4 && args[4].IsBool() && !args[4].Bool():
		seed = rand.Uint64()
	case len(args) > 4 && !args[4].IsNil():
		seed = ExplicitRatsSeed(args[4].Interface())
	default:
		var layerID string
		if lv, ok := ctx.Public["layer"].(coursemaps.LayerValue); ok {
			layerID, _ = lv["id"].(string)
		}
		seed = RatsSeed(ctx.Public[coursemaps.VarRandomSeed], ctx.Public[coursemaps.VarSVGFile], layerID)
	}
	return RandomRats(seed, max(params[0], 0), params[1], params[2], max(params[3], 0))
}
