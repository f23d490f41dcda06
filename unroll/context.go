package unroll

import (
	"encoding/binary"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxK is the largest supported unrolling bound.
// A header copy holds values up to K, which must fit in a context level.
const MaxK = math.MaxUint16 - 1

// ErrBadK is returned for an unrolling bound outside [1, MaxK].
var ErrBadK = errors.New("unroll: unrolling bound out of range")

// Context is the sequence of iteration indices of a vertex copy, one per
// enclosing loop, outermost first.
type Context []uint16

// Equal returns true if c and o have the same levels.
func (c Context) Equal(o Context) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

func (c Context) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range c {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteByte(']')
	return b.String()
}

// Ints returns the levels of c as ints.
func (c Context) Ints() []int {
	out := make([]int, len(c))
	for i, v := range c {
		out[i] = int(v)
	}
	return out
}

// key returns a map key for the copy of block in context c.
func (c Context) key(block int) string {
	buf := make([]byte, 8+2*len(c))
	binary.LittleEndian.PutUint64(buf, uint64(block))
	for i, v := range c {
		binary.LittleEndian.PutUint16(buf[8+2*i:], v)
	}
	return string(buf)
}

func checkK(k int) error {
	if k < 1 || k > MaxK {
		return errors.Wrapf(ErrBadK, "K=%d", k)
	}
	return nil
}

// levelBounds returns the number of values at each level of a vertex at the
// given depth.
func levelBounds(depth int, head bool, k int) []int {
	bounds := make([]int, depth)
	for i := range bounds {
		bounds[i] = k
	}
	if head && depth > 0 {
		bounds[depth-1] = k + 1
	}
	return bounds
}

// Contexts returns all contexts of a vertex at the given nesting depth, in
// lexicographic order. The vertex gets k values per level, and k+1 values at
// its innermost level if it is a loop header. A vertex outside any loop has
// the single empty context.
func Contexts(depth int, head bool, k int) []Context {
	if depth == 0 {
		return []Context{{}}
	}
	bounds := levelBounds(depth, head, k)
	var out []Context
	cur := make(Context, depth)
	for {
		out = append(out, append(Context(nil), cur...))
		i := depth - 1
		for ; i >= 0; i-- {
			cur[i]++
			if int(cur[i]) < bounds[i] {
				break
			}
			cur[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}

// Contexts returns the contexts of vertex v.
func (c *Classification) Contexts(v, k int) []Context {
	return Contexts(c.Depth[v], c.Heads[v], k)
}

// Size returns the number of product vertices for bound k.
func (c *Classification) Size(k int) *big.Int {
	total := new(big.Int)
	for v := range c.Depth {
		n := big.NewInt(1)
		for _, b := range levelBounds(c.Depth[v], c.Heads[v], k) {
			n.Mul(n, big.NewInt(int64(b)))
		}
		total.Add(total, n)
	}
	return total
}
