// Package morph selects the grammatically correct form of a noun that follows
// a numeral, using the three-form plural agreement of Russian and other
// Slavic languages.
//
//	morph.Resolve(1, morph.Forms{"рубль", "рубля", "рублей"})  // рубль
//	morph.Resolve(3, morph.Forms{"рубль", "рубля", "рублей"})  // рубля
//	morph.Resolve(12, morph.Forms{"рубль", "рубля", "рублей"}) // рублей
package morph

import "math/big"

// Forms holds the three noun forms used by the agreement rule:
// the singular form (1, 21, 101), the few form (2-4, 22-24) and the
// many form (0, 5-20, 25-30).
type Forms [3]string

const (
	Singular = 0
	Few      = 1
	Many     = 2
)

var hundred = big.NewInt(100)

// Resolve returns the form of forms that agrees with the quantity n.
// Only the last two digits of n matter, and the sign is ignored.
func Resolve(n int64, forms Forms) string {
	r := n % 100
	if r < 0 {
		r = -r
	}
	return forms[index(r)]
}

// ResolveBig is Resolve for integers that may not fit into an int64.
func ResolveBig(n *big.Int, forms Forms) string {
	r := new(big.Int).Abs(n)
	r.Mod(r, hundred)
	return forms[index(r.Int64())]
}

// index maps the last two digits r (0-99) to a form index.
func index(r int64) int {
	if r > 10 && r < 20 {
		return Many
	}
	switch r % 10 {
	case 1:
		return Singular
	case 2, 3, 4:
		return Few
	default:
		return Many
	}
}
