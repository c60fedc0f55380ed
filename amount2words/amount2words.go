// Package amount2words spells out monetary amounts in Russian, e.g.
//
//	amount2words.Convert("1234.5")
//	// Одна тысяча двести тридцать четыре рубля 50 копеек
//
// The integer part is written in words with correctly declined scale and
// currency names; the minor part is written as a two-digit numeral followed
// by the declined minor-unit name.
//
// Amounts are rounded to two fractional digits half away from zero, so
// "0.125" becomes 13 kopecks. Negative amounts are rejected.
//
// A Converter is immutable once built and is safe for concurrent use.
package amount2words

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/remiges-tech/amountwords/morph"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidAmount is returned when the input is not a finite,
	// non-negative number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountTooLarge is returned when the integer part needs more
	// three-digit groups than the vocabulary has scale levels.
	ErrAmountTooLarge = errors.New("amount too large")
)

var thousand = big.NewInt(1000)

// Converter renders amounts using one Vocabulary.
type Converter struct {
	vocab Vocabulary
}

// Result is a converted amount together with its normalized numeric parts.
type Result struct {
	Major *big.Int // whole major units
	Minor int64    // minor units, 0-99
	Text  string
}

// Amount returns the normalized amount with exactly two fractional digits.
func (r Result) Amount() string {
	return fmt.Sprintf("%s.%02d", r.Major.String(), r.Minor)
}

// New builds a Converter for v. The scale table is copied, so later changes
// to v do not affect the converter.
func New(v Vocabulary) (*Converter, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	v.Scales = append([]Scale(nil), v.Scales...)
	return &Converter{vocab: v}, nil
}

// MustNew is like New but panics if v is invalid.
func MustNew(v Vocabulary) *Converter {
	c, err := New(v)
	if err != nil {
		panic(err)
	}
	return c
}

var russian = MustNew(Russian())

// Default returns the converter used by the package-level functions.
func Default() *Converter {
	return russian
}

// Convert spells out amount in roubles and kopecks.
// See Converter.Convert for the accepted input types.
func Convert(amount any) (string, error) {
	return russian.Convert(amount)
}

// ConvertParts is Convert returning the normalized amount as well.
func ConvertParts(amount any) (Result, error) {
	return russian.ConvertParts(amount)
}

// MaxGroups returns the number of three-digit groups the converter can
// render, i.e. the integer part must be below 1000^MaxGroups.
func (c *Converter) MaxGroups() int {
	return len(c.vocab.Scales)
}

// Convert spells out amount. amount may be a string, json.Number,
// decimal.Decimal, any Go integer type, float32 or float64.
func (c *Converter) Convert(amount any) (string, error) {
	res, err := c.ConvertParts(amount)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ConvertParts spells out amount and returns the normalized parts used.
func (c *Converter) ConvertParts(amount any) (Result, error) {
	d, err := toDecimal(amount)
	if err != nil {
		return Result{}, err
	}
	if err := c.checkMagnitude(d); err != nil {
		return Result{}, err
	}
	d = trimFraction(d).Round(2)

	major := d.BigInt()
	minor := d.Sub(decimal.NewFromBigInt(major, 0)).Shift(2).IntPart()

	words, err := c.majorWords(major)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", err, d.StringFixed(2))
	}

	words = append(words,
		morph.ResolveBig(major, c.vocab.Major),
		fmt.Sprintf("%02d", minor),
		morph.Resolve(minor, c.vocab.Minor),
	)

	return Result{
		Major: major,
		Minor: minor,
		Text:  capitalize(strings.Join(words, " ")),
	}, nil
}

// checkMagnitude rejects integer parts longer than the scale table allows,
// before any rounding allocates a power of ten of that size.
func (c *Converter) checkMagnitude(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	if intDigits := d.NumDigits() + int(d.Exponent()); intDigits > 3*len(c.vocab.Scales) {
		return fmt.Errorf("%w: %d integer digits", ErrAmountTooLarge, intDigits)
	}
	return nil
}

// roundingDigits is the number of fractional digits Round(2) looks at when
// rounding half away from zero.
const roundingDigits = 3

// trimFraction truncates d to roundingDigits fractional digits, which leaves
// the result of Round(2) unchanged. The power of ten used is never larger
// than the coefficient of d, so long fractions cost no more than their input.
func trimFraction(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	drop := -int(d.Exponent()) - roundingDigits
	if drop <= 0 {
		return d
	}
	if drop > d.NumDigits() {
		// d < 10^-roundingDigits
		return decimal.Zero
	}
	return d.Truncate(roundingDigits)
}

// majorWords spells out the integer part n >= 0, most significant group
// first.
func (c *Converter) majorWords(n *big.Int) ([]string, error) {
	if n.Sign() == 0 {
		return []string{c.vocab.Zero}, nil
	}

	groups, err := c.split(n)
	if err != nil {
		return nil, err
	}

	var words []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		scale := c.vocab.Scales[i]
		words = append(words, c.renderGroup(g, scale.Gender)...)
		if i > 0 {
			words = append(words, morph.Resolve(g, scale.Forms))
		}
	}
	return words, nil
}

// split decomposes n > 0 into base-1000 groups, least significant first.
func (c *Converter) split(n *big.Int) ([]int64, error) {
	var groups []int64
	rest := new(big.Int).Set(n)
	group := new(big.Int)
	for rest.Sign() > 0 {
		if len(groups) == len(c.vocab.Scales) {
			return nil, ErrAmountTooLarge
		}
		rest.DivMod(rest, thousand, group)
		groups = append(groups, group.Int64())
	}
	return groups, nil
}

// renderGroup spells out n in 0..999. The gender applies to the unit digit
// only.
func (c *Converter) renderGroup(n int64, g Gender) []string {
	var words []string
	if n >= 100 {
		words = append(words, c.vocab.Hundreds[n/100])
		n %= 100
	}
	if n >= 20 {
		words = append(words, c.vocab.Tens[n/10])
		n %= 10
	} else if n >= 10 {
		words = append(words, c.vocab.Teens[n-10])
		n = 0
	}
	if n > 0 {
		words = append(words, c.vocab.Units[g][n])
	}
	return words
}

func capitalize(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	// cases.Caser is stateful, so one is made per call.
	return cases.Upper(language.Russian).String(s[:size]) + s[size:]
}
