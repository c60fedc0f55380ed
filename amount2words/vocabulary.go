package amount2words

import (
	"errors"
	"fmt"

	"github.com/remiges-tech/amountwords/morph"
)

// Gender is the grammatical gender a scale level imposes on the unit digit
// of its group: "одна тысяча" but "один миллион".
type Gender int

const (
	Masculine Gender = iota
	Feminine
)

func (g Gender) String() string {
	switch g {
	case Masculine:
		return "masculine"
	case Feminine:
		return "feminine"
	default:
		return fmt.Sprintf("Gender(%d)", int(g))
	}
}

// Scale is one power-of-1000 level: units, thousands, millions and so on.
// The units level carries no scale word and has empty Forms.
type Scale struct {
	Forms  morph.Forms
	Gender Gender
}

// Vocabulary holds the word tables the converter renders from.
// All digit tables are indexed by the digit itself.
type Vocabulary struct {
	Zero     string
	Units    [2][10]string // indexed by Gender, then digit; index 0 unused
	Teens    [10]string    // 10..19
	Tens     [10]string    // 20, 30 .. 90; indices 0 and 1 unused
	Hundreds [10]string    // 100 .. 900; index 0 unused
	Scales   []Scale
	Major    morph.Forms
	Minor    morph.Forms
}

var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// Validate reports whether every table covers the entries the converter
// reads from it.
func (v Vocabulary) Validate() error {
	if v.Zero == "" {
		return fmt.Errorf("%w: empty zero word", ErrInvalidVocabulary)
	}
	for _, g := range []Gender{Masculine, Feminine} {
		for d := 1; d < 10; d++ {
			if v.Units[g][d] == "" {
				return fmt.Errorf("%w: missing %s unit word for %d", ErrInvalidVocabulary, g, d)
			}
		}
	}
	for d := 0; d < 10; d++ {
		if v.Teens[d] == "" {
			return fmt.Errorf("%w: missing teen word for %d", ErrInvalidVocabulary, 10+d)
		}
	}
	for d := 2; d < 10; d++ {
		if v.Tens[d] == "" {
			return fmt.Errorf("%w: missing tens word for %d", ErrInvalidVocabulary, d*10)
		}
	}
	for d := 1; d < 10; d++ {
		if v.Hundreds[d] == "" {
			return fmt.Errorf("%w: missing hundreds word for %d", ErrInvalidVocabulary, d*100)
		}
	}
	if len(v.Scales) == 0 {
		return fmt.Errorf("%w: no scale levels", ErrInvalidVocabulary)
	}
	if v.Scales[0].Forms != (morph.Forms{}) {
		return fmt.Errorf("%w: units level must not have a scale word", ErrInvalidVocabulary)
	}
	for i, s := range v.Scales[1:] {
		if !complete(s.Forms) {
			return fmt.Errorf("%w: incomplete forms for scale level %d", ErrInvalidVocabulary, i+1)
		}
	}
	if !complete(v.Major) {
		return fmt.Errorf("%w: incomplete major unit forms", ErrInvalidVocabulary)
	}
	if !complete(v.Minor) {
		return fmt.Errorf("%w: incomplete minor unit forms", ErrInvalidVocabulary)
	}
	return nil
}

func complete(f morph.Forms) bool {
	return f[0] != "" && f[1] != "" && f[2] != ""
}

// Russian returns the vocabulary for amounts in roubles and kopecks, up to
// the trillions.
func Russian() Vocabulary {
	return Vocabulary{
		Zero: "ноль",
		Units: [2][10]string{
			Masculine: {"", "один", "два", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять"},
			Feminine:  {"", "одна", "две", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять"},
		},
		Teens: [10]string{
			"десять", "одиннадцать", "двенадцать", "тринадцать", "четырнадцать",
			"пятнадцать", "шестнадцать", "семнадцать", "восемнадцать", "девятнадцать",
		},
		Tens: [10]string{
			"", "", "двадцать", "тридцать", "сорок",
			"пятьдесят", "шестьдесят", "семьдесят", "восемьдесят", "девяносто",
		},
		Hundreds: [10]string{
			"", "сто", "двести", "триста", "четыреста",
			"пятьсот", "шестьсот", "семьсот", "восемьсот", "девятьсот",
		},
		Scales: []Scale{
			{Gender: Masculine},
			{Forms: morph.Forms{"тысяча", "тысячи", "тысяч"}, Gender: Feminine},
			{Forms: morph.Forms{"миллион", "миллиона", "миллионов"}, Gender: Masculine},
			{Forms: morph.Forms{"миллиард", "миллиарда", "миллиардов"}, Gender: Masculine},
			{Forms: morph.Forms{"триллион", "триллиона", "триллионов"}, Gender: Masculine},
		},
		Major: morph.Forms{"рубль", "рубля", "рублей"},
		Minor: morph.Forms{"копейка", "копейки", "копеек"},
	}
}
