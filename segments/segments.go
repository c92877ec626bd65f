// Package segments estimates how many carrier segments an SMS body occupies
// and what it will roughly cost to send.
//
// The estimate is advisory. The gateway computes the billed cost itself and
// returns it in the send response.
package segments

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Encoding is the character repertoire a message body requires.
type Encoding int

const (
	// StandardAlphabet bodies fit the GSM 03.38 default alphabet.
	StandardAlphabet Encoding = iota
	// ExtendedAlphabet bodies contain at least one character outside it.
	ExtendedAlphabet
)

func (e Encoding) String() string {
	switch e {
	case StandardAlphabet:
		return "gsm7"
	case ExtendedAlphabet:
		return "ucs2"
	default:
		return "unknown"
	}
}

// Per-segment character budgets. Concatenated messages lose room to the
// user data header, hence the smaller multipart sizes.
const (
	StandardSingleLimit = 160
	StandardPartLimit   = 153
	ExtendedSingleLimit = 70
	ExtendedPartLimit   = 67
)

// MaxMessageLength is the longest body the gateway accepts, in characters.
const MaxMessageLength = 1000

// gsm7Default is the GSM 03.38 default alphabet without the escape code.
// LF and CR are real control characters here, as in the 03.38 table, so
// multi-line bodies stay standard. Backslash lives in the extension table
// and is deliberately absent: a body containing one is extended. This
// differs from a naive escaped string literal, where "\n" and "\r" would be
// a backslash plus a letter.
const gsm7Default = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"

var gsm7Set = func() map[rune]struct{} {
	set := make(map[rune]struct{}, utf8.RuneCountInString(gsm7Default))
	for _, r := range gsm7Default {
		set[r] = struct{}{}
	}
	return set
}()

// Classify reports which alphabet body needs. Code points are matched
// literally: no case folding and no Unicode normalization.
func Classify(body string) Encoding {
	for _, r := range body {
		if _, ok := gsm7Set[r]; !ok {
			return ExtendedAlphabet
		}
	}
	return StandardAlphabet
}

// Length returns the number of characters in body as the gateway counts
// them (Unicode code points).
func Length(body string) int {
	return utf8.RuneCountInString(body)
}

// Count returns the number of segments body occupies. It is always >= 1.
func Count(body string) int {
	n := Length(body)
	if Classify(body) == ExtendedAlphabet {
		return split(n, ExtendedSingleLimit, ExtendedPartLimit)
	}
	return split(n, StandardSingleLimit, StandardPartLimit)
}

func split(length, single, part int) int {
	if length <= single {
		return 1
	}
	return (length + part - 1) / part
}

// EstimateCost multiplies the segment count of body by segmentPrice.
// segmentPrice is expected to be non-negative.
func EstimateCost(body string, segmentPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(Count(body))).Mul(segmentPrice)
}
