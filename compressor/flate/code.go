package flate

import "math/bits"

// Symbols of the token alphabet. Codes below EndOfBlock are literal bytes, codes above it are match
// lengths.
const (
	EndOfBlock       = 256
	firstLengthCode  = 257
	maxLengthCode    = 285
	NumCodes         = maxLengthCode + 1
	NumDistances     = 30
	maxLength        = 258
	shortLengthCodes = 8
	shortDistances   = 4
)

func log2(v int) int {
	return bits.Len(uint(v)) - 1
}

// LengthCode maps a match length in [3, 258] to its code symbol and the raw bits that follow it.
func LengthCode(length int) (code int, extraBits uint8, extra int) {
	if length == maxLength {
		return maxLengthCode, 0, 0
	}
	reduced := length - 3
	if reduced < shortLengthCodes {
		return firstLengthCode + reduced, 0, 0
	}
	log := log2(reduced)
	eb := log - 2
	return 249 + 4*log + reduced>>eb, uint8(eb), reduced & (1<<eb - 1)
}

// LengthExtraBits reports how many raw bits follow a length code.
func LengthExtraBits(code int) uint8 {
	if code < firstLengthCode+shortLengthCodes || code == maxLengthCode {
		return 0
	}
	return uint8((code-249)/4 - 3)
}

// LengthFromCode inverts LengthCode.
func LengthFromCode(code, extra int) int {
	if code == maxLengthCode {
		return maxLength
	}
	if code < firstLengthCode+shortLengthCodes {
		return code - firstLengthCode + 3
	}
	c := code - 249
	eb := c/4 - 3
	return (c%4+4)<<eb | extra + 3
}

// DistanceCode maps a match distance in [1, 32768] to its code symbol and the raw bits that follow it.
func DistanceCode(distance int) (code int, extraBits uint8, extra int) {
	if distance <= shortDistances {
		return distance - 1, 0, 0
	}
	reduced := distance - 1
	log := log2(reduced)
	eb := log - 1
	return 2*log + reduced>>eb - 2, uint8(eb), reduced & (1<<eb - 1)
}

// DistanceExtraBits reports how many raw bits follow a distance code.
func DistanceExtraBits(code int) uint8 {
	if code < shortDistances {
		return 0
	}
	return uint8((code+2)/2 - 2)
}

// DistanceFromCode inverts DistanceCode.
func DistanceFromCode(code, extra int) int {
	if code < shortDistances {
		return code + 1
	}
	p := code + 2
	eb := p/2 - 2
	return (p%2+2)<<eb | extra + 1
}
