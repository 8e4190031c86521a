package pdf

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ToUnicodeCMap represents a PDF ToUnicode CMap that maps character codes to
// Unicode text
type ToUnicodeCMap struct {
	// Code space ranges; a code is as many bytes long as the range it falls in
	codespace []codespaceRange

	// Direct character mappings (from beginbfchar sections)
	chars map[string]string

	// Range mappings (from beginbfrange sections)
	ranges []cmapRange
}

type codespaceRange struct {
	low, high []byte
}

// cmapRange represents a contiguous range mapping from beginbfrange
type cmapRange struct {
	low, high uint32
	width     int
	dst       []byte   // destination of the first code, UTF-16BE
	array     []string // explicit destinations, one per code
}

var utf16Decoder = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)

// NewToUnicodeCMap creates a new ToUnicode CMap parser
func NewToUnicodeCMap() *ToUnicodeCMap {
	return &ToUnicodeCMap{
		chars: make(map[string]string),
	}
}

// ParseToUnicodeCMap parses a decoded ToUnicode CMap stream
func ParseToUnicodeCMap(data []byte) (*ToUnicodeCMap, error) {
	cmap := NewToUnicodeCMap()
	if err := cmap.Parse(data); err != nil {
		return nil, err
	}
	return cmap, nil
}

// Parse reads the code space, bfchar and bfrange sections of a CMap stream
func (cmap *ToUnicodeCMap) Parse(data []byte) error {
	interpret(data, func(op string, args []operand) {
		switch op {
		case "endcodespacerange":
			for i := 0; i+1 < len(args); i += 2 {
				if args[i].kind != operandString || args[i+1].kind != operandString {
					continue
				}
				cmap.codespace = append(cmap.codespace, codespaceRange{low: args[i].str, high: args[i+1].str})
			}
		case "endbfchar":
			for i := 0; i+1 < len(args); i += 2 {
				if args[i].kind != operandString || args[i+1].kind != operandString {
					continue
				}
				cmap.chars[string(args[i].str)] = decodeUTF16(args[i+1].str)
			}
		case "endbfrange":
			for i := 0; i+2 < len(args); i += 3 {
				cmap.addRange(args[i], args[i+1], args[i+2])
			}
		}
	})

	if len(cmap.chars) == 0 && len(cmap.ranges) == 0 {
		return fmt.Errorf("cmap has no bfchar or bfrange mappings")
	}
	return nil
}

func (cmap *ToUnicodeCMap) addRange(low, high, dst operand) {
	if low.kind != operandString || high.kind != operandString || len(low.str) == 0 {
		return
	}

	r := cmapRange{
		low:   codeValue(low.str),
		high:  codeValue(high.str),
		width: len(low.str),
	}
	switch dst.kind {
	case operandString:
		r.dst = dst.str
	case operandArray:
		for _, item := range dst.array {
			r.array = append(r.array, decodeUTF16(item.str))
		}
	default:
		return
	}
	cmap.ranges = append(cmap.ranges, r)
}

func codeValue(code []byte) uint32 {
	var v uint32
	for _, b := range code {
		v = v<<8 | uint32(b)
	}
	return v
}

func decodeUTF16(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	out, err := utf16Decoder.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// Lookup maps one character code to its Unicode text
func (cmap *ToUnicodeCMap) Lookup(code []byte) (string, bool) {
	if s, ok := cmap.chars[string(code)]; ok {
		return s, true
	}

	v := codeValue(code)
	for _, r := range cmap.ranges {
		if r.width != len(code) || v < r.low || v > r.high {
			continue
		}
		offset := v - r.low
		if r.array != nil {
			if int(offset) < len(r.array) {
				return r.array[offset], true
			}
			return "", false
		}
		dst := make([]byte, len(r.dst))
		copy(dst, r.dst)
		// Advance the last UTF-16 unit of the destination by the code offset
		if n := len(dst); n >= 2 {
			unit := uint32(dst[n-2])<<8 | uint32(dst[n-1])
			unit += offset
			dst[n-2], dst[n-1] = byte(unit>>8), byte(unit)
		} else if n == 1 {
			dst[0] += byte(offset)
		}
		return decodeUTF16(dst), true
	}
	return "", false
}

// codeLength returns how many bytes the code starting at s occupies
func (cmap *ToUnicodeCMap) codeLength(s []byte, fallback int) int {
	for n := 1; n <= 4 && n <= len(s); n++ {
		for _, r := range cmap.codespace {
			if len(r.low) != n {
				continue
			}
			v := codeValue(s[:n])
			if v >= codeValue(r.low) && v <= codeValue(r.high) {
				return n
			}
		}
	}
	return min(fallback, len(s))
}

// Split cuts s into character codes using the code space ranges, falling
// back to width bytes per code when no range matches
func (cmap *ToUnicodeCMap) Split(s []byte, width int) [][]byte {
	var codes [][]byte
	for len(s) > 0 {
		n := cmap.codeLength(s, width)
		codes = append(codes, s[:n])
		s = s[n:]
	}
	return codes
}

// Decode maps every code in s to text. Unmapped codes are dropped.
func (cmap *ToUnicodeCMap) Decode(s []byte, width int) string {
	var b strings.Builder
	for _, code := range cmap.Split(s, width) {
		if text, ok := cmap.Lookup(code); ok {
			b.WriteString(text)
		}
	}
	return b.String()
}

// GetMappingCount returns the total number of mappings in this CMap
func (cmap *ToUnicodeCMap) GetMappingCount() int {
	count := len(cmap.chars)
	for _, r := range cmap.ranges {
		if r.array != nil {
			count += len(r.array)
			continue
		}
		count += int(r.high-r.low) + 1
	}
	return count
}
