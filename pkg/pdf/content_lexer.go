package pdf

import (
	"bytes"
	"strconv"
)

type operandKind int

const (
	operandNumber operandKind = iota
	operandName
	operandString
	operandArray
	operandOther
)

// operand is one value pushed before a content stream operator
type operand struct {
	kind  operandKind
	num   float64
	name  string
	str   []byte
	array []operand
}

func (o operand) Float() float64 {
	if o.kind == operandNumber {
		return o.num
	}
	return 0
}

// contentLexer splits a decoded content stream into operands and operators
type contentLexer struct {
	data []byte
	pos  int
}

// interpret calls fn for every operator in content with the operands that
// preceded it
func interpret(content []byte, fn func(op string, args []operand)) {
	lx := &contentLexer{data: content}
	var args []operand
	for {
		v, op, ok := lx.next()
		if !ok {
			return
		}
		if op == "" {
			args = append(args, v)
			continue
		}
		if op == "BI" {
			lx.skipInlineImage()
			args = args[:0]
			continue
		}
		fn(op, args)
		args = args[:0]
	}
}

// next returns either an operand or, when op is non-empty, an operator
func (lx *contentLexer) next() (operand, string, bool) {
	lx.skipSpace()
	if lx.pos >= len(lx.data) {
		return operand{}, "", false
	}

	b := lx.data[lx.pos]
	switch {
	case b == '(':
		lx.pos++
		return operand{kind: operandString, str: lx.readLiteral()}, "", true
	case b == '<' && lx.peek(1) == '<':
		lx.pos += 2
		lx.skipDict()
		return operand{kind: operandOther}, "", true
	case b == '<':
		lx.pos++
		return operand{kind: operandString, str: lx.readHex()}, "", true
	case b == '[':
		lx.pos++
		return lx.readArray(), "", true
	case b == '/':
		lx.pos++
		return operand{kind: operandName, name: lx.readRegular()}, "", true
	case b == ']' || b == '>' || b == ')' || b == '{' || b == '}':
		lx.pos++
		return operand{kind: operandOther}, "", true
	}

	tok := lx.readRegular()
	if tok == "" {
		lx.pos++
		return operand{kind: operandOther}, "", true
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return operand{kind: operandNumber, num: n}, "", true
	}
	if tok == "true" || tok == "false" || tok == "null" {
		return operand{kind: operandOther}, "", true
	}
	return operand{}, tok, true
}

func (lx *contentLexer) peek(offset int) byte {
	if lx.pos+offset < len(lx.data) {
		return lx.data[lx.pos+offset]
	}
	return 0
}

func (lx *contentLexer) skipSpace() {
	for lx.pos < len(lx.data) {
		b := lx.data[lx.pos]
		if b == '%' {
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' && lx.data[lx.pos] != '\r' {
				lx.pos++
			}
			continue
		}
		if !isWhitespace(b) {
			return
		}
		lx.pos++
	}
}

func (lx *contentLexer) readRegular() string {
	start := lx.pos
	for lx.pos < len(lx.data) && !isWhitespace(lx.data[lx.pos]) && !isDelimiter(lx.data[lx.pos]) {
		lx.pos++
	}
	return string(lx.data[start:lx.pos])
}

// readLiteral reads a (string) body, resolving escapes and nested parentheses
func (lx *contentLexer) readLiteral() []byte {
	var out []byte
	depth := 1
	for lx.pos < len(lx.data) {
		b := lx.data[lx.pos]
		lx.pos++
		switch b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out
			}
		case '\\':
			if lx.pos >= len(lx.data) {
				return out
			}
			e := lx.data[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if lx.peek(0) == '\n' {
					lx.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && lx.peek(0) >= '0' && lx.peek(0) <= '7'; i++ {
						v = v*8 + int(lx.data[lx.pos]-'0')
						lx.pos++
					}
					out = append(out, byte(v))
					continue
				}
				out = append(out, e)
			}
			continue
		}
		out = append(out, b)
	}
	return out
}

func (lx *contentLexer) readHex() []byte {
	var digits []byte
	for lx.pos < len(lx.data) && lx.data[lx.pos] != '>' {
		if b := lx.data[lx.pos]; !isWhitespace(b) {
			digits = append(digits, b)
		}
		lx.pos++
	}
	lx.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}

func (lx *contentLexer) readArray() operand {
	arr := operand{kind: operandArray}
	for {
		lx.skipSpace()
		if lx.pos >= len(lx.data) {
			return arr
		}
		if lx.data[lx.pos] == ']' {
			lx.pos++
			return arr
		}
		v, op, ok := lx.next()
		if !ok {
			return arr
		}
		if op != "" {
			continue
		}
		arr.array = append(arr.array, v)
	}
}

func (lx *contentLexer) skipDict() {
	depth := 1
	for lx.pos < len(lx.data) && depth > 0 {
		switch {
		case lx.data[lx.pos] == '(':
			lx.pos++
			lx.readLiteral()
			continue
		case lx.data[lx.pos] == '<' && lx.peek(1) == '<':
			depth++
			lx.pos += 2
			continue
		case lx.data[lx.pos] == '>' && lx.peek(1) == '>':
			depth--
			lx.pos += 2
			continue
		}
		lx.pos++
	}
}

// skipInlineImage moves past BI ... ID <binary> EI
func (lx *contentLexer) skipInlineImage() {
	idx := bytes.Index(lx.data[lx.pos:], []byte("ID"))
	if idx < 0 {
		lx.pos = len(lx.data)
		return
	}
	lx.pos += idx + 2
	for lx.pos < len(lx.data) {
		idx := bytes.Index(lx.data[lx.pos:], []byte("EI"))
		if idx < 0 {
			lx.pos = len(lx.data)
			return
		}
		end := lx.pos + idx
		lx.pos = end + 2
		if end > 0 && isWhitespace(lx.data[end-1]) && (lx.pos >= len(lx.data) || isWhitespace(lx.data[lx.pos]) || isDelimiter(lx.data[lx.pos])) {
			return
		}
	}
}

// isWhitespace checks if a byte is whitespace
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

// isDelimiter checks if a byte is a delimiter
func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}
