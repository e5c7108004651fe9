package rdf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Unicode surrogate pair constants
const (
	unicodeSurrogateHighStart = 0xD800
	unicodeSurrogateHighEnd   = 0xDBFF
	unicodeSurrogateLowStart  = 0xDC00
	unicodeSurrogateLowEnd    = 0xDFFF
	unicodeSurrogateBase      = 0x10000
)

// Escape sequence length constants
const (
	unicodeEscapeLength     = 6  // Length of \uXXXX escape sequence
	unicodeLongEscapeLength = 10 // Length of \UXXXXXXXX escape sequence
)

func isValidUnicodeCodePoint(codePoint rune) bool {
	if codePoint > 0x10FFFF {
		return false
	}
	if codePoint >= 0xD800 && codePoint <= 0xDFFF {
		return false
	}
	return true
}

// parseHexDigit converts a single hex digit byte to its integer value.
func parseHexDigit(hex byte) (int, bool) {
	switch {
	case hex >= '0' && hex <= '9':
		return int(hex - '0'), true
	case hex >= 'a' && hex <= 'f':
		return int(hex-'a') + 10, true
	case hex >= 'A' && hex <= 'F':
		return int(hex-'A') + 10, true
	default:
		return 0, false
	}
}

func decodeUChar(hexStr string) rune {
	if len(hexStr) != 4 && len(hexStr) != 8 {
		return -1
	}
	var codePoint rune
	for i := 0; i < len(hexStr); i++ {
		digit, ok := parseHexDigit(hexStr[i])
		if !ok {
			return -1
		}
		codePoint = codePoint*16 + rune(digit)
	}
	return codePoint
}

func readLineWithLimit(reader *bufio.Reader, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return line, nil
			}
			return "", err
		}
		return line, nil
	}

	var buffer []byte
	for {
		part, err := reader.ReadSlice('\n')
		buffer = append(buffer, part...)
		if len(buffer) > maxBytes {
			discardLine(reader)
			return "", ErrLineTooLong
		}
		if err == nil {
			return string(buffer), nil
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && len(buffer) > 0 {
			return string(buffer), nil
		}
		return "", err
	}
}

func discardLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err == nil {
			return
		}
		if err != bufio.ErrBufferFull {
			return
		}
	}
}

func checkDecodeContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// UnescapeString decodes escape sequences in RDF string literals.
// It handles simple escapes (\n, \t, etc.), Unicode escapes (\uXXXX), and Unicode long escapes (\UXXXXXXXX).
// Surrogate pairs are supported for \uXXXX sequences.
func UnescapeString(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var builder strings.Builder
	pos := 0
	for pos < len(s) {
		ch := s[pos]
		if ch == '\\' {
			if pos+1 >= len(s) {
				return "", fmt.Errorf("unterminated escape")
			}
			next := s[pos+1]
			var err error
			var advance int
			switch next {
			case 'n', 't', 'r', 'b', 'f', '"', '\'', '\\':
				advance = unescapeSimpleEscape(&builder, next)
			case 'u':
				advance, err = unescapeUnicodeEscape(&builder, s, pos)
			case 'U':
				advance, err = unescapeUnicodeLongEscape(&builder, s, pos)
			default:
				return "", fmt.Errorf("invalid escape sequence \\%c", next)
			}
			if err != nil {
				return "", err
			}
			pos += advance
			continue
		}
		builder.WriteByte(ch)
		pos++
	}
	return builder.String(), nil
}

func unescapeSimpleEscape(builder *strings.Builder, escapeChar byte) int {
	switch escapeChar {
	case 'n':
		builder.WriteByte('\n')
	case 't':
		builder.WriteByte('\t')
	case 'r':
		builder.WriteByte('\r')
	case 'b':
		builder.WriteByte('\b')
	case 'f':
		builder.WriteByte('\f')
	default:
		builder.WriteByte(escapeChar)
	}
	return 2
}

// unescapeUnicodeEscape handles \uXXXX escape sequences, including surrogate pairs.
func unescapeUnicodeEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeEscapeLength > len(s) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	codePoint := decodeUChar(s[pos+2 : pos+6])
	if codePoint < 0 {
		return 0, fmt.Errorf("invalid escape sequence")
	}

	if codePoint >= unicodeSurrogateHighStart && codePoint <= unicodeSurrogateHighEnd {
		return unescapeSurrogatePair(builder, s, pos, codePoint)
	}
	if codePoint >= unicodeSurrogateLowStart && codePoint <= unicodeSurrogateLowEnd {
		return 0, fmt.Errorf("invalid escape sequence")
	}

	builder.WriteRune(codePoint)
	return unicodeEscapeLength, nil
}

func unescapeSurrogatePair(builder *strings.Builder, s string, pos int, high rune) (int, error) {
	if pos+12 > len(s) || s[pos+6] != '\\' || s[pos+7] != 'u' {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	low := decodeUChar(s[pos+8 : pos+12])
	if low < unicodeSurrogateLowStart || low > unicodeSurrogateLowEnd {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	combined := unicodeSurrogateBase + ((high - unicodeSurrogateHighStart) << 10) + (low - unicodeSurrogateLowStart)
	if !isValidUnicodeCodePoint(combined) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	builder.WriteRune(combined)
	return 12, nil
}

func unescapeUnicodeLongEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeLongEscapeLength > len(s) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	codePoint := decodeUChar(s[pos+2 : pos+10])
	if codePoint < 0 || !isValidUnicodeCodePoint(codePoint) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	builder.WriteRune(codePoint)
	return unicodeLongEscapeLength, nil
}

// escapeString applies N-Triples string escaping to a lexical form.
func escapeString(s string) string {
	var builder strings.Builder
	builder.Grow(len(s) + 2)
	for _, r := range s {
		switch r {
		case '\\':
			builder.WriteString(`\\`)
		case '"':
			builder.WriteString(`\"`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\f':
			builder.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&builder, `\u%04X`, r)
				continue
			}
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
