package javaparser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// UnquoteString returns the value of a Java string literal or text block
func UnquoteString(literal string) (string, error) {
	literal = strings.TrimSpace(literal)
	if strings.HasPrefix(literal, `"""`) {
		return unquoteTextBlock(literal)
	}
	if len(literal) < 2 || literal[0] != '"' || literal[len(literal)-1] != '"' {
		return "", fmt.Errorf("not a string literal: %s", literal)
	}
	return unescape(literal[1 : len(literal)-1])
}

func unquoteTextBlock(literal string) (string, error) {
	if len(literal) < 6 || !strings.HasSuffix(literal, `"""`) {
		return "", fmt.Errorf("unterminated text block: %s", literal)
	}
	body := literal[3 : len(literal)-3]
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return "", fmt.Errorf("text block must start with a line terminator")
	}
	body = strings.ReplaceAll(body[nl+1:], "\r\n", "\n")
	lines := strings.Split(body, "\n")

	// The closing delimiter line takes part in the indentation computation
	indent := -1
	for i, line := range lines {
		last := i == len(lines)-1
		if strings.TrimSpace(line) == "" && !last {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		indent = 0
	}
	for i, line := range lines {
		if len(line) >= indent {
			line = line[indent:]
		} else {
			line = strings.TrimLeft(line, " \t")
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	joined := strings.Join(lines, "\n")
	joined = strings.ReplaceAll(joined, "\\\n", "")
	return unescape(joined)
}

func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}
		i++
		switch e := s[i]; e {
		case 'b':
			b.WriteByte('\b')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 's':
			b.WriteByte(' ')
			i++
		case '"', '\'', '\\':
			b.WriteByte(e)
			i++
		case 'u':
			for i < len(s) && s[i] == 'u' {
				i++
			}
			if i+4 > len(s) {
				return "", fmt.Errorf("short unicode escape in %q", s)
			}
			v, err := strconv.ParseUint(s[i:i+4], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad unicode escape in %q: %w", s, err)
			}
			b.WriteRune(rune(v))
			i += 4
		default:
			if e < '0' || e > '7' {
				return "", fmt.Errorf("unknown escape \\%c in %q", e, s)
			}
			// Octal escape, up to three digits with a max of \377
			end := i + 1
			limit := i + 2
			if e <= '3' {
				limit = i + 3
			}
			for end < len(s) && end < limit && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			v, _ := strconv.ParseUint(s[i:end], 8, 32)
			b.WriteRune(rune(v))
			i = end
		}
	}
	return b.String(), nil
}
