package connector

import (
	"fmt"
	"strings"
)

// countPlaceholders returns the highest $n ordinal referenced by sql. Text
// inside string literals, quoted identifiers, comments and dollar-quoted
// bodies is skipped.
func countPlaceholders(sql string) (int, error) {
	highest := 0
	i := 0
	for i < len(sql) {
		c := sql[i]
		switch {
		case c == '\'':
			escapes := i > 0 && (sql[i-1] == 'E' || sql[i-1] == 'e') && (i < 2 || !isIdentByte(sql[i-2]))
			end, err := skipQuoted(sql, i, '\'', escapes)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '"':
			end, err := skipQuoted(sql, i, '"', false)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '-' && strings.HasPrefix(sql[i:], "--"):
			if j := strings.IndexByte(sql[i:], '\n'); j >= 0 {
				i += j + 1
			} else {
				i = len(sql)
			}
		case c == '/' && strings.HasPrefix(sql[i:], "/*"):
			end, err := skipBlockComment(sql, i)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '$' && (i == 0 || !isIdentByte(sql[i-1])):
			if n, end, ok := readOrdinal(sql, i); ok {
				if n > highest {
					highest = n
				}
				i = end
				continue
			}
			if tag, ok := readDollarTag(sql, i); ok {
				j := strings.Index(sql[i+len(tag):], tag)
				if j < 0 {
					return 0, fmt.Errorf("unterminated dollar-quoted string at offset %d", i)
				}
				i += len(tag) + j + len(tag)
				continue
			}
			i++
		default:
			i++
		}
	}
	return highest, nil
}

func skipQuoted(sql string, start int, quote byte, backslashEscapes bool) (int, error) {
	for i := start + 1; i < len(sql); i++ {
		switch sql[i] {
		case '\\':
			if backslashEscapes {
				i++
			}
		case quote:
			// doubled quote is an escaped quote
			if i+1 < len(sql) && sql[i+1] == quote {
				i++
				continue
			}
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unterminated quoted text at offset %d", start)
}

// Block comments nest in Postgres.
func skipBlockComment(sql string, start int) (int, error) {
	depth := 0
	for i := start; i < len(sql)-1; i++ {
		switch {
		case sql[i] == '/' && sql[i+1] == '*':
			depth++
			i++
		case sql[i] == '*' && sql[i+1] == '/':
			depth--
			i++
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("unterminated comment at offset %d", start)
}

func readOrdinal(sql string, start int) (n, end int, ok bool) {
	i := start + 1
	for i < len(sql) && sql[i] >= '0' && sql[i] <= '9' {
		n = n*10 + int(sql[i]-'0')
		i++
	}
	if i == start+1 {
		return 0, start, false
	}
	return n, i, true
}

// readDollarTag reads a $tag$ opener; tag is empty or an identifier not
// starting with a digit.
func readDollarTag(sql string, start int) (string, bool) {
	for i := start + 1; i < len(sql); i++ {
		c := sql[i]
		if c == '$' {
			return sql[start : i+1], true
		}
		if !isIdentByte(c) || (i == start+1 && c >= '0' && c <= '9') {
			return "", false
		}
	}
	return "", false
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
