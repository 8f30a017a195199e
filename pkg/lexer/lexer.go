// Package lexer provides the character-level routines behind the HCL
// scanner and parser: quote and escape handling, whitespace and comment
// skipping, string and heredoc skipping, brace matching, identifier and
// value reading, and comma-aware splitting of array and object literals.
//
// Every routine advances monotonically through its input and terminates on
// malformed text instead of failing, which is what the permissive scanning
// mode builds on.
package lexer

import (
	"regexp"
	"strings"
)

var (
	identifierPattern       = regexp.MustCompile(`^[A-Za-z_][\w-]*`)
	dottedIdentifierPattern = regexp.MustCompile(`^[\w.-]+`)
	heredocPattern          = regexp.MustCompile(`^<<-?\s*"?([A-Za-z0-9_]+)"?`)
)

// IsQuote reports whether ch opens or closes a quoted string
func IsQuote(ch byte) bool {
	return ch == '"' || ch == '\''
}

// IsEscaped reports whether the character at index is escaped, i.e. is
// preceded by an odd number of backslashes.
func IsEscaped(text string, index int) bool {
	count := 0
	for pos := index - 1; pos >= 0 && text[pos] == '\\'; pos-- {
		count++
	}
	return count%2 == 1
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// SkipWhitespaceAndComments returns the position of the next significant
// character, skipping whitespace, /* */ block comments (non-nested), and
// // or # line comments.
func SkipWhitespaceAndComments(text string, start int) int {
	index := start
	length := len(text)

	for index < length {
		ch := text[index]
		var next byte
		if index+1 < length {
			next = text[index+1]
		}

		if isSpace(ch) {
			index++
			continue
		}

		if ch == '/' && next == '*' {
			end := strings.Index(text[index+2:], "*/")
			if end == -1 {
				return length
			}
			index += 2 + end + 2
			continue
		}

		if ch == '/' && next == '/' {
			index = skipToLineEnd(text, index+2)
			continue
		}

		if ch == '#' {
			index = skipToLineEnd(text, index+1)
			continue
		}

		break
	}

	return index
}

func skipToLineEnd(text string, start int) int {
	end := strings.IndexByte(text[start:], '\n')
	if end == -1 {
		return len(text)
	}
	return start + end + 1
}

// SkipString scans from an opening quote to the position after the matching
// unescaped closing quote. An unterminated string consumes the rest of the
// input.
func SkipString(text string, start int) int {
	quote := text[start]
	for index := start + 1; index < len(text); index++ {
		if text[index] == quote && !IsEscaped(text, index) {
			return index + 1
		}
	}
	return len(text)
}

// SkipHeredoc scans a << or <<- heredoc from its opening marker to the
// position after the terminator line. Without a recognizable marker it
// skips only the << characters; without a terminator it consumes the rest
// of the input.
func SkipHeredoc(text string, start int) int {
	match := heredocPattern.FindStringSubmatch(text[start:])
	if match == nil {
		return start + 2
	}

	marker := match[1]
	afterMarker := start + len(match[0])
	terminator := strings.Index(text[afterMarker:], "\n"+marker)
	if terminator == -1 {
		return len(text)
	}
	terminator += afterMarker

	endOfTerminator := strings.IndexByte(text[terminator+len(marker)+1:], '\n')
	if endOfTerminator == -1 {
		return len(text)
	}
	return terminator + len(marker) + 1 + endOfTerminator + 1
}

// FindMatchingBrace returns the index of the closing brace matching the
// opening brace at startIndex, skipping strings, comments and heredocs.
// Returns -1 when the depth never returns to zero.
func FindMatchingBrace(content string, startIndex int) int {
	return findMatching(content, startIndex, '{', '}', true)
}

// FindMatchingBracket is FindMatchingBrace generalized to any bracket pair
func FindMatchingBracket(content string, startIndex int, open, close byte) int {
	return findMatching(content, startIndex, open, close, false)
}

func findMatching(content string, startIndex int, open, close byte, heredocs bool) int {
	depth := 0
	index := startIndex
	length := len(content)

	for index < length {
		ch := content[index]
		var next byte
		if index+1 < length {
			next = content[index+1]
		}

		if IsQuote(ch) {
			index = SkipString(content, index)
			continue
		}

		if ch == '/' && next == '*' {
			end := strings.Index(content[index+2:], "*/")
			if end == -1 {
				return -1
			}
			index += 2 + end + 2
			continue
		}

		if ch == '/' && next == '/' {
			index = skipToLineEnd(content, index+2)
			continue
		}

		if ch == '#' {
			index = skipToLineEnd(content, index+1)
			continue
		}

		if heredocs && ch == '<' && next == '<' {
			index = SkipHeredoc(content, index)
			continue
		}

		if ch == open {
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return index
			}
		}

		index++
	}

	return -1
}

// ReadIdentifier reads an identifier matching [A-Za-z_][\w-]* at start, or
// returns the empty string.
func ReadIdentifier(text string, start int) string {
	return identifierPattern.FindString(text[start:])
}

// ReadDottedIdentifier reads an identifier that may contain dots, such as
// aws_instance.main.id.
func ReadDottedIdentifier(text string, start int) string {
	return dottedIdentifierPattern.FindString(text[start:])
}

// ReadQuotedString reads a quoted string starting at start and returns its
// unescaped value and the position after the closing quote. Handles the
// escape sequences \\, \<quote>, \n, \t and \r.
func ReadQuotedString(text string, start int) (string, int) {
	quote := text[start]
	length := len(text)
	var value strings.Builder

	index := start + 1
	for index < length {
		ch := text[index]

		if ch == quote && !IsEscaped(text, index) {
			return value.String(), index + 1
		}

		if ch == '\\' && index+1 < length {
			next := text[index+1]
			switch next {
			case quote, '\\':
				value.WriteByte(next)
				index += 2
				continue
			case 'n':
				value.WriteByte('\n')
				index += 2
				continue
			case 't':
				value.WriteByte('\t')
				index += 2
				continue
			case 'r':
				value.WriteByte('\r')
				index += 2
				continue
			}
		}

		value.WriteByte(ch)
		index++
	}

	return value.String(), length
}

// ReadValue reads one attribute's raw value span starting at start and
// returns the trimmed span plus the position after it. Heredocs are
// consumed whole; otherwise the scan tracks bracket, paren and brace depth
// (clamped at zero) while skipping strings and comments, and stops at a
// depth-zero newline.
func ReadValue(text string, start int) (string, int) {
	index := SkipWhitespaceAndComments(text, start)
	valueStart := index
	length := len(text)

	if strings.HasPrefix(text[index:], "<<") {
		newlineIndex := strings.IndexByte(text[index:], '\n')
		firstLine := text[index:]
		searchFrom := index
		if newlineIndex != -1 {
			firstLine = text[index : index+newlineIndex]
			searchFrom = index + newlineIndex
		}
		if match := heredocPattern.FindStringSubmatch(firstLine); match != nil {
			marker := match[1]
			terminator := strings.Index(text[searchFrom:], "\n"+marker)
			if terminator != -1 {
				terminator += searchFrom
				endIndex := length
				if end := strings.IndexByte(text[terminator+len(marker)+1:], '\n'); end != -1 {
					endIndex = terminator + len(marker) + 1 + end
				}
				return strings.TrimSpace(text[valueStart:endIndex]), endIndex
			}
		}
	}

	depth := 0
	inString := false
	var stringChar byte

	for index < length {
		ch := text[index]
		var next byte
		if index+1 < length {
			next = text[index+1]
		}

		if !inString {
			if IsQuote(ch) {
				inString = true
				stringChar = ch
				index++
				continue
			}

			if ch == '/' && next == '*' {
				end := strings.Index(text[index+2:], "*/")
				if end == -1 {
					index = length
				} else {
					index += 2 + end + 2
				}
				continue
			}

			if ch == '/' && next == '/' {
				index = skipToLineEnd(text, index+2)
				continue
			}

			switch ch {
			case '{', '[', '(':
				depth++
			case '}', ']', ')':
				if depth > 0 {
					depth--
				}
			}

			if (ch == '\n' || ch == '\r') && depth == 0 {
				break
			}
		} else if ch == stringChar && !IsEscaped(text, index) {
			inString = false
		}

		index++
	}

	return strings.TrimSpace(text[valueStart:index]), index
}

// SplitArrayElements splits an array literal, brackets included, into its
// trimmed top-level elements, honoring nested brackets and strings.
func SplitArrayElements(raw string) []string {
	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if inner == "" {
		return nil
	}

	var elements []string
	var current strings.Builder
	depth := 0
	inString := false
	var stringChar byte

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			elements = append(elements, chunk)
		}
		current.Reset()
	}

	for i := 0; i < len(inner); i++ {
		ch := inner[i]

		if inString {
			current.WriteByte(ch)
			if ch == stringChar && !IsEscaped(inner, i) {
				inString = false
			}
			continue
		}

		switch {
		case IsQuote(ch):
			inString = true
			stringChar = ch
			current.WriteByte(ch)
		case ch == '{' || ch == '[' || ch == '(':
			depth++
			current.WriteByte(ch)
		case ch == '}' || ch == ']' || ch == ')':
			depth--
			current.WriteByte(ch)
		case ch == ',' && depth == 0:
			flush()
		default:
			current.WriteByte(ch)
		}
	}

	flush()
	return elements
}

// ObjectEntry is one key/value pair of an object literal
type ObjectEntry struct {
	Key   string
	Value string
}

// SplitObjectEntries splits an object literal, braces included, into its
// top-level key/value entries. Keys may be identifiers or quoted strings;
// the separator may be = or :.
func SplitObjectEntries(raw string) []ObjectEntry {
	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if inner == "" {
		return nil
	}

	var entries []ObjectEntry
	index := 0
	length := len(inner)

	for index < length {
		index = SkipWhitespaceAndComments(inner, index)
		if index >= length {
			break
		}

		var key string
		if IsQuote(inner[index]) {
			key, index = ReadQuotedString(inner, index)
		} else {
			key = ReadDottedIdentifier(inner, index)
			index += len(key)
		}

		if key == "" {
			index++
			continue
		}

		index = SkipWhitespaceAndComments(inner, index)
		if index < length && (inner[index] == '=' || inner[index] == ':') {
			index++
		}

		var valueRaw string
		valueRaw, index = readObjectValue(inner, index)
		entries = append(entries, ObjectEntry{Key: key, Value: valueRaw})

		index = SkipWhitespaceAndComments(inner, index)
		if index < length && inner[index] == ',' {
			index++
		}
	}

	return entries
}

// readObjectValue reads a value span inside an object literal, stopping at
// a top-level comma, newline or closing bracket.
func readObjectValue(text string, start int) (string, int) {
	index := SkipWhitespaceAndComments(text, start)
	valueStart := index
	length := len(text)

	depth := 0
	inString := false
	var stringChar byte

	for index < length {
		ch := text[index]

		if inString {
			if ch == stringChar && !IsEscaped(text, index) {
				inString = false
			}
			index++
			continue
		}

		if IsQuote(ch) {
			inString = true
			stringChar = ch
			index++
			continue
		}

		switch ch {
		case '{', '[', '(':
			depth++
			index++
			continue
		case '}', ']', ')':
			if depth == 0 {
				return strings.TrimSpace(text[valueStart:index]), index
			}
			depth--
			index++
			continue
		}

		if (ch == ',' || ch == '\n') && depth == 0 {
			break
		}

		index++
	}

	return strings.TrimSpace(text[valueStart:index]), index
}
