package types

import "fmt"

// SourceLocation represents a position in source text
type SourceLocation struct {
	Line   int `json:"line"`   // 1-based
	Column int `json:"column"` // 1-based
	Offset int `json:"offset"` // 0-based
}

// SourceRange represents a span in source text from start to end
type SourceRange struct {
	Start SourceLocation `json:"start"`
	End   SourceLocation `json:"end"`
}

// ParseError is returned when HCL parsing fails in strict mode
type ParseError struct {
	Message  string
	Source   string
	Location SourceLocation
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s:%d:%d", e.Message, e.Source, e.Location.Line, e.Location.Column)
}

// OffsetToLocation derives line and column numbers from a character offset
// by counting newlines up to the offset.
func OffsetToLocation(content string, offset int) SourceLocation {
	if offset > len(content) {
		offset = len(content)
	}

	line := 1
	column := 1
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}

	return SourceLocation{Line: line, Column: column, Offset: offset}
}

// OffsetsToRange builds a SourceRange from start and end offsets
func OffsetsToRange(content string, startOffset, endOffset int) SourceRange {
	return SourceRange{
		Start: OffsetToLocation(content, startOffset),
		End:   OffsetToLocation(content, endOffset),
	}
}
