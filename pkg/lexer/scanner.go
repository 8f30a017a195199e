package lexer

import (
	"regexp"
	"strings"

	"github.com/hclgraph/hclgraph/pkg/logger"
	"github.com/hclgraph/hclgraph/pkg/types"
)

// knownBlocks are the top-level keywords mapped to their own BlockKind;
// anything else scans as BlockUnknown.
var knownBlocks = map[string]types.BlockKind{
	"terraform":      types.BlockTerraform,
	"locals":         types.BlockLocals,
	"provider":       types.BlockProvider,
	"variable":       types.BlockVariable,
	"output":         types.BlockOutput,
	"module":         types.BlockModule,
	"resource":       types.BlockResource,
	"data":           types.BlockData,
	"moved":          types.BlockMoved,
	"import":         types.BlockImport,
	"check":          types.BlockCheck,
	"terraform_data": types.BlockTerraformData,
}

// Scanner extracts top-level blocks from HCL source. In strict mode an
// unclosed block is a ParseError; otherwise it is logged as a warning and
// scanning of the file stops, keeping the blocks found so far.
type Scanner struct {
	strict bool
}

// NewScanner returns a scanner. Pass strict=true to turn syntax errors
// into ParseError instead of warnings.
func NewScanner(strict bool) *Scanner {
	return &Scanner{strict: strict}
}

// Scan walks content and returns every top-level block in source order.
// Stray top-level strings are skipped; an identifier not followed by
// labels and an opening brace is not a block, and scanning resumes right
// after it.
func (s *Scanner) Scan(content, source string) ([]*types.HclBlock, error) {
	var blocks []*types.HclBlock
	length := len(content)
	index := 0

	for index < length {
		index = SkipWhitespaceAndComments(content, index)
		if index >= length {
			break
		}

		if IsQuote(content[index]) {
			index = SkipString(content, index)
			continue
		}

		identifierStart := index
		keyword := ReadIdentifier(content, index)
		if keyword == "" {
			index++
			continue
		}

		index += len(keyword)
		index = SkipWhitespaceAndComments(content, index)

		var labels []string
		for index < length && IsQuote(content[index]) {
			label, end := ReadQuotedString(content, index)
			labels = append(labels, label)
			index = SkipWhitespaceAndComments(content, end)
		}

		if index >= length || content[index] != '{' {
			index = identifierStart + len(keyword)
			continue
		}

		braceIndex := index
		endIndex := FindMatchingBrace(content, braceIndex)
		if endIndex == -1 {
			location := types.OffsetToLocation(content, braceIndex)
			message := "Unclosed block '" + keyword + "': missing closing '}'"
			if s.strict {
				return blocks, &types.ParseError{
					Message:  message,
					Source:   source,
					Location: location,
				}
			}
			logger.Warn("%s in %s:%d:%d", message, source, location.Line, location.Column)
			break
		}

		kind, ok := knownBlocks[keyword]
		if !ok {
			kind = types.BlockUnknown
		}

		blocks = append(blocks, &types.HclBlock{
			Kind:    kind,
			Keyword: keyword,
			Labels:  labels,
			Body:    strings.TrimSpace(content[braceIndex+1 : endIndex]),
			Raw:     normalizeRaw(content[identifierStart : endIndex+1]),
			Source:  source,
		})

		index = endIndex + 1
	}

	return blocks, nil
}

var (
	alignBeforeEquals = regexp.MustCompile(`\s{2,}=\s*`)
	alignAfterEquals  = regexp.MustCompile(`\s*=\s{2,}`)
)

// normalizeRaw trims the block text, strips the common indentation of the
// continuation lines, and collapses runs of spaces around equals signs.
// Applying it to already normalized text changes nothing.
func normalizeRaw(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lines := strings.Split(trimmed, "\n")

	if len(lines) == 1 {
		return lines[0]
	}

	minIndent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == -1 {
		minIndent = 0
	}

	normalized := make([]string, len(lines))
	for i, line := range lines {
		if i == 0 {
			line = strings.TrimLeft(line, " \t")
		} else if len(line) >= minIndent {
			line = line[minIndent:]
		}
		line = alignBeforeEquals.ReplaceAllString(line, " = ")
		line = alignAfterEquals.ReplaceAllString(line, " = ")
		normalized[i] = strings.TrimRight(line, " \t")
	}

	return strings.Join(normalized, "\n")
}
