// Package parser turns scanned block bodies into attributes, nested
// blocks, and classified values with their extracted references.
package parser

import (
	"github.com/hclgraph/hclgraph/pkg/lexer"
	"github.com/hclgraph/hclgraph/pkg/types"
)

// ParseBody parses a block body (the text between the outer braces) into
// attribute assignments and nested blocks. A later assignment to the same
// attribute name overwrites the earlier one. A nested block whose closing
// brace is missing consumes the rest of the body.
func ParseBody(body string) *types.ParsedBody {
	attributes := map[string]types.Value{}
	var blocks []*types.NestedBlock

	index := 0
	length := len(body)

	for index < length {
		index = lexer.SkipWhitespaceAndComments(body, index)
		if index >= length {
			break
		}

		identifierStart := index
		identifier := lexer.ReadDottedIdentifier(body, index)
		if identifier == "" {
			index++
			continue
		}

		index += len(identifier)
		index = lexer.SkipWhitespaceAndComments(body, index)

		if index < length && body[index] == '=' {
			raw, end := lexer.ReadValue(body, index+1)
			attributes[identifier] = ClassifyValue(raw)
			index = end
			continue
		}

		var labels []string
		for index < length && lexer.IsQuote(body[index]) {
			label, end := lexer.ReadQuotedString(body, index)
			labels = append(labels, label)
			index = lexer.SkipWhitespaceAndComments(body, end)
		}

		if index < length && body[index] == '{' {
			closeIndex := lexer.FindMatchingBrace(body, index)

			var innerBody, rawBlock string
			if closeIndex == -1 {
				innerBody = body[index+1:]
				rawBlock = body[identifierStart:]
				closeIndex = length - 1
			} else {
				innerBody = body[index+1 : closeIndex]
				rawBlock = body[identifierStart : closeIndex+1]
			}

			parsed := ParseBody(innerBody)
			blocks = append(blocks, &types.NestedBlock{
				Type:       identifier,
				Labels:     labels,
				Attributes: parsed.Attributes,
				Blocks:     parsed.Blocks,
				Raw:        rawBlock,
			})

			index = closeIndex + 1
			continue
		}

		index++
	}

	return &types.ParsedBody{Attributes: attributes, Blocks: blocks}
}

// AttributeNames returns the attribute names assigned in a body, in source
// order, including repeats. The walk mirrors ParseBody without classifying
// values.
func AttributeNames(body string) []string {
	var names []string

	index := 0
	length := len(body)

	for index < length {
		index = lexer.SkipWhitespaceAndComments(body, index)
		if index >= length {
			break
		}

		identifier := lexer.ReadDottedIdentifier(body, index)
		if identifier == "" {
			index++
			continue
		}

		index += len(identifier)
		index = lexer.SkipWhitespaceAndComments(body, index)

		if index < length && body[index] == '=' {
			_, end := lexer.ReadValue(body, index+1)
			names = append(names, identifier)
			index = end
			continue
		}

		for index < length && lexer.IsQuote(body[index]) {
			_, end := lexer.ReadQuotedString(body, index)
			index = lexer.SkipWhitespaceAndComments(body, end)
		}

		if index < length && body[index] == '{' {
			closeIndex := lexer.FindMatchingBrace(body, index)
			if closeIndex == -1 {
				closeIndex = length - 1
			}
			index = closeIndex + 1
			continue
		}

		index++
	}

	return names
}
