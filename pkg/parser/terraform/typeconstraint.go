package terraform

import (
	"regexp"
	"strings"

	"github.com/hclgraph/hclgraph/pkg/types"
)

var (
	collectionPattern = regexp.MustCompile(`^(list|set|map)\s*\(\s*([\s\S]*)\s*\)$`)
	optionalPattern   = regexp.MustCompile(`^optional\s*\(\s*([\s\S]*)\s*\)$`)
	tuplePattern      = regexp.MustCompile(`^tuple\s*\(\s*\[([\s\S]*)\]\s*\)$`)
	objectPattern     = regexp.MustCompile(`^object\s*\(\s*\{([\s\S]*)\}\s*\)$`)
	objectAttrPattern = regexp.MustCompile(`^(\w+)\s*=\s*([\s\S]+)$`)
)

var primitiveTypes = map[string]struct{}{
	"string": {},
	"number": {},
	"bool":   {},
	"any":    {},
}

// ParseTypeConstraint parses a variable type expression into a structured
// constraint. Primitives are string, number, bool and any; collections are
// list(T), set(T) and map(T); structural types are tuple([...]) and
// object({...}); optional(T) marks an object attribute optional. Anything
// unrecognized keeps the trimmed expression as its base.
func ParseTypeConstraint(raw string) *types.TypeConstraint {
	trimmed := strings.TrimSpace(raw)

	if _, ok := primitiveTypes[trimmed]; ok {
		return &types.TypeConstraint{Base: trimmed, Raw: trimmed}
	}

	if match := collectionPattern.FindStringSubmatch(trimmed); match != nil {
		return &types.TypeConstraint{
			Base:    match[1],
			Element: ParseTypeConstraint(strings.TrimSpace(match[2])),
			Raw:     trimmed,
		}
	}

	if match := optionalPattern.FindStringSubmatch(trimmed); match != nil {
		inner := ParseTypeConstraint(strings.TrimSpace(match[1]))
		result := *inner
		result.Optional = true
		result.Raw = trimmed
		return &result
	}

	if match := tuplePattern.FindStringSubmatch(trimmed); match != nil {
		return &types.TypeConstraint{
			Base:     "tuple",
			Elements: parseTupleElements(strings.TrimSpace(match[1])),
			Raw:      trimmed,
		}
	}

	if match := objectPattern.FindStringSubmatch(trimmed); match != nil {
		return &types.TypeConstraint{
			Base:       "object",
			Attributes: parseObjectAttributes(match[1]),
			Raw:        trimmed,
		}
	}

	return &types.TypeConstraint{Base: trimmed, Raw: trimmed}
}

func parseTupleElements(inner string) []*types.TypeConstraint {
	var elements []*types.TypeConstraint
	for _, entry := range splitTypeEntries(inner) {
		elements = append(elements, ParseTypeConstraint(entry))
	}
	return elements
}

func parseObjectAttributes(inner string) map[string]*types.TypeConstraint {
	attributes := map[string]*types.TypeConstraint{}
	for _, entry := range splitTypeEntries(inner) {
		if match := objectAttrPattern.FindStringSubmatch(entry); match != nil {
			attributes[match[1]] = ParseTypeConstraint(strings.TrimSpace(match[2]))
		}
	}
	if len(attributes) == 0 {
		return nil
	}
	return attributes
}

// splitTypeEntries splits on top-level commas, tracking bracket depth so
// nested type expressions stay intact.
func splitTypeEntries(inner string) []string {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return nil
	}

	var entries []string
	var current strings.Builder
	depth := 0

	flush := func() {
		entry := strings.TrimSpace(current.String())
		if entry != "" {
			entries = append(entries, entry)
		}
		current.Reset()
	}

	for i := 0; i < len(trimmed); i++ {
		ch := trimmed[i]
		switch {
		case ch == '(' || ch == '{' || ch == '[':
			depth++
			current.WriteByte(ch)
		case ch == ')' || ch == '}' || ch == ']':
			depth--
			current.WriteByte(ch)
		case ch == ',' && depth == 0:
			flush()
		default:
			current.WriteByte(ch)
		}
	}

	flush()
	return entries
}
