package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hclgraph/hclgraph/pkg/lexer"
	"github.com/hclgraph/hclgraph/pkg/types"
)

var (
	// traversalPattern matches dotted traversals such as aws_instance.web.id,
	// with optional bracket indexes on each segment.
	traversalPattern = regexp.MustCompile(`[A-Za-z_][\w-]*(?:\[(?:[^[\]]*|\*)])?(?:\.[A-Za-z_][\w-]*(?:\[(?:[^[\]]*|\*)])?)+`)

	splatPattern         = regexp.MustCompile(`\[\*]`)
	numberPattern        = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)
	functionCallPattern  = regexp.MustCompile(`^[\w.-]+\(`)
	forArrayPattern      = regexp.MustCompile(`^\[\s*for\s+.+\s+in\s+.+:\s+`)
	forObjectPattern     = regexp.MustCompile(`^\{\s*for\s+.+\s+in\s+.+:\s+`)
	bareTraversalPattern = regexp.MustCompile(`^[\w.-]+(\[[^\]]*])?$`)
	interpolationPattern = regexp.MustCompile(`\$\{([^}]+)}`)
	bracketIndexPattern  = regexp.MustCompile(`\[.*?]`)

	eachRefPattern  = regexp.MustCompile(`\beach\.(key|value)\b`)
	countRefPattern = regexp.MustCompile(`\bcount\.index\b`)
	selfRefPattern  = regexp.MustCompile(`\bself\.([\w-]+)`)
)

// ClassifyValue turns a raw value span into a typed Value. Literals are
// tried first, then quoted strings (which become template expressions when
// they interpolate), heredocs, arrays, objects, and finally expressions
// with kind detection and reference extraction.
func ClassifyValue(raw string) types.Value {
	trimmed := strings.TrimSpace(raw)

	if lit := classifyLiteral(trimmed); lit != nil {
		return lit
	}

	if isQuotedString(trimmed) {
		inner := unquote(trimmed)
		if strings.Contains(inner, "${") {
			return classifyExpression(inner, types.ExprTemplate)
		}
		return &types.LiteralValue{Value: inner, Raw: trimmed}
	}

	if strings.HasPrefix(trimmed, "<<") {
		return classifyExpression(trimmed, types.ExprTemplate)
	}

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return classifyArray(trimmed)
	}

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return classifyObject(trimmed)
	}

	return classifyExpression(trimmed, "")
}

// classifyLiteral recognizes booleans, numbers and null. A number is a
// float when its text contains a dot or an exponent marker.
func classifyLiteral(raw string) types.Value {
	if raw == "true" || raw == "false" {
		return &types.LiteralValue{Value: raw == "true", Raw: raw}
	}

	if numberPattern.MatchString(raw) {
		if strings.ContainsAny(raw, ".eE") {
			f, err := strconv.ParseFloat(raw, 64)
			if err == nil {
				return &types.LiteralValue{Value: f, Raw: raw}
			}
		} else {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err == nil {
				return &types.LiteralValue{Value: n, Raw: raw}
			}
		}
	}

	if raw == "null" {
		return &types.LiteralValue{Value: nil, Raw: raw}
	}

	return nil
}

func classifyArray(raw string) types.Value {
	var elements []types.Value
	for _, elem := range lexer.SplitArrayElements(raw) {
		elements = append(elements, ClassifyValue(elem))
	}
	return &types.ArrayValue{
		Elements:   elements,
		Raw:        raw,
		References: collectReferences(elements),
	}
}

func classifyObject(raw string) types.Value {
	entries := lexer.SplitObjectEntries(raw)
	parsed := make(map[string]types.Value, len(entries))
	var keys []string
	for _, entry := range entries {
		if _, seen := parsed[entry.Key]; !seen {
			keys = append(keys, entry.Key)
		}
		// a repeated key keeps its original position but the last value
		parsed[entry.Key] = ClassifyValue(entry.Value)
	}
	ordered := make([]types.Value, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, parsed[key])
	}
	var result map[string]types.Value
	if len(parsed) > 0 {
		result = parsed
	}
	return &types.ObjectValue{
		Entries:    result,
		Raw:        raw,
		References: collectReferences(ordered),
	}
}

// collectReferences gathers the references of the given values and of any
// arrays or objects nested inside them, deduplicated in first-seen order.
func collectReferences(values []types.Value) []types.Reference {
	var refs []types.Reference
	for _, value := range values {
		refs = append(refs, value.Refs()...)

		switch v := value.(type) {
		case *types.ArrayValue:
			refs = append(refs, collectReferences(v.Elements)...)
		case *types.ObjectValue:
			nested := make([]types.Value, 0, len(v.Entries))
			for _, entry := range v.Entries {
				nested = append(nested, entry)
			}
			refs = append(refs, collectReferences(nested)...)
		}
	}
	return types.UniqueReferences(refs)
}

func classifyExpression(raw string, forcedKind types.ExpressionKind) types.Value {
	kind := forcedKind
	if kind == "" {
		kind = detectExpressionKind(raw)
	}
	return &types.ExpressionValue{
		Kind:       kind,
		Raw:        raw,
		References: extractExpressionReferences(raw, kind),
	}
}

// detectExpressionKind inspects the expression's surface syntax. The checks
// are ordered: template beats conditional beats function call and the rest.
func detectExpressionKind(raw string) types.ExpressionKind {
	if strings.Contains(raw, "${") {
		return types.ExprTemplate
	}
	if hasConditionalOperator(raw) {
		return types.ExprConditional
	}
	if functionCallPattern.MatchString(raw) {
		return types.ExprFunctionCall
	}
	if forArrayPattern.MatchString(raw) || forObjectPattern.MatchString(raw) {
		return types.ExprForExpr
	}
	if splatPattern.MatchString(raw) {
		return types.ExprSplat
	}
	if bareTraversalPattern.MatchString(raw) {
		return types.ExprTraversal
	}
	return types.ExprUnknown
}

// hasConditionalOperator detects a top-level ternary: a ? at bracket depth
// zero followed by a : at the same depth, ignoring string contents.
func hasConditionalOperator(raw string) bool {
	depth := 0
	inString := false
	var stringChar byte
	questionFound := false
	questionDepth := -1

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			if ch == stringChar && !lexer.IsEscaped(raw, i) {
				inString = false
			}
			continue
		}

		switch ch {
		case '"', '\'':
			inString = true
			stringChar = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '?':
			if depth == 0 {
				questionFound = true
				questionDepth = depth
			}
		case ':':
			if questionFound && depth == questionDepth {
				return true
			}
		}
	}
	return false
}

// extractExpressionReferences extracts references from the whole span; for
// templates it additionally extracts from each ${...} interpolation body.
func extractExpressionReferences(raw string, kind types.ExpressionKind) []types.Reference {
	baseRefs := extractReferencesFromText(raw)

	if kind == types.ExprTemplate {
		refs := baseRefs
		for _, match := range interpolationPattern.FindAllStringSubmatch(raw, -1) {
			refs = append(refs, extractReferencesFromText(match[1])...)
		}
		return types.UniqueReferences(refs)
	}

	return baseRefs
}

// extractReferencesFromText finds every reference in a text span: the
// special forms each.key/value, count.index and self.attr, then dotted
// traversals classified by their first segment. Traversals starting with
// each, count or self are left to the special pass.
func extractReferencesFromText(raw string) []types.Reference {
	refs := extractSpecialReferences(raw)

	for _, match := range traversalPattern.FindAllString(raw, -1) {
		hasSplat := strings.Contains(match, "[*]")
		segments := strings.Split(match, ".")
		parts := make([]string, len(segments))
		for i, segment := range segments {
			parts[i] = bracketIndexPattern.ReplaceAllString(segment, "")
		}

		switch {
		case parts[0] == "var" && len(parts) > 1:
			refs = append(refs, types.VariableRef{Name: parts[1]})

		case parts[0] == "local" && len(parts) > 1:
			refs = append(refs, types.LocalRef{Name: parts[1]})

		case parts[0] == "module" && len(parts) > 1:
			name := strings.Join(parts[2:], ".")
			if name == "" {
				name = parts[1]
			}
			refs = append(refs, types.ModuleOutputRef{Module: parts[1], Name: name})

		case parts[0] == "data" && len(parts) > 2:
			refs = append(refs, types.DataRef{
				DataType:  parts[1],
				Name:      parts[2],
				Attribute: strings.Join(parts[3:], "."),
				Splat:     hasSplat,
			})

		case parts[0] == "path" && len(parts) > 1:
			refs = append(refs, types.PathRef{Name: parts[1]})

		case parts[0] == "each" || parts[0] == "count" || parts[0] == "self":
			// covered by the special pass

		case len(parts) >= 2:
			refs = append(refs, types.ResourceRef{
				ResourceType: parts[0],
				Name:         parts[1],
				Attribute:    strings.Join(parts[2:], "."),
				Splat:        hasSplat,
			})
		}
	}

	return types.UniqueReferences(refs)
}

func extractSpecialReferences(raw string) []types.Reference {
	var refs []types.Reference
	for _, match := range eachRefPattern.FindAllStringSubmatch(raw, -1) {
		refs = append(refs, types.EachRef{Property: match[1]})
	}
	if countRefPattern.MatchString(raw) {
		refs = append(refs, types.CountRef{Property: "index"})
	}
	for _, match := range selfRefPattern.FindAllStringSubmatch(raw, -1) {
		refs = append(refs, types.SelfRef{Attribute: match[1]})
	}
	return refs
}

func isQuotedString(value string) bool {
	if len(value) < 2 {
		return false
	}
	return (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
		(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'"))
}

// unquote strips the surrounding quotes and resolves the escape sequences
// \n, \t, \r, \\ and the escaped quote character.
func unquote(value string) string {
	quote := value[0]
	inner := value[1 : len(value)-1]
	var result strings.Builder

	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			switch inner[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
				continue
			case 't':
				result.WriteByte('\t')
				i++
				continue
			case 'r':
				result.WriteByte('\r')
				i++
				continue
			case '\\', quote:
				result.WriteByte(inner[i+1])
				i++
				continue
			}
		}
		result.WriteByte(inner[i])
	}
	return result.String()
}
