package grammar

import "strings"

// atomicKind returns the highlight kind for container nodes that are emitted
// as a single span without descending into children (a string node's quote
// and escape children would otherwise fragment it), or "" for everything else.
func atomicKind(kind string) string {
	switch {
	case strings.Contains(kind, "comment"):
		return "comment"
	case strings.Contains(kind, "string"), strings.Contains(kind, "char"),
		strings.Contains(kind, "heredoc"), strings.Contains(kind, "rune"):
		return "string_literal"
	case strings.Contains(kind, "number"), strings.Contains(kind, "integer"),
		strings.Contains(kind, "float"), strings.Contains(kind, "numeric"),
		kind == "int_literal", kind == "imaginary_literal":
		return "number_literal"
	}
	return ""
}

// booleanLexemes are literal spellings highlighted as keywords across
// grammars regardless of node kind.
var booleanLexemes = map[string]bool{
	"true": true, "false": true, "null": true, "nil": true,
	"True": true, "False": true, "None": true, "undefined": true,
}

// functionContextByLang lists parent node kinds under which an identifier is
// a function name. Checked before the generic substring rules.
var functionContextByLang = map[string]map[string]bool{
	"go": {
		"function_declaration": true, "method_declaration": true,
		"call_expression": true, "selector_expression": true,
	},
	"rust": {
		"function_item": true, "call_expression": true, "field_expression": true,
	},
	"javascript": {
		"function_declaration": true, "method_definition": true,
		"call_expression": true, "member_expression": true,
	},
	"typescript": {
		"function_declaration": true, "method_definition": true,
		"call_expression": true, "member_expression": true,
	},
	"python": {
		"function_definition": true, "call": true, "attribute": true,
	},
	"c": {
		"function_definition": true, "call_expression": true,
	},
	"cpp": {
		"function_definition": true, "call_expression": true,
	},
}

// typeContextByLang lists parent node kinds under which an identifier names
// a type.
var typeContextByLang = map[string]map[string]bool{
	"go": {
		"type_spec": true, "type_declaration": true,
		"parameter_declaration": true, "var_declaration": true,
	},
	"rust": {
		"struct_item": true, "enum_item": true, "trait_item": true, "type_item": true,
	},
}

func isIdentifierKind(kind string) bool {
	return kind == "identifier" || kind == "name" ||
		strings.HasSuffix(kind, "identifier") || strings.HasSuffix(kind, "_name")
}

const (
	operatorChars    = "+-*/%=<>!&|^~?"
	punctuationChars = "()[]{},;:.@#$"
)

// classifyToken maps one leaf node to a highlight kind, or "" when the token
// is plain text. parentKind gives syntactic context for identifiers; text is
// the token's source bytes.
func classifyToken(language, kind string, named bool, parentKind, text string) string {
	if kind == "ERROR" || strings.Contains(kind, "error") || strings.Contains(kind, "invalid") {
		return "error"
	}
	if k := atomicKind(kind); k != "" {
		return k
	}
	if booleanLexemes[text] {
		return "keyword"
	}
	if strings.HasSuffix(kind, "keyword") {
		return "keyword"
	}
	switch kind {
	case "type_identifier", "primitive_type", "predefined_type":
		return "type_name"
	}
	if named && isIdentifierKind(kind) {
		if functionContextByLang[language][parentKind] {
			return "function_name"
		}
		if typeContextByLang[language][parentKind] {
			return "type_name"
		}
		if identifierContext(parentKind, "function", "method", "call") {
			return "function_name"
		}
		if identifierContext(parentKind, "type", "class", "struct", "interface", "trait") {
			return "type_name"
		}
		return "variable"
	}
	if !named {
		return classifyAnonymous(text)
	}
	return ""
}

func identifierContext(kind string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(kind, w) {
			return true
		}
	}
	return false
}

// classifyAnonymous handles unnamed tokens: reserved words, operators, and
// delimiters. Anonymous alphabetic tokens are the grammar's reserved words.
func classifyAnonymous(text string) string {
	if text == "" {
		return ""
	}
	if isAlphaToken(text) {
		return "keyword"
	}
	if len(text) == 1 {
		switch {
		case strings.ContainsRune(punctuationChars, rune(text[0])):
			return "punctuation"
		case strings.ContainsRune(operatorChars, rune(text[0])):
			return "operator"
		}
		return ""
	}
	hasOp := false
	for _, r := range text {
		switch {
		case strings.ContainsRune(operatorChars, r):
			hasOp = true
		case strings.ContainsRune(punctuationChars, r):
		default:
			return ""
		}
	}
	if hasOp {
		return "operator"
	}
	return "punctuation"
}

func isAlphaToken(text string) bool {
	for _, r := range text {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
