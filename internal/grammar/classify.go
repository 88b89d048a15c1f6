package grammar

import (
	"strings"
	"sync"
)

// construct is the canonical construct category a node kind belongs to.
// Feature extraction consults constructs, never raw kind strings, so adding
// a grammar is a table change.
type construct int

const (
	constructNone       construct = iota
	constructFunction             // function and method declarations
	constructType                 // struct/class/enum/union/interface/trait declarations
	constructBlock                // braced or indented bodies
	constructBranch               // if/for/while/switch and friends
	constructStatement            // declarations, returns, assignments, other statements
	constructExpression           // calls and composite expressions
	constructVarDecl              // variable and constant definition sites
)

// kindTable lists, for one language, the grammar-specific node kinds of each
// canonical construct. Kinds absent from every list fall through to the
// suffix heuristics in genericConstruct.
type kindTable struct {
	functions   []string
	types       []string
	blocks      []string
	branches    []string
	statements  []string
	expressions []string
	varDecls    []string
}

var kindTables = map[string]kindTable{
	"go": {
		functions: []string{"function_declaration", "method_declaration", "func_literal"},
		types:     []string{"type_spec", "struct_type", "interface_type"},
		blocks:    []string{"block", "literal_value"},
		branches: []string{"if_statement", "for_statement", "expression_switch_statement",
			"type_switch_statement", "select_statement"},
		statements: []string{"return_statement", "go_statement", "defer_statement",
			"expression_statement", "assignment_statement", "inc_statement", "dec_statement",
			"break_statement", "continue_statement", "labeled_statement",
			"var_declaration", "const_declaration", "type_declaration",
			"import_declaration", "package_clause"},
		expressions: []string{"call_expression", "binary_expression", "unary_expression",
			"selector_expression", "index_expression", "slice_expression",
			"type_assertion_expression", "composite_literal", "parenthesized_expression"},
		varDecls: []string{"var_spec", "const_spec", "short_var_declaration",
			"parameter_declaration", "field_declaration", "type_parameter_declaration"},
	},
	"javascript": {
		functions: []string{"function_declaration", "function_expression", "function",
			"generator_function_declaration", "generator_function", "arrow_function",
			"method_definition"},
		types:  []string{"class_declaration", "class"},
		blocks: []string{"statement_block", "class_body", "switch_body", "object"},
		branches: []string{"if_statement", "for_statement", "for_in_statement",
			"while_statement", "do_statement", "switch_statement", "try_statement"},
		statements: []string{"return_statement", "expression_statement", "lexical_declaration",
			"variable_declaration", "export_statement", "import_statement",
			"throw_statement", "break_statement", "continue_statement", "labeled_statement"},
		expressions: []string{"call_expression", "new_expression", "binary_expression",
			"unary_expression", "member_expression", "subscript_expression",
			"assignment_expression", "ternary_expression", "array",
			"parenthesized_expression"},
		varDecls: []string{"variable_declarator"},
	},
	"typescript": {
		functions: []string{"function_declaration", "function_expression", "function",
			"generator_function_declaration", "generator_function", "arrow_function",
			"method_definition", "method_signature"},
		types: []string{"class_declaration", "abstract_class_declaration", "class",
			"interface_declaration", "type_alias_declaration", "enum_declaration"},
		blocks: []string{"statement_block", "class_body", "interface_body", "enum_body",
			"switch_body", "object", "object_type"},
		branches: []string{"if_statement", "for_statement", "for_in_statement",
			"while_statement", "do_statement", "switch_statement", "try_statement"},
		statements: []string{"return_statement", "expression_statement", "lexical_declaration",
			"variable_declaration", "export_statement", "import_statement",
			"throw_statement", "break_statement", "continue_statement", "labeled_statement",
			"ambient_declaration"},
		expressions: []string{"call_expression", "new_expression", "binary_expression",
			"unary_expression", "member_expression", "subscript_expression",
			"assignment_expression", "ternary_expression", "array", "as_expression",
			"parenthesized_expression"},
		varDecls: []string{"variable_declarator", "required_parameter", "optional_parameter",
			"public_field_definition", "property_signature"},
	},
	"python": {
		functions: []string{"function_definition", "lambda"},
		types:     []string{"class_definition"},
		blocks:    []string{"block", "dictionary"},
		branches: []string{"if_statement", "for_statement", "while_statement",
			"try_statement", "with_statement", "match_statement"},
		statements: []string{"return_statement", "expression_statement", "import_statement",
			"import_from_statement", "raise_statement", "pass_statement",
			"break_statement", "continue_statement", "global_statement",
			"decorated_definition"},
		expressions: []string{"call", "binary_operator", "unary_operator", "attribute",
			"subscript", "comparison_operator", "boolean_operator",
			"conditional_expression", "list", "parenthesized_expression"},
		varDecls: []string{"assignment", "default_parameter"},
	},
	"rust": {
		functions: []string{"function_item", "closure_expression"},
		types: []string{"struct_item", "enum_item", "union_item", "trait_item",
			"type_item", "impl_item", "mod_item"},
		blocks: []string{"block", "match_block", "declaration_list",
			"field_declaration_list", "enum_variant_list"},
		branches: []string{"if_expression", "for_expression", "while_expression",
			"loop_expression", "match_expression"},
		statements: []string{"expression_statement", "use_declaration", "return_expression",
			"empty_statement", "macro_definition"},
		expressions: []string{"call_expression", "macro_invocation", "binary_expression",
			"unary_expression", "field_expression", "index_expression",
			"reference_expression", "try_expression", "await_expression",
			"struct_expression", "tuple_expression", "array_expression",
			"parenthesized_expression"},
		varDecls: []string{"let_declaration", "const_item", "static_item", "parameter",
			"field_declaration", "enum_variant"},
	},
	"c": {
		functions: []string{"function_definition"},
		types: []string{"struct_specifier", "enum_specifier", "union_specifier",
			"type_definition"},
		blocks: []string{"compound_statement", "enumerator_list",
			"field_declaration_list", "initializer_list"},
		branches: []string{"if_statement", "for_statement", "while_statement",
			"do_statement", "switch_statement", "case_statement"},
		statements: []string{"return_statement", "expression_statement", "break_statement",
			"continue_statement", "goto_statement", "preproc_include"},
		expressions: []string{"call_expression", "binary_expression", "unary_expression",
			"assignment_expression", "field_expression", "subscript_expression",
			"pointer_expression", "cast_expression", "conditional_expression",
			"update_expression", "parenthesized_expression"},
		varDecls: []string{"declaration", "parameter_declaration", "field_declaration",
			"enumerator", "preproc_def"},
	},
	"cpp": {
		functions: []string{"function_definition", "lambda_expression"},
		types: []string{"struct_specifier", "class_specifier", "enum_specifier",
			"union_specifier", "type_definition", "namespace_definition"},
		blocks: []string{"compound_statement", "enumerator_list",
			"field_declaration_list", "initializer_list"},
		branches: []string{"if_statement", "for_statement", "for_range_loop",
			"while_statement", "do_statement", "switch_statement", "case_statement",
			"try_statement"},
		statements: []string{"return_statement", "expression_statement", "break_statement",
			"continue_statement", "goto_statement", "preproc_include",
			"template_declaration", "throw_statement"},
		expressions: []string{"call_expression", "binary_expression", "unary_expression",
			"assignment_expression", "field_expression", "subscript_expression",
			"pointer_expression", "cast_expression", "conditional_expression",
			"update_expression", "new_expression", "delete_expression",
			"parenthesized_expression"},
		varDecls: []string{"declaration", "parameter_declaration",
			"optional_parameter_declaration", "field_declaration", "enumerator",
			"preproc_def"},
	},
	"java": {
		functions: []string{"method_declaration", "constructor_declaration",
			"lambda_expression"},
		types: []string{"class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration"},
		blocks: []string{"block", "class_body", "interface_body", "enum_body",
			"constructor_body", "array_initializer", "switch_block"},
		branches: []string{"if_statement", "for_statement", "enhanced_for_statement",
			"while_statement", "do_statement", "switch_expression", "try_statement",
			"try_with_resources_statement"},
		statements: []string{"return_statement", "expression_statement", "throw_statement",
			"break_statement", "continue_statement", "import_declaration",
			"package_declaration", "local_variable_declaration", "field_declaration"},
		expressions: []string{"method_invocation", "object_creation_expression",
			"binary_expression", "unary_expression", "assignment_expression",
			"field_access", "array_access", "ternary_expression", "cast_expression",
			"parenthesized_expression"},
		varDecls: []string{"variable_declarator", "formal_parameter", "enum_constant",
			"catch_formal_parameter"},
	},
	"php": {
		functions: []string{"function_definition", "method_declaration", "arrow_function",
			"anonymous_function_creation_expression"},
		types: []string{"class_declaration", "interface_declaration", "trait_declaration",
			"enum_declaration"},
		blocks: []string{"compound_statement", "declaration_list"},
		branches: []string{"if_statement", "foreach_statement", "for_statement",
			"while_statement", "do_statement", "switch_statement", "try_statement",
			"match_expression"},
		statements: []string{"return_statement", "expression_statement", "echo_statement",
			"namespace_definition", "namespace_use_declaration", "global_declaration",
			"break_statement", "continue_statement", "property_declaration",
			"const_declaration"},
		expressions: []string{"function_call_expression", "member_call_expression",
			"scoped_call_expression", "object_creation_expression", "binary_expression",
			"unary_op_expression", "assignment_expression", "member_access_expression",
			"subscript_expression", "conditional_expression", "parenthesized_expression"},
		varDecls: []string{"simple_parameter"},
	},
	"ruby": {
		functions: []string{"method", "singleton_method", "lambda"},
		types:     []string{"class", "module", "singleton_class"},
		blocks:    []string{"do_block", "block", "body_statement", "begin"},
		branches:  []string{"if", "unless", "while", "until", "for", "case"},
		statements: []string{"return", "alias", "break", "next",
			"operator_assignment"},
		expressions: []string{"call", "binary", "unary", "element_reference",
			"conditional", "parenthesized_statements"},
		varDecls: []string{"assignment", "optional_parameter", "keyword_parameter"},
	},
	"bash": {
		functions: []string{"function_definition"},
		blocks:    []string{"compound_statement", "do_group", "subshell"},
		branches: []string{"if_statement", "for_statement", "while_statement",
			"case_statement"},
		statements:  []string{"command", "declaration_command", "unset_command"},
		expressions: []string{"command_substitution", "pipeline", "list"},
		varDecls:    []string{"variable_assignment"},
	},
	"lua": {
		functions: []string{"function_declaration", "function_definition"},
		blocks:    []string{"block", "table_constructor"},
		branches: []string{"if_statement", "for_statement", "while_statement",
			"repeat_statement"},
		statements: []string{"return_statement"},
	},
	"css": {
		blocks: []string{"block", "rule_set", "keyframe_block_list"},
	},
	"html": {
		blocks: []string{"element", "script_element", "style_element"},
	},
	"yaml": {
		blocks: []string{"block_mapping", "block_sequence", "flow_mapping", "flow_sequence"},
	},
	"toml": {
		blocks: []string{"table", "array_table", "inline_table", "array"},
	},
}

// constructIndex is kindTables flattened to kind → construct per language,
// built once. tsx shares the typescript table.
var (
	constructIndex map[string]map[string]construct
	constructOnce  sync.Once
)

func initConstructs() {
	constructOnce.Do(func() {
		constructIndex = make(map[string]map[string]construct, len(kindTables)+1)
		for lang, table := range kindTables {
			idx := make(map[string]construct)
			add := func(kinds []string, c construct) {
				for _, k := range kinds {
					idx[k] = c
				}
			}
			add(table.expressions, constructExpression)
			add(table.statements, constructStatement)
			add(table.branches, constructBranch)
			add(table.blocks, constructBlock)
			add(table.varDecls, constructVarDecl)
			add(table.types, constructType)
			add(table.functions, constructFunction)
			constructIndex[lang] = idx
		}
		constructIndex["tsx"] = constructIndex["typescript"]
	})
}

// constructOf returns the canonical construct for a node kind, falling back
// to suffix heuristics for languages or kinds missing from the tables.
func constructOf(language, kind string) construct {
	initConstructs()
	if idx, ok := constructIndex[language]; ok {
		if c, ok := idx[kind]; ok {
			return c
		}
	}
	return genericConstruct(kind)
}

func genericConstruct(kind string) construct {
	switch {
	case kind == "block" || kind == "compound_statement" || strings.HasSuffix(kind, "_block"):
		return constructBlock
	case strings.HasSuffix(kind, "_definition") || strings.HasSuffix(kind, "_declaration"):
		return constructStatement
	case strings.HasSuffix(kind, "_statement"):
		return constructStatement
	case strings.HasSuffix(kind, "_expression"):
		return constructExpression
	default:
		return constructNone
	}
}

// foldable reports whether nodes of this construct produce fold regions.
func (c construct) foldable() bool {
	switch c {
	case constructFunction, constructType, constructBlock, constructBranch:
		return true
	default:
		return false
	}
}

// declares reports whether nodes of this construct are definition sites.
func (c construct) declares() bool {
	switch c {
	case constructFunction, constructType, constructVarDecl:
		return true
	default:
		return false
	}
}

// declarationKind maps a declaring construct and its node kind to the public
// definition kind string.
func declarationKind(c construct, kind string) string {
	switch c {
	case constructFunction:
		return "function"
	case constructType:
		return "type"
	default:
		switch {
		case strings.Contains(kind, "const"):
			return "constant"
		case strings.Contains(kind, "param"):
			return "parameter"
		case strings.Contains(kind, "field") || strings.Contains(kind, "property"):
			return "field"
		default:
			return "variable"
		}
	}
}
