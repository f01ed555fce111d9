package lang

func init() {
	Register(&LanguageSpec{
		Language:          PHP,
		FileExtensions:    []string{".php"},
		FunctionNodeTypes: []string{"function_definition", "anonymous_function", "arrow_function", "method_declaration"},
		ClassNodeTypes:    []string{"trait_declaration", "enum_declaration", "interface_declaration", "class_declaration"},
		CallNodeTypes:     []string{"function_call_expression", "member_call_expression", "scoped_call_expression"},
		ImportNodeTypes:   []string{"namespace_use_declaration"},
		PackageIndicators: []string{"composer.json"},
	})
}
