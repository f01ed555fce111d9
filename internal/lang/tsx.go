package lang

func init() {
	Register(&LanguageSpec{
		Language: TSX,
		FileExtensions: []string{".tsx"},
		FunctionNodeTypes: []string{
			"function_declaration", "function_expression", "arrow_function",
			"method_definition", "generator_function_declaration", "function_signature",
		},
		ClassNodeTypes: []string{
			"class_declaration", "class", "abstract_class_declaration",
			"enum_declaration", "interface_declaration", "type_alias_declaration", "internal_module",
		},
		ModuleNodeTypes:    []string{"program"},
		CallNodeTypes:      []string{"call_expression"},
		ImportNodeTypes:    []string{"import_statement", "lexical_declaration"},
		ImportFromTypes:    []string{"export_statement"},
		DecoratorNodeTypes: []string{"decorator"},
		PackageIndicators:  []string{"package.json", "tsconfig.json"},
	})
}
