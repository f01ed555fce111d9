package lang

func init() {
	Register(&LanguageSpec{
		Language: JavaScript,
		FileExtensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		FunctionNodeTypes: []string{
			"function_declaration", "function_expression", "arrow_function",
			"method_definition", "generator_function_declaration",
		},
		ClassNodeTypes:     []string{"class_declaration", "class"},
		ModuleNodeTypes:    []string{"program"},
		CallNodeTypes:      []string{"call_expression"},
		ImportNodeTypes:    []string{"import_statement", "lexical_declaration"},
		ImportFromTypes:    []string{"export_statement"},
		DecoratorNodeTypes: []string{"decorator"},
		PackageIndicators:  []string{"package.json"},
	})
}
