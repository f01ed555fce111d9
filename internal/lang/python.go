package lang

func init() {
	Register(&LanguageSpec{
		Language:           Python,
		FileExtensions:     []string{".py", ".pyi"},
		FunctionNodeTypes:  []string{"function_definition"},
		ClassNodeTypes:     []string{"class_definition"},
		FieldNodeTypes:     []string{"assignment"},
		ModuleNodeTypes:    []string{"module"},
		CallNodeTypes:      []string{"call", "with_statement"},
		ImportNodeTypes:    []string{"import_statement"},
		ImportFromTypes:    []string{"import_from_statement"},
		DecoratorNodeTypes: []string{"decorator"},
		PackageIndicators:  []string{"__init__.py"},
	})
}
