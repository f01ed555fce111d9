package lang

func init() {
	Register(&LanguageSpec{
		Language:          Go,
		FileExtensions:    []string{".go"},
		FunctionNodeTypes: []string{"function_declaration", "method_declaration", "func_literal"},
		ClassNodeTypes:    []string{"type_declaration", "interface_type", "struct_type"},
		FieldNodeTypes:    []string{"field_declaration"},
		ModuleNodeTypes:   []string{"source_file"},
		CallNodeTypes:     []string{"call_expression"},
		ImportNodeTypes:   []string{"import_declaration"},
		PackageIndicators: []string{"go.mod"},
	})
}
