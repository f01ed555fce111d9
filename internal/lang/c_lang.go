package lang

func init() {
	Register(&LanguageSpec{
		Language:          C,
		FileExtensions:    []string{".c", ".h"},
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"struct_specifier", "enum_specifier", "union_specifier"},
		FieldNodeTypes:    []string{"field_declaration"},
		ModuleNodeTypes:   []string{"translation_unit"},
		CallNodeTypes:     []string{"call_expression"},
		ImportNodeTypes:   []string{"preproc_include"},
		PackageIndicators: []string{"Makefile", "CMakeLists.txt"},
	})
}
