package lang

func init() {
	Register(&LanguageSpec{
		Language:          CPP,
		FileExtensions:    []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		FunctionNodeTypes: []string{"function_definition", "template_declaration", "lambda_expression"},
		ClassNodeTypes:    []string{"class_specifier", "struct_specifier", "union_specifier", "enum_specifier"},
		FieldNodeTypes:    []string{"field_declaration"},
		ModuleNodeTypes:   []string{"translation_unit"},
		CallNodeTypes:     []string{"call_expression", "field_expression", "new_expression", "delete_expression"},
		ImportNodeTypes:   []string{"preproc_include"},
		PackageIndicators: []string{"CMakeLists.txt", "Makefile", "conanfile.txt"},
	})
}
