package lang

func init() {
	Register(&LanguageSpec{
		Language:          CSharp,
		FileExtensions:    []string{".cs"},
		FunctionNodeTypes: []string{"method_declaration", "constructor_declaration", "destructor_declaration", "local_function_statement", "lambda_expression"},
		ClassNodeTypes:    []string{"class_declaration", "struct_declaration", "enum_declaration", "interface_declaration"},
		ModuleNodeTypes:   []string{"compilation_unit"},
		CallNodeTypes:     []string{"invocation_expression"},
		ImportNodeTypes:   []string{"using_directive"},
		PackageIndicators: []string{"*.csproj"},
	})
}
