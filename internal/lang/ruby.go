package lang

func init() {
	Register(&LanguageSpec{
		Language:          Ruby,
		FileExtensions:    []string{".rb"},
		FunctionNodeTypes: []string{"method", "singleton_method"},
		ClassNodeTypes:    []string{"class", "module"},
		FieldNodeTypes:    []string{"assignment", "instance_variable", "class_variable"},
		ModuleNodeTypes:   []string{"program"},
		CallNodeTypes:     []string{"call", "command", "command_call"},
		ImportNodeTypes:   []string{"call"}, // require/require_relative surface as call nodes in this grammar
		PackageIndicators: []string{"Gemfile"},
	})
}
