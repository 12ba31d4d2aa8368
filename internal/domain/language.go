package domain

// Language is one of the nine languages the editor supports.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCpp        Language = "cpp"
	LangC          Language = "c"
	LangPHP        Language = "php"
	LangGo         Language = "go"
	LangRuby       Language = "ruby"
	LangRust       Language = "rust"
)

// DefaultLanguage is the language a fresh room starts in.
const DefaultLanguage = LangJavaScript

// defaultCode holds the starter snippet placed in the buffer whenever the
// language changes or the room is reset.
var defaultCode = map[Language]string{
	LangJavaScript: "// Start coding here\n",
	LangPython:     "# Start coding here\n",
	LangJava:       "public class Main {\n  public static void main(String[] args) {\n    // Start coding here\n  }\n}",
	LangCpp:        "#include <iostream>\nusing namespace std;\n\nint main() {\n  // Start coding here\n  return 0;\n}",
	LangC:          "#include <stdio.h>\n\nint main() {\n  // Start coding here\n  return 0;\n}",
	LangPHP:        "<?php\n\n// Start coding here\n\n?>",
	LangGo:         "package main\n\nimport \"fmt\"\n\nfunc main() {\n  // Start coding here\n}",
	LangRuby:       "# Start coding here\n",
	LangRust:       "fn main() {\n  // Start coding here\n}",
}

var fileExtensions = map[Language]string{
	LangJavaScript: "js",
	LangPython:     "py",
	LangJava:       "java",
	LangCpp:        "cpp",
	LangC:          "c",
	LangPHP:        "php",
	LangGo:         "go",
	LangRuby:       "rb",
	LangRust:       "rs",
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	_, ok := defaultCode[l]
	return ok
}

// DefaultCode returns the starter snippet for l, falling back to the
// JavaScript snippet for unknown languages.
func (l Language) DefaultCode() string {
	if code, ok := defaultCode[l]; ok {
		return code
	}
	return defaultCode[DefaultLanguage]
}

// FileExtension returns the download extension for l, "txt" when unknown.
func (l Language) FileExtension() string {
	if ext, ok := fileExtensions[l]; ok {
		return ext
	}
	return "txt"
}

// Languages lists the supported languages.
func Languages() []Language {
	return []Language{
		LangJavaScript, LangPython, LangJava, LangCpp, LangC,
		LangPHP, LangGo, LangRuby, LangRust,
	}
}
