package treelight

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language identifies a supported source language. The zero value is not
// valid; unknown inputs map to LangUnknown.
type Language string

const (
	LangUnknown    Language = "unknown"
	LangBash       Language = "bash"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangCSS        Language = "css"
	LangDockerfile Language = "dockerfile"
	LangGo         Language = "go"
	LangGoMod      Language = "gomod"
	LangHTML       Language = "html"
	LangJava       Language = "java"
	LangJavaScript Language = "javascript"
	LangJSON       Language = "json"
	LangLua        Language = "lua"
	LangMake       Language = "make"
	LangPHP        Language = "php"
	LangPython     Language = "python"
	LangRuby       Language = "ruby"
	LangRust       Language = "rust"
	LangTOML       Language = "toml"
	LangTSX        Language = "tsx"
	LangTypeScript Language = "typescript"
	LangYAML       Language = "yaml"
	LangZig        Language = "zig"
)

// nameToLanguage special-cases exact basenames that carry no usable
// extension. Checked before extension matching.
var nameToLanguage = map[string]Language{
	"makefile":      LangMake,
	"gnumakefile":   LangMake,
	"dockerfile":    LangDockerfile,
	"go.mod":        LangGoMod,
	"go.sum":        LangGoMod,
	"gemfile":       LangRuby,
	"rakefile":      LangRuby,
	".bashrc":       LangBash,
	".bash_profile": LangBash,
	".zshrc":        LangBash,
	".profile":      LangBash,
}

var extToLanguage = map[string]Language{
	".sh":   LangBash,
	".bash": LangBash,
	".zsh":  LangBash,
	".c":    LangC,
	".h":    LangC,
	".cpp":  LangCPP,
	".cc":   LangCPP,
	".cxx":  LangCPP,
	".hpp":  LangCPP,
	".hh":   LangCPP,
	".css":  LangCSS,
	".go":   LangGo,
	".html": LangHTML,
	".htm":  LangHTML,
	".java": LangJava,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".mjs":  LangJavaScript,
	".cjs":  LangJavaScript,
	".json": LangJSON,
	".lua":  LangLua,
	".mk":   LangMake,
	".php":  LangPHP,
	".py":   LangPython,
	".pyi":  LangPython,
	".rb":   LangRuby,
	".rs":   LangRust,
	".toml": LangTOML,
	".tsx":  LangTSX,
	".ts":   LangTypeScript,
	".yaml": LangYAML,
	".yml":  LangYAML,
	".zig":  LangZig,
}

// DetectLanguage maps a filename to a Language. Exact basenames win over
// extensions; every input maps to some Language, LangUnknown when nothing
// matches. Deterministic and side-effect free.
func DetectLanguage(filename string) Language {
	base := strings.ToLower(filepath.Base(filename))
	if lang, ok := nameToLanguage[base]; ok {
		return lang
	}
	if lang, ok := extToLanguage[filepath.Ext(base)]; ok {
		return lang
	}
	return LangUnknown
}

// enryCandidates bounds the classifier to languages treelight can actually
// do something with.
var enryCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "PHP", "Lua", "JSON", "YAML", "TOML", "HTML", "CSS",
	"Dockerfile",
}

var enryToLanguage = map[string]Language{
	"go":         LangGo,
	"python":     LangPython,
	"shell":      LangBash,
	"javascript": LangJavaScript,
	"typescript": LangTypeScript,
	"ruby":       LangRuby,
	"rust":       LangRust,
	"java":       LangJava,
	"c":          LangC,
	"c++":        LangCPP,
	"php":        LangPHP,
	"lua":        LangLua,
	"json":       LangJSON,
	"yaml":       LangYAML,
	"toml":       LangTOML,
	"html":       LangHTML,
	"css":        LangCSS,
	"dockerfile": LangDockerfile,
}

// DetectLanguageContent detects like DetectLanguage but consults the file
// content when the filename alone is not enough: first the shebang line,
// then a statistical classifier. Still total; ambiguous content maps to
// LangUnknown.
func DetectLanguageContent(filename string, content []byte) Language {
	if lang := DetectLanguage(filename); lang != LangUnknown {
		return lang
	}
	if len(content) == 0 {
		return LangUnknown
	}
	if name, safe := enry.GetLanguageByShebang(content); safe {
		if lang, ok := enryToLanguage[strings.ToLower(name)]; ok {
			return lang
		}
	}
	if name, safe := enry.GetLanguageByClassifier(content, enryCandidates); safe && name != "" {
		if lang, ok := enryToLanguage[strings.ToLower(name)]; ok {
			return lang
		}
	}
	return LangUnknown
}
