// Package domain defines the core types for web feature detection results.
package domain

import (
	"path/filepath"
	"strings"
)

// Language represents a web source language the analyzer understands.
type Language string

// Supported languages for feature detection.
const (
	LanguageCSS        Language = "css"
	LanguageHTML       Language = "html"
	LanguageJavaScript Language = "javascript"
	LanguageLess       Language = "less"
	LanguageSCSS       Language = "scss"
	LanguageSvelte     Language = "svelte"
	LanguageTypeScript Language = "typescript"
	LanguageVue        Language = "vue"
)

var extensionLanguages = map[string]Language{
	".cjs":    LanguageJavaScript,
	".css":    LanguageCSS,
	".cts":    LanguageTypeScript,
	".htm":    LanguageHTML,
	".html":   LanguageHTML,
	".js":     LanguageJavaScript,
	".jsx":    LanguageJavaScript,
	".less":   LanguageLess,
	".mjs":    LanguageJavaScript,
	".mts":    LanguageTypeScript,
	".sass":   LanguageSCSS,
	".scss":   LanguageSCSS,
	".svelte": LanguageSvelte,
	".ts":     LanguageTypeScript,
	".tsx":    LanguageTypeScript,
	".vue":    LanguageVue,
}

// LanguageFromPath returns the language for a file path based on its extension.
// The second return value is false for files the analyzer does not handle.
func LanguageFromPath(path string) (Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}
