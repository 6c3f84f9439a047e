package prompt

import "fmt"

// LanguageNames maps a language code to the name used in translation prompts.
var LanguageNames = map[string]string{
	"en": "English",
	"cn": "Simplified Chinese",
	"tw": "Traditional Chinese",
	"jp": "Japanese",
	"es": "Spanish",
}

// translateSystems carries the per-language translator personas. The replies
// these produce are parsed back out of free text, so every prompt shares the
// same Title/Excerpt/Content framing.
var translateSystems = map[string]string{
	"en": "You are a professional translator specializing in AI and technology content. Translate the following Chinese blog post into fluent, natural English while preserving all technical details and insights.",
	"tw": "You are a professional translator specializing in AI and technology content. Translate the following Chinese blog post into fluent, natural Traditional Chinese while preserving all technical details and insights.",
	"jp": "You are a professional translator specializing in AI and technology content. Translate the following Chinese blog post into fluent, natural Japanese while preserving all technical details and insights.",
	"es": "You are a professional translator specializing in AI and technology content. Translate the following Chinese blog post into fluent, natural Spanish while preserving all technical details and insights.",
}

// TranslateSystem returns the system prompt for a target language, falling
// back to a generic persona for languages without a dedicated one.
func TranslateSystem(code string) string {
	if system, ok := translateSystems[code]; ok {
		return system
	}
	name := code
	if n, ok := LanguageNames[code]; ok {
		name = n
	}
	return fmt.Sprintf("You are a professional translator specializing in AI and technology content. Translate the following blog post into fluent, natural %s while preserving all technical details and insights.", name)
}

// TranslateVars holds the source-language fields of a translation request.
type TranslateVars struct {
	Language string
	Title    string
	Excerpt  string
	Content  string
}

// BuildTranslateUser frames the source post so the reply can be split back
// into Title/Excerpt/Content sections.
func BuildTranslateUser(vars TranslateVars) string {
	return fmt.Sprintf("Translate the following content to %s.\nTitle: %s\nExcerpt: %s\nContent: %s",
		vars.Language, vars.Title, vars.Excerpt, vars.Content)
}
