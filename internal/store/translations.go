package store

import (
	"github.com/ainav/content-jobs/internal/constants"
	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/internal/util"
)

// LocalizedTranslation is one language's entry in the nested i18n column.
type LocalizedTranslation struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

// Translations carries both persisted representations of the translated
// content: the nested per-language object and the three flat per-field maps
// kept for consumers of the older schema. The two are written redundantly
// and must agree value-for-value.
type Translations struct {
	I18N     map[string]LocalizedTranslation
	Titles   map[string]string
	Contents map[string]string
	Excerpts map[string]string
}

// BuildTranslations derives both translation structures from an assembled
// multilingual post. The default language is excluded from both - its content
// lives in the row's primary columns. Excerpts that arrive as raw document
// markup are rederived from the language's content before being stored.
func BuildTranslations(post *domain.MultilingualPost, defaultLang string) Translations {
	t := Translations{
		I18N:     make(map[string]LocalizedTranslation),
		Titles:   make(map[string]string),
		Contents: make(map[string]string),
		Excerpts: make(map[string]string),
	}

	for lang, entry := range post.Entries {
		if lang == defaultLang {
			continue
		}

		excerpt := entry.Excerpt
		if excerpt == "" || util.LooksLikeDocument(excerpt) {
			excerpt = RepairExcerpt(entry.Content)
		}

		t.I18N[lang] = LocalizedTranslation{
			Title:   entry.Title,
			Content: entry.Content,
			Excerpt: excerpt,
		}
		t.Titles[lang] = entry.Title
		t.Contents[lang] = entry.Content
		t.Excerpts[lang] = excerpt
	}

	return t
}

// RepairExcerpt rebuilds an excerpt from content: the first paragraph when
// one exists, otherwise the tag-stripped text, truncated either way.
func RepairExcerpt(content string) string {
	if para, ok := util.FirstParagraph(content); ok {
		return util.TruncateString(para, constants.PipelineConfig.MaxExcerptChars)
	}
	return util.TruncateString(util.StripTags(content), constants.PipelineConfig.MaxExcerptChars)
}
