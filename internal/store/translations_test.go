package store

import (
	"strings"
	"testing"

	"github.com/ainav/content-jobs/internal/domain"
)

func samplePost() *domain.MultilingualPost {
	return &domain.MultilingualPost{
		Entries: map[string]domain.LocalizedContent{
			"en": {Title: "English", Content: "<p>english body</p>", Excerpt: "english excerpt", Slug: "post"},
			"cn": {Title: "中文", Content: "<p>中文内容</p>", Excerpt: "中文摘要", Slug: "post-cn"},
			"jp": {Title: "日本語", Content: "<p>日本語本文</p>", Excerpt: "日本語抜粋", Slug: "post-jp"},
		},
		Tags: []string{"AI"},
	}
}

func TestBuildTranslationsExcludesDefaultLanguage(t *testing.T) {
	translations := BuildTranslations(samplePost(), "en")

	if _, ok := translations.I18N["en"]; ok {
		t.Error("default language must not appear in i18n")
	}
	if _, ok := translations.Titles["en"]; ok {
		t.Error("default language must not appear in flat maps")
	}
	if len(translations.I18N) != 2 {
		t.Errorf("i18n languages = %d, want 2", len(translations.I18N))
	}
}

func TestBuildTranslationsRepresentationsAgree(t *testing.T) {
	translations := BuildTranslations(samplePost(), "en")

	for lang, entry := range translations.I18N {
		if translations.Titles[lang] != entry.Title {
			t.Errorf("%s: title mismatch between representations", lang)
		}
		if translations.Contents[lang] != entry.Content {
			t.Errorf("%s: content mismatch between representations", lang)
		}
		if translations.Excerpts[lang] != entry.Excerpt {
			t.Errorf("%s: excerpt mismatch between representations", lang)
		}
	}
}

func TestBuildTranslationsRepairsMarkupExcerpt(t *testing.T) {
	for _, prefix := range []string{"<!DOCTYPE html><html>...", "<html><body>..."} {
		post := samplePost()
		entry := post.Entries["jp"]
		entry.Excerpt = prefix
		entry.Content = "<h1>Heading</h1><p>real first paragraph</p>"
		post.Entries["jp"] = entry

		translations := BuildTranslations(post, "en")

		got := translations.Excerpts["jp"]
		if strings.HasPrefix(got, "<!DOCTYPE") || strings.HasPrefix(got, "<html") {
			t.Errorf("excerpt still markup-prefixed: %q", got)
		}
		if !strings.Contains(got, "real first paragraph") {
			t.Errorf("excerpt not derived from content: %q", got)
		}
		if translations.I18N["jp"].Excerpt != got {
			t.Error("repaired excerpt must land in both representations")
		}
	}
}

func TestRepairExcerptStripsTagsWithoutParagraph(t *testing.T) {
	got := RepairExcerpt("<div>no <b>paragraph</b> here</div>")
	if strings.ContainsAny(got, "<>") {
		t.Errorf("expected tag-free excerpt, got %q", got)
	}
	if !strings.Contains(got, "no paragraph here") {
		t.Errorf("excerpt lost the text: %q", got)
	}
}
