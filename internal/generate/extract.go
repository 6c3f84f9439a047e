package generate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ainav/content-jobs/internal/constants"
	"github.com/ainav/content-jobs/internal/util"
)

// Model replies are free text framed as "Title: ... Excerpt: ... Content:
// ...". Extraction is best-effort by regex; every consumer goes through the
// documented fallback chain below when a section is missing.
var (
	titlePattern   = regexp.MustCompile(`(?s)Title:(.*?)(?:Excerpt:|Content:|$)`)
	excerptPattern = regexp.MustCompile(`(?s)Excerpt:(.*?)(?:Content:|$)`)
	contentPattern = regexp.MustCompile(`(?s)Content:(.*)$`)

	titleLabelPattern   = regexp.MustCompile(`(?s)Title:.*?(?:Excerpt:|$)`)
	excerptLabelPattern = regexp.MustCompile(`(?s)Excerpt:.*?(?:Content:|$)`)
	contentLabelPattern = regexp.MustCompile(`Content:`)

	slugCleanPattern = regexp.MustCompile(`[^\w\s\-]`)
)

// Sections is the structured form of a translation reply.
type Sections struct {
	Title   string
	Excerpt string
	Content string
}

// ExtractSections splits a model reply into its labeled sections. A missing
// Content label falls back to the reply with all labels stripped; a missing
// Title or Excerpt is left empty for the caller to fill.
func ExtractSections(reply string) Sections {
	var s Sections

	if match := titlePattern.FindStringSubmatch(reply); match != nil {
		s.Title = strings.TrimSpace(match[1])
	}
	if match := excerptPattern.FindStringSubmatch(reply); match != nil {
		s.Excerpt = strings.TrimSpace(match[1])
	}
	if match := contentPattern.FindStringSubmatch(reply); match != nil {
		s.Content = strings.TrimSpace(match[1])
	} else {
		stripped := titleLabelPattern.ReplaceAllString(reply, "")
		stripped = excerptLabelPattern.ReplaceAllString(stripped, "")
		stripped = contentLabelPattern.ReplaceAllString(stripped, "")
		s.Content = strings.TrimSpace(stripped)
	}

	return s
}

// DeriveExcerpt rebuilds an excerpt when the extracted one is unusable:
// first paragraph of the content, then the tag-stripped content, then the
// first line of the raw reply.
func DeriveExcerpt(content, reply string) string {
	if para, ok := util.FirstParagraph(content); ok {
		return util.TruncateString(para, constants.PipelineConfig.MaxExcerptChars)
	}
	if content != "" {
		return util.TruncateString(util.StripTags(content), constants.PipelineConfig.MaxExcerptChars)
	}
	firstLine := strings.SplitN(reply, "\n", 2)[0]
	return util.TruncateString(firstLine, constants.PipelineConfig.MaxExcerptChars)
}

// DraftExcerpt pulls the opening of a freshly drafted article: the first
// paragraph when the expected tag is present, otherwise the first
// blank-line-delimited block.
func DraftExcerpt(content string) string {
	if para, ok := util.FirstParagraph(content); ok {
		return util.TruncateString(para, constants.PipelineConfig.MaxExcerptChars)
	}
	block := strings.SplitN(content, "\n\n", 2)[0]
	return util.TruncateString(block, constants.PipelineConfig.MaxExcerptChars)
}

// BuildSlug embeds the generation date plus a millisecond timestamp so two
// runs on the same day never collide.
func BuildSlug(now time.Time) string {
	slug := fmt.Sprintf("ai-industry-weekly-update-%s-%d", now.Format("2006-01-02"), now.UnixMilli())
	slug = strings.ToLower(slug)
	return slugCleanPattern.ReplaceAllString(slug, "")
}
