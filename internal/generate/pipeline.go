package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ainav/content-jobs/internal/constants"
	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/internal/prompt"
	"github.com/ainav/content-jobs/internal/util"
	"github.com/ainav/content-jobs/pkg/errors"
	"go.uber.org/zap"
)

var draftTitleDatePattern = regexp.MustCompile(`\(\d{4}-\d{2}-\d{2}\)`)

var defaultTags = []string{"AI", "Industry News", "Application Cases", "Tech Trends"}

// Pipeline runs the four generative stages in order: filter the aggregated
// articles, draft the post, translate it language by language, assemble the
// multilingual result. Filter and draft failures are fatal; per-language
// translation failures degrade to copying the untranslated draft.
type Pipeline struct {
	provider    ChatProvider
	nativeLang  string
	targetLangs []string
	now         func() time.Time
	sleep       func(time.Duration)
	logger      *zap.Logger
}

func NewPipeline(provider ChatProvider, nativeLang string, targetLangs []string, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		provider:    provider,
		nativeLang:  nativeLang,
		targetLangs: targetLangs,
		now:         time.Now,
		sleep:       time.Sleep,
		logger:      logger,
	}
}

func (p *Pipeline) Run(ctx context.Context, articles []domain.RawArticle) (*domain.MultilingualPost, error) {
	if len(articles) == 0 {
		return nil, errors.NewPipelineError("no articles collected", "filter", nil)
	}

	analysis, err := p.Filter(ctx, articles)
	if err != nil {
		return nil, errors.NewPipelineError("content analysis failed", "filter", err)
	}
	p.logger.Info("Content analysis complete", zap.Int("length", len(analysis)))

	draft, err := p.Draft(ctx, analysis)
	if err != nil {
		return nil, errors.NewPipelineError("content generation failed", "draft", err)
	}
	p.logger.Info("Draft generated",
		zap.String("slug", draft.Slug),
		zap.Int("length", len(draft.Content)),
	)

	post := p.Translate(ctx, draft)
	p.logger.Info("Translation complete", zap.Int("languages", len(post.Entries)))

	return post, nil
}

// Filter condenses the aggregated articles into a digest and asks the model
// to select the most valuable items.
func (p *Pipeline) Filter(ctx context.Context, articles []domain.RawArticle) (string, error) {
	digest := buildDigest(articles)

	return util.WithRetry(ctx, p.logger, "filter content",
		constants.RetryConfig.MaxAttempts, constants.RetryConfig.BaseDelay,
		func(ctx context.Context) (string, error) {
			return p.provider.Complete(ctx, ChatRequest{
				System:      prompt.FilterSystem,
				User:        prompt.BuildFilterUser(digest),
				Temperature: constants.PipelineConfig.FilterTemperature,
				MaxTokens:   constants.PipelineConfig.MaxTokens,
			})
		})
}

// Draft turns the filtered analysis into a long-form HTML article in the
// native language, with a date-and-timestamp slug unique across runs.
func (p *Pipeline) Draft(ctx context.Context, analysis string) (*domain.BlogDraft, error) {
	now := p.now()
	title := draftTitle(now)

	content, err := util.WithRetry(ctx, p.logger, "draft content",
		constants.RetryConfig.MaxAttempts, constants.RetryConfig.BaseDelay,
		func(ctx context.Context) (string, error) {
			return p.provider.Complete(ctx, ChatRequest{
				System:      prompt.DraftSystem,
				User:        prompt.BuildDraftUser(prompt.DraftVars{Title: title, Analysis: analysis}),
				Temperature: constants.PipelineConfig.DraftTemperature,
				MaxTokens:   constants.PipelineConfig.MaxTokens,
			})
		})
	if err != nil {
		return nil, err
	}

	return &domain.BlogDraft{
		Title:   title,
		Slug:    BuildSlug(now),
		Content: content,
		Excerpt: DraftExcerpt(content),
		Tags:    defaultTags,
	}, nil
}

// Translate produces the multilingual post: English first as the primary
// entry, the native draft as its own entry, then one sequential call per
// remaining target language. Languages are deliberately not translated in
// parallel; a slow provider is better than a timed-out one.
func (p *Pipeline) Translate(ctx context.Context, draft *domain.BlogDraft) *domain.MultilingualPost {
	post := &domain.MultilingualPost{
		Entries: make(map[string]domain.LocalizedContent),
		Tags:    draft.Tags,
	}

	post.Entries[constants.DefaultLanguage] = p.translateEnglish(ctx, draft)

	post.Entries[p.nativeLang] = domain.LocalizedContent{
		Title:   draft.Title,
		Content: draft.Content,
		Excerpt: draft.Excerpt,
		Slug:    draft.Slug + "-" + p.nativeLang,
	}

	for _, lang := range p.targetLangs {
		if lang == p.nativeLang || lang == constants.DefaultLanguage {
			continue
		}
		post.Entries[lang] = p.translateLanguage(ctx, draft, lang)
	}

	return post
}

// translateEnglish generates the default-language entry. Extraction failures
// fall back field by field; a failed call falls back to a canned title over
// the untranslated draft.
func (p *Pipeline) translateEnglish(ctx context.Context, draft *domain.BlogDraft) domain.LocalizedContent {
	p.logger.Info("Generating English version as default language")

	reply, err := p.provider.Complete(ctx, ChatRequest{
		System:      prompt.TranslateSystem(constants.DefaultLanguage),
		User:        p.translateUser(constants.DefaultLanguage, draft),
		Temperature: constants.PipelineConfig.TranslateTemp,
		MaxTokens:   constants.PipelineConfig.MaxTokens,
	})
	if err != nil {
		p.logger.Error("English generation failed, using canned fallback", zap.Error(err))
		return domain.LocalizedContent{
			Title:   fallbackEnglishTitle(draft.Title),
			Content: draft.Content,
			Excerpt: "Weekly update of AI applications across various industries...",
			Slug:    draft.Slug,
		}
	}

	sections := ExtractSections(reply)

	title := sections.Title
	if title == "" {
		title = fallbackEnglishTitle(draft.Title)
	}
	excerpt := sections.Excerpt
	if excerpt == "" {
		excerpt = draft.Excerpt
	}
	content := sections.Content
	if content == "" {
		content = draft.Content
	}

	p.logger.Info("English version generated")

	return domain.LocalizedContent{
		Title:   title,
		Content: content,
		Excerpt: excerpt,
		Slug:    draft.Slug,
	}
}

// translateLanguage translates the draft into one target language. The call
// carries its own small retry budget; exhausting it copies the original
// untranslated fields rather than failing the run.
func (p *Pipeline) translateLanguage(ctx context.Context, draft *domain.BlogDraft, lang string) domain.LocalizedContent {
	langName := lang
	if name, ok := prompt.LanguageNames[lang]; ok {
		langName = name
	}
	p.logger.Info("Translating content", zap.String("language", langName), zap.String("code", lang))

	slug := draft.Slug + "-" + lang

	reply, err := util.WithRetry(ctx, p.logger, "translate "+lang,
		constants.PipelineConfig.TranslateAttempts, constants.RetryConfig.BaseDelay,
		func(ctx context.Context) (string, error) {
			return p.provider.Complete(ctx, ChatRequest{
				System:      prompt.TranslateSystem(lang),
				User:        p.translateUser(lang, draft),
				Temperature: constants.PipelineConfig.TranslateTemp,
				MaxTokens:   constants.PipelineConfig.MaxTokens,
			})
		})
	if err != nil {
		p.logger.Error("Translation failed, copying original content",
			zap.String("language", lang),
			zap.Error(err),
		)
		return domain.LocalizedContent{
			Title:   draft.Title,
			Content: draft.Content,
			Excerpt: draft.Excerpt,
			Slug:    slug,
		}
	}

	sections := ExtractSections(reply)

	title := sections.Title
	if title == "" {
		title = draft.Title
	}

	content := sections.Content
	if content == "" {
		content = reply
	}

	excerpt := sections.Excerpt
	if excerpt == "" || util.LooksLikeDocument(excerpt) {
		excerpt = DeriveExcerpt(content, reply)
		p.logger.Info("Repaired excerpt", zap.String("language", lang))
	}

	// Breathe between languages so the API is not hit back to back.
	p.sleep(constants.PipelineConfig.TranslatePause)

	return domain.LocalizedContent{
		Title:   title,
		Content: content,
		Excerpt: excerpt,
		Slug:    slug,
	}
}

func (p *Pipeline) translateUser(lang string, draft *domain.BlogDraft) string {
	langName := lang
	if name, ok := prompt.LanguageNames[lang]; ok {
		langName = name
	}
	return prompt.BuildTranslateUser(prompt.TranslateVars{
		Language: langName,
		Title:    draft.Title,
		Excerpt:  draft.Excerpt,
		Content:  draft.Content,
	})
}

func buildDigest(articles []domain.RawArticle) string {
	parts := make([]string, 0, len(articles))
	for _, article := range articles {
		summary := article.Content
		if len([]rune(summary)) > constants.PipelineConfig.MaxSummaryChars {
			summary = util.TruncateString(summary, constants.PipelineConfig.MaxSummaryChars)
		}
		parts = append(parts, fmt.Sprintf("Title: %s\nSource: %s\nLink: %s\nSummary: %s",
			article.Title, article.Source, article.Link, summary))
	}

	digest := strings.Join(parts, "\n\n")
	runes := []rune(digest)
	if len(runes) > constants.PipelineConfig.MaxDigestChars {
		digest = string(runes[:constants.PipelineConfig.MaxDigestChars])
	}
	return digest
}

func draftTitle(now time.Time) string {
	return fmt.Sprintf("AI Industry Weekly Update: AI Application Cases Across Various Industries (%s)", now.Format("2006-01-02"))
}

func fallbackEnglishTitle(draftTitle string) string {
	date := draftTitleDatePattern.FindString(draftTitle)
	return fmt.Sprintf("AI Industry Weekly Update: AI Application Cases Across Various Industries %s", date)
}
