package generate

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/pkg/errors"
	"go.uber.org/zap"
)

type scripted struct {
	reply string
	err   error
}

// fakeProvider hands out scripted replies in call order and records every
// request it saw.
type fakeProvider struct {
	replies []scripted
	calls   []ChatRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req ChatRequest) (string, error) {
	f.calls = append(f.calls, req)
	if len(f.replies) == 0 {
		return "", fmt.Errorf("no scripted reply for call %d", len(f.calls))
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next.reply, next.err
}

func newTestPipeline(provider ChatProvider) *Pipeline {
	p := NewPipeline(provider, "cn", []string{"cn", "tw", "jp", "es"}, zap.NewNop())
	p.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	p.sleep = func(time.Duration) {}
	return p
}

func testArticles() []domain.RawArticle {
	return []domain.RawArticle{
		{Title: "A", Content: "alpha", Link: "https://example.com/a", PubDate: time.Now(), Source: "s"},
		{Title: "B", Content: "beta", Link: "https://example.com/b", PubDate: time.Now(), Source: "s"},
	}
}

func translationReply(lang string) string {
	return fmt.Sprintf("Title: %s Title\nExcerpt: %s excerpt.\nContent: <p>%s body.</p>", lang, lang, lang)
}

func TestRunProducesAllLanguages(t *testing.T) {
	provider := &fakeProvider{replies: []scripted{
		{reply: "selected analysis"},
		{reply: "<p>Native draft body.</p>"},
		{reply: translationReply("en")},
		{reply: translationReply("tw")},
		{reply: translationReply("jp")},
		{reply: translationReply("es")},
	}}
	pipeline := newTestPipeline(provider)

	post, err := pipeline.Run(context.Background(), testArticles())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, lang := range []string{"en", "cn", "tw", "jp", "es"} {
		if _, ok := post.Entries[lang]; !ok {
			t.Errorf("missing entry for %q", lang)
		}
	}
	if len(post.Entries) != 5 {
		t.Errorf("got %d entries, want 5", len(post.Entries))
	}
	if len(provider.calls) != 6 {
		t.Errorf("provider called %d times, want 6 (filter, draft, en, tw, jp, es)", len(provider.calls))
	}

	en := post.Entries["en"]
	if en.Title != "en Title" {
		t.Errorf("en title = %q", en.Title)
	}
	if en.Slug != "ai-industry-weekly-update-2025-03-14-1741942800000" {
		t.Errorf("en slug = %q", en.Slug)
	}

	cn := post.Entries["cn"]
	if cn.Content != "<p>Native draft body.</p>" {
		t.Errorf("native entry must carry the untranslated draft, got %q", cn.Content)
	}
	if !strings.HasSuffix(cn.Slug, "-cn") {
		t.Errorf("native slug = %q, want -cn suffix", cn.Slug)
	}

	if !strings.HasSuffix(post.Entries["jp"].Slug, "-jp") {
		t.Errorf("jp slug = %q", post.Entries["jp"].Slug)
	}
}

func TestRunFailsWithoutArticles(t *testing.T) {
	pipeline := newTestPipeline(&fakeProvider{})

	_, err := pipeline.Run(context.Background(), nil)

	var pipeErr *errors.PipelineError
	if !stderrors.As(err, &pipeErr) {
		t.Fatalf("got %T, want *errors.PipelineError", err)
	}
	if pipeErr.Stage != "filter" {
		t.Errorf("stage = %q, want filter", pipeErr.Stage)
	}
}

func TestTranslateCopiesDraftWhenLanguageFails(t *testing.T) {
	provider := &fakeProvider{replies: []scripted{
		{reply: translationReply("en")},
		{err: fmt.Errorf("model unavailable")}, // tw attempt 1
		{err: fmt.Errorf("model unavailable")}, // tw attempt 2
		{reply: translationReply("jp")},
		{reply: translationReply("es")},
	}}
	pipeline := newTestPipeline(provider)

	draft := &domain.BlogDraft{
		Title:   "Native Title",
		Slug:    "slug",
		Content: "<p>Native body.</p>",
		Excerpt: "Native excerpt.",
		Tags:    defaultTags,
	}

	post := pipeline.Translate(context.Background(), draft)

	tw := post.Entries["tw"]
	if tw.Title != "Native Title" || tw.Content != "<p>Native body.</p>" {
		t.Errorf("failed language should copy the draft, got %+v", tw)
	}
	if tw.Slug != "slug-tw" {
		t.Errorf("tw slug = %q", tw.Slug)
	}

	if post.Entries["jp"].Title != "jp Title" {
		t.Errorf("later languages should still translate, got %q", post.Entries["jp"].Title)
	}
}

func TestTranslateRepairsMarkupExcerpt(t *testing.T) {
	provider := &fakeProvider{replies: []scripted{
		{reply: translationReply("en")},
		{reply: "Title: TW Title\nExcerpt: <!DOCTYPE html><html>junk\nContent: <p>Real opening.</p><p>More.</p>"},
		{reply: translationReply("jp")},
		{reply: translationReply("es")},
	}}
	pipeline := newTestPipeline(provider)

	draft := &domain.BlogDraft{Title: "T", Slug: "slug", Content: "<p>Body.</p>", Excerpt: "E"}

	post := pipeline.Translate(context.Background(), draft)

	tw := post.Entries["tw"]
	if tw.Excerpt != "Real opening." {
		t.Errorf("excerpt = %q, want first paragraph of the translated content", tw.Excerpt)
	}
}

func TestTranslateEnglishFallsBackFieldByField(t *testing.T) {
	provider := &fakeProvider{replies: []scripted{
		{reply: "plain reply with no labels"},
		{reply: translationReply("tw")},
		{reply: translationReply("jp")},
		{reply: translationReply("es")},
	}}
	pipeline := newTestPipeline(provider)

	draft := &domain.BlogDraft{
		Title:   "AI Industry Weekly Update: AI Application Cases Across Various Industries (2025-03-14)",
		Slug:    "slug",
		Content: "<p>Body.</p>",
		Excerpt: "Draft excerpt.",
	}

	post := pipeline.Translate(context.Background(), draft)

	en := post.Entries["en"]
	if !strings.Contains(en.Title, "2025-03-14") {
		t.Errorf("fallback title should keep the date, got %q", en.Title)
	}
	if en.Excerpt != "Draft excerpt." {
		t.Errorf("missing excerpt should fall back to the draft's, got %q", en.Excerpt)
	}
	if en.Content != "plain reply with no labels" {
		t.Errorf("unlabeled reply should become the content, got %q", en.Content)
	}
	if en.Slug != "slug" {
		t.Errorf("en slug = %q, want the draft slug unchanged", en.Slug)
	}
}

func TestDraftBuildsMetadata(t *testing.T) {
	provider := &fakeProvider{replies: []scripted{
		{reply: "<p>Drafted opening.</p><p>Second paragraph.</p>"},
	}}
	pipeline := newTestPipeline(provider)

	draft, err := pipeline.Draft(context.Background(), "analysis")
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}

	if !strings.Contains(draft.Title, "(2025-03-14)") {
		t.Errorf("title = %q", draft.Title)
	}
	if draft.Excerpt != "Drafted opening." {
		t.Errorf("excerpt = %q", draft.Excerpt)
	}
	if len(draft.Tags) == 0 {
		t.Error("draft carries no tags")
	}
	if !strings.HasPrefix(draft.Slug, "ai-industry-weekly-update-2025-03-14-") {
		t.Errorf("slug = %q", draft.Slug)
	}
}

func TestBuildDigestCapsSummaries(t *testing.T) {
	long := strings.Repeat("y", 1000)
	articles := []domain.RawArticle{
		{Title: "Long", Content: long, Link: "https://example.com/l", Source: "s"},
	}

	digest := buildDigest(articles)

	if strings.Contains(digest, long) {
		t.Error("digest carries the untruncated summary")
	}
	if !strings.Contains(digest, "Title: Long") {
		t.Errorf("digest missing article header: %q", digest)
	}
	if !strings.Contains(digest, "...") {
		t.Error("truncated summary missing ellipsis")
	}
}
