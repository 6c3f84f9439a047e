package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ainav/content-jobs/internal/constants"
	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/internal/service/database"
	"github.com/ainav/content-jobs/pkg/errors"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostRepository persists assembled multilingual posts into blog_post, keyed
// by slug, with authors resolved from blog_author.
type PostRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostRepository(postgres *database.PostgresService, logger *zap.Logger) *PostRepository {
	return &PostRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// EnsureDefaultAuthor returns the first author row, creating the bot author
// when the table is empty.
func (r *PostRepository) EnsureDefaultAuthor(ctx context.Context) (*domain.Author, error) {
	var author domain.Author
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM blog_author ORDER BY id LIMIT 1`,
	).Scan(&author.ID, &author.Name)

	if err == nil {
		return &author, nil
	}
	if err != sql.ErrNoRows {
		return nil, errors.NewStoreError("failed to query blog author", "blog_author", "select", err)
	}

	author.Name = "AI Bot"
	author.Bio = "Auto-generated content bot"

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO blog_author (name, bio) VALUES ($1, $2) RETURNING id`,
		author.Name, author.Bio,
	).Scan(&author.ID)
	if err != nil {
		return nil, errors.NewStoreError("failed to create default author", "blog_author", "insert", err)
	}

	r.logger.Info("Created default blog author", zap.Int64("author_id", author.ID))
	return &author, nil
}

// UpsertPost writes the assembled post under its default-language slug. The
// default language fills the primary columns; every other language is written
// into both translation representations. The whole row is carried by a single
// update or insert statement.
func (r *PostRepository) UpsertPost(ctx context.Context, post *domain.MultilingualPost, authorID int64) error {
	primary, ok := post.Entries[constants.DefaultLanguage]
	if !ok {
		return fmt.Errorf("post has no %s entry", constants.DefaultLanguage)
	}

	translations := BuildTranslations(post, constants.DefaultLanguage)

	i18nJSON, err := json.Marshal(translations.I18N)
	if err != nil {
		return fmt.Errorf("failed to encode i18n: %w", err)
	}
	titlesJSON, err := json.Marshal(translations.Titles)
	if err != nil {
		return fmt.Errorf("failed to encode title translations: %w", err)
	}
	contentsJSON, err := json.Marshal(translations.Contents)
	if err != nil {
		return fmt.Errorf("failed to encode content translations: %w", err)
	}
	excerptsJSON, err := json.Marshal(translations.Excerpts)
	if err != nil {
		return fmt.Errorf("failed to encode excerpt translations: %w", err)
	}

	now := time.Now().UTC()

	var existingID int64
	err = r.db.QueryRowContext(ctx,
		`SELECT id FROM blog_post WHERE slug = $1 LIMIT 1`,
		primary.Slug,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO blog_post
				(title, slug, content, excerpt, author_id, published_at, status,
				 tags, i18n, title_translations, content_translations, excerpt_translations)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			primary.Title, primary.Slug, primary.Content, primary.Excerpt,
			authorID, now, constants.PostStatusPublished,
			pq.Array(post.Tags), i18nJSON, titlesJSON, contentsJSON, excerptsJSON,
		)
		if err != nil {
			return errors.NewStoreError("failed to insert blog post", "blog_post", "insert", err)
		}
		r.logger.Info("Blog post inserted",
			zap.String("slug", primary.Slug),
			zap.Int("languages", len(translations.I18N)),
		)

	case err != nil:
		return errors.NewStoreError("failed to check existing blog post", "blog_post", "select", err)

	default:
		_, err = r.db.ExecContext(ctx, `
			UPDATE blog_post SET
				title = $1, content = $2, excerpt = $3, author_id = $4,
				published_at = $5, status = $6, tags = $7, i18n = $8,
				title_translations = $9, content_translations = $10,
				excerpt_translations = $11
			WHERE id = $12
		`,
			primary.Title, primary.Content, primary.Excerpt, authorID,
			now, constants.PostStatusPublished,
			pq.Array(post.Tags), i18nJSON, titlesJSON, contentsJSON, excerptsJSON,
			existingID,
		)
		if err != nil {
			return errors.NewStoreError("failed to update blog post", "blog_post", "update", err)
		}
		r.logger.Info("Blog post updated",
			zap.String("slug", primary.Slug),
			zap.Int64("id", existingID),
			zap.Int("languages", len(translations.I18N)),
		)
	}

	return nil
}
