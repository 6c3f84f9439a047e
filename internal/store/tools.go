package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/internal/service/database"
	"github.com/ainav/content-jobs/pkg/errors"
	"go.uber.org/zap"
)

// ToolRepository persists normalized tool rows into web_navigation, keyed by
// URL. Rows are only ever created or updated here, never deleted.
type ToolRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewToolRepository(postgres *database.PostgresService, logger *zap.Logger) *ToolRepository {
	return &ToolRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// UpsertFromScrape normalizes a scrape payload and writes it. Failure is
// reported as false, never as an error: a single bad row must not take the
// crawl run down.
func (r *ToolRepository) UpsertFromScrape(ctx context.Context, result *domain.ScrapeResult) bool {
	if result == nil {
		return false
	}

	payload, raw, err := DecodeToolPayload(result.Data)
	if err != nil {
		r.logger.Error("Scrape payload does not match a known shape", zap.Error(err))
		return false
	}

	tool := NormalizeTool(payload, raw, time.Now().UTC())
	if tool.URL == "" {
		r.logger.Error("Scrape payload is missing a url", zap.String("name", tool.Name))
		return false
	}

	if err := r.Upsert(ctx, tool); err != nil {
		r.logger.Error("Failed to upsert tool",
			zap.String("url", tool.URL),
			zap.Error(err),
		)
		return false
	}

	r.logger.Info("Tool row written",
		zap.String("url", tool.URL),
		zap.String("name", tool.Name),
	)

	return true
}

// Upsert looks up an existing row by exact URL match, updating it in place
// when found and inserting otherwise.
func (r *ToolRepository) Upsert(ctx context.Context, tool *domain.Tool) error {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM web_navigation WHERE url = $1 LIMIT 1`,
		tool.URL,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return r.insert(ctx, tool)
	}
	if err != nil {
		return errors.NewStoreError("failed to query tool", "web_navigation", "select", err)
	}

	return r.update(ctx, id, tool)
}

func (r *ToolRepository) insert(ctx context.Context, tool *domain.Tool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO web_navigation
			(name, url, title, category_name, content, detail,
			 image_url, thumbnail_url, tag_name, star_rating,
			 collection_time, website_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		tool.Name, tool.URL, tool.Title, tool.CategoryName, tool.Content, tool.Detail,
		tool.ImageURL, tool.ThumbnailURL, tool.TagName, tool.StarRating,
		tool.CollectionTime, tool.WebsiteData,
	)
	if err != nil {
		return errors.NewStoreError("failed to insert tool", "web_navigation", "insert", err)
	}
	return nil
}

func (r *ToolRepository) update(ctx context.Context, id int64, tool *domain.Tool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE web_navigation SET
			name = $1, url = $2, title = $3, category_name = $4, content = $5,
			detail = $6, image_url = $7, thumbnail_url = $8, tag_name = $9,
			star_rating = $10, collection_time = $11, website_data = $12
		WHERE id = $13
	`,
		tool.Name, tool.URL, tool.Title, tool.CategoryName, tool.Content,
		tool.Detail, tool.ImageURL, tool.ThumbnailURL, tool.TagName,
		tool.StarRating, tool.CollectionTime, tool.WebsiteData,
		id,
	)
	if err != nil {
		return errors.NewStoreError("failed to update tool", "web_navigation", "update", err)
	}
	return nil
}
