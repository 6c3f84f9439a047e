package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/pkg/errors"
)

// DecodeToolPayload extracts the tool object from a scrape payload. Two
// shapes are recognized: a wrapped envelope {code, msg, data} whose data
// carries the tool, or a bare tool object identified by its url field.
// Anything else is an error. The returned raw bytes are the tool object
// itself, preserved for the website_data column.
func DecodeToolPayload(raw json.RawMessage) (*domain.ToolPayload, json.RawMessage, error) {
	var envelope domain.ScrapeResult
	if err := json.Unmarshal(raw, &envelope); err == nil &&
		envelope.Code == 200 && envelope.Msg == "success" && len(envelope.Data) > 0 {
		var payload domain.ToolPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, nil, errors.NewStoreError("failed to decode wrapped tool payload",
				"web_navigation", "normalize", err)
		}
		return &payload, envelope.Data, nil
	}

	var payload domain.ToolPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.URL != "" {
		return &payload, raw, nil
	}

	return nil, nil, errors.NewStoreError("unrecognized scrape payload shape",
		"web_navigation", "normalize", nil)
}

// NormalizeTool maps a decoded payload onto the web_navigation schema, with
// the documented fallback chains for sparsely-populated responses.
func NormalizeTool(payload *domain.ToolPayload, raw json.RawMessage, now time.Time) *domain.Tool {
	name := payload.Name
	if name == "" {
		name = payload.Title
	}

	imageURL := payload.ScreenshotData
	if imageURL == "" {
		imageURL = payload.ImageURL
	}

	thumbnailURL := payload.ScreenshotThumbnailData
	if thumbnailURL == "" {
		thumbnailURL = payload.ThumbnailURL
	}

	return &domain.Tool{
		Name:           name,
		URL:            payload.URL,
		Title:          payload.Title,
		CategoryName:   "AI Tools",
		Content:        payload.Description,
		Detail:         payload.Detail,
		ImageURL:       imageURL,
		ThumbnailURL:   thumbnailURL,
		TagName:        strings.Join(payload.Tags, ","),
		StarRating:     5,
		CollectionTime: now,
		WebsiteData:    string(raw),
	}
}
