package domain

import (
	"encoding/json"
	"time"
)

// ScrapeResult is the response envelope of the crawl API. Data is kept raw:
// the payload shape is not guaranteed and the full original bytes are
// persisted alongside the normalized columns.
type ScrapeResult struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// ToolPayload is the loosely-typed tool object inside a scrape result.
// Absent fields decode to empty values.
type ToolPayload struct {
	Name                    string   `json:"name"`
	Title                   string   `json:"title"`
	URL                     string   `json:"url"`
	Description             string   `json:"description"`
	Detail                  string   `json:"detail"`
	ScreenshotData          string   `json:"screenshot_data"`
	ImageURL                string   `json:"image_url"`
	ScreenshotThumbnailData string   `json:"screenshot_thumbnail_data"`
	ThumbnailURL            string   `json:"thumbnail_url"`
	Tags                    []string `json:"tags"`
}

// Tool is a row of the web_navigation table, keyed by URL.
type Tool struct {
	Name           string
	URL            string
	Title          string
	CategoryName   string
	Content        string
	Detail         string
	ImageURL       string
	ThumbnailURL   string
	TagName        string
	StarRating     int
	CollectionTime time.Time
	WebsiteData    string
}
