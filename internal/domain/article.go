package domain

import "time"

// RawArticle is an aggregated source item. It lives only for one run; the
// generative pipeline consumes it and nothing persists it.
type RawArticle struct {
	Title   string
	Content string
	Link    string
	PubDate time.Time
	Source  string
}

// DedupeKey identifies an article across sources.
func (a RawArticle) DedupeKey() string {
	return a.Title + "-" + a.Link
}
