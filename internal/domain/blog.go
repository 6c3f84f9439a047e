package domain

// BlogDraft is the output of the draft stage, written in the native language.
type BlogDraft struct {
	Title   string
	Slug    string
	Content string
	Excerpt string
	Tags    []string
}

// LocalizedContent is one language's rendition of a post.
type LocalizedContent struct {
	Title   string
	Content string
	Excerpt string
	Slug    string
}

// MultilingualPost is the assembled result of the translation stage. Entries
// is keyed by language code and always contains the default language, whose
// content ends up in the primary row columns rather than a translation
// structure.
type MultilingualPost struct {
	Entries map[string]LocalizedContent
	Tags    []string
}

// Author is a row of the blog_author table.
type Author struct {
	ID     int64
	Name   string
	Bio    string
	Avatar string
}
