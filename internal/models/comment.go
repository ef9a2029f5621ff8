package models

import (
	"time"
)

// UnmoderatedComment is a submitted comment waiting in the intake queue
type UnmoderatedComment struct {
	ID          string  `json:"id" toml:"id"`
	SubmittedAt int64   `json:"timestamp" toml:"timestamp"`
	Author      *string `json:"author,omitempty" toml:"author,omitempty"`
	Website     *string `json:"website,omitempty" toml:"website,omitempty"`
	ArticleID   string  `json:"article" toml:"article"`
	RawText     string  `json:"text" toml:"text"`
}

// UnmoderatedComments is the on-disk shape of the intake queue
type UnmoderatedComments struct {
	Comments []UnmoderatedComment `toml:"comments"`
}

// PublishedComment is an approved comment in an article's published store
type PublishedComment struct {
	SubmittedAt int64   `json:"timestamp" toml:"timestamp"`
	Author      *string `json:"author,omitempty" toml:"author,omitempty"`
	Website     *string `json:"website,omitempty" toml:"website,omitempty"`
	BodyHTML    string  `json:"text" toml:"text"`
	PostIndex   int64   `json:"post_index" toml:"post_index"`
	ParentIndex *int64  `json:"reply_to,omitempty" toml:"reply_to,omitempty"`
}

// PublishedComments is the on-disk shape of a published store
type PublishedComments struct {
	Comments []PublishedComment `toml:"comments"`
}

// DisplayComment is a published comment prepared for rendering
type DisplayComment struct {
	Date        string  `json:"date"`
	Author      string  `json:"author"`
	Website     *string `json:"website,omitempty"`
	BodyHTML    string  `json:"text"`
	PostIndex   int64   `json:"post_index"`
	ParentIndex *int64  `json:"reply_to,omitempty"`
	Replies     []int64 `json:"replies"`
}

// PendingComment is an intake entry with its rendered preview
type PendingComment struct {
	UnmoderatedComment
	Position    int    `json:"position"`
	PreviewHTML string `json:"preview_html"`
	AuthorName  string `json:"author_name"`
}

// AnonymousAuthor is shown for comments submitted without a name
const AnonymousAuthor = "Anon"

// Submission limits
const (
	MaxAuthorLength  = 100
	MaxTextLength    = 10000
	MaxWebsiteLength = 500
)

// AuthorName returns the display name for an optional author
func AuthorName(author *string) string {
	if author == nil {
		return AnonymousAuthor
	}
	return *author
}

// SubmittedTime converts a stored unix timestamp to UTC time
func SubmittedTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

// OptionalString maps an empty form value to nil
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
