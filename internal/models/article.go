package models

import (
	"time"
)

// Article describes a published article from the site catalog
type Article struct {
	Name        string    `json:"name" toml:"name"`
	Title       string    `json:"title" toml:"title"`
	Description string    `json:"description" toml:"description"`
	Date        time.Time `json:"date" toml:"date"`
	Tags        []string  `json:"tags" toml:"tags"`
}

// Tag groups articles sharing a tag
type Tag struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Articles []string `json:"articles"`
}

// ArticleView is the data behind an article page
type ArticleView struct {
	Article  *Article         `json:"article,omitempty"`
	Name     string           `json:"name"`
	Comments []DisplayComment `json:"comments"`
}

// TagView is the data behind a tag page
type TagView struct {
	Tag      Tag       `json:"tag"`
	Articles []Article `json:"articles"`
}

// Index is the data behind the site front page
type Index struct {
	Articles          []Article `json:"articles"`
	Tags              []Tag     `json:"tags"`
	RecentlyCommented []Article `json:"recently_commented"`
}
