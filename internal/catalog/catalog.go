package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/lesser-scholar/internal/models"
	"github.com/pelletier/go-toml/v2"
)

// metaFile is the on-disk site description
type metaFile struct {
	Tags     []string         `toml:"tags"`
	Articles []models.Article `toml:"articles"`
}

// Catalog indexes the site's articles and tags
type Catalog struct {
	articles map[string]*models.Article
	order    []string
	tags     []models.Tag
}

// Load reads the catalog from path. A missing file yields an empty catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var meta metaFile
	if err := toml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return New(meta.Articles, meta.Tags), nil
}

// New builds a catalog from articles in listing order and the declared tags
func New(articles []models.Article, tagNames []string) *Catalog {
	c := &Catalog{articles: make(map[string]*models.Article, len(articles))}

	for i := range articles {
		a := articles[i]
		c.articles[a.Name] = &a
		c.order = append(c.order, a.Name)
	}

	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tags = append(tags, models.Tag{Name: name, Articles: []string{}})
	}
	for _, a := range articles {
		for _, t := range a.Tags {
			for i := range tags {
				if tags[i].Name == t {
					tags[i].Articles = append(tags[i].Articles, a.Name)
					tags[i].Count++
					break
				}
			}
		}
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Count > tags[j].Count })
	c.tags = tags

	return c
}

// Empty reports whether the catalog lists no articles
func (c *Catalog) Empty() bool {
	return len(c.articles) == 0
}

// Lookup returns the article with the given name
func (c *Catalog) Lookup(name string) (*models.Article, bool) {
	a, ok := c.articles[name]
	return a, ok
}

// Accepts reports whether comments may be filed under name. An empty
// catalog accepts every name.
func (c *Catalog) Accepts(name string) bool {
	if c.Empty() {
		return true
	}
	_, ok := c.articles[name]
	return ok
}

// Resolve maps article ids to catalog entries, skipping unknown ids
func (c *Catalog) Resolve(names []string) []models.Article {
	out := make([]models.Article, 0, len(names))
	for _, name := range names {
		if a, ok := c.articles[name]; ok {
			out = append(out, *a)
		}
	}
	return out
}

// Recent returns up to n articles in listing order
func (c *Catalog) Recent(n int) []models.Article {
	if n > len(c.order) {
		n = len(c.order)
	}
	return c.Resolve(c.order[:n])
}

// Tag returns the tag with the given name
func (c *Catalog) Tag(name string) (*models.Tag, bool) {
	for i := range c.tags {
		if c.tags[i].Name == name {
			return &c.tags[i], true
		}
	}
	return nil, false
}

// Tags returns tags sorted by descending article count
func (c *Catalog) Tags() []models.Tag {
	return c.tags
}
