package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lesser-scholar/internal/models"
)

var articleIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is a list of validation failures
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Limits bounds the length of submitted fields, in characters
type Limits struct {
	Author  int
	Text    int
	Website int
}

// DefaultLimits returns the standard submission limits
func DefaultLimits() Limits {
	return Limits{
		Author:  models.MaxAuthorLength,
		Text:    models.MaxTextLength,
		Website: models.MaxWebsiteLength,
	}
}

// CommentForm is a comment submission as received
type CommentForm struct {
	Article string
	Author  string
	Text    string
	Website string
}

// Validator provides validation methods
type Validator struct {
	limits Limits
}

// NewValidator creates a new validator instance
func NewValidator(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// ValidateArticleID checks that id is usable as a store key
func (v *Validator) ValidateArticleID(id string) []ValidationError {
	if id == "" {
		return []ValidationError{{Field: "article", Message: "article is required"}}
	}
	if !articleIDRegex.MatchString(id) {
		return []ValidationError{{Field: "article", Message: "invalid article id", Value: id}}
	}
	return nil
}

// ValidateComment validates a comment submission
func (v *Validator) ValidateComment(form *CommentForm) []ValidationError {
	errors := v.ValidateArticleID(form.Article)

	if !utf8.ValidString(form.Author) {
		errors = append(errors, invalidEncoding("author"))
	} else if n := utf8.RuneCountInString(form.Author); n > v.limits.Author {
		errors = append(errors, ValidationError{
			Field:   "author",
			Message: fmt.Sprintf("author exceeds maximum of %d characters", v.limits.Author),
			Value:   n,
		})
	}

	if form.Text == "" {
		errors = append(errors, ValidationError{Field: "text", Message: "comment is empty"})
	} else if !utf8.ValidString(form.Text) {
		errors = append(errors, invalidEncoding("text"))
	} else if n := utf8.RuneCountInString(form.Text); n > v.limits.Text {
		errors = append(errors, ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("comment exceeds maximum of %d characters", v.limits.Text),
			Value:   n,
		})
	}

	if !utf8.ValidString(form.Website) {
		errors = append(errors, invalidEncoding("website"))
	} else if n := utf8.RuneCountInString(form.Website); n > v.limits.Website {
		errors = append(errors, ValidationError{
			Field:   "website",
			Message: fmt.Sprintf("website exceeds maximum of %d characters", v.limits.Website),
			Value:   n,
		})
	}

	return errors
}

// invalidEncoding rejects bytes that cannot be stored in a TOML string
func invalidEncoding(field string) ValidationError {
	return ValidationError{Field: field, Message: field + " is not valid UTF-8"}
}
