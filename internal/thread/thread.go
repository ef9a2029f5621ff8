package thread

import (
	"github.com/lesser-scholar/internal/models"
)

const dateLayout = "2006-01-02"

// Build turns published comments into display comments, keeping their order.
// A reply is attached to the first earlier comment carrying the referenced
// post index; replies whose parent is not found are left unlinked.
func Build(published []models.PublishedComment) []models.DisplayComment {
	display := make([]models.DisplayComment, 0, len(published))
	byIndex := make(map[int64]int, len(published))

	for _, c := range published {
		if c.ParentIndex != nil {
			if pos, ok := byIndex[*c.ParentIndex]; ok {
				display[pos].Replies = append(display[pos].Replies, c.PostIndex)
			}
		}

		if _, seen := byIndex[c.PostIndex]; !seen {
			byIndex[c.PostIndex] = len(display)
		}
		display = append(display, models.DisplayComment{
			Date:        models.SubmittedTime(c.SubmittedAt).Format(dateLayout),
			Author:      models.AuthorName(c.Author),
			Website:     c.Website,
			BodyHTML:    c.BodyHTML,
			PostIndex:   c.PostIndex,
			ParentIndex: c.ParentIndex,
			Replies:     []int64{},
		})
	}

	return display
}
