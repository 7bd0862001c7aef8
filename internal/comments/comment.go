package comments

import (
	"strings"
	"time"
)

// Comment is a remark on a review or a reply to another comment.
type Comment struct {
	ID               int64      `json:"id"`
	ReviewID         int64      `json:"review_id"`
	ParentID         *int64     `json:"parent_id"`
	Content          string     `json:"content"`
	Rating           int        `json:"rating"`
	IsAutoConfirmed  bool       `json:"is_auto_confirmed"`
	ConfirmationText string     `json:"confirmation_text"`
	IsConfirmed      bool       `json:"is_confirmed"`
	IsProvider       bool       `json:"is_provider"`
	UserID           int64      `json:"user_id"`
	CreatedAt        time.Time  `json:"created_at"`
	Replies          []*Comment `json:"replies"`
}

// CreateCommand holds the input for a new comment. A nil ParentID creates a
// top-level comment.
type CreateCommand struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (c *CreateCommand) validate() error {
	c.Content = strings.TrimSpace(c.Content)
	if c.Content == "" {
		return ErrInvalidComment
	}
	return nil
}

// buildThread nests comments under their parents and returns the top-level
// comments in input order.
func buildThread(flat []Comment) []*Comment {
	byID := make(map[int64]*Comment, len(flat))
	for i := range flat {
		flat[i].Replies = []*Comment{}
		byID[flat[i].ID] = &flat[i]
	}

	roots := make([]*Comment, 0)
	for i := range flat {
		c := &flat[i]
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots
}
