package reviews

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/internal/taxonomy"
)

const maxTitleLength = 255

// Review is a user-submitted review with its moderation state.
type Review struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Rating           int             `json:"rating"`
	IsAutoConfirmed  bool            `json:"is_auto_confirmed"`
	ConfirmationText string          `json:"confirmation_text"`
	IsConfirmed      bool            `json:"is_confirmed"`
	IsAnon           bool            `json:"is_anon"`
	Image            *string         `json:"image,omitempty"`
	UserID           int64           `json:"user_id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Categories       []taxonomy.Term `json:"categories,omitempty"`
	Tags             []taxonomy.Term `json:"tags,omitempty"`
}

// Moderation is the auto-confirmation decision derived from a classification.
type Moderation struct {
	AutoConfirmed    bool   `json:"is_auto_confirmed"`
	ConfirmationText string `json:"confirmation_text"`
}

// Moderate derives the stored moderation flags from a classification result.
// Clean content is auto-confirmed unless the result is a fallback.
func Moderate(res classifier.Result) Moderation {
	return Moderation{
		AutoConfirmed:    res.Label == classifier.Clean && !res.Fallback,
		ConfirmationText: res.ConfidenceText(),
	}
}

// SubmitCommand holds the input for a new review.
type SubmitCommand struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Categories  []int64 `json:"categories"`
	Tags        []int64 `json:"tags"`
	Anonymous   bool    `json:"is_anon"`
}

func (c *SubmitCommand) validate() error {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	if err := validateTitle(c.Title); err != nil {
		return err
	}
	if c.Description == "" {
		return ErrInvalidReview
	}
	return nil
}

// UpdateCommand holds a partial update. Nil fields are left unchanged; non-nil
// category and tag slices replace the current sets.
type UpdateCommand struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Categories  *[]int64 `json:"categories,omitempty"`
	Tags        *[]int64 `json:"tags,omitempty"`
}

func (c *UpdateCommand) validate() error {
	if c.Title != nil {
		t := strings.TrimSpace(*c.Title)
		if err := validateTitle(t); err != nil {
			return err
		}
		c.Title = &t
	}
	if c.Description != nil {
		d := strings.TrimSpace(*c.Description)
		if d == "" {
			return ErrInvalidReview
		}
		c.Description = &d
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return ErrInvalidReview
	}
	return nil
}

// CheckRequest is the body of POST /reviews/check.
type CheckRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// CheckResponse reports a dry-run classification and the decision it would produce.
type CheckResponse struct {
	classifier.Result
	Moderation
}
