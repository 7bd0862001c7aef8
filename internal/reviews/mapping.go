package reviews

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/vouch/internal/taxonomy"
	"github.com/JaimeStill/vouch/pkg/query"
	"github.com/JaimeStill/vouch/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reviews", "r").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("rating", "Rating").
	Project("is_auto_confirmed", "IsAutoConfirmed").
	Project("confirmation_text", "ConfirmationText").
	Project("is_confirmed", "IsConfirmed").
	Project("is_anon", "IsAnon").
	Project("image", "Image").
	Project("user_id", "UserID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const (
	tagFilter      = "SELECT 1 FROM review_tag_links tl WHERE tl.review_id = r.id AND tl.tag_id = ANY($%d)"
	categoryFilter = "SELECT 1 FROM review_category_links cl WHERE cl.review_id = r.id AND cl.category_id = ANY($%d)"
)

// Filters contains optional filtering criteria for review queries.
// Tags and Categories match reviews linked to any of the given ids.
type Filters struct {
	Tags       []int64 `json:"tags,omitempty"`
	Categories []int64 `json:"categories,omitempty"`
	UserID     *int64  `json:"user_id,omitempty"`
	Confirmed  *bool   `json:"confirmed,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereExists(len(f.Tags) == 0, tagFilter, f.Tags).
		WhereExists(len(f.Categories) == 0, categoryFilter, f.Categories).
		WhereEquals("UserID", f.UserID).
		WhereEquals("IsConfirmed", f.Confirmed)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// tags and categories are comma-separated id lists; user_id=0 means all users.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	f.Tags = parseIDs(values.Get("tags"))
	f.Categories = parseIDs(values.Get("categories"))

	if uid := values.Get("user_id"); uid != "" {
		if v, err := strconv.ParseInt(uid, 10, 64); err == nil && v > 0 {
			f.UserID = &v
		}
	}

	if c := values.Get("confirmed"); c != "" {
		if v, err := strconv.ParseBool(c); err == nil {
			f.Confirmed = &v
		}
	}

	return f
}

func parseIDs(s string) []int64 {
	if s == "" {
		return nil
	}

	var ids []int64
	for part := range strings.SplitSeq(s, ",") {
		if v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, v)
		}
	}
	return ids
}

func scanReview(s repository.Scanner) (Review, error) {
	var r Review
	err := s.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Rating,
		&r.IsAutoConfirmed,
		&r.ConfirmationText,
		&r.IsConfirmed,
		&r.IsAnon,
		&r.Image,
		&r.UserID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func scanTerm(s repository.Scanner) (taxonomy.Term, error) {
	var t taxonomy.Term
	err := s.Scan(&t.ID, &t.Name)
	return t, err
}
