package taxonomy

import "strings"

// Term is a tag or category name reviews can be filed under.
type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Vocabulary selects the term set.
type Vocabulary string

const (
	Tags       Vocabulary = "tags"
	Categories Vocabulary = "categories"
)

var tables = map[Vocabulary]string{
	Tags:       "review_tags",
	Categories: "review_categories",
}

func (v Vocabulary) table() (string, error) {
	t, ok := tables[v]
	if !ok {
		return "", ErrUnknownVocabulary
	}
	return t, nil
}

// CreateCommand holds the input for creating a term.
type CreateCommand struct {
	Name string `json:"name"`
}

const maxNameLength = 100

func (c CreateCommand) normalize() (string, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" || len(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
