package taxonomy_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/vouch/internal/taxonomy"
	"github.com/JaimeStill/vouch/internal/testdb"
)

func TestCreateAndList(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	sys := taxonomy.New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	name := "tag-" + uuid.NewString()[:8]
	term, err := sys.Create(ctx, taxonomy.Tags, taxonomy.CreateCommand{Name: "  " + name + " "})
	require.NoError(t, err)
	assert.Equal(t, name, term.Name)

	_, err = sys.Create(ctx, taxonomy.Tags, taxonomy.CreateCommand{Name: name})
	assert.ErrorIs(t, err, taxonomy.ErrDuplicate)

	_, err = sys.Create(ctx, taxonomy.Categories, taxonomy.CreateCommand{Name: name})
	require.NoError(t, err, "vocabularies are independent")

	_, err = sys.Create(ctx, taxonomy.Tags, taxonomy.CreateCommand{Name: ""})
	assert.ErrorIs(t, err, taxonomy.ErrInvalidName)

	terms, err := sys.List(ctx, taxonomy.Tags)
	require.NoError(t, err)
	assert.Contains(t, terms, *term)
}
