package mongorepo_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/internal/adapter/outbound/mongorepo"
	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

var _ usecase.PageRepository = (*mongorepo.MongoPageRepository)(nil)

// newRepo connects to the server named by OPENAPIDOCS_TEST_MONGO_URI using a
// throwaway database. Tests are skipped when the variable is unset.
func newRepo(t *testing.T) *mongorepo.MongoPageRepository {
	t.Helper()
	uri := os.Getenv("OPENAPIDOCS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("OPENAPIDOCS_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo, err := mongorepo.NewMongoPageRepository(ctx, uri, "openapidocs_test_"+uuid.NewString()[:8], logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Reset(context.Background())
		_ = repo.Close(context.Background())
	})
	return repo
}

func page(id string) domain.PageMetadata {
	return domain.PageMetadata{Type: domain.PageTypeAPI, ID: id, Title: id,
		API: &domain.APIMetadata{Method: "get", Path: "/" + id, Tags: []string{"pets"}}}
}

func TestMongoPageRepository_SaveListFind(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(repo.Save(ctx, domain.DocSet{Source: "a.yaml", Pages: []domain.PageMetadata{page("one")},
		Tags: []domain.Tag{{Name: "pets", Description: "first"}}}))
	require.NoError(repo.Save(ctx, domain.DocSet{Source: "b.yaml", Pages: []domain.PageMetadata{page("two"), page("one")},
		Tags: []domain.Tag{{Name: "pets", Description: "second"}}, TagGroups: []domain.TagGroup{{Name: "All", Tags: []string{"pets"}}}}))
	// Replacing a set keeps its position.
	require.NoError(repo.Save(ctx, domain.DocSet{Source: "a.yaml", Pages: []domain.PageMetadata{page("one"), page("three")},
		Tags: []domain.Tag{{Name: "pets", Description: "first"}}}))

	pages, err := repo.List(ctx)
	require.NoError(err)
	var ids []string
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	assert.Equal([]string{"one", "three", "two", "one"}, ids)

	got, err := repo.FindByID(ctx, "two")
	require.NoError(err)
	assert.Equal("/two", got.API.Path)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(err, usecase.ErrPageNotFound)

	tags, groups, err := repo.Taxonomy(ctx)
	require.NoError(err)
	assert.Equal([]domain.Tag{{Name: "pets", Description: "first"}}, tags)
	assert.Equal([]domain.TagGroup{{Name: "All", Tags: []string{"pets"}}}, groups)
}

func TestMongoPageRepository_Sidebar(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.Sidebar(ctx)
	assert.ErrorIs(err, usecase.ErrSidebarNotGenerated)

	collapsed := true
	items := []*domain.SidebarItem{
		{Type: domain.SidebarDoc, ID: "introduction"},
		{Type: domain.SidebarCategory, Label: "pets", Collapsed: &collapsed, Items: []*domain.SidebarItem{
			{Type: domain.SidebarDoc, ID: "list-pets", Label: "List pets", ClassName: "api-method get"},
		}},
	}
	require.NoError(repo.SaveSidebar(ctx, items))

	got, err := repo.Sidebar(ctx)
	require.NoError(err)
	require.Len(got, 2)
	assert.Equal("pets", got[1].Label)
	require.NotNil(got[1].Collapsed)
	assert.True(*got[1].Collapsed)
	assert.Equal("list-pets", got[1].Items[0].ID)

	require.NoError(repo.Reset(ctx))
	_, err = repo.Sidebar(ctx)
	assert.ErrorIs(err, usecase.ErrSidebarNotGenerated)
	pages, err := repo.List(ctx)
	require.NoError(err)
	assert.Empty(pages)
}
