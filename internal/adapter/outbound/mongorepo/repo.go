package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

const (
	setsCollection    = "doc_sets"
	sidebarCollection = "sidebars"
	currentSidebarID  = "current"

	// indexExistsCode is the server error for an index that already exists with other options.
	indexExistsCode = 86
)

type docSetDocument struct {
	Source    string                `bson:"source"`
	Position  int                   `bson:"position"`
	Pages     []domain.PageMetadata `bson:"pages"`
	Tags      []domain.Tag          `bson:"tags,omitempty"`
	TagGroups []domain.TagGroup     `bson:"tag_groups,omitempty"`
}

type sidebarDocument struct {
	ID    string                `bson:"_id"`
	Items []*domain.SidebarItem `bson:"items"`
}

// MongoPageRepository persists doc sets and the last sidebar in MongoDB so a
// serving process can restart without regenerating.
type MongoPageRepository struct {
	client   *mongo.Client
	sets     *mongo.Collection
	sidebars *mongo.Collection
	logger   *slog.Logger
}

// NewMongoPageRepository connects to MongoDB, verifies the connection and ensures indexes.
func NewMongoPageRepository(ctx context.Context, connectionURI, databaseName string, logger *slog.Logger) (*MongoPageRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(databaseName)
	r := &MongoPageRepository{
		client:   client,
		sets:     database.Collection(setsCollection),
		sidebars: database.Collection(sidebarCollection),
		logger:   logger.With("component", "mongo_repo"),
	}

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "source", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "position", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "pages.id", Value: 1}},
		},
	}
	if _, err := r.sets.Indexes().CreateMany(ctx, models); err != nil {
		var commandError mongo.CommandError
		if !errors.As(err, &commandError) || commandError.Code != indexExistsCode {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		r.logger.Info("Indexes already exist, skipping.")
	}
	return r, nil
}

// Close disconnects the client.
func (r *MongoPageRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Save stores set. A set from a source already stored keeps its position.
func (r *MongoPageRepository) Save(ctx context.Context, set domain.DocSet) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	filter := bson.M{"source": set.Source}
	var existing docSetDocument
	position := 0
	err := r.sets.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == nil:
		position = existing.Position
	case errors.Is(err, mongo.ErrNoDocuments):
		count, err := r.sets.CountDocuments(ctx, bson.M{})
		if err != nil {
			return fmt.Errorf("failed to count doc sets: %w", err)
		}
		position = int(count)
	default:
		return fmt.Errorf("failed to look up doc set %s: %w", set.Source, err)
	}

	doc := docSetDocument{
		Source:    set.Source,
		Position:  position,
		Pages:     set.Pages,
		Tags:      set.Tags,
		TagGroups: set.TagGroups,
	}
	if _, err := r.sets.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save doc set %s: %w", set.Source, err)
	}
	r.logger.Info("Saved doc set", slog.String("source", set.Source), slog.Int("position", position), slog.Int("page_count", len(set.Pages)))
	return nil
}

func (r *MongoPageRepository) allSets(ctx context.Context) ([]domain.DocSet, error) {
	cursor, err := r.sets.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"position": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query doc sets: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []docSetDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode doc sets: %w", err)
	}
	sets := make([]domain.DocSet, 0, len(docs))
	for _, d := range docs {
		sets = append(sets, domain.DocSet{Source: d.Source, Pages: d.Pages, Tags: d.Tags, TagGroups: d.TagGroups})
	}
	return sets, nil
}

// List returns every stored page in save order.
func (r *MongoPageRepository) List(ctx context.Context) ([]domain.PageMetadata, error) {
	sets, err := r.allSets(ctx)
	if err != nil {
		return nil, err
	}
	var pages []domain.PageMetadata
	for _, set := range sets {
		pages = append(pages, set.Pages...)
	}
	return pages, nil
}

// FindByID returns the first stored page with the given id.
func (r *MongoPageRepository) FindByID(ctx context.Context, id string) (*domain.PageMetadata, error) {
	var doc docSetDocument
	opts := options.FindOne().SetSort(bson.M{"position": 1})
	err := r.sets.FindOne(ctx, bson.M{"pages.id": id}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to find page %s: %w", id, err)
	}
	for i := range doc.Pages {
		if doc.Pages[i].ID == id {
			page := doc.Pages[i]
			return &page, nil
		}
	}
	return nil, usecase.ErrPageNotFound
}

// Taxonomy unites the tags and tag groups of all sets.
func (r *MongoPageRepository) Taxonomy(ctx context.Context) ([]domain.Tag, []domain.TagGroup, error) {
	sets, err := r.allSets(ctx)
	if err != nil {
		return nil, nil, err
	}
	tags, groups := domain.MergeTaxonomy(sets)
	return tags, groups, nil
}

// SaveSidebar stores the last generated sidebar.
func (r *MongoPageRepository) SaveSidebar(ctx context.Context, items []*domain.SidebarItem) error {
	doc := sidebarDocument{ID: currentSidebarID, Items: items}
	if doc.Items == nil {
		doc.Items = []*domain.SidebarItem{}
	}
	_, err := r.sidebars.ReplaceOne(ctx, bson.M{"_id": currentSidebarID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save sidebar: %w", err)
	}
	return nil
}

// Sidebar returns the last generated sidebar.
func (r *MongoPageRepository) Sidebar(ctx context.Context) ([]*domain.SidebarItem, error) {
	var doc sidebarDocument
	if err := r.sidebars.FindOne(ctx, bson.M{"_id": currentSidebarID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrSidebarNotGenerated
		}
		return nil, fmt.Errorf("failed to read sidebar: %w", err)
	}
	return doc.Items, nil
}

// Reset drops all stored sets and the sidebar.
func (r *MongoPageRepository) Reset(ctx context.Context) error {
	if _, err := r.sets.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear doc sets: %w", err)
	}
	if _, err := r.sidebars.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear sidebar: %w", err)
	}
	r.logger.Debug("Repository reset")
	return nil
}
