package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

const mongoMetaID = kb.MetaKey

// MongoBackend stores one document per package, keyed by normalized name,
// plus a metadata document with _id "_meta".
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoAlternative struct {
	Name           string `bson:"name"`
	Reason         string `bson:"reason,omitempty"`
	MigrationGuide string `bson:"migration_guide,omitempty"`
}

type mongoPackage struct {
	ID              string             `bson:"_id"`
	DeprecatedSince string             `bson:"deprecated_since,omitempty"`
	Reason          string             `bson:"reason,omitempty"`
	Alternatives    []mongoAlternative `bson:"alternatives,omitempty"`
	Source          string             `bson:"source,omitempty"`
	Sources         []string           `bson:"sources,omitempty"`

	// Set on the metadata document only.
	LastUpdated  time.Time      `bson:"last_updated,omitempty"`
	SourceCounts map[string]int `bson:"source_counts,omitempty"`
}

// NewMongoBackend connects to uri and uses database.collection.
func NewMongoBackend(ctx context.Context, uri, database, collection string) (*MongoBackend, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo backend requires database.mongo_uri")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect %s", database)
	}
	return &MongoBackend{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (b *MongoBackend) Name() string { return "mongo" }

func (b *MongoBackend) Load(ctx context.Context) (*kb.Snapshot, error) {
	cur, err := b.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find in %s", b.coll.Name())
	}
	var docs []mongoPackage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptDatabase, err, "decode %s", b.coll.Name())
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "collection %s is empty", b.coll.Name())
	}

	var meta kb.Metadata
	records := make(map[string]kb.Record, len(docs))
	for _, d := range docs {
		if d.ID == mongoMetaID {
			meta = kb.Metadata{LastUpdated: d.LastUpdated, SourceCounts: d.SourceCounts}
			continue
		}
		alts := make([]kb.Alternative, len(d.Alternatives))
		for i, a := range d.Alternatives {
			alts[i] = kb.Alternative{Name: a.Name, Reason: a.Reason, MigrationGuide: a.MigrationGuide}
		}
		records[d.ID] = kb.Record{
			DeprecatedSince: d.DeprecatedSince,
			Reason:          d.Reason,
			Alternatives:    alts,
			Source:          d.Source,
			Sources:         d.Sources,
		}
	}
	return kb.NewSnapshot(records, meta), nil
}

// Save replaces the collection content with s in one ordered bulk write.
func (b *MongoBackend) Save(ctx context.Context, s *kb.Snapshot) error {
	models := []mongo.WriteModel{mongo.NewDeleteManyModel().SetFilter(bson.D{})}

	all := s.All()
	for _, name := range s.Names() {
		rec := all[name]
		alts := make([]mongoAlternative, len(rec.Alternatives))
		for i, a := range rec.Alternatives {
			alts[i] = mongoAlternative{Name: a.Name, Reason: a.Reason, MigrationGuide: a.MigrationGuide}
		}
		models = append(models, mongo.NewInsertOneModel().SetDocument(mongoPackage{
			ID:              name,
			DeprecatedSince: rec.DeprecatedSince,
			Reason:          rec.Reason,
			Alternatives:    alts,
			Source:          rec.Source,
			Sources:         rec.Sources,
		}))
	}
	meta := s.Metadata()
	models = append(models, mongo.NewInsertOneModel().SetDocument(mongoPackage{
		ID:           mongoMetaID,
		LastUpdated:  meta.LastUpdated,
		SourceCounts: meta.SourceCounts,
	}))

	if _, err := b.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "bulk write to %s", b.coll.Name())
	}
	return nil
}

func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

var _ Backend = (*MongoBackend)(nil)
