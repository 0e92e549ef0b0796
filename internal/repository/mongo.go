package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type mongoStore struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// NewMongoStore connects to MongoDB and ensures the slug indexes exist.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig, timeout time.Duration) (Store, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	store := &mongoStore{
		client:       client,
		db:           client.Database(cfg.Name),
		transactions: cfg.Transactions,
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Infof("✅ Connected to MongoDB database %s", cfg.Name)
	return store, nil
}

// EnsureIndexes enforces slug uniqueness for categories and products.
func (s *mongoStore) EnsureIndexes(ctx context.Context) error {
	for _, c := range []domain.Collection{domain.CollectionCategories, domain.CollectionProducts} {
		_, err := s.db.Collection(c.String()).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		})
		if err != nil {
			return classifyMongo("create slug index on "+c.String(), err)
		}
	}
	return nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return domain.StoreUnavailable("ping mongo", err)
	}
	return nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// SupportsTransactions is driven by config since standalone servers reject transactions.
func (s *mongoStore) SupportsTransactions() bool {
	return s.transactions
}

func (s *mongoStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return classifyMongo("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		return nil, fn(txCtx)
	})
	return err
}

func (s *mongoStore) Count(ctx context.Context, c domain.Collection) (int64, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	n, err := s.db.Collection(c.String()).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, classifyMongo("count "+c.String(), err)
	}
	return n, nil
}

func (s *mongoStore) InsertMany(ctx context.Context, c domain.Collection, docs []any) (int, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	res, err := s.db.Collection(c.String()).InsertMany(ctx, docs)
	if err != nil {
		written := 0
		if res != nil {
			written = len(res.InsertedIDs)
		}
		return written, classifyMongo("insert into "+c.String(), err)
	}
	return len(res.InsertedIDs), nil
}

func (s *mongoStore) FindAll(ctx context.Context, c domain.Collection, out any) error {
	if err := checkCollection(c); err != nil {
		return err
	}

	cursor, err := s.db.Collection(c.String()).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return classifyMongo("find "+c.String(), err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return classifyMongo("read "+c.String(), err)
	}
	return nil
}

func (s *mongoStore) settings() *mongo.Collection {
	return s.db.Collection(domain.CollectionSiteSettings.String())
}

func (s *mongoStore) GetSettings(ctx context.Context) (domain.SiteSettings, bool, error) {
	raw, err := s.settings().FindOne(ctx, bson.D{{Key: "_id", Value: domain.SiteSettingsID}}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, classifyMongo("get site settings", err)
	}

	settings, err := settingsFromBSON(raw)
	if err != nil {
		return nil, false, err
	}
	return settings, true, nil
}

// MergeSettings issues one upsert built by settingsUpdate.
func (s *mongoStore) MergeSettings(ctx context.Context, defaults, partial domain.SiteSettings) (domain.SiteSettings, error) {
	update := settingsUpdate(defaults, partial)
	if len(update) == 0 {
		settings, _, err := s.GetSettings(ctx)
		return settings, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	raw, err := s.settings().FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: domain.SiteSettingsID}}, update, opts).Raw()
	if err != nil {
		return nil, classifyMongo("merge site settings", err)
	}
	return settingsFromBSON(raw)
}

// settingsUpdate puts the partial update under $set and the remaining
// defaults under $setOnInsert. A key never appears in both.
func settingsUpdate(defaults, partial domain.SiteSettings) bson.D {
	update := bson.D{}
	if len(partial) > 0 {
		update = append(update, bson.E{Key: "$set", Value: bson.M(partial)})
	}
	if insertOnly := defaults.Without(partial.Keys()); len(insertOnly) > 0 {
		update = append(update, bson.E{Key: "$setOnInsert", Value: bson.M(insertOnly)})
	}
	return update
}

// settingsFromBSON converts a settings document through relaxed extended JSON
// so values come back as plain JSON types.
func settingsFromBSON(raw bson.Raw) (domain.SiteSettings, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to convert site settings: %w", err)
	}
	return decodeSettings(data)
}

// classifyMongo separates server-side errors from connectivity failures.
func classifyMongo(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return domain.StoreUnavailable(op, err)
	}

	var writeErr mongo.WriteException
	var bulkErr mongo.BulkWriteException
	var cmdErr mongo.CommandError
	if errors.As(err, &writeErr) || errors.As(err, &bulkErr) || errors.As(err, &cmdErr) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return domain.StoreUnavailable(op, err)
}
