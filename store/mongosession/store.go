package mongosession

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/botguard/botguard/core/session"
)

// document mirrors session.Data with an explicit _id so Save can
// upsert by IP without a separate unique index lookup.
type document struct {
	ID               string               `bson:"_id"`
	FirstSeen        time.Time            `bson:"firstSeen"`
	LastSeen         time.Time            `bson:"lastSeen"`
	RequestCount     int                  `bson:"requestCount"`
	Requests         []session.RequestLog `bson:"requests"`
	Fingerprints     map[string]struct{}  `bson:"fingerprints"`
	SuspicionHistory []int                `bson:"suspicionHistory"`
}

func fromData(data session.Data) document {
	return document{
		ID:               data.IP,
		FirstSeen:        data.FirstSeen,
		LastSeen:         data.LastSeen,
		RequestCount:     data.RequestCount,
		Requests:         data.Requests,
		Fingerprints:     data.Fingerprints,
		SuspicionHistory: data.SuspicionHistory,
	}
}

func (d document) toData() session.Data {
	return session.Data{
		IP:               d.ID,
		FirstSeen:        d.FirstSeen,
		LastSeen:         d.LastSeen,
		RequestCount:     d.RequestCount,
		Requests:         d.Requests,
		Fingerprints:     d.Fingerprints,
		SuspicionHistory: d.SuspicionHistory,
	}
}

// Store implements session.Store against a MongoDB collection, keyed
// by IP as the document's _id.
type Store struct {
	collection *mongo.Collection
}

// New wraps an already-connected client's configured database and
// collection.
func New(client *mongo.Client, cfg Config) *Store {
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return &Store{collection: coll}
}

func (s *Store) Get(ctx context.Context, ip string) (session.Data, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": ip}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return session.Data{}, session.ErrNotFound
	}
	if err != nil {
		return session.Data{}, err
	}
	return doc.toData(), nil
}

// Save upserts data. ttl is accepted for interface parity with
// MemoryStore but is not separately enforced here: expiry is handled
// by DeleteExpired, matching the coordinator's own periodic sweep
// rather than a TTL index, since LastSeen (not insertion time) governs
// expiry.
func (s *Store) Save(ctx context.Context, data session.Data, _ time.Duration) error {
	doc := fromData(data)
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (s *Store) Delete(ctx context.Context, ip string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": ip})
	return err
}

func (s *Store) DeleteExpired(ctx context.Context, now time.Time, timeout time.Duration) (int, error) {
	cutoff := now.Add(-timeout)
	result, err := s.collection.DeleteMany(ctx, bson.M{"lastSeen": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return int(result.DeletedCount), nil
}
