package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sjperalta/lendtrack-api/internal/models"
)

const borrowersCollection = "borrowers"

// MongoStore persists borrowers as documents in a MongoDB collection. The
// document shape matches the file store byte for byte apart from the id,
// which is a native ObjectID here.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// borrowerDoc pairs the shared borrower shape with a native ObjectID key
type borrowerDoc struct {
	OID             primitive.ObjectID `bson:"_id,omitempty"`
	models.Borrower `bson:",inline"`
}

// NewMongoStore connects to MongoDB with a bounded timeout and verifies the
// connection with a ping before returning. A store is never handed out on a
// dead connection.
func NewMongoStore(ctx context.Context, uri, dbName string, timeout time.Duration) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection(borrowersCollection),
	}, nil
}

// Close disconnects the underlying client
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Name identifies this backend
func (s *MongoStore) Name() string {
	return "database"
}

// ListAll returns every borrower sorted server-side by creation time,
// newest first
func (s *MongoStore) ListAll(ctx context.Context) ([]models.Borrower, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []borrowerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	borrowers := make([]models.Borrower, 0, len(docs))
	for _, doc := range docs {
		b := doc.Borrower
		b.ID = doc.OID.Hex()
		borrowers = append(borrowers, b)
	}
	return borrowers, nil
}

// FindByID returns one borrower. A malformed id is a client error distinct
// from a well-formed id that matches nothing.
func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Borrower, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc borrowerDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	b := doc.Borrower
	b.ID = doc.OID.Hex()
	return &b, nil
}

// Insert generates an ObjectID and persists the borrower
func (s *MongoStore) Insert(ctx context.Context, b *models.Borrower) error {
	oid := primitive.NewObjectID()
	doc := borrowerDoc{OID: oid, Borrower: *b}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	b.ID = oid.Hex()
	return nil
}

// UpdateFields applies a partial $set to one document
func (s *MongoStore) UpdateFields(ctx context.Context, id string, patch FieldPatch) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	set := patch.bson()
	if len(set) == 0 {
		return nil
	}

	res, err := s.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendHistory pushes a record onto one of the history arrays and applies
// the field patch in the same single-document update, relying on MongoDB's
// per-document atomicity
func (s *MongoStore) AppendHistory(ctx context.Context, id string, kind HistoryKind, record any, patch FieldPatch) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$push": bson.M{string(kind): record}}
	if set := patch.bson(); len(set) > 0 {
		update["$set"] = set
	}

	res, err := s.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes one document
func (s *MongoStore) Remove(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// bson converts the non-nil patch fields to a $set document
func (p FieldPatch) bson() bson.M {
	set := bson.M{}
	if p.RemainingBalance != nil {
		set["remainingBalance"] = *p.RemainingBalance
	}
	if p.TotalPenalties != nil {
		set["totalPenalties"] = *p.TotalPenalties
	}
	if p.NextDueDate != nil {
		set["nextDueDate"] = *p.NextDueDate
	}
	if p.MonthlyPayment != nil {
		set["monthlyPayment"] = *p.MonthlyPayment
	}
	return set
}

// parseObjectID validates a caller-supplied id string
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return oid, nil
}
