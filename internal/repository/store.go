package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/model"
)

// Record is a pointer to a stored document type.
type Record[T any] interface {
	*T
	Base() *model.Document
}

// Store defines persistence operations over one collection.
type Store[T any] interface {
	// Insert assigns an id and timestamps, then stores doc.
	Insert(ctx context.Context, doc *T) error

	// Update sets the given fields and returns the stored document.
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)

	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, filter map[string]any) (*T, error)
	Find(ctx context.Context, q model.ListQuery) (model.Page[T], error)
	Delete(ctx context.Context, id string) error

	// Aggregate runs a pipeline and decodes every result into out.
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error

	// SyncStats reports how many records changed after since.
	SyncStats(ctx context.Context, since time.Time) (model.SyncStatus, error)
}

// StoreConfig names the collection and how its errors are reported.
type StoreConfig struct {
	Collection  string
	Resource    string
	UniqueField string
}

// immutableFields can only be written at insert time.
var immutableFields = map[string]bool{
	"_id":          true,
	"createdAt":    true,
	"metaTracking": true,
	"gtmTracking":  true,
	"utmParams":    true,
}

type mongoStore[T any, P Record[T]] struct {
	coll *mongo.Collection
	cfg  StoreConfig
	now  func() time.Time
}

// NewStore creates a Store backed by a MongoDB collection.
func NewStore[T any, P Record[T]](database *mongo.Database, cfg StoreConfig) Store[T] {
	return newStore[T, P](database.Collection(cfg.Collection), cfg)
}

func newStore[T any, P Record[T]](coll *mongo.Collection, cfg StoreConfig) *mongoStore[T, P] {
	if cfg.Resource == "" {
		cfg.Resource = cfg.Collection
	}
	return &mongoStore[T, P]{coll: coll, cfg: cfg, now: time.Now}
}

func (s *mongoStore[T, P]) Insert(ctx context.Context, doc *T) error {
	base := P(doc).Base()
	now := s.now().UTC()
	if base.ID.IsZero() {
		base.ID = primitive.NewObjectID()
	}
	base.CreatedAt = now
	base.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperror.ConflictError{Message: s.conflictMessage()}
		}
		return apperror.Persistence("insert "+s.cfg.Resource, err)
	}
	return nil
}

func (s *mongoStore[T, P]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &apperror.NotFoundError{Resource: s.cfg.Resource, ID: id}
	}

	set := bson.M{}
	for k, v := range fields {
		if immutableFields[k] {
			return nil, apperror.NewValidation("field %s cannot be updated", k)
		}
		set[k] = v
	}
	set["updatedAt"] = s.now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts)

	var doc T
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &apperror.NotFoundError{Resource: s.cfg.Resource, ID: id}
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, &apperror.ConflictError{Message: s.conflictMessage()}
		}
		return nil, apperror.Persistence("update "+s.cfg.Resource, err)
	}
	return &doc, nil
}

func (s *mongoStore[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &apperror.NotFoundError{Resource: s.cfg.Resource, ID: id}
	}
	doc, err := s.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		var nf *apperror.NotFoundError
		if errors.As(err, &nf) {
			nf.ID = id
		}
		return nil, err
	}
	return doc, nil
}

func (s *mongoStore[T, P]) FindOne(ctx context.Context, filter map[string]any) (*T, error) {
	return s.findOne(ctx, bson.M(filter))
}

func (s *mongoStore[T, P]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &apperror.NotFoundError{Resource: s.cfg.Resource, ID: describeFilter(filter)}
		}
		return nil, apperror.Persistence("find "+s.cfg.Resource, err)
	}
	return &doc, nil
}

func (s *mongoStore[T, P]) Find(ctx context.Context, q model.ListQuery) (model.Page[T], error) {
	q = q.Normalize()
	filter := BuildFilter(q)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return model.Page[T]{}, apperror.Persistence("count "+s.cfg.Resource, err)
	}

	direction := 1
	if q.SortDesc {
		direction = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: q.SortField, Value: direction}, {Key: "_id", Value: direction}}).
		SetSkip(q.Offset).
		SetLimit(q.Limit)

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return model.Page[T]{}, apperror.Persistence("find "+s.cfg.Resource, err)
	}
	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return model.Page[T]{}, apperror.Persistence("decode "+s.cfg.Resource, err)
	}

	return model.Page[T]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

func (s *mongoStore[T, P]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &apperror.NotFoundError{Resource: s.cfg.Resource, ID: id}
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperror.Persistence("delete "+s.cfg.Resource, err)
	}
	if res.DeletedCount == 0 {
		return &apperror.NotFoundError{Resource: s.cfg.Resource, ID: id}
	}
	return nil
}

func (s *mongoStore[T, P]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return apperror.Persistence("aggregate "+s.cfg.Resource, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return apperror.Persistence("decode aggregate "+s.cfg.Resource, err)
	}
	return nil
}

func (s *mongoStore[T, P]) SyncStats(ctx context.Context, since time.Time) (model.SyncStatus, error) {
	status := model.SyncStatus{Collection: s.cfg.Collection}
	if !since.IsZero() {
		status.LastSyncTimestamp = since.UnixMilli()
	}

	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return status, apperror.Persistence("count "+s.cfg.Resource, err)
	}
	status.TotalRecords = total

	pending := total
	if !since.IsZero() {
		pending, err = s.coll.CountDocuments(ctx, bson.M{"updatedAt": bson.M{"$gt": since.UTC()}})
		if err != nil {
			return status, apperror.Persistence("count pending "+s.cfg.Resource, err)
		}
	}
	status.RecordsPendingSync = pending
	status.SyncRequired = pending > 0

	var latest struct {
		UpdatedAt time.Time `bson:"updatedAt"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetProjection(bson.M{"updatedAt": 1})
	err = s.coll.FindOne(ctx, bson.M{}, opts).Decode(&latest)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return status, apperror.Persistence("latest "+s.cfg.Resource, err)
	default:
		status.LastModifiedTimestamp = latest.UpdatedAt.UnixMilli()
	}
	return status, nil
}

func (s *mongoStore[T, P]) conflictMessage() string {
	if s.cfg.UniqueField == "" {
		return fmt.Sprintf("%s already exists", s.cfg.Resource)
	}
	return fmt.Sprintf("%s with this %s already exists", s.cfg.Resource, s.cfg.UniqueField)
}

// BuildFilter translates a ListQuery into a MongoDB filter.
func BuildFilter(q model.ListQuery) bson.M {
	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}
	if q.Search != "" && len(q.SearchFields) > 0 {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		or := make(bson.A, 0, len(q.SearchFields))
		for _, field := range q.SearchFields {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}
	if q.UpdatedSince != nil {
		filter["updatedAt"] = bson.M{"$gt": q.UpdatedSince.UTC()}
	}
	return filter
}

func describeFilter(filter bson.M) string {
	if id, ok := filter["_id"].(primitive.ObjectID); ok {
		return id.Hex()
	}
	return fmt.Sprint(map[string]any(filter))
}
