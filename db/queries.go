package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOneByID fetches a single document by its hex id.
func FindOneByID[T any](ctx context.Context, coll *mongo.Collection, hexID string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	var out T
	err = coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindOneBy fetches the first document matching an arbitrary filter.
func FindOneBy[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindManyByIDs issues one batched $in lookup for every id that parses.
// Malformed ids are skipped, never fatal; callers treat absent documents
// as degraded entries.
func FindManyByIDs[T any](ctx context.Context, coll *mongo.Collection, hexIDs []string) ([]T, error) {
	oids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, id := range hexIDs {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []T{}, nil
	}
	return FindAndDecode[T](ctx, coll, bson.M{"_id": bson.M{"$in": oids}})
}

// FindAndDecode runs a filter query and decodes every result.
func FindAndDecode[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateFieldsByID applies a $set of the given fields.
func UpdateFieldsByID(ctx context.Context, coll *mongo.Collection, hexID string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a document by hex id.
func DeleteByID(ctx context.Context, coll *mongo.Collection, hexID string) error {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	_, err = coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// InsertOne inserts a document and returns the generated hex id.
func InsertOne(ctx context.Context, coll *mongo.Collection, doc any) (string, error) {
	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

// Push appends a value to an array field of the identified document.
func Push(ctx context.Context, coll *mongo.Collection, hexID, field string, value any) error {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	_, err = coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{field: value}})
	return err
}

// Pull removes every historical encoding of a reference from an array
// field: the bare hex string, the ObjectID, and the wrapped object forms.
func Pull(ctx context.Context, coll *mongo.Collection, hexID, field, wrapperKey, refID string) error {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return ErrInvalidID
	}

	forms := []any{refID, bson.M{wrapperKey: refID}}
	if refOID, err := primitive.ObjectIDFromHex(refID); err == nil {
		forms = append(forms, refOID, bson.M{wrapperKey: refOID})
	}

	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	_, err = coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$pull": bson.M{field: bson.M{"$in": forms}}})
	return err
}

// IDForms returns the query encodings a stored reference field may use
// for the given hex id, for use inside $in filters.
func IDForms(hexID string) []any {
	forms := []any{hexID}
	if oid, err := primitive.ObjectIDFromHex(hexID); err == nil {
		forms = append(forms, oid)
	}
	return forms
}
