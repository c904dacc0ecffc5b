package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qrvault/qrvault/internal/core/domain"
)

const qrsCollection = "qrs"

type QRCodeRepository struct {
	col *mongo.Collection
}

func NewQRCodeRepository(db *mongo.Database) *QRCodeRepository {
	return &QRCodeRepository{col: db.Collection(qrsCollection)}
}

// user_id is stored as an ObjectID so the admin listing can resolve the
// owner's username with a server-side $lookup against the users collection.
type mongoQRCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Text      string             `bson:"qr_text"`
	CreatedAt string             `bson:"created_at"`
}

func (r *QRCodeRepository) Create(ctx context.Context, code *domain.QRCode) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ownerID, err := primitive.ObjectIDFromHex(code.UserID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", code.UserID, err)
	}

	doc := mongoQRCode{
		UserID:    ownerID,
		Text:      code.Text,
		CreatedAt: formatStoredTime(code.CreatedAt),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert qr code: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		code.ID = oid.Hex()
	}
	return nil
}

func (r *QRCodeRepository) ListByOwner(ctx context.Context, userID string) ([]domain.QRCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", userID, err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list qr codes: %w", err)
	}
	defer cur.Close(ctx)

	codes := []domain.QRCode{}
	for cur.Next(ctx) {
		var doc mongoQRCode
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode qr code: %w", err)
		}
		createdAt, err := parseStoredTime(doc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("decode qr code: %w", err)
		}
		codes = append(codes, domain.QRCode{
			ID:        doc.ID.Hex(),
			UserID:    doc.UserID.Hex(),
			Text:      doc.Text,
			CreatedAt: createdAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list qr codes: %w", err)
	}
	return codes, nil
}

func (r *QRCodeRepository) ListAllWithOwner(ctx context.Context) ([]domain.QRCodeWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: "$owner"}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list qr codes with owner: %w", err)
	}
	defer cur.Close(ctx)

	type joinedQRCode struct {
		ID        primitive.ObjectID `bson:"_id"`
		Text      string             `bson:"qr_text"`
		CreatedAt string             `bson:"created_at"`
		Owner     struct {
			Username string `bson:"username"`
		} `bson:"owner"`
	}

	codes := []domain.QRCodeWithOwner{}
	for cur.Next(ctx) {
		var doc joinedQRCode
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode qr code: %w", err)
		}
		createdAt, err := parseStoredTime(doc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("decode qr code: %w", err)
		}
		codes = append(codes, domain.QRCodeWithOwner{
			ID:            doc.ID.Hex(),
			OwnerUsername: doc.Owner.Username,
			Text:          doc.Text,
			CreatedAt:     createdAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list qr codes with owner: %w", err)
	}
	return codes, nil
}

// DeleteByID removes one record. A malformed or unknown id surfaces as
// domain.ErrQRCodeNotFound rather than silently succeeding.
func (r *QRCodeRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrQRCodeNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete qr code: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrQRCodeNotFound
	}
	return nil
}

// EnsureIndexes backs the owner-scoped newest-first listing.
func (r *QRCodeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
