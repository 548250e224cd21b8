package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// InsertUser stores a new account.
func (r *Repository) InsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.Collection(collUsers).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, r.fail("insert user", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// FindUserByEmail looks up an account by its lowercased email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var user models.User
	err := r.db.Collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, r.fail("find user by email", err)
	}
	return &user, nil
}

// FindUserByID looks up an account by id.
func (r *Repository) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var user models.User
	err := r.db.Collection(collUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, r.fail("find user by id", err)
	}
	return &user, nil
}

// CountUsersByRole counts accounts holding one role.
func (r *Repository) CountUsersByRole(ctx context.Context, role models.Role) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	n, err := r.db.Collection(collUsers).CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, r.fail("count users by role", err)
	}
	return n, nil
}
