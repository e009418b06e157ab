package repository

import (
	"context"
	"errors"
	"time"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/query"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// accountProjection strips the stored secret from normal reads. Only
// GetByEmailWithPassword and GetByResetToken fetch it, for verification.
var accountProjection = bson.M{"password": 0}

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(database *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: database.Collection("accounts")}
}

func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	a.CreatedAt = time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewValidation("email already registered")
		}
		return apperror.NewInternal(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		a.ID = id
	}
	a.PasswordHash = ""
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Account, error) {
	var a model.Account
	err := r.coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(accountProjection)).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("account not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return &a, nil
}

// GetByIDWithPassword fetches the stored hash for current-password
// re-verification.
func (r *AccountRepository) GetByIDWithPassword(ctx context.Context, id bson.ObjectID) (*model.Account, error) {
	var a model.Account
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("account not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return &a, nil
}

// GetByEmailWithPassword is the privileged credential lookup used by login
// and the password-reset flow.
func (r *AccountRepository) GetByEmailWithPassword(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("account not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return &a, nil
}

// GetByResetToken matches a stored reset-token hash that has not expired.
func (r *AccountRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.Account, error) {
	var a model.Account
	err := r.coll.FindOne(ctx, bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": now},
	}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("account not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return &a, nil
}

func (r *AccountRepository) UpdateDetails(ctx context.Context, id bson.ObjectID, name, email string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"name": name, "email": email}})
}

// SetPassword stores a new hash and consumes any outstanding reset token.
func (r *AccountRepository) SetPassword(ctx context.Context, id bson.ObjectID, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
}

func (r *AccountRepository) SetResetToken(ctx context.Context, id bson.ObjectID, tokenHash string, expire time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"resetPasswordToken": tokenHash, "resetPasswordExpire": expire},
	})
}

func (r *AccountRepository) ClearResetToken(ctx context.Context, id bson.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
}

// Update applies an admin edit. Fields is already stripped of protected
// keys by the service.
func (r *AccountRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	if len(fields) == 0 {
		return nil
	}
	return r.updateOne(ctx, id, bson.M{"$set": fields})
}

func (r *AccountRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.NewInternal(err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFound("account not found")
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, d query.Descriptor) (*ListResult[model.Account], error) {
	return FindPage[model.Account](ctx, r.coll, d, bson.M{})
}

func (r *AccountRepository) updateOne(ctx context.Context, id bson.ObjectID, update bson.M) error {
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewValidation("email already registered")
		}
		return apperror.NewInternal(err)
	}
	if res.MatchedCount == 0 {
		return apperror.NewNotFound("account not found")
	}
	return nil
}
