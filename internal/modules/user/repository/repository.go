package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository interface {
	FindAll(ctx context.Context, limit int) ([]*entity.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	// UpdateProfile overwrites the fields refreshed on login: username,
	// profilePic, companyName, role, linkedIn, interests and updated_at.
	UpdateProfile(ctx context.Context, user *entity.User) error
	// Replace overwrites every editable field including email and
	// emailVerified. created_at is kept.
	Replace(ctx context.Context, user *entity.User) error
	// MarkEmailVerified matches nothing silently when id is absent.
	MarkEmailVerified(ctx context.Context, id bson.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(database.UserCollection)}
}

func (r *userRepository) FindAll(ctx context.Context, limit int) ([]*entity.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var users []*entity.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.User, error) {
	users := []*entity.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, user)
	return err
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.update(ctx, user.ID, bson.M{
		"username":    user.Username,
		"profilePic":  user.ProfilePic,
		"companyName": user.CompanyName,
		"role":        user.Role,
		"linkedIn":    user.LinkedIn,
		"interests":   user.Interests,
		"updated_at":  user.UpdatedAt,
	})
}

func (r *userRepository) Replace(ctx context.Context, user *entity.User) error {
	return r.update(ctx, user.ID, bson.M{
		"username":      user.Username,
		"email":         user.Email,
		"emailVerified": user.EmailVerified,
		"profilePic":    user.ProfilePic,
		"companyName":   user.CompanyName,
		"role":          user.Role,
		"linkedIn":      user.LinkedIn,
		"interests":     user.Interests,
		"updated_at":    user.UpdatedAt,
	})
}

func (r *userRepository) update(ctx context.Context, id bson.ObjectID, set bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, id bson.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"emailVerified": true}})
	return err
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
