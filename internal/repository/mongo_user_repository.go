package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
)

// userDocument keeps the field names of the existing users collection.
type userDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	PasswordDigest string             `bson:"password,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (d userDocument) model() *models.User {
	return &models.User{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Email:          d.Email,
		PasswordDigest: d.PasswordDigest,
		CreatedAt:      d.CreatedAt,
	}
}

// MongoUserRepository is a MongoDB implementation of UserRepository
type MongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates a new UserRepository backed by MongoDB
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{users: db.Collection(database.UsersCollection)}
}

// Create creates a new user
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	doc := userDocument{
		ID:             oid,
		Name:           user.Name,
		Email:          user.Email,
		PasswordDigest: user.PasswordDigest,
		CreatedAt:      user.CreatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID finds a user by ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	return r.findOne(ctx, bson.M{"_id": oid}, opts)
}

// FindByEmail finds a user by email
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return doc.model(), nil
}

func translateMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
