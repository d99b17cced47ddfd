package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"

	"github.com/yukikurage/todo-api/internal/models"
)

// Collection and table names shared with the repositories.
const (
	UsersCollection = "users"
	TodosCollection = "todos"
)

// Migrate prepares the schema (SQL) or indexes (Mongo).
func (c *Connection) Migrate(ctx context.Context, log zerolog.Logger) error {
	log.Info().Str("driver", string(c.Driver)).Msg("running database migrations")

	var err error
	if c.Mongo != nil {
		err = EnsureMongoIndexes(ctx, c.Mongo)
	} else {
		err = MigrateSQL(c.SQL.WithContext(ctx))
	}
	if err != nil {
		return err
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// MigrateSQL auto-migrates the models and adds indexes GORM tags do not cover.
func MigrateSQL(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Todo{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return AddIndexes(db)
}

// AddIndexes creates any missing named index, portable across dialects.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
	}{
		{&models.User{}, "Email"},
		{&models.Todo{}, "idx_todos_owner_created"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// EnsureMongoIndexes enforces email uniqueness and the owner listing order.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_1"),
	}); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	if _, err := db.Collection(TodosCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdBy_1_createdAt_-1"),
	}); err != nil {
		return fmt.Errorf("failed to create todos index: %w", err)
	}
	return nil
}
