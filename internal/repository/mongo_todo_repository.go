package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
)

// todoDocument keeps the field names of the existing todos collection;
// the owner is stored as createdBy.
type todoDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	Completed   bool               `bson:"completed"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newTodoDocument(todo *models.Todo) (todoDocument, error) {
	id, err := primitive.ObjectIDFromHex(todo.ID)
	if err != nil {
		return todoDocument{}, fmt.Errorf("invalid todo id: %w", err)
	}
	owner, err := primitive.ObjectIDFromHex(todo.OwnerID)
	if err != nil {
		return todoDocument{}, fmt.Errorf("invalid owner id: %w", err)
	}
	return todoDocument{
		ID:          id,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      string(todo.Status),
		Priority:    string(todo.Priority),
		Completed:   todo.Completed,
		DueDate:     todo.DueDate,
		CreatedBy:   owner,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}, nil
}

func (d todoDocument) model() models.Todo {
	return models.Todo{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      models.TodoStatus(d.Status),
		Priority:    models.TodoPriority(d.Priority),
		Completed:   d.Completed,
		DueDate:     d.DueDate,
		OwnerID:     d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoTodoRepository is a MongoDB implementation of TodoRepository
type MongoTodoRepository struct {
	todos *mongo.Collection
}

// NewMongoTodoRepository creates a new TodoRepository backed by MongoDB
func NewMongoTodoRepository(db *mongo.Database) TodoRepository {
	return &MongoTodoRepository{todos: db.Collection(database.TodosCollection)}
}

// Create creates a new todo
func (r *MongoTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if todo.ID == "" {
		todo.ID = models.NewID()
	}
	doc, err := newTodoDocument(todo)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	if _, err := r.todos.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// ListByOwner retrieves an owner's todos, newest first
func (r *MongoTodoRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]models.Todo, int64, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []models.Todo{}, 0, nil
	}
	filter := bson.M{"createdBy": owner}

	total, err := r.todos.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetSkip(int64(opts.Offset)).SetLimit(int64(opts.Limit))
	}

	cursor, err := r.todos.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []todoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode todos: %w", err)
	}

	todos := make([]models.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.model())
	}
	return todos, total, nil
}

// FindOwned finds a todo by ID and owner
func (r *MongoTodoRepository) FindOwned(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, ErrNotFound
	}

	var doc todoDocument
	if err := r.todos.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	todo := doc.model()
	return &todo, nil
}

// Update replaces a todo
func (r *MongoTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	doc, err := newTodoDocument(todo)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.todos.ReplaceOne(ctx, bson.M{"_id": doc.ID, "createdBy": doc.CreatedBy}, doc)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwned permanently deletes a todo
func (r *MongoTodoRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return ErrNotFound
	}

	result, err := r.todos.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "createdBy": owner}, true
}
