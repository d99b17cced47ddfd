package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
)

// GormRepositoryTestSuite exercises the GORM repositories against in-memory SQLite
type GormRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	users UserRepository
	todos TodoRepository
	ctx   context.Context
}

func (suite *GormRepositoryTestSuite) SetupTest() {
	db, err := database.OpenGorm(sqlite.Open(":memory:"), zerolog.Nop())
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(database.MigrateSQL(db))

	suite.db = db
	suite.users = NewUserRepository(db)
	suite.todos = NewTodoRepository(db)
	suite.ctx = context.Background()
}

func (suite *GormRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *GormRepositoryTestSuite) createTodo(title, ownerID string, createdAt time.Time) *models.Todo {
	todo := &models.Todo{
		Title:     title,
		Status:    models.TodoStatusNotStarted,
		Priority:  models.TodoPriorityMedium,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	suite.Require().NoError(suite.todos.Create(suite.ctx, todo))
	return todo
}

func (suite *GormRepositoryTestSuite) TestUserCreate_AssignsIDAndRejectsDuplicateEmail() {
	user := &models.User{Name: "Ann", Email: "ann@x.com", PasswordDigest: "digest", CreatedAt: time.Now()}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))
	suite.True(models.IsValidID(user.ID))

	dup := &models.User{Name: "Other", Email: "ann@x.com", PasswordDigest: "digest", CreatedAt: time.Now()}
	err := suite.users.Create(suite.ctx, dup)
	suite.ErrorIs(err, ErrDuplicateEmail)

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *GormRepositoryTestSuite) TestUserFindByID_OmitsDigest() {
	user := &models.User{Name: "Ann", Email: "ann@x.com", PasswordDigest: "digest", CreatedAt: time.Now()}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))

	found, err := suite.users.FindByID(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Equal("Ann", found.Name)
	suite.Empty(found.PasswordDigest)

	byEmail, err := suite.users.FindByEmail(suite.ctx, "ann@x.com")
	suite.Require().NoError(err)
	suite.Equal("digest", byEmail.PasswordDigest)

	_, err = suite.users.FindByID(suite.ctx, models.NewID())
	suite.ErrorIs(err, ErrNotFound)
	_, err = suite.users.FindByEmail(suite.ctx, "nobody@x.com")
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *GormRepositoryTestSuite) TestListByOwner_NewestFirstAndScoped() {
	owner, other := models.NewID(), models.NewID()
	base := time.Now().Add(-time.Hour)
	suite.createTodo("first", owner, base)
	suite.createTodo("second", owner, base.Add(time.Minute))
	suite.createTodo("third", owner, base.Add(2*time.Minute))
	suite.createTodo("foreign", other, base.Add(3*time.Minute))

	todos, total, err := suite.todos.ListByOwner(suite.ctx, owner, ListOptions{})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(todos, 3)
	suite.Equal("third", todos[0].Title)
	suite.Equal("second", todos[1].Title)
	suite.Equal("first", todos[2].Title)

	page, total, err := suite.todos.ListByOwner(suite.ctx, owner, ListOptions{Offset: 1, Limit: 1})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(page, 1)
	suite.Equal("second", page[0].Title)

	empty, total, err := suite.todos.ListByOwner(suite.ctx, models.NewID(), ListOptions{})
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.NotNil(empty)
	suite.Empty(empty)
}

func (suite *GormRepositoryTestSuite) TestOwnershipIsolation() {
	owner, intruder := models.NewID(), models.NewID()
	todo := suite.createTodo("private", owner, time.Now())

	_, err := suite.todos.FindOwned(suite.ctx, todo.ID, intruder)
	suite.ErrorIs(err, ErrNotFound)

	hijack := *todo
	hijack.OwnerID = intruder
	hijack.Title = "hijacked"
	suite.ErrorIs(suite.todos.Update(suite.ctx, &hijack), ErrNotFound)

	suite.ErrorIs(suite.todos.DeleteOwned(suite.ctx, todo.ID, intruder), ErrNotFound)

	found, err := suite.todos.FindOwned(suite.ctx, todo.ID, owner)
	suite.Require().NoError(err)
	suite.Equal("private", found.Title)
}

func (suite *GormRepositoryTestSuite) TestUpdate_WritesZeroValues() {
	todo := suite.createTodo("task", models.NewID(), time.Now())
	due := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	todo.DueDate = &due
	todo.Status = models.TodoStatusCompleted
	todo.Completed = true
	suite.Require().NoError(suite.todos.Update(suite.ctx, todo))

	todo.DueDate = nil
	todo.Completed = false
	todo.Status = models.TodoStatusNotStarted
	todo.Description = ""
	suite.Require().NoError(suite.todos.Update(suite.ctx, todo))

	found, err := suite.todos.FindOwned(suite.ctx, todo.ID, todo.OwnerID)
	suite.Require().NoError(err)
	suite.Nil(found.DueDate)
	suite.False(found.Completed)
	suite.Equal(models.TodoStatusNotStarted, found.Status)
}

func (suite *GormRepositoryTestSuite) TestDeleteOwned() {
	todo := suite.createTodo("gone", models.NewID(), time.Now())

	suite.Require().NoError(suite.todos.DeleteOwned(suite.ctx, todo.ID, todo.OwnerID))
	_, err := suite.todos.FindOwned(suite.ctx, todo.ID, todo.OwnerID)
	suite.ErrorIs(err, ErrNotFound)
	suite.ErrorIs(suite.todos.DeleteOwned(suite.ctx, todo.ID, todo.OwnerID), ErrNotFound)
}

func TestGormRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormRepositoryTestSuite))
}
