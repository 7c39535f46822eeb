package services

import (
	"context"

	"github.com/taskhub/apiserver/types"
)

// TodoRepository defines persistence operations for to-do items.
// Implementations must scope every operation to the owning user.
type TodoRepository interface {
	List(ctx context.Context, ownerID int) ([]types.Todo, error)
	Get(ctx context.Context, ownerID, id int) (types.Todo, error)
	Create(ctx context.Context, todo types.Todo) (types.Todo, error)
	Update(ctx context.Context, todo types.Todo) (types.Todo, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// TodoService encapsulates to-do use-cases.
type TodoService struct {
	repo TodoRepository
}

func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) List(ctx context.Context, ownerID int) ([]types.Todo, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *TodoService) Get(ctx context.Context, ownerID, id int) (types.Todo, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// Create persists a new item for ownerID. The owner and the completed
// default are forced here regardless of what the caller filled in.
func (s *TodoService) Create(ctx context.Context, ownerID int, todo types.Todo) (types.Todo, error) {
	todo.UserID = ownerID
	todo.Completed = false
	return s.repo.Create(ctx, todo)
}

func (s *TodoService) Update(ctx context.Context, todo types.Todo) (types.Todo, error) {
	return s.repo.Update(ctx, todo)
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id int) error {
	return s.repo.Delete(ctx, ownerID, id)
}
