package repo

import (
	"context"
	"errors"

	"github.com/momna763/Target-Lock/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
