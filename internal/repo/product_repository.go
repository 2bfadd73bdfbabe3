package repo

import (
	"context"
	"errors"

	"github.com/momna763/Target-Lock/internal/models"
)

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidID is returned for identifiers that are not 24-char hex object IDs.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicatedValueUnique is returned when a unique field already exists.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
)

// CategoryCount is the number of products listed under one category.
type CategoryCount struct {
	Category string `json:"category" bson:"_id"`
	Count    int    `json:"count" bson:"count"`
}

// ProductRepository defines the interface for product data operations.
// GetAll never returns a nil slice on success.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	GetByName(ctx context.Context, name string) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	DeleteAll(ctx context.Context) error
}
