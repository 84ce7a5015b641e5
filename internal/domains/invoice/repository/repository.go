package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rentkit/infras/otel"
	"rentkit/infras/postgres"
	"rentkit/internal/domains/invoice/model"
	gDto "rentkit/shared/dto"
	gRepo "rentkit/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Invoice interface {
	Insert(ctx context.Context, model model.Invoice) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Invoice, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Invoice, error)
	GetLatest(ctx context.Context, filter gDto.FilterGroup) (model.Invoice, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Invoice]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Invoice {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Invoice](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetLatest returns the most recently created invoice matching the
// filter, or a zero invoice when none exists.
func (r *repositoryImpl) GetLatest(ctx context.Context, filter gDto.FilterGroup) (model.Invoice, error) {
	params := gDto.QueryParams{
		Limit:   1,
		SortBy:  "created_at",
		SortDir: gDto.SortDirDesc,
	}

	invoices, err := r.GetAll(ctx, params, filter)
	if err != nil {
		return model.Invoice{}, err
	}

	if len(invoices) == 0 {
		return model.Invoice{}, nil
	}

	return invoices[0], nil
}
