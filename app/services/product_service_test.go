package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/apierror"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, in repositories.ProductInput) (models.Product, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id uint, in repositories.ProductInput) (models.Product, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockStore) Destroy(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Find(ctx context.Context, id uint) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) Audits(ctx context.Context, id uint) ([]models.ProductAudit, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]models.ProductAudit), args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newService(store *mockStore) (*ProductService, *[]ProductChanged) {
	events := event.New()
	var seen []ProductChanged
	events.Listen(EventProductChanged, func(p interface{}) {
		seen = append(seen, p.(ProductChanged))
	})
	svc := NewProductService(store, events)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, &seen
}

func TestCreateMapsValidationError(t *testing.T) {
	store := new(mockStore)
	svc, seen := newService(store)
	details := validate.Errors{"name": {"The name field is required."}}
	store.On("Create", mock.Anything, mock.Anything).
		Return(models.Product{}, &repositories.ValidationError{Errors: details})

	_, err := svc.Create(context.Background(), repositories.ProductInput{})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindValidation, apiErr.Kind)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Empty(t, *seen)
	store.AssertExpectations(t)
}

func TestFindMapsNotFound(t *testing.T) {
	store := new(mockStore)
	svc, _ := newService(store)
	store.On("Find", mock.Anything, uint(9)).
		Return(models.Product{}, errors.Join(errors.New("find"), repositories.ErrProductNotFound))

	_, err := svc.Find(context.Background(), 9)

	require.True(t, apierror.Is(err, apierror.KindNotFound))
	assert.Equal(t, "Product not found", apierror.From(err).Message)
	assert.Nil(t, apierror.From(err).Details)
}

func TestUnknownErrorsAreHidden(t *testing.T) {
	store := new(mockStore)
	svc, _ := newService(store)
	cause := errors.New("connection reset by peer")
	store.On("Audits", mock.Anything, uint(1)).Return([]models.ProductAudit(nil), cause)

	_, err := svc.Audits(context.Background(), 1)

	apiErr := apierror.From(err)
	assert.Equal(t, apierror.KindUnknown, apiErr.Kind)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.ErrorIs(t, err, cause)
}

func TestListNormalizesFilterAndBuildsPagination(t *testing.T) {
	store := new(mockStore)
	svc, _ := newService(store)
	want := repositories.ProductFilter{Query: "lamp", Page: 3, PerPage: 100}
	items := []models.Product{{ID: 201}, {ID: 202}}
	store.On("List", mock.Anything, want).Return(items, int64(202), nil)

	page, err := svc.List(context.Background(), repositories.ProductFilter{Query: "lamp", Page: 3, PerPage: 500})

	require.NoError(t, err)
	assert.Equal(t, items, page.Products)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
	assert.Equal(t, 100, page.Pagination.PerPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, int64(202), page.Pagination.TotalCount)
	store.AssertExpectations(t)
}

func TestMutationsPublishChanges(t *testing.T) {
	store := new(mockStore)
	svc, seen := newService(store)
	ctx := context.Background()
	store.On("Create", ctx, mock.Anything).Return(models.Product{ID: 4}, nil)
	store.On("Update", ctx, uint(4), mock.Anything).Return(models.Product{ID: 4}, nil)
	store.On("Destroy", ctx, uint(4)).Return(nil).Once()
	store.On("Destroy", ctx, uint(4)).Return(repositories.ErrProductNotFound).Once()

	_, err := svc.Create(ctx, repositories.ProductInput{})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 4, repositories.ProductInput{})
	require.NoError(t, err)
	require.NoError(t, svc.Destroy(ctx, 4))
	require.Error(t, svc.Destroy(ctx, 4))

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, []ProductChanged{
		{Action: models.ActionCreate, ProductID: 4, At: at},
		{Action: models.ActionUpdate, ProductID: 4, At: at},
		{Action: models.ActionDestroy, ProductID: 4, At: at},
	}, *seen)
}
