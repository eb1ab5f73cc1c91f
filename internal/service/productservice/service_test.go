package productservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (domain.Product, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product domain.Product) (int64, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) DeleteBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DeleteManyBySKU(ctx context.Context, skus []string) (int64, error) {
	args := m.Called(ctx, skus)
	return args.Get(0).(int64), args.Error(1)
}

func newService(t *testing.T) (*productservice.Service, *MockProductRepository) {
	t.Helper()
	mockRepo := new(MockProductRepository)
	return productservice.NewService(mockRepo, logger.NewLogger("debug")), mockRepo
}

// TestCreateProduct_DVD_LegacyAttribute testa a criação via o campo legado
// "attribute" com valor escalar.
func TestCreateProduct_DVD_LegacyAttribute(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.Type == domain.TypeDVD && p.SKU == "DVD-001" && p.DVD != nil && p.DVD.Size == 500
	})).Return(int64(1), nil)

	sku, err := svc.CreateProduct(context.Background(), map[string]interface{}{
		"type":      "dvd",
		"sku":       "DVD-001",
		"name":      "Acme DVD",
		"price":     10.5,
		"attribute": "500",
	})

	assert.NoError(t, err)
	assert.Equal(t, "DVD-001", sku)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_TypeNormalization testa que o type é normalizado com
// trim e lowercase antes da validação.
func TestCreateProduct_TypeNormalization(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.Type == domain.TypeBook && p.Book != nil && p.Book.Weight == 1.5
	})).Return(int64(2), nil)

	sku, err := svc.CreateProduct(context.Background(), map[string]interface{}{
		"type":      "  Book ",
		"sku":       "BOOK-001",
		"name":      "Go em Ação",
		"price":     "19.90",
		"attribute": 1.5,
	})

	assert.NoError(t, err)
	assert.Equal(t, "BOOK-001", sku)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_MissingOrInvalidType testa a rejeição antes de qualquer
// escrita quando o type está ausente, vazio ou é desconhecido.
func TestCreateProduct_MissingOrInvalidType(t *testing.T) {
	svc, mockRepo := newService(t)

	payloads := []map[string]interface{}{
		{"sku": "X", "name": "X", "price": 1.0},
		{"type": "   ", "sku": "X", "name": "X", "price": 1.0},
		{"type": 42, "sku": "X", "name": "X", "price": 1.0},
		{"type": "cd", "sku": "X", "name": "X", "price": 1.0},
	}

	for _, payload := range payloads {
		_, err := svc.CreateProduct(context.Background(), payload)
		assert.Error(t, err)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateProduct_Furniture_AttributeJSONString testa o formato legado de
// furniture: objeto JSON codificado como string no campo attribute.
func TestCreateProduct_Furniture_AttributeJSONString(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.Type == domain.TypeFurniture && p.Furniture != nil &&
			*p.Furniture == domain.FurnitureAttributes{Height: 1, Width: 2, Length: 3}
	})).Return(int64(3), nil)

	sku, err := svc.CreateProduct(context.Background(), map[string]interface{}{
		"type":      "furniture",
		"sku":       "CHAIR-001",
		"name":      "Cadeira",
		"price":     99.9,
		"attribute": `{"height":1,"width":2,"length":3}`,
	})

	assert.NoError(t, err)
	assert.Equal(t, "CHAIR-001", sku)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_Furniture_NestedAttributesObject testa o formato
// unificado: objeto attributes aninhado, o mesmo das respostas.
func TestCreateProduct_Furniture_NestedAttributesObject(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.Furniture != nil && *p.Furniture == domain.FurnitureAttributes{Height: 1, Width: 2, Length: 3}
	})).Return(int64(4), nil)

	_, err := svc.CreateProduct(context.Background(), map[string]interface{}{
		"type":  "furniture",
		"sku":   "TABLE-001",
		"name":  "Mesa",
		"price": 150.0,
		"attributes": map[string]interface{}{
			"height": float64(1),
			"width":  float64(2),
			"length": float64(3),
		},
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_Furniture_MalformedAttribute testa que um attribute de
// furniture que não é JSON válido falha antes de qualquer escrita.
func TestCreateProduct_Furniture_MalformedAttribute(t *testing.T) {
	svc, mockRepo := newService(t)

	_, err := svc.CreateProduct(context.Background(), map[string]interface{}{
		"type":      "furniture",
		"sku":       "CHAIR-002",
		"name":      "Cadeira",
		"price":     99.9,
		"attribute": "not-json",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateProduct_DuplicateSKU testa que o DuplicateKeyError do
// repositório se propaga tipado (o Handler responde 409 com ele).
func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("Save", mock.Anything, mock.Anything).
		Return(int64(0), apperror.NewDuplicateKeyError("Já existe um produto com o SKU 'DVD-001'."))

	_, err := svc.CreateProduct(context.Background(), map[string]interface{}{
		"type":      "dvd",
		"sku":       "DVD-001",
		"name":      "Acme DVD",
		"price":     10.5,
		"attribute": "500",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.DuplicateKeyError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestGetAllProducts_NestedAttributes testa que a listagem devolve os
// atributos aninhados por categoria, inclusive furniture.
func TestGetAllProducts_NestedAttributes(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("FindAll", mock.Anything).Return([]domain.Product{
		{SKU: "DVD-001", Name: "Acme DVD", Price: 10.5, Type: domain.TypeDVD, DVD: &domain.DVDAttributes{Size: 500}},
		{SKU: "BOOK-001", Name: "Romance", Price: 19.9, Type: domain.TypeBook, Book: &domain.BookAttributes{Weight: 1.5}},
		{SKU: "CHAIR-001", Name: "Cadeira", Price: 99.9, Type: domain.TypeFurniture, Furniture: &domain.FurnitureAttributes{Height: 1, Width: 2, Length: 3}},
	}, nil)

	responses, err := svc.GetAllProducts(context.Background())

	assert.NoError(t, err)
	assert.Len(t, responses, 3)
	assert.Equal(t, domain.DVDAttributes{Size: 500}, responses[0].Attributes)
	assert.Equal(t, domain.BookAttributes{Weight: 1.5}, responses[1].Attributes)
	assert.Equal(t, domain.FurnitureAttributes{Height: 1, Width: 2, Length: 3}, responses[2].Attributes)
	mockRepo.AssertExpectations(t)
}

// TestGetAllProducts_RepoUntypedError testa que um erro não tipado do
// repositório é encapsulado como StoreError.
func TestGetAllProducts_RepoUntypedError(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("FindAll", mock.Anything).Return([]domain.Product{}, errors.New("database connection lost"))

	_, err := svc.GetAllProducts(context.Background())

	assert.Error(t, err)
	assert.IsType(t, &apperror.StoreError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestGetProductBySKU_NotFoundPropagates testa a propagação tipada do 404.
func TestGetProductBySKU_NotFoundPropagates(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("FindBySKU", mock.Anything, "GHOST").
		Return(domain.Product{}, apperror.NewNotFoundError("Produto com SKU 'GHOST' não encontrado."))

	_, err := svc.GetProductBySKU(context.Background(), "GHOST")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestProductExists_Delegates testa o repasse da checagem de existência.
func TestProductExists_Delegates(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("ExistsBySKU", mock.Anything, "DVD-001").Return(true, nil)

	exists, err := svc.ProductExists(context.Background(), "DVD-001")

	assert.NoError(t, err)
	assert.True(t, exists)
	mockRepo.AssertExpectations(t)
}

// TestDeleteProduct_Delegates testa o repasse do delete individual.
func TestDeleteProduct_Delegates(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.On("DeleteBySKU", mock.Anything, "DVD-001").Return(true, nil)

	deleted, err := svc.DeleteProduct(context.Background(), "DVD-001")

	assert.NoError(t, err)
	assert.True(t, deleted)
	mockRepo.AssertExpectations(t)
}

// TestMassDeleteProducts_EmptySet testa que o conjunto vazio retorna zero
// sem tocar no repositório.
func TestMassDeleteProducts_EmptySet(t *testing.T) {
	svc, mockRepo := newService(t)

	count, err := svc.MassDeleteProducts(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
	mockRepo.AssertNotCalled(t, "DeleteManyBySKU", mock.Anything, mock.Anything)
}

// TestMassDeleteProducts_Delegates testa o repasse da exclusão em massa.
func TestMassDeleteProducts_Delegates(t *testing.T) {
	svc, mockRepo := newService(t)

	skus := []string{"DVD-001", "GHOST"}
	mockRepo.On("DeleteManyBySKU", mock.Anything, skus).Return(int64(1), nil)

	count, err := svc.MassDeleteProducts(context.Background(), skus)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	mockRepo.AssertExpectations(t)
}
