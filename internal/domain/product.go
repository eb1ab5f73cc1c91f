package domain

import (
	"context"
	"time"
)

// ProductType identifica a categoria de um produto do catálogo.
// A tag determina qual conjunto de atributos está presente no Product e em
// qual tabela de extensão a linha correspondente vive.
type ProductType string

const (
	TypeDVD       ProductType = "dvd"
	TypeBook      ProductType = "book"
	TypeFurniture ProductType = "furniture"
)

// ValidType informa se o valor corresponde a uma das categorias conhecidas.
// A comparação é exata contra as tags canônicas em minúsculas.
func ValidType(t string) bool {
	switch ProductType(t) {
	case TypeDVD, TypeBook, TypeFurniture:
		return true
	}
	return false
}

// DVDAttributes é o payload específico da categoria dvd.
type DVDAttributes struct {
	Size int64 `json:"size"` // Tamanho em MB
}

// BookAttributes é o payload específico da categoria book.
type BookAttributes struct {
	Weight float64 `json:"weight"` // Peso em kg
}

// FurnitureAttributes é o payload específico da categoria furniture.
type FurnitureAttributes struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// Product representa o item do catálogo (a Entidade).
// É uma variante etiquetada: o payload base é comum a todas as categorias e
// exatamente um dos ponteiros de atributos é não-nulo, conforme o Type.
// SKU e Type são imutáveis após a criação.
type Product struct {
	ID        int64       `json:"-"`
	SKU       string      `json:"sku"` // Stock Keeping Unit (código único de produto)
	Name      string      `json:"name"`
	Price     float64     `json:"price"`
	Type      ProductType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	DVD       *DVDAttributes       `json:"-"`
	Book      *BookAttributes      `json:"-"`
	Furniture *FurnitureAttributes `json:"-"`
}

// Attributes devolve o payload específico da categoria, despachando pela tag
// (em vez de chamadas virtuais, como faria uma hierarquia de classes).
func (p Product) Attributes() interface{} {
	switch p.Type {
	case TypeDVD:
		if p.DVD != nil {
			return *p.DVD
		}
		return DVDAttributes{}
	case TypeBook:
		if p.Book != nil {
			return *p.Book
		}
		return BookAttributes{}
	case TypeFurniture:
		if p.Furniture != nil {
			return *p.Furniture
		}
		return FurnitureAttributes{}
	}
	return nil
}

// ProductResponse é a forma serializada de um produto na API.
// Os atributos vão sempre aninhados em um objeto próprio, inclusive para
// furniture (nunca achatados nem re-codificados como string).
type ProductResponse struct {
	SKU        string      `json:"sku"`
	Name       string      `json:"name"`
	Price      float64     `json:"price"`
	Type       ProductType `json:"type"`
	Attributes interface{} `json:"attributes"`
}

// ToResponse projeta a entidade na forma exposta pela API.
func (p Product) ToResponse() ProductResponse {
	return ProductResponse{
		SKU:        p.SKU,
		Name:       p.Name,
		Price:      p.Price,
		Type:       p.Type,
		Attributes: p.Attributes(),
	}
}

// --- Interfaces de Contrato (O CORAÇÃO DA ARQUITETURA LIMPA) ---

// ProductService é a interface que a camada de Serviço (Business Logic) DEVE implementar.
// Ela define o que o Handler (Camada API) pode pedir para a camada de Serviço fazer.
type ProductService interface {
	GetAllProducts(ctx context.Context) ([]ProductResponse, error)
	GetProductBySKU(ctx context.Context, sku string) (ProductResponse, error)
	ProductExists(ctx context.Context, sku string) (bool, error)
	CreateProduct(ctx context.Context, raw map[string]interface{}) (string, error)
	DeleteProduct(ctx context.Context, sku string) (bool, error)
	MassDeleteProducts(ctx context.Context, skus []string) (int64, error)
}

// ProductRepository é a interface que a camada de Repositório (Data Access) DEVE implementar.
// Ela define o que a camada de Serviço pode pedir para a camada de Persistência fazer.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindBySKU(ctx context.Context, sku string) (Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Save(ctx context.Context, product Product) (int64, error)
	DeleteBySKU(ctx context.Context, sku string) (bool, error)
	DeleteManyBySKU(ctx context.Context, skus []string) (int64, error)
}
