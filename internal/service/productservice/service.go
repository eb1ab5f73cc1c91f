package productservice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// ProductRepository define o contrato que este Serviço espera da camada de
// Persistência. A implementação concreta vive em repository/productrepo.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (domain.Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Save(ctx context.Context, product domain.Product) (int64, error)
	DeleteBySKU(ctx context.Context, sku string) (bool, error)
	DeleteManyBySKU(ctx context.Context, skus []string) (int64, error)
}

// Service é a estrutura que implementa a interface domain.ProductService.
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetAllProducts lista o catálogo completo já na forma de resposta da API,
// com os atributos de cada categoria aninhados (inclusive furniture).
func (s *Service) GetAllProducts(ctx context.Context) ([]domain.ProductResponse, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar produtos no repositório.", err)
		return nil, s.wrapRepoError("Falha interna ao listar produtos.", err)
	}

	responses := make([]domain.ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, product.ToResponse())
	}
	return responses, nil
}

// GetProductBySKU busca um produto; NotFoundError do repositório se propaga
// tipado para que o Handler o mapeie em 404.
func (s *Service) GetProductBySKU(ctx context.Context, sku string) (domain.ProductResponse, error) {
	product, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if _, ok := err.(*apperror.NotFoundError); !ok {
			s.logger.Error("Falha ao buscar produto no repositório.", err)
		}
		return domain.ProductResponse{}, s.wrapRepoError("Falha interna ao buscar produto.", err)
	}
	return product.ToResponse(), nil
}

// ProductExists responde à checagem de unicidade de SKU do cliente.
func (s *Service) ProductExists(ctx context.Context, sku string) (bool, error) {
	exists, err := s.repo.ExistsBySKU(ctx, sku)
	if err != nil {
		s.logger.Error("Falha ao verificar existência de SKU no repositório.", err)
		return false, s.wrapRepoError("Falha interna ao verificar SKU.", err)
	}
	return exists, nil
}

// CreateProduct valida o payload bruto, constrói a variante via factory e
// persiste em uma única transação. Retorna o SKU do produto criado.
// DuplicateKeyError do repositório se propaga distinto para o 409.
func (s *Service) CreateProduct(ctx context.Context, raw map[string]interface{}) (string, error) {
	rawType, ok := raw["type"]
	if !ok || rawType == nil {
		return "", apperror.NewValidationError("O campo type é obrigatório.")
	}
	typeStr, ok := rawType.(string)
	if !ok {
		return "", apperror.NewValidationError("O campo type deve ser uma string.")
	}
	typeStr = strings.ToLower(strings.TrimSpace(typeStr))
	if typeStr == "" {
		return "", apperror.NewValidationError("O campo type não pode ser vazio.")
	}
	if !domain.ValidType(typeStr) {
		return "", apperror.NewValidationError(fmt.Sprintf("Tipo de produto inválido: %s", typeStr))
	}

	// O payload de atributos precisa estar íntegro antes de qualquer escrita.
	fields, err := resolveAttributePayload(typeStr, raw)
	if err != nil {
		return "", err
	}

	product, err := domain.BuildProduct(typeStr, fields)
	if err != nil {
		return "", err
	}

	productID, err := s.repo.Save(ctx, product)
	if err != nil {
		if _, ok := err.(*apperror.DuplicateKeyError); !ok {
			s.logger.Error("Falha ao persistir produto no repositório.", err)
		}
		return "", s.wrapRepoError("Falha interna ao criar produto.", err)
	}

	s.logger.Info("Produto criado.", map[string]interface{}{"sku": product.SKU, "type": typeStr, "product_id": productID})
	return product.SKU, nil
}

// DeleteProduct remove um produto pelo SKU; true quando uma linha foi removida.
func (s *Service) DeleteProduct(ctx context.Context, sku string) (bool, error) {
	deleted, err := s.repo.DeleteBySKU(ctx, sku)
	if err != nil {
		s.logger.Error("Falha ao deletar produto no repositório.", err)
		return false, s.wrapRepoError("Falha interna ao deletar produto.", err)
	}
	return deleted, nil
}

// MassDeleteProducts remove o conjunto de SKUs em uma transação única e
// retorna quantas linhas da tabela base foram removidas.
func (s *Service) MassDeleteProducts(ctx context.Context, skus []string) (int64, error) {
	if len(skus) == 0 {
		s.logger.Debug("Exclusão em massa com conjunto vazio de SKUs; nada a fazer.", nil)
		return 0, nil
	}

	deleted, err := s.repo.DeleteManyBySKU(ctx, skus)
	if err != nil {
		s.logger.Error("Falha na exclusão em massa no repositório.", err)
		return 0, s.wrapRepoError("Falha interna na exclusão em massa.", err)
	}
	return deleted, nil
}

// wrapRepoError propaga erros já tipados (NotFound, DuplicateKey, Store...)
// sem tocar neles e encapsula qualquer erro genuinamente inesperado como
// StoreError, preservando a causa original para o log.
func (s *Service) wrapRepoError(msg string, err error) error {
	if _, ok := err.(apperror.AppError); ok {
		return err
	}
	return apperror.NewStoreError(msg, err)
}

// resolveAttributePayload normaliza o payload de atributos da categoria.
//
// O formato legado usa um único campo "attribute": um escalar para dvd
// (size) e book (weight), e um objeto codificado como string JSON para
// furniture. O formato aninhado "attributes" (o mesmo das respostas) também
// é aceito para qualquer categoria; "attribute" tem precedência quando os
// dois estão presentes.
func resolveAttributePayload(productType string, raw map[string]interface{}) (map[string]interface{}, error) {
	fields := make(map[string]interface{}, len(raw)+3)
	for k, v := range raw {
		fields[k] = v
	}

	nested, _ := raw["attributes"].(map[string]interface{})

	legacy, hasLegacy := raw["attribute"]
	if legacy == nil {
		hasLegacy = false
	}

	switch domain.ProductType(productType) {
	case domain.TypeDVD:
		if hasLegacy {
			fields["size"] = legacy
		} else {
			mergeAttributes(fields, nested)
		}
	case domain.TypeBook:
		if hasLegacy {
			fields["weight"] = legacy
		} else {
			mergeAttributes(fields, nested)
		}
	case domain.TypeFurniture:
		dims := nested
		if hasLegacy {
			switch value := legacy.(type) {
			case string:
				// Formato legado: objeto JSON codificado como string.
				if err := json.Unmarshal([]byte(value), &dims); err != nil {
					return nil, apperror.NewValidationError(
						"Atributos de furniture inválidos: o campo attribute deve ser um objeto JSON com height, width e length.")
				}
			case map[string]interface{}:
				dims = value
			default:
				return nil, apperror.NewValidationError(
					"Atributos de furniture inválidos: o campo attribute deve ser um objeto JSON com height, width e length.")
			}
		}
		mergeAttributes(fields, dims)
	}

	return fields, nil
}

// mergeAttributes copia as chaves do objeto de atributos para o mapa de
// campos que a factory consome.
func mergeAttributes(fields, attrs map[string]interface{}) {
	for k, v := range attrs {
		fields[k] = v
	}
}
