package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	GetAllProducts(ctx context.Context) ([]domain.ProductResponse, error)
	GetProductBySKU(ctx context.Context, sku string) (domain.ProductResponse, error)
	ProductExists(ctx context.Context, sku string) (bool, error)
	CreateProduct(ctx context.Context, raw map[string]interface{}) (string, error)
	DeleteProduct(ctx context.Context, sku string) (bool, error)
	MassDeleteProducts(ctx context.Context, skus []string) (int64, error)
}

// Handler agrupa os métodos HTTP do catálogo de produtos.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// --- Funções Auxiliares ---

// respond envia uma resposta JSON de sucesso com o status informado.
func (h *Handler) respond(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.Logger.Error("Falha ao codificar JSON de resposta.", err)
		}
	}
}

// respondError traduz um erro de domínio para o status HTTP e o corpo
// padronizado. Este é o único ponto da stack que faz essa tradução; erros
// 5xx saem com mensagem genérica e o detalhe fica no log.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		h.Logger.Error("Erro de servidor ao atender requisição.", err)
	} else {
		h.Logger.Debug("Requisição rejeitada.", map[string]interface{}{
			"path":     r.URL.Path,
			"status":   status,
			"category": category,
		})
	}

	h.writeError(w, status, category, message)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, category, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// splitPath normaliza o caminho e o divide em segmentos não vazios.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// --- Despacho ---

// CatalogHandler é o ponto único de entrada do catálogo: decide a operação a
// partir do método HTTP e dos segmentos do caminho.
//
//	GET    /products                    lista o catálogo
//	GET    /products/{sku}              busca um produto
//	GET    /products/{sku}/check-sku    checa unicidade do SKU
//	POST   /products                    cria um produto
//	DELETE /products/{sku}              remove um produto
//	DELETE /products                    exclusão em massa ({"skus": [...]})
func (h *Handler) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r.URL.Path)
	if len(segments) == 0 || segments[0] != "products" {
		h.respondError(w, r, apperror.NewNotFoundError("Rota não encontrada."))
		return
	}

	var sku string
	if len(segments) > 1 {
		sku = segments[1]
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, sku, segments)
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r, sku)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Método não permitido.")
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, sku string, segments []string) {
	ctx := r.Context()

	checkSKU := r.URL.Query().Has("check-sku") ||
		(len(segments) == 3 && segments[2] == "check-sku")

	switch {
	case sku != "" && checkSKU:
		exists, err := h.Service.ProductExists(ctx, sku)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		h.respond(w, map[string]bool{"isUnique": !exists}, http.StatusOK)

	case sku != "":
		product, err := h.Service.GetProductBySKU(ctx, sku)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		h.respond(w, product, http.StatusOK)

	default:
		products, err := h.Service.GetAllProducts(ctx)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		h.respond(w, products, http.StatusOK)
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.respondError(w, r, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."))
		return
	}

	sku, err := h.Service.CreateProduct(r.Context(), raw)
	if err != nil {
		// Validação/factory -> 400, SKU duplicado -> 409, resto -> 500.
		h.respondError(w, r, err)
		return
	}

	h.respond(w, map[string]string{
		"sku":     sku,
		"message": "Produto criado com sucesso.",
	}, http.StatusCreated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, sku string) {
	ctx := r.Context()

	if sku != "" {
		deleted, err := h.Service.DeleteProduct(ctx, sku)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		h.respond(w, map[string]bool{"deleted": deleted}, http.StatusOK)
		return
	}

	// Exclusão em massa: o corpo precisa trazer skus como lista de strings.
	// Decodificamos em mapa para distinguir o campo ausente de uma lista
	// presente porém vazia (esta última é válida e remove zero produtos).
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, r, apperror.NewValidationError("Requisição de exclusão inválida."))
		return
	}

	rawSKUs, ok := body["skus"].([]interface{})
	if !ok {
		h.respondError(w, r, apperror.NewValidationError("Requisição de exclusão inválida: o campo skus deve ser uma lista."))
		return
	}

	skus := make([]string, 0, len(rawSKUs))
	for _, v := range rawSKUs {
		s, ok := v.(string)
		if !ok {
			h.respondError(w, r, apperror.NewValidationError("Requisição de exclusão inválida: skus deve conter apenas strings."))
			return
		}
		skus = append(skus, s)
	}

	deletedCount, err := h.Service.MassDeleteProducts(ctx, skus)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, map[string]int64{"deletedCount": deletedCount}, http.StatusOK)
}
