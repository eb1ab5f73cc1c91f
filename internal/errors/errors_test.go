package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "gocatalog/internal/errors"
)

// TestMapToHTTPStatus_ClientErrors testa a tradução dos erros 4xx, que
// carregam a mensagem específica.
func TestMapToHTTPStatus_ClientErrors(t *testing.T) {
	status, category, message := apperror.MapToHTTPStatus(apperror.NewValidationError("Tipo de produto inválido: cd"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", category)
	assert.Equal(t, "Tipo de produto inválido: cd", message)

	status, category, message = apperror.MapToHTTPStatus(apperror.NewNotFoundError("Produto com SKU 'X' não encontrado."))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", category)
	assert.Contains(t, message, "X")

	status, category, _ = apperror.MapToHTTPStatus(apperror.NewDuplicateKeyError("Já existe um produto com o SKU 'X'."))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_KEY", category)
}

// TestMapToHTTPStatus_StoreErrorHidesDetail testa que erros 5xx nunca vazam
// a causa original para o cliente.
func TestMapToHTTPStatus_StoreErrorHidesDetail(t *testing.T) {
	cause := stderrors.New("pq: connection refused host=db-interno")
	err := apperror.NewDBError("Falha ao listar produtos", cause)

	status, category, message := apperror.MapToHTTPStatus(err)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "STORE_ERROR", category)
	assert.NotContains(t, message, "db-interno")
	assert.NotContains(t, message, "pq:")

	// A causa continua acessível para o log via Unwrap.
	assert.ErrorIs(t, err, cause)
}

// TestMapToHTTPStatus_UntypedError testa o fallback para erros não tipados.
func TestMapToHTTPStatus_UntypedError(t *testing.T) {
	status, category, message := apperror.MapToHTTPStatus(stderrors.New("algo inesperado"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UNKNOWN_ERROR", category)
	assert.NotContains(t, message, "inesperado")
}
