package errors

import (
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros tipados do catálogo.
// Ela permite que o código externo (Handler) acesse a Categoria e o status
// HTTP sugerido sem conhecer o tipo concreto.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular o erro subjacente (causa original)
}

// genericServerMessage é a única mensagem que chega ao cliente em erros 5xx.
// O detalhe real fica apenas no log do servidor.
const genericServerMessage = "Ocorreu um erro interno. Tente novamente mais tarde."

// --- Erros de Domínio ---

// ValidationError representa falhas de validação dos dados de entrada:
// JSON malformado, tipo de produto desconhecido, valores numéricos inválidos.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um produto solicitado por SKU.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// DuplicateKeyError representa a violação da constraint UNIQUE de SKU,
// mapeada a partir do código de erro de integridade do banco.
type DuplicateKeyError struct {
	Msg string
}

func (e *DuplicateKeyError) Error() string    { return e.Msg }
func (e *DuplicateKeyError) Category() string { return "DUPLICATE_KEY" }
func (e *DuplicateKeyError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *DuplicateKeyError) Unwrap() error    { return nil }

// NewDuplicateKeyError cria um novo erro de SKU duplicado.
func NewDuplicateKeyError(msg string) AppError {
	return &DuplicateKeyError{Msg: msg}
}

// --- Erros de Infraestrutura ---

// StoreError representa falhas de conectividade, transação ou qualquer erro
// não mapeado vindo do banco de dados.
type StoreError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *StoreError) Error() string    { return fmt.Sprintf("%s: %v", e.Msg, e.Err) }
func (e *StoreError) Category() string { return "STORE_ERROR" }
func (e *StoreError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *StoreError) Unwrap() error    { return e.Err }

// NewStoreError cria um erro de infraestrutura encapsulando a causa original.
func NewStoreError(msg string, err error) AppError {
	return &StoreError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um StoreError de falha no DB.
func NewDBError(msg string, err error) AppError {
	return NewStoreError(fmt.Sprintf("%s (DB)", msg), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, a categoria
// e a mensagem que podem ser devolvidos ao cliente. Erros 4xx carregam a
// mensagem específica; erros 5xx (tipados ou não) devolvem apenas a mensagem
// genérica, para que nenhum detalhe interno vaze na resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			return appErr.HTTPStatus(), appErr.Category(), genericServerMessage
		}
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", genericServerMessage
}
