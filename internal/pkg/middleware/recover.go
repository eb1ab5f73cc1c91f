package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/logger"
)

// Recover é a fronteira mais externa da stack HTTP: qualquer pânico não
// tratado vira um 500 com corpo genérico, e o detalhe completo (mensagem e
// stack trace) vai apenas para o log do servidor.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Pânico não tratado na requisição.", fmt.Errorf("%v\n%s", rec, debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(domain.ErrorResponse{
						Code:     http.StatusInternalServerError,
						Category: "INTERNAL_ERROR",
						Message:  "Ocorreu um erro interno. Tente novamente mais tarde.",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
