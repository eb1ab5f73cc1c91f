package router

import (
	"net/http"
	"time"

	"gocatalog/internal/api/product"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(productHandler *product.Handler, cacheClient cache.Client, log logger.Logger, rateLimit int, ratePeriod time.Duration) http.Handler {

	// Usamos o ServeMux padrão do net/http: o catálogo faz o próprio
	// despacho por segmentos, então um mux de terceiros não acrescentaria nada.
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/ping", PingHandler)

	// Todo o restante cai no despacho do catálogo, que responde 404 para
	// coleções desconhecidas e 405 para métodos não suportados.
	mux.HandleFunc("/", productHandler.CatalogHandler)

	// Cadeia de middlewares globais, do mais interno para o mais externo:
	// o Recover fica na fronteira absoluta e o CORS responde o preflight
	// antes mesmo do rate limiter.
	var handler http.Handler = mux
	handler = middleware.RequestLog(log)(handler)
	handler = middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Recover(log)(handler)

	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
