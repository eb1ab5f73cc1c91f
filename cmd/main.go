package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gocatalog/config"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/database"
	"gocatalog/internal/pkg/logger"

	"gocatalog/internal/api/product"
	"gocatalog/internal/api/router"
	"gocatalog/internal/repository/productrepo"
	"gocatalog/internal/service/productservice"
)

func main() {
	// 0. Carregar variáveis de ambiente (.env)
	// Se o arquivo .env não existir, seguimos em frente: as variáveis
	// essenciais podem estar no ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Redis (backend do rate limiter)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Cliente Redis inicializado.", nil)

	// 3. Injeção de Dependências
	// Ordem: Repository -> Service -> Handler

	productRepo := productrepo.NewProductRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositório de Produto inicializado.", nil)

	productSvc := productservice.NewService(productRepo, log)
	log.Debug("Serviço de Produto inicializado.", nil)

	productHandler := product.NewHandler(productSvc, log)
	log.Debug("Handler de Produto inicializado.", nil)

	// 4. Roteador e Servidor
	r := router.NewRouter(productHandler, cacheClient, log, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor do catálogo ouvindo.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
