package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpapi "tienda/internal/http"
	"tienda/internal/repository"
	"tienda/internal/secret"
	"tienda/internal/service"
	"tienda/internal/token"

	_ "tienda/docs"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "tienda").Logger()

	key, err := secret.LoadOrCreate(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load signing secret")
	}
	signer := token.NewSigner(key)

	store := repository.NewMemoryStore()
	accounts := repository.NewMemoryAccounts(store)
	users := repository.NewMemoryUsers(store)
	orders := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)

	authSvc := service.NewAuthService(accounts, signer)
	usersSvc := service.NewUserService(users)
	productsSvc := service.NewProductService(store)
	ordersSvc := service.NewOrderService(users, store, orders, tx)

	srv := httpapi.NewServer(authSvc, usersSvc, productsSvc, ordersSvc)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":9091"
	}
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
