package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopcart-api/internal/config"
	"shopcart-api/internal/db"
	"shopcart-api/internal/gateway/flutterwave"
	"shopcart-api/internal/gateway/paypal"
	"shopcart-api/internal/httpserver"
	"shopcart-api/internal/metrics"
	cartrepo "shopcart-api/internal/repository/cart"
	productrepo "shopcart-api/internal/repository/product"
	tokenrepo "shopcart-api/internal/repository/token"
	txnrepo "shopcart-api/internal/repository/transaction"
	userrepo "shopcart-api/internal/repository/user"
	cartsvc "shopcart-api/internal/service/cart"
	catalogsvc "shopcart-api/internal/service/catalog"
	checkoutsvc "shopcart-api/internal/service/checkout"
	usersvc "shopcart-api/internal/service/user"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	txnRepo := txnrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokRepo := tokenrepo.NewPostgres(dbpool)

	catalogService := catalogsvc.New(productRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	userService := usersvc.New(userRepo, tokRepo)

	cardGateway := flutterwave.New(cfg.FlutterwaveBaseURL, cfg.FlutterwaveSecretKey, cfg.GatewayTimeout, logger)
	walletGateway, err := paypal.New(ctx, cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalMode, logger)
	if err != nil {
		logger.Fatalf("init paypal client: %v", err)
	}

	paymentMetrics := metrics.NewPayment(prometheus.DefaultRegisterer)
	checkoutService := checkoutsvc.New(cartRepo, txnRepo, cardGateway, walletGateway, checkoutsvc.Config{
		CardCurrency:    cfg.FlutterwaveCurrency,
		WalletCurrency:  cfg.PayPalCurrency,
		ServiceTax:      cfg.ServiceTax,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}, paymentMetrics, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:  catalogService,
		CartSvc:     cartService,
		UserSvc:     userService,
		CheckoutSvc: checkoutService,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
