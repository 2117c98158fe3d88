package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Adnan4141/digital-product-store-server/config"
	"github.com/Adnan4141/digital-product-store-server/controller"
	"github.com/Adnan4141/digital-product-store-server/mailer"
	"github.com/Adnan4141/digital-product-store-server/metrics"
	"github.com/Adnan4141/digital-product-store-server/middleware"
	"github.com/Adnan4141/digital-product-store-server/payment"
	"github.com/Adnan4141/digital-product-store-server/routes"
	"github.com/Adnan4141/digital-product-store-server/services"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := config.InitTracer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialise tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := config.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	rdb := config.NewRedis(cfg, logger)

	provider := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		logger.Warn("smtp not configured, order confirmations are logged only")
		mail = mailer.NewLogMailer(logger)
	}

	mts := metrics.New(prometheus.DefaultRegisterer)

	orderService := services.NewOrderService(db, rdb, mail, logger, mts)
	paymentService := services.NewPaymentService(db, provider, cfg.Currency, logger, mts)
	settlementService := services.NewSettlementService(db, rdb, mail, logger, mts)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestObserver(logger, mts))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Register(router, routes.Controllers{
		Products:   controller.NewProductController(db, rdb, logger),
		Categories: controller.NewCategoryController(db, logger),
		Orders:     controller.NewOrderController(orderService, logger),
		Payments:   controller.NewPaymentController(paymentService, logger),
		Webhooks:   controller.NewWebhookController(provider, settlementService, logger),
	}, cfg.AdminSecret, rdb)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
		return
	}
	logger.Info("http server stopped")
}
