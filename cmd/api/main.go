package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/brijmohangurjar/kishan/internal/admin"
	"github.com/brijmohangurjar/kishan/internal/auth"
	"github.com/brijmohangurjar/kishan/internal/cart"
	"github.com/brijmohangurjar/kishan/internal/catalog"
	"github.com/brijmohangurjar/kishan/internal/config"
	"github.com/brijmohangurjar/kishan/internal/httpx"
	"github.com/brijmohangurjar/kishan/internal/listings"
	"github.com/brijmohangurjar/kishan/internal/media"
	"github.com/brijmohangurjar/kishan/internal/orders"
	"github.com/brijmohangurjar/kishan/internal/postgres"
	"github.com/brijmohangurjar/kishan/internal/redisx"
	"github.com/brijmohangurjar/kishan/internal/sms"
	"github.com/brijmohangurjar/kishan/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	// Redis (OTP store)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Uploads
	uploads, err := media.NewUploadStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	// SMS
	var sender sms.Sender = sms.LogSender{}
	if cfg.SMSAPIURL != "" {
		sender = sms.NewGateway(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSUsername, cfg.SMSSenderID)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiryHours)

	// Repos & services
	productRepo := &catalog.Repo{DB: db}
	cartRepo := &cart.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	userRepo := &users.Repo{DB: db}
	adminRepo := &admin.Repo{DB: db}
	listingRepo := &listings.Repo{DB: db}
	videoRepo := &media.VideoRepo{DB: db}

	loginSvc := &users.Service{
		Users:  userRepo,
		OTP:    &users.RedisOTPStore{RDB: rdb},
		SMS:    sender,
		Tokens: tokens,
	}
	adminSvc := &admin.Service{Admins: adminRepo, Tokens: tokens}

	// Handlers
	productsH := &httpx.ProductsHandler{Store: productRepo}
	cartH := &httpx.CartHandler{Store: cartRepo}
	ordersH := &httpx.OrdersHandler{Store: orderRepo}
	authH := &httpx.AuthHandler{Login: loginSvc, Users: userRepo}
	adminH := &httpx.AdminHandler{Service: adminSvc, Admins: adminRepo, Users: userRepo, Orders: orderRepo}
	listingsH := &httpx.ListingsHandler{Store: listingRepo}
	mediaH := &httpx.MediaHandler{Videos: videoRepo, Uploads: uploads}

	router := httpx.NewRouter()
	router.Route("/api", func(r chi.Router) {
		productsH.Register(r)
		listingsH.Register(r)
		mediaH.Register(r)
		authH.Register(r)
		adminH.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(tokens.RequireUser)
			ordersH.Register(r)
			cartH.Register(r)
			listingsH.RegisterUser(r)
			mediaH.RegisterUser(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(tokens.RequireAdmin)
			adminH.Register(r)
			productsH.RegisterAdmin(r)
			ordersH.RegisterAdmin(r)
			listingsH.RegisterAdmin(r)
			mediaH.RegisterAdmin(r)
		})
	})
	httpx.ServeUploads(router, cfg.UploadDir)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("%s listening at %s", cfg.ServiceName, cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
