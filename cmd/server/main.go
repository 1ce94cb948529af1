package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	controllers "storefront-service/internal/controllers/http"
	"storefront-service/internal/infra"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	mysqlrepo "storefront-service/internal/repository/mysql"
	redisrepo "storefront-service/internal/repository/redis"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	projections := mysqlrepo.NewOrderProjectionRepository(db)

	bakery := infra.NewBakeryClient(os.Getenv("BAKERY_API_URL"), 10*time.Second)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "storefront.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	carts := redisrepo.NewCartStore(redisClient)
	pixSnapshots := redisrepo.NewPixSnapshotStore(redisClient)

	cartService := services.NewCartService(carts)
	checkoutService := services.NewCheckoutService(bakery, bakery, carts, pixSnapshots)
	orderService := services.NewOrderService(bakery, bakery, projections)
	adminFeed := services.NewAdminFeed(bakery, bakery, projections, publisher)

	catalogService := services.NewCatalogService(bakery)
	catalogService.SetRedisClient(redisClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		time.Sleep(5 * time.Second)
		if err := catalogService.WarmupCatalogCache(ctx); err != nil {
			log.Printf("Failed to warm up catalog cache: %v", err)
		} else {
			log.Println("Catalog cache warmed up successfully")
		}
	}()

	handler := controllers.NewHandler(cartService, checkoutService, orderService, adminFeed, catalogService, bakery, bakery)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	adminFeed.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting storefront service on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		adminFeed.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
