package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ardiansyahrf/car-rental-api/internal/config"
	"github.com/ardiansyahrf/car-rental-api/internal/database"
	"github.com/ardiansyahrf/car-rental-api/internal/handler"
	"github.com/ardiansyahrf/car-rental-api/internal/middleware"
	"github.com/ardiansyahrf/car-rental-api/internal/queue"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
	"github.com/ardiansyahrf/car-rental-api/internal/router"
	"github.com/ardiansyahrf/car-rental-api/internal/service/rental"
	"github.com/ardiansyahrf/car-rental-api/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting, caching and token denylist disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	denylist := repository.NewDenylistRepo(rdb)
	categories := repository.NewCategoryRepo(db)
	cars := repository.NewCarRepo(db)
	drivers := repository.NewDriverRepo(db)
	maintenance := repository.NewMaintenanceRepo(db)
	txns := repository.NewTransactionRepo(db)

	rentalSvc := rental.New(db, txns, cars, drivers)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens, denylist)
	categoryH := handler.NewCategoryHandler(categories)
	carH := handler.NewCarHandler(cars, categories)
	driverH := handler.NewDriverHandler(drivers)
	maintenanceH := handler.NewMaintenanceHandler(maintenance, cars)
	transactionH := handler.NewTransactionHandler(cfg, rentalSvc, txns, cars, drivers)
	reportH := handler.NewReportHandler(txns)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, denylist)
	router.RegisterPublic(e, carH, categoryH, limiter, cache)
	router.RegisterAPI(e, cfg.JWTSecret, denylist, router.APIDeps{
		Categories:   categoryH,
		Cars:         carH,
		Drivers:      driverH,
		Maintenance:  maintenanceH,
		Transactions: transactionH,
		Reports:      reportH,
	})

	// Background consumer writing confirmed rentals to logs/rental.log.
	go func() {
		if err := queue.StartRentalConsumer(); err != nil {
			log.Printf("rental consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
