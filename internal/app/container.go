package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/car-rental-backend/internal/api"
	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/db"
	"github.com/nekogravitycat/car-rental-backend/internal/discount"
	"github.com/nekogravitycat/car-rental-backend/internal/file"
	"github.com/nekogravitycat/car-rental-backend/internal/notification"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/storage"
	"github.com/nekogravitycat/car-rental-backend/internal/user"
	"github.com/nekogravitycat/car-rental-backend/internal/vehicle"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction         bool
	ProdOrigins          string
	DBPool               *pgxpool.Pool
	JWTSecret            string
	JWTTTL               time.Duration
	BcryptCost           int
	RedisURL             string
	AvailabilityCacheTTL time.Duration
	RabbitMQURL          string
	StoragePath          string
	MaxUploadBytes       int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	closers []func()
}

// Close releases the optional Redis and RabbitMQ connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// NewContainer initializes all modules and returns the container.
// Redis and RabbitMQ are only dialed when their URLs are set.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	c := &Container{}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	transactor := db.NewTransactor(cfg.DBPool)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	var cache booking.AvailabilityCache = booking.NoopCache{}
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		cache = booking.NewRedisCache(rdb, cfg.AvailabilityCacheTTL)
	} else {
		log.Println("REDIS_URL not set, availability cache disabled")
	}

	var publisher notification.Publisher = notification.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := notification.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.closers = append(c.closers, p.Close)
		publisher = p
	} else {
		log.Println("RABBITMQ_URL not set, booking events will not be published")
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// File Module
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store)

	// Vehicle Module
	vehicleRepo := vehicle.NewPgxRepository(cfg.DBPool)
	vehicleService := vehicle.NewService(vehicleRepo)

	// Discount Module
	discountRepo := discount.NewPgxRepository(cfg.DBPool)
	discountService := discount.NewService(discountRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, transactor, vehicleService, discountService, cache, publisher)

	// API Router Config
	routerParams := api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		UserService:     userService,
		Verifier:        user.NewCredentialVerifier(userService),
		VehicleService:  vehicleService,
		BookingService:  bookingService,
		DiscountService: discountService,
		FileService:     fileService,
		JWTManager:      jwtManager,
	}

	c.Router = api.NewRouter(routerParams)
	c.JWTManager = jwtManager
	return c, nil
}
