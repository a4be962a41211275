package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/car-rental-backend/internal/booking/http"
	"github.com/nekogravitycat/car-rental-backend/internal/discount"
	discountHttp "github.com/nekogravitycat/car-rental-backend/internal/discount/http"
	"github.com/nekogravitycat/car-rental-backend/internal/file"
	fileHttp "github.com/nekogravitycat/car-rental-backend/internal/file/http"
	"github.com/nekogravitycat/car-rental-backend/internal/user"
	userHttp "github.com/nekogravitycat/car-rental-backend/internal/user/http"
	"github.com/nekogravitycat/car-rental-backend/internal/vehicle"
	vehicleHttp "github.com/nekogravitycat/car-rental-backend/internal/vehicle/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	MaxUploadBytes  int64
	UserService     user.Service
	Verifier        auth.CredentialVerifier
	VehicleService  vehicle.Service
	BookingService  booking.Service
	DiscountService discount.Service
	FileService     file.Service
	JWTManager      *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(corsConfig(cfg)))

	// authMiddleware: validates the JWT and loads the caller as an auth.Actor.
	authMiddleware := RequireActor(cfg.JWTManager, cfg.UserService)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin()

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.Verifier, cfg.JWTManager)
	vehicleHandler := vehicleHttp.NewHandler(cfg.VehicleService, cfg.FileService, cfg.MaxUploadBytes)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	discountHandler := discountHttp.NewHandler(cfg.DiscountService)
	fileHandler := fileHttp.NewHandler(cfg.FileService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, sysAdminMiddleware)
		vehicleHttp.RegisterRoutes(v1, vehicleHandler, authMiddleware, sysAdminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, sysAdminMiddleware)
		discountHttp.RegisterRoutes(v1, discountHandler, authMiddleware, sysAdminMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler)
	}

	return r
}

// corsConfig allows the local storefront in development and PROD_ORIGINS in production.
func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	return config
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
