package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/config"
	"github.com/example/laundrylink/internal/handlers"
	"github.com/example/laundrylink/internal/middleware"
	"github.com/example/laundrylink/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	flow := services.NewAuthFlow(db)
	ratings := services.NewRatingAggregator()

	authHandler := handlers.NewAuthHandler(flow, cfg)
	profileHandler := handlers.NewProfileHandler(flow)
	shopHandler := handlers.NewShopHandler(db)
	reviewHandler := handlers.NewReviewHandler(db, ratings)
	catalogHandler := handlers.NewCatalogHandler(db)
	bookingHandler := handlers.NewBookingHandler(db)

	api := app.Group("/api")
	authRequired := middleware.AuthMiddleware(flow)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)

	// Profile resource
	profile := api.Group("/profile", authRequired)
	profile.Get("/", profileHandler.GetProfile)
	profile.Post("/", profileHandler.CreateProfile)
	profile.Put("/", profileHandler.UpdateProfile)
	profile.Patch("/", profileHandler.PatchProfile)

	// Shops: public reads, vendor-owned writes. Fixed paths go before :id.
	shops := api.Group("/shops")
	shops.Get("/", shopHandler.ListShops)
	shops.Get("/search", shopHandler.ListShops)
	shops.Get("/nearby", shopHandler.NearbyShops)
	shops.Post("/", authRequired, shopHandler.CreateShop)
	shops.Get("/:id", shopHandler.GetShop)
	shops.Put("/:id", authRequired, shopHandler.UpdateShop)
	shops.Delete("/:id", authRequired, shopHandler.DeleteShop)
	shops.Get("/:id/reviews", reviewHandler.ListShopReviews)
	shops.Post("/:id/reviews", authRequired, reviewHandler.CreateReview)

	api.Get("/vendor/shops", authRequired, shopHandler.ListVendorShops)

	// Review mutations by the owning author
	reviews := api.Group("/reviews", authRequired)
	reviews.Put("/:id", reviewHandler.UpdateReview)
	reviews.Patch("/:id", reviewHandler.UpdateReview)
	reviews.Delete("/:id", reviewHandler.DeleteReview)

	// Service type catalog
	serviceTypes := api.Group("/service-types")
	serviceTypes.Get("/", catalogHandler.ListServiceTypes)
	serviceTypes.Get("/:id", catalogHandler.GetServiceType)
	serviceTypes.Post("/", authRequired, catalogHandler.CreateServiceType)
	serviceTypes.Put("/:id", authRequired, catalogHandler.UpdateServiceType)
	serviceTypes.Delete("/:id", authRequired, catalogHandler.DeleteServiceType)

	// Bookings
	bookings := api.Group("/bookings", authRequired)
	bookings.Post("/", bookingHandler.CreateBooking)
	bookings.Get("/", bookingHandler.ListBookings)
	bookings.Get("/:id", bookingHandler.GetBooking)
	bookings.Delete("/:id", bookingHandler.DeleteBooking)

	shopBookings := api.Group("/shop/bookings", authRequired)
	shopBookings.Get("/", bookingHandler.ListShopBookings)
	shopBookings.Patch("/:id", bookingHandler.UpdateShopBookingStatus)
}
