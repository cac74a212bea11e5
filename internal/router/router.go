package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"mechhub/internal/config"
	"mechhub/internal/handler"
	"mechhub/internal/model"
	"mechhub/internal/ws"
)

// Register wires routes and middleware. Role dispatch happens here: each role
// group carries its own RequireRole guard so handlers receive only callers of
// the expected kind.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	customerHandler *handler.CustomerHandler,
	mechanicHandler *handler.MechanicHandler,
	adminHandler *handler.AdminHandler,
	notificationHandler *handler.NotificationHandler,
	wsHandler *ws.Handler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// The push channel authenticates itself from the token query param, so it
	// sits outside the JWT middleware.
	e.GET("/ws", wsHandler.Serve)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/signin", authHandler.Signin)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(handler.SessionClaims)
		},
	}))

	// Notification inbox is role-agnostic
	secured.GET("/notifications", notificationHandler.List)
	secured.GET("/notifications/unread/count", notificationHandler.UnreadCount)
	secured.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	secured.PUT("/notifications/read-all", notificationHandler.MarkAllRead)

	// Customer routes
	customer := secured.Group("/customer", handler.RequireRole(model.RoleCustomer))
	customer.GET("/mechanics/search/:kind/:value", customerHandler.SearchMechanics)
	customer.POST("/bookings", customerHandler.CreateBooking)
	customer.GET("/bookings", customerHandler.ListBookings)
	customer.GET("/bookings/:id", customerHandler.GetBooking)
	customer.PUT("/bookings/:id/cancel", customerHandler.CancelBooking)
	customer.POST("/bookings/:id/review", customerHandler.ReviewBooking)

	// Mechanic routes
	mechanic := secured.Group("/mechanic", handler.RequireRole(model.RoleMechanic))
	mechanic.POST("/profile", mechanicHandler.CreateProfile)
	mechanic.GET("/profile", mechanicHandler.GetProfile)
	mechanic.PUT("/profile", mechanicHandler.UpdateProfile)
	mechanic.PUT("/availability", mechanicHandler.ToggleAvailability)
	mechanic.GET("/bookings", mechanicHandler.ListBookings)
	mechanic.PUT("/bookings/:id/accept", mechanicHandler.AcceptBooking)
	mechanic.PUT("/bookings/:id/reject", mechanicHandler.RejectBooking)
	mechanic.PUT("/bookings/:id/start", mechanicHandler.StartBooking)
	mechanic.PUT("/bookings/:id/complete", mechanicHandler.CompleteBooking)

	// Admin routes
	admin := secured.Group("/admin", handler.RequireRole(model.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/mechanics", adminHandler.ListMechanics)
	admin.PUT("/mechanics/:id/verify", adminHandler.VerifyMechanic)
	admin.GET("/bookings", adminHandler.ListBookings)
	admin.GET("/statistics", adminHandler.Statistics)
	admin.POST("/broadcast", adminHandler.Broadcast)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
