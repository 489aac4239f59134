package routes

import (
	"roamly/handlers"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Booking    *handlers.BookingHandler
	Experience *handlers.ExperienceHandler
	Profile    *handlers.ProfileHandler
}

// RegisterRoutes registers all endpoints.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)

	RegisterExperienceRoutes(r, b)
	RegisterBookingRoutes(r, b)

	profile := r.Group("/api/profile")
	{
		profile.GET("", b.Profile.GetProfile)
		profile.PUT("", b.Profile.UpdateProfile)
	}
}

// RegisterExperienceRoutes registers the read-only catalog endpoints.
func RegisterExperienceRoutes(r *gin.Engine, b *HandlerBundle) {
	experiences := r.Group("/api/experiences")
	{
		experiences.GET("/:id", b.Experience.GetExperienceByID)
		experiences.GET("/:id/calendar", b.Experience.GetExperienceCalendar)
	}
}
