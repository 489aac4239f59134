package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking wizard.
func RegisterBookingRoutes(r *gin.Engine, b *HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/draft", b.Booking.CreateDraft)                       // mount the wizard
		booking.GET("/draft/:draftID", b.Booking.GetDraft)                  // current state
		booking.GET("/draft/:draftID/calendar", b.Booking.GetCalendar)      // month grid
		booking.GET("/draft/:draftID/quote", b.Booking.GetQuote)            // live totals
		booking.PUT("/draft/:draftID/details", b.Booking.UpdateDetails)     // step 1
		booking.PUT("/draft/:draftID/coupon", b.Booking.ApplyCoupon)        // coupon entry
		booking.PUT("/draft/:draftID/guest", b.Booking.SubmitGuestInfo)     // step 2
		booking.POST("/draft/:draftID/back", b.Booking.Back)                // backward navigation
		booking.POST("/draft/:draftID/submit", b.Booking.Submit)            // step 3: handoff
	}
}
