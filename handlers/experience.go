package handlers

import (
	"errors"
	"net/http"
	"time"

	experienceRepo "roamly/database/repository/experience"
	"roamly/services/booking"
	"roamly/utils"

	"github.com/gin-gonic/gin"
)

// ExperienceHandler serves the read-only experience catalog.
type ExperienceHandler struct {
	Repo         experienceRepo.ExperienceRepository
	Availability *booking.AvailabilityService
}

// NewExperienceHandler constructs an ExperienceHandler.
func NewExperienceHandler(repo experienceRepo.ExperienceRepository, availability *booking.AvailabilityService) *ExperienceHandler {
	return &ExperienceHandler{Repo: repo, Availability: availability}
}

// GetExperienceByID fetches one catalog entry.
func (h *ExperienceHandler) GetExperienceByID(c *gin.Context) {
	exp, err := h.Repo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, experienceRepo.ErrExperienceNotFound) {
			utils.JSONError(c, http.StatusNotFound, "experience not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch experience", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"experience": exp})
}

// GetExperienceCalendar returns the month grid for an experience without a
// draft, using the cached availability pattern.
func (h *ExperienceHandler) GetExperienceCalendar(c *gin.Context) {
	monthParam := c.DefaultQuery("month", time.Now().Format("2006-01"))
	parsed, err := time.Parse("2006-01", monthParam)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid month", "expected YYYY-MM")
		return
	}

	avail, availErr := h.Availability.FetchWeekdays(c.Request.Context(), c.Param("id"))
	grid := booking.BuildCalendarMonth(parsed.Year(), parsed.Month(), time.Now(), "", avail, availErr)
	c.JSON(http.StatusOK, gin.H{"calendar": grid})
}
