package handlers

import (
	"errors"
	"net/http"

	userRepo "roamly/database/repository/user"
	"roamly/models"
	"roamly/services/user"
	"roamly/utils"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the traveller profile endpoints the wizard prefills
// from.
type ProfileHandler struct {
	Svc user.UserService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(svc user.UserService) *ProfileHandler {
	return &ProfileHandler{Svc: svc}
}

func requestUserID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// GetProfile returns the caller's stored profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := requestUserID(c)
	if id == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing user id", "")
		return
	}

	profile, err := h.Svc.GetProfile(id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "profile not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile applies a partial profile update.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id := requestUserID(c)
	if id == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing user id", "")
		return
	}

	var input models.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.UpdateProfile(id, input); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "profile not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
