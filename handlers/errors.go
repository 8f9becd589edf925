package handlers

import (
	"errors"
	"net/http"

	"realingdle/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds onto HTTP statuses: validation
// failures are the caller's fault, known-absent resources are 404, the empty
// roster is its own user-visible state, everything else is a backend failure.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCharacterNotFound),
		errors.Is(err, services.ErrLookupNotFound),
		errors.Is(err, services.ErrRoundNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoCharactersAvailable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
