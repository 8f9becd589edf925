package handlers

import (
	"net/http"

	"realingdle/services"

	"github.com/gin-gonic/gin"
)

type LookupHandler struct {
	lookupService *services.LookupService
}

func NewLookupHandler(lookupService *services.LookupService) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
	}
}

type lookupNameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *LookupHandler) List(c *gin.Context) {
	kind, err := services.ParseLookupKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.lookupService.List(kind)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *LookupHandler) Add(c *gin.Context) {
	kind, err := services.ParseLookupKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req lookupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.lookupService.Add(kind, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *LookupHandler) Rename(c *gin.Context) {
	kind, err := services.ParseLookupKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req lookupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lookupService.Rename(kind, c.Param("id"), req.Name); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry updated successfully"})
}

func (h *LookupHandler) Delete(c *gin.Context) {
	kind, err := services.ParseLookupKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.lookupService.Delete(kind, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}
