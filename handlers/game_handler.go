package handlers

import (
	"net/http"

	"realingdle/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// StartRound begins a new round against the character of the day. Playing
// again after a win or loss is just starting another round.
func (h *GameHandler) StartRound(c *gin.Context) {
	round, err := h.gameService.StartRound(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, round)
}

func (h *GameHandler) GetRound(c *gin.Context) {
	round, err := h.gameService.GetRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

type submitGuessRequest struct {
	// Not required: a blank guess is legal input the round simply ignores
	Text string `json:"text"`
}

func (h *GameHandler) SubmitGuess(c *gin.Context) {
	var req submitGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.gameService.SubmitGuess(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}
