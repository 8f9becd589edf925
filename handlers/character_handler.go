package handlers

import (
	"net/http"

	"realingdle/services"

	"github.com/gin-gonic/gin"
)

type CharacterHandler struct {
	characterService *services.CharacterService
}

func NewCharacterHandler(characterService *services.CharacterService) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
	}
}

func (h *CharacterHandler) ListCharacters(c *gin.Context) {
	order := services.ListOrder{
		By:        c.DefaultQuery("order_by", "name"),
		Ascending: c.DefaultQuery("ascending", "true") != "false",
	}

	characters, err := h.characterService.ListCharacters(order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, characters)
}

func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	character, err := h.characterService.GetCharacter(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}

func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	form, cleanup, err := h.bindCharacterForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer cleanup()

	id, err := h.characterService.SaveCharacter("", form)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	form, cleanup, err := h.bindCharacterForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer cleanup()

	id, err := h.characterService.SaveCharacter(c.Param("id"), form)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	if err := h.characterService.DeleteCharacter(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Character deleted successfully"})
}

type characterFormRequest struct {
	Name           string   `form:"name"`
	Description    string   `form:"description"`
	ImageURL       string   `form:"image_url"`
	Age            *int     `form:"age"`
	StateID        string   `form:"state_id"`
	ClassIDs       []string `form:"class_ids"`
	RaceIDs        []string `form:"race_ids"`
	OccupationIDs  []string `form:"occupation_ids"`
	AssociationIDs []string `form:"association_ids"`
	PlaceIDs       []string `form:"place_ids"`
}

// bindCharacterForm reads the multipart submission from the admin form. The
// returned cleanup closes the uploaded file, if any, and must run after the
// save completes.
func (h *CharacterHandler) bindCharacterForm(c *gin.Context) (*services.CharacterForm, func(), error) {
	var req characterFormRequest
	if err := c.ShouldBind(&req); err != nil {
		return nil, nil, err
	}

	form := &services.CharacterForm{
		Name:           req.Name,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Age:            req.Age,
		StateID:        req.StateID,
		ClassIDs:       req.ClassIDs,
		RaceIDs:        req.RaceIDs,
		OccupationIDs:  req.OccupationIDs,
		AssociationIDs: req.AssociationIDs,
		PlaceIDs:       req.PlaceIDs,
	}

	cleanup := func() {}
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { file.Close() }
		form.Image = &services.ImageUpload{
			Filename: fileHeader.Filename,
			Content:  file,
		}
	}

	return form, cleanup, nil
}
