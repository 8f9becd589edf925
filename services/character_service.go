package services

import (
	"errors"
	"strings"
	"time"

	"realingdle/models"

	"gorm.io/gorm"
)

type CharacterService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewCharacterService(db *gorm.DB, storage *StorageService) *CharacterService {
	return &CharacterService{db: db, storage: storage}
}

type LookupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CharacterView is the normalized read shape handed to consumers. Relation
// slices are always present (empty, never null) and the to-one state relation
// is always a single optional value regardless of how the row came back.
type CharacterView struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  *string     `json:"description"`
	ImageURL     *string     `json:"image_url"`
	Age          *int        `json:"age"`
	State        *LookupRef  `json:"state"`
	Classes      []LookupRef `json:"classes"`
	Races        []LookupRef `json:"races"`
	Occupations  []LookupRef `json:"occupations"`
	Associations []LookupRef `json:"associations"`
	Places       []LookupRef `json:"places"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type ListOrder struct {
	By        string // "name" or "created_at"
	Ascending bool
}

func (o ListOrder) column() (string, error) {
	switch o.By {
	case "", "name":
		return "name", nil
	case "created_at":
		return "created_at", nil
	}
	return "", &ValidationError{Field: "order_by", Reason: "must be name or created_at"}
}

// CharacterForm carries a character submission from the admin screens. An
// attached Image wins over a typed ImageURL; empty strings mean absent.
type CharacterForm struct {
	Name           string
	Description    string
	ImageURL       string
	Age            *int
	StateID        string
	ClassIDs       []string
	RaceIDs        []string
	OccupationIDs  []string
	AssociationIDs []string
	PlaceIDs       []string
	Image          *ImageUpload
}

func (s *CharacterService) ListCharacters(order ListOrder) ([]CharacterView, error) {
	column, err := order.column()
	if err != nil {
		return nil, err
	}

	direction := "ASC"
	if !order.Ascending {
		direction = "DESC"
	}

	var characters []models.Character
	err = s.db.
		Preload("State").
		Preload("Classes").
		Preload("Races").
		Preload("Occupations").
		Preload("Associations").
		Preload("Places").
		Order(column + " " + direction).
		Find(&characters).Error
	if err != nil {
		return nil, err
	}

	views := make([]CharacterView, len(characters))
	for i := range characters {
		views[i] = normalizeCharacter(&characters[i])
	}
	return views, nil
}

func (s *CharacterService) GetCharacter(id string) (*CharacterView, error) {
	var character models.Character
	err := s.db.
		Preload("State").
		Preload("Classes").
		Preload("Races").
		Preload("Occupations").
		Preload("Associations").
		Preload("Places").
		First(&character, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}

	view := normalizeCharacter(&character)
	return &view, nil
}

// SaveCharacter validates the form, resolves the image, upserts the scalar
// row and then replaces each join-table edge set. The image upload finishes
// before the upsert so the row never points at an object that does not exist
// yet, and the upsert finishes before any edge sync so every edge has a row
// to hang off. A failed edge sync leaves that category stale until the next
// save; there is no rollback across the phases.
func (s *CharacterService) SaveCharacter(existingID string, form *CharacterForm) (string, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if form.Age != nil && *form.Age < 0 {
		return "", &ValidationError{Field: "age", Reason: "must not be negative"}
	}

	imageURL, err := s.resolveImageURL(form)
	if err != nil {
		return "", err
	}

	description := optionalString(form.Description)
	stateID := optionalString(form.StateID)

	characterID := existingID
	if characterID == "" {
		character := models.Character{
			Name:        name,
			Description: description,
			ImageURL:    imageURL,
			Age:         form.Age,
			StateID:     stateID,
		}
		if err := s.db.Create(&character).Error; err != nil {
			return "", err
		}
		characterID = character.ID
	} else {
		result := s.db.Model(&models.Character{}).
			Where("id = ?", existingID).
			Updates(map[string]interface{}{
				"name":        name,
				"description": description,
				"image_url":   imageURL,
				"age":         form.Age,
				"state_id":    stateID,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return "", result.Error
		}
		if result.RowsAffected == 0 {
			return "", ErrCharacterNotFound
		}
	}

	edgeSets := map[LookupKind][]string{
		LookupClasses:      form.ClassIDs,
		LookupRaces:        form.RaceIDs,
		LookupOccupations:  form.OccupationIDs,
		LookupAssociations: form.AssociationIDs,
		LookupPlaces:       form.PlaceIDs,
	}
	for _, kind := range characterJoinKinds {
		if err := s.syncJoinTable(kind, characterID, edgeSets[kind]); err != nil {
			return characterID, err
		}
	}

	return characterID, nil
}

func (s *CharacterService) DeleteCharacter(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, kind := range characterJoinKinds {
			spec := kind.spec()
			if err := tx.Exec("DELETE FROM "+spec.joinTable+" WHERE character_id = ?", id).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Character{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCharacterNotFound
		}
		return nil
	})
}

// syncJoinTable replaces the stored edge set for one category: delete every
// edge for this character, then insert one row per surviving id. An empty
// set stops after the delete.
func (s *CharacterService) syncJoinTable(kind LookupKind, characterID string, ids []string) error {
	spec := kind.spec()

	if err := s.db.Exec("DELETE FROM "+spec.joinTable+" WHERE character_id = ?", characterID).Error; err != nil {
		return err
	}

	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]interface{}{
			"character_id":  characterID,
			spec.joinColumn: id,
		})
	}
	return s.db.Table(spec.joinTable).Create(rows).Error
}

func (s *CharacterService) resolveImageURL(form *CharacterForm) (*string, error) {
	if form.Image != nil {
		url, err := s.storage.Save(form.Image.Filename, form.Image.Content)
		if err != nil {
			return nil, err
		}
		return &url, nil
	}
	return optionalString(form.ImageURL), nil
}

// normalizeCharacter flattens the stored row into the read shape: join rows
// become plain {id, name} sets and the state relation collapses to a single
// optional value. A state pointer whose row never loaded counts as absent.
func normalizeCharacter(c *models.Character) CharacterView {
	view := CharacterView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		Age:          c.Age,
		Classes:      make([]LookupRef, 0, len(c.Classes)),
		Races:        make([]LookupRef, 0, len(c.Races)),
		Occupations:  make([]LookupRef, 0, len(c.Occupations)),
		Associations: make([]LookupRef, 0, len(c.Associations)),
		Places:       make([]LookupRef, 0, len(c.Places)),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}

	if c.State != nil && c.State.ID != "" {
		view.State = &LookupRef{ID: c.State.ID, Name: c.State.Name}
	}

	for _, class := range c.Classes {
		view.Classes = append(view.Classes, LookupRef{ID: class.ID, Name: class.Name})
	}
	for _, race := range c.Races {
		view.Races = append(view.Races, LookupRef{ID: race.ID, Name: race.Name})
	}
	for _, occupation := range c.Occupations {
		view.Occupations = append(view.Occupations, LookupRef{ID: occupation.ID, Name: occupation.Name})
	}
	for _, association := range c.Associations {
		view.Associations = append(view.Associations, LookupRef{ID: association.ID, Name: association.Name})
	}
	for _, place := range c.Places {
		view.Places = append(view.Places, LookupRef{ID: place.ID, Name: place.Name})
	}

	return view
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
