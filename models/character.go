package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Character struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Age         *int      `json:"age"`
	StateID     *string   `json:"state_id" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	State        *State        `json:"state,omitempty"`
	Classes      []Class       `json:"classes,omitempty" gorm:"many2many:character_classes"`
	Races        []Race        `json:"races,omitempty" gorm:"many2many:character_races"`
	Occupations  []Occupation  `json:"occupations,omitempty" gorm:"many2many:character_occupations"`
	Associations []Association `json:"associations,omitempty" gorm:"many2many:character_associations"`
	Places       []Place       `json:"places,omitempty" gorm:"many2many:character_places"`
}

func (c *Character) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
