package services

import (
	"strings"
	"time"

	"realingdle/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LookupKind enumerates the six lookup tables a character can reference.
// Each kind maps to a fixed table/join-table/join-column triple; anything
// the router passes through ParseLookupKind is known at compile time.
type LookupKind string

const (
	LookupStates       LookupKind = "states"
	LookupClasses      LookupKind = "classes"
	LookupRaces        LookupKind = "races"
	LookupOccupations  LookupKind = "occupations"
	LookupAssociations LookupKind = "associations"
	LookupPlaces       LookupKind = "places"
)

// characterJoinKinds are the many-to-many categories synced on every
// character save. States are excluded: a character holds at most one state,
// as a column on the characters row itself.
var characterJoinKinds = []LookupKind{
	LookupClasses,
	LookupRaces,
	LookupOccupations,
	LookupAssociations,
	LookupPlaces,
}

type lookupSpec struct {
	table      string
	joinTable  string // empty for the to-one states relation
	joinColumn string
}

func (k LookupKind) spec() lookupSpec {
	switch k {
	case LookupStates:
		return lookupSpec{table: "states"}
	case LookupClasses:
		return lookupSpec{table: "classes", joinTable: "character_classes", joinColumn: "class_id"}
	case LookupRaces:
		return lookupSpec{table: "races", joinTable: "character_races", joinColumn: "race_id"}
	case LookupOccupations:
		return lookupSpec{table: "occupations", joinTable: "character_occupations", joinColumn: "occupation_id"}
	case LookupAssociations:
		return lookupSpec{table: "associations", joinTable: "character_associations", joinColumn: "association_id"}
	case LookupPlaces:
		return lookupSpec{table: "places", joinTable: "character_places", joinColumn: "place_id"}
	}
	return lookupSpec{}
}

func ParseLookupKind(raw string) (LookupKind, error) {
	kind := LookupKind(raw)
	switch kind {
	case LookupStates, LookupClasses, LookupRaces, LookupOccupations, LookupAssociations, LookupPlaces:
		return kind, nil
	}
	return "", &ValidationError{Field: "kind", Reason: "unknown lookup table " + raw}
}

type LookupService struct {
	db *gorm.DB
}

func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{db: db}
}

func (s *LookupService) List(kind LookupKind) ([]LookupRef, error) {
	rows := []LookupRef{}
	err := s.db.Table(kind.spec().table).
		Select("id", "name").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LookupService) Add(kind LookupKind, name string) (*LookupRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	now := time.Now()
	row := map[string]interface{}{
		"id":         uuid.NewString(),
		"name":       name,
		"created_at": now,
		"updated_at": now,
	}
	if err := s.db.Table(kind.spec().table).Create(row).Error; err != nil {
		return nil, err
	}

	return &LookupRef{ID: row["id"].(string), Name: name}, nil
}

func (s *LookupService) Rename(kind LookupKind, id string, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	result := s.db.Table(kind.spec().table).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLookupNotFound
	}
	return nil
}

// Delete removes a lookup entry together with the character edges that
// reference it. The original left dangling edges behind and leaned on
// whatever cascade the database happened to have; here the cleanup is owned
// explicitly and runs in the same transaction as the row delete.
func (s *LookupService) Delete(kind LookupKind, id string) error {
	spec := kind.spec()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if spec.joinTable != "" {
			if err := tx.Exec("DELETE FROM "+spec.joinTable+" WHERE "+spec.joinColumn+" = ?", id).Error; err != nil {
				return err
			}
		} else {
			// states hang off the characters row directly
			if err := tx.Model(&models.Character{}).
				Where("state_id = ?", id).
				Update("state_id", nil).Error; err != nil {
				return err
			}
		}

		result := tx.Exec("DELETE FROM "+spec.table+" WHERE id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLookupNotFound
		}
		return nil
	})
}
