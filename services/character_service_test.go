package services

import (
	"testing"

	"realingdle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store, isolated per test by name.
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.State{},
		&models.Class{},
		&models.Race{},
		&models.Occupation{},
		&models.Association{},
		&models.Place{},
		&models.Character{},
	))
	return db
}

func newTestCharacterService(t *testing.T, db *gorm.DB) *CharacterService {
	t.Helper()
	storage, err := NewStorageService(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	return NewCharacterService(db, storage)
}

func refIDs(refs []LookupRef) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

func TestSaveCharacter_RequiresName(t *testing.T) {
	svc := newTestCharacterService(t, newTestDB(t))

	_, err := svc.SaveCharacter("", &CharacterForm{Name: "   "})

	assert.True(t, IsValidation(err))
}

func TestSaveCharacter_RejectsNegativeAge(t *testing.T) {
	svc := newTestCharacterService(t, newTestDB(t))

	age := -1
	_, err := svc.SaveCharacter("", &CharacterForm{Name: "Arthur", Age: &age})

	assert.True(t, IsValidation(err))
}

func TestSaveCharacter_UpdateUnknownID(t *testing.T) {
	svc := newTestCharacterService(t, newTestDB(t))

	_, err := svc.SaveCharacter("00000000-0000-0000-0000-000000000000", &CharacterForm{Name: "Arthur"})

	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestSaveCharacter_NormalizesEmptyOptionalFields(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCharacterService(t, db)

	id, err := svc.SaveCharacter("", &CharacterForm{
		Name:        "  Arthur  ",
		Description: "   ",
		ImageURL:    "",
	})
	require.NoError(t, err)

	view, err := svc.GetCharacter(id)
	require.NoError(t, err)

	assert.Equal(t, "Arthur", view.Name)
	assert.Nil(t, view.Description)
	assert.Nil(t, view.ImageURL)
	assert.Nil(t, view.Age)
	assert.Nil(t, view.State)
}

func TestSaveCharacter_EmptyRelationSetsAreEmptyNotNil(t *testing.T) {
	svc := newTestCharacterService(t, newTestDB(t))

	id, err := svc.SaveCharacter("", &CharacterForm{Name: "Arthur"})
	require.NoError(t, err)

	view, err := svc.GetCharacter(id)
	require.NoError(t, err)

	assert.NotNil(t, view.Classes)
	assert.NotNil(t, view.Races)
	assert.NotNil(t, view.Occupations)
	assert.NotNil(t, view.Associations)
	assert.NotNil(t, view.Places)
	assert.Len(t, view.Classes, 0)
	assert.Len(t, view.Races, 0)
	assert.Len(t, view.Occupations, 0)
	assert.Len(t, view.Associations, 0)
	assert.Len(t, view.Places, 0)
}

func TestSaveCharacter_RelationRoundTripAndFullReplace(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCharacterService(t, db)
	lookups := NewLookupService(db)

	knight, err := lookups.Add(LookupClasses, "Knight")
	require.NoError(t, err)
	wizard, err := lookups.Add(LookupClasses, "Wizard")
	require.NoError(t, err)
	bard, err := lookups.Add(LookupClasses, "Bard")
	require.NoError(t, err)
	human, err := lookups.Add(LookupRaces, "Human")
	require.NoError(t, err)
	camelot, err := lookups.Add(LookupPlaces, "Camelot")
	require.NoError(t, err)

	id, err := svc.SaveCharacter("", &CharacterForm{
		Name:     "Arthur",
		ClassIDs: []string{knight.ID, wizard.ID},
		RaceIDs:  []string{human.ID},
		PlaceIDs: []string{camelot.ID},
	})
	require.NoError(t, err)

	view, err := svc.GetCharacter(id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{knight.ID, wizard.ID}, refIDs(view.Classes))
	assert.ElementsMatch(t, []string{human.ID}, refIDs(view.Races))
	assert.ElementsMatch(t, []string{camelot.ID}, refIDs(view.Places))

	// Resubmitting with a disjoint class set and no races must replace the
	// stored edges wholesale, not patch them
	_, err = svc.SaveCharacter(id, &CharacterForm{
		Name:     "Arthur",
		ClassIDs: []string{bard.ID},
	})
	require.NoError(t, err)

	view, err = svc.GetCharacter(id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bard.ID}, refIDs(view.Classes))
	assert.Len(t, view.Races, 0)
	assert.Len(t, view.Places, 0)
}

func TestSaveCharacter_DeduplicatesEdgeIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCharacterService(t, db)
	lookups := NewLookupService(db)

	knight, err := lookups.Add(LookupClasses, "Knight")
	require.NoError(t, err)

	id, err := svc.SaveCharacter("", &CharacterForm{
		Name:     "Arthur",
		ClassIDs: []string{knight.ID, knight.ID, ""},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("character_classes").Where("character_id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListCharacters_StateFlattenedToSingleOptionalValue(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCharacterService(t, db)
	lookups := NewLookupService(db)

	alive, err := lookups.Add(LookupStates, "Alive")
	require.NoError(t, err)

	_, err = svc.SaveCharacter("", &CharacterForm{Name: "Arthur", StateID: alive.ID})
	require.NoError(t, err)
	_, err = svc.SaveCharacter("", &CharacterForm{Name: "Merlin"})
	require.NoError(t, err)

	views, err := svc.ListCharacters(ListOrder{By: "name", Ascending: true})
	require.NoError(t, err)
	require.Len(t, views, 2)

	require.NotNil(t, views[0].State)
	assert.Equal(t, alive.ID, views[0].State.ID)
	assert.Equal(t, "Alive", views[0].State.Name)
	assert.Nil(t, views[1].State)
}

func TestListCharacters_Ordering(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCharacterService(t, db)

	_, err := svc.SaveCharacter("", &CharacterForm{Name: "Merlin"})
	require.NoError(t, err)
	_, err = svc.SaveCharacter("", &CharacterForm{Name: "Arthur"})
	require.NoError(t, err)

	asc, err := svc.ListCharacters(ListOrder{By: "name", Ascending: true})
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, "Arthur", asc[0].Name)

	desc, err := svc.ListCharacters(ListOrder{By: "name", Ascending: false})
	require.NoError(t, err)
	assert.Equal(t, "Merlin", desc[0].Name)
}

func TestListCharacters_RejectsUnknownOrderField(t *testing.T) {
	svc := newTestCharacterService(t, newTestDB(t))

	_, err := svc.ListCharacters(ListOrder{By: "age"})

	assert.True(t, IsValidation(err))
}

func TestDeleteCharacter_RemovesJoinEdges(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCharacterService(t, db)
	lookups := NewLookupService(db)

	knight, err := lookups.Add(LookupClasses, "Knight")
	require.NoError(t, err)

	id, err := svc.SaveCharacter("", &CharacterForm{Name: "Arthur", ClassIDs: []string{knight.ID}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCharacter(id))

	_, err = svc.GetCharacter(id)
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	var count int64
	require.NoError(t, db.Table("character_classes").Where("character_id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The lookup entry itself survives
	entries, err := lookups.List(LookupClasses)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeleteCharacter_Unknown(t *testing.T) {
	svc := newTestCharacterService(t, newTestDB(t))

	err := svc.DeleteCharacter("00000000-0000-0000-0000-000000000000")

	assert.ErrorIs(t, err, ErrCharacterNotFound)
}
