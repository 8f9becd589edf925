package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnswer(name string) *CharacterView {
	hint := "a hint"
	return &CharacterView{ID: "answer-id", Name: name, Description: &hint}
}

func TestGameRound_RecordsGuessesInOrder(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 10)

	round.SubmitGuess("Lancelot")
	round.SubmitGuess("  Merlin  ")
	round.SubmitGuess("Lancelot")

	assert.Equal(t, []string{"Lancelot", "Merlin", "Lancelot"}, round.Guesses)
	assert.Equal(t, 7, round.Lives, "each wrong guess costs one life, duplicates included")
	assert.Equal(t, RoundInProgress, round.Status)
}

func TestGameRound_IgnoresWhitespaceGuess(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 10)

	round.SubmitGuess("")
	round.SubmitGuess("   ")
	round.SubmitGuess("\t\n")

	assert.Empty(t, round.Guesses)
	assert.Equal(t, 10, round.Lives)
	assert.Equal(t, RoundInProgress, round.Status)
}

func TestGameRound_CaseInsensitiveWin(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 10)

	status := round.SubmitGuess("ARTHUR")

	assert.Equal(t, RoundWon, status)
	assert.Equal(t, 10, round.Lives)
	assert.Equal(t, []string{"ARTHUR"}, round.Guesses)
}

func TestGameRound_LosesOnExactlyTenthWrongGuess(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 10)

	for i := 0; i < 9; i++ {
		status := round.SubmitGuess("wrong")
		assert.Equal(t, RoundInProgress, status, "guess %d should not end the round", i+1)
	}
	assert.Equal(t, 1, round.Lives)

	status := round.SubmitGuess("wrong")
	assert.Equal(t, RoundLost, status)
	assert.Equal(t, 0, round.Lives)
}

func TestGameRound_TerminalStateIsFinal(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 1)
	round.SubmitGuess("wrong")
	require.Equal(t, RoundLost, round.Status)

	status := round.SubmitGuess("Arthur")

	assert.Equal(t, RoundLost, status)
	assert.Equal(t, []string{"wrong"}, round.Guesses, "guesses after game over are not recorded")
	assert.Equal(t, 0, round.Lives)
}

func TestGameRound_LivesStayWithinBounds(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 3)

	for i := 0; i < 10; i++ {
		round.SubmitGuess("wrong")
	}

	assert.Equal(t, 0, round.Lives)
	assert.Equal(t, 3, round.MaxLives)
}

func TestGameRound_DefaultMaxLives(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 0)

	assert.Equal(t, DefaultMaxLives, round.Lives)
	assert.Equal(t, DefaultMaxLives, round.MaxLives)
}

func TestGameRound_ViewHidesAnswerUntilOver(t *testing.T) {
	round := NewGameRound(testAnswer("Arthur"), 2)

	view := round.View()
	assert.Empty(t, view.Answer)
	assert.Empty(t, view.Message)
	assert.NotNil(t, view.Guesses)

	round.SubmitGuess("wrong")
	round.SubmitGuess("wrong")
	view = round.View()
	assert.Equal(t, RoundLost, view.Status)
	assert.Equal(t, "Arthur", view.Answer)
	assert.Contains(t, view.Message, "Arthur")

	won := NewGameRound(testAnswer("Arthur"), 2)
	won.SubmitGuess("arthur")
	view = won.View()
	assert.Equal(t, RoundWon, view.Status)
	assert.Equal(t, "Arthur", view.Answer)
	assert.Contains(t, view.Message, "correctly")
}

func testRoster(names ...string) []CharacterView {
	roster := make([]CharacterView, len(names))
	for i, name := range names {
		roster[i] = CharacterView{ID: name + "-id", Name: name}
	}
	return roster
}

func TestSelectDailyCharacter_EmptyRoster(t *testing.T) {
	_, err := SelectDailyCharacter(nil, time.Now())
	assert.ErrorIs(t, err, ErrNoCharactersAvailable)
}

func TestSelectDailyCharacter_Deterministic(t *testing.T) {
	roster := testRoster("first", "second", "third")
	now := time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC)

	first, err := SelectDailyCharacter(roster, now)
	require.NoError(t, err)
	second, err := SelectDailyCharacter(roster, now)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestSelectDailyCharacter_DayFiveModThree(t *testing.T) {
	// Day 5 of the year, roster of 3: 5 mod 3 = 2, the third-created character
	roster := testRoster("first", "second", "third")
	now := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

	answer, err := SelectDailyCharacter(roster, now)
	require.NoError(t, err)

	assert.Equal(t, "third", answer.Name)
}

func TestSelectDailyCharacter_RosterSizeChangesResult(t *testing.T) {
	now := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

	smaller, err := SelectDailyCharacter(testRoster("first", "second", "third"), now)
	require.NoError(t, err)
	larger, err := SelectDailyCharacter(testRoster("first", "second", "third", "fourth"), now)
	require.NoError(t, err)

	// 5 mod 3 = 2, 5 mod 4 = 1
	assert.Equal(t, "third", smaller.Name)
	assert.Equal(t, "second", larger.Name)
}

func TestDayOfYear_JanuaryFirstIsDayOne(t *testing.T) {
	// Epoch is the day before January 1st, so January 1st counts as day 1
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, dayOfYear(now))
}
