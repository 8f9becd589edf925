package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RoundStatus string

const (
	RoundInProgress RoundStatus = "in_progress"
	RoundWon        RoundStatus = "won"
	RoundLost       RoundStatus = "lost"
)

const (
	DefaultMaxLives = 10
	roundTTL        = 24 * time.Hour
)

// GameRound is one playthrough against the character of the day. It is a
// plain value object: the only mutation path is SubmitGuess, and restarting
// means building a fresh round, never reviving a finished one.
type GameRound struct {
	ID         string      `json:"id"`
	AnswerID   string      `json:"answer_id"`
	AnswerName string      `json:"answer_name"`
	Hint       *string     `json:"hint"`
	Guesses    []string    `json:"guesses"`
	Lives      int         `json:"lives"`
	MaxLives   int         `json:"max_lives"`
	Status     RoundStatus `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
}

func NewGameRound(answer *CharacterView, maxLives int) *GameRound {
	if maxLives <= 0 {
		maxLives = DefaultMaxLives
	}
	return &GameRound{
		ID:         uuid.NewString(),
		AnswerID:   answer.ID,
		AnswerName: answer.Name,
		Hint:       answer.Description,
		Guesses:    []string{},
		Lives:      maxLives,
		MaxLives:   maxLives,
		Status:     RoundInProgress,
		StartedAt:  time.Now(),
	}
}

// SubmitGuess applies one guess and returns the resulting status. Finished
// rounds and whitespace-only guesses change nothing. A non-empty guess is
// always recorded, duplicates included, so a repeated wrong guess costs
// another life. Matching is case-insensitive against the answer name.
func (r *GameRound) SubmitGuess(text string) RoundStatus {
	if r.Status != RoundInProgress {
		return r.Status
	}

	guess := strings.TrimSpace(text)
	if guess == "" {
		return r.Status
	}

	r.Guesses = append(r.Guesses, guess)

	if strings.EqualFold(guess, r.AnswerName) {
		r.Status = RoundWon
		return r.Status
	}

	r.Lives--
	if r.Lives <= 0 {
		r.Lives = 0
		r.Status = RoundLost
	}
	return r.Status
}

// RoundView is the round as shown to the player. The answer stays hidden
// until the round is over.
type RoundView struct {
	ID       string      `json:"id"`
	Status   RoundStatus `json:"status"`
	Lives    int         `json:"lives"`
	MaxLives int         `json:"max_lives"`
	Guesses  []string    `json:"guesses"`
	Hint     *string     `json:"hint,omitempty"`
	Answer   string      `json:"answer,omitempty"`
	Message  string      `json:"message,omitempty"`
}

func (r *GameRound) View() *RoundView {
	view := &RoundView{
		ID:       r.ID,
		Status:   r.Status,
		Lives:    r.Lives,
		MaxLives: r.MaxLives,
		Guesses:  r.Guesses,
		Hint:     r.Hint,
	}
	if view.Guesses == nil {
		view.Guesses = []string{}
	}

	switch r.Status {
	case RoundWon:
		view.Answer = r.AnswerName
		view.Message = fmt.Sprintf("You guessed the character %q correctly!", r.AnswerName)
	case RoundLost:
		view.Answer = r.AnswerName
		view.Message = fmt.Sprintf("The character was %q", r.AnswerName)
	}
	return view
}

// SelectDailyCharacter picks the answer for the day: the roster index is the
// day of the year modulo the roster size. Pure function of (now, roster), so
// every player gets the same answer on the same date; editing the roster
// shifts the answer for later days, which the game accepts.
func SelectDailyCharacter(roster []CharacterView, now time.Time) (*CharacterView, error) {
	if len(roster) == 0 {
		return nil, ErrNoCharactersAvailable
	}
	index := dayOfYear(now) % len(roster)
	return &roster[index], nil
}

// dayOfYear counts whole 24-hour periods since the day before January 1st,
// local time, so January 1st is day 1 rather than day 0. The deployed game
// has always picked answers with this epoch; keep it bit-for-bit.
func dayOfYear(now time.Time) int {
	epoch := time.Date(now.Year(), time.January, 0, 0, 0, 0, 0, now.Location())
	return int(now.Sub(epoch) / (24 * time.Hour))
}

type GameService struct {
	characters *CharacterService
	redis      *redis.Client
	maxLives   int
}

func NewGameService(characters *CharacterService, redis *redis.Client, maxLives int) *GameService {
	if maxLives <= 0 {
		maxLives = DefaultMaxLives
	}
	return &GameService{
		characters: characters,
		redis:      redis,
		maxLives:   maxLives,
	}
}

// StartRound runs a fresh selection against the current roster and stores
// the new round. Restarting is just calling this again.
func (s *GameService) StartRound(ctx context.Context) (*RoundView, error) {
	roster, err := s.characters.ListCharacters(ListOrder{By: "created_at", Ascending: true})
	if err != nil {
		return nil, err
	}

	answer, err := SelectDailyCharacter(roster, time.Now())
	if err != nil {
		return nil, err
	}

	round := NewGameRound(answer, s.maxLives)
	if err := s.storeRound(ctx, round); err != nil {
		return nil, err
	}

	return round.View(), nil
}

func (s *GameService) GetRound(ctx context.Context, roundID string) (*RoundView, error) {
	round, err := s.getRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return round.View(), nil
}

func (s *GameService) SubmitGuess(ctx context.Context, roundID string, text string) (*RoundView, error) {
	round, err := s.getRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	round.SubmitGuess(text)

	if err := s.storeRound(ctx, round); err != nil {
		return nil, err
	}
	return round.View(), nil
}

func (s *GameService) storeRound(ctx context.Context, round *GameRound) error {
	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %v", err)
	}

	if err := s.redis.Set(ctx, "round:"+round.ID, data, roundTTL).Err(); err != nil {
		return fmt.Errorf("failed to store round in Redis: %v", err)
	}
	return nil
}

func (s *GameService) getRound(ctx context.Context, roundID string) (*GameRound, error) {
	data, err := s.redis.Get(ctx, "round:"+roundID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoundNotFound
		}
		log.Printf("Redis error getting round %s: %v", roundID, err)
		return nil, fmt.Errorf("failed to load round: %v", err)
	}

	var round GameRound
	if err := json.Unmarshal([]byte(data), &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round %s: %v", roundID, err)
	}
	return &round, nil
}
