package dto

import (
	"math"
	"time"

	"github.com/alumlink/alumlink-api/internal/models"
)

// PollCreateRequest is the payload for opening a poll.
type PollCreateRequest struct {
	Question string     `json:"question" validate:"required,min=3,max=500"`
	Options  []string   `json:"options" validate:"required,min=2,dive,max=255"`
	EndsAt   *time.Time `json:"ends_at"`
}

// PollVoteRequest is the payload for casting a vote.
type PollVoteRequest struct {
	OptionID string `json:"option_id" validate:"required,max=36"`
}

// PollOptionResponse carries one option with its tally.
type PollOptionResponse struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// PollResponse is the display form of a poll for the requesting user.
type PollResponse struct {
	ID         string               `json:"id"`
	Question   string               `json:"question"`
	Author     UserSummary          `json:"author"`
	EndsAt     *time.Time           `json:"ends_at,omitempty"`
	TotalVotes int                  `json:"total_votes"`
	HasVoted   bool                 `json:"has_voted"`
	UserVote   string               `json:"user_vote,omitempty"`
	Options    []PollOptionResponse `json:"options"`
	CreatedAt  time.Time            `json:"created_at"`
}

// NewPollResponse transforms a poll with loaded votes into its display form.
// Percentages are rounded; a poll with no votes reports 0% for every option.
func NewPollResponse(poll models.Poll, viewerID string) PollResponse {
	total := 0
	for _, option := range poll.Options {
		total += len(option.Votes)
	}

	userVote := ""
	options := make([]PollOptionResponse, 0, len(poll.Options))
	for _, option := range poll.Options {
		votes := len(option.Votes)
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(float64(votes) / float64(total) * 100))
		}

		for _, vote := range option.Votes {
			if vote.UserID == viewerID {
				userVote = option.ID
			}
		}

		options = append(options, PollOptionResponse{
			ID:         option.ID,
			Text:       option.Text,
			Votes:      votes,
			Percentage: percentage,
		})
	}

	return PollResponse{
		ID:         poll.ID,
		Question:   poll.Question,
		Author:     NewUserSummary(poll.Author),
		EndsAt:     poll.EndsAt,
		TotalVotes: total,
		HasVoted:   userVote != "",
		UserVote:   userVote,
		Options:    options,
		CreatedAt:  poll.CreatedAt,
	}
}
