package dto

import (
	"strings"

	"github.com/alumlink/alumlink-api/internal/models"
)

// MemberResponse is one entry in the batch member directory.
type MemberResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CurrentRole string `json:"current_role,omitempty"`
}

// NewMemberResponse converts a batch membership into a directory entry.
func NewMemberResponse(membership models.UserBatch) MemberResponse {
	if membership.User == nil {
		return MemberResponse{ID: membership.UserID}
	}

	user := membership.User
	return MemberResponse{
		ID:          user.ID,
		Name:        strings.TrimSpace(user.FirstName + " " + user.LastName),
		Initials:    initialsOf(user.FirstName, user.LastName),
		AvatarURL:   user.AvatarURL,
		CurrentRole: user.CurrentRole,
	}
}

func initialsOf(first, last string) string {
	var b strings.Builder
	for _, name := range []string{first, last} {
		for _, r := range name {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(b.String())
}
