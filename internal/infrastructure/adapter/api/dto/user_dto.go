package dto

import "github.com/amirhossein-jamali/points-ledger/internal/domain/entity"

// UserResponse represents a user in API responses
type UserResponse struct {
	ID            uint64 `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	PointsBalance int64  `json:"points_balance"`
}

// NewUserResponse maps a domain user to its API representation
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		PointsBalance: user.PointsBalance(),
	}
}

// NewUserListResponse maps users in order; an empty input yields an empty array
func NewUserListResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
