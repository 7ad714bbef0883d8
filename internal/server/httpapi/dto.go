package httpapi

import "taskboard/internal/server/models"

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// userPayload is the user shape exposed over HTTP. Password material and the
// active flag never leave the service.
type userPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

type authResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         userPayload `json:"user"`
}

type logoutResponse struct {
	Message string `json:"message"`
	Revoked bool   `json:"revoked"`
}

type logoutAllResponse struct {
	Message      string `json:"message"`
	RevokedCount int64  `json:"revoked_count"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}
