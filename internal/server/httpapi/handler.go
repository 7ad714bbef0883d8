// Package httpapi exposes the session core over a REST surface: register,
// login, refresh, logout, logout-all, and the current-user read, plus the
// Prometheus metrics endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/server/models"
	"taskboard/internal/server/services"
)

// AuthService is the slice of the session manager the HTTP layer consumes.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName, deviceInfo, ip string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password, deviceInfo, ip string) (*services.AuthResult, error)
	Refresh(ctx context.Context, rawToken, deviceInfo, ip string) (*services.AuthResult, error)
	Logout(ctx context.Context, rawToken string) (bool, error)
	LogoutAll(ctx context.Context, userID string) (int64, error)
	ValidateByID(ctx context.Context, userID string) (*models.User, error)
}

type Handler struct {
	svc       AuthService
	jwtSecret []byte
	logger    logging.Logger
}

func NewHandler(svc AuthService, secretKey string, l logging.Logger) *Handler {
	return &Handler{
		svc:       svc,
		jwtSecret: []byte(secretKey),
		logger:    l.With("module", "httpapi"),
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.FullName,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         toUserPayload(res.User),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		// One shape for every authentication failure; which one it was is
		// visible only in the service logs.
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         toUserPayload(res.User),
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         toUserPayload(res.User),
	})
}

func (h *Handler) logout(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	revoked, err := h.svc.Logout(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	msg := "Token not found or already revoked"
	if revoked {
		msg = "Logged out successfully"
	}
	c.JSON(http.StatusOK, logoutResponse{Message: msg, Revoked: revoked})
}

func (h *Handler) logoutAll(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	count, err := h.svc.LogoutAll(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, logoutAllResponse{Message: "All sessions revoked", RevokedCount: count})
}

func (h *Handler) me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, toUserPayload(user))
}
