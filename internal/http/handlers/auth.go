package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"backoffice/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the login response user payload.
type AuthUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)

	err := config.DB.QueryRowContext(c.Request.Context(), `
        SELECT id, name, username, email, password_hash, role
        FROM users
        WHERE email = ? OR username = ?`, req.Email, req.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&passwordHash,
		&user.Role,
	)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email/username or password")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "user lookup failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email/username or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(a.Env.JWTSecret))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to sign token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString, "user": user})
}
