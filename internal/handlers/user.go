// internal/handlers/user.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hearts/internal/auth"
	"github.com/jason-s-yu/hearts/internal/database"
	"github.com/jason-s-yu/hearts/internal/models"
)

// extractTokenFromCookie pulls the auth_token value out of a Cookie header.
func extractTokenFromCookie(cookie string) string {
	parts := strings.Split(cookie, "auth_token=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// EnsurePlayerIdentity resolves the requester to a player identity. A valid
// auth_token cookie wins; otherwise a fresh ephemeral guest identity is
// minted and set as a cookie. Guests work with no database configured — the
// identity lives only in the token.
func EnsurePlayerIdentity(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, error) {
	cookieHeader := r.Header.Get("Cookie")
	if strings.Contains(cookieHeader, "auth_token=") {
		token := extractTokenFromCookie(cookieHeader)
		if sub, err := auth.AuthenticateJWT(token); err == nil {
			id, parseErr := uuid.Parse(sub)
			if parseErr != nil {
				return uuid.Nil, "", fmt.Errorf("invalid player ID in token: %w", parseErr)
			}
			return id, usernameFor(r.Context(), id), nil
		}
		// Invalid or expired token: fall through and mint a guest.
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to generate player id: %w", err)
	}
	token, err := auth.CreateJWT(id.String())
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to create guest JWT: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return id, guestName(id), nil
}

// usernameFor looks up the registered username when a database is configured,
// else falls back to a guest name.
func usernameFor(ctx context.Context, id uuid.UUID) string {
	if database.DB == nil {
		return guestName(id)
	}
	lookupCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	u, err := database.GetUserByID(lookupCtx, id)
	if err != nil || u.Username == "" {
		return guestName(id)
	}
	return u.Username
}

func guestName(id uuid.UUID) string {
	return "Guest_" + id.String()[:4]
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// CreateUserHandler registers a persistent account. Answers 503 when no
// database is configured; accounts are an optional layer over guest play.
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if database.DB == nil {
		http.Error(w, "user accounts are not enabled on this server", http.StatusServiceUnavailable)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	}
	if user.Username == "" {
		user.Username = strings.Split(req.Email, "@")[0]
	}
	if err := database.CreateUser(r.Context(), &user); err != nil {
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates a registered account and sets the auth cookie.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if database.DB == nil {
		http.Error(w, "user accounts are not enabled on this server", http.StatusServiceUnavailable)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	user, err := database.VerifyLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
