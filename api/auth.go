package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminCookieName = "admin_token"

type AuthHandler struct {
	jwtSecret          string
	callbackSecret     string
	adminPINHash       string
	tokenDuration      time.Duration
	adminTokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(jwtSecret, callbackSecret, adminPINHash string, tokenDuration, adminTokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{
		jwtSecret:          jwtSecret,
		callbackSecret:     callbackSecret,
		adminPINHash:       adminPINHash,
		tokenDuration:      tokenDuration,
		adminTokenDuration: adminTokenDuration,
	}
}

type sessionRequest struct {
	CallbackSecret string `json:"callback_secret"`
	DiscordID      string `json:"discord_id"`
	Username       string `json:"username"`
	AvatarURL      string `json:"avatar_url"`
	IsMember       bool   `json:"is_member"`
	IsClubMember   bool   `json:"is_club_member"`
}

type authResponse struct {
	Token string `json:"token"`
}

// MintSession issues a voter session token. It is called by the OAuth glue
// after the provider round-trip resolved the caller's identity and membership
// flags; the shared callback secret keeps it off-limits to everyone else.
func (h *AuthHandler) MintSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.CallbackSecret), []byte(h.callbackSecret)) != 1 {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if req.DiscordID == "" || req.Username == "" {
		writeError(w, "Missing fields", http.StatusBadRequest)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"discord_id":     req.DiscordID,
		"username":       req.Username,
		"avatar_url":     req.AvatarURL,
		"is_member":      req.IsMember,
		"is_club_member": req.IsClubMember,
		"exp":            time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}

type verifyPINRequest struct {
	PIN string `json:"pin"`
}

type verifyPINResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// VerifyPIN exchanges the operator PIN for a short-lived admin token. The
// token is returned in the body and set as an httpOnly cookie, which is what
// the admin console uses.
func (h *AuthHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	if h.adminPINHash == "" {
		writeError(w, "Admin PIN not configured", http.StatusInternalServerError)
		return
	}

	var req verifyPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(h.adminPINHash), []byte(req.PIN)) != nil {
		writeError(w, "Invalid PIN", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(h.adminTokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    tokenStr,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.adminTokenDuration.Seconds()),
		Path:     "/",
	})

	writeJSON(w, verifyPINResponse{Success: true, Token: tokenStr}, http.StatusOK)
}
