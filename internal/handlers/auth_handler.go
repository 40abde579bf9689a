package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"skill-backend/internal/auth"
	"skill-backend/internal/cache"
	"skill-backend/internal/config"
	"skill-backend/internal/skill"
	"skill-backend/pkg/utils"
)

type AuthHandler struct {
	Skill      *skill.Client
	JWTManager *auth.JWTManager
	Config     *config.Config
}

func NewAuthHandler(client *skill.Client, jwtManager *auth.JWTManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Skill: client, JWTManager: jwtManager, Config: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type venueInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type loginResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Venues   []venueInfo `json:"venues"`
}

// Login authenticates against the upstream Skill API and wraps the
// upstream bearer token inside a platform session token. Recent logins
// are served from the Redis cache to spare the upstream endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password required", http.StatusBadRequest)
		return
	}

	skillToken, cached := cache.GetCachedLogin(r.Context(), req.Username, req.Password)
	if !cached {
		var err error
		skillToken, err = h.Skill.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			log.Printf("[Auth] upstream login failed for %s: %v", req.Username, err)
			utils.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		cache.CacheLogin(r.Context(), req.Username, req.Password, skillToken)
	}

	token, err := h.JWTManager.GenerateToken(req.Username, skillToken)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to generate session token")
		return
	}

	venues := make([]venueInfo, 0, len(h.Config.Venues))
	for _, v := range h.Config.Venues {
		venues = append(venues, venueInfo{Code: v.Code, Name: v.Name})
	}

	utils.WriteJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Username: req.Username,
		Venues:   venues,
	})
}

// Logout is a no-op on the server side. Session tokens are stateless,
// the frontend drops its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
