package handlers

import (
	"errors"
	"net/http"

	"skill-backend/internal/skill"
	"skill-backend/pkg/utils"
)

// writeUpstreamError maps upstream failures onto HTTP responses. An
// expired Skill session surfaces as 401 so the frontend can force a
// fresh login instead of retrying forever.
func writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, skill.ErrUnauthorized) {
		utils.WriteError(w, http.StatusUnauthorized, "upstream session expired")
		return
	}
	var apiErr *skill.APIError
	if errors.As(err, &apiErr) {
		utils.WriteError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	utils.WriteError(w, http.StatusInternalServerError, err.Error())
}
