package handler

import (
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

type profileResponse struct {
	*model.Profile
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.profileService.ByUserID(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "Profile not found")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{profile, user.Email, user.IsVerified()})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.ProfileInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	profile, err := h.profileService.Update(r.Context(), user.ID, input)
	if err != nil {
		writeServiceError(w, r, err, "Profile not found")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{profile, user.Email, user.IsVerified()})
}
