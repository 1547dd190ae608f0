package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"rights-arcade/internal/app"
	"rights-arcade/internal/domain"
)

// API serves the REST side of the arcade: modes, progress, preferences,
// forum and the feedback form.
type API struct {
	shell    *app.Shell
	progress *app.ProgressStore
	prefs    *app.Preferences
	forum    *app.ForumService
	feedback *app.FeedbackService
}

func NewAPI(shell *app.Shell, progress *app.ProgressStore, prefs *app.Preferences, forum *app.ForumService, feedback *app.FeedbackService) *API {
	return &API{shell: shell, progress: progress, prefs: prefs, forum: forum, feedback: feedback}
}

// NewRouter mounts the REST API and the websocket endpoint on one mux.
func NewRouter(api *API, ws *WSHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /modes", api.listModes)
	mux.HandleFunc("GET /profiles/{profile}/progress", api.getProgress)
	mux.HandleFunc("PATCH /profiles/{profile}/progress", api.patchProgress)
	mux.HandleFunc("GET /profiles/{profile}/preferences", api.getPreferences)
	// PUT replaces every field; PATCH merges the fields present in the body.
	mux.HandleFunc("PUT /profiles/{profile}/preferences", api.putPreferences)
	mux.HandleFunc("PATCH /profiles/{profile}/preferences", api.patchPreferences)
	mux.HandleFunc("GET /profiles/{profile}/forum/messages", api.listMessages)
	mux.HandleFunc("POST /profiles/{profile}/forum/messages", api.postMessage)
	mux.HandleFunc("POST /auth/signup", api.signUp)
	mux.HandleFunc("POST /auth/signin", api.signIn)
	mux.HandleFunc("GET /auth/me", api.me)
	mux.HandleFunc("POST /feedback", api.submitFeedback)
	if ws != nil {
		mux.HandleFunc("GET /ws", ws.ServeWS)
	}
	return mux
}

type modesResponse struct {
	Modes     []domain.ModeSpec `json:"modes"`
	Languages []string          `json:"languages"`
	AgeGroups []string          `json:"ageGroups"`
}

func (a *API) listModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modesResponse{
		Modes:     a.shell.Modes(),
		Languages: app.SupportedLanguages(),
		AgeGroups: app.AgeGroups,
	})
}

func (a *API) getProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.progress.Load(r.Context(), r.PathValue("profile")))
}

func (a *API) patchProgress(w http.ResponseWriter, r *http.Request) {
	var delta domain.ProgressDelta
	if !decode(w, r, &delta) {
		return
	}
	profile := r.PathValue("profile")
	if err := a.progress.Save(r.Context(), profile, delta); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.progress.Load(r.Context(), profile))
}

func (a *API) getPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.prefs.Get(r.Context(), r.PathValue("profile")))
}

func (a *API) putPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if !decode(w, r, &prefs) {
		return
	}
	updated, err := a.prefs.Update(r.Context(), r.PathValue("profile"), prefs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) patchPreferences(w http.ResponseWriter, r *http.Request) {
	var patch domain.PreferencesPatch
	if !decode(w, r, &patch) {
		return
	}
	updated, err := a.prefs.Patch(r.Context(), r.PathValue("profile"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) listMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.forum.Messages(r.Context(), r.PathValue("profile")))
}

type postMessageRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	ReplyTo  int64  `json:"replyTo"`
}

func (a *API) postMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	profile := r.PathValue("profile")

	author := strings.TrimSpace(req.Username)
	if author == "" {
		author = a.prefs.Get(ctx, profile).ForumName
	} else if err := a.prefs.SetForumName(ctx, profile, author); err != nil {
		log.Printf("remember forum name for %s: %v", profile, err)
	}
	msg, err := a.forum.Post(ctx, profile, author, req.Text, req.ReplyTo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResponse struct {
	User  domain.Identity `json:"user"`
	Token string          `json:"token"`
}

func (a *API) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decode(w, r, &req) {
		return
	}
	user, token, err := a.feedback.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (a *API) signIn(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decode(w, r, &req) {
		return
	}
	user, token, err := a.feedback.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	user, err := a.feedback.CurrentUser(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

func (a *API) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decode(w, r, &req) {
		return
	}
	fb, err := a.feedback.Submit(r.Context(), r.Header.Get("Authorization"), req.Feedback, req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

type errorResponse struct {
	Error string `json:"error"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var extErr *domain.ExternalServiceError
	switch {
	case errors.Is(err, domain.ErrModeNotFound),
		errors.Is(err, domain.ErrCatalogNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrNoMountedMode):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrUnknownCounter),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrUnsupportedLanguage),
		errors.Is(err, domain.ErrUnknownAgeGroup),
		errors.Is(err, domain.ErrEmptyFeedback),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidSignUp):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrWrongModeKind),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case domain.IsConfiguration(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &extErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
