package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-log/internal/middleware"
	"pet-log/internal/platform/logger"
	"pet-log/internal/validate"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/user", registerUserHandler(svc, log))

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc, log))
		ar.Post("/refresh", refreshHandler(svc, log))
	})
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// userResponse es la proyección pública de un usuario. Nunca incluye el hash.
type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AuthToken string `json:"authToken"`
}

// registerUserHandler godoc
// @Summary Registrar usuario
// @Description Crea un usuario nuevo. firstName, lastName, username y password son obligatorios. Username debe ser único.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de registro"
// @Success 201 {object} userResponse
// @Failure 409 {object} map[string]string "username ya tomado"
// @Failure 422 {object} map[string]any "violaciones de esquema"
// @Router /user [post]
func registerUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Username:  req.Username,
			Password:  req.Password,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// loginHandler godoc
// @Summary Login
// @Description Verifica username+password y devuelve un token bearer.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string "credenciales inválidas"
// @Router /auth/login [post]
func loginHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
	}
}

// refreshHandler re-emite un token para el principal autenticado.
func refreshHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		token, err := svc.Refresh(r.Context(), claims)
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}

func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	var viols validate.Violations
	switch {
	case errors.As(err, &viols):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": viols})
	case errors.Is(err, ErrBadCredentials):
		writeMessage(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, ErrConflict):
		writeMessage(w, http.StatusConflict, "username already taken")
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "user not found")
	default:
		log.Error("user operation failed", map[string]any{"error": err.Error()})
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
