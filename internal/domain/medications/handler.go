package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-log/internal/domain/dogs"
	"pet-log/internal/middleware"
	"pet-log/internal/platform/logger"
	"pet-log/internal/validate"
)

// RegisterRoutes monta las rutas de medicación. chi exige un solo nombre de
// wildcard por posición, así que {id} es dogID en POST y {id}/all, y
// medicationID en el resto.
func RegisterRoutes(r chi.Router, svc *Service, dogsSvc *dogs.Service, log logger.Logger) {
	r.Route("/medication", func(mr chi.Router) {
		mr.Post("/{id}", createMedicationHandler(svc, dogsSvc, log))
		mr.Get("/{id}/all", listMedicationsHandler(svc, log))

		// Lectura pública por id: no requiere auth.
		mr.Get("/{id}", getMedicationHandler(svc, log))

		mr.Put("/{id}", updateMedicationHandler(svc, dogsSvc, log))
		mr.Delete("/{id}", deleteMedicationHandler(svc, dogsSvc, log))
	})
}

type createMedicationRequest struct {
	Name                  string `json:"name"`
	MedicationDays        string `json:"medicationDays"`
	MedicationTime        string `json:"medicationTime"`
	MedicationDescription string `json:"medicationDescription"`
}

type medicationResponse struct {
	ID                    string    `json:"id"`
	Dog                   string    `json:"dog"`
	Name                  string    `json:"name"`
	MedicationDays        string    `json:"medicationDays"`
	MedicationTime        string    `json:"medicationTime"`
	MedicationDescription string    `json:"medicationDescription"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type updateMedicationRequest struct {
	// Punteros para update parcial: nil = no tocar. El campo dog no está en
	// la allow-list y se ignora si viene en el body.
	Name                  *string `json:"name"`
	MedicationDays        *string `json:"medicationDays"`
	MedicationTime        *string `json:"medicationTime"`
	MedicationDescription *string `json:"medicationDescription"`
}

// createMedicationHandler godoc
// @Summary Registrar medicación
// @Description Crea un registro de medicación para el perro de la URL. Solo el dueño del perro puede hacerlo; la referencia al perro sale del path, nunca del body.
// @Tags medications
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param id path string true "ID del perro"
// @Param payload body createMedicationRequest true "Datos de la medicación; name obligatorio"
// @Success 201 {object} medicationResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "no es el dueño del perro"
// @Failure 404 {object} map[string]string "perro inexistente"
// @Failure 422 {object} map[string]any "violaciones de esquema"
// @Router /medication/{id} [post]
func createMedicationHandler(svc *Service, dogsSvc *dogs.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		dogID := chi.URLParam(r, "id")
		if !requireDogOwner(w, r, dogsSvc, log, dogID, claims.UserID) {
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		m, err := svc.Create(r.Context(), dogID, CreateInput{
			Name:                  req.Name,
			MedicationDays:        req.MedicationDays,
			MedicationTime:        req.MedicationTime,
			MedicationDescription: req.MedicationDescription,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler devuelve la medicación del perro indicado.
// Requiere autenticación pero no ownership: es un read, y el endurecimiento
// de ownership aplica solo a mutaciones (ver DESIGN.md).
func listMedicationsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByDog(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, log, err)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Actualizar medicación
// @Description Update parcial sobre la allow-list (name, medicationDays, medicationTime, medicationDescription). Solo el dueño del perro referenciado puede mutar.
// @Tags medications
// @Accept json
// @Param Authorization header string false "Bearer token"
// @Param id path string true "ID de la medicación"
// @Param payload body updateMedicationRequest true "Campos a tocar; los ausentes quedan igual"
// @Success 204 {string} string "sin contenido"
// @Failure 403 {object} map[string]string "no es el dueño"
// @Failure 404 {object} map[string]string "medicación inexistente"
// @Router /medication/{id} [put]
func updateMedicationHandler(svc *Service, dogsSvc *dogs.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		current, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, log, err)
			return
		}
		if !requireDogOwner(w, r, dogsSvc, log, current.DogID, claims.UserID) {
			return
		}

		var req updateMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		_, err = svc.Update(r.Context(), current.ID, UpdateInput{
			Name:                  req.Name,
			MedicationDays:        req.MedicationDays,
			MedicationTime:        req.MedicationTime,
			MedicationDescription: req.MedicationDescription,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteMedicationHandler(svc *Service, dogsSvc *dogs.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		current, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, log, err)
			return
		}
		if !requireDogOwner(w, r, dogsSvc, log, current.DogID, claims.UserID) {
			return
		}

		if err := svc.Delete(r.Context(), current.ID); err != nil {
			respondError(w, log, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// requireDogOwner resuelve el dueño del perro y corta con 403/404 si el
// principal no es el dueño o el perro no existe. Devuelve true si puede seguir.
func requireDogOwner(w http.ResponseWriter, r *http.Request, dogsSvc *dogs.Service, log logger.Logger, dogID, userID string) bool {
	owner, err := dogsSvc.OwnerOf(r.Context(), dogID)
	if err != nil {
		if errors.Is(err, dogs.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "dog not found")
		} else {
			log.Error("dog owner lookup failed", map[string]any{"dog_id": dogID, "error": err.Error()})
			writeMessage(w, http.StatusInternalServerError, "internal error")
		}
		return false
	}
	if owner != userID {
		writeMessage(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:                    m.ID,
		Dog:                   m.DogID,
		Name:                  m.Name,
		MedicationDays:        m.MedicationDays,
		MedicationTime:        m.MedicationTime,
		MedicationDescription: m.MedicationDescription,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	var viols validate.Violations
	switch {
	case errors.As(err, &viols):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": viols})
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "medication not found")
	case errors.Is(err, ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("medication operation failed", map[string]any{"error": err.Error()})
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
