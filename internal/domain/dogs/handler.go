package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-log/internal/domain/users"
	"pet-log/internal/middleware"
	"pet-log/internal/platform/logger"
	"pet-log/internal/validate"
)

func RegisterRoutes(r chi.Router, svc *Service, usersSvc *users.Service, purger MedicationPurger, log logger.Logger) {
	r.Route("/dog", func(dr chi.Router) {
		dr.Post("/", createDogHandler(svc, usersSvc, log))
		dr.Get("/", listOwnDogsHandler(svc, usersSvc, log))

		// Listado y lectura por id son públicos: no requieren auth.
		dr.Get("/all", listAllDogsHandler(svc, usersSvc, log))
		dr.Get("/{dogID}", getDogHandler(svc, usersSvc, log))

		dr.Put("/{dogID}", updateDogHandler(svc, log))
		dr.Delete("/{dogID}", deleteDogHandler(svc, purger, log))
	})
}

type vetInfoPayload struct {
	VetName         string `json:"vetName"`
	VetLocationName string `json:"vetLocationName"`
	Address         string `json:"address"`
}

type createDogRequest struct {
	Name    string          `json:"name"`
	Breed   string          `json:"breed"`
	Weight  float64         `json:"weight"`
	Gender  string          `json:"gender"`
	Age     int             `json:"age"`
	VetInfo *vetInfoPayload `json:"vetInfo"`
}

// ownerResponse es la proyección reducida del dueño.
// Nunca expone el hash de contraseña.
type ownerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
}

type dogResponse struct {
	ID        string          `json:"id"`
	User      ownerResponse   `json:"user"`
	Name      string          `json:"name"`
	Breed     string          `json:"breed"`
	Weight    float64         `json:"weight"`
	Gender    string          `json:"gender"`
	Age       int             `json:"age"`
	VetInfo   *vetInfoPayload `json:"vetInfo"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type updateDogRequest struct {
	// Punteros para update parcial: nil = no tocar. Esta es la allow-list;
	// cualquier otro campo del body (p.ej. "user") se ignora en silencio.
	Name    *string               `json:"name"`
	Breed   *string               `json:"breed"`
	Weight  *float64              `json:"weight"`
	Gender  *string               `json:"gender"`
	Age     *int                  `json:"age"`
	VetInfo *vetInfoUpdateRequest `json:"vetInfo"`
}

type vetInfoUpdateRequest struct {
	VetName         *string `json:"vetName"`
	VetLocationName *string `json:"vetLocationName"`
	Address         *string `json:"address"`
}

// createDogHandler godoc
// @Summary Registrar perro
// @Description Crea un perro para el usuario autenticado. El owner sale siempre del token; un campo user en el body se ignora.
// @Tags dogs
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body createDogRequest true "Datos del perro; name y gender obligatorios"
// @Success 201 {object} dogResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 422 {object} map[string]any "violaciones de esquema"
// @Router /dog [post]
func createDogHandler(svc *Service, usersSvc *users.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:    req.Name,
			Breed:   req.Breed,
			Weight:  req.Weight,
			Gender:  req.Gender,
			Age:     req.Age,
			VetInfo: fromVetInfoPayload(req.VetInfo),
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDogResponse(d, resolveOwner(r, usersSvc, nil, d.OwnerUserID)))
	}
}

// listOwnDogsHandler devuelve solo los perros del principal, con el dueño
// resuelto a la proyección reducida.
func listOwnDogsHandler(svc *Service, usersSvc *users.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toDogResponses(r, usersSvc, items))
	}
}

// listAllDogsHandler godoc
// @Summary Listar todos los perros
// @Description Devuelve todos los perros del sistema. No requiere autenticación.
// @Tags dogs
// @Produce json
// @Success 200 {array} dogResponse
// @Router /dog/all [get]
func listAllDogsHandler(svc *Service, usersSvc *users.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toDogResponses(r, usersSvc, items))
	}
}

func getDogHandler(svc *Service, usersSvc *users.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			respondError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toDogResponse(d, resolveOwner(r, usersSvc, nil, d.OwnerUserID)))
	}
}

// updateDogHandler godoc
// @Summary Actualizar perro
// @Description Update parcial sobre la allow-list (name, breed, weight, gender, age, vetInfo.*). Solo el dueño puede actualizar. El owner no es modificable.
// @Tags dogs
// @Accept json
// @Param Authorization header string false "Bearer token"
// @Param dogID path string true "ID del perro"
// @Param payload body updateDogRequest true "Campos a tocar; los ausentes quedan igual"
// @Success 204 {string} string "sin contenido"
// @Failure 403 {object} map[string]string "no es el dueño"
// @Failure 404 {object} map[string]string "perro inexistente"
// @Router /dog/{dogID} [put]
func updateDogHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		_, err := svc.Update(r.Context(), chi.URLParam(r, "dogID"), claims.UserID, UpdateInput{
			Name:    req.Name,
			Breed:   req.Breed,
			Weight:  req.Weight,
			Gender:  req.Gender,
			Age:     req.Age,
			VetInfo: fromVetInfoUpdate(req.VetInfo),
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// deleteDogHandler borra el perro y, en cascada, sus medicaciones.
// No hay transacción entre ambos repos; ver DESIGN.md.
func deleteDogHandler(svc *Service, purger MedicationPurger, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		dogID := chi.URLParam(r, "dogID")
		if err := svc.Delete(r.Context(), dogID, claims.UserID); err != nil {
			respondError(w, log, err)
			return
		}

		if purger != nil {
			if err := purger.DeleteByDog(r.Context(), dogID); err != nil {
				// El perro ya no existe; dejar medicaciones huérfanas es peor
				// que responder 500, así que solo lo registramos.
				log.Error("cascade delete of medications failed", map[string]any{
					"dog_id": dogID,
					"error":  err.Error(),
				})
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// resolveOwner arma la proyección del dueño. memo evita lookups repetidos al
// serializar listados. Si el usuario no está en el store (modo dev con
// X-Debug-User-ID), degrada a solo el id.
func resolveOwner(r *http.Request, usersSvc *users.Service, memo map[string]ownerResponse, ownerUserID string) ownerResponse {
	if memo != nil {
		if cached, ok := memo[ownerUserID]; ok {
			return cached
		}
	}

	out := ownerResponse{ID: ownerUserID}
	if usersSvc != nil {
		if u, err := usersSvc.GetByID(r.Context(), ownerUserID); err == nil {
			out.FirstName = u.FirstName
			out.LastName = u.LastName
			out.Username = u.Username
		}
	}

	if memo != nil {
		memo[ownerUserID] = out
	}
	return out
}

func toDogResponses(r *http.Request, usersSvc *users.Service, items []Dog) []dogResponse {
	memo := map[string]ownerResponse{}
	out := make([]dogResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDogResponse(d, resolveOwner(r, usersSvc, memo, d.OwnerUserID)))
	}
	return out
}

func toDogResponse(d Dog, owner ownerResponse) dogResponse {
	return dogResponse{
		ID:        d.ID,
		User:      owner,
		Name:      d.Name,
		Breed:     d.Breed,
		Weight:    d.Weight,
		Gender:    d.Gender,
		Age:       d.Age,
		VetInfo:   toVetInfoPayload(d.VetInfo),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromVetInfoPayload(p *vetInfoPayload) *VetInfo {
	if p == nil {
		return nil
	}
	return &VetInfo{
		VetName:         p.VetName,
		VetLocationName: p.VetLocationName,
		Address:         p.Address,
	}
}

func toVetInfoPayload(vi *VetInfo) *vetInfoPayload {
	if vi == nil {
		return nil
	}
	return &vetInfoPayload{
		VetName:         vi.VetName,
		VetLocationName: vi.VetLocationName,
		Address:         vi.Address,
	}
}

func fromVetInfoUpdate(p *vetInfoUpdateRequest) *VetInfoUpdate {
	if p == nil {
		return nil
	}
	return &VetInfoUpdate{
		VetName:         p.VetName,
		VetLocationName: p.VetLocationName,
		Address:         p.Address,
	}
}

func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	var viols validate.Violations
	switch {
	case errors.As(err, &viols):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": viols})
	case errors.Is(err, ErrForbidden):
		writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "dog not found")
	case errors.Is(err, ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("dog operation failed", map[string]any{"error": err.Error()})
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (users/dogs/medications) para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
