package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"

	"pet-log/internal/adapters/credentials/bcrypthash"
	mem "pet-log/internal/adapters/storage/memory"
	pg "pet-log/internal/adapters/storage/postgres"
	"pet-log/internal/domain/dogs"
	"pet-log/internal/domain/medications"
	"pet-log/internal/domain/users"
	"pet-log/internal/middleware"
	"pet-log/internal/platform/logger"
	"pet-log/internal/ports/auth"
	"pet-log/internal/ports/credentials"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)
	TokenIssuer  auth.TokenIssuer  // puede ser nil (login/refresh deshabilitados)

	Hasher credentials.PasswordHasher // requerido para registro/login
	Logger logger.Logger              // si es nil, se arma desde env

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	// Fallback JSON uniforme para rutas desconocidas.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method Not Allowed"})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		userRepo users.Repository
		dogRepo  dogs.Repository
		medRepo  medications.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to in-memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		dogRepo = pg.NewDogsRepo(db)
		medRepo = pg.NewMedicationsRepo(db)
	} else {
		userRepo = mem.NewUsersRepo()
		dogRepo = mem.NewDogsRepo()
		medRepo = mem.NewMedicationsRepo()
	}

	hasher := opts.Hasher
	if hasher == nil {
		hasher = bcrypthash.New()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo, hasher, opts.TokenIssuer)
	dogsSvc := dogs.NewService(dogRepo)
	medsSvc := medications.NewService(medRepo)

	// Rutas por módulo, todas bajo /api
	r.Route("/api", func(api chi.Router) {
		users.RegisterRoutes(api, usersSvc, log)
		dogs.RegisterRoutes(api, dogsSvc, usersSvc, medsSvc, log)
		medications.RegisterRoutes(api, medsSvc, dogsSvc, log)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
