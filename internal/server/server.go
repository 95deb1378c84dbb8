// Package server exposes the arena over HTTP and WebSocket. Each browser
// session owns one match, looked up through a signed session cookie.
package server

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pefman/arena-duel/internal/game"
	"github.com/pefman/arena-duel/internal/logging"
	"github.com/pefman/arena-duel/internal/models"
	"github.com/pefman/arena-duel/internal/session"
	"github.com/pefman/arena-duel/internal/stats"
)

const (
	cookieName = "arena-session"
	sidKey     = "sid"
)

//go:embed web/index.html
var webFS embed.FS

// Equipment is what the server needs from the catalog.
type Equipment interface {
	game.Equipment
	Weapons() []models.Weapon
	Armors() []models.Armor
}

type Options struct {
	Equipment  Equipment
	Sessions   *session.Store
	Stats      *stats.Tracker
	SessionKey []byte
	// CookieMaxAge is the session cookie lifetime in seconds.
	CookieMaxAge int
	Version      string
	BuildTime    string
	Logger       zerolog.Logger
}

type Server struct {
	equipment Equipment
	sessions  *session.Store
	stats     *stats.Tracker
	cookies   *sessions.CookieStore
	router    *mux.Router
	upgrader  websocket.Upgrader
	log       zerolog.Logger

	version   string
	buildTime string
}

func New(o Options) *Server {
	s := &Server{
		equipment: o.Equipment,
		sessions:  o.Sessions,
		stats:     o.Stats,
		cookies:   sessions.NewCookieStore(o.SessionKey),
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:       o.Logger,
		version:   o.Version,
		buildTime: o.BuildTime,
	}
	if s.stats == nil {
		s.stats = stats.NewTracker()
	}
	s.cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   o.CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(logging.RequestLogger(s.log))

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/classes", s.handleClasses).Methods(http.MethodGet)
	api.HandleFunc("/weapons", s.handleWeapons).Methods(http.MethodGet)
	api.HandleFunc("/armors", s.handleArmors).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/{side:hero|enemy}", s.handleLoadout).Methods(http.MethodPost)
	api.HandleFunc("/fight", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/fight", s.handleStart).Methods(http.MethodPost)
	api.HandleFunc("/fight/end", s.handleEnd).Methods(http.MethodPost)
	api.HandleFunc("/fight/{action:hit|use-skill|pass-turn}", s.handleAction).Methods(http.MethodPost)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", addr).Str("version", s.version).Msg("arena-duel listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sessionID binds the request to a live session, issuing a new cookie when
// the client has none or its session was evicted. It must run before the
// response body is written.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode yields a fresh session; that is fine.
	sess, _ := s.cookies.Get(r, cookieName)
	old, _ := sess.Values[sidKey].(string)
	id := s.sessions.Open(old)
	if id != old {
		sess.Values[sidKey] = id
		if err := sess.Save(r, w); err != nil {
			return "", err
		}
	}
	return id, nil
}
