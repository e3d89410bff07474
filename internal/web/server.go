package web

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"designrage/internal/game"
	"designrage/internal/profile"
	"designrage/internal/session"
)

// Play is one browser's live session. mu serializes every action on M.
type Play struct {
	mu       sync.Mutex
	M        *game.Machine
	Unlocked []profile.Achievement // achievements from the last finished game
	recorded bool
}

type Server struct {
	Sessions  session.Store[*Play]
	States    game.StateStore
	Profiles  profile.Store
	NewSource func() game.ScenarioSource
	Tmpl      *template.Template

	MaxRounds     int
	FeedbackDelay time.Duration
	Now           func() time.Time

	createMu sync.Mutex
}

const (
	cookieName  = "designrage_uid"
	guestName   = "Guest Designer"
	maxBodySize = 1 << 16
)

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /tutorial/skip", s.handleSkipTutorial)
	mux.HandleFunc("POST /tutorial/complete", s.handleCompleteTutorial)

	mux.HandleFunc("GET /play", s.handleScreen)
	mux.HandleFunc("POST /play", s.handleRespond)
	mux.HandleFunc("POST /chaos/close", s.handleCloseChaos)
	mux.HandleFunc("POST /end", s.handleEnd)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /save", s.handleSave)

	mux.HandleFunc("GET /results/share", s.handleShare)
	mux.HandleFunc("GET /results/export.pdf", s.handleExportPDF)
	mux.HandleFunc("GET /results/export.json", s.handleExportJSON)
	mux.HandleFunc("GET /profile", s.handleProfile)
	return http.MaxBytesHandler(mux, maxBodySize)
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// play returns the caller's session, creating it (and resuming any saved
// game) on first sight. The returned Play is locked; callers must unlock it.
func (s *Server) play(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Play, string) {
	id := s.userID(r)
	if id == "" {
		id = s.Sessions.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   365 * 24 * 3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s.createMu.Lock()
	p, ok, err := s.Sessions.Get(ctx, id)
	if err != nil {
		log.Printf("session %s: %v", id, err)
	}
	if !ok || p == nil {
		p = s.newPlay(ctx, id)
		if err := s.Sessions.Put(ctx, id, p); err != nil {
			log.Printf("session %s: store: %v", id, err)
		} else {
			log.Printf("session %s: created (%d live)", id, s.Sessions.Len())
		}
	}
	s.createMu.Unlock()

	p.mu.Lock()
	return p, id
}

func (s *Server) newPlay(ctx context.Context, id string) *Play {
	var src game.ScenarioSource
	if s.NewSource != nil {
		src = s.NewSource()
	}
	m := game.NewMachine(id, src, s.States)
	m.MaxRounds = s.MaxRounds
	m.Now = s.now
	if s.States != nil {
		resumed, err := m.Resume(ctx)
		if err != nil {
			log.Printf("session %s: resume: %v", id, err)
		} else if resumed {
			log.Printf("session %s: resumed saved game", id)
		}
	}
	p := &Play{M: m}
	if m.State().Phase == game.PhaseResults {
		// a resumed finished game was already counted
		p.recorded = true
	}
	return p
}

func (s *Server) userID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
