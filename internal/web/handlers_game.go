package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"designrage/internal/game"
	"designrage/internal/profile"
)

const (
	msgLoadFailed = "Couldn't fetch the client queue. Try again in a moment."
	msgSaveFailed = "Couldn't save your game. Try again."
)

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := s.play(ctx, w, r)
	defer p.mu.Unlock()

	msg := s.ensureScenarios(ctx, p)
	w.Header().Set("Cache-Control", "no-store")
	if err := s.Tmpl.ExecuteTemplate(w, "layout.html", map[string]any{
		"Screen": s.screenView(p, msg),
	}); err != nil {
		log.Printf("render layout: %v", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

// GET /play renders the current screen fragment.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := s.play(ctx, w, r)
	defer p.mu.Unlock()
	s.renderScreen(w, p, s.ensureScenarios(ctx, p))
}

// POST /start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	p, _ := s.play(r.Context(), w, r)
	defer p.mu.Unlock()
	p.M.StartNewGame()
	p.clearFinished()
	s.autosave(r.Context(), p)
	s.renderScreen(w, p, "")
}

// POST /tutorial/skip
func (s *Server) handleSkipTutorial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := s.play(ctx, w, r)
	defer p.mu.Unlock()
	if err := p.M.SkipTutorial(); err != nil {
		s.renderScreen(w, p, userMessage(err))
		return
	}
	p.clearFinished()
	msg := s.ensureScenarios(ctx, p)
	s.autosave(ctx, p)
	s.renderScreen(w, p, msg)
}

// POST /tutorial/complete
func (s *Server) handleCompleteTutorial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := s.play(ctx, w, r)
	defer p.mu.Unlock()
	if err := p.M.CompleteTutorial(); err != nil {
		s.renderScreen(w, p, userMessage(err))
		return
	}
	msg := s.ensureScenarios(ctx, p)
	s.autosave(ctx, p)
	s.renderScreen(w, p, msg)
}

// POST /play
func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, uid := s.play(ctx, w, r)
	defer p.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	idx, err := strconv.Atoi(r.FormValue("response"))
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	step, err := p.M.SubmitResponse(idx)
	if err != nil {
		s.renderScreen(w, p, userMessage(err))
		return
	}
	if step.Finished {
		s.recordFinished(ctx, p, uid)
	}
	s.autosave(ctx, p)
	if s.FeedbackDelay <= 0 {
		s.renderScreen(w, p, "")
		return
	}
	st := p.M.State()
	vm := FeedbackView{
		Step:       step,
		Stress:     st.Stress,
		Reputation: st.Reputation,
		DelayMS:    s.FeedbackDelay.Milliseconds(),
	}
	if err := s.Tmpl.ExecuteTemplate(w, "feedback.html", vm); err != nil {
		log.Printf("render feedback: %v", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

// POST /chaos/close
func (s *Server) handleCloseChaos(w http.ResponseWriter, r *http.Request) {
	p, _ := s.play(r.Context(), w, r)
	defer p.mu.Unlock()
	if _, err := p.M.CloseChaosEvent(); err != nil {
		s.renderScreen(w, p, userMessage(err))
		return
	}
	s.autosave(r.Context(), p)
	s.renderScreen(w, p, "")
}

// POST /end
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, uid := s.play(ctx, w, r)
	defer p.mu.Unlock()
	if _, err := p.M.EndGame(); err != nil {
		s.renderScreen(w, p, userMessage(err))
		return
	}
	s.recordFinished(ctx, p, uid)
	s.autosave(ctx, p)
	s.renderScreen(w, p, "")
}

// POST /reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	p, uid := s.play(r.Context(), w, r)
	defer p.mu.Unlock()
	msg := ""
	if err := p.M.ResetGame(r.Context()); err != nil {
		log.Printf("session %s: %v", uid, err)
		msg = "Your saved game couldn't be removed, but the board is cleared."
	}
	p.clearFinished()
	s.renderScreen(w, p, msg)
}

// POST /save
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	p, uid := s.play(r.Context(), w, r)
	defer p.mu.Unlock()
	msg := "Game saved."
	if err := p.M.SaveGame(r.Context()); err != nil {
		log.Printf("session %s: %v", uid, err)
		msg = msgSaveFailed
	}
	if err := s.Tmpl.ExecuteTemplate(w, "flash.html", msg); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

func (s *Server) renderScreen(w http.ResponseWriter, p *Play, msg string) {
	if err := s.Tmpl.ExecuteTemplate(w, "screen.html", s.screenView(p, msg)); err != nil {
		log.Printf("render screen: %v", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

// autosave writes the session to the state store after a committed
// transition. Failures are logged; the live game carries on.
func (s *Server) autosave(ctx context.Context, p *Play) {
	if s.States == nil {
		return
	}
	if err := p.M.SaveGame(ctx); err != nil {
		log.Printf("session %s: autosave: %v", p.M.Key, err)
	}
}

// ensureScenarios fills an empty pool while playing and returns a message
// for the player when that fails.
func (s *Server) ensureScenarios(ctx context.Context, p *Play) string {
	if p.M.State().Phase != game.PhasePlaying {
		return ""
	}
	if err := p.M.LoadScenarios(ctx); err != nil {
		log.Printf("session %s: %v", p.M.Key, err)
		return msgLoadFailed
	}
	return ""
}

// recordFinished adds the finished game to the player's profile once.
func (s *Server) recordFinished(ctx context.Context, p *Play, uid string) {
	if p.recorded || s.Profiles == nil {
		return
	}
	res, ok := p.M.Result()
	if !ok {
		return
	}
	p.recorded = true
	_, unlocked, err := profile.Record(ctx, s.Profiles, uid, guestName, res, s.now())
	if err != nil {
		log.Printf("session %s: %v", uid, err)
		return
	}
	p.Unlocked = unlocked
}

func (p *Play) clearFinished() {
	p.recorded = false
	p.Unlocked = nil
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidPhase):
		return "That doesn't work right now."
	case errors.Is(err, game.ErrChaosPending):
		return "Deal with the chaos first!"
	case errors.Is(err, game.ErrNoChaos):
		return "Nothing chaotic is happening. Yet."
	case errors.Is(err, game.ErrBadResponse):
		return "That response doesn't exist."
	case errors.Is(err, game.ErrNoScenario):
		return msgLoadFailed
	}
	return "Something went wrong."
}
