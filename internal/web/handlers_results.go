package web

import (
	"fmt"
	"log"
	"net/http"

	"designrage/internal/export"
	"designrage/internal/profile"
	"designrage/internal/share"
)

const recentGames = 5

// GET /results/share
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	p, _ := s.play(r.Context(), w, r)
	defer p.mu.Unlock()
	res, ok := p.M.Result()
	if !ok {
		http.Error(w, "no finished game", http.StatusNotFound)
		return
	}
	vm := ShareView{Text: share.Text(res), Card: share.Card(res)}
	if err := s.Tmpl.ExecuteTemplate(w, "share.html", vm); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

// GET /results/export.pdf
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	p, _ := s.play(r.Context(), w, r)
	defer p.mu.Unlock()
	res, ok := p.M.Result()
	if !ok {
		http.Error(w, "no finished game", http.StatusNotFound)
		return
	}
	pdf, err := export.PDF(res, export.Rounds(p.M.State()))
	if err != nil {
		log.Printf("export pdf: %v", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(res.CompletedAt.Unix(), "pdf"))
	_, _ = w.Write(pdf)
}

// GET /results/export.json
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	p, _ := s.play(r.Context(), w, r)
	defer p.mu.Unlock()
	res, ok := p.M.Result()
	if !ok {
		http.Error(w, "no finished game", http.StatusNotFound)
		return
	}
	b, err := export.JSON(export.NewReport(res, p.M.State(), s.now()))
	if err != nil {
		http.Error(w, "failed to encode report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment(res.CompletedAt.Unix(), "json"))
	_, _ = w.Write(b)
}

// GET /profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, uid := s.play(ctx, w, r)
	p.mu.Unlock()

	vm := ProfileView{Profile: profile.New(guestName, s.now())}
	if s.Profiles != nil {
		prof, ok, err := s.Profiles.LoadProfile(ctx, uid)
		if err != nil {
			log.Printf("session %s: load profile: %v", uid, err)
		} else if ok {
			vm.Profile, vm.Saved = prof, true
		}
	}
	hist := vm.Profile.Stats.GameHistory
	for i := len(hist) - 1; i >= 0 && len(vm.Recent) < recentGames; i-- {
		vm.Recent = append(vm.Recent, hist[i])
	}
	if err := s.Tmpl.ExecuteTemplate(w, "layout.html", map[string]any{"Profile": vm}); err != nil {
		log.Printf("render profile: %v", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

func attachment(stamp int64, ext string) string {
	return fmt.Sprintf(`attachment; filename="design-rage-result-%d.%s"`, stamp, ext)
}
