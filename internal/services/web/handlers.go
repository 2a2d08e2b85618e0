package web

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/louisbranch/what2pick/internal/platform/errors"
	"github.com/louisbranch/what2pick/internal/platform/errors/i18n"
	"github.com/louisbranch/what2pick/internal/services/picker"
	"github.com/louisbranch/what2pick/internal/services/user"
	"github.com/louisbranch/what2pick/internal/services/web/pages"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if isInAppBrowser(r) {
		_ = pages.OpenInBrowser().Render(r.Context(), w)
		return
	}
	u, err := s.currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.persistLogin(w, u)
	_ = pages.Index(u.Name).Render(r.Context(), w)
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	u, err := s.currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	u, err = s.users.ChangeName(r.Context(), u.UID, u.Secret, body.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.persistLogin(w, u)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	game, err := s.games.CreateGame(r.Context(), u.UID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.persistLogin(w, u)
	http.Redirect(w, r, "/p/"+game.ID, http.StatusFound)
}

func (s *Server) handleGameDetail(w http.ResponseWriter, r *http.Request) {
	if isInAppBrowser(r) {
		_ = pages.OpenInBrowser().Render(r.Context(), w)
		return
	}
	u, err := s.currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	gid := chi.URLParam(r, "gid")
	game, _, err := s.games.JoinGame(r.Context(), gid, u.UID)
	if err != nil {
		// Decided games stay viewable for non-members; everything else
		// is a real failure.
		if !stderrors.Is(err, errors.New(errors.CodeGameAlreadyDecided, "")) {
			s.fail(w, r, err)
			return
		}
		game, err = s.games.GetGameByID(r.Context(), gid)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if game.ID != gid {
		s.persistLogin(w, u)
		http.Redirect(w, r, "/p/"+game.ID, http.StatusFound)
		return
	}

	s.persistLogin(w, u)
	_ = pages.Game(s.gameView(r, u, game)).Render(r.Context(), w)
}

// gameView computes the action gates the page needs. Gates are advisory
// for rendering only; the game service re-validates every action.
func (s *Server) gameView(r *http.Request, u user.User, game *picker.Game) pages.GameView {
	amCurrent := game.NextPlayer == u.UID && !game.Decided
	amAdmin := game.Admin == u.UID && !game.Decided

	view := pages.GameView{
		GameID:           game.ID,
		Username:         u.Name,
		CurrentPlayer:    s.displayName(r, game.NextPlayer),
		Options:          game.Options,
		CanAdd:           amCurrent,
		CanRemove:        (amCurrent && !game.InMustAdd(u.UID)) || amAdmin,
		CanSelect:        amCurrent && len(game.MustAdd) == 0 && len(game.Options) == 1,
		AmAdmin:          amAdmin,
		Decided:          game.Decided,
		KickOnLastRemove: game.KickOnLastRemove,
	}
	for _, uid := range game.Players {
		view.Players = append(view.Players, pages.PlayerView{
			UID:    uid,
			Name:   s.displayName(r, uid),
			OnTurn: uid == game.NextPlayer,
		})
	}
	for _, uid := range game.Watchers {
		view.Players = append(view.Players, pages.PlayerView{
			UID:      uid,
			Name:     s.displayName(r, uid),
			Watching: true,
		})
	}
	return view
}

func (s *Server) displayName(r *http.Request, uid string) string {
	name, err := s.users.DisplayName(r.Context(), uid)
	if err != nil {
		return "someone"
	}
	return name
}

func (s *Server) handleAddOption(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Option string `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.mutateGame(w, r, func(gid, uid string) error {
		_, err := s.games.AddOption(r.Context(), gid, uid, body.Option)
		return err
	})
}

func (s *Server) handleRemoveOption(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Option int `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.mutateGame(w, r, func(gid, uid string) error {
		_, err := s.games.RemoveOption(r.Context(), gid, uid, body.Option)
		return err
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.mutateGame(w, r, func(gid, uid string) error {
		_, err := s.games.Select(r.Context(), gid, uid)
		return err
	})
}

func (s *Server) handleSkipNext(w http.ResponseWriter, r *http.Request) {
	s.mutateGame(w, r, func(gid, uid string) error {
		_, err := s.games.SkipNext(r.Context(), gid, uid)
		return err
	})
}

func (s *Server) handleSetWatcher(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.mutateGame(w, r, func(gid, uid string) error {
		_, err := s.games.SetPlayerToWatcher(r.Context(), gid, uid, body.Target)
		return err
	})
}

func (s *Server) handleKickMode(w http.ResponseWriter, r *http.Request) {
	s.mutateGame(w, r, func(gid, uid string) error {
		_, err := s.games.ToggleKickOnLastRemove(r.Context(), gid, uid)
		return err
	})
}

// mutateGame runs one game action for the cookie-authenticated caller
// and answers the fetch-based frontend with OK or a mapped error.
func (s *Server) mutateGame(w http.ResponseWriter, r *http.Request, action func(gid, uid string) error) {
	u, err := s.currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	gid := chi.URLParam(r, "gid")
	if err := action(gid, u.UID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.persistLogin(w, u)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	if _, err := s.games.GetGameByID(r.Context(), gid); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.games.AwaitChange(r.Context(), gid); err != nil {
		// Client went away; nothing useful to write.
		return
	}
	_, _ = w.Write([]byte("reload"))
}

// fail maps domain errors to their HTTP status and hides everything
// else behind a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var derr *errors.Error
	if stderrors.As(err, &derr) {
		status := derr.Code.HTTPStatus()
		if status >= http.StatusInternalServerError {
			s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		}
		message := i18n.GetCatalog(r.Header.Get("Accept-Language")).Format(string(derr.Code), derr.Metadata)
		http.Error(w, message, status)
		return
	}
	s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
