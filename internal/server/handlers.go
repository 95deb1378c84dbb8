package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/pefman/arena-duel/internal/game"
	"github.com/pefman/arena-duel/internal/models"
	"github.com/pefman/arena-duel/internal/session"
	"github.com/pefman/arena-duel/internal/stats"
)

// Action names shared by the REST routes and the websocket channel.
const (
	ActionHit   = "hit"
	ActionSkill = "use-skill"
	ActionPass  = "pass-turn"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	errNotReady      = errors.New("hero and enemy must both be chosen first")
)

// ActionResponse is the body of every fight endpoint.
type ActionResponse struct {
	Result           string       `json:"result,omitempty"`
	BattleResult     string       `json:"battle_result"`
	SkillUnavailable bool         `json:"skill_unavailable,omitempty"`
	Events           []game.Event `json:"events,omitempty"`
	State            *game.State  `json:"state,omitempty"`
	Error            string       `json:"error,omitempty"`
}

type StatsResponse struct {
	Hero         string        `json:"hero,omitempty"`
	Record       *stats.Record `json:"record,omitempty"`
	BestHitToday *stats.Hit    `json:"best_hit_today,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	if _, err := s.sessionID(w, r); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("session cookie not saved")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version, "build_time": s.buildTime})
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Classes())
}

func (s *Server) handleWeapons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.equipment.Weapons())
}

func (s *Server) handleArmors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.equipment.Armors())
}

// withMatch resolves the caller's session and runs fn under its lock.
func (s *Server) withMatch(w http.ResponseWriter, r *http.Request, fn func(m *session.Match) error) error {
	id, err := s.sessionID(w, r)
	if err != nil {
		return fmt.Errorf("bind session: %w", err)
	}
	return s.sessions.With(id, fn)
}

// POST /api/hero, POST /api/enemy
func (s *Server) handleLoadout(w http.ResponseWriter, r *http.Request) {
	side := mux.Vars(r)["side"]
	var l models.Loadout
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	policy := game.Human
	if side == "enemy" {
		policy = game.Auto
	}
	if _, err := game.NewFromLoadout(s.equipment, l, policy); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, game.ErrInvalidLoadout) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	err := s.withMatch(w, r, func(m *session.Match) error {
		if side == "enemy" {
			m.Enemy = &l
		} else {
			m.Hero = &l
		}
		return nil
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Debug().Str("side", side).Str("name", l.Name).Str("class", l.Class).Msg("loadout chosen")
	writeJSON(w, http.StatusOK, l)
}

// POST /api/fight
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var resp ActionResponse
	err := s.withMatch(w, r, func(m *session.Match) error {
		if m.Hero == nil || m.Enemy == nil {
			return errNotReady
		}
		hero, err := game.NewFromLoadout(s.equipment, *m.Hero, game.Human)
		if err != nil {
			return err
		}
		enemy, err := game.NewFromLoadout(s.equipment, *m.Enemy, game.Auto)
		if err != nil {
			return err
		}
		if err := m.Arena.StartGame(hero, enemy); err != nil {
			return err
		}
		st := m.Arena.Snapshot()
		resp = ActionResponse{
			Result:       m.Arena.Narrator().Prompt(game.PromptFightStarted),
			BattleResult: st.BattleResult,
			State:        &st,
		}
		return nil
	})
	switch {
	case errors.Is(err, errNotReady):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

// POST /api/fight/{hit|use-skill|pass-turn}
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var (
		resp   ActionResponse
		status int
	)
	err := s.withMatch(w, r, func(m *session.Match) error {
		resp, status = s.act(m, mux.Vars(r)["action"])
		return nil
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, status, resp)
}

// Act runs one player action against a. Outside a running match the response
// carries the "game over" prompt, the error is game.ErrNotStarted or
// game.ErrFinished, and nothing changes.
func Act(a *game.Arena, action string) (ActionResponse, game.Report, error) {
	var (
		rep game.Report
		err error
	)
	switch action {
	case ActionHit:
		rep, err = a.PlayerAttack()
	case ActionSkill:
		rep, err = a.PlayerUseSkill()
	case ActionPass:
		rep, err = a.PassTurn()
	default:
		err = fmt.Errorf("%w %q", ErrUnknownAction, action)
		return ActionResponse{Error: err.Error()}, rep, err
	}
	if err != nil {
		return ActionResponse{BattleResult: a.Narrator().Prompt(game.PromptGameOver), Error: err.Error()}, rep, err
	}
	st := a.Snapshot()
	return ActionResponse{
		Result:           rep.Text,
		BattleResult:     rep.BattleResult,
		SkillUnavailable: rep.SkillUnavailable,
		Events:           rep.Events,
		State:            &st,
	}, rep, nil
}

func (s *Server) act(m *session.Match, action string) (ActionResponse, int) {
	resp, rep, err := Act(m.Arena, action)
	switch {
	case errors.Is(err, ErrUnknownAction):
		return resp, http.StatusBadRequest
	case err != nil:
		return resp, http.StatusConflict
	}
	s.record(m.Arena, rep)
	return resp, http.StatusOK
}

// record feeds landed blows and final results into the stats tracker.
func (s *Server) record(a *game.Arena, rep game.Report) {
	for _, ev := range rep.Events {
		if ev.Kind != game.EventHit && ev.Kind != game.EventSkill {
			continue
		}
		h := stats.Hit{Actor: ev.Actor, Weapon: ev.Weapon, Target: ev.Target, Damage: ev.Damage}
		if ev.Kind == game.EventSkill {
			h.Weapon = ev.Skill
		}
		for _, c := range []*game.Combatant{a.Player(), a.Enemy()} {
			if c != nil && c.Name == ev.Actor {
				h.Class = c.Class.Name
				break
			}
		}
		s.stats.SaveHit(h)
	}
	if rep.Status != game.StatusFinished || a.Player() == nil {
		return
	}
	switch rep.Outcome {
	case game.OutcomePlayerWins:
		s.stats.SaveResult(a.Player().Name, stats.Win)
	case game.OutcomeEnemyWins:
		s.stats.SaveResult(a.Player().Name, stats.Loss)
	case game.OutcomeDraw:
		s.stats.SaveResult(a.Player().Name, stats.Draw)
	}
}

// POST /api/fight/end
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var st game.State
	err := s.withMatch(w, r, func(m *session.Match) error {
		m.Arena.End()
		st = m.Arena.Snapshot()
		return nil
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{BattleResult: st.BattleResult, State: &st})
}

// GET /api/fight
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var st game.State
	err := s.withMatch(w, r, func(m *session.Match) error {
		st = m.Arena.Snapshot()
		return nil
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{BattleResult: st.BattleResult, State: &st})
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var resp StatsResponse
	err := s.withMatch(w, r, func(m *session.Match) error {
		if m.Hero != nil {
			rec := s.stats.GetRecord(m.Hero.Name)
			resp.Hero, resp.Record = m.Hero.Name, &rec
		}
		return nil
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if best, ok := s.stats.BestHitToday(); ok {
		resp.BestHitToday = &best
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
