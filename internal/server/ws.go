package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pefman/arena-duel/internal/models"
	"github.com/pefman/arena-duel/internal/session"
)

// Websocket message types. Clients send hit, skill, pass, state or end and
// get back a state or error message carrying an ActionResponse.
const (
	MsgHit   = "hit"
	MsgSkill = "skill"
	MsgPass  = "pass"
	MsgState = "state"
	MsgEnd   = "end"
	MsgError = "error"
)

var wsActions = map[string]string{
	MsgHit:   ActionHit,
	MsgSkill: ActionSkill,
	MsgPass:  ActionPass,
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	id, err := s.sessionID(w, r)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	// Upgrade writes its own response, so carry a freshly issued cookie over.
	var hdr http.Header
	if c := w.Header().Values("Set-Cookie"); len(c) > 0 {
		hdr = http.Header{"Set-Cookie": c}
	}
	conn, err := s.upgrader.Upgrade(w, r, hdr)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()
	log.Debug().Str("session", id).Msg("ws connected")

	for {
		var msg models.WsMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("ws read ended")
			}
			return
		}
		reply := s.wsReply(id, msg.Type)
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn().Err(err).Msg("ws write failed")
			return
		}
	}
}

func (s *Server) wsReply(id, typ string) models.WsMsg {
	var resp ActionResponse
	status := http.StatusOK
	err := s.sessions.With(id, func(m *session.Match) error {
		if action, ok := wsActions[typ]; ok {
			resp, status = s.act(m, action)
			return nil
		}
		switch typ {
		case MsgState:
		case MsgEnd:
			m.Arena.End()
		default:
			return errors.New("unknown message type " + typ)
		}
		st := m.Arena.Snapshot()
		resp = ActionResponse{BattleResult: st.BattleResult, State: &st}
		return nil
	})
	switch {
	case errors.Is(err, session.ErrNotFound):
		return models.WsMsg{Type: MsgError, Data: ActionResponse{Error: "session expired"}}
	case err != nil:
		return models.WsMsg{Type: MsgError, Data: ActionResponse{Error: err.Error()}}
	case status != http.StatusOK:
		return models.WsMsg{Type: MsgError, Data: resp}
	}
	return models.WsMsg{Type: MsgState, Data: resp}
}
