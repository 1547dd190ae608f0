package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"rights-arcade/internal/app"
	"rights-arcade/internal/domain"
)

type WSHandler struct {
	shell    *app.Shell
	games    *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(shell *app.Shell, games *app.GameService) *WSHandler {
	return &WSHandler{
		shell: shell,
		games: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type matchPayload struct {
	ScenarioID string `json:"scenarioId"`
	SolutionID string `json:"solutionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// emit queues msg for the writer. It reports false once the writer has quit.
func emit(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

// ServeWS upgrades HTTP requests to websockets and plays one mounted game over them.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profileId")
	mode := domain.ModeID(r.URL.Query().Get("mode"))
	if profile == "" || mode == "" {
		http.Error(w, "missing profileId or mode", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// the request context ends with the handler; sessions must outlive a single read
	ctx := context.WithoutCancel(r.Context())

	view, err := h.shell.Select(ctx, profile, mode)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := view.ID

	updates, cancel, err := h.games.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.shell.CloseSession(ctx, profile, sessionID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// unblock the read loop
				_ = conn.Close()
				return
			}
		}
	}()

	// timer ticks and other transitions arrive here as fresh views
	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	out := func(typ string, payload any) bool {
		return emit(send, writerDone, outboundMessage[any]{Type: typ, Payload: payload})
	}
	sendErr := func(err error) bool {
		return out("error", errorPayload{Message: err.Error()})
	}

loop:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		ok := true
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				ok = sendErr(errors.New("invalid answer payload"))
				break
			}
			view, err := h.games.Answer(ctx, sessionID, payload.Option)
			if err != nil {
				ok = sendErr(err)
				break
			}
			ok = out("answerResult", view.State.LastAnswer)
		case "advance":
			view, err := h.games.Advance(ctx, sessionID)
			if err != nil {
				ok = sendErr(err)
				break
			}
			if view.Finished {
				ok = out("finished", view)
			}
		case "match":
			var payload matchPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				ok = sendErr(errors.New("invalid match payload"))
				break
			}
			view, res, err := h.games.Match(ctx, sessionID, payload.SolutionID, payload.ScenarioID)
			if err != nil {
				ok = sendErr(err)
				break
			}
			ok = out("matchResult", res)
			if ok && res.Complete {
				ok = out("finished", view)
			}
		case "abandon":
			if err := h.games.Abandon(ctx, sessionID); err != nil {
				ok = sendErr(err)
				break
			}
			break loop
		default:
			ok = sendErr(errors.New("unsupported message type"))
		}
		if !ok {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
