package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/arushsrivastava/HectoClash-Game/internal/game"
	"github.com/arushsrivastava/HectoClash-Game/internal/services"
	"github.com/arushsrivastava/HectoClash-Game/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	registry *game.Registry
	auth     *services.AuthService
	profiles *services.ProfileService
}

func NewWSHandler(registry *game.Registry, auth *services.AuthService, profiles *services.ProfileService) *WSHandler {
	return &WSHandler{registry: registry, auth: auth, profiles: profiles}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type submitPayload struct {
	Expression string `json:"expression"`
}

type spectatePayload struct {
	SessionID string `json:"session_id"`
}

// HandlePlay godoc
// @Summary      Game websocket
// @Description  Authenticated duplex connection carrying queue, duel and spectator events
// @Tags         websocket
// @Param        token query string true "JWT"
// @Router       /ws/play [get]
func (h *WSHandler) HandlePlay(c *gin.Context) {
	userID, err := h.auth.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
		return
	}

	user, err := h.profiles.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := ws.NewClient(conn)
	player := &game.Participant{
		UserID:   user.ID,
		Username: user.Username,
		Rating:   user.Rating,
		Conn:     client,
	}
	h.registry.Register(client, player)
	log.Printf("ws: %s connected (rating %d)", user.Username, user.Rating)

	go client.WritePump()
	client.ReadLoop(func(msg ws.Inbound) {
		h.dispatch(client, msg)
	})

	// Read loop ended: the connection is gone. Membership cleanup
	// runs before this identity could ever be seen again.
	h.registry.Disconnect(client)
	log.Printf("ws: %s disconnected", user.Username)
}

func (h *WSHandler) dispatch(client *ws.Client, msg ws.Inbound) {
	var err error
	switch msg.Type {
	case game.EvJoinQueue:
		var pos int
		if pos, err = h.registry.JoinQueue(client); err == nil {
			client.Send(game.Event{Type: game.EvQueueJoined, Data: gin.H{"position": pos}})
		}
	case game.EvLeaveQueue:
		if err = h.registry.LeaveQueue(client); err == nil {
			client.Send(game.Event{Type: game.EvQueueLeft})
		}
	case game.EvSubmit:
		var p submitPayload
		if jsonErr := json.Unmarshal(msg.Data, &p); jsonErr != nil || p.Expression == "" {
			err = game.ErrInvalidState
			break
		}
		err = h.registry.Submit(client, p.Expression)
	case game.EvSpectate:
		var p spectatePayload
		if jsonErr := json.Unmarshal(msg.Data, &p); jsonErr != nil || p.SessionID == "" {
			err = game.ErrNotFound
			break
		}
		err = h.registry.Spectate(client, p.SessionID)
	case game.EvPractice:
		err = h.registry.StartPractice(client)
	case game.EvQuit:
		err = h.registry.Quit(client)
	default:
		client.Send(game.Event{Type: game.EvError, Data: game.ErrorData{
			Code: "unknown_event", Message: "unsupported event type: " + msg.Type,
		}})
		return
	}

	if err != nil {
		client.Send(game.Event{Type: game.EvError, Data: game.ErrorData{
			Code:    game.ErrorCode(err),
			Message: err.Error(),
		}})
	}
}
