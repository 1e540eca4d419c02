package controller

import (
	"context"
	"net/http"
	"sync"

	"gala/app_error"
	"gala/logging"
	"gala/repository"
	"gala/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type subscription struct {
	conn       *websocket.Conn
	caller     *service.Caller
	categoryId *int
}

// resultsView identifies subscriptions that receive the same payload.
type resultsView struct {
	role       repository.Role
	categoryId int
	filtered   bool
}

func (s *subscription) view() resultsView {
	view := resultsView{}
	if s.caller != nil {
		view.role = s.caller.Role
	}
	if s.categoryId != nil {
		view.categoryId = *s.categoryId
		view.filtered = true
	}
	return view
}

// ResultsHub pushes fresh results to admins watching a gala whenever its results are invalidated.
// mu only guards the registry. Broadcasts for one gala run one at a time under that gala's
// sending lock, which is also the only place a registered connection is written to.
type ResultsHub struct {
	resultService *service.ResultService
	mu            sync.Mutex
	connections   map[int]map[*websocket.Conn]*subscription
	sending       map[int]*sync.Mutex
}

func NewResultsHub(resultService *service.ResultService) *ResultsHub {
	hub := &ResultsHub{
		resultService: resultService,
		connections:   make(map[int]map[*websocket.Conn]*subscription),
		sending:       make(map[int]*sync.Mutex),
	}
	resultService.Cache().OnInvalidate(func(galaId int) {
		go hub.broadcast(galaId)
	})
	return hub
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// @id ResultsWebSocket
// @Description Websocket for live results. The current results are sent on connect and again after every scoring change of the gala.
// @Tags admin
// @Router /admin/results/ws [get]
// @Param gala_id query int true "Gala Id"
// @Param categorie_id query int false "Gala Category Id"
// @Param token query string false "Auth token"
// @Security BearerAuth
// @Success 200 {object} service.Results
func (h *ResultsHub) WebSocketHandler(c *gin.Context) {
	galaId, ok := optionalIntQuery(c, "gala_id")
	if !ok {
		return
	}
	if galaId == nil {
		app_error.Respond(c, app_error.Validation("gala_id is required"))
		return
	}
	categoryId, ok := optionalIntQuery(c, "categorie_id")
	if !ok {
		return
	}
	sub := &subscription{caller: getCaller(c), categoryId: categoryId}
	results, err := h.resultService.GetResults(c, sub.caller, *galaId, sub.categoryId)
	if err != nil {
		app_error.Respond(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	if err := conn.WriteJSON(results); err != nil {
		return
	}
	sub.conn = conn

	h.mu.Lock()
	if _, ok := h.connections[*galaId]; !ok {
		h.connections[*galaId] = make(map[*websocket.Conn]*subscription)
	}
	h.connections[*galaId][conn] = sub
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(*galaId, conn)
			return
		}
	}
}

func (h *ResultsHub) remove(galaId int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections[galaId], conn)
	if len(h.connections[galaId]) == 0 {
		delete(h.connections, galaId)
	}
}

// subscribers snapshots the gala's subscriptions together with its sending lock.
func (h *ResultsHub) subscribers(galaId int) ([]*subscription, *sync.Mutex) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sending, ok := h.sending[galaId]
	if !ok {
		sending = &sync.Mutex{}
		h.sending[galaId] = sending
	}
	subs := make([]*subscription, 0, len(h.connections[galaId]))
	for _, sub := range h.connections[galaId] {
		subs = append(subs, sub)
	}
	return subs, sending
}

func (h *ResultsHub) broadcast(galaId int) {
	subs, sending := h.subscribers(galaId)
	if len(subs) == 0 {
		return
	}
	sending.Lock()
	defer sending.Unlock()

	computed := make(map[resultsView]*service.Results)
	failed := make(map[resultsView]bool)
	for _, sub := range subs {
		view := sub.view()
		if failed[view] {
			continue
		}
		results, ok := computed[view]
		if !ok {
			var err error
			results, err = h.resultService.GetResults(context.Background(), sub.caller, galaId, sub.categoryId)
			if err != nil {
				logging.Log.WithField("gala_id", galaId).WithError(err).Warn("failed to refresh results")
				failed[view] = true
				continue
			}
			computed[view] = results
		}
		if err := sub.conn.WriteJSON(results); err != nil {
			sub.conn.Close()
			h.remove(galaId, sub.conn)
		}
	}
}

// Subscribers reports the number of open result streams for a gala.
func (h *ResultsHub) Subscribers(galaId int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections[galaId])
}
