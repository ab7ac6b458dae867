package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Mutu-s/MonFair-sub001/internal/middleware"
	"github.com/Mutu-s/MonFair-sub001/internal/models"
)

const (
	MessagePing         = "PING"
	MessagePong         = "PONG"
	MessageSubscribe    = "SUBSCRIBE"
	MessageUnsubscribe  = "UNSUBSCRIBE"
	MessageSubscribed   = "SUBSCRIBED"
	MessageUnsubscribed = "UNSUBSCRIBED"
	MessageVerification = "VERIFICATION_RESULT"
	clientSendBuffer    = 16
	writeWait           = 10 * time.Second
	maxTopicsPerClient  = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *WebSocketHub
	log logrus.FieldLogger
}

type WebSocketHub struct {
	clients     map[*Client]struct{}
	topics      map[string]map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan *Message
	stop        chan struct{}
	log         logrus.FieldLogger
}

type Client struct {
	ID      string
	Address string
	Conn    *websocket.Conn

	send   chan *Message
	done   chan struct{}
	topics map[string]struct{}
}

type Message struct {
	Type  string      `json:"type"`
	Topic string      `json:"topic,omitempty"`
	RunID string      `json:"run_id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

type subscription struct {
	client *Client
	topic  string
}

func NewWebSocketHandler(log logrus.FieldLogger) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:     make(map[*Client]struct{}),
		topics:      make(map[string]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan *Message, 100),
		stop:        make(chan struct{}),
		log:         log,
	}

	go hub.run()

	return &WebSocketHandler{
		hub: hub,
		log: log,
	}
}

func (h *WebSocketHandler) Close() {
	close(h.hub.stop)
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("failed to upgrade to websocket")
		return
	}

	client := &Client{
		ID:      uuid.NewString(),
		Address: c.GetString(middleware.ContextAddress),
		Conn:    conn,
		send:    make(chan *Message, clientSendBuffer),
		done:    make(chan struct{}),
		topics:  make(map[string]struct{}),
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.stop:
		conn.Close()
		return
	}

	go client.writePump()

	defer func() {
		select {
		case h.hub.unregister <- client:
		case <-h.hub.stop:
		}
		conn.Close()
	}()

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Debug("websocket read error")
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case MessagePing:
		client.queue(&Message{
			Type: MessagePong,
			Data: gin.H{"timestamp": time.Now().Unix()},
		})
	case MessageSubscribe:
		if topic := topicOf(msg); topic != "" {
			h.hub.send(h.hub.subscribe, subscription{client: client, topic: topic})
		}
	case MessageUnsubscribe:
		if topic := topicOf(msg); topic != "" {
			h.hub.send(h.hub.unsubscribe, subscription{client: client, topic: topic})
		}
	}
}

// BroadcastVerification pushes a finished verification to subscribers of topic.
func (h *WebSocketHandler) BroadcastVerification(topic string, runID string, result *models.Verification) {
	msg := &Message{
		Type:  MessageVerification,
		Topic: topic,
		RunID: runID,
		Data:  verificationResponse(result),
	}

	select {
	case h.hub.broadcast <- msg:
	default:
		h.log.WithField("topic", topic).Warn("websocket broadcast queue full, dropping result")
	}
}

func topicOf(msg *Message) string {
	topic := msg.Topic
	if topic == "" {
		if s, ok := msg.Data.(string); ok {
			topic = s
		}
	}
	return strings.ToLower(strings.TrimSpace(topic))
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client] = struct{}{}
			hub.log.WithField("client_id", client.ID).Debug("client registered")

		case client := <-hub.unregister:
			if _, ok := hub.clients[client]; ok {
				for topic := range client.topics {
					hub.removeFromTopic(client, topic)
				}
				delete(hub.clients, client)
				close(client.done)
				hub.log.WithField("client_id", client.ID).Debug("client unregistered")
			}

		case sub := <-hub.subscribe:
			if _, ok := hub.clients[sub.client]; !ok {
				continue
			}
			if len(sub.client.topics) >= maxTopicsPerClient {
				continue
			}
			if hub.topics[sub.topic] == nil {
				hub.topics[sub.topic] = make(map[*Client]struct{})
			}
			hub.topics[sub.topic][sub.client] = struct{}{}
			sub.client.topics[sub.topic] = struct{}{}
			hub.deliver(sub.client, &Message{Type: MessageSubscribed, Topic: sub.topic})

		case sub := <-hub.unsubscribe:
			if _, ok := sub.client.topics[sub.topic]; ok {
				hub.removeFromTopic(sub.client, sub.topic)
				delete(sub.client.topics, sub.topic)
				hub.deliver(sub.client, &Message{Type: MessageUnsubscribed, Topic: sub.topic})
			}

		case message := <-hub.broadcast:
			for client := range hub.topics[message.Topic] {
				hub.deliver(client, message)
			}

		case <-hub.stop:
			for client := range hub.clients {
				close(client.done)
				client.Conn.Close()
			}
			return
		}
	}
}

func (hub *WebSocketHub) send(ch chan subscription, sub subscription) {
	select {
	case ch <- sub:
	case <-hub.stop:
	}
}

func (hub *WebSocketHub) removeFromTopic(client *Client, topic string) {
	subs := hub.topics[topic]
	delete(subs, client)
	if len(subs) == 0 {
		delete(hub.topics, topic)
	}
}

// deliver never blocks the hub; a client that cannot keep up is disconnected
// and cleaned up when its reader exits.
func (hub *WebSocketHub) deliver(client *Client, message *Message) {
	select {
	case client.send <- message:
	default:
		hub.log.WithField("client_id", client.ID).Warn("client send buffer full, closing")
		client.Conn.Close()
	}
}

func (c *Client) queue(message *Message) {
	select {
	case c.send <- message:
	default:
	}
}

func (c *Client) writePump() {
	for {
		select {
		case message := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(message); err != nil {
				c.Conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
