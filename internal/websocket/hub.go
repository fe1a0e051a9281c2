package websocket

import "github.com/rs/zerolog/log"

// topicMessage carries a payload bound for every subscriber of one topic.
type topicMessage struct {
	topic   string
	message []byte
}

// clientMessage carries a payload bound for a single client.
type clientMessage struct {
	client  *Client
	message []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Clients connect either globally (auth events, board stats) or subscribed
// to a single post topic (live like counts).
//
// All client and subscription state is owned by the Run goroutine; senders
// on other goroutines hand their payloads to the loop through channels and
// never touch the maps directly.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages from the clients for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Topic-scoped sends queued by BroadcastTo.
	broadcastTo chan topicMessage

	// Single-client sends queued by SendTo.
	direct chan clientMessage

	// A map of topics to a set of clients subscribed to it.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		broadcastTo:   make(chan topicMessage, 64),
		direct:        make(chan clientMessage, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			// If client has a topic on registration, subscribe them.
			if client.Topic != "" {
				h.addSubscription(client, client.Topic)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				// Remove from global clients and any subscriptions
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		case tm := <-h.broadcastTo:
			for client := range h.subscriptions[tm.topic] {
				h.deliver(client, tm.message)
			}
		case cm := <-h.direct:
			// The client may already be gone; its Send channel is closed
			// on unregister, so only still-registered clients get writes.
			if h.clients[cm.client] {
				h.deliver(cm.client, cm.message)
			}
		}
	}
}

// deliver hands a message to one client's send buffer, evicting the client
// when the buffer is full. Only the Run goroutine calls this.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		close(client.Send)
		delete(h.clients, client)
		h.removeSubscription(client)
	}
}

// Notify queues a message for global broadcast without blocking the caller.
// Messages are dropped when the hub loop is not keeping up; notification
// traffic is advisory, not a delivery guarantee.
func (h *Hub) Notify(message []byte) {
	select {
	case h.Broadcast <- message:
	default:
	}
}

// BroadcastTo queues a message for all clients subscribed to a topic. Like
// Notify, it drops the message rather than block when the queue is full.
func (h *Hub) BroadcastTo(topic string, message []byte) {
	select {
	case h.broadcastTo <- topicMessage{topic: topic, message: message}:
	default:
	}
}

// SendTo queues a message for a single client. The hub loop skips the send
// when the client has already disconnected.
func (h *Hub) SendTo(client *Client, message []byte) {
	select {
	case h.direct <- clientMessage{client: client, message: message}:
	default:
	}
}

func (h *Hub) addSubscription(client *Client, topic string) {
	if h.subscriptions[topic] == nil {
		h.subscriptions[topic] = make(map[*Client]bool)
	}
	h.subscriptions[topic][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for topic, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, topic)
			}
		}
	}
}
