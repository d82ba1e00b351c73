package wallet

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Notifier pushes balance changes to every websocket connection a user
// has open. Pushes are best-effort; a dead connection is dropped.
type Notifier struct {
	clients map[string]map[*websocket.Conn]bool
	mu      sync.Mutex
}

func NewNotifier() *Notifier {
	return &Notifier{
		clients: make(map[string]map[*websocket.Conn]bool),
	}
}

func (n *Notifier) RegisterConnection(userID string, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.clients[userID] == nil {
		n.clients[userID] = make(map[*websocket.Conn]bool)
	}
	n.clients[userID][conn] = true
}

func (n *Notifier) UnregisterConnection(userID string, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if conns, ok := n.clients[userID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(n.clients, userID)
		}
	}
}

func (n *Notifier) NotifyBalance(userID string, balance decimal.Decimal) {
	n.broadcast(userID, WSMessage{
		Type: "balance_update",
		Data: map[string]interface{}{
			"user_id": userID,
			"balance": balance,
		},
	})
}

func (n *Notifier) broadcast(userID string, message WSMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()

	payload, _ := json.Marshal(message)

	for conn := range n.clients[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Error sending balance to %s: %v", userID, err)
			conn.Close()
			delete(n.clients[userID], conn)
		}
	}
}
