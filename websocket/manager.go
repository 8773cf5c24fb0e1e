// websocket/manager.go
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client adalah satu koneksi WebSocket. Client subscribe per transaction id
// (token yang sama dengan yang dikembalikan saat checkout), bukan per
// primary key order.
type Client struct {
	Conn           *websocket.Conn
	TransactionIDs map[string]bool
	Send           chan []byte
}

type Message struct {
	Type          string      `json:"type"` // "subscribe", "unsubscribe", "payment_update", "ping", "pong"
	TransactionID string      `json:"transaction_id,omitempty"`
	Data          interface{} `json:"data,omitempty"`
	Error         string      `json:"error,omitempty"`
}

type WebSocketManager struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Mutex      sync.Mutex
}

var Manager = WebSocketManager{
	Clients:    make(map[*Client]bool),
	Register:   make(chan *Client),
	Unregister: make(chan *Client),
}

func (manager *WebSocketManager) Start() {
	go manager.start()
}

func (manager *WebSocketManager) start() {
	for {
		select {
		case client := <-manager.Register:
			manager.Mutex.Lock()
			manager.Clients[client] = true
			manager.Mutex.Unlock()

		case client := <-manager.Unregister:
			manager.Mutex.Lock()
			if _, ok := manager.Clients[client]; ok {
				delete(manager.Clients, client)
				close(client.Send)
			}
			manager.Mutex.Unlock()
		}
	}
}

// SendToSubscribers mengirim update ke semua client yang subscribe
// ke transaction id tersebut.
func (manager *WebSocketManager) SendToSubscribers(transactionID string, data interface{}) {
	message := Message{
		Type:          "payment_update",
		TransactionID: transactionID,
		Data:          data,
	}

	jsonMessage, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	manager.Mutex.Lock()
	defer manager.Mutex.Unlock()

	for client := range manager.Clients {
		if client.TransactionIDs[transactionID] {
			select {
			case client.Send <- jsonMessage:
			default:
				close(client.Send)
				delete(manager.Clients, client)
			}
		}
	}
}

// Broadcaster mengimplementasikan services.StatusBroadcaster di atas Manager.
type Broadcaster struct{}

func (Broadcaster) BroadcastPaymentStatus(orderID uint, transactionID, status string) {
	Manager.SendToSubscribers(transactionID, map[string]interface{}{
		"transaction_id": transactionID,
		"status":         status,
	})
}
