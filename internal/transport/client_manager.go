package transport

import (
	"log/slog"
	"sync"
)

// ClientManager tracks connected sessions by id.
type ClientManager struct {
	clients map[string]*Connection
	mutex   sync.RWMutex
}

func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*Connection),
	}
}

func (cm *ClientManager) AddClient(sessionID string, conn *Connection) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[sessionID] = conn
}

func (cm *ClientManager) RemoveClient(sessionID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, sessionID)
}

// Count returns the number of connected clients.
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, conn := range cm.clients {
		if err := conn.SendMessage(msg); err != nil {
			slog.Debug("broadcast failed", "session", id, "error", err)
		}
	}
}

// CloseAll disconnects every client.
func (cm *ClientManager) CloseAll() {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	for _, conn := range cm.clients {
		conn.Close()
	}
}
