package websocket

import (
	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
	"encoding/json"
	"sync"
)

// ConnectionManager tracks the live sockets of the users connected to this
// gateway instance. It only knows about local connections.
type ConnectionManager struct {
	userConns map[string]map[string]domain.WebSocketConnection // userID -> connID -> connection
	mutex     sync.RWMutex
	log       logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		userConns: make(map[string]map[string]domain.WebSocketConnection),
		log:       log,
	}
}

func (cm *ConnectionManager) RegisterConnection(userID string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.userConns[userID] == nil {
		cm.userConns[userID] = make(map[string]domain.WebSocketConnection)
	}
	cm.userConns[userID][conn.ID()] = conn

	cm.log.Info("Connection registered", "user_id", userID, "conn_id", conn.ID())
	return nil
}

func (cm *ConnectionManager) UnregisterConnection(userID, connID string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if conns, exists := cm.userConns[userID]; exists {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(cm.userConns, userID)
		}
	}

	cm.log.Info("Connection unregistered", "user_id", userID, "conn_id", connID)
	return nil
}

func (cm *ConnectionManager) GetConnectionsForUser(userID string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	conns := cm.userConns[userID]
	connections := make([]domain.WebSocketConnection, 0, len(conns))
	for _, conn := range conns {
		connections = append(connections, conn)
	}
	return connections
}

// ConnectionCount returns the number of live sockets across all users.
func (cm *ConnectionManager) ConnectionCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	count := 0
	for _, conns := range cm.userConns {
		count += len(conns)
	}
	return count
}

// NotifyUser sends message to every socket of userID. A user without live
// sockets is a no-op; a failing socket does not stop delivery to the others.
func (cm *ConnectionManager) NotifyUser(userID string, message interface{}) error {
	connections := cm.GetConnectionsForUser(userID)
	if len(connections) == 0 {
		cm.log.Debug("No live connections for user", "user_id", userID)
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	for _, conn := range connections {
		if err := conn.Send(messageBytes); err != nil {
			cm.log.Error("Failed to send message", "user_id", userID, "conn_id", conn.ID(), "error", err)
			// Continue to other connections
		}
	}

	return nil
}

// CloseAll closes every socket, used on gateway shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for userID, conns := range cm.userConns {
		for connID, conn := range conns {
			if err := conn.Close(); err != nil {
				cm.log.Error("Failed to close connection", "user_id", userID, "conn_id", connID, "error", err)
			}
		}
	}
	cm.userConns = make(map[string]map[string]domain.WebSocketConnection)
}
