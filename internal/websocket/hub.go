package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/RenCostamagna/comidita-backend/pkg/logger"
)

// Client conexión WebSocket de un usuario (una por dispositivo)
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserID        uint
	Send          chan []byte
	MessageCount  int       // mensajes recibidos en el último segundo
	LastResetTime time.Time // último reseteo del contador
	RateMu        sync.Mutex
}

// Hub administra las conexiones WebSocket para empujar notificaciones
type Hub struct {
	// Clientes registrados (UserID -> []*Client, soporta multi-dispositivo)
	clients map[uint][]*Client

	// Registro de clientes
	register chan *Client

	// Baja de clientes
	unregister chan *Client

	// Mensajes dirigidos a un usuario
	direct chan *DirectMessage

	mu sync.RWMutex
}

// DirectMessage mensaje dirigido a todas las sesiones de un usuario
type DirectMessage struct {
	UserID  uint
	Message []byte
}

// NewHub crea el Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		direct:     make(chan *DirectMessage, 1024),
	}
}

// Run ejecuta el loop principal del Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// Multi-dispositivo: se agrega a la lista del usuario
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				// Se remueve solo esta sesión
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					// Era la última sesión del usuario
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id":            client.UserID,
				"remaining_sessions": len(h.clients[client.UserID]),
			})

		case message := <-h.direct:
			h.mu.RLock()
			// Multi-dispositivo: se envía a todas las sesiones
			if clientList, ok := h.clients[message.UserID]; ok {
				for _, client := range clientList {
					select {
					case client.Send <- message.Message:
						// Enviado
					default:
						// El buffer de envío está lleno, se desconecta la sesión
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": message.UserID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToUser envía un mensaje a todas las sesiones de un usuario.
// Si el usuario no está conectado el mensaje se descarta en silencio.
func (h *Hub) SendToUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	select {
	case h.direct <- &DirectMessage{
		UserID:  userID,
		Message: data,
	}:
		return nil
	default:
		logger.Warn("Direct channel full, message dropped", map[string]interface{}{
			"user_id": userID,
		})
		return nil // se tolera la pérdida, la notificación queda persistida igual
	}
}

// Register registra un cliente
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister da de baja un cliente
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline indica si el usuario tiene al menos una sesión activa
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// HandleClientMessage procesa mensajes entrantes del cliente.
// El canal es de solo lectura para el cliente salvo el ack de lectura.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	// Rate limiting
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg struct {
		Type string `json:"type"` // ping
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}
}
