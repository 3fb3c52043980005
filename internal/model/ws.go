package model

import "time"

// WSMessageType represents the type of WebSocket message
type WSMessageType string

const (
	MessageTypeFleetUpdate WSMessageType = "fleet_update"
	MessageTypeError       WSMessageType = "error"
	MessageTypePing        WSMessageType = "ping"
	MessageTypePong        WSMessageType = "pong"
)

// WSMessage is the envelope for all WebSocket messages
type WSMessage struct {
	Type      WSMessageType `json:"type"`
	Payload   interface{}   `json:"payload,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// NewWSMessage stamps a message with the current time in ms
func NewWSMessage(t WSMessageType, payload interface{}) WSMessage {
	return WSMessage{Type: t, Payload: payload, Timestamp: time.Now().UnixMilli()}
}

// WSErrorPayload carries a stream-level failure
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
