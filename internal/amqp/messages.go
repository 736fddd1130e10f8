package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage notifies the report worker that a record changed. It carries
// only identifiers; the worker reloads whatever it needs from the store.
type ChangeMessage struct {
	Entity    string    `json:"entity"` // "transaction" or "budget"
	Action    string    `json:"action"` // "created", "updated" or "deleted"
	ID        int64     `json:"id"`
	Month     string    `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(entity, action string, id int64, month string) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
