package amqp

import (
	"encoding/json"
	"time"
)

// ReminderMessage is the lightweight queue payload for one reminder.
// It carries only the invoice ID and reminder kind; the worker fetches the
// full invoice from the database when it processes the message.
type ReminderMessage struct {
	InvoiceID string    `json:"invoice_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReminderMessage creates a new reminder message for an invoice
func NewReminderMessage(invoiceID, kind string) *ReminderMessage {
	return &ReminderMessage{
		InvoiceID: invoiceID,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON creates a message from JSON bytes
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
