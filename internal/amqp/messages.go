package amqp

import (
	"encoding/json"
	"time"
)

// BudgetChangedMessage announces that a new budget revision has been
// persisted. It carries only the revision; consumers load the snapshot
// from storage themselves.
type BudgetChangedMessage struct {
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBudgetChangedMessage(revision int64) *BudgetChangedMessage {
	return &BudgetChangedMessage{
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

func (m *BudgetChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetChangedMessageFromJSON(data []byte) (*BudgetChangedMessage, error) {
	var msg BudgetChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
