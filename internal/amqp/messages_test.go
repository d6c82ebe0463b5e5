package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetChangedMessage(t *testing.T) {
	msg := NewBudgetChangedMessage(42)
	require.False(t, msg.Timestamp.IsZero())

	data, err := msg.ToJSON()
	require.NoError(t, err)

	got, err := BudgetChangedMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Revision)

	_, err = BudgetChangedMessageFromJSON([]byte("not json"))
	assert.Error(t, err)
}
