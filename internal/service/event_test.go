package service

import (
	"encoding/json"
	"testing"

	"auctionhouse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxMessage(t *testing.T) {
	msg := newOutboxMessage("auction.bid.accepted", "42", map[string]interface{}{
		"auction_id": int64(42),
		"amount":     int64(12000),
	})

	assert.Equal(t, "auction.bid.accepted", msg.Topic)
	assert.Equal(t, "42", msg.MessageKey)
	assert.Equal(t, model.OutboxStatusPending, msg.Status)
	assert.NotEmpty(t, msg.EventID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	assert.Equal(t, float64(42), payload["auction_id"])
	assert.Equal(t, float64(12000), payload["amount"])
}

func TestNewOutboxMessageEventIDUnique(t *testing.T) {
	a := newOutboxMessage("t", "k", nil)
	b := newOutboxMessage("t", "k", nil)
	assert.NotEqual(t, a.EventID, b.EventID)
}
