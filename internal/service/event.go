package service

import (
	"encoding/json"

	"auctionhouse/internal/model"

	"github.com/google/uuid"
)

// newOutboxMessage 构造发件箱消息
// EventID 用 uuid，供下游按事件去重（投递语义是至少一次）
func newOutboxMessage(topic, key string, payload map[string]interface{}) *model.OutboxMessage {
	payloadBytes, _ := json.Marshal(payload)
	return &model.OutboxMessage{
		EventID:    uuid.NewString(),
		MessageKey: key,
		Topic:      topic,
		Payload:    string(payloadBytes),
		Status:     model.OutboxStatusPending,
	}
}
