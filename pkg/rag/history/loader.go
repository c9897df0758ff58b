// FILE: pkg/rag/history/loader.go
// PURPOSE: Load the recent conversation window for prompt assembly

package history

import (
	"context"

	"github.com/google/uuid"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/repository/contract"
	"inventory-assistant-be/internal/repository/specification"
)

// LoadRecent returns up to window messages for a session in chronological
// order. The query fetches newest-first and the slice is reversed so the
// limit trims old messages, not recent ones.
func LoadRecent(ctx context.Context, messages contract.ChatMessageRepository, sessionId uuid.UUID, window int) ([]*entity.ChatMessage, error) {
	if window <= 0 {
		return nil, nil
	}

	recent, err := messages.FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: window},
	)
	if err != nil {
		return nil, err
	}

	for left, right := 0, len(recent)-1; left < right; left, right = left+1, right-1 {
		recent[left], recent[right] = recent[right], recent[left]
	}
	return recent, nil
}
