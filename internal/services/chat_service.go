package services

import (
	"context"
	"time"

	"github.com/lunoai/luno/internal/core/qa"
	"github.com/lunoai/luno/internal/models"
)

// answerTimeout bounds one question end to end (retrieval + generation).
const answerTimeout = 60 * time.Second

// ChatService answers questions against the indexed corpus. It holds no
// conversation state; the transcript belongs to the caller.
type ChatService struct {
	synthesizer *qa.Synthesizer
}

func NewChatService(synthesizer *qa.Synthesizer) *ChatService {
	return &ChatService{synthesizer: synthesizer}
}

func (s *ChatService) Ask(ctx context.Context, question string) (models.QAResult, error) {
	ctx, cancel := context.WithTimeout(ctx, answerTimeout)
	defer cancel()
	return s.synthesizer.Answer(ctx, question)
}
