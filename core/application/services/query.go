package services

import (
	"context"
	"strings"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

// QueryService answers free-form questions for every transport
type QueryService struct {
	asker interfaces.Asker
}

// NewQueryService creates a new QueryService
func NewQueryService(asker interfaces.Asker) *QueryService {
	return &QueryService{
		asker: asker,
	}
}

// Ask validates the question and hands it to the agent. Agent failures come
// back inside the outcome; only a blank question is an error.
func (s *QueryService) Ask(ctx context.Context, question string) (*domain.Outcome, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Question cannot be empty", nil)
	}
	return s.asker.Ask(ctx, question), nil
}
