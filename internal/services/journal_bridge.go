package services

import (
	"context"
	"errors"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/usecase"
)

// ActivityBridge exposes the journal processor to use cases.
type ActivityBridge struct {
	processor *JournalProcessor
}

func NewActivityBridge(processor *JournalProcessor) *ActivityBridge {
	return &ActivityBridge{processor: processor}
}

func (b *ActivityBridge) Record(ctx context.Context, events ...*domain.ActivityEvent) error {
	if b.processor == nil {
		return domain.ErrInvalidPayload
	}
	var result error
	for _, event := range events {
		if err := b.processor.Submit(ctx, event); err != nil {
			result = errors.Join(result, err)
		}
	}
	return result
}

var _ usecase.ActivityJournal = (*ActivityBridge)(nil)
