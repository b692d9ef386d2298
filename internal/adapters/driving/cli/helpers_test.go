package cli

import (
	"context"
	"errors"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driving"
)

// mockSession implements driving.SessionService for command tests.
type mockSession struct {
	IngestFunc func(ctx context.Context, upload driving.Upload) (*driving.IngestResult, error)
	AskFunc    func(ctx context.Context, question string) (string, error)
	DeleteFunc func(ctx context.Context) error
	StatusFunc func() driving.SessionStatus
}

func (m *mockSession) Ingest(ctx context.Context, upload driving.Upload) (*driving.IngestResult, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, upload)
	}
	return nil, errors.New("ingest not stubbed")
}

func (m *mockSession) Ask(ctx context.Context, question string) (string, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return "", errors.New("ask not stubbed")
}

func (m *mockSession) Attach(ctx context.Context, collection, sourceName string) error {
	return nil
}

func (m *mockSession) Delete(ctx context.Context) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx)
	}
	return nil
}

func (m *mockSession) Status() driving.SessionStatus {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return driving.SessionStatus{State: domain.SessionEmpty}
}

// setupTestSession installs a mock session service and returns a cleanup
// function restoring the previous state.
func setupTestSession(mock driving.SessionService) func() {
	previous := sessionService
	sessionService = mock
	return func() {
		sessionService = previous
	}
}
