package routing

import (
	"context"
	"sync"

	"github.com/W-Nunes/MobiVan/internal/domain"
)

// MockPathResolver returns a canned RouteInfo or error and records calls.
type MockPathResolver struct {
	Info *domain.RouteInfo
	Err  error
	// Block makes calls wait for ctx to end, simulating a provider that never answers.
	Block bool

	mu    sync.Mutex
	calls [][]domain.Location
}

func NewMockPathResolver(info *domain.RouteInfo, err error) *MockPathResolver {
	return &MockPathResolver{Info: info, Err: err}
}

func (m *MockPathResolver) ResolvePath(ctx context.Context, points []domain.Location) (*domain.RouteInfo, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]domain.Location(nil), points...))
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Info, nil
}

// Calls returns the point sequences received so far.
func (m *MockPathResolver) Calls() [][]domain.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Location(nil), m.calls...)
}
