package syncer

import "context"

// Service maps screens to the collection they keep fresh.
type Service struct {
	engine *Engine
}

func NewService(engine *Engine) *Service {
	return &Service{engine: engine}
}

func (s *Service) EnterDashboard(ctx context.Context) error {
	return s.engine.EnterView(ctx, CollectionCurrentMonth)
}

func (s *Service) RefreshDashboard() error {
	return s.engine.ManualRefresh(CollectionCurrentMonth)
}

func (s *Service) EnterTransactions(ctx context.Context) error {
	return s.engine.EnterView(ctx, CollectionPage)
}

func (s *Service) RefreshTransactions() error {
	return s.engine.ManualRefresh(CollectionPage)
}

func (s *Service) EnterCategories(ctx context.Context) error {
	return s.engine.EnterView(ctx, CollectionCategories)
}

func (s *Service) RefreshCategories() error {
	return s.engine.ManualRefresh(CollectionCategories)
}

func (s *Service) LeaveView() {
	s.engine.LeaveView()
}
