// Package mocks provides mock implementations for testing the alert notification service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the core ports
// and the notify collaborator interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockReceiverRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), "id-1").Return(receiver, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=receiver_repository_mock.go github.com/target/mmk-alert-notify/internal/core ReceiverRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/mmk-alert-notify/internal/core CacheRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=alert_dispatcher_mock.go github.com/target/mmk-alert-notify/internal/core AlertDispatcher

// Collaborators consumed by channel strategies.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=renderer_mock.go github.com/target/mmk-alert-notify/internal/notify Renderer
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=strategy_mock.go github.com/target/mmk-alert-notify/internal/notify Strategy
