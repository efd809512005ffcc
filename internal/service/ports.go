package service

import (
	"context"
	"net/http"

	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/events"
	"github.com/phrazzld/simfleet/internal/platform/upstream"
)

// Sender performs one upstream request with the client's retry policy. A nil
// response means no response was received.
type Sender interface {
	Send(ctx context.Context, method, url string, headers http.Header, body any) (*upstream.Response, error)
}

// AccountStore is the subset of store.AccountRepository the services use.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, phone string) (*domain.Account, error)
	SaveAccount(ctx context.Context, a *domain.Account) error
	SetQuestOutcome(ctx context.Context, phone, outcome string) error
	SetNetworkTestOutcome(ctx context.Context, phone, outcome string) error
	SetFinishTime(ctx context.Context, phone, finishTime string) error
}

// ReportReader loads the fleet-wide nodes: the summary written by the last
// fleet run and the externally maintained carrier status.
type ReportReader interface {
	LatestSummary(ctx context.Context) (*domain.RunSummary, error)
	ServiceStatusNodes(ctx context.Context) (status, apis map[string]any, err error)
}

// QuestClaimer claims the daily quest for an account.
type QuestClaimer interface {
	ClaimDailyQuest(ctx context.Context, phone, accessToken string) (string, error)
}

// NetworkTester submits a network test for an account.
type NetworkTester interface {
	SubmitNetworkTest(ctx context.Context, phone, operator, accessToken string) (string, error)
}

// EventEmitter publishes events to registered handlers.
type EventEmitter = events.EventEmitter
