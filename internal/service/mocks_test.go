package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/events"
	"github.com/phrazzld/simfleet/internal/platform/upstream"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jsonResponse(status int, body string) *upstream.Response {
	return &upstream.Response{StatusCode: status, Header: http.Header{}, Body: []byte(body)}
}

// MockSender mocks the Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(
	ctx context.Context,
	method, url string,
	headers http.Header,
	body any,
) (*upstream.Response, error) {
	args := m.Called(ctx, method, url, headers, body)
	resp, _ := args.Get(0).(*upstream.Response)
	return resp, args.Error(1)
}

// MockAccountStore mocks the AccountStore interface
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *MockAccountStore) GetAccount(ctx context.Context, phone string) (*domain.Account, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) SaveAccount(ctx context.Context, a *domain.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountStore) SetQuestOutcome(ctx context.Context, phone, outcome string) error {
	args := m.Called(ctx, phone, outcome)
	return args.Error(0)
}

func (m *MockAccountStore) SetNetworkTestOutcome(ctx context.Context, phone, outcome string) error {
	args := m.Called(ctx, phone, outcome)
	return args.Error(0)
}

func (m *MockAccountStore) SetFinishTime(ctx context.Context, phone, finishTime string) error {
	args := m.Called(ctx, phone, finishTime)
	return args.Error(0)
}

// MockReportReader mocks the ReportReader interface
type MockReportReader struct {
	mock.Mock
}

func (m *MockReportReader) LatestSummary(ctx context.Context) (*domain.RunSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunSummary), args.Error(1)
}

func (m *MockReportReader) ServiceStatusNodes(ctx context.Context) (map[string]any, map[string]any, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(map[string]any)
	apis, _ := args.Get(1).(map[string]any)
	return status, apis, args.Error(2)
}

// MockQuestClaimer mocks the QuestClaimer interface
type MockQuestClaimer struct {
	mock.Mock
}

func (m *MockQuestClaimer) ClaimDailyQuest(ctx context.Context, phone, accessToken string) (string, error) {
	args := m.Called(ctx, phone, accessToken)
	return args.String(0), args.Error(1)
}

// MockNetworkTester mocks the NetworkTester interface
type MockNetworkTester struct {
	mock.Mock
}

func (m *MockNetworkTester) SubmitNetworkTest(ctx context.Context, phone, operator, accessToken string) (string, error) {
	args := m.Called(ctx, phone, operator, accessToken)
	return args.String(0), args.Error(1)
}

// MockEventEmitter mocks the EventEmitter interface
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
