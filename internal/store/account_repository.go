package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/phrazzld/simfleet/internal/domain"
)

// Tree layout shared with the legacy deployment.
const (
	AccountsRoot = "PhoneNumbers"
	SummaryRoot  = "AllFinishedTime"
	StatusRoot   = "Status"
	APIsRoot     = "apis"

	fieldPhone       = "ph_no"
	fieldSIM         = "sim"
	fieldAccessToken = "access_token"
	fieldCondition   = "condition"
	fieldQuest       = "Quest"
	fieldNetworkTest = "NetworkTest"
	fieldFinishTime  = "finish_time"

	fieldTotal     = "total_phone_numbers"
	fieldCompleted = "completed_number_count"
	fieldSuccess   = "success_number_count"
	fieldFail      = "fail_number_count"
	fieldFailList  = "fail_numbers"
	fieldDuration  = "duration"
	fieldDate      = "date"
)

// AccountRepository is the typed view of the tree used by the fleet core.
// Every write targets a single account node, so concurrent workers never
// touch each other's data.
type AccountRepository struct {
	tree Tree
}

// NewAccountRepository creates a repository over tree.
func NewAccountRepository(tree Tree) *AccountRepository {
	return &AccountRepository{tree: tree}
}

// ListAccounts returns every stored account ordered by phone number.
func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	v, err := r.tree.Get(ctx, AccountsRoot)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	nodes, _ := v.(map[string]any)

	accounts := make([]domain.Account, 0, len(nodes))
	for phone, node := range nodes {
		fields, ok := node.(map[string]any)
		if !ok {
			continue
		}
		accounts = append(accounts, accountFromNode(phone, fields))
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].PhoneNumber < accounts[j].PhoneNumber
	})
	return accounts, nil
}

// GetAccount returns the account stored for phone, or ErrAccountNotFound.
func (r *AccountRepository) GetAccount(ctx context.Context, phone string) (*domain.Account, error) {
	path, err := accountPath(phone)
	if err != nil {
		return nil, err
	}
	v, err := r.tree.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("getting account %s: %w", phone, err)
	}
	fields, ok := v.(map[string]any)
	if !ok {
		return nil, ErrAccountNotFound
	}
	a := accountFromNode(phone, fields)
	return &a, nil
}

// SaveAccount writes the whole account node, replacing any previous state.
func (r *AccountRepository) SaveAccount(ctx context.Context, a *domain.Account) error {
	path, err := accountPath(a.PhoneNumber)
	if err != nil {
		return err
	}
	if err := r.tree.Set(ctx, path, accountToNode(a)); err != nil {
		return fmt.Errorf("saving account %s: %w", a.PhoneNumber, err)
	}
	return nil
}

// SetQuestOutcome records the latest daily quest outcome.
func (r *AccountRepository) SetQuestOutcome(ctx context.Context, phone, outcome string) error {
	return r.updateField(ctx, phone, fieldQuest, outcome)
}

// SetNetworkTestOutcome records the latest network test outcome.
func (r *AccountRepository) SetNetworkTestOutcome(ctx context.Context, phone, outcome string) error {
	return r.updateField(ctx, phone, fieldNetworkTest, outcome)
}

// SetFinishTime writes the completion marker.
func (r *AccountRepository) SetFinishTime(ctx context.Context, phone, finishTime string) error {
	return r.updateField(ctx, phone, fieldFinishTime, finishTime)
}

func (r *AccountRepository) updateField(ctx context.Context, phone, field, value string) error {
	path, err := accountPath(phone)
	if err != nil {
		return err
	}
	if err := r.tree.Update(ctx, path, map[string]any{field: value}); err != nil {
		return fmt.Errorf("updating %s of %s: %w", field, phone, err)
	}
	return nil
}

// SaveSummary overwrites the stored run summary.
func (r *AccountRepository) SaveSummary(ctx context.Context, s domain.RunSummary) error {
	failNumbers := s.FailNumbers
	if failNumbers == nil {
		failNumbers = []string{}
	}
	node := map[string]any{
		fieldTotal:     s.TotalAccounts,
		fieldCompleted: s.CompletedCount,
		fieldSuccess:   s.SuccessCount,
		fieldFail:      s.FailCount,
		fieldFailList:  failNumbers,
		fieldDuration:  s.Duration,
		fieldDate:      s.Date,
	}
	if err := r.tree.Set(ctx, SummaryRoot, node); err != nil {
		return fmt.Errorf("saving run summary: %w", err)
	}
	return nil
}

// LatestSummary returns the summary written by the most recent run, or
// ErrSummaryNotFound.
func (r *AccountRepository) LatestSummary(ctx context.Context) (*domain.RunSummary, error) {
	v, err := r.tree.Get(ctx, SummaryRoot)
	if err != nil {
		return nil, fmt.Errorf("getting run summary: %w", err)
	}
	node, ok := v.(map[string]any)
	if !ok {
		return nil, ErrSummaryNotFound
	}
	return &domain.RunSummary{
		TotalAccounts:  intField(node, fieldTotal),
		CompletedCount: intField(node, fieldCompleted),
		SuccessCount:   intField(node, fieldSuccess),
		FailCount:      intField(node, fieldFail),
		FailNumbers:    stringsField(node, fieldFailList),
		Duration:       stringField(node, fieldDuration),
		Date:           stringField(node, fieldDate),
	}, nil
}

func accountPath(phone string) (string, error) {
	if err := domain.ValidatePhoneNumber(phone); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return JoinPath(AccountsRoot, phone), nil
}

func accountToNode(a *domain.Account) map[string]any {
	node := map[string]any{
		fieldPhone:       a.PhoneNumber,
		fieldSIM:         a.SIM,
		fieldAccessToken: a.AccessToken,
	}
	optional := map[string]string{
		fieldCondition:   a.Condition,
		fieldQuest:       a.QuestOutcome,
		fieldNetworkTest: a.NetworkTestOutcome,
		fieldFinishTime:  a.FinishTime,
	}
	for k, v := range optional {
		if v != "" {
			node[k] = v
		}
	}
	return node
}

// accountFromNode builds an account from the node stored under key. The key
// is the account's identity; the ph_no field is informational and may be
// missing or stale in legacy data.
func accountFromNode(key string, node map[string]any) domain.Account {
	return domain.Account{
		PhoneNumber:        key,
		SIM:                stringField(node, fieldSIM),
		AccessToken:        stringField(node, fieldAccessToken),
		Condition:          stringField(node, fieldCondition),
		QuestOutcome:       stringField(node, fieldQuest),
		NetworkTestOutcome: stringField(node, fieldNetworkTest),
		FinishTime:         stringField(node, fieldFinishTime),
	}
}

func stringField(node map[string]any, key string) string {
	switch v := node[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func intField(node map[string]any, key string) int {
	switch v := node[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringsField(node map[string]any, key string) []string {
	out := []string{}
	list, _ := node[key].([]any)
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ServiceStatusNodes returns the raw Status and apis nodes. Both are
// maintained outside the runner, so they are read as-is.
func (r *AccountRepository) ServiceStatusNodes(ctx context.Context) (status, apis map[string]any, err error) {
	status, err = r.mapNode(ctx, StatusRoot, ErrServiceStatusNotFound)
	if err != nil {
		return nil, nil, err
	}
	apis, err = r.mapNode(ctx, APIsRoot, ErrAPIsNotFound)
	if err != nil {
		return nil, nil, err
	}
	return status, apis, nil
}

func (r *AccountRepository) mapNode(ctx context.Context, key string, notFound error) (map[string]any, error) {
	v, err := r.tree.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}
	node, ok := v.(map[string]any)
	if !ok || len(node) == 0 {
		return nil, notFound
	}
	return node, nil
}
