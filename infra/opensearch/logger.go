package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// TransactionLog is one audit document per orchestration call. It never
// holds card data or bank credentials.
type TransactionLog struct {
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id"`
	GatewayType  string    `json:"gateway_type"`
	BankCode     string    `json:"bank_code"`
	Action       string    `json:"action"`
	OrderID      string    `json:"order_id"`
	Outcome      string    `json:"outcome"`
	Success      bool      `json:"success"`
	ErrorCode    string    `json:"error_code,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
}

// ErrDisabled is returned by reads when OpenSearch logging is off
var ErrDisabled = errors.New("opensearch logging is disabled")

// Logger handles OpenSearch logging operations
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch logger
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogTransaction indexes log into the monthly transaction index
func (l *Logger) LogTransaction(ctx context.Context, log TransactionLog) error {
	if !l.client.IsEnabled() {
		return nil
	}

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	if log.RequestID == "" {
		log.RequestID = uuid.New().String()
	}
	log.ErrorMessage = SanitizeForLog(log.ErrorMessage)

	return l.index(ctx, TransactionIndexName(log.Timestamp), log)
}

// GetOrderTransactions returns the audit trail of one order, newest first
func (l *Logger) GetOrderTransactions(ctx context.Context, orderID string) ([]TransactionLog, error) {
	if !l.client.IsEnabled() {
		return nil, ErrDisabled
	}

	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"order_id": orderID},
		},
		"sort": []map[string]any{
			{"timestamp": map[string]string{"order": "desc"}},
		},
		"size": 100,
	}
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{transactionsTpl + "-*"},
		Body:  bytes.NewReader(queryJSON),
	}
	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch search error: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source TransactionLog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	logs := make([]TransactionLog, len(searchResult.Hits.Hits))
	for i, hit := range searchResult.Hits.Hits {
		logs[i] = hit.Source
	}
	return logs, nil
}

// LogSystemEvent logs a system event to OpenSearch
func (l *Logger) LogSystemEvent(ctx context.Context, log any) error {
	if !l.client.IsEnabled() {
		return nil
	}
	return l.index(ctx, SystemIndexName(), log)
}

func (l *Logger) index(ctx context.Context, indexName string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: indexName,
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}
	return nil
}

var (
	sensitiveFields = []string{
		"card_number", "cardNumber", "number", "cvv", "cvc", "Cvv2Val",
		"password", "store_key", "storeKey", "api_key", "token", "authorization",
	}
	sensitivePatterns = buildSensitivePatterns()
	panPattern        = regexp.MustCompile(`\b(\d{6})\d{2,9}(\d{4})\b`)
)

func buildSensitivePatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields)*2)
	for _, field := range sensitiveFields {
		patterns = append(patterns,
			regexp.MustCompile(fmt.Sprintf(`"%s"\s*:\s*"[^"]*"`, regexp.QuoteMeta(field))),
			regexp.MustCompile(fmt.Sprintf(`\b%s=[^&\s]+`, regexp.QuoteMeta(field))),
		)
	}
	return patterns
}

// SanitizeForLog redacts secrets and masks anything that looks like a PAN
func SanitizeForLog(data string) string {
	if data == "" {
		return data
	}

	result := data
	for i, re := range sensitivePatterns {
		field := sensitiveFields[i/2]
		if i%2 == 0 {
			result = re.ReplaceAllString(result, fmt.Sprintf(`"%s":"***REDACTED***"`, field))
		} else {
			result = re.ReplaceAllString(result, field+"=***REDACTED***")
		}
	}

	return panPattern.ReplaceAllString(result, "$1******$2")
}
