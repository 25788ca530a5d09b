package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mstgnz/gopos/infra/config"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

const (
	indexPrefix     = "gopos"
	systemLogsIndex = indexPrefix + "-system-logs"
	transactionsTpl = indexPrefix + "-transactions"
)

// Client wraps the OpenSearch client
type Client struct {
	client  *opensearch.Client
	enabled bool
}

// NewClient creates a new OpenSearch client and makes sure the log indices
// exist. Index setup failures are returned; the client stays usable.
func NewClient(cfg *config.AppConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.OpenSearchURL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !cfg.IsProduction(),
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	osClient := &Client{
		client:  client,
		enabled: cfg.EnableLogging,
	}
	if !osClient.enabled {
		return osClient, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := osClient.setupIndices(ctx); err != nil {
		return osClient, fmt.Errorf("setup opensearch indices: %w", err)
	}

	return osClient, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// IsEnabled returns whether OpenSearch logging is enabled
func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

// TransactionIndexName returns the monthly transaction index for t
func TransactionIndexName(t time.Time) string {
	return transactionsTpl + "-" + t.UTC().Format("2006.01")
}

// SystemIndexName returns the system log index
func SystemIndexName() string {
	return systemLogsIndex
}

// setupIndices installs the transaction index template and creates the
// system log index
func (c *Client) setupIndices(ctx context.Context) error {
	tpl := opensearchapi.IndicesPutIndexTemplateRequest{
		Name: transactionsTpl,
		Body: strings.NewReader(transactionTemplate),
	}
	res, err := tpl.Do(ctx, c.client)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index template error: %s", res.String())
	}

	exists, err := c.indexExists(ctx, systemLogsIndex)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.createIndex(ctx, systemLogsIndex, systemMapping)
}

func (c *Client) indexExists(ctx context.Context, indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK, nil
}

func (c *Client) createIndex(ctx context.Context, indexName, mapping string) error {
	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation error: %s", res.String())
	}

	return nil
}

const transactionTemplate = `{
	"index_patterns": ["gopos-transactions-*"],
	"template": {
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		},
		"mappings": {
			"properties": {
				"timestamp":     {"type": "date"},
				"request_id":    {"type": "keyword"},
				"gateway_type":  {"type": "keyword"},
				"bank_code":     {"type": "keyword"},
				"action":        {"type": "keyword"},
				"order_id":      {"type": "keyword"},
				"outcome":       {"type": "keyword"},
				"success":       {"type": "boolean"},
				"error_code":    {"type": "keyword"},
				"error_message": {"type": "text"},
				"duration_ms":   {"type": "long"}
			}
		}
	}
}`

const systemMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"timestamp":   {"type": "date"},
			"level":       {"type": "keyword"},
			"message":     {"type": "text"},
			"component":   {"type": "keyword"},
			"gateway":     {"type": "keyword"},
			"request_id":  {"type": "keyword"},
			"error":       {"type": "text"},
			"environment": {"type": "keyword"},
			"service":     {"type": "keyword"}
		}
	}
}`
