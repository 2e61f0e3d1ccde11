package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	pathGraphQL    = "/graphql"
	pathCategories = "/graphql/categories"

	// 応答の上限（壊れたサーバー対策）
	maxResponseBytes = 8 << 20
)

// GraphQLカタログのクライアント
type Client struct {
	baseURL string
	http    *http.Client
	signer  *TokenSigner
	log     *logger.Logger

	// 同時に飛んだ同じ読み取りクエリは1回にまとめる
	reads singleflight.Group
}

// signer は nil 可（認証なし）
func NewClient(baseURL string, timeout time.Duration, signer *TokenSigner, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		signer:  signer,
		log:     log.With("component", "CatalogClient"),
	}
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do は読み取りクエリを投げて data を out にデコードする
func (c *Client) do(ctx context.Context, path string, query string, vars map[string]interface{}, out interface{}) error {
	key, err := readKey(path, query, vars)
	if err != nil {
		return err
	}

	v, err, shared := c.reads.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, path, query, vars)
	})
	if err != nil {
		return err
	}
	if shared {
		c.log.Debug("catalog read shared", "path", path)
	}
	return decodeData(v.(json.RawMessage), out)
}

// mutate は書き込み系（注文）。まとめずに毎回送る。
func (c *Client) mutate(ctx context.Context, path string, query string, vars map[string]interface{}, out interface{}) error {
	data, err := c.fetch(ctx, path, query, vars)
	if err != nil {
		return err
	}
	return decodeData(data, out)
}

func readKey(path string, query string, vars map[string]interface{}) (string, error) {
	// map のキーは encoding/json がソートするので同じ変数なら同じキーになる
	raw, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return "", err
	}
	return path + "\n" + string(raw), nil
}

func (c *Client) fetch(ctx context.Context, path string, query string, vars map[string]interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if c.signer != nil {
		token, err := c.signer.Sign()
		if err != nil {
			return nil, fmt.Errorf("sign catalog token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("catalog request failed", "request_id", requestID, "path", path, "error", err)
		return nil, err
	}
	defer res.Body.Close()

	c.log.Debug("catalog request",
		"request_id", requestID,
		"path", path,
		"status", res.StatusCode,
		"elapsed_ms", time.Since(started).Milliseconds(),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes))
		return nil, &StatusError{Status: res.StatusCode}
	}

	var env gqlResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if len(env.Errors) > 0 {
		qe := &QueryError{}
		for _, e := range env.Errors {
			qe.Messages = append(qe.Messages, e.Message)
		}
		return nil, qe
	}
	return env.Data, nil
}

// 共有された結果を呼び出し側ごとにデコードする（out は呼び出し側の持ち物）
func decodeData(data json.RawMessage, out interface{}) error {
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode catalog data: %w", err)
	}
	return nil
}
