// Package etherscan is a client for the Etherscan V2 API, used for wallet
// forensics: wallet age, transaction count and circular-funding checks.
package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/GemFund/gemini-service/internal/apperr"
	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/retry"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultBaseURL = "https://api.etherscan.io/v2/api"

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// Client talks to the Etherscan API
type Client struct {
	baseURL    string
	apiKey     string
	chainID    int
	httpClient *http.Client
	executor   retry.Executor
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a new Etherscan client
func NewClient(apiKey string, chainID, maxAttempts int, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		chainID:    chainID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		executor:   retry.NewExecutor(maxAttempts),
		logger:     logger,
		now:        time.Now,
	}
}

// IsValidAddress reports whether address is a syntactically valid EVM address.
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(strings.TrimSpace(address))
}

type transaction struct {
	TimeStamp string `json:"timeStamp"`
	From      string `json:"from"`
}

// txEnvelope follows the Etherscan convention: status "1" is success, any
// other value means "no data" unless the HTTP layer itself failed.
type txEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type balanceEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

type nonceEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Result  string `json:"result"`
}

func (c *Client) query(params url.Values) string {
	params.Set("chainid", strconv.Itoa(c.chainID))
	params.Set("apikey", c.apiKey)
	return c.baseURL + "?" + params.Encode()
}

func (c *Client) getJSON(ctx context.Context, rawURL string, op string, target any) error {
	resp, err := c.executor.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return apperr.Wrap(apperr.KindBlockchain, "etherscan", op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return apperr.New(apperr.KindRateLimited, "etherscan", op, "rate limited after retries")
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return apperr.New(apperr.KindBlockchain, "etherscan", op,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return apperr.Wrap(apperr.KindBlockchain, "etherscan", op, "failed to decode response", err)
	}
	return nil
}

// firstTransaction fetches the single earliest transaction of an address,
// or nil when the address has no history.
func (c *Client) firstTransaction(ctx context.Context, address string) (*transaction, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", "1")
	params.Set("sort", "asc")

	var envelope txEnvelope
	if err := c.getJSON(ctx, c.query(params), "txlist", &envelope); err != nil {
		return nil, err
	}

	if envelope.Status != "1" {
		return nil, nil
	}

	var txs []transaction
	if err := json.Unmarshal(envelope.Result, &txs); err != nil {
		return nil, apperr.Wrap(apperr.KindBlockchain, "etherscan", "txlist", "failed to parse transaction list", err)
	}
	if len(txs) == 0 {
		return nil, nil
	}
	return &txs[0], nil
}

func (c *Client) balance(ctx context.Context, address string) (string, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "balance")
	params.Set("address", address)
	params.Set("tag", "latest")

	var envelope balanceEnvelope
	if err := c.getJSON(ctx, c.query(params), "balance", &envelope); err != nil {
		return "", err
	}
	if envelope.Result == "" {
		return "0", nil
	}
	return envelope.Result, nil
}

func (c *Client) nonce(ctx context.Context, address string) (uint, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getTransactionCount")
	params.Set("address", address)
	params.Set("tag", "latest")

	var envelope nonceEnvelope
	if err := c.getJSON(ctx, c.query(params), "nonce", &envelope); err != nil {
		return 0, err
	}
	if envelope.Result == "" {
		return 0, nil
	}

	n, err := strconv.ParseUint(strings.TrimPrefix(envelope.Result, "0x"), 16, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindBlockchain, "etherscan", "nonce", "failed to parse nonce", err)
	}
	return uint(n), nil
}

// WalletHistory derives nonce, age and balance for a wallet. The transaction
// list and balance queries run concurrently, then the nonce query follows.
func (c *Client) WalletHistory(ctx context.Context, address string) (*models.WalletHistory, error) {
	if !IsValidAddress(address) {
		return nil, apperr.New(apperr.KindValidation, "etherscan", "wallet_history", "invalid address").With("address", address)
	}
	address = strings.TrimSpace(address)

	var firstTx *transaction
	var balance string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tx, err := c.firstTransaction(gctx, address)
		firstTx = tx
		return err
	})
	g.Go(func() error {
		b, err := c.balance(gctx, address)
		balance = b
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	history := &models.WalletHistory{Balance: balance}
	if firstTx != nil {
		ts, err := strconv.ParseInt(firstTx.TimeStamp, 10, 64)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindBlockchain, "etherscan", "wallet_history", "failed to parse first tx timestamp", err)
		}
		first := time.Unix(ts, 0)
		history.FirstTxDate = first.UTC().Format(time.RFC3339)
		if age := c.now().Sub(first); age > 0 {
			history.AgeHours = uint(age / time.Hour)
		}
	}

	nonce, err := c.nonce(ctx, address)
	if err != nil {
		return nil, err
	}
	history.Nonce = nonce

	c.logger.Debug("Fetched wallet history",
		zap.String("address", address),
		zap.Uint("nonce", history.Nonce),
		zap.Uint("age_hours", history.AgeHours))

	return history, nil
}

// DetectWashTrading checks whether the campaign creator was the first funder
// of each donor wallet. Donor lookups that fail are skipped, not fatal; the
// score is the rounded percentage of flagged donors among those checked.
func (c *Client) DetectWashTrading(ctx context.Context, creatorAddress string, donorAddresses []string) (*models.WashTradingResult, error) {
	if !IsValidAddress(creatorAddress) {
		return nil, apperr.New(apperr.KindValidation, "etherscan", "wash_trading", "invalid creator address").With("address", creatorAddress)
	}

	toCheck := donorAddresses
	if len(toCheck) > 5 {
		toCheck = toCheck[:5]
	}

	result := &models.WashTradingResult{
		FlaggedDonors: []string{},
		TotalChecked:  len(toCheck),
	}

	for _, donor := range toCheck {
		firstTx, err := c.firstTransaction(ctx, donor)
		if err != nil {
			c.logger.Warn("Skipping donor, lookup failed", zap.String("donor", donor), zap.Error(err))
			continue
		}
		if firstTx != nil && strings.EqualFold(firstTx.From, creatorAddress) {
			result.FlaggedDonors = append(result.FlaggedDonors, donor)
		}
	}

	if result.TotalChecked > 0 {
		result.Score = int(float64(len(result.FlaggedDonors))/float64(result.TotalChecked)*100 + 0.5)
	}

	return result, nil
}
