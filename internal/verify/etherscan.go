package verify

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL      = "https://api.etherscan.io/v2/api"
	DefaultPollInterval = 5 * time.Second

	codeFormatStandardJSON = "solidity-standard-json-input"
)

var (
	ErrAlreadyVerified    = errors.New("contract source code already verified")
	ErrVerificationFailed = errors.New("verification failed")
	ErrAPI                = errors.New("etherscan api error")
)

// Client talks to the Etherscan v2 multichain API.
type Client struct {
	APIKey       string
	BaseURL      string
	HTTP         *http.Client
	PollInterval time.Duration
	Log          *zap.Logger
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:       apiKey,
		BaseURL:      DefaultBaseURL,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
		PollInterval: DefaultPollInterval,
		Log:          zap.NewNop(),
	}
}

// Request describes one contract to verify.
type Request struct {
	ChainID uint64
	Address common.Address
	// ContractName is fully qualified, "contracts/Treasury.sol:Treasury".
	ContractName string
	// CompilerVersion is the solc long version, "v0.8.25+commit.b61c2a91".
	CompilerVersion string
	StandardInput   []byte
	ConstructorArgs []byte
}

// Status is the state of a submitted verification.
type Status struct {
	Pending  bool
	Verified bool
	Message  string
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// VerifySource submits the standard JSON input of a contract and returns
// the GUID to poll. A contract that is already verified yields
// ErrAlreadyVerified.
func (c *Client) VerifySource(ctx context.Context, req Request) (string, error) {
	form := url.Values{}
	form.Set("apikey", c.APIKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", req.Address.Hex())
	form.Set("sourceCode", string(req.StandardInput))
	form.Set("codeformat", codeFormatStandardJSON)
	form.Set("contractname", req.ContractName)
	form.Set("compilerversion", req.CompilerVersion)
	if len(req.ConstructorArgs) > 0 {
		// the API spells it this way
		form.Set("constructorArguements", hex.EncodeToString(req.ConstructorArgs))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(req.ChainID, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	if resp.Status != "1" {
		if isAlreadyVerified(resp.Result) {
			return "", ErrAlreadyVerified
		}
		return "", fmt.Errorf("%w: %s: %s", ErrAPI, resp.Message, resp.Result)
	}

	c.Log.Info("verification submitted", zap.String("address", req.Address.Hex()), zap.String("guid", resp.Result))
	return resp.Result, nil
}

// CheckStatus returns the state of the verification identified by guid.
func (c *Client) CheckStatus(ctx context.Context, chainID uint64, guid string) (Status, error) {
	query := url.Values{}
	query.Set("apikey", c.APIKey)
	query.Set("module", "contract")
	query.Set("action", "checkverifystatus")
	query.Set("guid", guid)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(chainID, query), nil)
	if err != nil {
		return Status{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return Status{}, err
	}

	switch {
	case strings.HasPrefix(resp.Result, "Pending"):
		return Status{Pending: true, Message: resp.Result}, nil
	case strings.HasPrefix(resp.Result, "Pass") || isAlreadyVerified(resp.Result):
		return Status{Verified: true, Message: resp.Result}, nil
	case resp.Status == "1":
		return Status{Verified: true, Message: resp.Result}, nil
	default:
		return Status{Message: resp.Result}, nil
	}
}

// Wait polls guid until verification passes or fails, or ctx is done.
func (c *Client) Wait(ctx context.Context, chainID uint64, guid string) error {
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		status, err := c.CheckStatus(ctx, chainID, guid)
		if err != nil {
			return err
		}
		if status.Verified {
			return nil
		}
		if !status.Pending {
			return fmt.Errorf("%w: %s", ErrVerificationFailed, status.Message)
		}
		c.Log.Debug("verification pending", zap.String("guid", guid))

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for verification %s: %w", guid, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Verify submits req and waits for the outcome. Already verified contracts
// count as verified.
func (c *Client) Verify(ctx context.Context, req Request) error {
	guid, err := c.VerifySource(ctx, req)
	if errors.Is(err, ErrAlreadyVerified) {
		c.Log.Info("contract already verified", zap.String("address", req.Address.Hex()))
		return nil
	}
	if err != nil {
		return err
	}
	return c.Wait(ctx, req.ChainID, guid)
}

func (c *Client) endpoint(chainID uint64, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("chainid", strconv.FormatUint(chainID, 10))
	return c.BaseURL + "?" + query.Encode()
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	httpResp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("etherscan request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read etherscan response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrAPI, httpResp.StatusCode, string(body))
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode etherscan response: %w", err)
	}
	return &resp, nil
}

func isAlreadyVerified(result string) bool {
	return strings.Contains(strings.ToLower(result), "already verified")
}
