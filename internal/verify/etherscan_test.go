package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEtherscan struct {
	mu       sync.Mutex
	submit   apiResponse
	statuses []apiResponse
	checks   int
	form     map[string]string
	chainIDs []string
}

func (f *fakeEtherscan) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chainIDs = append(f.chainIDs, r.URL.Query().Get("chainid"))
	var resp apiResponse
	switch {
	case r.Method == http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.form = map[string]string{}
		for key := range r.PostForm {
			f.form[key] = r.PostForm.Get(key)
		}
		resp = f.submit
	case r.URL.Query().Get("action") == "checkverifystatus":
		resp = f.statuses[min(f.checks, len(f.statuses)-1)]
		f.checks++
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key")
	client.BaseURL = server.URL
	client.PollInterval = 10 * time.Millisecond
	return client
}

func testRequest() Request {
	return Request{
		ChainID:         97,
		Address:         common.HexToAddress("0x3b22aF7D779f9F717D00380f3dCa2100bAf85EA5"),
		ContractName:    "contracts/NTZC.sol:NTZC",
		CompilerVersion: "v0.8.25+commit.b61c2a91",
		StandardInput:   []byte(`{"language":"Solidity"}`),
		ConstructorArgs: []byte{0x01, 0x02},
	}
}

func TestVerifySource(t *testing.T) {
	fake := &fakeEtherscan{submit: apiResponse{Status: "1", Message: "OK", Result: "guid-1"}}
	client := newTestClient(t, fake)

	guid, err := client.VerifySource(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "guid-1", guid)

	assert.Equal(t, []string{"97"}, fake.chainIDs)
	assert.Equal(t, "test-key", fake.form["apikey"])
	assert.Equal(t, "verifysourcecode", fake.form["action"])
	assert.Equal(t, "solidity-standard-json-input", fake.form["codeformat"])
	assert.Equal(t, "contracts/NTZC.sol:NTZC", fake.form["contractname"])
	assert.Equal(t, "v0.8.25+commit.b61c2a91", fake.form["compilerversion"])
	assert.Equal(t, "0102", fake.form["constructorArguements"])
	assert.Equal(t, `{"language":"Solidity"}`, fake.form["sourceCode"])
}

func TestVerifySourceAlreadyVerified(t *testing.T) {
	fake := &fakeEtherscan{submit: apiResponse{Status: "0", Message: "NOTOK", Result: "Contract source code already verified"}}
	client := newTestClient(t, fake)

	_, err := client.VerifySource(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	assert.NoError(t, client.Verify(context.Background(), testRequest()))
}

func TestVerifySourceAPIError(t *testing.T) {
	fake := &fakeEtherscan{submit: apiResponse{Status: "0", Message: "NOTOK", Result: "Invalid API Key"}}
	client := newTestClient(t, fake)

	_, err := client.VerifySource(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestVerifySourceHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	_, err := client.VerifySource(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrAPI)
}

func TestVerifyWaitsUntilPass(t *testing.T) {
	fake := &fakeEtherscan{
		submit: apiResponse{Status: "1", Message: "OK", Result: "guid-2"},
		statuses: []apiResponse{
			{Status: "0", Message: "NOTOK", Result: "Pending in queue"},
			{Status: "0", Message: "NOTOK", Result: "Pending in queue"},
			{Status: "1", Message: "OK", Result: "Pass - Verified"},
		},
	}
	client := newTestClient(t, fake)

	require.NoError(t, client.Verify(context.Background(), testRequest()))
	assert.Equal(t, 3, fake.checks)
}

func TestWaitFails(t *testing.T) {
	fake := &fakeEtherscan{
		statuses: []apiResponse{{Status: "0", Message: "NOTOK", Result: "Fail - Unable to verify"}},
	}
	client := newTestClient(t, fake)

	err := client.Wait(context.Background(), 11155111, "guid-3")
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, []string{"11155111"}, fake.chainIDs)
}

func TestWaitHonoursContext(t *testing.T) {
	fake := &fakeEtherscan{
		statuses: []apiResponse{{Status: "0", Message: "NOTOK", Result: "Pending in queue"}},
	}
	client := newTestClient(t, fake)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := client.Wait(ctx, 97, "guid-4")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCheckStatusAlreadyVerified(t *testing.T) {
	fake := &fakeEtherscan{
		statuses: []apiResponse{{Status: "0", Message: "NOTOK", Result: "Already Verified"}},
	}
	client := newTestClient(t, fake)

	status, err := client.CheckStatus(context.Background(), 97, "guid-5")
	require.NoError(t, err)
	assert.True(t, status.Verified)
	assert.False(t, status.Pending)
}
