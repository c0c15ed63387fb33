package services_test

import (
	"fmt"
	"testing"

	"github.com/rxtech-lab/contract-deployer/internal/models"
	"github.com/rxtech-lab/contract-deployer/internal/services"
	"github.com/stretchr/testify/suite"
)

// mockHook implements the Hook interface for testing
type mockHook struct {
	name             string
	supportedKinds   []models.DeploymentKind
	callCount        int
	failCount        int
	lastKind         models.DeploymentKind
	lastTxHash       string
	lastContractAddr string
	shouldError      bool
	errorMessage     string
}

func newMockHook(name string, supportedKinds ...models.DeploymentKind) *mockHook {
	return &mockHook{
		name:           name,
		supportedKinds: supportedKinds,
	}
}

func (m *mockHook) CanHandle(kind models.DeploymentKind) bool {
	for _, supported := range m.supportedKinds {
		if supported == kind {
			return true
		}
	}
	return false
}

func (m *mockHook) OnTransactionConfirmed(kind models.DeploymentKind, txHash string, contractAddress string) error {
	m.callCount++
	m.lastKind = kind
	m.lastTxHash = txHash
	m.lastContractAddr = contractAddress

	if m.shouldError {
		return fmt.Errorf("%s", m.errorMessage)
	}
	return nil
}

func (m *mockHook) OnTransactionFailed(kind models.DeploymentKind, txHash string) error {
	m.failCount++
	m.lastKind = kind
	m.lastTxHash = txHash

	if m.shouldError {
		return fmt.Errorf("%s", m.errorMessage)
	}
	return nil
}

type HookServiceTestSuite struct {
	suite.Suite
	hookService services.HookService
}

func (suite *HookServiceTestSuite) SetupTest() {
	// Create a fresh service for each test to avoid state leakage
	suite.hookService = services.NewHookService()
}

func (suite *HookServiceTestSuite) TestOnTransactionConfirmed() {
	contractHook := newMockHook("contract", models.DeploymentKindContract)
	proxyHook := newMockHook("proxy", models.DeploymentKindProxy)
	allHook := newMockHook("all", models.DeploymentKindContract, models.DeploymentKindImplementation, models.DeploymentKindProxy)

	suite.NoError(suite.hookService.AddHook(contractHook))
	suite.NoError(suite.hookService.AddHook(proxyHook))
	suite.NoError(suite.hookService.AddHook(allHook))

	err := suite.hookService.OnTransactionConfirmed(models.DeploymentKindProxy, "0xProxyTxHash", "0xProxyAddress")
	suite.NoError(err)

	suite.Equal(0, contractHook.callCount)
	suite.Equal(1, proxyHook.callCount)
	suite.Equal(1, allHook.callCount)
	suite.Equal(models.DeploymentKindProxy, proxyHook.lastKind)
	suite.Equal("0xProxyTxHash", proxyHook.lastTxHash)
	suite.Equal("0xProxyAddress", proxyHook.lastContractAddr)

	err = suite.hookService.OnTransactionConfirmed(models.DeploymentKindImplementation, "0xImplTxHash", "0xImpl")
	suite.NoError(err)
	suite.Equal(1, proxyHook.callCount)
	suite.Equal(2, allHook.callCount)
}

func (suite *HookServiceTestSuite) TestOnTransactionFailed() {
	hook := newMockHook("contract", models.DeploymentKindContract)
	suite.NoError(suite.hookService.AddHook(hook))

	suite.NoError(suite.hookService.OnTransactionFailed(models.DeploymentKindContract, "0xFailed"))
	suite.Equal(1, hook.failCount)
	suite.Equal(0, hook.callCount)
	suite.Equal("0xFailed", hook.lastTxHash)
}

func (suite *HookServiceTestSuite) TestHookErrorStopsChain() {
	failing := newMockHook("failing", models.DeploymentKindContract)
	failing.shouldError = true
	failing.errorMessage = "hook failed"
	after := newMockHook("after", models.DeploymentKindContract)

	suite.NoError(suite.hookService.AddHook(failing))
	suite.NoError(suite.hookService.AddHook(after))

	err := suite.hookService.OnTransactionConfirmed(models.DeploymentKindContract, "0x1", "0x2")
	suite.EqualError(err, "hook failed")
	suite.Equal(1, failing.callCount)
	suite.Equal(0, after.callCount)
}

func (suite *HookServiceTestSuite) TestNoHooks() {
	suite.NoError(suite.hookService.OnTransactionConfirmed(models.DeploymentKindContract, "0x1", "0x2"))
	suite.NoError(suite.hookService.OnTransactionFailed(models.DeploymentKindContract, "0x1"))
}

func TestHookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HookServiceTestSuite))
}
