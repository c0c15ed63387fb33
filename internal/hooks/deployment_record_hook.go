package hooks

import (
	"github.com/rxtech-lab/contract-deployer/internal/models"
	"github.com/rxtech-lab/contract-deployer/internal/services"
)

// DeploymentRecordHook settles the stored deployment record once its
// creation transaction is mined.
type DeploymentRecordHook struct {
	deploymentService services.DeploymentService
}

// CanHandle implements Hook.
func (h *DeploymentRecordHook) CanHandle(kind models.DeploymentKind) bool {
	return kind == models.DeploymentKindContract ||
		kind == models.DeploymentKindImplementation ||
		kind == models.DeploymentKindProxy
}

// OnTransactionConfirmed implements Hook.
func (h *DeploymentRecordHook) OnTransactionConfirmed(kind models.DeploymentKind, txHash string, contractAddress string) error {
	return h.deploymentService.UpdateDeploymentStatus(txHash, models.TransactionStatusConfirmed, contractAddress)
}

// OnTransactionFailed implements Hook.
func (h *DeploymentRecordHook) OnTransactionFailed(kind models.DeploymentKind, txHash string) error {
	return h.deploymentService.UpdateDeploymentStatus(txHash, models.TransactionStatusFailed, "")
}

func NewDeploymentRecordHook(deploymentService services.DeploymentService) services.Hook {
	return &DeploymentRecordHook{
		deploymentService: deploymentService,
	}
}
