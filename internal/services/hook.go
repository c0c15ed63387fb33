package services

import "github.com/rxtech-lab/contract-deployer/internal/models"

// Hook is used to perform actions when a deployment transaction settles, based on the deployment kind
type Hook interface {
	// CanHandle is used to check if the hook can handle the deployment kind
	CanHandle(kind models.DeploymentKind) bool
	// OnTransactionConfirmed is called when a deployment transaction is mined successfully
	OnTransactionConfirmed(kind models.DeploymentKind, txHash string, contractAddress string) error
	// OnTransactionFailed is called when a deployment transaction reverted or was never deployed
	OnTransactionFailed(kind models.DeploymentKind, txHash string) error
}
