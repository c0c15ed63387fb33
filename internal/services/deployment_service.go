package services

import (
	"errors"

	"github.com/rxtech-lab/contract-deployer/internal/models"
	"gorm.io/gorm"
)

type DeploymentService interface {
	CreateDeployment(deployment *models.Deployment) error
	GetDeploymentByID(id uint) (*models.Deployment, error)
	GetDeploymentByTransactionHash(txHash string) (*models.Deployment, error)
	GetDeploymentByContractAddress(chainID uint64, contractAddress string) (*models.Deployment, error)
	ListDeployments() ([]models.Deployment, error)
	ListDeploymentsByNetwork(network string) ([]models.Deployment, error)
	ListDeploymentsByRun(runID string) ([]models.Deployment, error)
	FindConfirmedFuture(chainID uint64, moduleID, futureID string) (*models.Deployment, error)
	UpdateDeploymentStatus(txHash string, status models.TransactionStatus, contractAddress string) error
	SetImplementationAddress(txHash string, implementationAddress string) error
	DeleteDeployment(id uint) error
}

// deploymentService handles deployment record operations
type deploymentService struct {
	db *gorm.DB
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(db *gorm.DB) DeploymentService {
	return &deploymentService{db: db}
}

// CreateDeployment creates a new deployment
func (s *deploymentService) CreateDeployment(deployment *models.Deployment) error {
	return s.db.Create(deployment).Error
}

// GetDeploymentByID returns a deployment by its ID
func (s *deploymentService) GetDeploymentByID(id uint) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.First(&deployment, id).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// GetDeploymentByTransactionHash returns a deployment by its transaction hash
func (s *deploymentService) GetDeploymentByTransactionHash(txHash string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Where("transaction_hash = ?", txHash).First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// GetDeploymentByContractAddress returns the latest deployment at an address on a chain
func (s *deploymentService) GetDeploymentByContractAddress(chainID uint64, contractAddress string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Where("chain_id = ? AND contract_address = ?", chainID, contractAddress).
		Order("id desc").
		First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ListDeployments returns all deployments
func (s *deploymentService) ListDeployments() ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := s.db.Order("id").Find(&deployments).Error
	return deployments, err
}

// ListDeploymentsByNetwork returns all deployments made on a named network
func (s *deploymentService) ListDeploymentsByNetwork(network string) ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := s.db.Where("network = ?", network).Order("id").Find(&deployments).Error
	return deployments, err
}

// ListDeploymentsByRun returns the deployments of one command invocation
func (s *deploymentService) ListDeploymentsByRun(runID string) ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := s.db.Where("run_id = ?", runID).Order("id").Find(&deployments).Error
	return deployments, err
}

// FindConfirmedFuture returns the confirmed deployment of a module future on
// a chain, or nil when the future has not been deployed there yet.
func (s *deploymentService) FindConfirmedFuture(chainID uint64, moduleID, futureID string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Where("chain_id = ? AND module_id = ? AND future_id = ? AND status = ?",
		chainID, moduleID, futureID, models.TransactionStatusConfirmed).
		Order("id desc").
		First(&deployment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// UpdateDeploymentStatus updates the status of a deployment
func (s *deploymentService) UpdateDeploymentStatus(txHash string, status models.TransactionStatus, contractAddress string) error {
	updates := map[string]any{
		"status": status,
	}
	if contractAddress != "" {
		updates["contract_address"] = contractAddress
	}

	return s.db.Model(&models.Deployment{}).Where("transaction_hash = ?", txHash).Updates(updates).Error
}

// SetImplementationAddress links a proxy deployment to its logic contract
func (s *deploymentService) SetImplementationAddress(txHash string, implementationAddress string) error {
	return s.db.Model(&models.Deployment{}).
		Where("transaction_hash = ?", txHash).
		Update("implementation_address", implementationAddress).Error
}

// DeleteDeployment deletes a deployment by its ID
func (s *deploymentService) DeleteDeployment(id uint) error {
	return s.db.Delete(&models.Deployment{}, id).Error
}
