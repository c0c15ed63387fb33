package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSON is a custom type for JSON fields
type JSON map[string]any

// Implement the driver.Valuer interface for JSON type
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Implement the sql.Scanner interface for JSON type
func (j *JSON) Scan(value any) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	case nil:
		*j = nil
		return nil
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*j = nil
		return nil
	}

	return json.Unmarshal(bytes, j)
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// DeploymentKind tells plain contracts apart from the two halves of an
// upgradeable proxy deployment.
type DeploymentKind string

const (
	DeploymentKindContract       DeploymentKind = "contract"
	DeploymentKindImplementation DeploymentKind = "implementation"
	DeploymentKindProxy          DeploymentKind = "proxy"
)

// Deployment records one contract creation transaction.
type Deployment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	RunID   string `gorm:"index;type:varchar(36)" json:"run_id"`
	Network string `gorm:"not null;index" json:"network"`
	ChainID uint64 `gorm:"not null;index" json:"chain_id"`
	// ModuleID and FutureID are set for deployments made by a declarative
	// module and are empty for scripts.
	ModuleID              string            `gorm:"index" json:"module_id,omitempty"`
	FutureID              string            `gorm:"index" json:"future_id,omitempty"`
	ContractName          string            `gorm:"not null" json:"contract_name"`
	Kind                  DeploymentKind    `gorm:"not null;default:contract" json:"kind"`
	ContractAddress       string            `json:"contract_address"`
	ImplementationAddress string            `json:"implementation_address,omitempty"`
	TransactionHash       string            `gorm:"uniqueIndex" json:"transaction_hash"`
	DeployerAddress       string            `json:"deployer_address"`
	Args                  JSON              `gorm:"type:text" json:"args"`
	Status                TransactionStatus `gorm:"default:pending" json:"status"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}
