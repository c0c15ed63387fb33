package services

import (
	"github.com/rxtech-lab/contract-deployer/internal/models"
)

type HookService interface {
	AddHook(hook Hook) error
	OnTransactionConfirmed(kind models.DeploymentKind, txHash string, contractAddress string) error
	OnTransactionFailed(kind models.DeploymentKind, txHash string) error
}

type hookService struct {
	hooks []Hook
}

func NewHookService() HookService {
	return &hookService{
		hooks: []Hook{},
	}
}

func (h *hookService) AddHook(hook Hook) error {
	h.hooks = append(h.hooks, hook)
	return nil
}

func (h *hookService) OnTransactionConfirmed(kind models.DeploymentKind, txHash string, contractAddress string) error {
	for _, hook := range h.hooks {
		if hook.CanHandle(kind) {
			if err := hook.OnTransactionConfirmed(kind, txHash, contractAddress); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *hookService) OnTransactionFailed(kind models.DeploymentKind, txHash string) error {
	for _, hook := range h.hooks {
		if hook.CanHandle(kind) {
			if err := hook.OnTransactionFailed(kind, txHash); err != nil {
				return err
			}
		}
	}
	return nil
}
