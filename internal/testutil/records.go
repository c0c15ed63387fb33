package testutil

import (
	"testing"

	"github.com/rxtech-lab/contract-deployer/internal/hooks"
	"github.com/rxtech-lab/contract-deployer/internal/services"
	"github.com/stretchr/testify/require"
)

// NewRecords opens an in-memory record store with the record hook attached.
func NewRecords(t *testing.T) (services.DeploymentService, services.HookService) {
	t.Helper()

	db, err := services.NewSqliteDBService(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	records := services.NewDeploymentService(db.GetDB())
	hookService := services.NewHookService()
	require.NoError(t, hookService.AddHook(hooks.NewDeploymentRecordHook(records)))
	return records, hookService
}
