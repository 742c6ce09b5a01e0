package update_test

import (
	"testing"

	"github.com/pverbeek/ganttvoice/internal/domain/update"
	"github.com/stretchr/testify/require"
)

func TestValidateBatch(t *testing.T) {
	err := update.ValidateBatch([]update.ProjectUpdate{
		{ProjectName: "Foundation", NewStartDate: "2025-05-01", NewEndDate: "2025-06-01"},
		{ProjectName: "Rollout"},
	})
	require.NoError(t, err)

	err = update.ValidateBatch([]update.ProjectUpdate{{NewStartDate: "2025-05-01"}})
	require.ErrorIs(t, err, update.ErrInvalidInput)

	require.NoError(t, update.ValidateBatch(nil))
}
