package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codename-B/OneText/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, errors.ExitOK},
		{"plain_error", stderrors.New("boom"), errors.ExitFailure},
		{"manifest_invalid", errors.New(errors.ErrManifestInvalid, "x"), errors.ExitConfiguration},
		{"unknown_task", errors.New(errors.ErrTaskUnknown, "x"), errors.ExitConfiguration},
		{"session_lock", errors.New(errors.ErrSessionLock, "x"), errors.ExitPrivilege},
		{"privilege", errors.New(errors.ErrPrivilege, "x"), errors.ExitPrivilege},
		{"file_copy", errors.New(errors.ErrFileCopy, "x"), errors.ExitDeployment},
		{"payload_missing", errors.New(errors.ErrPayloadMissing, "x"), errors.ExitDeployment},
		{"store_write", errors.New(errors.ErrStoreWrite, "x"), errors.ExitIntegration},
		{"journal_write", errors.New(errors.ErrJournalWrite, "x"), errors.ExitIntegration},
		{"not_installed", errors.New(errors.ErrNotInstalled, "x"), errors.ExitIntegration},
		{"internal", errors.New(errors.ErrInternal, "x"), errors.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.ExitCode(tt.err))
		})
	}
}

func TestExitCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("install: %w", errors.New(errors.ErrPrivilege, "not elevated"))
	assert.Equal(t, errors.ExitPrivilege, errors.ExitCode(err))
}
