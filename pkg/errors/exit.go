package errors

// Process exit codes. Scripts drive unattended installs off these, so the
// mapping is part of the CLI contract and must stay stable.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitPrivilege     = 3
	ExitDeployment    = 4
	ExitIntegration   = 5
)

// ExitCode maps an error to the process exit code for its failure family.
// A nil error maps to ExitOK. Errors without a SetupError in their chain
// map to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrManifestLoad, ErrManifestParse,
		ErrManifestInvalid, ErrTaskUnknown, ErrInvalidInput:
		return ExitConfiguration
	case ErrPrivilege, ErrSessionLock:
		return ExitPrivilege
	case ErrPayloadMissing, ErrPayloadExtract, ErrFileCopy, ErrDirCreate,
		ErrShortcutWrite:
		return ExitDeployment
	case ErrStoreRead, ErrStoreWrite, ErrJournalWrite, ErrJournalRead,
		ErrNotInstalled, ErrStoreBackend:
		return ExitIntegration
	}
	return ExitFailure
}
