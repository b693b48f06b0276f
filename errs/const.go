package errs

const (
	ErrCode_OK                = 0
	ErrCode_Unknown           = 1
	ErrCode_InvalidInterval   = 2
	ErrCode_InvalidCallback   = 3
	ErrCode_ConflictingId     = 4
	ErrCode_DuplicateCallback = 5
	ErrCode_ManagerClosed     = 6
)

var (
	Unknown           = CreateCodeError(ErrCode_Unknown, "UNKNOWN")
	InvalidInterval   = CreateCodeError(ErrCode_InvalidInterval, "TIMER_INVALID_INTERVAL")
	InvalidCallback   = CreateCodeError(ErrCode_InvalidCallback, "TIMER_INVALID_CALLBACK")
	ConflictingId     = CreateCodeError(ErrCode_ConflictingId, "TIMER_CONFLICTING_ID")
	DuplicateCallback = CreateCodeError(ErrCode_DuplicateCallback, "TIMER_DUPLICATE_CALLBACK")
	ManagerClosed     = CreateCodeError(ErrCode_ManagerClosed, "TIMER_MANAGER_CLOSED")
)
