package pkgmanager

// Error reports a failed adapter operation. Err is whatever the subprocess
// layer returned: an *exec.ExitError for a non-zero exit or signal, or a spawn
// failure such as exec.ErrNotFound.
type Error struct {
	Op      Op
	Command CommandSpec
	Err     error
}

func (e *Error) Error() string {
	return failurePrefix(e.Op) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func failurePrefix(op Op) string {
	switch op {
	case OpInit:
		return "Failed to initialize package"
	case OpAdd:
		return "Failed to add dependencies"
	default:
		return "Failed to install dependencies"
	}
}
