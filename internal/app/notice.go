package app

// Level is the severity of a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notice is a transient user-facing message. The zero value means nothing
// to report.
type Notice struct {
	Level   Level
	Message string
}

func (n Notice) IsZero() bool { return n.Message == "" }

func success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

const (
	MsgTaskRequired   = "Please enter a task."
	MsgPeriodRequired = "Please enter a period."
	MsgNameRequired   = "Please enter a name."
	MsgAdded          = "Task added."
	MsgUpdated        = "Task updated."
	MsgDeleted        = "Task deleted."
	MsgCleared        = "All tasks deleted."
	MsgProfileSaved   = "Profile saved."
	MsgEditGone       = "The task being edited no longer exists."
	MsgLoadFailed     = "Could not load saved data."
	MsgSaveFailed     = "Could not save data."

	ClearPrompt = "Delete all tasks? This cannot be undone."
)
