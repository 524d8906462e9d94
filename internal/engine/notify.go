package engine

// Level classifies a user-facing notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// Notifier receives human-readable notices for the UI collaborator.
// Localization is the collaborator's concern.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// nopNotifier drops all notices. Used when no collaborator is attached.
type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}
