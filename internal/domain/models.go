package domain

// ActionKind tells the launcher how to interpret an Action target
type ActionKind string

const (
	ActionExec    ActionKind = "exec"    // run a command line
	ActionOpen    ActionKind = "open"    // open a file or directory with the desktop handler
	ActionURL     ActionKind = "url"     // open a URL
	ActionBuiltin ActionKind = "builtin" // handled inside the launcher itself
)

// Action describes what happens when an entry is executed.
// The search core carries it around without looking inside.
type Action struct {
	Kind   ActionKind
	Target string // command line, path, URL or builtin name
	Dir    string // working directory for exec actions, optional
}

// CatalogEntry is one searchable item
type CatalogEntry struct {
	ID         string
	Title      string
	Subtitle   string
	Keywords   []string
	Action     Action
	BaseWeight float64 // prior importance in [0,1]
	Source     string  // which discovery source produced it ("builtin", "desktop", "path")
}

// Valid reports whether the entry can be indexed
func (e CatalogEntry) Valid() bool {
	return e.ID != "" && e.Title != "" && e.BaseWeight >= 0 && e.BaseWeight <= 1
}

// Builtin action names
const (
	BuiltinQuit       = "quit"
	BuiltinReload     = "reload"
	BuiltinConfigPath = "config-path"
)
