package models

// ToolSchema declares a tool to the reasoning capability: its name, what it
// does, and the closed set of mood labels the decision may carry.
type ToolSchema struct {
	Name        string
	Description string
	Moods       []string
}

// Decision is the reasoning step's verdict for one turn: either invoke the
// declared tool for the inferred mood, or reply directly.
type Decision struct {
	UseTool bool
	Mood    string
	Reply   string
}
