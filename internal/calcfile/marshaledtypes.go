package calcfile

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelData is the top-level structure containing all keys in a complete
// TQC 'DATA' type file.
type topLevelData struct {
	Format    string     `toml:"format"`
	Type      string     `toml:"type"`
	Calc      settings   `toml:"calc"`
	Vars      []variable `toml:"var"`
	Functions []function `toml:"function"`
}

type settings struct {
	MaxDepth int `toml:"max_depth"`
}

type variable struct {
	Name  string `toml:"name"`
	Value any    `toml:"value"` // int64, float64, bool, or string once decoded
}

type function struct {
	Name    string   `toml:"name"`
	Returns string   `toml:"returns"`
	Params  []string `toml:"params"`
	Script  string   `toml:"script"`
	Entry   string   `toml:"entry"`

	source string
}
