package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// ErrMalformed is wrapped by every validation failure.
var ErrMalformed = errors.New("levels: malformed level")

// EmptyTile is the kind assigned to every cell the document does not list.
const EmptyTile = "air"

type Level struct {
	Name       string     `json:"-"`
	Attributes Attributes `json:"attributes"`
	Tiles      []Tile     `json:"tiles"`
}

type Attributes struct {
	LevelSize        int      `json:"level_size"`
	LevelHeight      int      `json:"level_height"`
	BackgroundImages []string `json:"background_images"`
}

type Tile struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// LoadLevelFromFS reads a level document from the embedded levels.
func LoadLevelFromFS(name string) (*Level, error) {
	return LoadLevel(LevelsFS, name)
}

// LoadLevel reads and validates a level document from fsys.
func LoadLevel(fsys fs.FS, name string) (*Level, error) {
	clean := cleanLevelName(name)
	data, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", clean, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", clean, err)
	}
	lvl.Name = clean
	return lvl, nil
}

// Parse decodes and validates a level document.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks the level dimensions and that every tile lies inside them.
// Tile kinds are not checked here; unknown kinds load as empty cells.
func (l *Level) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil level", ErrMalformed)
	}
	if l.Attributes.LevelSize <= 0 {
		return fmt.Errorf("%w: level_size must be positive, got %d", ErrMalformed, l.Attributes.LevelSize)
	}
	if l.Attributes.LevelHeight <= 0 {
		return fmt.Errorf("%w: level_height must be positive, got %d", ErrMalformed, l.Attributes.LevelHeight)
	}
	for i, t := range l.Tiles {
		if t.X < 0 || t.X >= l.Attributes.LevelSize || t.Y < 0 || t.Y >= l.Attributes.LevelHeight {
			return fmt.Errorf("%w: tile %d (%s) at (%d,%d) outside %dx%d", ErrMalformed, i, t.Type, t.X, t.Y, l.Attributes.LevelSize, l.Attributes.LevelHeight)
		}
	}
	return nil
}

// Grid expands the sparse tile list into a column-major grid of tile kinds.
// Cells not listed hold EmptyTile. Later entries overwrite earlier ones.
func (l *Level) Grid() [][]string {
	if l == nil {
		return nil
	}
	grid := make([][]string, l.Attributes.LevelSize)
	for col := range grid {
		column := make([]string, l.Attributes.LevelHeight)
		for row := range column {
			column[row] = EmptyTile
		}
		grid[col] = column
	}
	for _, t := range l.Tiles {
		grid[t.X][t.Y] = t.Type
	}
	return grid
}

// List returns the embedded level file names in lexical order.
func List() ([]string, error) {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func cleanLevelName(name string) string {
	s := strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "levels/")
	if path.Ext(s) == "" {
		s += ".json"
	}
	return s
}

// FileName returns the embedded file name for a level given with or without
// its directory and extension.
func FileName(name string) string {
	return cleanLevelName(name)
}
