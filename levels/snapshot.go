package levels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilegrid/tilemap"
	"gopkg.in/yaml.v3"
)

// Format selects the text encoding of a level file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatForPath picks JSON for .json files and YAML for everything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Pos is a serialized tile position.
type Pos struct {
	X uint32 `yaml:"x" json:"x"`
	Y uint32 `yaml:"y" json:"y"`
}

// Flip is a serialized flip set. It is omitted from files when no flag is set.
type Flip struct {
	X bool `yaml:"x" json:"x"`
	Y bool `yaml:"y" json:"y"`
	D bool `yaml:"d" json:"d"`
}

// Tile is one occupied cell in a Snapshot.
type Tile struct {
	Pos  Pos    `yaml:"pos" json:"pos"`
	ID   uint32 `yaml:"id" json:"id"`
	Flip *Flip  `yaml:"flip,omitempty" json:"flip,omitempty"`
}

// Snapshot is the saved content of one layer.
type Snapshot struct {
	Tiles []Tile `yaml:"tiles" json:"tiles"`
}

func tileFromProperties(pos tilemap.TilePos, props tilemap.TileProperties) Tile {
	t := Tile{
		Pos: Pos{X: pos.X, Y: pos.Y},
		ID:  uint32(props.ID),
	}
	if !props.Flip.IsDefault() {
		t.Flip = &Flip{X: props.Flip.X, Y: props.Flip.Y, D: props.Flip.D}
	}
	return t
}

// TilePos returns the store position of t.
func (t Tile) TilePos() tilemap.TilePos {
	return tilemap.TilePos{X: t.Pos.X, Y: t.Pos.Y}
}

// Properties returns the tile record of t.
func (t Tile) Properties() tilemap.TileProperties {
	props := tilemap.TileProperties{ID: tilemap.TileTextureIndex(t.ID)}
	if t.Flip != nil {
		props.Flip = tilemap.TileFlip{X: t.Flip.X, Y: t.Flip.Y, D: t.Flip.D}
	}
	return props
}

// Marshal encodes s in the given format.
func Marshal(s Snapshot, format Format) ([]byte, error) {
	if s.Tiles == nil {
		s.Tiles = []Tile{}
	}
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("levels: encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("levels: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("levels: encode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("levels: unsupported format %d", format)
	}
	return buf.Bytes(), nil
}

// rawSnapshot mirrors Snapshot with pointer fields so required keys can be
// told apart from zero values.
type rawSnapshot struct {
	Tiles []rawTile `yaml:"tiles" json:"tiles"`
}

type rawTile struct {
	Pos  *rawPos `yaml:"pos" json:"pos"`
	ID   *uint32 `yaml:"id" json:"id"`
	Flip *Flip   `yaml:"flip" json:"flip"`
}

type rawPos struct {
	X *uint32 `yaml:"x" json:"x"`
	Y *uint32 `yaml:"y" json:"y"`
}

func (r rawSnapshot) snapshot() (Snapshot, error) {
	if r.Tiles == nil {
		return Snapshot{}, fmt.Errorf("%w: missing tiles", ErrParseLevel)
	}
	s := Snapshot{Tiles: make([]Tile, 0, len(r.Tiles))}
	for i, t := range r.Tiles {
		switch {
		case t.Pos == nil:
			return Snapshot{}, fmt.Errorf("%w: tile %d: missing pos", ErrParseLevel, i)
		case t.Pos.X == nil || t.Pos.Y == nil:
			return Snapshot{}, fmt.Errorf("%w: tile %d: pos needs x and y", ErrParseLevel, i)
		case t.ID == nil:
			return Snapshot{}, fmt.Errorf("%w: tile %d: missing id", ErrParseLevel, i)
		}
		s.Tiles = append(s.Tiles, Tile{
			Pos:  Pos{X: *t.Pos.X, Y: *t.Pos.Y},
			ID:   *t.ID,
			Flip: t.Flip,
		})
	}
	return s, nil
}

// Unmarshal decodes a snapshot. The document must be a single value with
// every tile carrying pos and id. Unknown fields are rejected so a file from
// a different schema is not mistaken for an empty level.
func Unmarshal(data []byte, format Format) (Snapshot, error) {
	var raw rawSnapshot
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return Snapshot{}, fmt.Errorf("%w: empty document", ErrParseLevel)
			}
			return Snapshot{}, fmt.Errorf("%w: %v", ErrParseLevel, err)
		}
		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return Snapshot{}, fmt.Errorf("%w: trailing data after level", ErrParseLevel)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return Snapshot{}, fmt.Errorf("%w: empty document", ErrParseLevel)
			}
			return Snapshot{}, fmt.Errorf("%w: %v", ErrParseLevel, err)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return Snapshot{}, fmt.Errorf("%w: more than one document", ErrParseLevel)
		}
	default:
		return Snapshot{}, fmt.Errorf("%w: unsupported format %d", ErrParseLevel, format)
	}
	return raw.snapshot()
}
