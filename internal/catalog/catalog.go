// Package catalog resolves (item name, level) keys to gameplay attributes.
// Skills are items too: a fireball at level 2 is the item "fireball" level 2.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrInvalidItem = errors.New("invalid catalog item")

// Item holds every attribute an item or skill level may carry. Zero means
// "not present" except for Impulse, which defaults to 1.
type Item struct {
	Name  string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Level int    `yaml:"level" json:"level" jsonschema:"required,minimum=1"`
	Cost  int32  `yaml:"cost,omitempty" json:"cost,omitempty" jsonschema:"minimum=0"`

	// Projectile and cast attributes.
	Damage   float32 `yaml:"damage,omitempty" json:"damage,omitempty" jsonschema:"minimum=0"`
	Impulse  float32 `yaml:"impulse,omitempty" json:"impulse,omitempty" jsonschema:"description=Multiplier on the arena knock-back impulse. Defaults to 1."`
	Speed    float32 `yaml:"speed,omitempty" json:"speed,omitempty" jsonschema:"minimum=0"`
	Lifetime float32 `yaml:"lifetime,omitempty" json:"lifetime,omitempty" jsonschema:"minimum=0"`
	Radius   float32 `yaml:"radius,omitempty" json:"radius,omitempty" jsonschema:"minimum=0"`
	Range    float32 `yaml:"range,omitempty" json:"range,omitempty" jsonschema:"minimum=0"`
	Delay    float32 `yaml:"delay,omitempty" json:"delay,omitempty" jsonschema:"minimum=0"`

	// Status effects attached on hit.
	Slow         float32 `yaml:"slow,omitempty" json:"slow,omitempty" jsonschema:"minimum=0,maximum=1,description=Movement speed multiplier while slowed. 0 freezes."`
	SlowDuration float32 `yaml:"slow_duration,omitempty" json:"slow_duration,omitempty" jsonschema:"minimum=0"`
	DotDamage    float32 `yaml:"dot_damage,omitempty" json:"dot_damage,omitempty" jsonschema:"minimum=0,description=Damage per second."`
	DotDuration  float32 `yaml:"dot_duration,omitempty" json:"dot_duration,omitempty" jsonschema:"minimum=0"`

	// Passive bonuses while equipped.
	MaxHealth    float32 `yaml:"max_health,omitempty" json:"max_health,omitempty"`
	LavaImmunity float32 `yaml:"lava_immunity,omitempty" json:"lava_immunity,omitempty" jsonschema:"minimum=0,maximum=1"`
	MoveSpeed    float32 `yaml:"move_speed,omitempty" json:"move_speed,omitempty"`
}

// Document is the on-disk layout of a catalog file.
type Document struct {
	Items []Item `yaml:"items" json:"items" jsonschema:"required"`
}

type Key struct {
	Name  string
	Level int
}

// Catalog is the read-only lookup the game core depends on.
type Catalog interface {
	Lookup(name string, level int) (Item, bool)
}

// Store is an in-memory Catalog.
type Store struct {
	items map[Key]Item
}

func NewStore(items ...Item) (*Store, error) {
	s := &Store{items: make(map[Key]Item, len(items))}
	for _, it := range items {
		if it.Name == "" || it.Level < 1 {
			return nil, fmt.Errorf("%w: %q level %d", ErrInvalidItem, it.Name, it.Level)
		}
		if it.LavaImmunity < 0 || it.LavaImmunity > 1 {
			return nil, fmt.Errorf("%w: %s/%d lava_immunity %v out of [0,1]", ErrInvalidItem, it.Name, it.Level, it.LavaImmunity)
		}
		k := Key{Name: it.Name, Level: it.Level}
		if _, dup := s.items[k]; dup {
			return nil, fmt.Errorf("%w: duplicate %s/%d", ErrInvalidItem, it.Name, it.Level)
		}
		if it.Impulse == 0 {
			it.Impulse = 1
		}
		s.items[k] = it
	}
	return s, nil
}

// Parse reads a YAML catalog document.
func Parse(data []byte) (*Store, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewStore(doc.Items...)
}

func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func (s *Store) Lookup(name string, level int) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	it, ok := s.items[Key{Name: name, Level: level}]
	return it, ok
}

func (s *Store) Len() int { return len(s.items) }

// Items returns every entry ordered by name then level.
func (s *Store) Items() []Item {
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Level < out[j].Level
	})
	return out
}
