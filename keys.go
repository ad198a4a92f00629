package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/rampage/obj"
	"github.com/milk9111/rampage/prefabs"
)

// Keymap is the keyboard layout read from keybinds.yaml.
type Keymap struct {
	MoveLeft   []ebiten.Key
	MoveRight  []ebiten.Key
	Jump       []ebiten.Key
	Fire       []ebiten.Key
	Respawn    []ebiten.Key
	Fullscreen []ebiten.Key
	Debug      []ebiten.Key
}

func LoadKeymap() (Keymap, error) {
	spec, err := prefabs.LoadKeybindsSpec()
	if err != nil {
		return Keymap{}, err
	}

	var km Keymap
	for _, b := range []struct {
		action string
		names  []string
		dst    *[]ebiten.Key
	}{
		{"move_left", spec.MoveLeft, &km.MoveLeft},
		{"move_right", spec.MoveRight, &km.MoveRight},
		{"jump", spec.Jump, &km.Jump},
		{"fire", spec.Fire, &km.Fire},
		{"respawn", spec.Respawn, &km.Respawn},
		{"fullscreen", spec.Fullscreen, &km.Fullscreen},
		{"debug", spec.Debug, &km.Debug},
	} {
		keys, err := parseKeys(b.names)
		if err != nil {
			return Keymap{}, fmt.Errorf("keybinds.yaml: %s: %w", b.action, err)
		}
		*b.dst = keys
	}
	return km, nil
}

func parseKeys(names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	for _, name := range names {
		k, ok := keyByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func keyByName(name string) (ebiten.Key, bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "Key")
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return 0, false
}

// Input polls the movement and fire actions for this frame.
func (km Keymap) Input() obj.Input {
	return obj.Input{
		MoveLeft:  anyPressed(km.MoveLeft),
		MoveRight: anyPressed(km.MoveRight),
		Jump:      anyPressed(km.Jump),
		Fire:      anyPressed(km.Fire),
	}
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
