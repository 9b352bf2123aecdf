// Package samples ships small document pairs for trying out comparisons.
package samples

import (
	"embed"
	"fmt"
	"strings"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/models"
)

//go:embed data/*.json
var files embed.FS

// Sample kinds
const (
	Basic   = "basic"
	Complex = "complex"
	Array   = "array"
)

// Names lists the available samples
var Names = []string{Basic, Complex, Array}

// Pair is a left/right document pair in both raw and parsed form
type Pair struct {
	Name      string
	LeftText  string
	RightText string
	Left      models.JSONValue
	Right     models.JSONValue
}

// Get returns the named sample. Unknown names fall back to the basic sample.
func Get(name string) (Pair, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !known(name) {
		name = Basic
	}

	pair := Pair{Name: name}
	var err error
	if pair.LeftText, pair.Left, err = load(name + "_left.json"); err != nil {
		return Pair{}, err
	}
	if pair.RightText, pair.Right, err = load(name + "_right.json"); err != nil {
		return Pair{}, err
	}
	return pair, nil
}

func known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

func load(file string) (string, models.JSONValue, error) {
	raw, err := files.ReadFile("data/" + file)
	if err != nil {
		return "", nil, fmt.Errorf("reading sample %s: %w", file, err)
	}
	v, err := codec.ParseBytes(raw)
	if err != nil {
		return "", nil, fmt.Errorf("parsing sample %s: %w", file, err)
	}
	return string(raw), v, nil
}
