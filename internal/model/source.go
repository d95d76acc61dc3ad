package model

import (
	"errors"
	"fmt"
	"strings"
)

// SourceID identifies one of the upstream distributors.
type SourceID string

const (
	NewBytes    SourceID = "NEWBYTES"
	GrupoNucleo SourceID = "GRUPONUCLEO"
	TGS         SourceID = "TGS"
	Elit        SourceID = "ELIT"
)

// Sources lists every distributor in key order.
var Sources = []SourceID{Elit, GrupoNucleo, NewBytes, TGS}

var ErrUnknownSource = errors.New("unknown distributor")

// aliases maps folded labels the backend and older front-ends used.
var aliases = map[string]SourceID{
	"newbytes":     NewBytes,
	"nb":           NewBytes,
	"gruponucleo":  GrupoNucleo,
	"grupo nucleo": GrupoNucleo,
	"grupo núcleo": GrupoNucleo,
	"gn":           GrupoNucleo,
	"tgs":          TGS,
	"elit":         Elit,
}

// ParseSourceID accepts a key ("TGS"), a display label ("Grupo Núcleo") or a
// URL slug ("gruponucleo").
func ParseSourceID(s string) (SourceID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if id, ok := aliases[key]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Valid reports whether s is one of the four distributors.
func (s SourceID) Valid() bool {
	switch s {
	case NewBytes, GrupoNucleo, TGS, Elit:
		return true
	}
	return false
}

// Slug is the lowercase form used in backend routes (/sync/<slug>, /<slug>-products).
func (s SourceID) Slug() string {
	return strings.ToLower(string(s))
}

func (s SourceID) String() string {
	return string(s)
}
