package section

import (
	"fmt"
	"sort"
)

// Section names.
const (
	HeaderName  = "header"
	TcfEuV2Name = "tcfeuv2"
	TcfCaV1Name = "tcfcav1"
	UspV1Name   = "uspv1"
	UsNatName   = "usnat"
	UsCaName    = "usca"
	UsVaName    = "usva"
	UsCoName    = "usco"
	UsUtName    = "usut"
	UsCtName    = "usct"
)

// Section IDs, stable across versions of the GPP specification.
const (
	HeaderID  = 3
	TcfEuV2ID = 2
	TcfCaV1ID = 5
	UspV1ID   = 6
	UsNatID   = 7
	UsCaID    = 8
	UsVaID    = 9
	UsCoID    = 10
	UsUtID    = 11
	UsCtID    = 12
)

// registry lists every section the codec can encode and decode. New profiles are added
// here and nowhere else.
var registry = []*Def{
	tcfEuV2,
	tcfCaV1,
	uspV1,
	usNat,
	usCa,
	usVa,
	usCo,
	usUt,
	usCt,
}

var (
	byName = make(map[string]*Def)
	byID   = make(map[int]*Def)
)

func init() {
	Header.index()
	for _, def := range registry {
		if _, dup := byName[def.Name]; dup {
			panic(fmt.Sprintf("section name %s is registered twice", def.Name))
		}
		if _, dup := byID[def.ID]; dup || def.ID == HeaderID {
			panic(fmt.Sprintf("section id %d is registered twice", def.ID))
		}
		def.index()
		byName[def.Name] = def
		byID[def.ID] = def
	}
}

// ByName returns the definition of a registered section.
func ByName(name string) (*Def, bool) {
	def, ok := byName[name]
	return def, ok
}

// ByID returns the definition of a registered section.
func ByID(id int) (*Def, bool) {
	def, ok := byID[id]
	return def, ok
}

// All returns every registered section ordered by ID.
func All() []*Def {
	out := make([]*Def, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
