package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
)

var ErrUnknownBonus = errors.New("unknown bonus")

// Entry describes one bonus as the game shows it. Consumable bonuses are
// played by the manager and limited per season; the others are triggered
// by the lineup and never run out.
type Entry struct {
	Kind       match.Kind `yaml:"key"`
	Label      string     `yaml:"label"`
	Short      string     `yaml:"short"`
	Stock      int        `yaml:"stock"`
	Consumable bool       `yaml:"consumable"`
}

// Catalog maps bonus API keys to their UI metadata. Entry order is kept
// and drives report column order.
type Catalog struct {
	entries []Entry
	byKind  map[match.Kind]int
	aliases map[string]match.Kind
}

var defaultEntries = []Entry{
	{Kind: match.BoostOnePlayer, Label: "McDo", Short: "McDo", Stock: 3, Consumable: true},
	{Kind: match.BoostAllPlayers, Label: "Zahia", Short: "Boost", Stock: 1, Consumable: true},
	{Kind: match.RemoveGoal, Label: "Valise à Nanard", Short: "Sifflet", Stock: 1, Consumable: true},
	{Kind: match.Mirror, Label: "Miroir", Short: "Miroir", Stock: 1, Consumable: true},
	{Kind: match.FourStrikers, Label: "Décathlon", Short: "4 att.", Stock: 1, Consumable: true},
	{Kind: match.BlockTacticalSubs, Label: "Tonton Pat'", Short: "Blocage", Stock: 1, Consumable: true},
	{Kind: match.NerfGoalkeeper, Label: "Suarez", Short: "Nérf gk", Stock: 1, Consumable: true},
	{Kind: match.NerfAllPlayers, Label: "Cheat Code", Short: "Nérf", Stock: 1, Consumable: true},
	{Kind: "captain", Label: "Capitaine", Short: "Cpt"},
	{Kind: "boostDefense4", Label: "Bonus déf. 4", Short: "Déf4"},
	{Kind: "boostDefense5", Label: "Bonus déf. 5", Short: "Déf5"},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultEntries)
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from entries. Kinds must be unique and non-empty,
// and no two entries may share a label or short label once normalized.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byKind:  make(map[match.Kind]int, len(entries)),
		aliases: make(map[string]match.Kind, 3*len(entries)),
	}
	for _, e := range entries {
		if e.Kind == "" {
			return nil, fmt.Errorf("catalog entry %q: missing key", e.Label)
		}
		if _, dup := c.byKind[e.Kind]; dup {
			return nil, fmt.Errorf("catalog entry %s: duplicate key", e.Kind)
		}
		if e.Stock < 0 {
			return nil, fmt.Errorf("catalog entry %s: negative stock %d", e.Kind, e.Stock)
		}
		c.byKind[e.Kind] = len(c.entries)
		c.entries = append(c.entries, e)

		for _, name := range []string{string(e.Kind), e.Label, e.Short} {
			key := normalize(name)
			if key == "" {
				continue
			}
			if prev, ok := c.aliases[key]; ok && prev != e.Kind {
				return nil, fmt.Errorf("catalog entry %s: name %q already used by %s", e.Kind, name, prev)
			}
			c.aliases[key] = e.Kind
		}
	}
	return c, nil
}

func (c *Catalog) Entry(k match.Kind) (Entry, bool) {
	i, ok := c.byKind[k]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Label returns the UI label, or the raw key when the kind is not listed.
func (c *Catalog) Label(k match.Kind) string {
	if e, ok := c.Entry(k); ok && e.Label != "" {
		return e.Label
	}
	return string(k)
}

func (c *Catalog) Short(k match.Kind) string {
	if e, ok := c.Entry(k); ok && e.Short != "" {
		return e.Short
	}
	return c.Label(k)
}

func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Consumable lists the consumable entries in catalog order.
func (c *Catalog) Consumable() []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Consumable {
			out = append(out, e)
		}
	}
	return out
}

// Resolve maps an API key, UI label or short label to a bonus kind.
// Matching ignores case, accents and extra whitespace.
func (c *Catalog) Resolve(name string) (match.Kind, error) {
	if k, ok := c.aliases[normalize(name)]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBonus, name)
}

// Stock is the season usage of one consumable bonus.
type Stock struct {
	Entry     Entry
	Used      int
	Remaining int
}

// Remaining computes usage against the season stock for every consumable
// entry, in catalog order. Remaining never goes below zero.
func (c *Catalog) Remaining(used map[match.Kind]int) []Stock {
	cons := c.Consumable()
	out := make([]Stock, 0, len(cons))
	for _, e := range cons {
		n := used[e.Kind]
		out = append(out, Stock{Entry: e, Used: n, Remaining: max(0, e.Stock-n)})
	}
	return out
}

// Unlisted returns the used kinds the catalog does not know, sorted.
func (c *Catalog) Unlisted(used map[match.Kind]int) []match.Kind {
	var out []match.Kind
	for k := range used {
		if _, ok := c.byKind[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
