package fixtures

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var clubSuffixes = []string{" afc", " fc"}

// TeamPair is an ordered (home, away) pair of team names.
type TeamPair struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// NewTeamPair trims both names and returns the pair.
func NewTeamPair(home, away string) TeamPair {
	return TeamPair{Home: strings.TrimSpace(home), Away: strings.TrimSpace(away)}
}

// Valid reports whether both teams are named and distinct.
func (p TeamPair) Valid() bool {
	h, a := NormalizeTeam(p.Home), NormalizeTeam(p.Away)
	return h != "" && a != "" && h != a
}

// Key is the order-insensitive identity of the pair.
func (p TeamPair) Key() string {
	h, a := NormalizeTeam(p.Home), NormalizeTeam(p.Away)
	if a < h {
		h, a = a, h
	}
	return h + "|" + a
}

// Same reports whether both pairs denote the same two teams in either orientation.
// Every lookup that compares team pairs goes through this predicate.
func (p TeamPair) Same(other TeamPair) bool {
	return p.Key() == other.Key()
}

// SameOrder reports whether both pairs list the same home and away team.
func (p TeamPair) SameOrder(other TeamPair) bool {
	return NormalizeTeam(p.Home) == NormalizeTeam(other.Home) &&
		NormalizeTeam(p.Away) == NormalizeTeam(other.Away)
}

func (p TeamPair) String() string {
	return p.Home + " vs " + p.Away
}

// NormalizeTeam lower-cases a team name, strips accents and club suffixes and collapses spaces.
func NormalizeTeam(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, name); err == nil {
		name = stripped
	}

	name = strings.Join(strings.Fields(name), " ")
	for _, suffix := range clubSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return strings.TrimSpace(name)
}
