package service

import (
	"math/rand/v2"
	"strings"
)

// NameGenerator proposes room names.  Proposals may collide with existing
// rooms; CreateRoom retries.
type NameGenerator interface {
	Generate() string
}

var (
	adjectives = []string{
		"amber", "brisk", "calm", "dusty", "eager", "fuzzy", "gentle", "hidden",
		"icy", "jolly", "keen", "lucky", "mellow", "noble", "odd", "plucky",
		"quiet", "rapid", "sunny", "tidy", "upbeat", "vivid", "windy", "zesty",
	}
	nouns = []string{
		"birdie", "bunker", "caddie", "divot", "eagle", "fairway", "green",
		"hazard", "iron", "links", "mulligan", "putter", "rough", "slice",
		"tee", "wedge", "driver", "flag", "albatross", "chip", "draw", "fade",
	}
	places = []string{
		"bay", "canyon", "creek", "dune", "field", "grove", "harbor", "hill",
		"lake", "meadow", "mesa", "orchard", "pines", "ridge", "river", "valley",
	}
)

// WordNames joins three random lower-case words with hyphens, e.g.
// "lucky-birdie-creek".
type WordNames struct{}

func (WordNames) Generate() string {
	return strings.Join([]string{pick(adjectives), pick(nouns), pick(places)}, "-")
}

func pick(words []string) string {
	return words[rand.IntN(len(words))]
}
