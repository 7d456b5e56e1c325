package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item describes one distributable item: its API key, the participant
// columns backing it, the /give-{route}/ path segment and a display label.
// The set is closed — every code path that varies per item goes through
// this table instead of duplicating itself six times.
type Item struct {
	Key        string
	Column     string
	TimeColumn string
	Route      string
	Label      string
	Collected  func(p *Participant) bool
}

var labelCaser = cases.Title(language.English)

func newItem(key, route string, collected func(p *Participant) bool) Item {
	return Item{
		Key:        key,
		Column:     key,
		TimeColumn: key + "_at",
		Route:      route,
		Label:      labelCaser.String(strings.ReplaceAll(key, "_", " ")),
		Collected:  collected,
	}
}

// Items lists the distributable items in serving order. Route segments
// match what the counter devices call ("give-registration", not
// "give-registration-goodies").
var Items = []Item{
	newItem("registration_goodies", "registration", func(p *Participant) bool { return p.RegistrationGoodies }),
	newItem("breakfast", "breakfast", func(p *Participant) bool { return p.Breakfast }),
	newItem("lunch", "lunch", func(p *Participant) bool { return p.Lunch }),
	newItem("snacks", "snacks", func(p *Participant) bool { return p.Snacks }),
	newItem("dinner", "dinner", func(p *Participant) bool { return p.Dinner }),
	newItem("midnight_snacks", "midnight-snacks", func(p *Participant) bool { return p.MidnightSnacks }),
}

var itemIndex = func() map[string]Item {
	m := make(map[string]Item, len(Items))
	for _, item := range Items {
		m[item.Key] = item
	}
	return m
}()

// ItemByKey resolves an item key; ok is false for anything outside the set.
func ItemByKey(key string) (Item, bool) {
	item, ok := itemIndex[key]
	return item, ok
}
