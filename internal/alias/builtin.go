package alias

// Builtin returns the seed alias table covering nicknames and alternate
// spellings that show up across fantasy platforms and stat feeds.
func Builtin() []Entry {
	return []Entry{
		{Alias: "Hollywood Brown", Canonical: "Marquise Brown"},
		{Alias: "Gabe Davis", Canonical: "Gabriel Davis"},
		{Alias: "Mitch Trubisky", Canonical: "Mitchell Trubisky"},
		{Alias: "Josh Dobbs", Canonical: "Joshua Dobbs"},
		{Alias: "Chig Okonkwo", Canonical: "Chigoziem Okonkwo"},
		{Alias: "Scotty Miller", Canonical: "Scott Miller", Pos: "WR"},
		{Alias: "Robbie Anderson", Canonical: "Robby Anderson"},
		{Alias: "Chosen Anderson", Canonical: "Robby Anderson"},
		{Alias: "Bisi Johnson", Canonical: "Olabisi Johnson"},
		{Alias: "Jody Fortson", Canonical: "Joe Fortson"},
		{Alias: "Cadillac Williams", Canonical: "Carnell Williams"},
		{Alias: "Tank Dell", Canonical: "Nathaniel Dell"},
		{Alias: "Bucky Irving", Canonical: "Barrett Irving"},
		{Alias: "Pat Mahomes", Canonical: "Patrick Mahomes"},
	}
}
