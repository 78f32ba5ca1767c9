package view

type vcsSymbol struct {
	text string
	tags []string
}

var vcsStatusSymbols = map[VCSStatus]vcsSymbol{
	VCSConflict:  {"X", []string{"vcsconflict"}},
	VCSUntracked: {"?", []string{"vcsuntracked"}},
	VCSDeleted:   {"-", []string{"vcschanged"}},
	VCSChanged:   {"+", []string{"vcschanged"}},
	VCSStaged:    {"*", []string{"vcsstaged"}},
	VCSIgnored:   {"·", []string{"vcsignored"}},
	VCSSync:      {"✓", []string{"vcssync"}},
	VCSNone:      {" ", nil},
	VCSUnknown:   {"!", []string{"vcsunknown"}},
}

var vcsRemoteSymbols = map[VCSRemoteStatus]vcsSymbol{
	VCSRemoteDiverged: {"Y", []string{"vcsdiverged"}},
	VCSRemoteAhead:    {">", []string{"vcsahead"}},
	VCSRemoteBehind:   {"<", []string{"vcsbehind"}},
	VCSRemoteSync:     {"=", []string{"vcssync"}},
	VCSRemoteNone:     {"⌂", []string{"vcsnone"}},
	VCSRemoteUnknown:  {"!", []string{"vcsunknown"}},
}

// VCSStatusSymbol returns the one-cell marker and style tags for a file
// status. Unrecognized codes render as unknown.
func VCSStatusSymbol(st VCSStatus) (string, []string) {
	sym, ok := vcsStatusSymbols[st]
	if !ok {
		sym = vcsStatusSymbols[VCSUnknown]
	}
	return sym.text, sym.tags
}

// VCSRemoteSymbol is VCSStatusSymbol for branch status.
func VCSRemoteSymbol(st VCSRemoteStatus) (string, []string) {
	sym, ok := vcsRemoteSymbols[st]
	if !ok {
		sym = vcsRemoteSymbols[VCSRemoteUnknown]
	}
	return sym.text, sym.tags
}
