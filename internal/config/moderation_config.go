package config

const (
	// Listing
	DefaultPageSize    = 12
	MaxPageSize        = 50
	ModerationPageSize = 20
	TrendingLimit      = 10

	// Dashboard
	DashboardTopSupported = 5
	DashboardTopLocations = 10
	DashboardRecentCases  = 5

	// References
	MinReferenceLength = 3
)

// AbusiveTerms are rejected anywhere in a case title or description.
var AbusiveTerms = []string{
	"kill",
	"threat",
	"bomb",
}

// GuiltPhrases are rejected in lawyer commentary.
var GuiltPhrases = []string{
	"is guilty",
	"declare guilty",
	"found guilty",
	"is the culprit",
}
