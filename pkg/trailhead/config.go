package trailhead

import "time"

// Config holds settings for the profile GraphQL client.
type Config struct {
	// URL is the GraphQL endpoint, e.g. https://profile.api.trailhead.com/graphql
	URL string `yaml:"graphql_url" json:"graphql_url"`
	// Timeout bounds one profile fetch end to end
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// UserAgent is sent with every request when set
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// DefaultConfig returns the public endpoint with a 30s fetch budget.
func DefaultConfig() Config {
	return Config{
		URL:       "https://profile.api.trailhead.com/graphql",
		Timeout:   30 * time.Second,
		UserAgent: "trailhead-sync",
	}
}
