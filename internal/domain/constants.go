package domain

const (
	ServerName    = "claude-skills-gateway"
	ServerVersion = "1.0.0"

	// DefaultProtocolVersion is used when the client proposes none during
	// initialize. Version negotiation is pass-through: a proposed version is
	// echoed back as-is, never rejected.
	DefaultProtocolVersion = "2024-11-05"

	SkillURIScheme = "skill://"
	SkillMIMEType  = "text/markdown"

	DefaultCacheTTLSeconds            = 3600
	DefaultListenAddress              = "0.0.0.0:8080"
	DefaultObservabilityListenAddress = "0.0.0.0:9090"
	DefaultFetchTimeoutSeconds        = 30
	DefaultShutdownTimeoutSeconds     = 5
)
