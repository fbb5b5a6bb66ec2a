package domain

// ResourceConfig is the security configuration of the monitored bucket,
// rebuilt on every invocation.
type ResourceConfig struct {
	ResourceType      string
	Name              string
	Tags              map[string]string
	VersioningEnabled bool
	EncryptionEnabled bool
}

// PolicyInput is the structured input of one policy evaluation. It is either
// an InfrastructureInput or a DocumentInput.
type PolicyInput interface {
	isPolicyInput()
}

type InfrastructureInput struct {
	Resource ResourceConfig
}

type DocumentInput struct {
	Content  string
	FileName string
}

func (InfrastructureInput) isPolicyInput() {}
func (DocumentInput) isPolicyInput()       {}

// DocumentResult pairs a sampled document with its section508 verdict.
type DocumentResult struct {
	FileName string
	Result   ComplianceResult
}
