package api

import "time"

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

type ResourceConfig struct {
	ResourceType      string            `json:"resource_type"`
	Name              string            `json:"name"`
	Tags              map[string]string `json:"tags"`
	VersioningEnabled bool              `json:"versioning_enabled"`
	EncryptionEnabled bool              `json:"encryption_enabled"`
}

type Violation struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	File     string   `json:"file,omitempty"`
}

type ComplianceResult struct {
	Compliant  bool        `json:"compliant"`
	Violations []Violation `json:"violations"`
}

type ComplianceReport struct {
	Timestamp        time.Time        `json:"timestamp"`
	Bucket           string           `json:"bucket"`
	Infrastructure   ComplianceResult `json:"infrastructure"`
	Section508       ComplianceResult `json:"section508"`
	FilesChecked     int              `json:"files_checked"`
	OverallCompliant bool             `json:"overall_compliant"`
	ChecksPerformed  []string         `json:"checks_performed"`
	LambdaInfo       *LambdaInfo      `json:"lambda_info,omitempty"`
}

type LambdaInfo struct {
	FunctionName    string `json:"function_name"`
	FunctionVersion string `json:"function_version"`
	AwsRequestID    string `json:"aws_request_id"`
}

type AlertMessage struct {
	Timestamp                time.Time        `json:"timestamp"`
	Bucket                   string           `json:"bucket"`
	ViolationCount           int              `json:"violation_count"`
	InfrastructureViolations int              `json:"infrastructure_violations"`
	Section508Violations     int              `json:"section508_violations"`
	SeverityCounts           map[Severity]int `json:"severity_counts"`
	InfrastructureCompliant  bool             `json:"infrastructure_compliant"`
	Section508Compliant      bool             `json:"section508_compliant"`
	Summary                  string           `json:"summary"`
}
