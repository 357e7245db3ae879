package provision

// Action names accepted by Provisioner.Do.
const (
	ActionTestConnection    = "test-connection"
	ActionCreateDatabase    = "create-database"
	ActionCreateCollection  = "create-collection"
	ActionCreateBucket      = "create-bucket"
	ActionCreateInitialData = "create-initial-data"
)

// Pipeline stages with the percentage reported once each finishes.
const (
	StageInit        = "init"
	StageDatabase    = "database"
	StageCollections = "collections"
	StageStorage     = "storage"
	StageComplete    = "complete"
	StageError       = "error"
)

var stagePercent = map[string]int{
	StageInit:        0,
	StageDatabase:    20,
	StageCollections: 60,
	StageStorage:     80,
	StageComplete:    100,
}

// Progress is one step of a running setup.
type Progress struct {
	Stage   string `json:"stage"`
	Percent int    `json:"progress"`
	Message string `json:"message"`
	IsError bool   `json:"isError,omitempty"`
}

// Result summarises a full setup run. Success is true when Errors is empty.
type Result struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Details []string `json:"details"`
	Errors  []string `json:"errors"`
}

// Credentials identify the operator allowed to provision.
type Credentials struct {
	ProjectID string `json:"projectId" yaml:"project_id"`
	APIKey    string `json:"apiKey" yaml:"api_key"`
}

// Complete reports whether both fields are set.
func (c Credentials) Complete() bool {
	return c.ProjectID != "" && c.APIKey != ""
}

// Request is a single provisioning action.
type Request struct {
	Credentials
	Action         string `json:"action"`
	CollectionID   string `json:"collectionId,omitempty"`
	CollectionName string `json:"collectionName,omitempty"`
	CollectionType string `json:"collectionType,omitempty"`
	BucketID       string `json:"bucketId,omitempty"`
	BucketName     string `json:"bucketName,omitempty"`
}

// Outcome is the answer to a single action.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
