package events

// Event type constants following CloudEvents naming conventions
// Format: <reverse-dns>.<resource>.<action>.<version>

const (
	// Event source.
	EventSourceAgentViewAPI = "io.agentview.api"

	// Connection events.
	EventTypeConnectionCreated      = "io.agentview.connection.created.v1"
	EventTypeConnectionDisconnected = "io.agentview.connection.disconnected.v1"

	// Deployment events.
	EventTypeDeploymentProvisioned = "io.agentview.deployment.provisioned.v1"
	EventTypeDeploymentDeleted     = "io.agentview.deployment.deleted.v1"
	EventTypeDeploymentResynced    = "io.agentview.deployment.resynced.v1"

	// Variant events.
	EventTypeVariantSynced  = "io.agentview.variant.synced.v1"
	EventTypeVariantDropped = "io.agentview.variant.dropped.v1"
)

// DeploymentEvent is the payload carried by deployment lifecycle events.
type DeploymentEvent struct {
	DeploymentID int64  `json:"deployment_id"`
	CustomerID   string `json:"customer_id"`
	SiteID       string `json:"site_id"`
}

// ConnectionEvent is the payload carried by connection lifecycle events.
type ConnectionEvent struct {
	CustomerID string `json:"customer_id"`
	AccountID  string `json:"account_id"`
}

// VariantEvent is the payload carried by variant lifecycle events.
type VariantEvent struct {
	DeploymentID int64  `json:"deployment_id"`
	CustomerID   string `json:"customer_id"`
	URLPath      string `json:"url_path"`
}
