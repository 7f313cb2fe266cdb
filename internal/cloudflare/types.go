package cloudflare

// Account is a platform account the customer token can act on.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Zone is a DNS zone (domain) within a platform account.
type Zone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// TokenVerification is the result of verifying an API token.
type TokenVerification struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// KVNamespace is a key-value store on the platform.
type KVNamespace struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WorkerRoute maps a URL pattern to a worker script.
type WorkerRoute struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Script  string `json:"script"`
}

// WorkerScript describes an uploaded worker.
type WorkerScript struct {
	ID         string `json:"id"`
	ModifiedOn string `json:"modified_on"`
}
