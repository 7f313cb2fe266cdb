package orchestrator

import "fmt"

// WorkerName returns the deterministic script name for a site. Re-running
// provisioning for the same site overwrites the same worker.
func WorkerName(siteID string) string {
	return fmt.Sprintf("agentview-serve-%s", siteID)
}

// KVTitle returns the key-value store title for a site.
func KVTitle(siteID string) string {
	return fmt.Sprintf("agentview-%s", siteID)
}

// RoutePattern returns the zone-wide route pattern that sends traffic for
// the domain through the worker.
func RoutePattern(domainName string) string {
	return fmt.Sprintf("%s/*", domainName)
}
