package cloudflare

import (
	"context"
	"fmt"
)

// CreateRoute maps a URL pattern in a zone to a worker script.
func (c *Client) CreateRoute(ctx context.Context, zoneID, pattern, scriptName string) (WorkerRoute, error) {
	const op = "create_route"

	body, err := marshalBody(op, map[string]string{
		"pattern": pattern,
		"script":  scriptName,
	})
	if err != nil {
		return WorkerRoute{}, err
	}

	path := fmt.Sprintf("/zones/%s/workers/routes", zoneID)
	return request[WorkerRoute](ctx, c, op, "POST", path, "application/json", body)
}

// DeleteRoute removes a worker route from a zone.
func (c *Client) DeleteRoute(ctx context.Context, zoneID, routeID string) error {
	path := fmt.Sprintf("/zones/%s/workers/routes/%s", zoneID, routeID)
	_, err := c.do(ctx, "delete_route", "DELETE", path, "", nil)
	return err
}
