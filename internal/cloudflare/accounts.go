package cloudflare

import (
	"context"
	"fmt"
	"net/url"
)

// VerifyToken checks that the customer token is valid and active.
func (c *Client) VerifyToken(ctx context.Context) (TokenVerification, error) {
	return request[TokenVerification](ctx, c, "verify_token", "GET", "/user/tokens/verify", "", nil)
}

// ListAccounts returns the accounts the token can act on.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	return request[[]Account](ctx, c, "list_accounts", "GET", "/accounts", "", nil)
}

// GetZoneByName finds the zone for a domain name.
func (c *Client) GetZoneByName(ctx context.Context, name string) (Zone, error) {
	path := fmt.Sprintf("/zones?name=%s", url.QueryEscape(name))
	zones, err := request[[]Zone](ctx, c, "get_zone", "GET", path, "", nil)
	if err != nil {
		return Zone{}, err
	}
	if len(zones) == 0 {
		return Zone{}, &APIError{Code: codeZoneNotFound, Message: fmt.Sprintf("zone %s not found", name), HTTPStatus: 404}
	}
	return zones[0], nil
}
