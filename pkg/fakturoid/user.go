package fakturoid

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetUser retrieves the current account user.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	res, err := c.Request(ctx, "GET", endpointUser, ReqOptions{})
	if err != nil {
		return nil, err
	}
	if err := expect(res, ResultObject); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}

	var user User
	if err := json.Unmarshal(res.Object, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return &user, nil
}
