package fakturoid

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ListSubjects retrieves all subjects (clients) on the account.
func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	res, err := c.Request(ctx, "GET", endpointSubjects, ReqOptions{})
	if err != nil {
		return nil, err
	}
	if err := expect(res, ResultArray); err != nil {
		return nil, fmt.Errorf("subjects: %w", err)
	}

	subjects := make([]Subject, 0, len(res.Array))
	for _, raw := range res.Array {
		var s Subject
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to parse subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	c.logger.Info("Retrieved subjects", zap.Int("count", len(subjects)))
	return subjects, nil
}
