package client

import "context"

// AdminService handles administrative configuration operations.
type AdminService struct {
	c *Client
}

// GetConfig returns the current admin configuration.
func (s *AdminService) GetConfig(ctx context.Context) (*ConfigResponse, error) {
	var resp ConfigResponse
	if err := s.c.get(ctx, "/api/v1/admin/config", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetGracePeriod updates the default-claim grace period. Owner-only.
func (s *AdminService) SetGracePeriod(ctx context.Context, seconds int64) error {
	body := map[string]int64{"seconds": seconds}
	return s.c.put(ctx, "/api/v1/admin/grace-period", body, nil)
}
