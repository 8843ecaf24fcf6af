package backend

import (
	"context"
	"strconv"

	"github.com/sendgrid/rest"

	"github.com/trezcool/masomo-portal/core/registry"
)

func formatID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

// List fetches a collection.
func (c *Client) List(ctx context.Context, endpoint string) ([]registry.Row, error) {
	var rows []registry.Row
	err := c.get(ctx, endpoint, nil, &rows)
	return rows, err
}

// Create posts body to a collection.
func (c *Client) Create(ctx context.Context, endpoint string, body map[string]interface{}) error {
	return c.post(ctx, endpoint, body, nil)
}

// Delete removes the object at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, rest.Delete, path, nil, nil, nil)
}

// Stats fetches a dashboard statistics object.
func (c *Client) Stats(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	err := c.get(ctx, endpoint, nil, &stats)
	return stats, err
}
