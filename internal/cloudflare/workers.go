package cloudflare

import (
	"context"
	"encoding/json"
	"net/http"
)

// DefaultDataset is the Analytics Engine dataset used when the caller names none.
const DefaultDataset = "default"

const workersAnalyticsFallback = "Failed to query Workers Analytics"

// WorkersQuery is an Analytics Engine SQL query against one account.
type WorkersQuery struct {
	AccountID string
	Query     string
	Dataset   string
}

type workersQueryBody struct {
	Query   string `json:"query"`
	Dataset string `json:"dataset"`
}

// WorkersAnalyticsPath returns the Analytics Engine SQL endpoint for an account.
func WorkersAnalyticsPath(accountID string) string {
	return "/accounts/" + accountID + "/analytics_engine/sql"
}

// QueryWorkersAnalytics posts q and returns the whole response body unmodified.
func (c *Client) QueryWorkersAnalytics(ctx context.Context, token string, q WorkersQuery) (json.RawMessage, error) {
	res, err := c.Request(ctx, WorkersAnalyticsPath(q.AccountID), token, &RequestOptions{
		Method: http.MethodPost,
		Body:   workersQueryBody{Query: q.Query, Dataset: q.Dataset},
	})
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, newAPIError(res, workersAnalyticsFallback)
	}
	return res.Body, nil
}
