package cloudflare

import (
	"context"
	"encoding/json"
	"strconv"
)

const (
	// WebAnalyticsLookback is the default window for WebAnalyticsStats.
	WebAnalyticsLookback = SummaryLookback

	webAnalyticsFallback = "Failed to fetch Web Analytics"
)

// WebAnalyticsQuery selects a Web Analytics site and an optional date window
// (YYYY-MM-DD). Empty Start/End default to 30 days ago and today.
type WebAnalyticsQuery struct {
	AccountID string
	SiteTag   string
	Start     string
	End       string
}

// WebAnalyticsPath builds the site stats path. Values are inserted verbatim
// apart from the bytes escapeURLText encodes.
func WebAnalyticsPath(accountID, siteTag, start, end string) string {
	return "/accounts/" + escapeURLText(accountID) +
		"/web_analytics/sites/" + escapeURLText(siteTag) +
		"/stats?start=" + escapeURLText(start) + "&end=" + escapeURLText(end)
}

// WebAnalyticsStats returns the response's result member, or the whole body
// when result is absent or empty.
func (c *Client) WebAnalyticsStats(ctx context.Context, token string, q WebAnalyticsQuery) (json.RawMessage, error) {
	now := c.now()
	start, end := q.Start, q.End
	if start == "" {
		start = FormatDate(now.Add(-WebAnalyticsLookback))
	}
	if end == "" {
		end = FormatDate(now)
	}

	res, err := c.Request(ctx, WebAnalyticsPath(q.AccountID, q.SiteTag, start, end), token, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, newAPIError(res, webAnalyticsFallback)
	}

	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := res.Decode(&env); err == nil && !isFalsy(env.Result) {
		return env.Result, nil
	}
	return res.Body, nil
}

// isFalsy reports whether raw is absent or a JSON value with no content:
// null, false, "" or any spelling of zero.
func isFalsy(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	if c := raw[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f == 0
	}
	return false
}
