package cloudflare

import (
	"context"
	"time"
)

const (
	// SummaryLookback is the default window for ZoneAnalytics.
	SummaryLookback = 30 * 24 * time.Hour
	// TimeseriesLookback is the default window for ZoneAnalyticsTimeseries.
	TimeseriesLookback = 7 * 24 * time.Hour

	zoneAnalyticsFallback = "Failed to fetch zone analytics"
)

// ZoneAnalyticsQuery selects a zone and an optional ISO-8601 window.
// Empty Since/Until fall back to the operation's default lookback and now.
type ZoneAnalyticsQuery struct {
	ZoneID string
	Since  string
	Until  string
}

// ZoneAnalyticsSummary holds the aggregate counters of a zone's dashboard.
type ZoneAnalyticsSummary struct {
	TotalRequests  float64 `json:"totalRequests"`
	TotalBandwidth float64 `json:"totalBandwidth"`
	UniqueVisitors float64 `json:"uniqueVisitors"`
	ThreatsBlocked float64 `json:"threatsBlocked"`
	PageViews      float64 `json:"pageViews"`
}

// TimeseriesPoint is one simplified dashboard interval.
type TimeseriesPoint struct {
	Timestamp      *string `json:"timestamp,omitempty"`
	Requests       float64 `json:"requests"`
	Bandwidth      float64 `json:"bandwidth"`
	UniqueVisitors float64 `json:"uniqueVisitors"`
	Threats        float64 `json:"threats"`
}

type counter struct {
	All *float64 `json:"all"`
}

func (c *counter) value() float64 {
	if c == nil || c.All == nil {
		return 0
	}
	return *c.All
}

type dashboardResult struct {
	Totals *struct {
		Requests  *counter `json:"requests"`
		Bandwidth *counter `json:"bandwidth"`
		Uniques   *counter `json:"uniques"`
		Threats   *counter `json:"threats"`
		Pageviews *counter `json:"pageviews"`
	} `json:"totals"`
	Timeseries []struct {
		Since     *string  `json:"since"`
		Requests  *counter `json:"requests"`
		Bandwidth *counter `json:"bandwidth"`
		Uniques   *counter `json:"uniques"`
		Threats   *counter `json:"threats"`
	} `json:"timeseries"`
}

// DashboardPath builds the zone analytics dashboard path. Values are inserted
// verbatim apart from the bytes escapeURLText encodes.
func DashboardPath(zoneID, since, until string) string {
	return "/zones/" + escapeURLText(zoneID) +
		"/analytics/dashboard?since=" + escapeURLText(since) + "&until=" + escapeURLText(until)
}

// FormatInstant renders t the way the API expects ISO-8601 instants.
func FormatInstant(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// FormatDate renders t as a YYYY-MM-DD calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func (c *Client) instantRange(since, until string, lookback time.Duration) (string, string) {
	now := c.now()
	if since == "" {
		since = FormatInstant(now.Add(-lookback))
	}
	if until == "" {
		until = FormatInstant(now)
	}
	return since, until
}

func (c *Client) dashboard(ctx context.Context, token string, q ZoneAnalyticsQuery, lookback time.Duration) (*dashboardResult, error) {
	since, until := c.instantRange(q.Since, q.Until, lookback)

	res, err := c.Request(ctx, DashboardPath(q.ZoneID, since, until), token, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, newAPIError(res, zoneAnalyticsFallback)
	}

	var dash dashboardResult
	if err := decodeResult(res, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// ZoneAnalytics returns the zone's totals over the window, 30 days by default.
// Missing counters are reported as 0.
func (c *Client) ZoneAnalytics(ctx context.Context, token string, q ZoneAnalyticsQuery) (*ZoneAnalyticsSummary, error) {
	dash, err := c.dashboard(ctx, token, q, SummaryLookback)
	if err != nil {
		return nil, err
	}

	summary := &ZoneAnalyticsSummary{}
	if t := dash.Totals; t != nil {
		summary.TotalRequests = t.Requests.value()
		summary.TotalBandwidth = t.Bandwidth.value()
		summary.UniqueVisitors = t.Uniques.value()
		summary.ThreatsBlocked = t.Threats.value()
		summary.PageViews = t.Pageviews.value()
	}
	return summary, nil
}

// ZoneAnalyticsTimeseries returns the zone's per-interval counters over the
// window, 7 days by default. The result is never nil.
func (c *Client) ZoneAnalyticsTimeseries(ctx context.Context, token string, q ZoneAnalyticsQuery) ([]TimeseriesPoint, error) {
	dash, err := c.dashboard(ctx, token, q, TimeseriesLookback)
	if err != nil {
		return nil, err
	}

	points := make([]TimeseriesPoint, 0, len(dash.Timeseries))
	for _, p := range dash.Timeseries {
		points = append(points, TimeseriesPoint{
			Timestamp:      p.Since,
			Requests:       p.Requests.value(),
			Bandwidth:      p.Bandwidth.value(),
			UniqueVisitors: p.Uniques.value(),
			Threats:        p.Threats.value(),
		})
	}
	return points, nil
}
