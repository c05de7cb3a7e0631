package tools

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobmcallan/cloudflare-mcp/internal/cloudflare"
)

// CloudflareAPI is the set of remote operations the Cloudflare tools call.
type CloudflareAPI interface {
	ZoneAnalytics(ctx context.Context, token string, q cloudflare.ZoneAnalyticsQuery) (*cloudflare.ZoneAnalyticsSummary, error)
	ZoneAnalyticsTimeseries(ctx context.Context, token string, q cloudflare.ZoneAnalyticsQuery) ([]cloudflare.TimeseriesPoint, error)
	QueryWorkersAnalytics(ctx context.Context, token string, q cloudflare.WorkersQuery) (json.RawMessage, error)
	WebAnalyticsStats(ctx context.Context, token string, q cloudflare.WebAnalyticsQuery) (json.RawMessage, error)
	ListZones(ctx context.Context, token, name string) ([]cloudflare.Zone, error)
}

var (
	zoneIDParam    = Param{Name: "zone_id", Type: TypeString, Description: "The Cloudflare zone ID", Required: true}
	accountIDParam = Param{Name: "account_id", Type: TypeString, Description: "The Cloudflare account ID", Required: true}
)

func tokenParam(permission string) Param {
	return Param{
		Name:        "api_token",
		Type:        TypeString,
		Description: "Cloudflare API token with " + permission + " permission",
		Required:    true,
	}
}

// CloudflareTools returns the Cloudflare analytics and zone tools backed by api.
func CloudflareTools(api CloudflareAPI) []Definition {
	until := Param{Name: "until", Type: TypeString, Description: "End date in ISO 8601 format (e.g., 2024-01-31T23:59:59Z). Defaults to now."}

	return []Definition{
		{
			Name:        "cloudflare_zone_analytics",
			Description: "Get aggregate traffic analytics (requests, bandwidth, unique visitors, threats, page views) for a Cloudflare zone",
			Params: []Param{
				zoneIDParam,
				tokenParam("Zone Analytics:Read"),
				{Name: "since", Type: TypeString, Description: "Start date in ISO 8601 format (e.g., 2024-01-01T00:00:00Z). Defaults to 30 days ago."},
				until,
			},
			Handler: func(ctx context.Context, in Input) Envelope {
				summary, err := api.ZoneAnalytics(ctx, in.String("api_token"), zoneQuery(in))
				if err != nil {
					return failure(ctx, "fetching zone analytics", err)
				}
				return jsonEnvelope(summary)
			},
		},
		{
			Name:        "cloudflare_zone_analytics_timeseries",
			Description: "Get per-interval traffic analytics for a Cloudflare zone",
			Params: []Param{
				zoneIDParam,
				tokenParam("Zone Analytics:Read"),
				{Name: "since", Type: TypeString, Description: "Start date in ISO 8601 format (e.g., 2024-01-01T00:00:00Z). Defaults to 7 days ago."},
				until,
			},
			Handler: func(ctx context.Context, in Input) Envelope {
				points, err := api.ZoneAnalyticsTimeseries(ctx, in.String("api_token"), zoneQuery(in))
				if err != nil {
					return failure(ctx, "fetching time series", err)
				}
				return jsonEnvelope(points)
			},
		},
		{
			Name:        "cloudflare_workers_analytics",
			Description: "Run a SQL query against Workers Analytics Engine",
			Params: []Param{
				accountIDParam,
				tokenParam("Account Analytics:Read"),
				{Name: "dataset", Type: TypeString, Description: "The Analytics Engine dataset name (default: default)"},
				{Name: "query", Type: TypeString, Description: "SQL-like query for the Analytics Engine", Required: true},
			},
			Handler: func(ctx context.Context, in Input) Envelope {
				body, err := api.QueryWorkersAnalytics(ctx, in.String("api_token"), cloudflare.WorkersQuery{
					AccountID: in.String("account_id"),
					Query:     in.String("query"),
					Dataset:   in.StringOr("dataset", cloudflare.DefaultDataset),
				})
				if err != nil {
					return failure(ctx, "querying Workers Analytics", err)
				}
				return jsonEnvelope(body)
			},
		},
		{
			Name:        "cloudflare_web_analytics",
			Description: "Get Web Analytics statistics for a site",
			Params: []Param{
				accountIDParam,
				{Name: "site_tag", Type: TypeString, Description: "The Web Analytics site tag", Required: true},
				tokenParam("Account Analytics:Read"),
				{Name: "start", Type: TypeString, Description: "Start date in YYYY-MM-DD format. Defaults to 30 days ago."},
				{Name: "end", Type: TypeString, Description: "End date in YYYY-MM-DD format. Defaults to today."},
			},
			Handler: func(ctx context.Context, in Input) Envelope {
				stats, err := api.WebAnalyticsStats(ctx, in.String("api_token"), cloudflare.WebAnalyticsQuery{
					AccountID: in.String("account_id"),
					SiteTag:   in.String("site_tag"),
					Start:     in.String("start"),
					End:       in.String("end"),
				})
				if err != nil {
					return failure(ctx, "fetching Web Analytics", err)
				}
				return jsonEnvelope(stats)
			},
		},
		{
			Name:        "cloudflare_list_zones",
			Description: "List the zones the API token can access",
			Params: []Param{
				tokenParam("Zone:Read"),
				{Name: "name", Type: TypeString, Description: "Filter zones by name (optional)"},
			},
			Handler: func(ctx context.Context, in Input) Envelope {
				zones, err := api.ListZones(ctx, in.String("api_token"), in.String("name"))
				if err != nil {
					return failure(ctx, "listing zones", err)
				}
				return jsonEnvelope(zones)
			},
		},
	}
}

func zoneQuery(in Input) cloudflare.ZoneAnalyticsQuery {
	return cloudflare.ZoneAnalyticsQuery{
		ZoneID: in.String("zone_id"),
		Since:  in.String("since"),
		Until:  in.String("until"),
	}
}

// failure reports an API rejection as "Error: <message>" and anything else
// as "Error <doing>: <message>". The error is also recorded on the dispatch span.
func failure(ctx context.Context, doing string, err error) Envelope {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var apiErr *cloudflare.APIError
	if errors.As(err, &apiErr) {
		return TextEnvelope("Error: " + apiErr.Message)
	}
	return TextEnvelope("Error " + doing + ": " + err.Error())
}
