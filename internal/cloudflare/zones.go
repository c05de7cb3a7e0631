package cloudflare

import (
	"context"
	"net/url"
	"strings"
)

const listZonesFallback = "Failed to list zones"

// Zone is the simplified view of a zone returned by ListZones.
// Fields absent from the API response are omitted.
type Zone struct {
	ID      *string `json:"id,omitempty"`
	Name    *string `json:"name,omitempty"`
	Status  *string `json:"status,omitempty"`
	Plan    *string `json:"plan,omitempty"`
	Created *string `json:"created,omitempty"`
}

type apiZone struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Status *string `json:"status"`
	Plan   *struct {
		Name *string `json:"name"`
	} `json:"plan"`
	CreatedOn *string `json:"created_on"`
}

// ListZonesPath returns /zones, filtered by name when one is given.
func ListZonesPath(name string) string {
	if name == "" {
		return "/zones"
	}
	return "/zones?name=" + escapeComponent(name)
}

// escapeComponent percent-encodes s for use as a single query value,
// encoding spaces as %20.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ListZones lists the zones visible to token, optionally filtered by exact name.
// The result is never nil.
func (c *Client) ListZones(ctx context.Context, token, name string) ([]Zone, error) {
	res, err := c.Request(ctx, ListZonesPath(name), token, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, newAPIError(res, listZonesFallback)
	}

	var raw []apiZone
	if err := decodeResult(res, &raw); err != nil {
		return nil, err
	}

	zones := make([]Zone, 0, len(raw))
	for _, z := range raw {
		zone := Zone{
			ID:      z.ID,
			Name:    z.Name,
			Status:  z.Status,
			Created: z.CreatedOn,
		}
		if z.Plan != nil {
			zone.Plan = z.Plan.Name
		}
		zones = append(zones, zone)
	}
	return zones, nil
}
