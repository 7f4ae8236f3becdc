// Package tracking extracts marketing attribution from request context.
package tracking

import (
	"net/url"
	"strings"

	"eduexpress-backend/internal/model"
)

// Discriminator query keys.
const (
	KeyFBCLID    = "fbclid"
	KeyGCLID     = "gclid"
	KeyUTMSource = "utm_source"
)

// FromURL extracts attribution from the query string of raw.
// A malformed URL yields an empty snapshot.
func FromURL(raw string) model.AttributionSnapshot {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.AttributionSnapshot{}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return model.AttributionSnapshot{}
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return model.AttributionSnapshot{}
	}
	return FromValues(values)
}

// FromReferrer extracts attribution from a Referer header value.
func FromReferrer(header string) model.AttributionSnapshot {
	return FromURL(header)
}

// FromMap extracts attribution from a flat key/value map such as a form's hidden fields.
func FromMap(fields map[string]string) model.AttributionSnapshot {
	if len(fields) == 0 {
		return model.AttributionSnapshot{}
	}
	values := make(url.Values, len(fields))
	for k, v := range fields {
		values.Set(k, v)
	}
	return FromValues(values)
}

// FromValues extracts attribution from parsed query or form values.
func FromValues(values url.Values) model.AttributionSnapshot {
	var snap model.AttributionSnapshot
	get := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(values.Get(k)); v != "" {
				return v
			}
		}
		return ""
	}

	if clickID := get(KeyFBCLID); clickID != "" {
		snap.MetaTracking = &model.MetaTracking{
			ClickID:      clickID,
			CampaignID:   get("campaign_id"),
			AdsetID:      get("adset_id"),
			AdID:         get("ad_id"),
			CampaignName: get("campaign_name"),
			AdsetName:    get("adset_name"),
			AdName:       get("ad_name"),
			Placement:    get("placement"),
			DeviceType:   get("device_type"),
			Platform:     get("platform", "site_source_name"),
		}
	}

	if clickID := get(KeyGCLID); clickID != "" {
		snap.GTMTracking = &model.GTMTracking{
			ClickID:      clickID,
			CampaignID:   get("campaignid"),
			AdgroupID:    get("adgroupid"),
			KeywordID:    get("keywordid", "targetid"),
			CampaignName: get("campaign_name"),
			AdgroupName:  get("adgroup_name"),
			Keyword:      get("keyword"),
			MatchType:    get("matchtype"),
			DeviceType:   get("device"),
			Network:      get("network"),
			Placement:    get("placement"),
		}
	}

	if source := get(KeyUTMSource); source != "" {
		snap.UTMParams = &model.UTMParams{
			Source:   source,
			Medium:   get("utm_medium"),
			Campaign: get("utm_campaign"),
			Term:     get("utm_term"),
			Content:  get("utm_content"),
		}
	}

	return snap
}

// FromCookies recovers the Meta click id from the _fbc cookie (fb.1.<ms>.<fbclid>).
func FromCookies(fbc string) model.AttributionSnapshot {
	clickID := ClickIDFromFBC(fbc)
	if clickID == "" {
		return model.AttributionSnapshot{}
	}
	return model.AttributionSnapshot{MetaTracking: &model.MetaTracking{ClickID: clickID}}
}

// ClickIDFromFBC returns the fbclid embedded in an _fbc value, or "".
func ClickIDFromFBC(fbc string) string {
	parts := strings.SplitN(strings.TrimSpace(fbc), ".", 4)
	if len(parts) != 4 || parts[0] != "fb" || parts[3] == "" {
		return ""
	}
	return parts[3]
}

// Merge combines snapshots group by group. Pass the most proximate source first:
// the first snapshot carrying a group wins that group.
func Merge(snapshots ...model.AttributionSnapshot) model.AttributionSnapshot {
	var out model.AttributionSnapshot
	for _, s := range snapshots {
		c := s.Clone()
		if out.MetaTracking == nil {
			out.MetaTracking = c.MetaTracking
		}
		if out.GTMTracking == nil {
			out.GTMTracking = c.GTMTracking
		}
		if out.UTMParams == nil {
			out.UTMParams = c.UTMParams
		}
	}
	return out
}

// FromRequest applies the standard precedence for a public form submission:
// submitted fields, then the page URL, then the _fbc cookie, then the referrer.
func FromRequest(fields map[string]string, rc model.RequestContext) model.AttributionSnapshot {
	return Merge(
		FromMap(fields),
		FromURL(rc.PageURL),
		FromCookies(rc.FBC),
		FromReferrer(rc.Referrer),
	)
}
