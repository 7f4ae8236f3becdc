package model

// MetaTracking holds Meta (Facebook/Instagram) ad click attribution.
type MetaTracking struct {
	ClickID      string `json:"clickId" bson:"clickId"`
	CampaignID   string `json:"campaignId,omitempty" bson:"campaignId,omitempty"`
	AdsetID      string `json:"adsetId,omitempty" bson:"adsetId,omitempty"`
	AdID         string `json:"adId,omitempty" bson:"adId,omitempty"`
	CampaignName string `json:"campaignName,omitempty" bson:"campaignName,omitempty"`
	AdsetName    string `json:"adsetName,omitempty" bson:"adsetName,omitempty"`
	AdName       string `json:"adName,omitempty" bson:"adName,omitempty"`
	Placement    string `json:"placement,omitempty" bson:"placement,omitempty"`
	DeviceType   string `json:"deviceType,omitempty" bson:"deviceType,omitempty"`
	Platform     string `json:"platform,omitempty" bson:"platform,omitempty"`
}

// GTMTracking holds Google Ads click attribution.
type GTMTracking struct {
	ClickID      string `json:"clickId" bson:"clickId"`
	CampaignID   string `json:"campaignId,omitempty" bson:"campaignId,omitempty"`
	AdgroupID    string `json:"adgroupId,omitempty" bson:"adgroupId,omitempty"`
	KeywordID    string `json:"keywordId,omitempty" bson:"keywordId,omitempty"`
	CampaignName string `json:"campaignName,omitempty" bson:"campaignName,omitempty"`
	AdgroupName  string `json:"adgroupName,omitempty" bson:"adgroupName,omitempty"`
	Keyword      string `json:"keyword,omitempty" bson:"keyword,omitempty"`
	MatchType    string `json:"matchType,omitempty" bson:"matchType,omitempty"`
	DeviceType   string `json:"deviceType,omitempty" bson:"deviceType,omitempty"`
	Network      string `json:"network,omitempty" bson:"network,omitempty"`
	Placement    string `json:"placement,omitempty" bson:"placement,omitempty"`
}

// UTMParams holds generic campaign parameters.
type UTMParams struct {
	Source   string `json:"source" bson:"source"`
	Medium   string `json:"medium,omitempty" bson:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty" bson:"campaign,omitempty"`
	Term     string `json:"term,omitempty" bson:"term,omitempty"`
	Content  string `json:"content,omitempty" bson:"content,omitempty"`
}

// AttributionSnapshot is captured once when a business event originates.
// A group is nil unless its discriminator (fbclid, gclid, utm_source) was observed.
type AttributionSnapshot struct {
	MetaTracking *MetaTracking `json:"metaTracking,omitempty" bson:"metaTracking,omitempty"`
	GTMTracking  *GTMTracking  `json:"gtmTracking,omitempty" bson:"gtmTracking,omitempty"`
	UTMParams    *UTMParams    `json:"utmParams,omitempty" bson:"utmParams,omitempty"`
}

// IsEmpty reports whether no attribution group is present.
func (a AttributionSnapshot) IsEmpty() bool {
	return a.MetaTracking == nil && a.GTMTracking == nil && a.UTMParams == nil
}

// Clone returns a deep copy so callers cannot mutate a stored snapshot.
func (a AttributionSnapshot) Clone() AttributionSnapshot {
	var out AttributionSnapshot
	if a.MetaTracking != nil {
		m := *a.MetaTracking
		out.MetaTracking = &m
	}
	if a.GTMTracking != nil {
		g := *a.GTMTracking
		out.GTMTracking = &g
	}
	if a.UTMParams != nil {
		u := *a.UTMParams
		out.UTMParams = &u
	}
	return out
}

// Funnel source buckets.
const (
	FunnelMeta   = "Meta"
	FunnelGoogle = "Google Ads"
	FunnelUTM    = "UTM"
	FunnelDirect = "Direct"
)

// FunnelRule maps the presence of a stored field to a funnel bucket.
type FunnelRule struct {
	Bucket string
	Field  string
	has    func(AttributionSnapshot) bool
}

// FunnelPrecedence is evaluated in order; the first rule whose field is present wins.
// Records matching no rule fall into FunnelDirect.
var FunnelPrecedence = []FunnelRule{
	{Bucket: FunnelMeta, Field: "metaTracking.clickId", has: func(a AttributionSnapshot) bool { return a.MetaTracking != nil }},
	{Bucket: FunnelGoogle, Field: "gtmTracking.clickId", has: func(a AttributionSnapshot) bool { return a.GTMTracking != nil }},
	{Bucket: FunnelUTM, Field: "utmParams.source", has: func(a AttributionSnapshot) bool { return a.UTMParams != nil }},
}

// FunnelSource classifies the snapshot into exactly one bucket.
func (a AttributionSnapshot) FunnelSource() string {
	for _, rule := range FunnelPrecedence {
		if rule.has(a) {
			return rule.Bucket
		}
	}
	return FunnelDirect
}

// DeviceUnknown is reported when neither platform supplied a device type.
const DeviceUnknown = "unknown"

// DeviceType prefers the Meta-reported device over the Google-reported one.
func (a AttributionSnapshot) DeviceType() string {
	if a.MetaTracking != nil && a.MetaTracking.DeviceType != "" {
		return a.MetaTracking.DeviceType
	}
	if a.GTMTracking != nil && a.GTMTracking.DeviceType != "" {
		return a.GTMTracking.DeviceType
	}
	return DeviceUnknown
}
