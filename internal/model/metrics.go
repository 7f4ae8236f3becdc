package model

import "time"

// Window is a closed analytics time range.
type Window struct {
	From time.Time
	To   time.Time
}

// Analytics grouping dimensions.
const (
	GroupCampaign = "campaign"
	GroupSource   = "source"
	GroupDevice   = "device"
	GroupFunnel   = "funnel"
	GroupStatus   = "status"
	GroupIndustry = "industry"
)

// CampaignStat counts records attributed to one campaign name.
type CampaignStat struct {
	Name     string  `json:"name" bson:"_id"`
	Platform string  `json:"platform" bson:"platform"`
	Count    int64   `json:"count" bson:"count"`
	Value    float64 `json:"value" bson:"-"`
}

// SourceStat counts records by UTM source.
type SourceStat struct {
	Source string `json:"source" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// DeviceStat counts records by coalesced device type.
type DeviceStat struct {
	Device string `json:"device" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// StatusCount is one status bucket inside a funnel source.
type StatusCount struct {
	Status string `json:"status" bson:"status"`
	Count  int64  `json:"count" bson:"count"`
}

// FunnelStat is one funnel source bucket broken down by status.
type FunnelStat struct {
	Source   string        `json:"source" bson:"_id"`
	Statuses []StatusCount `json:"statuses" bson:"statuses"`
	Total    int64         `json:"total" bson:"total"`
}

// StatusStat counts records by lifecycle status.
type StatusStat struct {
	Status string `json:"status" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// IndustryStat counts B2B leads by industry.
type IndustryStat struct {
	Industry string `json:"industry" bson:"_id"`
	Count    int64  `json:"count" bson:"count"`
}

// DeliveryStat counts conversion deliveries in the delivery log.
type DeliveryStat struct {
	EventName string `json:"eventName"`
	Status    string `json:"status"`
	Count     uint64 `json:"count"`
}

// MetricsPeriod captures the time window.
type MetricsPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewMetricsPeriod formats a window as RFC3339.
func NewMetricsPeriod(w Window) MetricsPeriod {
	return MetricsPeriod{
		Start: w.From.UTC().Format(time.RFC3339),
		End:   w.To.UTC().Format(time.RFC3339),
	}
}

// Dashboard bundles every sub-statistic; a failed one is reported in Errors.
type Dashboard struct {
	Collection string            `json:"collection"`
	Period     MetricsPeriod     `json:"period"`
	Total      int64             `json:"total"`
	ByStatus   []StatusStat      `json:"byStatus"`
	Campaigns  []CampaignStat    `json:"campaigns"`
	Sources    []SourceStat      `json:"sources"`
	Devices    []DeviceStat      `json:"devices"`
	Funnel     []FunnelStat      `json:"funnel"`
	Industries []IndustryStat    `json:"industries,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}
