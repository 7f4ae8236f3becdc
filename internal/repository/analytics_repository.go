package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/model"
)

// UnknownDevice is the bucket for records without a reported device type.
const UnknownDevice = model.DeviceUnknown

// DirectSource is the bucket for records without a UTM source.
const DirectSource = "direct"

// Aggregator runs aggregation pipelines over one collection.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error
}

// AnalyticsRepository computes grouped statistics over lead collections.
type AnalyticsRepository interface {
	Count(ctx context.Context, collection string, w model.Window) (int64, error)
	ByStatus(ctx context.Context, collection string, w model.Window) ([]model.StatusStat, error)
	Campaigns(ctx context.Context, collection string, w model.Window) ([]model.CampaignStat, error)
	Sources(ctx context.Context, collection string, w model.Window) ([]model.SourceStat, error)
	Devices(ctx context.Context, collection string, w model.Window) ([]model.DeviceStat, error)
	Funnel(ctx context.Context, collection string, w model.Window) ([]model.FunnelStat, error)
	Industries(ctx context.Context, w model.Window) ([]model.IndustryStat, error)
}

type analyticsRepository struct {
	collections map[string]Aggregator
}

// NewAnalyticsRepository creates an AnalyticsRepository over the given collections.
func NewAnalyticsRepository(collections map[string]Aggregator) AnalyticsRepository {
	return &analyticsRepository{collections: collections}
}

func (r *analyticsRepository) run(ctx context.Context, collection string, pipeline mongo.Pipeline, out any) error {
	agg, ok := r.collections[collection]
	if !ok {
		return apperror.NewValidation("unsupported collection %q", collection)
	}
	return agg.Aggregate(ctx, pipeline, out)
}

func (r *analyticsRepository) Count(ctx context.Context, collection string, w model.Window) (int64, error) {
	var out []struct {
		N int64 `bson:"n"`
	}
	if err := r.run(ctx, collection, CountPipeline(w), &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].N, nil
}

func (r *analyticsRepository) ByStatus(ctx context.Context, collection string, w model.Window) ([]model.StatusStat, error) {
	out := []model.StatusStat{}
	if err := r.run(ctx, collection, GroupPipeline(w, "$status"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analyticsRepository) Campaigns(ctx context.Context, collection string, w model.Window) ([]model.CampaignStat, error) {
	out := []model.CampaignStat{}
	if err := r.run(ctx, collection, CampaignPipeline(w), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analyticsRepository) Sources(ctx context.Context, collection string, w model.Window) ([]model.SourceStat, error) {
	out := []model.SourceStat{}
	if err := r.run(ctx, collection, GroupPipeline(w, ifNull("$utmParams.source", DirectSource)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analyticsRepository) Devices(ctx context.Context, collection string, w model.Window) ([]model.DeviceStat, error) {
	out := []model.DeviceStat{}
	if err := r.run(ctx, collection, GroupPipeline(w, DeviceExpr()), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analyticsRepository) Funnel(ctx context.Context, collection string, w model.Window) ([]model.FunnelStat, error) {
	out := []model.FunnelStat{}
	if err := r.run(ctx, collection, FunnelPipeline(w), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analyticsRepository) Industries(ctx context.Context, w model.Window) ([]model.IndustryStat, error) {
	out := []model.IndustryStat{}
	if err := r.run(ctx, model.CollectionB2BLeads, GroupPipeline(w, ifNull("$industry", "Other")), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchWindow restricts a pipeline to records created inside w.
func MatchWindow(w model.Window) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"createdAt": bson.M{"$gte": w.From.UTC(), "$lte": w.To.UTC()},
	}}}
}

// sortByCount orders groups by count descending, ties by group key.
func sortByCount(countField string) bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: countField, Value: -1}, {Key: "_id", Value: 1}}}}
}

func ifNull(field string, fallback any) bson.M {
	return bson.M{"$ifNull": bson.A{field, fallback}}
}

func present(field string) bson.M {
	return bson.M{"$ne": bson.A{bson.M{"$type": "$" + field}, "missing"}}
}

// CountPipeline counts records in the window.
func CountPipeline(w model.Window) mongo.Pipeline {
	return mongo.Pipeline{MatchWindow(w), {{Key: "$count", Value: "n"}}}
}

// GroupPipeline counts records per value of key.
func GroupPipeline(w model.Window, key any) mongo.Pipeline {
	return mongo.Pipeline{
		MatchWindow(w),
		{{Key: "$group", Value: bson.M{"_id": key, "count": bson.M{"$sum": 1}}}},
		sortByCount("count"),
	}
}

// DeviceExpr coalesces the Meta device type, then the Google one, then UnknownDevice.
func DeviceExpr() bson.M {
	return ifNull("$metaTracking.deviceType", ifNull("$gtmTracking.deviceType", UnknownDevice))
}

// FunnelExpr classifies a record into one funnel bucket following model.FunnelPrecedence.
func FunnelExpr() bson.M {
	branches := make(bson.A, 0, len(model.FunnelPrecedence))
	for _, rule := range model.FunnelPrecedence {
		branches = append(branches, bson.M{"case": present(rule.Field), "then": rule.Bucket})
	}
	return bson.M{"$switch": bson.M{"branches": branches, "default": model.FunnelDirect}}
}

// CampaignPipeline groups by campaign name, preferring Meta, then Google, then UTM.
// Records without any campaign name are excluded.
func CampaignPipeline(w model.Window) mongo.Pipeline {
	name := ifNull("$metaTracking.campaignName",
		ifNull("$gtmTracking.campaignName",
			ifNull("$utmParams.campaign", nil)))
	return mongo.Pipeline{
		MatchWindow(w),
		{{Key: "$project", Value: bson.M{"name": name, "platform": FunnelExpr()}}},
		{{Key: "$match", Value: bson.M{"name": bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$name",
			"platform": bson.M{"$first": "$platform"},
			"count":    bson.M{"$sum": 1},
		}}},
		sortByCount("count"),
	}
}

// FunnelPipeline groups by funnel bucket with a per-status breakdown.
func FunnelPipeline(w model.Window) mongo.Pipeline {
	return mongo.Pipeline{
		MatchWindow(w),
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"source": FunnelExpr(), "status": "$status"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.status", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$_id.source",
			"statuses": bson.M{"$push": bson.M{"status": "$_id.status", "count": "$count"}},
			"total":    bson.M{"$sum": "$count"},
		}}},
		sortByCount("total"),
	}
}
