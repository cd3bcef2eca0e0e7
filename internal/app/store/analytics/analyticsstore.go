package analyticsstore

import (
	"context"
	"time"

	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// RecentLimit is the number of items in each recent activity list.
const RecentLimit = 5

type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

// New returns an analytics store. A nil logger falls back to zap.L().
func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.L()
	}
	return &Store{db: db, log: logger}
}

// count is tolerant: a failed count is logged and reported as 0 so one bad
// collection does not blank the whole dashboard.
func (s *Store) count(ctx context.Context, coll string, filter bson.M) int64 {
	n, err := s.db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		s.log.Warn("analytics count failed", zap.String("collection", coll), zap.Error(err))
		return 0
	}
	return n
}

type Overview struct {
	TotalUsers   int64 `json:"totalUsers"`
	ActiveUsers  int64 `json:"activeUsers"`
	CyberUsers   int64 `json:"cyberUsers"`
	HostingUsers int64 `json:"hostingUsers"`
}

type TaskCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

type IncidentCounts struct {
	Total    int64 `json:"total"`
	Open     int64 `json:"open"`
	Resolved int64 `json:"resolved"`
}

type Infrastructure struct {
	Servers       int64 `json:"servers"`
	ActiveServers int64 `json:"activeServers"`
	Domains       int64 `json:"domains"`
}

type CyberSummary struct {
	Tasks     TaskCounts     `json:"tasks"`
	Incidents IncidentCounts `json:"incidents"`
}

type HostingSummary struct {
	Tasks          TaskCounts     `json:"tasks"`
	Infrastructure Infrastructure `json:"infrastructure"`
}

// RecentTask is the projection shown in recent activity.
type RecentTask struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Status    string             `bson:"status" json:"status"`
	Priority  string             `bson:"priority" json:"priority"`
	Workline  string             `bson:"site" json:"workline"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type RecentIncident struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Severity  string             `bson:"severity" json:"severity"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type RecentActivity struct {
	CyberTasks   []RecentTask     `json:"cyberTasks"`
	HostingTasks []RecentTask     `json:"hostingTasks"`
	Incidents    []RecentIncident `json:"incidents"`
}

// Dashboard is the cross-workline summary.
type Dashboard struct {
	Overview       Overview       `json:"overview"`
	Cybersecurity  CyberSummary   `json:"cybersecurity"`
	Hosting        HostingSummary `json:"hosting"`
	RecentActivity RecentActivity `json:"recentActivity"`
}

func (s *Store) taskCounts(ctx context.Context, site models.Workline) TaskCounts {
	return TaskCounts{
		Total:     s.count(ctx, "tasks", bson.M{"site": site}),
		Pending:   s.count(ctx, "tasks", bson.M{"site": site, "status": models.TaskPending}),
		Completed: s.count(ctx, "tasks", bson.M{"site": site, "status": models.TaskCompleted}),
	}
}

// Dashboard gathers every count and the recent activity lists. Counts
// never fail; a failed recent lookup is returned as an error.
func (s *Store) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard

	d.Overview = Overview{
		TotalUsers:   s.count(ctx, "users", bson.M{}),
		ActiveUsers:  s.count(ctx, "users", bson.M{"isActive": true}),
		CyberUsers:   s.count(ctx, "users", bson.M{"worklines": models.WorklineCybersecurity}),
		HostingUsers: s.count(ctx, "users", bson.M{"worklines": models.WorklineHosting}),
	}

	d.Cybersecurity.Tasks = s.taskCounts(ctx, models.WorklineCybersecurity)
	closed := bson.M{"$in": bson.A{models.IncidentResolved, models.IncidentClosed}}
	d.Cybersecurity.Incidents = IncidentCounts{
		Total:    s.count(ctx, "incidents", bson.M{}),
		Open:     s.count(ctx, "incidents", bson.M{"status": models.IncidentOpen}),
		Resolved: s.count(ctx, "incidents", bson.M{"status": closed}),
	}

	d.Hosting.Tasks = s.taskCounts(ctx, models.WorklineHosting)
	d.Hosting.Infrastructure = Infrastructure{
		Servers:       s.count(ctx, "servers", bson.M{}),
		ActiveServers: s.count(ctx, "servers", bson.M{"status": models.ServerActive}),
		Domains:       s.count(ctx, "domains", bson.M{}),
	}

	var err error
	if d.RecentActivity.CyberTasks, err = s.recentTasks(ctx, models.WorklineCybersecurity); err != nil {
		return d, err
	}
	if d.RecentActivity.HostingTasks, err = s.recentTasks(ctx, models.WorklineHosting); err != nil {
		return d, err
	}
	if d.RecentActivity.Incidents, err = recent[RecentIncident](ctx, s.db.Collection("incidents"), bson.M{},
		bson.M{"title": 1, "severity": 1, "status": 1, "createdAt": 1}); err != nil {
		return d, err
	}
	return d, nil
}

func (s *Store) recentTasks(ctx context.Context, site models.Workline) ([]RecentTask, error) {
	return recent[RecentTask](ctx, s.db.Collection("tasks"), bson.M{"site": site},
		bson.M{"title": 1, "status": 1, "priority": 1, "site": 1, "createdAt": 1})
}

func recent[T any](ctx context.Context, c *mongo.Collection, filter, projection bson.M) ([]T, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(RecentLimit).
		SetProjection(projection)
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupCount is one bucket of a $group by field.
type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// CountBy groups the matches for filter by field, largest bucket first.
func (s *Store) CountBy(ctx context.Context, coll, field string, filter bson.M) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cur, err := s.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []GroupCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CyberBreakdown is the cybersecurity workline report.
type CyberBreakdown struct {
	Workline  models.Workline `json:"workline"`
	Tasks     []GroupCount    `json:"tasks"`
	Incidents []GroupCount    `json:"incidents"`
	Clients   int64           `json:"clients"`
}

// HostingBreakdown is the hosting workline report.
type HostingBreakdown struct {
	Workline models.Workline `json:"workline"`
	Tasks    []GroupCount    `json:"tasks"`
	Servers  []GroupCount    `json:"servers"`
	Clients  int64           `json:"clients"`
	Domains  int64           `json:"domains"`
}

func (s *Store) CyberBreakdown(ctx context.Context) (CyberBreakdown, error) {
	w := models.WorklineCybersecurity
	out := CyberBreakdown{Workline: w}
	var err error
	if out.Tasks, err = s.CountBy(ctx, "tasks", "status", bson.M{"site": w}); err != nil {
		return out, err
	}
	if out.Incidents, err = s.CountBy(ctx, "incidents", "severity", bson.M{}); err != nil {
		return out, err
	}
	out.Clients = s.count(ctx, "clients", bson.M{"workline": w})
	return out, nil
}

func (s *Store) HostingBreakdown(ctx context.Context) (HostingBreakdown, error) {
	w := models.WorklineHosting
	out := HostingBreakdown{Workline: w}
	var err error
	if out.Tasks, err = s.CountBy(ctx, "tasks", "status", bson.M{"site": w}); err != nil {
		return out, err
	}
	if out.Servers, err = s.CountBy(ctx, "servers", "status", bson.M{}); err != nil {
		return out, err
	}
	out.Clients = s.count(ctx, "clients", bson.M{"workline": w})
	out.Domains = s.count(ctx, "domains", bson.M{})
	return out, nil
}
