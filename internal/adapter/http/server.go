// Package adapthttp is the driving HTTP adapter: the settings surface plus
// the activity, insights, ingest and notification APIs.
package adapthttp

import (
	"net/http"

	"go.uber.org/zap"

	"moodtrack/internal/adapter/platform"
	"moodtrack/internal/app"
	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
	"moodtrack/internal/metrics"
)

// AlarmLister exposes the armed alarms.
type AlarmLister interface {
	Registrations() []domain.AlarmRegistration
}

// NotificationLister exposes the notifications currently shown.
type NotificationLister interface {
	List() []domain.Notification
}

// Deps are the collaborators a Server routes to.
type Deps struct {
	Settings      *app.SettingsService
	Activities    *app.ActivityService
	Insights      *app.InsightsService
	Ingest        domain.IngestRepository
	Alarms        AlarmLister
	Notifications NotificationLister
	Gate          *platform.Gate
	Conditions    *platform.Conditions
	WebDir        string
	DeepLinkRoute string
	Log           *zap.Logger
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	settings      *app.SettingsService
	activities    *app.ActivityService
	insights      *app.InsightsService
	ingest        domain.IngestRepository
	alarms        AlarmLister
	notifications NotificationLister
	gate          *platform.Gate
	conditions    *platform.Conditions
	webDir        string
	deepLink      string
	log           *zap.Logger
}

// New creates a Server wired to the given collaborators.
func New(d Deps) *Server {
	if d.DeepLinkRoute == "" {
		d.DeepLinkRoute = app.DefaultTapRoute
	}
	return &Server{
		settings:      d.Settings,
		activities:    d.Activities,
		insights:      d.Insights,
		ingest:        d.Ingest,
		alarms:        d.Alarms,
		notifications: d.Notifications,
		gate:          d.Gate,
		conditions:    d.Conditions,
		webDir:        d.WebDir,
		deepLink:      d.DeepLinkRoute,
		log:           logging.OrNop(d.Log),
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/settings", s.handleSettings)
	api.HandleFunc("/settings/reminders/{category}", s.handleSettingsReminder)
	api.HandleFunc("/settings/ingest", s.handleSettingsIngest)

	api.HandleFunc("/permissions", s.handlePermissions)
	api.HandleFunc("/device", s.handleDevice)
	api.HandleFunc("/alarms", s.handleAlarms)
	api.HandleFunc("/notifications", s.handleNotifications)

	api.HandleFunc("/ingest/recent", s.handleIngestRecent)

	api.HandleFunc("/activities", s.handleActivities)
	api.HandleFunc("/activities/recent", s.handleActivitiesRecent)
	api.HandleFunc("/activities/undo-last", s.handleActivitiesUndoLast)

	api.HandleFunc("/insights/daily", s.handleInsightsDaily)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/metrics", metrics.Handler())
	root.Handle("/", spaFromDisk(s.webDir, s.deepLink))

	return s.loggingMiddleware(withNoCache(root))
}
