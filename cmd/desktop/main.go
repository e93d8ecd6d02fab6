// Package main provides the embedded backend server for the desktop study
// organizer. The UI communicates via REST/WebSocket on localhost.
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/mzhen/unisphere/backend/cmd/desktop/handlers"
	"github.com/mzhen/unisphere/backend/internal/backup"
	"github.com/mzhen/unisphere/backend/internal/backup/scheduler"
	"github.com/mzhen/unisphere/backend/internal/insight"
	"github.com/mzhen/unisphere/backend/internal/logging"
	"github.com/mzhen/unisphere/backend/internal/storage"
	"github.com/mzhen/unisphere/backend/internal/store"
)

const defaultPort = "8090"

func main() {
	logging.Init(os.Stdout, logLevel())

	dataDir := envOr("UNISPHERE_DATA_DIR", "./data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logging.Error("failed to create data directory", err, map[string]interface{}{"dir": dataDir})
		os.Exit(1)
	}

	db, err := storage.Open(dataDir)
	if err != nil {
		logging.Error("failed to open database", err)
		os.Exit(1)
	}
	defer db.Close()

	local, err := storage.NewLocalStore(db)
	if err != nil {
		logging.Error("failed to initialize local store", err)
		os.Exit(1)
	}

	st, err := store.Open(local)
	if err != nil {
		logging.Error("failed to load persisted data", err)
		os.Exit(1)
	}

	hub := NewWSHub()
	st.SetOnChange(hub.Broadcast)

	insightSvc := insight.NewService(insight.NewClient(aiConfig()))
	insightSvc.SetEventCallbacks(
		hub.BroadcastInsightStarted,
		hub.BroadcastInsightCompleted,
		hub.BroadcastInsightFailed,
	)

	backupSvc := backup.NewService(st, envOr("UNISPHERE_EXPORT_DIR", "exports"))
	backupSvc.SetEventCallbacks(hub.BroadcastBackupCompleted, hub.BroadcastBackupFailed)

	sched := scheduler.NewScheduler(backupSvc, &scheduler.Config{
		Interval:       scheduler.BackupInterval(envOr("UNISPHERE_BACKUP_INTERVAL", "manual")),
		RetentionCount: envInt("UNISPHERE_BACKUP_RETENTION", 5),
	})
	schedCfg := sched.GetConfig()
	logging.Info("backup scheduler configured", map[string]interface{}{
		"interval":  string(schedCfg.Interval),
		"retention": schedCfg.RetentionCount,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := sched.Start(ctx); err != nil {
		logging.Warn("backup scheduler disabled", map[string]interface{}{"error": err.Error()})
	}
	defer sched.Stop()

	mux := http.NewServeMux()
	registerRoutes(mux, st, insightSvc, backupSvc, hub)

	port := envOr("UNISPHERE_PORT", defaultPort)
	logging.Info("UniSphere desktop server starting", map[string]interface{}{
		"port":     port,
		"data_dir": dataDir,
	})

	if err := http.ListenAndServe("localhost:"+port, mux); err != nil {
		logging.Error("server stopped", err)
		os.Exit(1)
	}
}

// registerRoutes wires every REST endpoint onto the mux.
func registerRoutes(mux *http.ServeMux, st *store.Store, insightSvc *insight.Service, backupSvc *backup.Service, hub *WSHub) {
	courses := handlers.NewCourseHandler(st)
	notes := handlers.NewNoteHandler(st)
	materials := handlers.NewMaterialHandler(st)
	insights := handlers.NewInsightHandler(st, insightSvc)
	backups := handlers.NewBackupHandler(backupSvc)

	mux.HandleFunc("/api/health", handleHealth)

	mux.HandleFunc("GET /api/courses", courses.ListCourses)
	mux.HandleFunc("POST /api/courses", courses.CreateCourse)
	mux.HandleFunc("GET /api/courses/{id}", courses.GetCourse)
	mux.HandleFunc("DELETE /api/courses/{id}", courses.DeleteCourse)

	mux.HandleFunc("GET /api/courses/{id}/notes", notes.ListNotes)
	mux.HandleFunc("POST /api/notes", notes.CreateNote)
	mux.HandleFunc("PUT /api/notes/{id}", notes.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", notes.DeleteNote)
	mux.HandleFunc("POST /api/notes/move", notes.MoveNote)

	mux.HandleFunc("GET /api/courses/{id}/materials", materials.ListCourseMaterials)
	mux.HandleFunc("GET /api/notes/{id}/materials", materials.ListNoteMaterials)
	mux.HandleFunc("POST /api/materials", materials.CreateMaterial)
	mux.HandleFunc("DELETE /api/materials/{id}", materials.DeleteMaterial)

	mux.HandleFunc("POST /api/notes/{id}/insights", insights.Generate)
	mux.HandleFunc("GET /api/insights", insights.GetState)

	mux.HandleFunc("POST /api/backup/export", backups.Export)
	mux.HandleFunc("POST /api/backup/import", backups.Import)

	mux.HandleFunc("/ws", HandleWebSocket(hub))
}

// handleHealth handles GET /api/health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","service":"unisphere-desktop"}`))
}

// aiConfig builds the AI client configuration from the environment.
func aiConfig() *insight.Config {
	return &insight.Config{
		Provider:    insight.Provider(envOr("UNISPHERE_AI_PROVIDER", string(insight.ProviderOpenAI))),
		APIEndpoint: envOr("UNISPHERE_AI_ENDPOINT", "https://api.openai.com/v1"),
		APIKey:      os.Getenv("UNISPHERE_AI_KEY"),
		ModelName:   envOr("UNISPHERE_AI_MODEL", "gpt-4o-mini"),
		MaxTokens:   envInt("UNISPHERE_AI_MAX_TOKENS", 1024),
	}
}

func logLevel() logging.LogLevel {
	switch os.Getenv("UNISPHERE_LOG_LEVEL") {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
