package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/handlers"
	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/middleware"
	"github.com/ddongsuya/cro-project-tracker-sub000/repositories"
	"github.com/ddongsuya/cro-project-tracker-sub000/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	logging.InitLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Database connection failed:", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}
	fmt.Println("Connected to MongoDB!")

	trackingDB := client.Database("tracking_db")
	workspaceCollection := trackingDB.Collection("workspace")
	userCollection := client.Database("users_db").Collection("users")

	authService := services.NewAuthService(userCollection)
	if err := authService.EnsureAdminUser(ctx); err != nil {
		log.Fatal(err)
	}

	// Activity log is optional; the service runs fine without Cassandra.
	var activityService *services.ActivityService
	if os.Getenv("CASS_DB") != "" {
		activityRepo, err := repositories.NewActivityRepo()
		if err != nil {
			logging.Logger.Warnf("Event ID: ACTIVITY_LOG_DISABLED, Description: Cassandra unavailable, activity log disabled: %v", err)
		} else {
			defer activityRepo.CloseSession()
			if err := activityRepo.CreateTable(); err != nil {
				logging.Logger.Warnf("Event ID: ACTIVITY_TABLE_FAILED, Description: %v", err)
			} else {
				activityService = services.NewActivityService(activityRepo)
			}
		}
	}

	workspaceRepo := repositories.NewWorkspaceRepo(workspaceCollection)
	var recorder services.ActivityRecorder
	if activityService != nil {
		recorder = activityService
	}
	workspaceService := services.NewWorkspaceService(workspaceRepo, recorder)

	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()
	if err := workspaceService.Start(syncCtx); err != nil {
		log.Fatal("Failed to start workspace sync:", err)
	}

	authHandler := handlers.NewAuthHandler(authService)
	clientHandler := handlers.NewClientHandler(workspaceService, activityService)
	projectHandler := handlers.NewProjectHandler(workspaceService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuth(authService.IsRevoked))

	api.HandleFunc("/clients", clientHandler.ListClientsHandler).Methods("GET")
	api.HandleFunc("/clients", clientHandler.AddClientHandler).Methods("POST")
	api.HandleFunc("/clients/{clientId}", clientHandler.DeleteClientHandler).Methods("DELETE")
	api.HandleFunc("/clients/{clientId}/requesters", clientHandler.AddRequesterHandler).Methods("POST")
	api.HandleFunc("/clients/{clientId}/requesters/{requesterId}", clientHandler.DeleteRequesterHandler).Methods("DELETE")
	api.HandleFunc("/clients/{clientId}/activities", clientHandler.ClientActivityHandler).Methods("GET")

	api.HandleFunc("/clients/{clientId}/requesters/{requesterId}/projects", projectHandler.CreateProjectHandler).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.EditProjectHandler).Methods("PUT")
	api.HandleFunc("/clients/{clientId}/projects/{projectId}", projectHandler.DeleteProjectHandler).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/stages/{stageId}/advance", projectHandler.AdvanceStageHandler).Methods("POST")
	api.HandleFunc("/projects/{projectId}/stages/{stageId}", projectHandler.EditStageHandler).Methods("PUT")
	api.HandleFunc("/projects/{projectId}/tests", projectHandler.AddTestHandler).Methods("POST")
	api.HandleFunc("/projects/{projectId}/tests/{testId}", projectHandler.EditTestHandler).Methods("PUT")
	api.HandleFunc("/projects/{projectId}/tests/{testId}", projectHandler.DeleteTestHandler).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/followups", projectHandler.AddFollowUpHandler).Methods("POST")
	api.HandleFunc("/projects/{projectId}/followups/{followUpId}", projectHandler.EditFollowUpHandler).Methods("PUT")
	api.HandleFunc("/projects/{projectId}/followups/{followUpId}", projectHandler.DeleteFollowUpHandler).Methods("DELETE")

	api.HandleFunc("/selection", workspaceHandler.GetSelectionHandler).Methods("GET")
	api.HandleFunc("/selection", workspaceHandler.SetSelectionHandler).Methods("PUT")
	api.HandleFunc("/dashboard", workspaceHandler.DashboardHandler).Methods("GET")
	api.HandleFunc("/import/csv", workspaceHandler.ImportCSVHandler).Methods("POST")
	api.HandleFunc("/export/json", workspaceHandler.ExportJSONHandler).Methods("GET")
	api.HandleFunc("/export/csv", workspaceHandler.ExportCSVHandler).Methods("GET")

	corsRouter := enableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	fmt.Println("Tracking service server running on http://localhost:" + port)
	log.Fatal(srv.ListenAndServe())
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
