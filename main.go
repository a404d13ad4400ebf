package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Tanish6738/project-management-sub001/audit"
	"github.com/Tanish6738/project-management-sub001/handlers"
	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/middleware"
	"github.com/Tanish6738/project-management-sub001/notify"
	"github.com/Tanish6738/project-management-sub001/services"
	"github.com/Tanish6738/project-management-sub001/storage"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// createEmailIndex enforces unique account emails at the database level.
func createEmailIndex(ctx context.Context, users *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := users.Indexes().CreateOne(ctx, indexModel)
	return err
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Project Management Backend...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "project_management"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	usersColl := db.Collection("users")
	teamsColl := db.Collection("teams")
	projectsColl := db.Collection("projects")
	tasksColl := db.Collection("tasks")
	commentsColl := db.Collection("comments")
	attachmentsColl := db.Collection("attachments")
	timeLogsColl := db.Collection("time_logs")

	if err := createEmailIndex(ctx, usersColl); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to create unique email index: %v", err)
	}

	// Audit sink: Cassandra when configured, the application log otherwise.
	var recorder audit.Recorder = audit.LogRecorder{}
	if cassHost := os.Getenv("CASS_DB"); cassHost != "" {
		cassRecorder, err := audit.NewCassandraRecorder(cassHost)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CASS_CONNECTION_FAILED, Description: Cassandra connection failed: %v", err)
		}
		defer cassRecorder.Close()
		recorder = cassRecorder
		logging.Logger.Infof("Event ID: CASS_CONNECTED, Description: Audit events go to Cassandra at %s.", cassHost)
	}

	// Dependency graph: optional. Without Neo4j the duplicate check on the
	// task document still holds; only transitive cycle detection is skipped.
	var graph *services.GraphService
	if neo4jURI := os.Getenv("NEO4J_URI"); neo4jURI != "" {
		driver, err := neo4j.NewDriverWithContext(neo4jURI,
			neo4j.BasicAuth(os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASS"), ""))
		if err != nil {
			logging.Logger.Fatalf("Event ID: NEO4J_CONNECTION_FAILED, Description: Neo4j driver creation failed: %v", err)
		}
		defer driver.Close(context.Background())
		if err := driver.VerifyConnectivity(ctx); err != nil {
			logging.Logger.Fatalf("Event ID: NEO4J_PING_FAILED, Description: Neo4j connectivity check failed: %v", err)
		}
		graph = services.NewGraphService(driver)
		logging.Logger.Infof("Event ID: NEO4J_CONNECTED, Description: Dependency graph mirrored to Neo4j at %s.", neo4jURI)
	}

	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	notifier := notify.NewNotifier(os.Getenv("NOTIFICATIONS_SERVICE_URL"), nil, notificationsBreaker)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	fileStore, err := storage.NewDiskStore(uploadDir)
	if err != nil {
		logging.Logger.Fatalf("Event ID: STORE_INIT_FAILED, Description: Failed to initialize file store at %s: %v", uploadDir, err)
	}

	maxTeamMembers := 0
	if raw := os.Getenv("TEAM_MAX_MEMBERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			maxTeamMembers = n
		} else {
			logging.Logger.Warnf("Event ID: CONFIG_ERROR, Description: Invalid TEAM_MAX_MEMBERS value %q, using default.", raw)
		}
	}

	userService := services.NewUserService(usersColl, projectsColl, teamsColl, tasksColl, recorder)
	teamService := services.NewTeamService(teamsColl, usersColl, projectsColl, tasksColl, recorder, maxTeamMembers)
	projectService := services.NewProjectService(projectsColl, teamsColl, usersColl, tasksColl, fileStore, recorder)
	taskService := services.NewTaskService(tasksColl, projectsColl, usersColl, commentsColl, attachmentsColl, timeLogsColl, fileStore, recorder, notifier, graph)
	commentService := services.NewCommentService(commentsColl, tasksColl, projectsColl, recorder)
	attachmentService := services.NewAttachmentService(attachmentsColl, tasksColl, projectsColl, fileStore, recorder)
	timeLogService := services.NewTimeLogService(timeLogsColl, tasksColl, projectsColl, recorder)

	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService, commentsColl, attachmentsColl, timeLogsColl)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	timeLogHandler := handlers.NewTimeLogHandler(timeLogService)

	r := mux.NewRouter()

	// Public auth routes.
	r.HandleFunc("/api/auth/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", userHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", userHandler.ForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", userHandler.ResetPassword).Methods(http.MethodPost)

	// Everything below requires a live session.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(userService))

	api.HandleFunc("/auth/logout", userHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout-all", userHandler.LogoutAll).Methods(http.MethodPost)
	api.HandleFunc("/auth/change-password", userHandler.ChangePassword).Methods(http.MethodPost)

	api.HandleFunc("/users/me", userHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/users/me/task-stats", userHandler.TaskStats).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userHandler.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userHandler.DeleteAccount).Methods(http.MethodDelete)

	api.HandleFunc("/teams", teamHandler.CreateTeam).Methods(http.MethodPost)
	api.HandleFunc("/teams/{id}", teamHandler.GetTeam).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id}", teamHandler.UpdateTeam).Methods(http.MethodPut)
	api.HandleFunc("/teams/{id}", teamHandler.DeleteTeam).Methods(http.MethodDelete)
	api.HandleFunc("/teams/{id}/members", teamHandler.InviteMember).Methods(http.MethodPost)
	api.HandleFunc("/teams/{id}/members/{userId}", teamHandler.UpdateMemberRole).Methods(http.MethodPatch)
	api.HandleFunc("/teams/{id}/members/{userId}", teamHandler.RemoveMember).Methods(http.MethodDelete)
	api.HandleFunc("/teams/{id}/projects/{projectId}", teamHandler.LinkProject).Methods(http.MethodPost)
	api.HandleFunc("/teams/{id}/projects/{projectId}", teamHandler.UnlinkProject).Methods(http.MethodDelete)
	api.HandleFunc("/teams/{id}/task-stats", teamHandler.TaskStats).Methods(http.MethodGet)
	api.HandleFunc("/invites/{inviteId}/respond", teamHandler.RespondToInvite).Methods(http.MethodPost)

	api.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/members", projectHandler.AddMember).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/members/{userId}", projectHandler.UpdateMemberRole).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{id}/members/{userId}", projectHandler.RemoveMember).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/metrics", projectHandler.Metrics).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}/tasks", taskHandler.ListTasks).Methods(http.MethodGet)

	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/subtasks", taskHandler.CreateSubtask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/subtasks/reorder", taskHandler.ReorderSubtasks).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}/tree", taskHandler.TaskTree).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/watchers", taskHandler.AddWatcher).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/watchers/{userId}", taskHandler.RemoveWatcher).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/dependencies", taskHandler.AddDependency).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/dependencies", taskHandler.ListDependencies).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/dependencies/{dependsOnId}", taskHandler.RemoveDependency).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/{id}/comments", commentHandler.CreateComment).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/comments", commentHandler.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/comments/{commentId}", commentHandler.DeleteComment).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/{id}/attachments", attachmentHandler.Upload).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/attachments", attachmentHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/attachments/{attachmentId}/download", attachmentHandler.Download).Methods(http.MethodGet)
	api.HandleFunc("/attachments/{attachmentId}", attachmentHandler.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/{id}/time-logs", timeLogHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/time-logs", timeLogHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/time-logs/{logId}", timeLogHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/time-logs/{logId}", timeLogHandler.Delete).Methods(http.MethodDelete)

	corsRouter := middleware.EnableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
