package services

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/Tanish6738/project-management-sub001/audit"
	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService struct {
	Users    *mongo.Collection
	Projects *mongo.Collection
	Teams    *mongo.Collection
	Tasks    *mongo.Collection
	Audit    audit.Recorder
}

func NewUserService(users, projects, teams, tasks *mongo.Collection, recorder audit.Recorder) *UserService {
	return &UserService{
		Users:    users,
		Projects: projects,
		Teams:    teams,
		Tasks:    tasks,
		Audit:    recorder,
	}
}

var selfAssignableRoles = map[string]bool{
	models.GlobalRoleManager: true,
	models.GlobalRoleMember:  true,
	models.GlobalRoleViewer:  true,
}

// Register creates a new account with a hashed credential.
func (s *UserService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, models.Validation("name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, models.Validation("invalid email address")
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, models.Validation(err.Error())
	}
	if role == "" {
		role = models.GlobalRoleMember
	}
	if !selfAssignableRoles[role] {
		return nil, models.Validation("invalid account role: " + role)
	}

	var existing models.User
	if err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		return nil, models.Conflict("user with this email already exists")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, models.Internal("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		ID:            primitive.NewObjectID(),
		Name:          html.EscapeString(name),
		Email:         email,
		Password:      hashed,
		Role:          role,
		Projects:      []primitive.ObjectID{},
		Teams:         []primitive.ObjectID{},
		Invites:       []models.Invite{},
		Sessions:      []models.Session{},
		AssignedTasks: []primitive.ObjectID{},
		WatchingTasks: []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.Conflict("user with this email already exists")
		}
		return nil, models.Internal("failed to save user", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: user.ID.Hex(), Action: "user.register", TargetType: "user", TargetID: user.ID.Hex()})
	return user, nil
}

// Login verifies the credential and appends a new session token.
func (s *UserService) Login(ctx context.Context, email, password, device string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, "", models.Unauthorized("invalid email or password")
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, "", models.Unauthorized("invalid email or password")
	}

	token, err := utils.GenerateToken(user.Email, user.Role)
	if err != nil {
		return nil, "", models.Internal("failed to generate token", err)
	}

	session := models.Session{Token: token, Device: device, LastUsed: time.Now()}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$push": bson.M{"sessions": session}}); err != nil {
		return nil, "", models.Internal("failed to store session", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: user.ID.Hex(), Action: "user.login", TargetType: "user", TargetID: user.ID.Hex(), Details: device})
	return &user, token, nil
}

// ValidateSession resolves a bearer token to its user. The token must both
// carry a valid signature and still be present on the user's session list.
func (s *UserService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, models.Unauthorized("invalid token")
	}

	var user models.User
	filter := bson.M{"email": claims.Email, "sessions.token": token}
	if err := s.Users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, models.Unauthorized("session revoked or unknown")
	}

	// Touch lastUsed; failure here never fails the request.
	update := bson.M{"$set": bson.M{"sessions.$.lastUsed": time.Now()}}
	if _, err := s.Users.UpdateOne(ctx, filter, update); err != nil {
		logging.Logger.Warnf("Event ID: SESSION_TOUCH_FAILED, Description: Failed to update session lastUsed for %s: %v", user.Email, err)
	}

	return &user, nil
}

// Logout removes exactly the presented token; other sessions stay live.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, token string) error {
	res, err := s.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"sessions": bson.M{"token": token}}},
	)
	if err != nil {
		return models.Internal("failed to remove session", err)
	}
	if res.ModifiedCount == 0 {
		return models.NotFound("session not found")
	}
	return nil
}

// LogoutAll destroys every session of the user.
func (s *UserService) LogoutAll(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"sessions": []models.Session{}}},
	)
	if err != nil {
		return models.Internal("failed to remove sessions", err)
	}
	return nil
}

func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, models.NotFound("user not found")
	}
	return &user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user); err != nil {
		return nil, models.NotFound("user not found")
	}
	return &user, nil
}

// ChangePassword rehashes the credential after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return models.Validation("new password and confirmation do not match")
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return models.Validation(err.Error())
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, oldPassword) {
		return models.Unauthorized("old password is incorrect")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return models.Internal("failed to hash new password", err)
	}

	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now()}}); err != nil {
		return models.Internal("failed to update password", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: userID.Hex(), Action: "user.change_password", TargetType: "user", TargetID: userID.Hex()})
	return nil
}

// ForgotPassword stores a short-lived numeric reset code for the account.
// Delivery of the code is owned by an external mailer; we log the request.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return models.Internal("failed to generate reset code", err)
	}
	update := bson.M{"$set": bson.M{"resetCode": code, "resetExpiry": time.Now().Add(15 * time.Minute)}}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return models.Internal("failed to store reset code", err)
	}

	logging.Logger.Infof("Event ID: PASSWORD_RESET_REQUESTED, Description: Reset code issued for %s", user.Email)
	return nil
}

// ResetPassword consumes a valid reset code and rehashes the credential.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return models.Validation(err.Error())
	}

	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.ResetCode == "" || user.ResetCode != code {
		return models.Unauthorized("invalid reset code")
	}
	if time.Now().After(user.ResetExpiry) {
		return models.Unauthorized("reset code has expired")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return models.Internal("failed to hash new password", err)
	}

	update := bson.M{
		"$set":   bson.M{"password": hashed, "sessions": []models.Session{}, "updatedAt": time.Now()},
		"$unset": bson.M{"resetCode": "", "resetExpiry": ""},
	}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return models.Internal("failed to reset password", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: user.ID.Hex(), Action: "user.reset_password", TargetType: "user", TargetID: user.ID.Hex()})
	return nil
}

// DeleteAccount removes a user. Accounts still owning a project or team are
// refused; otherwise every reference to the user is pulled before the user
// document is deleted.
func (s *UserService) DeleteAccount(ctx context.Context, actor *models.User, targetID primitive.ObjectID) error {
	if actor.ID != targetID && !actor.IsGlobalAdmin() {
		return models.Forbidden("cannot delete another user's account")
	}

	if _, err := s.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	ownedProjects, err := s.Projects.CountDocuments(ctx, bson.M{"ownerId": targetID})
	if err != nil {
		return models.Internal("failed to check owned projects", err)
	}
	if ownedProjects > 0 {
		return models.Conflict("cannot delete account: user still owns projects")
	}

	ownedTeams, err := s.Teams.CountDocuments(ctx, bson.M{"ownerId": targetID})
	if err != nil {
		return models.Internal("failed to check owned teams", err)
	}
	if ownedTeams > 0 {
		return models.Conflict("cannot delete account: user still owns teams")
	}

	if _, err := s.Projects.UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"members": bson.M{"userId": targetID}}}); err != nil {
		return models.Internal("failed to remove user from projects", err)
	}
	if _, err := s.Teams.UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"members": bson.M{"userId": targetID}}}); err != nil {
		return models.Internal("failed to remove user from teams", err)
	}
	if _, err := s.Tasks.UpdateMany(ctx, bson.M{"assigneeId": targetID}, bson.M{"$unset": bson.M{"assigneeId": ""}}); err != nil {
		return models.Internal("failed to unassign user's tasks", err)
	}
	if _, err := s.Tasks.UpdateMany(ctx, bson.M{"watchers": targetID}, bson.M{"$pull": bson.M{"watchers": targetID}}); err != nil {
		return models.Internal("failed to remove user from watcher lists", err)
	}

	if _, err := s.Users.DeleteOne(ctx, bson.M{"_id": targetID}); err != nil {
		return models.Internal("failed to delete user", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "user.delete", TargetType: "user", TargetID: targetID.Hex()})
	return nil
}

// RecomputeUserTaskStats recounts the user's assigned tasks by completion
// and lateness and overwrites the stored counters. Full recount, idempotent.
func (s *UserService) RecomputeUserTaskStats(ctx context.Context, userID primitive.ObjectID) (*models.TaskStats, error) {
	return recomputeUserTaskStats(ctx, s.Tasks, s.Users, userID)
}

func recomputeUserTaskStats(ctx context.Context, tasksColl, usersColl *mongo.Collection, userID primitive.ObjectID) (*models.TaskStats, error) {
	cursor, err := tasksColl.Find(ctx, bson.M{"assigneeId": userID})
	if err != nil {
		return nil, models.Internal("failed to fetch assigned tasks", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, models.Internal("failed to decode assigned tasks", err)
	}

	now := time.Now()
	stats := models.TaskStats{}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusInProgress:
			stats.InProgress++
		}
		if !t.Deadline.IsZero() && t.Deadline.Before(now) && t.Status != models.StatusCompleted {
			stats.Overdue++
		}
	}

	if _, err := usersColl.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"taskStats": stats}}); err != nil {
		return nil, models.Internal("failed to store task stats", err)
	}
	return &stats, nil
}
