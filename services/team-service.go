package services

import (
	"context"
	"time"

	"github.com/Tanish6738/project-management-sub001/audit"
	"github.com/Tanish6738/project-management-sub001/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TeamService struct {
	Teams      *mongo.Collection
	Users      *mongo.Collection
	Projects   *mongo.Collection
	Tasks      *mongo.Collection
	Audit      audit.Recorder
	MaxMembers int
}

func NewTeamService(teams, users, projects, tasks *mongo.Collection, recorder audit.Recorder, maxMembers int) *TeamService {
	if maxMembers <= 0 {
		maxMembers = models.DefaultMaxTeamMembers
	}
	return &TeamService{
		Teams:      teams,
		Users:      users,
		Projects:   projects,
		Tasks:      tasks,
		Audit:      recorder,
		MaxMembers: maxMembers,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, owner *models.User, name string) (*models.Team, error) {
	if name == "" {
		return nil, models.Validation("team name is required")
	}

	now := time.Now()
	team := &models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		OwnerID:   owner.ID,
		Members:   []models.TeamMember{},
		Projects:  []models.LinkedProject{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.Teams.InsertOne(ctx, team); err != nil {
		return nil, models.Internal("failed to create team", err)
	}

	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": owner.ID}, bson.M{"$addToSet": bson.M{"teams": team.ID}}); err != nil {
		return nil, models.Internal("failed to link team to owner", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: owner.ID.Hex(), Action: "team.create", TargetType: "team", TargetID: team.ID.Hex(), Details: name})
	return team, nil
}

func (s *TeamService) GetTeamByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	if err := s.Teams.FindOne(ctx, bson.M{"_id": id}).Decode(&team); err != nil {
		return nil, models.NotFound("team not found")
	}
	return &team, nil
}

// GetTeam loads a team for a principal, enforcing membership.
func (s *TeamService) GetTeam(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Team, error) {
	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := EvaluateTeamAccess(actor, team); err != nil {
		return nil, err
	}
	return team, nil
}

// UpdateTeam renames a team. Name is the only externally settable field.
func (s *TeamService) UpdateTeam(ctx context.Context, actor *models.User, id primitive.ObjectID, name string) (*models.Team, error) {
	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	access, err := EvaluateTeamAccess(actor, team)
	if err != nil {
		return nil, err
	}
	if !access.AtLeast(models.TeamRoleAdmin) {
		return nil, models.Forbidden("only team admins can update the team")
	}
	if name == "" {
		return nil, models.Validation("team name is required")
	}

	if _, err := s.Teams.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now()}}); err != nil {
		return nil, models.Internal("failed to update team", err)
	}

	team.Name = name
	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.update", TargetType: "team", TargetID: id.Hex()})
	return team, nil
}

// DeleteTeam removes the team. Linked projects are unlinked and become
// personal projects of their owners; they are not deleted.
func (s *TeamService) DeleteTeam(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return err
	}
	if team.OwnerID != actor.ID && !actor.IsGlobalAdmin() {
		return models.Forbidden("only the team owner can delete the team")
	}

	update := bson.M{"$set": bson.M{"type": models.ProjectTypePersonal}, "$unset": bson.M{"teamId": ""}}
	if _, err := s.Projects.UpdateMany(ctx, bson.M{"teamId": id}, update); err != nil {
		return models.Internal("failed to unlink team projects", err)
	}

	if _, err := s.Users.UpdateMany(ctx, bson.M{"teams": id}, bson.M{"$pull": bson.M{"teams": id}}); err != nil {
		return models.Internal("failed to remove team references", err)
	}

	if _, err := s.Teams.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return models.Internal("failed to delete team", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.delete", TargetType: "team", TargetID: id.Hex()})
	return nil
}

// countedMembers is the number of entries that occupy a seat: the owner is
// implicit, rejected entries are not seats.
func countedMembers(team *models.Team) int {
	n := 0
	for _, m := range team.Members {
		if m.Status != models.TeamMemberStatusRejected {
			n++
		}
	}
	return n
}

// InviteMember adds a pending membership entry and pushes an invite onto the
// invited user. The member cap is enforced before anything persists.
func (s *TeamService) InviteMember(ctx context.Context, actor *models.User, teamID, userID primitive.ObjectID, role string, perms models.TeamPermissions) error {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	access, err := EvaluateTeamAccess(actor, team)
	if err != nil {
		return err
	}
	if !access.AtLeast(models.TeamRoleAdmin) {
		return models.Forbidden("only team admins can invite members")
	}
	if role == "" {
		role = models.TeamRoleMember
	}
	if !ValidTeamRole(role) {
		return models.Validation("invalid team role: " + role)
	}
	if userID == team.OwnerID {
		return models.Conflict("user already owns this team")
	}
	for _, m := range team.Members {
		if m.UserID == userID && m.Status != models.TeamMemberStatusRejected {
			return models.Conflict("user is already a member or has a pending invite")
		}
	}
	if countedMembers(team)+1 > s.MaxMembers {
		return models.Validation("team member limit reached")
	}

	var invited models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&invited); err != nil {
		return models.NotFound("invited user not found")
	}

	now := time.Now()
	member := models.TeamMember{
		UserID:      userID,
		Role:        role,
		Permissions: perms,
		Status:      models.TeamMemberStatusPending,
		InvitedBy:   actor.ID,
		JoinedAt:    now,
	}
	// A re-invite after rejection replaces the rejected entry.
	if _, err := s.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{"$pull": bson.M{"members": bson.M{"userId": userID}}}); err != nil {
		return models.Internal("failed to clear previous membership entry", err)
	}
	if _, err := s.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{"$push": bson.M{"members": member}}); err != nil {
		return models.Internal("failed to add member entry", err)
	}

	invite := models.Invite{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		InviterID: actor.ID,
		Status:    models.InviteStatusPending,
		CreatedAt: now,
	}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"invites": invite}}); err != nil {
		return models.Internal("failed to deliver invite", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.invite", TargetType: "team", TargetID: teamID.Hex(), Details: userID.Hex()})
	return nil
}

// RespondToInvite accepts or rejects a pending invite held by the actor.
func (s *TeamService) RespondToInvite(ctx context.Context, actor *models.User, inviteID primitive.ObjectID, accept bool) error {
	var invite *models.Invite
	for i := range actor.Invites {
		if actor.Invites[i].ID == inviteID {
			invite = &actor.Invites[i]
			break
		}
	}
	if invite == nil {
		return models.NotFound("invite not found")
	}
	if invite.Status != models.InviteStatusPending {
		return models.Conflict("invite has already been answered")
	}

	inviteStatus := models.InviteStatusRejected
	memberStatus := models.TeamMemberStatusRejected
	if accept {
		inviteStatus = models.InviteStatusAccepted
		memberStatus = models.TeamMemberStatusActive
	}

	if _, err := s.Users.UpdateOne(ctx,
		bson.M{"_id": actor.ID, "invites._id": inviteID},
		bson.M{"$set": bson.M{"invites.$.status": inviteStatus}},
	); err != nil {
		return models.Internal("failed to update invite", err)
	}

	if _, err := s.Teams.UpdateOne(ctx,
		bson.M{"_id": invite.TeamID, "members.userId": actor.ID},
		bson.M{"$set": bson.M{"members.$.status": memberStatus}},
	); err != nil {
		return models.Internal("failed to update membership entry", err)
	}

	if accept {
		if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": actor.ID}, bson.M{"$addToSet": bson.M{"teams": invite.TeamID}}); err != nil {
			return models.Internal("failed to link team to user", err)
		}
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.invite_response", TargetType: "team", TargetID: invite.TeamID.Hex(), Details: inviteStatus})
	return nil
}

// RemoveMember drops a membership entry. Admins can remove anyone but the
// owner; any member can remove themselves.
func (s *TeamService) RemoveMember(ctx context.Context, actor *models.User, teamID, userID primitive.ObjectID) error {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	access, err := EvaluateTeamAccess(actor, team)
	if err != nil {
		return err
	}
	if actor.ID != userID && !access.AtLeast(models.TeamRoleAdmin) {
		return models.Forbidden("only team admins can remove other members")
	}
	if userID == team.OwnerID {
		return models.Validation("the team owner cannot be removed")
	}

	res, err := s.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{"$pull": bson.M{"members": bson.M{"userId": userID}}})
	if err != nil {
		return models.Internal("failed to remove member", err)
	}
	if res.ModifiedCount == 0 {
		return models.NotFound("member not found in team")
	}

	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"teams": teamID}}); err != nil {
		return models.Internal("failed to remove team reference", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.remove_member", TargetType: "team", TargetID: teamID.Hex(), Details: userID.Hex()})
	return nil
}

// UpdateMemberRole changes a member's role and permission flags.
func (s *TeamService) UpdateMemberRole(ctx context.Context, actor *models.User, teamID, userID primitive.ObjectID, role string, perms *models.TeamPermissions) error {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	access, err := EvaluateTeamAccess(actor, team)
	if err != nil {
		return err
	}
	if !access.AtLeast(models.TeamRoleAdmin) {
		return models.Forbidden("only team admins can change member roles")
	}
	if role != "" && !ValidTeamRole(role) {
		return models.Validation("invalid team role: " + role)
	}

	set := bson.M{}
	if role != "" {
		set["members.$.role"] = role
	}
	if perms != nil {
		set["members.$.permissions"] = *perms
	}
	if len(set) == 0 {
		return models.Validation("nothing to update")
	}

	res, err := s.Teams.UpdateOne(ctx,
		bson.M{"_id": teamID, "members.userId": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return models.Internal("failed to update member", err)
	}
	if res.MatchedCount == 0 {
		return models.NotFound("member not found in team")
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.update_member", TargetType: "team", TargetID: teamID.Hex(), Details: userID.Hex()})
	return nil
}

// ensureProjectLinkable verifies a project may be attached to the team by
// this actor. Linking converts the project to team type and exposes it to
// team members, so the actor must hold admin rights on the project itself,
// not just the canAddProjects flag on the team.
func ensureProjectLinkable(actor *models.User, project *models.Project, teamID primitive.ObjectID) error {
	if project.TeamID != nil && *project.TeamID != teamID {
		return models.Validation("project already belongs to another team")
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if !access.AtLeast(models.ProjectRoleAdmin) {
		return models.Forbidden("only the project owner or a project admin can link it to a team")
	}
	return nil
}

// LinkProject attaches an existing project to the team.
func (s *TeamService) LinkProject(ctx context.Context, actor *models.User, teamID, projectID primitive.ObjectID) error {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	access, err := EvaluateTeamAccess(actor, team)
	if err != nil {
		return err
	}
	if !access.CanAddProjects() {
		return models.Forbidden("missing permission to add projects to this team")
	}

	var project models.Project
	if err := s.Projects.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return models.NotFound("project not found")
	}
	if err := ensureProjectLinkable(actor, &project, teamID); err != nil {
		return err
	}
	for _, lp := range team.Projects {
		if lp.ProjectID == projectID {
			return models.Conflict("project is already linked to this team")
		}
	}

	linked := models.LinkedProject{ProjectID: projectID, AddedBy: actor.ID, AddedAt: time.Now()}
	if _, err := s.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{"$push": bson.M{"projects": linked}}); err != nil {
		return models.Internal("failed to link project", err)
	}

	update := bson.M{"$set": bson.M{"type": models.ProjectTypeTeam, "teamId": teamID}}
	if _, err := s.Projects.UpdateOne(ctx, bson.M{"_id": projectID}, update); err != nil {
		return models.Internal("failed to tag project with team", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.link_project", TargetType: "team", TargetID: teamID.Hex(), Details: projectID.Hex()})
	return nil
}

// UnlinkProject detaches a project; the project becomes personal.
func (s *TeamService) UnlinkProject(ctx context.Context, actor *models.User, teamID, projectID primitive.ObjectID) error {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	access, err := EvaluateTeamAccess(actor, team)
	if err != nil {
		return err
	}
	if !access.CanRemoveProjects() {
		return models.Forbidden("missing permission to remove projects from this team")
	}

	res, err := s.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{"$pull": bson.M{"projects": bson.M{"projectId": projectID}}})
	if err != nil {
		return models.Internal("failed to unlink project", err)
	}
	if res.ModifiedCount == 0 {
		return models.NotFound("project is not linked to this team")
	}

	update := bson.M{"$set": bson.M{"type": models.ProjectTypePersonal}, "$unset": bson.M{"teamId": ""}}
	if _, err := s.Projects.UpdateOne(ctx, bson.M{"_id": projectID}, update); err != nil {
		return models.Internal("failed to untag project", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "team.unlink_project", TargetType: "team", TargetID: teamID.Hex(), Details: projectID.Hex()})
	return nil
}

// RecomputeTeamTaskStats recounts tasks across all linked projects and
// overwrites the stored counters.
func (s *TeamService) RecomputeTeamTaskStats(ctx context.Context, actor *models.User, teamID primitive.ObjectID) (*models.TeamTaskStats, error) {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := EvaluateTeamAccess(actor, team); err != nil {
		return nil, err
	}

	projectIDs := make([]primitive.ObjectID, 0, len(team.Projects))
	for _, lp := range team.Projects {
		projectIDs = append(projectIDs, lp.ProjectID)
	}

	stats := models.TeamTaskStats{}
	if len(projectIDs) > 0 {
		cursor, err := s.Tasks.Find(ctx, bson.M{"projectId": bson.M{"$in": projectIDs}})
		if err != nil {
			return nil, models.Internal("failed to fetch team tasks", err)
		}
		defer cursor.Close(ctx)

		var tasks []models.Task
		if err := cursor.All(ctx, &tasks); err != nil {
			return nil, models.Internal("failed to decode team tasks", err)
		}

		now := time.Now()
		for _, t := range tasks {
			stats.Total++
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
	}

	if _, err := s.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{"$set": bson.M{"taskStats": stats}}); err != nil {
		return nil, models.Internal("failed to store team task stats", err)
	}
	return &stats, nil
}
