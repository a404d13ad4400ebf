package services

import (
	"github.com/Tanish6738/project-management-sub001/models"
)

// Role hierarchies are totally ordered; a required-role check passes when the
// principal's index is at least the required index, or the principal is the
// aggregate owner, or the account is a global admin.
var projectRoleOrder = []string{models.ProjectRoleViewer, models.ProjectRoleEditor, models.ProjectRoleAdmin}
var teamRoleOrder = []string{models.TeamRoleViewer, models.TeamRoleMember, models.TeamRoleAdmin}

func roleIndex(order []string, role string) int {
	for i, r := range order {
		if r == role {
			return i
		}
	}
	return -1
}

// ProjectAccess is the effective access a principal holds on a project.
type ProjectAccess struct {
	IsOwner     bool
	GlobalAdmin bool
	Role        string
	Permissions models.ProjectPermissions
}

// EvaluateProjectAccess resolves a principal's access on a project. The owner
// holds the highest role whether or not a membership entry exists.
func EvaluateProjectAccess(user *models.User, project *models.Project) (ProjectAccess, error) {
	if project.OwnerID == user.ID {
		return ProjectAccess{
			IsOwner: true,
			Role:    models.ProjectRoleAdmin,
			Permissions: models.ProjectPermissions{
				CanEditTasks:     true,
				CanDeleteTasks:   true,
				CanInviteMembers: true,
			},
		}, nil
	}

	if user.IsGlobalAdmin() {
		return ProjectAccess{
			GlobalAdmin: true,
			Role:        models.ProjectRoleAdmin,
			Permissions: models.ProjectPermissions{
				CanEditTasks:     true,
				CanDeleteTasks:   true,
				CanInviteMembers: true,
			},
		}, nil
	}

	for _, m := range project.Members {
		if m.UserID == user.ID {
			return ProjectAccess{Role: m.Role, Permissions: m.Permissions}, nil
		}
	}

	return ProjectAccess{}, models.Forbidden("not a member of this project")
}

// AtLeast reports whether the access satisfies a required project role.
func (a ProjectAccess) AtLeast(required string) bool {
	if a.IsOwner || a.GlobalAdmin {
		return true
	}
	return roleIndex(projectRoleOrder, a.Role) >= roleIndex(projectRoleOrder, required)
}

// CanEditTasks is flag-gated: a plain member needs the flag even as editor.
func (a ProjectAccess) CanEditTasks() bool {
	return a.IsOwner || a.GlobalAdmin || a.Permissions.CanEditTasks
}

func (a ProjectAccess) CanDeleteTasks() bool {
	return a.IsOwner || a.GlobalAdmin || a.Permissions.CanDeleteTasks
}

func (a ProjectAccess) CanInviteMembers() bool {
	return a.IsOwner || a.GlobalAdmin || a.Permissions.CanInviteMembers || a.AtLeast(models.ProjectRoleAdmin)
}

// TeamAccess is the effective access a principal holds on a team.
type TeamAccess struct {
	IsOwner     bool
	GlobalAdmin bool
	Role        string
	Permissions models.TeamPermissions
}

// EvaluateTeamAccess resolves a principal's access on a team. Only active
// membership entries count; pending and rejected entries grant nothing.
func EvaluateTeamAccess(user *models.User, team *models.Team) (TeamAccess, error) {
	if team.OwnerID == user.ID {
		return TeamAccess{
			IsOwner: true,
			Role:    models.TeamRoleAdmin,
			Permissions: models.TeamPermissions{
				CanAddProjects:     true,
				CanRemoveProjects:  true,
				CanViewAllProjects: true,
			},
		}, nil
	}

	if user.IsGlobalAdmin() {
		return TeamAccess{
			GlobalAdmin: true,
			Role:        models.TeamRoleAdmin,
			Permissions: models.TeamPermissions{
				CanAddProjects:     true,
				CanRemoveProjects:  true,
				CanViewAllProjects: true,
			},
		}, nil
	}

	for _, m := range team.Members {
		if m.UserID == user.ID && m.Status == models.TeamMemberStatusActive {
			return TeamAccess{Role: m.Role, Permissions: m.Permissions}, nil
		}
	}

	return TeamAccess{}, models.Forbidden("not a member of this team")
}

// AtLeast reports whether the access satisfies a required team role.
func (a TeamAccess) AtLeast(required string) bool {
	if a.IsOwner || a.GlobalAdmin {
		return true
	}
	return roleIndex(teamRoleOrder, a.Role) >= roleIndex(teamRoleOrder, required)
}

func (a TeamAccess) CanAddProjects() bool {
	return a.IsOwner || a.GlobalAdmin || a.Permissions.CanAddProjects || a.AtLeast(models.TeamRoleAdmin)
}

func (a TeamAccess) CanRemoveProjects() bool {
	return a.IsOwner || a.GlobalAdmin || a.Permissions.CanRemoveProjects || a.AtLeast(models.TeamRoleAdmin)
}

func (a TeamAccess) CanViewAllProjects() bool {
	return a.IsOwner || a.GlobalAdmin || a.Permissions.CanViewAllProjects
}

// ValidProjectRole reports whether a role name exists in the project hierarchy.
func ValidProjectRole(role string) bool {
	return roleIndex(projectRoleOrder, role) >= 0
}

// ValidTeamRole reports whether a role name exists in the team hierarchy.
func ValidTeamRole(role string) bool {
	return roleIndex(teamRoleOrder, role) >= 0
}
