package services

import (
	"testing"

	"github.com/Tanish6738/project-management-sub001/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(role string) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: role}
}

func TestEvaluateProjectAccessOwner(t *testing.T) {
	owner := newUser(models.GlobalRoleMember)
	project := &models.Project{ID: primitive.NewObjectID(), OwnerID: owner.ID}

	access, err := EvaluateProjectAccess(owner, project)
	if err != nil {
		t.Fatalf("EvaluateProjectAccess() error = %v, want nil", err)
	}
	if !access.IsOwner {
		t.Errorf("access.IsOwner = false, want true")
	}
	if access.Role != models.ProjectRoleAdmin {
		t.Errorf("access.Role = %q, want %q", access.Role, models.ProjectRoleAdmin)
	}
	if !access.CanEditTasks() || !access.CanDeleteTasks() || !access.CanInviteMembers() {
		t.Errorf("owner access denies a permission, want all granted")
	}
}

func TestEvaluateProjectAccessGlobalAdminBypass(t *testing.T) {
	admin := newUser(models.GlobalRoleAdmin)
	project := &models.Project{ID: primitive.NewObjectID(), OwnerID: primitive.NewObjectID()}

	access, err := EvaluateProjectAccess(admin, project)
	if err != nil {
		t.Fatalf("EvaluateProjectAccess() error = %v, want nil", err)
	}
	if !access.GlobalAdmin {
		t.Errorf("access.GlobalAdmin = false, want true")
	}
	if !access.AtLeast(models.ProjectRoleAdmin) {
		t.Errorf("AtLeast(admin) = false, want true")
	}
}

func TestEvaluateProjectAccessNonMember(t *testing.T) {
	user := newUser(models.GlobalRoleMember)
	project := &models.Project{ID: primitive.NewObjectID(), OwnerID: primitive.NewObjectID()}

	_, err := EvaluateProjectAccess(user, project)
	if err == nil {
		t.Fatal("EvaluateProjectAccess() error = nil, want Forbidden")
	}
	if models.KindOf(err) != models.KindForbidden {
		t.Errorf("KindOf(err) = %v, want KindForbidden", models.KindOf(err))
	}
}

func TestProjectRoleHierarchy(t *testing.T) {
	tests := []struct {
		role     string
		required string
		want     bool
	}{
		{models.ProjectRoleViewer, models.ProjectRoleViewer, true},
		{models.ProjectRoleViewer, models.ProjectRoleEditor, false},
		{models.ProjectRoleViewer, models.ProjectRoleAdmin, false},
		{models.ProjectRoleEditor, models.ProjectRoleViewer, true},
		{models.ProjectRoleEditor, models.ProjectRoleAdmin, false},
		{models.ProjectRoleAdmin, models.ProjectRoleViewer, true},
		{models.ProjectRoleAdmin, models.ProjectRoleAdmin, true},
	}

	for _, tt := range tests {
		access := ProjectAccess{Role: tt.role}
		if got := access.AtLeast(tt.required); got != tt.want {
			t.Errorf("ProjectAccess{Role: %q}.AtLeast(%q) = %v, want %v", tt.role, tt.required, got, tt.want)
		}
	}
}

func TestProjectPermissionFlagsAreStrict(t *testing.T) {
	user := newUser(models.GlobalRoleMember)
	project := &models.Project{
		ID:      primitive.NewObjectID(),
		OwnerID: primitive.NewObjectID(),
		Members: []models.ProjectMember{{
			UserID:      user.ID,
			Role:        models.ProjectRoleEditor,
			Permissions: models.ProjectPermissions{CanEditTasks: true},
		}},
	}

	access, err := EvaluateProjectAccess(user, project)
	if err != nil {
		t.Fatalf("EvaluateProjectAccess() error = %v, want nil", err)
	}
	if !access.CanEditTasks() {
		t.Errorf("CanEditTasks() = false, want true")
	}
	// An editor without the delete flag may not delete tasks.
	if access.CanDeleteTasks() {
		t.Errorf("CanDeleteTasks() = true, want false")
	}
	if access.CanInviteMembers() {
		t.Errorf("CanInviteMembers() = true, want false")
	}
}

func TestEvaluateTeamAccessPendingMemberGrantsNothing(t *testing.T) {
	user := newUser(models.GlobalRoleMember)
	team := &models.Team{
		ID:      primitive.NewObjectID(),
		OwnerID: primitive.NewObjectID(),
		Members: []models.TeamMember{{
			UserID: user.ID,
			Role:   models.TeamRoleAdmin,
			Status: models.TeamMemberStatusPending,
		}},
	}

	if _, err := EvaluateTeamAccess(user, team); err == nil {
		t.Error("EvaluateTeamAccess() error = nil for pending member, want Forbidden")
	}

	team.Members[0].Status = models.TeamMemberStatusActive
	access, err := EvaluateTeamAccess(user, team)
	if err != nil {
		t.Fatalf("EvaluateTeamAccess() error = %v after activation, want nil", err)
	}
	if !access.AtLeast(models.TeamRoleAdmin) {
		t.Errorf("AtLeast(admin) = false for active admin member, want true")
	}
}

func TestEvaluateTeamAccessOwnerImplicit(t *testing.T) {
	owner := newUser(models.GlobalRoleMember)
	team := &models.Team{ID: primitive.NewObjectID(), OwnerID: owner.ID}

	access, err := EvaluateTeamAccess(owner, team)
	if err != nil {
		t.Fatalf("EvaluateTeamAccess() error = %v, want nil", err)
	}
	if !access.IsOwner {
		t.Errorf("access.IsOwner = false, want true")
	}
	if !access.CanAddProjects() || !access.CanRemoveProjects() || !access.CanViewAllProjects() {
		t.Errorf("owner access denies a permission, want all granted")
	}
}

func TestTeamMemberViewFlagIsStrict(t *testing.T) {
	user := newUser(models.GlobalRoleMember)
	team := &models.Team{
		ID:      primitive.NewObjectID(),
		OwnerID: primitive.NewObjectID(),
		Members: []models.TeamMember{{
			UserID: user.ID,
			Role:   models.TeamRoleMember,
			Status: models.TeamMemberStatusActive,
		}},
	}

	access, err := EvaluateTeamAccess(user, team)
	if err != nil {
		t.Fatalf("EvaluateTeamAccess() error = %v, want nil", err)
	}
	if access.CanViewAllProjects() {
		t.Errorf("CanViewAllProjects() = true without the flag, want false")
	}
	if access.CanAddProjects() {
		t.Errorf("CanAddProjects() = true without the flag, want false")
	}
}

func TestEnsureProjectLinkable(t *testing.T) {
	teamID := primitive.NewObjectID()
	owner := newUser(models.GlobalRoleMember)

	t.Run("project owner may link", func(t *testing.T) {
		project := &models.Project{ID: primitive.NewObjectID(), OwnerID: owner.ID}
		if err := ensureProjectLinkable(owner, project, teamID); err != nil {
			t.Errorf("ensureProjectLinkable() = %v, want nil", err)
		}
	})

	t.Run("stranger may not link someone else's project", func(t *testing.T) {
		stranger := newUser(models.GlobalRoleMember)
		project := &models.Project{ID: primitive.NewObjectID(), OwnerID: owner.ID}
		err := ensureProjectLinkable(stranger, project, teamID)
		if models.KindOf(err) != models.KindForbidden {
			t.Errorf("KindOf(err) = %v, want KindForbidden", models.KindOf(err))
		}
	})

	t.Run("project editor may not link", func(t *testing.T) {
		editor := newUser(models.GlobalRoleMember)
		project := &models.Project{
			ID:      primitive.NewObjectID(),
			OwnerID: owner.ID,
			Members: []models.ProjectMember{{
				UserID:      editor.ID,
				Role:        models.ProjectRoleEditor,
				Permissions: models.ProjectPermissions{CanEditTasks: true},
			}},
		}
		err := ensureProjectLinkable(editor, project, teamID)
		if models.KindOf(err) != models.KindForbidden {
			t.Errorf("KindOf(err) = %v, want KindForbidden", models.KindOf(err))
		}
	})

	t.Run("project admin member may link", func(t *testing.T) {
		admin := newUser(models.GlobalRoleMember)
		project := &models.Project{
			ID:      primitive.NewObjectID(),
			OwnerID: owner.ID,
			Members: []models.ProjectMember{{UserID: admin.ID, Role: models.ProjectRoleAdmin}},
		}
		if err := ensureProjectLinkable(admin, project, teamID); err != nil {
			t.Errorf("ensureProjectLinkable() = %v, want nil", err)
		}
	})

	t.Run("project held by another team is rejected", func(t *testing.T) {
		otherTeam := primitive.NewObjectID()
		project := &models.Project{ID: primitive.NewObjectID(), OwnerID: owner.ID, TeamID: &otherTeam}
		err := ensureProjectLinkable(owner, project, teamID)
		if models.KindOf(err) != models.KindValidation {
			t.Errorf("KindOf(err) = %v, want KindValidation", models.KindOf(err))
		}
	})
}

func TestValidRoles(t *testing.T) {
	if !ValidProjectRole(models.ProjectRoleEditor) {
		t.Errorf("ValidProjectRole(%q) = false, want true", models.ProjectRoleEditor)
	}
	if ValidProjectRole("superuser") {
		t.Errorf("ValidProjectRole(%q) = true, want false", "superuser")
	}
	if !ValidTeamRole(models.TeamRoleViewer) {
		t.Errorf("ValidTeamRole(%q) = false, want true", models.TeamRoleViewer)
	}
	if ValidTeamRole("owner") {
		t.Errorf("ValidTeamRole(%q) = true, want false", "owner")
	}
}
