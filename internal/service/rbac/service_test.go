package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
)

func TestPermissionsOf(t *testing.T) {
	svc := NewService()

	admin, err := svc.PermissionsOf(model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.Has(model.PermissionCreatePatient), "wildcard implies everything")
	assert.True(t, admin.Has(model.PermissionUpdateAssignedActions))

	nurse, err := svc.PermissionsOf(model.RoleNurse)
	require.NoError(t, err)
	assert.True(t, nurse.Has(model.PermissionCreateAction))
	assert.False(t, nurse.Has(model.PermissionCreatePatient))
	assert.False(t, nurse.Has(model.PermissionViewAll))

	pharmacy, err := svc.PermissionsOf(model.RolePharmacy)
	require.NoError(t, err)
	assert.True(t, pharmacy.Has(model.PermissionUpdateAssignedActions))
	assert.False(t, pharmacy.Has(model.PermissionCreateAction))
}

func TestPermissionsOfUnknownRole(t *testing.T) {
	svc := NewService()

	_, err := svc.PermissionsOf(model.Role("janitor"))
	require.Error(t, err)
	var unknown *ErrUnknownRole
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, model.Role("janitor"), unknown.Role)
}

func TestDepartmentOf(t *testing.T) {
	svc := NewService()

	d, ok := svc.DepartmentOf(model.RoleRadiology)
	require.True(t, ok)
	assert.Equal(t, model.DepartmentRadiology, d)

	_, ok = svc.DepartmentOf(model.RoleDoctor)
	assert.False(t, ok)

	assert.True(t, svc.IsDepartmentRole(model.RoleLaboratory))
	assert.False(t, svc.IsDepartmentRole(model.RoleAdmin))
	assert.False(t, svc.IsDepartmentRole(model.RoleNurse))
}

func TestRegisterAndLookupUser(t *testing.T) {
	svc := NewService()

	err := svc.RegisterUser(&model.User{Username: "drwho", Name: "Dr. Who", Role: model.RoleDoctor})
	require.NoError(t, err)

	u, ok := svc.LookupUser("drwho")
	require.True(t, ok)
	assert.Equal(t, "Dr. Who", u.Name)

	_, ok = svc.LookupUser("nobody")
	assert.False(t, ok)

	err = svc.RegisterUser(&model.User{Username: "x", Role: model.Role("intruder")})
	assert.Error(t, err)
}

func TestActorFor(t *testing.T) {
	svc := NewService()

	actor, err := svc.ActorFor(&model.User{Username: "pharm", Name: "Pharmacy Desk", Role: model.RolePharmacy})
	require.NoError(t, err)
	assert.Equal(t, model.DepartmentPharmacy, actor.Department)
	assert.True(t, actor.HasPermission(model.PermissionViewAssigned))

	actor, err = svc.ActorFor(&model.User{Username: "drwho", Role: model.RoleDoctor})
	require.NoError(t, err)
	assert.Empty(t, actor.Department)

	_, err = svc.ActorFor(&model.User{Username: "x", Role: model.Role("intruder")})
	assert.Error(t, err)
}
