package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RolePermissions(t *testing.T) {
	tests := []struct {
		role string
		want Permission
	}{
		{RoleAdmin, Permission{CanCreate: true, CanApprove: true, CanDelete: true, CanConfigure: true}},
		{RoleStaff, Permission{CanCreate: true, CanApprove: true}},
		{RoleHomeroom, Permission{CanCreate: true}},
		{RoleStudent, Permission{CanCreate: true}},
		{RoleViewer, Permission{}},
		{"", Permission{}},
		{"SUPERHERO", Permission{}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := RolePermissions(tt.role)
			assert.Equal(t, tt.want, got)

			// same tuple on every call
			assert.Equal(t, got, RolePermissions(tt.role))
		})
	}
}

func Test_User_DisplayName(t *testing.T) {
	usr := User{Username: "hero"}
	assert.Equal(t, "hero", usr.DisplayName())

	usr.FullName = "Hero Mukeba"
	assert.Equal(t, "Hero Mukeba", usr.DisplayName())
}

func Test_User_Permissions(t *testing.T) {
	admin := User{Role: RoleAdmin}
	assert.True(t, admin.Permissions().CanConfigure)
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsStudent())

	student := User{Role: RoleStudent}
	assert.True(t, student.Permissions().CanCreate)
	assert.False(t, student.Permissions().CanApprove)
	assert.True(t, student.IsStudent())

	viewer := User{Role: RoleViewer}
	assert.Equal(t, Permission{}, viewer.Permissions())
}
