package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nvthanh/eduleave/core"
)

// Roles
const (
	RoleAdmin    = "ADMIN"
	RoleStaff    = "USER"   // school management board
	RoleHomeroom = "GVCN"   // homeroom teacher
	RoleStudent  = "HS"     // student / parent
	RoleViewer   = "VIEWER" // read-only
)

var (
	AllRoles = []string{RoleAdmin, RoleStaff, RoleHomeroom, RoleStudent, RoleViewer}

	// RegisterableRoles may be picked on the open registration form.
	// Admin and staff accounts are provisioned by an admin.
	RegisterableRoles = []string{RoleStudent, RoleHomeroom, RoleViewer}

	Roles = []Role{
		{Name: "Administrator", Value: RoleAdmin},
		{Name: "Management Board", Value: RoleStaff},
		{Name: "Homeroom Teacher", Value: RoleHomeroom},
		{Name: "Student", Value: RoleStudent},
		{Name: "Viewer", Value: RoleViewer},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Permission is the capability set a role grants.
type Permission struct {
	CanCreate    bool `json:"can_create"`
	CanApprove   bool `json:"can_approve"`
	CanDelete    bool `json:"can_delete"`
	CanConfigure bool `json:"can_configure"`
}

// permissions is the fixed role -> capability table. Unknown roles resolve
// to the zero Permission (no capabilities).
var permissions = map[string]Permission{
	RoleAdmin:    {CanCreate: true, CanApprove: true, CanDelete: true, CanConfigure: true},
	RoleStaff:    {CanCreate: true, CanApprove: true},
	RoleHomeroom: {CanCreate: true},
	RoleStudent:  {CanCreate: true},
	RoleViewer:   {},
}

// RolePermissions returns the capability set granted by role.
func RolePermissions(role string) Permission {
	return permissions[role]
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullname"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	Class        string    `json:"class,omitempty"` // students & homeroom teachers
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) Permissions() Permission { return RolePermissions(u.Role) }

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// DisplayName is the name recorded as approver on status changes.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	FullName        string `json:"fullname" validate:"required"`
	Username        string `json:"username" validate:"required,min=4,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,role"`
	Class           string `json:"class"`
}

func (nu *NewUser) Validate(svc Service) error {
	nu.FullName = core.CleanString(nu.FullName)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Class = core.CleanString(nu.Class)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Empty fields keep their original values.
type UpdateUser struct {
	FullName        string `json:"fullname"`
	Username        string `json:"username" validate:"omitempty,min=4,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"omitempty,role"`
	Class           string `json:"class"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc Service) error {
	if name := core.CleanString(uu.FullName); name != "" {
		uu.FullName = name
	} else {
		uu.FullName = origUsr.FullName
	}
	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}
	if uu.Role == "" {
		uu.Role = origUsr.Role
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Username, uu.Email, origUsr)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Role     string `query:"role"`
	Class    string `query:"class"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.Class == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
