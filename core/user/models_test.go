package user

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/accredhub/abet/core"
)

func validationTags(err error) []string {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		tags = append(tags, fe.Tag())
	}
	return tags
}

func hasTag(err error, tag string) bool {
	for _, t := range validationTags(err) {
		if t == tag {
			return true
		}
	}
	return false
}

func TestPasswordPolicy(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantTag string // empty means the password passes
	}{
		{name: "too short", pwd: "Ab1!", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "Pass word1!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", wantTag: pwdNotAllNumTag},
		{name: "no uppercase", pwd: "str0ng&secure", wantTag: pwdComplexityTag},
		{name: "no digit", pwd: "Strong&Secure", wantTag: pwdComplexityTag},
		{name: "no special", pwd: "Str0ngSecure", wantTag: pwdComplexityTag},
		{name: "similar to username", pwd: "johndoe1A!", wantTag: pwdAttrSimTag},
		{name: "valid", pwd: "Str0ng&Secure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := NewUser{
				Name:            "John Doe",
				Username:        "johndoe1",
				Email:           "jdoe@school.test",
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := core.Validate.Struct(&nu)
			if tt.wantTag == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !hasTag(err, tt.wantTag) {
				t.Errorf("Validate() tags = %v, want %q", validationTags(err), tt.wantTag)
			}
		})
	}
}

func TestNewUserRequiresUsernameOrEmail(t *testing.T) {
	nu := NewUser{
		Name:            "John Doe",
		Password:        "Str0ng&Secure",
		PasswordConfirm: "Str0ng&Secure",
	}
	err := core.Validate.Struct(&nu)
	if !hasTag(err, usernameOrEmailTag) {
		t.Errorf("Validate() tags = %v, want %q", validationTags(err), usernameOrEmailTag)
	}
}

func TestAllRolesValidation(t *testing.T) {
	nu := NewUser{
		Name:            "John Doe",
		Username:        "johndoe1",
		Password:        "Str0ng&Secure",
		PasswordConfirm: "Str0ng&Secure",
		Roles:           []string{"editor:"},
	}
	err := core.Validate.Struct(&nu)
	if !hasTag(err, allRolesTag) {
		t.Errorf("Validate() tags = %v, want %q", validationTags(err), allRolesTag)
	}

	nu.Roles = []string{RoleFaculty, RoleStaff}
	if err := core.Validate.Struct(&nu); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestUserRoleHelpers(t *testing.T) {
	tests := []struct {
		name                  string
		roles                 []string
		admin, staff, faculty bool
	}{
		{name: "no roles"},
		{name: "faculty", roles: []string{RoleFaculty}, faculty: true},
		{name: "staff", roles: []string{RoleStaff}, staff: true},
		{name: "admin owner", roles: []string{RoleAdminOwner}, admin: true},
		{name: "coordinator", roles: []string{RoleAdminCoordinator}, admin: true},
		{name: "mixed", roles: []string{RoleFaculty, RoleStaff}, staff: true, faculty: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := User{Roles: tt.roles}
			if got := usr.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.admin)
			}
			if got := usr.IsStaff(); got != tt.staff {
				t.Errorf("IsStaff() = %v, want %v", got, tt.staff)
			}
			if got := usr.IsFaculty(); got != tt.faculty {
				t.Errorf("IsFaculty() = %v, want %v", got, tt.faculty)
			}
		})
	}
}

func TestMaxRolePriority(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{name: "none", want: 0},
		{name: "faculty", roles: []string{RoleFaculty}, want: 1},
		{name: "staff beats faculty", roles: []string{RoleFaculty, RoleStaff}, want: 11},
		{name: "owner beats all", roles: []string{RoleFaculty, RoleStaff, RoleAdminOwner}, want: 30},
		{name: "unknown role", roles: []string{"editor:"}, want: 0},
	}
	for _, tt := range tests {
		if got := MaxRolePriority(tt.roles); got != tt.want {
			t.Errorf("%s: MaxRolePriority() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSetAndCheckPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("Str0ng&Secure"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if err := usr.CheckPassword("Str0ng&Secure"); err != nil {
		t.Errorf("CheckPassword() error = %v, want nil", err)
	}
	if err := usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
