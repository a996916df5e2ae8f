package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/accredhub/abet/apps/api/echo"
	"github.com/accredhub/abet/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	createUser(t, app, "Dean Adams", "dean", "dean@school.test", "Str0ng&Secure", []string{user.RoleStaff}, true)
	createUser(t, app, "Gone Guy", "goneguy", "gone@school.test", "Str0ng&Secure", []string{user.RoleFaculty}, false)

	body := func(uname, pwd string) []byte {
		return marchallObj(t, LoginRequest{Username: uname, Password: pwd})
	}

	tests := []httpTest{
		{
			name: "unknown user", body: body("whoami", "Str0ng&Secure"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: body("dean", "nope"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "login by email", body: body("dean@school.test", "Str0ng&Secure"),
			wantCode: http.StatusOK,
		},
		{
			name: "deactivated account", body: body("goneguy", "Str0ng&Secure"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "valid credentials", body: body("dean", "Str0ng&Secure"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.server.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling LoginResponse: %v", err)
				}
				if resp.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	app := setup(t)

	fac := createUser(t, app, "Prof F", "professorf", "pf@school.test", "", []string{user.RoleFaculty}, true)
	admin := createUser(t, app, "Admin", "administrator", "admin@school.test", "", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, fac), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Get all", path: "/v1/users", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallList(t, fac, admin),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	staff := createUser(t, app, "Dean Adams", "deanadams", "dean@school.test", "", []string{user.RoleStaff}, true)
	admin := createUser(t, app, "Admin", "administrator", "admin@school.test", "", []string{user.RoleAdmin}, true)

	newUser := func(uname string, roles ...string) []byte {
		return marchallObj(t, user.NewUser{
			Name:            "New Member",
			Username:        uname,
			Email:           uname + "@school.test",
			Password:        "Str0ng&Secure",
			PasswordConfirm: "Str0ng&Secure",
			Roles:           roles,
		})
	}

	tests := []httpTest{
		{name: "Auth required", body: newUser("member1"), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", body: newUser("member1"), token: getToken(t, staff), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Admin registers faculty", body: newUser("member1", user.RoleFaculty), token: getToken(t, admin), wantCode: http.StatusCreated},
		{
			name: "Cannot exceed own roles", body: newUser("member2", user.RoleAdminOwner), token: getToken(t, admin),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"roles": "not enough rights to set these roles"}),
		},
		{
			name: "Duplicate username", body: newUser("member1", user.RoleFaculty), token: getToken(t, admin),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": user.ErrUsernameExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("unmarshalling User: %v", err)
				}
				if usr.ID == "" || usr.Username != "member1" {
					t.Errorf("failed! unexpected user %+v", usr)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_detail(t *testing.T) {
	app := setup(t)

	fac := createUser(t, app, "Prof F", "professorf", "pf@school.test", "", []string{user.RoleFaculty}, true)
	other := createUser(t, app, "Prof G", "professorg", "pg@school.test", "", []string{user.RoleFaculty}, true)
	admin := createUser(t, app, "Admin", "administrator", "admin@school.test", "", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{
			name: "Own detail", path: "/v1/users/" + fac.ID, token: getToken(t, fac),
			wantCode: http.StatusOK, wantData: marchallObj(t, fac),
		},
		{
			name: "Other's detail hidden", path: "/v1/users/" + other.ID, token: getToken(t, fac),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Admin sees any detail", path: "/v1/users/" + other.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, other),
		},
		{
			name: "Unknown ID", path: "/v1/users/nope", token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_update(t *testing.T) {
	app := setup(t)

	fac := createUser(t, app, "Prof F", "professorf", "pf@school.test", "", []string{user.RoleFaculty}, true)
	admin := createUser(t, app, "Admin", "administrator", "admin@school.test", "", []string{user.RoleAdmin}, true)

	t.Run("non-admin cannot touch roles", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"roles": []string{user.RoleStaff}})
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+fac.ID, getToken(t, fac), body)
		app.server.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("non-admin updates own name", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"name": "Prof Fantastic"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+fac.ID, getToken(t, fac), body)
		app.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling User: %v", err)
		}
		if usr.Name != "Prof Fantastic" {
			t.Errorf("failed! name = %q", usr.Name)
		}
	})

	t.Run("admin promotes to staff", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"roles": []string{user.RoleStaff}})
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+fac.ID, getToken(t, admin), body)
		app.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling User: %v", err)
		}
		if len(usr.Roles) != 1 || usr.Roles[0] != user.RoleStaff {
			t.Errorf("failed! roles = %v", usr.Roles)
		}
	})
}
