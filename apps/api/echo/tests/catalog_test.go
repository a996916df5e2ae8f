package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/accredhub/abet/core/catalog"
	"github.com/accredhub/abet/core/user"
)

func Test_catalogApi_departments(t *testing.T) {
	app := setup(t)

	fac := createUser(t, app, "Prof F", "professorf", "pf@school.test", "", []string{user.RoleFaculty}, true)
	staff := createUser(t, app, "Dean Adams", "deanadams", "dean@school.test", "", []string{user.RoleStaff}, true)
	admin := createUser(t, app, "Admin", "admin", "admin@school.test", "", []string{user.RoleAdmin}, true)
	facToken := getToken(t, fac)
	staffToken := getToken(t, staff)
	adminToken := getToken(t, admin)

	newBody := marchallObj(t, catalog.NewDepartment{Name: "Computer Science", Email: "cs@school.test"})

	// create requires auth
	req, rec := newRequest(http.MethodPost, "/v1/departments", newBody)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	// faculty cannot create
	req, rec = newAuthRequest(http.MethodPost, "/v1/departments", facToken, newBody)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)

	// staff creates
	req, rec = newAuthRequest(http.MethodPost, "/v1/departments", staffToken, newBody)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var dept catalog.Department
	if err := json.Unmarshal(rec.Body.Bytes(), &dept); err != nil {
		t.Fatalf("unmarshalling Department: %v", err)
	}
	if dept.ID == "" || dept.Name != "Computer Science" {
		t.Fatalf("unexpected department %+v", dept)
	}

	// name is required
	req, rec = newAuthRequest(http.MethodPost, "/v1/departments", staffToken,
		marchallObj(t, catalog.NewDepartment{Email: "eng@school.test"}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("validation failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	// any authenticated user can list and retrieve
	req, rec = newAuthRequest(http.MethodGet, "/v1/departments", facToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, dept)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/departments/"+dept.ID, facToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, dept)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/departments/nope", facToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)

	// delete is admin-only
	req, rec = newAuthRequest(http.MethodDelete, "/v1/departments/"+dept.ID, staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/departments/"+dept.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/departments/"+dept.ID, facToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
}

func Test_catalogApi_facultyAndPrograms(t *testing.T) {
	app := setup(t)

	staff := createUser(t, app, "Dean Adams", "deanadams", "dean@school.test", "", []string{user.RoleStaff}, true)
	staffToken := getToken(t, staff)

	req, rec := newAuthRequest(http.MethodPost, "/v1/departments", staffToken,
		marchallObj(t, catalog.NewDepartment{Name: "Computer Science"}))
	app.server.ServeHTTP(rec, req)
	var dept catalog.Department
	if err := json.Unmarshal(rec.Body.Bytes(), &dept); err != nil {
		t.Fatalf("unmarshalling Department: %v", err)
	}

	// faculty member in an unknown department is a 404
	req, rec = newAuthRequest(http.MethodPost, "/v1/faculty", staffToken,
		marchallObj(t, catalog.NewFaculty{Name: "Dr. Reyes", DepartmentID: "nope"}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/faculty", staffToken,
		marchallObj(t, catalog.NewFaculty{
			Name:           "Dr. Reyes",
			Email:          "reyes@school.test",
			DepartmentID:   dept.ID,
			Qualifications: "PhD Computer Science",
			Expertise:      "Distributed systems",
		}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create faculty failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var member catalog.Faculty
	if err := json.Unmarshal(rec.Body.Bytes(), &member); err != nil {
		t.Fatalf("unmarshalling Faculty: %v", err)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/faculty", staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, member)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/faculty/"+member.ID, staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, member)}, rec)

	// program level must be B or M
	req, rec = newAuthRequest(http.MethodPost, "/v1/programs", staffToken,
		marchallObj(t, catalog.NewProgram{Name: "BSc CS", DepartmentID: dept.ID, Level: "X"}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("validation failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/programs", staffToken,
		marchallObj(t, catalog.NewProgram{
			Name:         "BSc Computer Science",
			DepartmentID: dept.ID,
			Level:        catalog.LevelBaccalaureate,
		}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create program failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var prog catalog.Program
	if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
		t.Fatalf("unmarshalling Program: %v", err)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/programs", staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, prog)}, rec)

	// no courses yet
	req, rec = newAuthRequest(http.MethodGet, "/v1/programs/"+prog.ID+"/courses", staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, []interface{}{}...)}, rec)
}

func Test_catalogApi_courses(t *testing.T) {
	app := setup(t)
	crs := createTestCourse(t, app)

	staff := createUser(t, app, "Dean Adams", "deanadams", "dean@school.test", "", []string{user.RoleStaff}, true)
	staffToken := getToken(t, staff)

	req, rec := newAuthRequest(http.MethodPost, "/v1/faculty", staffToken,
		marchallObj(t, catalog.NewFaculty{Name: "Dr. Reyes", DepartmentID: crsDepartmentID(t, app, crs)}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create faculty failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var member catalog.Faculty
	if err := json.Unmarshal(rec.Body.Bytes(), &member); err != nil {
		t.Fatalf("unmarshalling Faculty: %v", err)
	}

	// course under an unknown program is a 404
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses", staffToken,
		marchallObj(t, catalog.NewCourse{Code: "CS999", Name: "Ghost Course", ProgramID: "nope"}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/courses", staffToken,
		marchallObj(t, catalog.NewCourse{
			Code:         "CS302",
			Name:         "Operating Systems",
			Credits:      4,
			ProgramID:    crs.ProgramID,
			InstructorID: member.ID,
		}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create course failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var second catalog.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("unmarshalling Course: %v", err)
	}
	if second.InstructorID.String != member.ID {
		t.Errorf("instructor = %v; want %v", second.InstructorID, member.ID)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/courses?ordering=code", staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, crs, second)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/programs/"+crs.ProgramID+"/courses", staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, crs, second)}, rec)

	// update assigns the instructor to the first course; blank fields keep their value
	req, rec = newAuthRequest(http.MethodPut, "/v1/courses/"+crs.ID, staffToken,
		marchallObj(t, catalog.UpdateCourse{InstructorID: member.ID}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var updated catalog.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshalling Course: %v", err)
	}
	if updated.InstructorID.String != member.ID {
		t.Errorf("instructor = %v; want %v", updated.InstructorID, member.ID)
	}
	if updated.Code != crs.Code || updated.Name != crs.Name || updated.Credits != crs.Credits {
		t.Errorf("unexpected course after update %+v", updated)
	}

	// unknown instructor is a 404
	req, rec = newAuthRequest(http.MethodPut, "/v1/courses/"+crs.ID, staffToken,
		marchallObj(t, catalog.UpdateCourse{InstructorID: "nope"}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
}

func crsDepartmentID(t *testing.T, app *testApp, crs catalog.Course) string {
	t.Helper()
	prog, err := app.catSvc.GetProgram(context.Background(), crs.ProgramID)
	if err != nil {
		t.Fatalf("crsDepartmentID() failed: %v", err)
	}
	return prog.DepartmentID
}

func Test_catalogApi_studentsAndEnrollment(t *testing.T) {
	app := setup(t)
	crs := createTestCourse(t, app)

	staff := createUser(t, app, "Dean Adams", "deanadams", "dean@school.test", "", []string{user.RoleStaff}, true)
	staffToken := getToken(t, staff)

	// email is required
	req, rec := newAuthRequest(http.MethodPost, "/v1/students", staffToken,
		marchallObj(t, catalog.NewStudent{FirstName: "Jane", LastName: "Doe"}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("validation failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/students", staffToken,
		marchallObj(t, catalog.NewStudent{
			FirstName:      "Jane",
			LastName:       "Doe",
			Email:          "jane.doe@school.test",
			EnrollmentDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create student failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var std catalog.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
		t.Fatalf("unmarshalling Student: %v", err)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/students", staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, std)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/students/"+std.ID, staffToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, std)}, rec)

	// enrolling an unknown student is a 404
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/courses/%s/enroll", crs.ID), staffToken,
		marchallObj(t, map[string]string{"student_id": "nope"}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)

	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/courses/%s/enroll", crs.ID), staffToken,
		marchallObj(t, map[string]string{"student_id": std.ID}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var enr catalog.Enrollment
	if err := json.Unmarshal(rec.Body.Bytes(), &enr); err != nil {
		t.Fatalf("unmarshalling Enrollment: %v", err)
	}
	if enr.CourseID != crs.ID || enr.StudentID != std.ID {
		t.Errorf("unexpected enrollment %+v", enr)
	}
}
