//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/librekpi/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultBaseURL = "http://localhost:8888/api/v1"
	defaultMongo   = "mongodb://localhost:27017"
	defaultDB      = "librekpi"

	adminUsername   = "e2eadmin"
	adminEmail      = "e2e_admin@example.com"
	adminPass       = "password123"
	studentUsername = "e2estudent"
	studentEmail    = "e2e_student@example.com"
	studentPass     = "password123"
	studentName     = "E2E Student"
)

var (
	baseURL  string
	mongoURI string
	mongoDB  string

	adminToken   string
	studentToken string
	majorID      string
	teacherID    string
	courseID     string
	commentID    string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	mongoURI = os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = defaultMongo
	}
	mongoDB = os.Getenv("MONGO_DATABASE")
	if mongoDB == "" {
		mongoDB = defaultDB
	}

	// 1. Reset collections and seed the initial admin
	if err := setupInitialAdmin(); err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}

	// 2. Run Tests
	os.Exit(m.Run())
}

func setupInitialAdmin() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(mongoDB)

	// Cleanup previous test data
	for _, col := range []string{"comments", "ratings", "lectures", "courses", "teachers", "majors", "users"} {
		if _, err := db.Collection(col).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("cleanup %s: %w", col, err)
		}
	}

	// Create initial admin
	hash, _ := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	now := time.Now().UTC()
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"username":         adminUsername,
		"email":            adminEmail,
		"display_name":     "E2E Admin",
		"role":             "administrator",
		"password_hash":    string(hash),
		"timezone_offset":  0,
		"created_at":       now,
		"updated_at":       now,
		"last_accessed_at": now,
	})
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func TestE2EFlow(t *testing.T) {
	// Step 1: Login as Admin
	t.Run("AdminLogin", func(t *testing.T) {
		reqBody := model.LoginRequest{
			Login:    adminEmail,
			Password: adminPass,
		}
		resp, err := post("/auth/login", reqBody, "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		adminToken = body.Data.Token
		if adminToken == "" {
			t.Fatal("token missing")
		}
		t.Logf("Admin Token received")
	})

	// Step 2: Register Student
	t.Run("RegisterStudent", func(t *testing.T) {
		reqBody := model.RegisterRequest{
			Username:    studentUsername,
			Email:       studentEmail,
			Password:    studentPass,
			DisplayName: studentName,
		}
		resp, err := post("/auth/register", reqBody, "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		t.Logf("Student Registered")
	})

	// Step 2b: Register Duplicate Student (Expect 409)
	t.Run("RegisterDuplicateStudent", func(t *testing.T) {
		reqBody := model.RegisterRequest{
			Username:    studentUsername,
			Email:       studentEmail,
			Password:    studentPass,
			DisplayName: studentName,
		}
		resp, err := post("/auth/register", reqBody, "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected status 409 Conflict, got %d. Body: %s", resp.StatusCode, readBody(resp))
		} else {
			t.Logf("Duplicate Registration Rejected Correctly (409)")
		}
	})

	// Step 3: Login as Student
	t.Run("StudentLogin", func(t *testing.T) {
		reqBody := model.LoginRequest{
			Login:    studentUsername,
			Password: studentPass,
		}
		resp, err := post("/auth/login", reqBody, "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		studentToken = body.Data.Token
		if studentToken == "" {
			t.Fatal("student token missing")
		}
		t.Logf("Student Token received")
	})

	// Step 4: Build the catalog (Admin)
	t.Run("CreateMajor", func(t *testing.T) {
		reqBody := model.CreateMajorRequest{
			Code:    "121",
			Name:    "Software Engineering",
			Faculty: "Faculty of Informatics and Computer Science",
		}
		resp, err := post("/admin/majors", reqBody, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Major struct {
					ID string `json:"id"`
				} `json:"major"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		majorID = body.Data.Major.ID
		if majorID == "" {
			t.Fatal("major ID missing")
		}
		t.Logf("Major Created: %s", majorID)
	})

	t.Run("CreateTeacher", func(t *testing.T) {
		reqBody := model.CreateTeacherRequest{
			FirstName: "Taras",
			LastName:  "Kovalenko",
			Faculty:   "Faculty of Informatics and Computer Science",
			Position:  "Associate Professor",
		}
		resp, err := post("/admin/teachers", reqBody, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Teacher struct {
					ID string `json:"id"`
				} `json:"teacher"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		teacherID = body.Data.Teacher.ID
		if teacherID == "" {
			t.Fatal("teacher ID missing")
		}
		t.Logf("Teacher Created: %s", teacherID)
	})

	t.Run("CreateCourse", func(t *testing.T) {
		reqBody := model.CreateCourseRequest{
			MajorID:   majorID,
			TeacherID: teacherID,
			Title:     "Operating Systems",
			Tags:      []string{"systems"},
		}
		resp, err := post("/admin/courses", reqBody, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Course struct {
					ID string `json:"id"`
				} `json:"course"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		courseID = body.Data.Course.ID
		if courseID == "" {
			t.Fatal("course ID missing")
		}
		t.Logf("Course Created: %s", courseID)
	})

	t.Run("CreateLecture", func(t *testing.T) {
		reqBody := model.CreateLectureRequest{
			Number: 1,
			Title:  "Introduction and Processes",
			Room:   "7-505",
		}
		resp, err := post(fmt.Sprintf("/admin/courses/%s/lectures", courseID), reqBody, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		t.Logf("Lecture Created")
	})

	// Step 5: Verify Permissions (Student tries Admin action)
	t.Run("VerifyPermissionFails", func(t *testing.T) {
		resp, err := post("/admin/majors", nil, studentToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 403/401, got %d", resp.StatusCode)
		}
	})

	// Step 6: Browse the catalog anonymously
	t.Run("BrowseCatalog", func(t *testing.T) {
		resp, err := get("/majors", "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Majors []struct {
					Code string `json:"code"`
				} `json:"majors"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)

		found := false
		for _, m := range body.Data.Majors {
			if m.Code == "121" {
				found = true
				break
			}
		}
		if !found {
			t.Fatal("created major not present in majors listing")
		}

		courseResp, err := get("/courses/"+courseID, "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer courseResp.Body.Close()

		if courseResp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", courseResp.StatusCode, readBody(courseResp))
		}

		var courseBody struct {
			Data struct {
				Course struct {
					Title string `json:"title"`
				} `json:"course"`
				Teacher struct {
					FullName string `json:"full_name"`
				} `json:"teacher"`
				RatingSummary struct {
					Total int64 `json:"total"`
				} `json:"rating_summary"`
			} `json:"data"`
		}
		decodeJSON(t, courseResp, &courseBody)
		if courseBody.Data.Course.Title != "Operating Systems" {
			t.Errorf("unexpected course title %q", courseBody.Data.Course.Title)
		}
		if courseBody.Data.Teacher.FullName == "" {
			t.Error("teacher reference missing from course page")
		}
		if courseBody.Data.RatingSummary.Total != 0 {
			t.Errorf("expected empty rating summary, got total %d", courseBody.Data.RatingSummary.Total)
		}
		t.Logf("Catalog browsable")
	})

	// Step 7: Rate the course (Student). The write is queued, so the
	// endpoint acknowledges with 202 and the summary converges shortly
	// after once the worker drains the queue.
	t.Run("RateCourse", func(t *testing.T) {
		reqBody := model.RateRequest{Grade: model.GradeA}
		resp, err := put(fmt.Sprintf("/courses/%s/rating", courseID), reqBody, studentToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		t.Logf("Rating accepted")
	})

	t.Run("RatingSummaryConverges", func(t *testing.T) {
		deadline := time.Now().Add(15 * time.Second)
		for {
			resp, err := get(fmt.Sprintf("/courses/%s/ratings", courseID), "")
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}

			var body struct {
				Data struct {
					RatingSummary struct {
						Total   int64   `json:"total"`
						Average float64 `json:"average"`
					} `json:"rating_summary"`
				} `json:"data"`
			}
			decodeJSON(t, resp, &body)
			resp.Body.Close()

			if body.Data.RatingSummary.Total == 1 {
				if avg := body.Data.RatingSummary.Average; avg < 4.99 || avg > 5.01 {
					t.Fatalf("expected average 5.0 for a single A, got %v", avg)
				}
				t.Logf("Summary converged")
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("rating summary did not converge, total still %d", body.Data.RatingSummary.Total)
			}
			time.Sleep(250 * time.Millisecond)
		}
	})

	t.Run("OwnRatingVisible", func(t *testing.T) {
		resp, err := get(fmt.Sprintf("/courses/%s/rating", courseID), studentToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Rating struct {
					Grade string `json:"grade"`
				} `json:"rating"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Rating.Grade != "A" {
			t.Errorf("expected own grade A, got %q", body.Data.Rating.Grade)
		}
	})

	// Step 8: Comment on the course (Student)
	t.Run("CreateComment", func(t *testing.T) {
		reqBody := model.CreateCommentRequest{
			Text: "Demanding but worth it. Do the labs early.",
		}
		resp, err := post(fmt.Sprintf("/courses/%s/comments", courseID), reqBody, studentToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Comment struct {
					ID         string `json:"id"`
					AuthorName string `json:"author_name"`
				} `json:"comment"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		commentID = body.Data.Comment.ID
		if commentID == "" {
			t.Fatal("comment ID missing")
		}
		if body.Data.Comment.AuthorName != studentName {
			t.Errorf("expected author %q, got %q", studentName, body.Data.Comment.AuthorName)
		}
		t.Logf("Comment Created: %s", commentID)
	})

	t.Run("AnonymousSeesComment", func(t *testing.T) {
		resp, err := get(fmt.Sprintf("/courses/%s/comments", courseID), "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		threads := decodeThreads(t, resp)
		if len(threads) != 1 || threads[0].Comment.ID != commentID {
			t.Fatalf("expected exactly the created comment, got %d threads", len(threads))
		}
	})

	// Step 9: Moderation. Hiding requires the moderate permission, so
	// the student is rejected and the admin succeeds.
	t.Run("StudentCannotHideComment", func(t *testing.T) {
		resp, err := post(fmt.Sprintf("/moderation/comments/%s/hide", commentID), nil, studentToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("AdminHidesComment", func(t *testing.T) {
		resp, err := post(fmt.Sprintf("/moderation/comments/%s/hide", commentID), nil, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		listResp, err := get(fmt.Sprintf("/courses/%s/comments", courseID), "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer listResp.Body.Close()

		threads := decodeThreads(t, listResp)
		if len(threads) != 0 {
			t.Errorf("hidden comment still visible to anonymous readers")
		}
		t.Logf("Comment hidden")
	})

	t.Run("ModeratorSeesHiddenComment", func(t *testing.T) {
		resp, err := get(fmt.Sprintf("/courses/%s/comments?include_hidden=true", courseID), adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		threads := decodeThreads(t, resp)
		if len(threads) != 1 || !threads[0].Comment.Hidden {
			t.Fatalf("expected the hidden comment in moderator view, got %d threads", len(threads))
		}
	})

	// Step 10: Logout invalidates the session token
	t.Run("LogoutInvalidatesSession", func(t *testing.T) {
		resp, err := post("/auth/logout", nil, studentToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		meResp, err := get("/me", studentToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer meResp.Body.Close()

		if meResp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401 after logout, got %d", meResp.StatusCode)
		}
		t.Logf("Session invalidated")
	})
}

// Helpers

type thread struct {
	Comment struct {
		ID     string `json:"id"`
		Hidden bool   `json:"hidden"`
	} `json:"comment"`
}

func decodeThreads(t *testing.T, resp *http.Response) []thread {
	var body struct {
		Data struct {
			Comments []thread `json:"comments"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &body)
	return body.Data.Comments
}

func post(path string, body interface{}, token string) (*http.Response, error) {
	return request("POST", path, body, token)
}

func put(path string, body interface{}, token string) (*http.Response, error) {
	return request("PUT", path, body, token)
}

func get(path string, token string) (*http.Response, error) {
	return request("GET", path, nil, token)
}

func request(method, path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
