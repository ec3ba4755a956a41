package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Manual end-to-end smoke test against a locally running server. Not part
// of the automated suite; run it with `go run integration_runner.go`.

const baseURL = "http://localhost:8080"

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type client struct {
	token string
}

func (c *client) do(method, path string, body any, out any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatal("encode body:", err)
		}
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		log.Fatal("build request:", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp
}

func main() {
	fmt.Println("=== Munera Backend Integration Test ===")

	suffix := fmt.Sprint(time.Now().Unix())
	manager := &client{}
	member := &client{}

	// 1. Sign up two users
	fmt.Println("\n1. Signing up users...")
	for i, c := range []*client{manager, member} {
		username := fmt.Sprintf("smoke%d_%s", i+1, suffix)
		resp := c.do("POST", "/v1/users", map[string]string{
			"first_name":       "Smoke",
			"last_name":        "Test",
			"username":         username,
			"email":            username + "@example.com",
			"password":         "smoke-test-pass",
			"password_confirm": "smoke-test-pass",
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			log.Fatalf("signup %s returned %d", username, resp.StatusCode)
		}

		var auth authResponse
		c.do("POST", "/v1/auth/login", map[string]string{
			"username": username,
			"password": "smoke-test-pass",
		}, &auth)
		c.token = auth.Token
		fmt.Printf("   ✓ %s signed up and logged in\n", username)
	}

	// 2. Create an organization and join it
	fmt.Println("\n2. Creating organization...")
	var org struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	manager.do("POST", "/v1/orgs", map[string]string{
		"name":        "Smoke Org",
		"description": "integration test org",
	}, &org)
	fmt.Printf("   ✓ Organization created, join code %s\n", org.Code)

	member.do("POST", "/v1/orgs/join", map[string]string{"code": org.Code}, nil)
	fmt.Println("   ✓ Second user joined by code")

	// 3. Create a project and add the member
	fmt.Println("\n3. Creating project...")
	var project struct {
		ID string `json:"id"`
	}
	manager.do("POST", "/v1/orgs/"+org.ID+"/projects", map[string]string{
		"name": "Smoke Project",
	}, &project)
	fmt.Println("   ✓ Project created")

	manager.do("POST", "/v1/projects/"+project.ID+"/members", map[string]string{
		"username": "smoke2_" + suffix,
	}, nil)
	fmt.Println("   ✓ Member added to project")

	// 4. Create and update a task
	fmt.Println("\n4. Exercising tasks...")
	var me struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	member.do("GET", "/v1/auth/me", nil, &me)

	var task struct {
		ID string `json:"id"`
	}
	manager.do("POST", "/v1/projects/"+project.ID+"/tasks", map[string]any{
		"name":         "Smoke task",
		"status":       "To Do",
		"assignee_ids": []string{me.User.ID},
	}, &task)
	fmt.Println("   ✓ Task created with an assignee")

	manager.do("PUT", "/v1/tasks/"+task.ID, map[string]any{
		"name":         "Smoke task",
		"status":       "Done",
		"assignee_ids": []string{},
	}, nil)
	fmt.Println("   ✓ Task moved to Done, assignees cleared")

	// 5. Permission checks from the member's side
	fmt.Println("\n5. Checking permission gates...")
	if resp := member.do("DELETE", "/v1/projects/"+project.ID, nil, nil); resp.StatusCode != http.StatusForbidden {
		log.Fatalf("member delete project returned %d, want 403", resp.StatusCode)
	}
	fmt.Println("   ✓ Member cannot delete the project")

	if resp := member.do("POST", "/v1/orgs/"+org.ID+"/leave", nil, nil); resp.StatusCode != http.StatusOK {
		log.Fatalf("leave org returned %d", resp.StatusCode)
	}
	fmt.Println("   ✓ Member left the organization")

	// 6. Cleanup
	fmt.Println("\n6. Cleaning up...")
	if resp := manager.do("DELETE", "/v1/orgs/"+org.ID, nil, nil); resp.StatusCode != http.StatusOK {
		log.Fatalf("delete org returned %d", resp.StatusCode)
	}
	fmt.Println("   ✓ Organization deleted with its projects and tasks")

	fmt.Println("\n=== Test Complete ===")
}
