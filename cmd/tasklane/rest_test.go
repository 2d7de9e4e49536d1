package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	"github.com/tasklane/tasklane/pkg/utils/try"
)

func TestRestClient(t *testing.T) {

	t.Run("List sends filters and the token, and decodes details", func(t *testing.T) {
		var gotRequest *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRequest = r.Clone(context.Background())
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"taskId": "task-1", "title": "x", "done": false, "priority": 3, "labels": [], "createdAt": "2023-04-05T10:11:12.567+09:00", "updatedAt": "2023-04-05T10:11:12.567+09:00"}]`))
		}))
		defer server.Close()

		testee := newRestClient(server.URL, "fake-token")
		found := try.To(testee.List(
			context.Background(),
			map[string][]string{"label": {"project:alpha"}, "done": {"false"}},
		)).OrFatal(t)

		if len(found) != 1 || found[0].TaskId != "task-1" {
			t.Errorf("unmatch tasks: %+v", found)
		}

		if gotRequest.URL.Path != "/api/tasks/" {
			t.Errorf("unmatch path: %s", gotRequest.URL.Path)
		}
		query := gotRequest.URL.Query()
		if query.Get("label") != "project:alpha" || query.Get("done") != "false" {
			t.Errorf("unmatch query: %s", gotRequest.URL.RawQuery)
		}
		if gotRequest.Header.Get("Authorization") != "Bearer fake-token" {
			t.Errorf("unmatch authorization: %s", gotRequest.Header.Get("Authorization"))
		}
	})

	t.Run("Add posts the spec as JSON", func(t *testing.T) {
		var gotBody apitasks.TaskSpec
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				t.Errorf("unmatch method: %s", r.Method)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Fatal(err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"taskId": "task-new", "title": "buy milk", "done": false, "priority": 3, "labels": [], "createdAt": "2023-04-05T10:11:12.567+09:00", "updatedAt": "2023-04-05T10:11:12.567+09:00"}`))
		}))
		defer server.Close()

		testee := newRestClient(server.URL, "")
		created := try.To(testee.Add(
			context.Background(),
			apitasks.TaskSpec{Title: "buy milk"},
		)).OrFatal(t)

		if created.TaskId != "task-new" {
			t.Errorf("unmatch taskId: %s", created.TaskId)
		}
		if gotBody.Title != "buy milk" {
			t.Errorf("unmatch posted title: %s", gotBody.Title)
		}
	})

	t.Run("SetDone PUTs on .../done, and DELETEs to reopen", func(t *testing.T) {
		methods := []string{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method+" "+r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"taskId": "task-1", "title": "x", "done": true, "priority": 3, "labels": [], "createdAt": "2023-04-05T10:11:12.567+09:00", "updatedAt": "2023-04-05T10:11:12.567+09:00"}`))
		}))
		defer server.Close()

		testee := newRestClient(server.URL, "")
		try.To(testee.SetDone(context.Background(), "task-1", true)).OrFatal(t)
		try.To(testee.SetDone(context.Background(), "task-1", false)).OrFatal(t)

		want := []string{
			"PUT /api/tasks/task-1/done/",
			"DELETE /api/tasks/task-1/done/",
		}
		if len(methods) != len(want) {
			t.Fatalf("unmatch requests: %v", methods)
		}
		for i := range want {
			if methods[i] != want[i] {
				t.Errorf("unmatch request: %s (want %s)", methods[i], want[i])
			}
		}
	})

	t.Run("it surfaces the error envelope reason", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": {"reason": "task not found"}}`))
		}))
		defer server.Close()

		testee := newRestClient(server.URL, "")
		err := testee.Remove(context.Background(), "no-such-task")
		if err == nil {
			t.Fatal("no error is caused")
		}
		if !strings.Contains(err.Error(), "task not found") {
			t.Errorf("error does not carry the reason: %s", err)
		}
	})
}
