package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestCommitter(t *testing.T, handler http.HandlerFunc) *GitHubCommitter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGitHubCommitter(Config{
		Owner: "mekong-creative",
		Repo:  "site",
		Token: "gh-token",
	}, WithBaseURL(server.URL))
}

func TestCommitFileUpdatesExistingFile(t *testing.T) {
	var putBody map[string]any
	committer := newTestCommitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			if got := r.URL.Query().Get("ref"); got != "main" {
				t.Errorf("expected ref=main, got %q", got)
			}
			io.WriteString(w, `{"sha":"oldsha123"}`)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Errorf("decode put body: %v", err)
			}
			io.WriteString(w, `{"commit":{"sha":"newsha456"}}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	sha, err := committer.CommitFile(context.Background(), "data/catalogue.json", []byte(`{"team":[]}`), "Update site content")
	if err != nil {
		t.Fatalf("CommitFile returned error: %v", err)
	}
	if sha != "newsha456" {
		t.Fatalf("expected commit sha newsha456, got %q", sha)
	}
	if putBody["sha"] != "oldsha123" {
		t.Fatalf("expected existing blob sha in update, got %v", putBody["sha"])
	}
	decoded, err := base64.StdEncoding.DecodeString(putBody["content"].(string))
	if err != nil || string(decoded) != `{"team":[]}` {
		t.Fatalf("expected base64 content round-trip, got %v (%v)", putBody["content"], err)
	}
}

func TestCommitFileCreatesMissingFile(t *testing.T) {
	var putBody map[string]any
	committer := newTestCommitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Errorf("decode put body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"commit":{"sha":"created789"}}`)
		}
	})

	sha, err := committer.CommitFile(context.Background(), "data/catalogue.json", []byte("{}"), "Initial export")
	if err != nil {
		t.Fatalf("CommitFile returned error: %v", err)
	}
	if sha != "created789" {
		t.Fatalf("expected created sha, got %q", sha)
	}
	if _, present := putBody["sha"]; present {
		t.Fatalf("expected no blob sha for a new file, got %v", putBody["sha"])
	}
}

func TestCommitFileReportsRejection(t *testing.T) {
	committer := newTestCommitter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, `{"sha":"oldsha123"}`)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"branch protected"}`)
	})

	_, err := committer.CommitFile(context.Background(), "data/catalogue.json", []byte("{}"), "Update")
	if err == nil {
		t.Fatal("expected rejection error")
	}
}

func TestUnconfiguredCommitterRefuses(t *testing.T) {
	committer := NewGitHubCommitter(Config{})
	if committer.Configured() {
		t.Fatal("expected empty config to be unconfigured")
	}
	if _, err := committer.CommitFile(context.Background(), "x", nil, "m"); err == nil {
		t.Fatal("expected error for unconfigured committer")
	}
}

func TestSetConfigEnablesCommitter(t *testing.T) {
	committer := NewGitHubCommitter(Config{})
	if committer.Configured() {
		t.Fatal("expected empty config to be unconfigured")
	}

	committer.SetConfig(Config{Owner: "mekong-creative", Repo: "site", Token: "ghp_123"})
	if !committer.Configured() {
		t.Fatal("expected committer to be configured after SetConfig")
	}
	if committer.Branch() != "main" {
		t.Fatalf("expected default branch main, got %q", committer.Branch())
	}

	committer.SetConfig(Config{Owner: "mekong-creative", Repo: "site", Branch: "preview", Token: "ghp_123"})
	if committer.Branch() != "preview" {
		t.Fatalf("expected branch preview, got %q", committer.Branch())
	}
}
