package cli

import (
	"encoding/json"
	"testing"

	"github.com/vellumkit/vellum/internal/config"
)

func useTempWorkspace(t *testing.T) {
	t.Helper()
	prevCfg := cfg
	prevJSON := jsonOutput
	t.Cleanup(func() {
		cfg = prevCfg
		jsonOutput = prevJSON
	})
	cfg = &config.Config{Workspace: t.TempDir()}
	jsonOutput = true
}

func TestWorkspaceSaveLoadRoundTrip(t *testing.T) {
	useTempWorkspace(t)

	path := writeTempDoc(t, `[
		{"id": "name", "fieldType": "text", "question": "Name?", "answer": "Ada"}
	]`)

	captureStdout(t, func() {
		if err := runWsSave(wsSaveCmd, []string{"draft", path}); err != nil {
			t.Fatalf("runWsSave: %v", err)
		}
	})

	out := captureStdout(t, func() {
		if err := runWsLoad(wsLoadCmd, []string{"draft"}); err != nil {
			t.Fatalf("runWsLoad: %v", err)
		}
	})

	var resp struct {
		OK   bool `json:"ok"`
		Data struct {
			Fields []struct {
				ID     string `json:"id"`
				Answer string `json:"answer"`
			} `json:"fields"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("parse output: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if len(resp.Data.Fields) != 1 || resp.Data.Fields[0].Answer != "Ada" {
		t.Fatalf("unexpected loaded document: %+v", resp.Data.Fields)
	}
}

func TestWorkspaceListAndDelete(t *testing.T) {
	useTempWorkspace(t)

	path := writeTempDoc(t, `[{"id": "a", "fieldType": "text", "question": "A?"}]`)

	captureStdout(t, func() {
		if err := runWsSave(wsSaveCmd, []string{"one", path}); err != nil {
			t.Fatalf("runWsSave: %v", err)
		}
		if err := runWsSave(wsSaveCmd, []string{"two", path}); err != nil {
			t.Fatalf("runWsSave: %v", err)
		}
	})

	out := captureStdout(t, func() {
		if err := runWsList(wsListCmd, nil); err != nil {
			t.Fatalf("runWsList: %v", err)
		}
	})

	var listResp struct {
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	if err := json.Unmarshal([]byte(out), &listResp); err != nil {
		t.Fatalf("parse list output: %v; out=%s", err, out)
	}
	if listResp.Meta.Count != 2 {
		t.Fatalf("count = %d, want 2", listResp.Meta.Count)
	}

	captureStdout(t, func() {
		if err := runWsDelete(wsDeleteCmd, []string{"one"}); err != nil {
			t.Fatalf("runWsDelete: %v", err)
		}
	})

	out = captureStdout(t, func() {
		if err := runWsList(wsListCmd, nil); err != nil {
			t.Fatalf("runWsList: %v", err)
		}
	})
	if err := json.Unmarshal([]byte(out), &listResp); err != nil {
		t.Fatalf("parse list output: %v; out=%s", err, out)
	}
	if listResp.Meta.Count != 1 {
		t.Fatalf("count after delete = %d, want 1", listResp.Meta.Count)
	}
}

func TestWorkspaceRename(t *testing.T) {
	useTempWorkspace(t)

	path := writeTempDoc(t, `[{"id": "a", "fieldType": "text", "question": "A?"}]`)

	captureStdout(t, func() {
		if err := runWsSave(wsSaveCmd, []string{"old", path}); err != nil {
			t.Fatalf("runWsSave: %v", err)
		}
		if err := runWsRename(wsRenameCmd, []string{"old", "new"}); err != nil {
			t.Fatalf("runWsRename: %v", err)
		}
	})

	out := captureStdout(t, func() {
		if err := runWsLoad(wsLoadCmd, []string{"new"}); err != nil {
			t.Fatalf("runWsLoad: %v", err)
		}
	})

	var resp struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("parse output: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true after rename; out=%s", out)
	}
}

func TestWorkspaceLoadMissingDocument(t *testing.T) {
	useTempWorkspace(t)

	out := captureStdout(t, func() {
		// JSON mode prints the error envelope and returns nil.
		if err := runWsLoad(wsLoadCmd, []string{"nowhere"}); err != nil {
			t.Fatalf("runWsLoad: %v", err)
		}
	})

	var resp struct {
		OK    bool `json:"ok"`
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("parse output: %v; out=%s", err, out)
	}
	if resp.OK {
		t.Fatalf("expected ok=false; out=%s", out)
	}
	if resp.Error.Code != ErrDocumentNotFound {
		t.Fatalf("error code = %q, want %q", resp.Error.Code, ErrDocumentNotFound)
	}
}
