package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := NewResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected local resource")
	}
	if res.Ext() != ".go" {
		t.Fatalf("expected extension .go; got %s", res.Ext())
	}

	_, err = NewResource(filepath.Join(filepath.Dir(thisFile), "missing.json"), nil)
	if err == nil || !strings.HasPrefix(err.Error(), "resource: could not open") {
		t.Fatalf("expected an open error; got %v", err)
	}
}

func TestLocalRelativeResource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "textures"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scene.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "textures", "earth.PNG"), []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	sceneRes, err := NewResource(filepath.Join(dir, "scene.json"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sceneRes.Close()

	texRes, err := NewResource("textures/earth.PNG", sceneRes)
	if err != nil {
		t.Fatal(err)
	}
	defer texRes.Close()

	data, err := io.ReadAll(texRes)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("expected to read 'payload'; got %q", string(data))
	}
	if texRes.Ext() != ".png" {
		t.Fatalf("expected lower-cased extension .png; got %s", texRes.Ext())
	}
}

func TestHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := NewResource(fetchUrl, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if !res.IsRemote() {
		t.Fatal("expected remote resource")
	}

	fetchUrl = server.URL + "/file-not-found.foo"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = NewResource(fetchUrl, nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestRelativeHttpResources(t *testing.T) {
	serverHits := 0
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		switch r.URL.Path {
		case "/scenes/cornell.json", "/scenes/textures/wall.png":
			w.Write([]byte("OK"))
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	res1, err := NewResource(server.URL+"/scenes/cornell.json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res1.Close()
	res2, err := NewResource("textures/wall.png", res1)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Close()

	if serverHits != 2 {
		t.Fatalf("expected server to receive 2 requests; got %d", serverHits)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	expError := "resource: unsupported scheme 'gopher'"
	_, err := NewResource("gopher://digging.json", nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestResourceFromStream(t *testing.T) {
	res := NewResourceFromStream("builtin.json", strings.NewReader("{}"))
	defer res.Close()

	if res.Path() != "builtin.json" || res.Ext() != ".json" || res.IsRemote() {
		t.Fatalf("unexpected stream resource attributes: %s %s %t", res.Path(), res.Ext(), res.IsRemote())
	}
}
