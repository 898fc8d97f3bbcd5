package storage

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gatherly/events-api/internal/core/domain"
)

// makeFileHeader builds a real multipart.FileHeader the way echo's FormFile
// would hand it to the store.
func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/events", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	t.Cleanup(func() { _ = req.MultipartForm.RemoveAll() })
	return req.MultipartForm.File["image"][0]
}

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestLocalStoreSave_RejectsNonImage(t *testing.T) {
	store := newTestStore(t)
	file := makeFileHeader(t, "notes.txt", "text/plain", []byte("not a picture"))

	if _, err := store.Save(file); !errors.Is(err, domain.ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
	assertDirEmpty(t, store.Dir())
}

func TestLocalStoreSave_RejectsOversize(t *testing.T) {
	store := newTestStore(t)
	file := makeFileHeader(t, "huge.png", "image/png", make([]byte, MaxImageSize+1))

	if _, err := store.Save(file); !errors.Is(err, domain.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
	assertDirEmpty(t, store.Dir())
}

func TestLocalStoreSaveRemove_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	content := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	file := makeFileHeader(t, "party.PNG", "image/png", content)

	ref, err := store.Save(file)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(ref, "/images/event-") {
		t.Fatalf("unexpected reference %q", ref)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Fatalf("extension not normalized: %q", ref)
	}

	stored, err := os.ReadFile(filepath.Join(store.Dir(), filepath.Base(ref)))
	if err != nil {
		t.Fatalf("read stored asset: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Fatalf("stored bytes differ from upload")
	}

	if err := store.Remove(ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertDirEmpty(t, store.Dir())

	// Removing an already-gone reference is not an error.
	if err := store.Remove(ref); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestLocalStoreSave_UniqueNames(t *testing.T) {
	store := newTestStore(t)

	refs := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		file := makeFileHeader(t, "same.png", "image/png", []byte("img"))
		ref, err := store.Save(file)
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if _, dup := refs[ref]; dup {
			t.Fatalf("duplicate reference %q", ref)
		}
		refs[ref] = struct{}{}
	}
}

func TestLocalStoreRemove_IgnoresTraversal(t *testing.T) {
	outer := t.TempDir()
	victim := filepath.Join(outer, "victim")
	if err := os.WriteFile(victim, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("write victim: %v", err)
	}

	store, err := NewLocalStore(filepath.Join(outer, "uploads"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Remove("../victim"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(victim); err != nil {
		t.Fatalf("traversal escaped the upload dir: %v", err)
	}
}

func TestLocalStoreSweep_RemovesOrphansOnly(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"keep.png", "orphan-a.png", "orphan-b.jpg"} {
		if err := os.WriteFile(filepath.Join(store.Dir(), name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	removed, err := store.Sweep([]string{"/images/keep.png"})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "keep.png" {
		t.Fatalf("referenced asset was not kept: %v", entries)
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty upload dir, found %d entries", len(entries))
	}
}
