package biometric_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deepfakebank/transfer-authorization/internal/biometric"
	"github.com/deepfakebank/transfer-authorization/internal/models"
)

func TestArtifactStoreSave(t *testing.T) {
	store := biometric.NewArtifactStore(t.TempDir())
	payload := []byte("fake-jpeg-bytes")

	saved, err := store.Save(base64.StdEncoding.EncodeToString(payload), 1700000000, "frame.jpg")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.Size != len(payload) {
		t.Errorf("size = %d, want %d", saved.Size, len(payload))
	}
	if filepath.Base(saved.Path) != "frame.jpg" {
		t.Errorf("unexpected filename in path %q", saved.Path)
	}

	data, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("stored bytes do not match the upload")
	}
}

func TestArtifactStoreRejectsBadBase64(t *testing.T) {
	store := biometric.NewArtifactStore(t.TempDir())
	if _, err := store.Save("%%%not-base64%%%", 1700000000, "frame.jpg"); err == nil {
		t.Fatal("expected error for invalid base64 payload")
	}
}

func TestArtifactStoreStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store := biometric.NewArtifactStore(dir)

	saved, err := store.Save(base64.StdEncoding.EncodeToString([]byte("x")), 1, "../../evil.jpg")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rel, err := filepath.Rel(dir, saved.Path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		t.Errorf("artifact escaped base dir: %q", saved.Path)
	}
}

func TestStubProviderHonorsContext(t *testing.T) {
	p := &biometric.StubProvider{Delay: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := p.Capture(ctx); err != models.ErrCaptureUnavailable {
		t.Fatalf("got %v, want ErrCaptureUnavailable", err)
	}
}

func TestStaticProviderRequiresRef(t *testing.T) {
	p := &biometric.StaticProvider{}
	if _, err := p.Capture(context.Background()); err != models.ErrCaptureUnavailable {
		t.Fatalf("got %v, want ErrCaptureUnavailable", err)
	}

	p.Ref = "uploads/1700000000/frame.jpg"
	artifact, err := p.Capture(context.Background())
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if artifact.Ref != p.Ref {
		t.Errorf("artifact ref = %q, want %q", artifact.Ref, p.Ref)
	}
}
