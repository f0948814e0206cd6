package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/storage"
	"github.com/fittrack/fittrack/internal/validation"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

// formFile builds a parsed multipart upload for the "file" field.
func formFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(10 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = file.Close() })

	return file, header
}

func TestUploadStoresUnderUserPrefix(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := env.newVerifiedUser(t, "u@example.com")

	store := storage.NewMemory("https://cdn.example")
	files := NewFileService(repository.NewFileRepository(env.db), store, "fitness-tracker")

	file, header := formFile(t, "Progress.PNG", pngHeader)
	record, url, err := files.Upload(ctx, userID, file, header)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	prefix := "fitness-tracker/" + userID + "/"
	if !strings.HasPrefix(record.StoragePath, prefix) || !strings.HasSuffix(record.StoragePath, ".png") {
		t.Errorf("key = %q, want %s{uuid}.png", record.StoragePath, prefix)
	}
	if url != "https://cdn.example/"+record.StoragePath {
		t.Errorf("url = %q", url)
	}
	if record.MimeType != "image/png" || store.Types[record.StoragePath] != "image/png" {
		t.Errorf("mime = %q stored %q", record.MimeType, store.Types[record.StoragePath])
	}
	if !bytes.Equal(store.Objects[record.StoragePath], pngHeader) {
		t.Error("stored bytes differ from upload")
	}

	err = files.Delete(ctx, "someone-else", record.ID)
	if !errors.Is(err, repository.ErrFileNotFound) {
		t.Errorf("foreign delete: err = %v, want ErrFileNotFound", err)
	}

	err = files.Delete(ctx, userID, record.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := store.Objects[record.StoragePath]; ok {
		t.Error("object still in storage after delete")
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := setupTestEnv(t)
	userID := env.newVerifiedUser(t, "u2@example.com")
	files := NewFileService(repository.NewFileRepository(env.db), storage.NewMemory(""), "fitness-tracker")

	file, header := formFile(t, "notes.png", []byte("just some text, not an image"))
	_, _, err := files.Upload(context.Background(), userID, file, header)

	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	env := setupTestEnv(t)
	files := NewFileService(repository.NewFileRepository(env.db), nil, "fitness-tracker")

	file, header := formFile(t, "a.png", pngHeader)
	_, _, err := files.Upload(context.Background(), "user", file, header)
	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("err = %v, want ErrStorageNotConfigured", err)
	}
}
