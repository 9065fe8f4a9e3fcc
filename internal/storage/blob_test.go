package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartFile(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File[field][0]
}

func TestSaveUpload(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatal(err)
	}

	fh := multipartFile(t, "photo", "cat.jpg", []byte("jpeg-bytes"))
	url, err := store.SaveUpload("photo", fh)
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/photo_") || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q", url)
	}

	// the blob actually landed on disk with the served name
	saved := filepath.Join(store.Dir(), strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("reading saved blob: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("blob content = %q", data)
	}
}

func TestSaveUploadRejectsUnsupportedType(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	fh := multipartFile(t, "photo", "malware.exe", []byte("nope"))
	if _, err := store.SaveUpload("photo", fh); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want ErrUnsupportedFileType", err)
	}
}

func TestSaveUploadRejectsOversizedFile(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	fh := multipartFile(t, "photo", "big.jpg", []byte("x"))
	fh.Size = maxUploadBytes + 1
	if _, err := store.SaveUpload("photo", fh); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}
