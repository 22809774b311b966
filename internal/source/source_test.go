package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitS3URI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://exports/users.json", "exports", "users.json", false},
		{"s3://exports/2024/receipts.json", "exports", "2024/receipts.json", false},
		{"s3://exports", "", "", true},
		{"s3://exports/", "", "", true},
		{"s3:///users.json", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := splitS3URI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitS3URI(%q) expected error", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitS3URI(%q): %v", tt.uri, err)
			}
			if bucket != tt.bucket || key != tt.key {
				t.Errorf("splitS3URI(%q) = %q, %q", tt.uri, bucket, key)
			}
		})
	}
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(`{"_id":{"$oid":"u1"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	r := New("us-west-2", "")
	rc, err := r.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"_id":{"$oid":"u1"}}` {
		t.Errorf("content = %q", data)
	}
}

func TestOpenMissingLocalFile(t *testing.T) {
	r := New("us-west-2", "")
	if _, err := r.Open(context.Background(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
