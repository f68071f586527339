package commands

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/quillcms/quill/cms"
	"github.com/quillcms/quill/cms/store"
	"github.com/quillcms/quill/core"
)

// testCmd builds a command with a context and captured output, the way
// cobra would hand one to a RunE.
func testCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

// useTempConfig points the CLI at a throwaway config directory.
func useTempConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	configDir = tmp
	t.Cleanup(func() { configDir = "" })
	t.Setenv("QUILL_PROVIDER", "")
	t.Setenv("QUILL_MODEL", "")
	return tmp
}

func TestTypesListEmpty(t *testing.T) {
	useTempConfig(t)
	cmd, out := testCmd(t)

	if err := runTypesList(cmd, nil); err != nil {
		t.Fatalf("runTypesList() error = %v", err)
	}
	if !strings.Contains(out.String(), "No content types yet") {
		t.Errorf("Output should mention there are no content types, got %q", out.String())
	}
}

func TestTypesListShowsStoredTypes(t *testing.T) {
	tmp := useTempConfig(t)
	cmd, out := testCmd(t)

	db, err := store.Open(context.Background(), filepath.Join(tmp, "quill.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	ct := &cms.ContentType{
		ID:          "ct-1",
		Name:        "article",
		DisplayName: "Article",
		Fields: []cms.Field{
			{Name: "title", Kind: cms.FieldText, Required: true},
			{Name: "body", Kind: cms.FieldRichText},
		},
	}
	if err := db.SaveContentType(context.Background(), ct); err != nil {
		t.Fatalf("SaveContentType() error = %v", err)
	}
	db.Close()

	if err := runTypesList(cmd, nil); err != nil {
		t.Fatalf("runTypesList() error = %v", err)
	}
	if !strings.Contains(out.String(), "article") {
		t.Errorf("Output should list the stored type, got %q", out.String())
	}
	if !strings.Contains(out.String(), "2") {
		t.Errorf("Output should show the field count, got %q", out.String())
	}
}

func TestPagesListUnknownType(t *testing.T) {
	useTempConfig(t)
	cmd, _ := testCmd(t)

	err := runPagesList(cmd, []string{"missing"})
	if err == nil {
		t.Fatal("runPagesList() should fail for an unknown content type")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("Error should name the unknown type, got %v", err)
	}
}

func TestGenerateErrorPrecondition(t *testing.T) {
	err := generateError(&core.InvocationFailure{
		Reason:  core.ReasonPrecondition,
		Message: "no API key",
	})
	if !strings.Contains(err.Error(), "quill configure") {
		t.Errorf("Precondition error should point at configure, got %v", err)
	}
}

func TestGenerateErrorExhausted(t *testing.T) {
	err := generateError(&core.InvocationFailure{
		Reason:   core.ReasonExhausted,
		Message:  "retries exhausted",
		Attempts: 4,
	})
	if !strings.Contains(err.Error(), "4 attempt") {
		t.Errorf("Exhausted error should report the attempt count, got %v", err)
	}
}

func TestGenerateErrorPassthrough(t *testing.T) {
	plain := errors.New("disk full")
	if err := generateError(plain); err != plain {
		t.Errorf("Non-invocation errors should pass through, got %v", err)
	}
}
