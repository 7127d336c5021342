package page

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"

	"github.com/jml-dev/jml/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeHCL(t *testing.T) {
	src := `
title = "Deck"
css = { h1 = { color = "navy" }, p = { margin = 0 } }

section "hero.big" {
  h1 = upper("cards")
  p  = ["one", 2, true]
}

li { text = "a" }
li { text = "b" }
`
	got, err := DecodeHCL("deck.jml.hcl", []byte(src))
	if err != nil {
		t.Fatalf("DecodeHCL: %v", err)
	}
	want := model.Object{
		{Key: "title", Value: "Deck"},
		{Key: "css", Value: model.Object{
			{Key: "h1", Value: model.Object{{Key: "color", Value: "navy"}}},
			{Key: "p", Value: model.Object{{Key: "margin", Value: 0}}},
		}},
		{Key: "hero.big", Value: model.Object{
			{Key: "h1", Value: "CARDS"},
			{Key: "p", Value: []any{"one", 2, true}},
		}},
		{Key: "li", Value: []any{
			model.Object{{Key: "text", Value: "a"}},
			model.Object{{Key: "text", Value: "b"}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeHCL mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode("x.yaml", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("yaml: %v", err)
	}
	if _, err := Decode("x.jml", []byte("{")); err == nil {
		t.Error("bad json accepted")
	}
	if _, err := Decode("x.jml.hcl", []byte("a = ")); err == nil {
		t.Error("bad hcl accepted")
	}
	if _, err := Decode("x.jml.hcl", []byte(`a = missing(1)`)); err == nil {
		t.Error("unknown function accepted")
	}
}

func TestDecodeErrorPosition(t *testing.T) {
	tests := []struct {
		file   string
		src    string
		format string
		line   int
	}{
		{"x.jml", "{\n  \"a\": 1,\n  ]\n}", "json", 3},
		{"x.jml.hcl", "a = 1\nb = \n", "hcl", 2},
	}
	for _, tc := range tests {
		_, err := Decode(tc.file, []byte(tc.src))
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: error %v is not a DecodeError", tc.file, err)
		}
		if de.Format != tc.format || de.Line != tc.line || de.File != tc.file {
			t.Errorf("%s: got %+v", tc.file, de)
		}
	}
}

func TestNameOf(t *testing.T) {
	tests := []struct {
		in   string
		name string
		ok   bool
	}{
		{"index.jml", "index", true},
		{"docs/intro.dom.json", "docs/intro", true},
		{"deck.jml.hcl", "deck", true},
		{"notes.txt", "notes.txt", false},
	}
	for _, tt := range tests {
		name, ok := NameOf(tt.in)
		if name != tt.name || ok != tt.ok {
			t.Errorf("NameOf(%q) = %q, %v", tt.in, name, ok)
		}
	}
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.jml", `{"h1": "Home", "p": "x"}`)
	writeFile(t, dir, "docs/intro.dom.json", `{"p": "intro"}`)
	writeFile(t, dir, "deck.jml.hcl", `h1 = "Deck"`)
	writeFile(t, dir, "readme.md", `# not a page`)

	s, err := NewDiskStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	p, err := s.Load(ctx, "/")
	if err != nil {
		t.Fatalf("Load index: %v", err)
	}
	if diff := cmp.Diff(model.Object{{Key: "h1", Value: "Home"}, {Key: "p", Value: "x"}}, p.Model); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	if p.Name != "index" {
		t.Errorf("name = %q", p.Name)
	}
	again, _ := s.Load(ctx, "index")
	if again != p {
		t.Error("unchanged page should come from the cache")
	}

	if p, err := s.Load(ctx, "docs/intro"); err != nil || p.Name != "docs/intro" {
		t.Errorf("nested: %v %v", p, err)
	}
	if p, err := s.Load(ctx, "deck"); err != nil || p.Model.(model.Object)[0].Value != "Deck" {
		t.Errorf("hcl: %v %v", p, err)
	}
	for _, name := range []string{"missing", "../secret", "docs/../../x", "docs"} {
		if _, err := s.Load(ctx, name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) = %v, want ErrNotFound", name, err)
		}
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"deck", "docs/intro", "index"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewDiskStore(filepath.Join(dir, "index.jml")); err == nil {
		t.Error("file accepted as a store directory")
	}
}

type fakeS3 struct {
	objects map[string]string
	gets    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.gets = append(f.gets, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	mod := time.Unix(100, 0)
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(body)), LastModified: &mod}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var out s3.ListObjectsV2Output
	for k := range f.objects {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if in.ContinuationToken == nil {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String("more")
		out.Contents = append(out.Contents, types.Object{Key: aws.String("pages/extra.jml")})
	}
	return &out, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"pages/about.jml.hcl": `h1 = "About"`,
		"pages/index.jml":     `{"h1": "Home"}`,
		"pages/logo.png":      "",
	}}
	s := NewS3Store(client, "site", "pages")
	ctx := context.Background()

	p, err := s.Load(ctx, "about")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Source != "s3://site/pages/about.jml.hcl" || !p.ModTime.Equal(time.Unix(100, 0)) {
		t.Errorf("page = %+v", p)
	}
	if diff := cmp.Diff([]string{"pages/about.jml", "pages/about.dom.json", "pages/about.jml.hcl"}, client.gets); diff != "" {
		t.Errorf("lookup order mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Load(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: %v", err)
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"about", "extra", "index"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestS3StoreError(t *testing.T) {
	s := NewS3Store(failingS3{}, "site", "")
	if _, err := s.Load(context.Background(), "x"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

type failingS3 struct{}

func (failingS3) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, errors.New("access denied")
}

func (failingS3) ListObjectsV2(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return nil, errors.New("access denied")
}
