package build

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goplus/hgpkg/internal/options"
	"github.com/goplus/hgpkg/mod/module"
)

func newTestBuilder(t *testing.T, fake *fakeCMake) *Builder {
	t.Helper()
	b := NewBuilder(t.TempDir(), "", log.New(io.Discard))
	b.SetOutput(io.Discard)
	b.run = fake.run
	return b
}

func testRequest(t *testing.T) Request {
	return Request{
		Package:   module.Version{Path: "hobgoblin", Version: "0.1.0"},
		SourceDir: t.TempDir(),
		Platform:  options.Platform{OS: "Linux", Arch: "x86_64", CppStd: "gnu20", BuildType: "Release"},
		Options:   map[string]string{"shared": "false", "fPIC": "true"},
	}
}

func TestBuildReportsInstalledFiles(t *testing.T) {
	fake := &fakeCMake{files: []string{
		"lib/libHobgoblin.Logging.a",
		"lib/libSPeMPE.a",
		"lib/cmake/Hobgoblin/config.cmake",
		"include/Hobgoblin/Logging.hpp",
	}}
	b := newTestBuilder(t, fake)

	report, err := b.Build(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !report.Succeeded || report.OS != "Linux" {
		t.Errorf("report = %+v", report)
	}
	if len(report.Roots) != 1 || report.Roots[0].Kind != LinkRoot {
		t.Fatalf("roots = %+v, want one link root", report.Roots)
	}
	var names []string
	for _, f := range report.Roots[0].Files {
		if !filepath.IsAbs(f) {
			t.Errorf("%s is not absolute", f)
		}
		names = append(names, filepath.Base(f))
	}
	if want := []string{"libHobgoblin.Logging.a", "libSPeMPE.a"}; !slices.Equal(names, want) {
		t.Errorf("files = %v, want %v", names, want)
	}

	args := strings.Join(fake.args[0], " ")
	for _, want := range []string{
		"-DBUILD_SHARED_LIBS:BOOL=OFF",
		"-DCMAKE_POSITION_INDEPENDENT_CODE:BOOL=ON",
		"-DCMAKE_CXX_STANDARD:STRING=20",
		"-DCMAKE_CXX_EXTENSIONS:BOOL=ON",
		"-DCMAKE_BUILD_TYPE:STRING=Release",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("configure args missing %q: %s", want, args)
		}
	}
}

func TestBuildUsesCache(t *testing.T) {
	fake := &fakeCMake{files: []string{"lib/libHobgoblin.Utility.a"}}
	b := newTestBuilder(t, fake)
	req := testRequest(t)

	first, err := b.Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if fake.calls != 1 {
		t.Errorf("cmake ran %d times, want 1", fake.calls)
	}
	if first.InstallDir != second.InstallDir {
		t.Errorf("install dirs differ: %s vs %s", first.InstallDir, second.InstallDir)
	}

	req.Options = map[string]string{"shared": "true"}
	if _, err := b.Build(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if fake.calls != 2 {
		t.Errorf("cmake ran %d times after changing options, want 2", fake.calls)
	}
}

func TestBuildFailure(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeCMake{err: boom}
	b := newTestBuilder(t, fake)
	req := testRequest(t)

	_, err := b.Build(context.Background(), req)
	if !errors.Is(err, boom) {
		t.Fatalf("Build() error = %v, want %v", err, boom)
	}
	if _, err := b.loadCache(req.Package.Path); err == nil {
		t.Error("failed build was cached")
	}
}

func TestBuildNoSource(t *testing.T) {
	b := newTestBuilder(t, &fakeCMake{})
	req := testRequest(t)
	req.SourceDir = ""
	if _, err := b.Build(context.Background(), req); err == nil {
		t.Fatal("expected error without a source directory")
	}
}

func TestScanWindows(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"lib/Hobgoblin.RigelNet.lib", "bin/Hobgoblin.RigelNet.dll", "bin/Hobgoblin.RigelNet.pdb"} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(p), 0o755)
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	report, err := Scan("Windows", dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Roots) != 2 {
		t.Fatalf("roots = %+v, want 2", report.Roots)
	}
	if report.Roots[1].Kind != RuntimeRoot || len(report.Roots[1].Files) != 2 {
		t.Errorf("runtime root = %+v", report.Roots[1])
	}
}

func TestMatrix(t *testing.T) {
	req := testRequest(t)
	got := Matrix(req).String()
	want := "x86_64-Release-gnu20-Linux_fPIC=true-shared=false"
	if got != want {
		t.Errorf("Matrix() = %q, want %q", got, want)
	}
}
