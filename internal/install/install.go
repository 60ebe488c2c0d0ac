// Package install executes the copy plan of a package manifest.
package install

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goplus/hgpkg/internal/artifact"
)

// ManifestName is the file the manifest itself is installed as.
const ManifestName = "hgpkg.json"

// Install places the files of m's plan under dest, along with the encoded
// manifest and a pkg-config file. If dest ends with ".zip" an archive is
// written instead of a directory.
func Install(m *artifact.Manifest, dest string) error {
	files, err := extras(m, dest)
	if err != nil {
		return err
	}
	for _, c := range m.Plan {
		if !filepath.IsLocal(filepath.FromSlash(c.Dst)) {
			return fmt.Errorf("invalid install destination %q", c.Dst)
		}
	}
	if strings.HasSuffix(dest, ".zip") {
		return zipPlan(m.Plan, files, dest)
	}
	return copyPlan(m.Plan, files, dest)
}

// generated is a file rendered from the manifest rather than copied.
type generated struct {
	name string // slash-separated, relative to the install root
	data []byte
}

func extras(m *artifact.Manifest, dest string) ([]generated, error) {
	var manifest, pc bytes.Buffer
	if err := m.Encode(&manifest, "json"); err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(dest, ".zip")
	if err := m.PkgConfig(&pc, prefix, m.Package+" "+m.Version); err != nil {
		return nil, err
	}
	return []generated{
		{name: ManifestName, data: manifest.Bytes()},
		{name: path.Join("lib", "pkgconfig", m.Package+".pc"), data: pc.Bytes()},
	}, nil
}

func copyPlan(plan []artifact.Copy, files []generated, dest string) error {
	for _, c := range plan {
		if err := copyFile(c.Src, filepath.Join(dest, filepath.FromSlash(c.Dst))); err != nil {
			return err
		}
	}
	for _, g := range files {
		target := filepath.Join(dest, filepath.FromSlash(g.name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, g.data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// zipPlan creates a zip archive at dest holding the plan and files.
func zipPlan(plan []artifact.Copy, files []generated, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, c := range plan {
		if err := zipFile(w, c.Src, c.Dst); err != nil {
			w.Close()
			return err
		}
	}
	for _, g := range files {
		writer, err := w.CreateHeader(&zip.FileHeader{Name: g.name, Method: zip.Deflate})
		if err != nil {
			w.Close()
			return err
		}
		if _, err := writer.Write(g.data); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func zipFile(w *zip.Writer, src, name string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	writer, err := w.CreateHeader(header)
	if err != nil {
		return err
	}
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(writer, file)
	return err
}
