package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// maxMemberSize caps a single extracted member. State boundary bundles are a
// few tens of MB.
const maxMemberSize = 1 << 30

// ExtractZIP unpacks every member of the archive at zipPath under destDir and
// returns the written file paths in archive order.
func ExtractZIP(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open archive %s", zipPath)
	}
	defer r.Close() //nolint:errcheck

	root := filepath.Clean(destDir)
	files := make([]string, 0, len(r.File))
	for _, member := range r.File {
		target, err := memberPath(root, member.Name)
		if err != nil {
			return files, err
		}
		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, eris.Wrapf(err, "fetcher: mkdir %s", target)
			}
			continue
		}
		if err := writeMember(member, target); err != nil {
			return files, err
		}
		files = append(files, target)
	}
	return files, nil
}

// memberPath joins name onto root and rejects names that climb out of it.
func memberPath(root, name string) (string, error) {
	target := filepath.Join(root, name)
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", eris.Errorf("fetcher: archive member %q escapes extract dir", name)
	}
	return target, nil
}

func writeMember(member *zip.File, target string) error {
	if member.UncompressedSize64 > maxMemberSize {
		return eris.Errorf("fetcher: archive member %q too large (%d bytes)", member.Name, member.UncompressedSize64)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return eris.Wrapf(err, "fetcher: mkdir %s", filepath.Dir(target))
	}

	src, err := member.Open()
	if err != nil {
		return eris.Wrapf(err, "fetcher: open member %q", member.Name)
	}
	defer src.Close() //nolint:errcheck

	dst, err := os.Create(target)
	if err != nil {
		return eris.Wrapf(err, "fetcher: create %s", target)
	}
	defer dst.Close() //nolint:errcheck

	if _, err := io.Copy(dst, io.LimitReader(src, maxMemberSize)); err != nil {
		return eris.Wrapf(err, "fetcher: extract %q", member.Name)
	}
	return nil
}
