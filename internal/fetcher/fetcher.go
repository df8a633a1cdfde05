// Package fetcher turns an input location into a local file the loaders can
// open. Locations may be local paths, http(s) URLs, or .zip archives of
// either kind, such as a zipped shapefile bundle.
package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// dataExtensions lists archive members Resolve will pick, in preference order.
var dataExtensions = []string{".shp", ".geojson", ".json", ".csv", ".tsv", ".xlsx"}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Resolve returns a local path for location. Remote files are downloaded
// into workDir; .zip archives are extracted there and the first data file
// is returned. Plain local paths are returned unchanged and are not checked
// for existence.
func Resolve(ctx context.Context, f Fetcher, location, workDir string) (string, error) {
	log := zap.L().With(zap.String("component", "fetcher.resolve"), zap.String("location", location))

	local := location
	if IsRemote(location) {
		u, _ := url.Parse(location)
		name := path.Base(u.Path)
		if name == "" || name == "/" || name == "." {
			name = "download"
		}
		dlDir, err := os.MkdirTemp(workDir, "download-*")
		if err != nil {
			return "", eris.Wrap(err, "fetcher: create download dir")
		}
		local = filepath.Join(dlDir, name)
		n, err := f.DownloadToFile(ctx, location, local)
		if err != nil {
			return "", eris.Wrapf(err, "fetcher: download %s", location)
		}
		log.Info("input downloaded", zap.String("path", local), zap.Int64("bytes", n))
	}

	if !strings.EqualFold(filepath.Ext(local), ".zip") {
		return local, nil
	}
	if _, err := os.Stat(local); err != nil {
		// Leave not-found reporting to the loaders.
		return local, nil
	}

	dest, err := os.MkdirTemp(workDir, strings.TrimSuffix(filepath.Base(local), filepath.Ext(local))+"-*")
	if err != nil {
		return "", eris.Wrap(err, "fetcher: create extract dir")
	}
	files, err := ExtractZIP(local, dest)
	if err != nil {
		return "", err
	}
	picked, ok := pickDataFile(files)
	if !ok {
		return "", eris.Errorf("fetcher: no data file in archive %s", location)
	}
	log.Debug("archive extracted", zap.Int("files", len(files)), zap.String("picked", picked))
	return picked, nil
}

func pickDataFile(files []string) (string, bool) {
	for _, ext := range dataExtensions {
		for _, f := range files {
			if strings.EqualFold(filepath.Ext(f), ext) && !strings.HasPrefix(filepath.Base(f), ".") {
				return f, true
			}
		}
	}
	return "", false
}
