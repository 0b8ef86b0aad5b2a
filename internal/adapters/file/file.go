package file

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// MaxDownloadBytes caps a single download.
const MaxDownloadBytes = 50 * 1024 * 1024

type Fetcher struct {
	client *http.Client
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{client: client}
}

// Download returns the byte content of a file on a provided URL.
func (f *Fetcher) Download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Send()
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, MaxDownloadBytes+1))
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	if len(buf) > MaxDownloadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", MaxDownloadBytes)
	}

	return buf, nil
}

// Directory stores output files flat in one directory.
type Directory struct {
	root string
}

func NewDirectory(root string) (*Directory, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory %w", err)
	}
	return &Directory{root: root}, nil
}

// Write saves data under the base name of name and returns the full path.
func (d *Directory) Write(name string, data []byte) (string, error) {
	path := d.path(name)

	log.Debug().Int("bytes", len(data)).Str("path", path).Msg("writing output file")

	if err := os.WriteFile(path, data, 0o644); err != nil {
		err = fmt.Errorf("error writing output file %w", err)
		log.Error().Err(err).Send()
		return "", err
	}

	return path, nil
}

// Read returns the content of a file previously stored with Write.
func (d *Directory) Read(name string) ([]byte, error) {
	buf, err := os.ReadFile(d.path(name))
	if err != nil {
		return nil, fmt.Errorf("error reading output file %w", err)
	}

	return buf, nil
}

func (d *Directory) path(name string) string {
	return filepath.Join(d.root, filepath.Base(name))
}
