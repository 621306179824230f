package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads agent metadata (system instructions, profiles) from any
// location supported by the abstract file storage: local files, embed FS,
// cloud object stores.  Loaded content is passed through ${env.KEY}
// expansion before use.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
}

// New creates a meta service rooted at baseURL; relative URIs passed to the
// load methods are resolved against it.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, fsOptions: options}
}

// Download returns the raw content of the given URI with environment
// expressions expanded.
func (s *Service) Download(ctx context.Context, URI string) ([]byte, error) {
	location := URI
	if s.baseURL != "" && !strings.Contains(URI, "://") {
		location = url.Join(s.baseURL, URI)
	}
	data, err := s.fs.DownloadWithURL(ctx, location, s.fsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", location, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// Load downloads the given URI and unmarshals its YAML content into target.
func (s *Service) Load(ctx context.Context, URI string, target interface{}) error {
	data, err := s.Download(ctx, URI)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", URI, err)
	}
	return nil
}
