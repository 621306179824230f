package agui

import (
	"github.com/viant/afs/storage"
	"github.com/viant/agui/model/types"
	"github.com/viant/agui/policy"
	"github.com/viant/agui/service/executor"
	"github.com/viant/agui/service/llm"
	"github.com/viant/agui/service/messaging/memory"
	"github.com/viant/agui/service/meta"
	"github.com/viant/agui/tracing"
	"github.com/viant/x"
)

// Option customises the Service.
type Option func(s *Service)

// WithConfig sets the configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithModelClient sets the model client, replacing the OpenAI-compatible
// default built from the configuration.
func WithModelClient(client llm.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithExtensionTypes sets additional data types registered with every
// per-run tool registry.
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithExtensionServices sets additional tool services registered with every
// per-run tool registry alongside the built-in approval tools.
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}

// WithPolicy sets the tool policy applied to every run.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithInstructions sets the system instructions, bypassing instruction
// loading from the configured URL.
func WithInstructions(text string) Option {
	return func(s *Service) {
		s.instructions = text
	}
}

// WithMetaService sets the meta service used to load instructions and config.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.NewService (e.g. attaching an invocation listener).
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithQueueConfig overrides the per-run event queue configuration.
func WithQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.queueConfig = &config
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise spans are written to the
// supplied file path. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}
