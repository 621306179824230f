package agui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/agui/extension"
	"github.com/viant/agui/model/state"
	"github.com/viant/agui/model/types"
	"github.com/viant/agui/policy"
	"github.com/viant/agui/service/action/hitl"
	"github.com/viant/agui/service/dispatch"
	"github.com/viant/agui/service/executor"
	"github.com/viant/agui/service/llm"
	"github.com/viant/agui/service/messaging/memory"
	"github.com/viant/agui/service/meta"
	"github.com/viant/agui/transport"
	"github.com/viant/x"
)

// Service is the embeddable backend facade: it wires the model client, the
// per-run tool registry, the dispatcher and the HTTP transport.
type Service struct {
	config            *Config
	client            llm.Client
	metaService       *meta.Service
	metaBaseURL       string
	metaFsOptions     []storage.Option
	extensionTypes    []*x.Type
	extensionServices []types.Service
	executorOptions   []executor.Option
	queueConfig       *memory.Config
	policy            *policy.Policy
	instructions      string
	dispatcher        *dispatch.Service
	handler           http.Handler
}

// New creates the backend service.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.instructions == "" {
		if URL := s.config.Agent.InstructionsURL; URL != "" {
			data, err := s.metaService.Download(ctx, URL)
			if err != nil {
				return fmt.Errorf("failed to load instructions from %s: %w", URL, err)
			}
			s.instructions = string(data)
		} else {
			s.instructions = DefaultInstructions
		}
	}
	if s.client == nil {
		client, err := llm.NewOpenAI(ctx, &llm.OpenAIConfig{
			Model:           s.config.Model.Name,
			BaseURL:         s.config.Model.BaseURL,
			APIKey:          s.config.Model.APIKey,
			APIKeySecretURL: s.config.Model.APIKeySecretURL,
		})
		if err != nil {
			return err
		}
		s.client = client
	}
	dispatchOptions := []dispatch.Option{
		dispatch.WithInstructions(s.instructions),
		dispatch.WithMaxSteps(s.config.Agent.MaxSteps),
		dispatch.WithExecutor(executor.NewService(s.executorOptions...)),
	}
	if s.queueConfig != nil {
		dispatchOptions = append(dispatchOptions, dispatch.WithQueueConfig(*s.queueConfig))
	}
	s.dispatcher = dispatch.New(s.client, s.newActions, dispatchOptions...)
	s.handler = transport.New(s.dispatcher, transport.WithAllowedOrigins(s.config.Server.AllowedOrigins))
	return nil
}

// newActions builds the per-run tool registry bound to the run's document.
func (s *Service) newActions(document *state.Document) *extension.Actions {
	actions := extension.NewActions(s.extensionTypes...)
	actions.Register(hitl.New(document))
	for _, service := range s.extensionServices {
		actions.Register(service)
	}
	return actions
}

// Dispatcher returns the run dispatcher.
func (s *Service) Dispatcher() *dispatch.Service {
	return s.dispatcher
}

// Handler returns the HTTP handler serving the AG-UI surface.  The configured
// policy, when present, is attached to every request context.
func (s *Service) Handler() http.Handler {
	if s.policy == nil {
		return s.handler
	}
	base := s.handler
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base.ServeHTTP(w, r.WithContext(policy.WithPolicy(r.Context(), s.policy)))
	})
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Service) ListenAndServe(ctx context.Context) error {
	server := &http.Server{Addr: s.config.Server.Addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
