package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/svcctx"
	"github.com/jackzampolin/docview/version"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Returns ok while the HTTP server is responding
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// WaitEndpoint has no route; it adds "docview api wait", which polls
// /health until the server answers.
type WaitEndpoint struct{}

var _ api.Endpoint = (*WaitEndpoint)(nil)

func (e *WaitEndpoint) Route() (string, string, http.HandlerFunc) {
	return "", "", nil
}

func (e *WaitEndpoint) RequiresInit() bool { return false }

func (e *WaitEndpoint) Command(getServerURL func() string) *cobra.Command {
	var attempts uint
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for the server to become healthy",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.WaitReady(cmd.Context(), attempts, delay); err != nil {
				return fmt.Errorf("server not ready: %w", err)
			}
			fmt.Println("Server is ready")
			return nil
		},
	}
	cmd.Flags().UintVar(&attempts, "attempts", 30, "Number of health checks before giving up")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "Delay between health checks")
	return cmd
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server"`
	Version   string          `json:"version"`
	Providers ProvidersStatus `json:"providers"`
	Defaults  DefaultsStatus  `json:"defaults"`
	Sessions  int             `json:"sessions"`
	Upload    UploadStatus    `json:"upload"`

	ConfigFile string `json:"config_file,omitempty"`
	Home       string `json:"home,omitempty"`
}

// ProvidersStatus shows registered extractors and chat backends.
type ProvidersStatus struct {
	Extractors   []string `json:"extractors"`
	ChatBackends []string `json:"chat_backends"`

	// RateLimits is keyed "extractor/<name>" or "chat/<name>".
	RateLimits map[string]providers.RateLimiterStatus `json:"rate_limits,omitempty"`
}

// UploadStatus shows the limits uploads are checked against.
type UploadStatus struct {
	MaxBytes        int64 `json:"max_bytes"`
	MaxPDFPages     int   `json:"max_pdf_pages"`
	EnforcePDFPages bool  `json:"enforce_pdf_pages"`
}

// DefaultsStatus shows which providers the session manager uses.
type DefaultsStatus struct {
	Extractor   string `json:"extractor"`
	ChatBackend string `json:"chat_backend"`
	Parser      string `json:"parser"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Lists configured providers and the number of open documents
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:  "running",
		Version: version.GitRelease,
	}

	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Providers.Extractors = registry.ListExtractors()
		resp.Providers.ChatBackends = registry.ListChat()
		if limits := registry.LimiterStatus(); len(limits) > 0 {
			resp.Providers.RateLimits = limits
		}
	}

	if m := svcctx.SessionsFrom(r.Context()); m != nil {
		opts := m.Options()
		resp.Defaults = DefaultsStatus{
			Extractor:   opts.Extractor,
			ChatBackend: opts.ChatBackend,
			Parser:      opts.Parser,
		}
		resp.Sessions = m.Store().Len()
		resp.Upload = UploadStatus{
			MaxBytes:        opts.Limits.MaxBytes,
			MaxPDFPages:     opts.Limits.MaxPDFPages,
			EnforcePDFPages: opts.Limits.EnforcePDFPages,
		}
	} else {
		resp.Server = "initializing"
	}

	if cm := svcctx.ConfigManagerFrom(r.Context()); cm != nil {
		resp.ConfigFile = cm.ConfigFile()
	}
	if h := svcctx.HomeFrom(r.Context()); h != nil {
		resp.Home = h.Path()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
