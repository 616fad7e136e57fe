package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/justin-/privacybadgerfirefox/internal/domain"
	"github.com/justin-/privacybadgerfirefox/internal/psl"
)

const maxURLLen = 2048

// Server exposes the third-party classifier over HTTP.
type Server struct {
	classifier *domain.Classifier
	holder     *psl.Holder
}

func NewServer(classifier *domain.Classifier, holder *psl.Holder) *Server {
	return &Server{classifier: classifier, holder: holder}
}

// Handler builds the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/v1/classify", s.handleClassify)
	r.Get("/v1/base-domain", s.handleBaseDomain)
	r.Get("/v1/parents", s.handleParents)

	// /healthz — basic liveness check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// /readyz — ready once any oracle can answer; reports which one.
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"ready":  true,
			"source": s.holder.Source(),
			"live":   s.holder.Live(),
		})
	})

	return r
}

type classifyRequest struct {
	RequestURL  string `json:"request_url"`
	DocumentURL string `json:"document_url"`
}

func (c *classifyRequest) Bind(r *http.Request) error {
	if c.RequestURL == "" {
		return errors.New("request_url is required")
	}
	if c.DocumentURL == "" {
		return errors.New("document_url is required")
	}
	if len(c.RequestURL) > maxURLLen || len(c.DocumentURL) > maxURLLen {
		return errors.New("url is too long")
	}
	return nil
}

type classifyResponse struct {
	ThirdParty         bool   `json:"third_party"`
	RequestBaseDomain  string `json:"request_base_domain,omitempty"`
	DocumentBaseDomain string `json:"document_base_domain,omitempty"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	req := &classifyRequest{}
	if err := render.Bind(r, req); err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return
	}

	verdict, err := s.classifier.ClassifyURI(req.RequestURL, req.DocumentURL)
	if err != nil {
		renderClassificationError(w, r, err)
		return
	}

	render.JSON(w, r, classifyResponse{
		ThirdParty:         verdict.ThirdParty,
		RequestBaseDomain:  verdict.RequestBaseDomain,
		DocumentBaseDomain: verdict.DocumentBaseDomain,
	})
}

type baseDomainResponse struct {
	Host         string `json:"host"`
	PublicSuffix string `json:"public_suffix"`
	BaseDomain   string `json:"base_domain"`
	ParentDomain string `json:"parent_domain"`
}

func (s *Server) handleBaseDomain(w http.ResponseWriter, r *http.Request) {
	host, ok := s.hostParam(w, r)
	if !ok {
		return
	}
	h := s.classifier.Hierarchy()

	suffix, err := s.holder.PublicSuffix(host)
	if err != nil {
		renderClassificationError(w, r, err)
		return
	}
	base, err := h.BaseDomain(host)
	if err != nil {
		renderClassificationError(w, r, err)
		return
	}
	parent, err := h.ParentDomain(host)
	if err != nil {
		renderClassificationError(w, r, err)
		return
	}

	render.JSON(w, r, baseDomainResponse{
		Host:         host,
		PublicSuffix: suffix,
		BaseDomain:   base,
		ParentDomain: parent,
	})
}

type parentsResponse struct {
	Host  string   `json:"host"`
	Chain []string `json:"chain"`
}

func (s *Server) handleParents(w http.ResponseWriter, r *http.Request) {
	host, ok := s.hostParam(w, r)
	if !ok {
		return
	}

	chain, err := s.classifier.Hierarchy().ParentChain(host)
	if err != nil {
		renderClassificationError(w, r, err)
		return
	}

	render.JSON(w, r, parentsResponse{Host: host, Chain: chain})
}

func (s *Server) hostParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("host")
	if raw == "" {
		renderError(w, r, http.StatusBadRequest, errors.New("host is required"))
		return "", false
	}
	if len(raw) > maxURLLen {
		renderError(w, r, http.StatusBadRequest, errors.New("host is too long"))
		return "", false
	}
	host, err := domain.NormalizeHost(raw)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return "", false
	}
	return host, true
}

type errResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

// renderClassificationError maps the two domain error kinds to 422 so that
// callers can tell "you sent garbage" from "this input has no registrable
// domain". Anything else is a 500.
func renderClassificationError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		dre *domain.DomainResolutionError
		upe *domain.URLParseError
	)
	switch {
	case errors.As(err, &upe):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errResponse{Error: err.Error(), Kind: "url_parse"})
	case errors.As(err, &dre):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errResponse{Error: err.Error(), Kind: "domain_resolution"})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errResponse{Error: err.Error()})
	}
}

// Run starts the HTTP server on addr and shuts it down gracefully when the
// context is canceled.
func Run(ctx context.Context, addr string, srv *Server) error {
	if addr == "" {
		addr = ":8080"
	}

	hs := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn("http server graceful shutdown error", "err", err)
		}
	}()

	log.Info("http server listening", "addr", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
