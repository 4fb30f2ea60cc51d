package httpt

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/metric"

	"github.com/gin-gonic/gin"
)

const _slowRequestMargin = 5 * time.Second

//go:embed web/*.html
var webFS embed.FS

type Reassigner interface {
	Process(ctx context.Context, order *entity.Order) (*entity.ReassignmentResult, error)
	Reprocess(ctx context.Context, order *entity.Order) (*entity.ReassignmentResult, error)
}

type WebhookHandler struct {
	svc     Reassigner
	log     logger.Logger
	metrics metric.HTTP
	router  *gin.Engine

	topic         string
	secret        []byte
	maxBodyBytes  int64
	adminToken    string
	slowThreshold time.Duration
	budget        time.Duration
	panel         panelData
}

func NewWebhookHandler(
	svc Reassigner,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.HTTP,
) (*WebhookHandler, error) {
	const op = "transport.http.NewWebhookHandler"

	if svc == nil {
		return nil, fmt.Errorf("%s: reassigner is required", op)
	}

	tmpl, err := template.ParseFS(webFS, "web/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: parse templates: %w", op, err)
	}

	h := &WebhookHandler{
		svc:           svc,
		log:           log,
		metrics:       metrics,
		topic:         cfg.Webhook.Topic,
		secret:        []byte(cfg.Webhook.Secret),
		maxBodyBytes:  cfg.Webhook.MaxBodyBytes,
		adminToken:    cfg.Admin.Token,
		slowThreshold: cfg.Reassignment.GracePeriod + _slowRequestMargin,
		budget:        cfg.HTTP.ProcessingBudget(),
		panel:         newPanelData(cfg),
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.CustomRecovery(h.recoveryHandler))

	router.SetHTMLTemplate(tmpl)

	h.router = router
	h.setupRoutes()

	return h, nil
}

func (h *WebhookHandler) Engine() *gin.Engine {
	return h.router
}

// processingContext detaches from the caller, which may hang up during the
// grace wait, and bounds the work so the summary is written before the
// server's write deadline closes the connection.
func (h *WebhookHandler) processingContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if h.budget <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, h.budget)
}
