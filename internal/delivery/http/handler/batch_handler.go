package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/usecase/batch"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BatchRunner is the part of batch.Runner the handler needs.
type BatchRunner interface {
	Run(ctx context.Context) (*batch.Report, error)
	Running() bool
}

type BatchHandler struct {
	runner BatchRunner
	// runs started in the background outlive the request
	baseCtx context.Context
	logger  *zap.Logger
}

func NewBatchHandler(baseCtx context.Context, runner BatchRunner, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{
		runner:  runner,
		baseCtx: baseCtx,
		logger:  logger,
	}
}

// RunBatch handles POST /batch/run
// @Summary Trigger a batch run
// @Description Starts a run in the background, or waits for the report with ?wait=true
// @Tags batch
// @Produce json
// @Param wait query bool false "Wait for the run to finish"
// @Success 200 {object} batch.Report
// @Success 202 {object} map[string]string
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /batch/run [post]
func (h *BatchHandler) RunBatch(c *gin.Context) {
	if h.runner.Running() {
		writeError(c, domain.ErrBatchInProgress, "")
		return
	}

	if c.Query("wait") == "true" {
		report, err := h.runner.Run(c.Request.Context())
		if err != nil {
			writeError(c, err, "batch run failed")
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	go func() {
		if _, err := h.runner.Run(h.baseCtx); err != nil {
			h.logger.Warn("triggered batch run failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
	})
}
