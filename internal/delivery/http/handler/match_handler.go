package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/devmatch-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
}

func NewMatchHandler(matchUseCase *match.MatchUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
	}
}

// ListMatches handles GET /users/:user_id/matches
// @Summary List a user's matches
// @Description Matches ranked by compatibility score, newest first on ties
// @Tags matches
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} match.MatchListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{user_id}/matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		return
	}

	resp, err := h.matchUseCase.ListForUser(c.Request.Context(), c.Param("user_id"), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list matches")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Contact handles POST /matches/:match_id/contact
// @Summary Contact a match
// @Description Marks that the user reached out; the second member connects the match
// @Tags matches
// @Accept json
// @Produce json
// @Param match_id path string true "Match ID"
// @Param request body match.ActionRequest true "Acting user"
// @Success 200 {object} match.ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /matches/{match_id}/contact [post]
func (h *MatchHandler) Contact(c *gin.Context) {
	var req match.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	resp, err := h.matchUseCase.Contact(c.Request.Context(), c.Param("match_id"), req.UserID)
	if err != nil {
		writeError(c, err, "failed to contact match")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Dismiss handles POST /matches/:match_id/dismiss
// @Summary Dismiss a match
// @Tags matches
// @Accept json
// @Produce json
// @Param match_id path string true "Match ID"
// @Param request body match.ActionRequest true "Acting user"
// @Success 200 {object} match.ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /matches/{match_id}/dismiss [post]
func (h *MatchHandler) Dismiss(c *gin.Context) {
	var req match.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	resp, err := h.matchUseCase.Dismiss(c.Request.Context(), c.Param("match_id"), req.UserID)
	if err != nil {
		writeError(c, err, "failed to dismiss match")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
