package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Mutu-s/MonFair-sub001/internal/middleware"
	"github.com/Mutu-s/MonFair-sub001/internal/models"
	"github.com/Mutu-s/MonFair-sub001/internal/services"
	"github.com/Mutu-s/MonFair-sub001/internal/vrf"
)

type VerifyHandler struct {
	verifier    *vrf.Verifier
	store       services.ReportStore
	broadcaster services.Broadcaster
	log         logrus.FieldLogger
}

func NewVerifyHandler(verifier *vrf.Verifier, store services.ReportStore, broadcaster services.Broadcaster, log logrus.FieldLogger) *VerifyHandler {
	return &VerifyHandler{
		verifier:    verifier,
		store:       store,
		broadcaster: broadcaster,
		log:         log,
	}
}

func (h *VerifyHandler) VerifyGame(c *gin.Context) {
	var rec models.GameRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}

	block, ok := blockParam(c)
	if !ok {
		return
	}

	result, err := h.verifier.VerifyGame(c.Request.Context(), rec, block)
	if err != nil {
		h.verificationError(c, models.FlipMatchKind, rec.GameID, err)
		return
	}

	h.publish(models.FlipMatchKind, rec.GameID, result)
	c.JSON(http.StatusOK, verificationResponse(result))
}

func (h *VerifyHandler) VerifyCasinoGame(c *gin.Context) {
	var rec models.CasinoGameRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}

	block, ok := blockParam(c)
	if !ok {
		return
	}

	result, err := h.verifier.VerifyCasinoGame(c.Request.Context(), rec, block)
	if err != nil {
		h.verificationError(c, string(rec.GameType), rec.GameID, err)
		return
	}

	h.publish(string(rec.GameType), rec.GameID, result)
	c.JSON(http.StatusOK, verificationResponse(result))
}

func (h *VerifyHandler) GameReport(c *gin.Context) {
	var rec models.GameRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.verifier.GameReport(c.Request.Context(), rec)
	if err != nil {
		h.verificationError(c, models.FlipMatchKind, rec.GameID, err)
		return
	}

	h.serveReport(c, models.FlipMatchKind, rec.GameID, report)
}

func (h *VerifyHandler) CasinoReport(c *gin.Context) {
	var rec models.CasinoGameRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.verifier.CasinoReport(c.Request.Context(), rec)
	if err != nil {
		h.verificationError(c, string(rec.GameType), rec.GameID, err)
		return
	}

	h.serveReport(c, string(rec.GameType), rec.GameID, report)
}

func (h *VerifyHandler) GetReport(c *gin.Context) {
	kind, gameID, ok := reportParams(c)
	if !ok {
		return
	}

	report, err := h.store.GetReport(c.Request.Context(), kind, gameID)
	if errors.Is(err, services.ErrReportNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get report",
			"details": err.Error(),
		})
		return
	}

	attachReport(c, kind, gameID, report)
}

// DeleteReport removes an archived report. Only authenticated callers reach it.
func (h *VerifyHandler) DeleteReport(c *gin.Context) {
	kind, gameID, ok := reportParams(c)
	if !ok {
		return
	}

	err := h.store.DeleteReport(c.Request.Context(), kind, gameID)
	if errors.Is(err, services.ErrReportNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete report",
			"details": err.Error(),
		})
		return
	}

	h.log.WithFields(logrus.Fields{
		"kind":       kind,
		"game_id":    gameID,
		"deleted_by": c.GetString(middleware.ContextAddress),
	}).Info("report deleted")

	c.JSON(http.StatusOK, gin.H{
		"kind":    kind,
		"game_id": gameID,
		"deleted": true,
	})
}

func (h *VerifyHandler) ListReports(c *gin.Context) {
	kind := c.Param("kind")
	if !models.ValidKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report kind"})
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 || limit > services.MaxIndexedReports {
		limit = 50
	}

	ids, err := h.store.ListReports(c.Request.Context(), kind, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list reports",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":     kind,
		"game_ids": ids,
		"count":    len(ids),
	})
}

func (h *VerifyHandler) FormatResult(c *gin.Context) {
	gameType := models.GameType(c.Query("game_type"))
	result, err := strconv.ParseUint(c.Query("result"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid result",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game_type": gameType,
		"result":    result,
		"formatted": vrf.FormatResult(gameType, result),
		"in_range":  vrf.ResultInRange(gameType, result),
	})
}

func (h *VerifyHandler) serveReport(c *gin.Context, kind string, gameID uint64, report string) {
	if err := h.store.SaveReport(c.Request.Context(), kind, gameID, report); err != nil {
		// the caller still gets the report, only the archive copy is lost
		h.log.WithError(err).WithFields(logrus.Fields{
			"kind":    kind,
			"game_id": gameID,
		}).Warn("failed to archive report")
	}
	attachReport(c, kind, gameID, report)
}

func (h *VerifyHandler) publish(kind string, gameID uint64, result *models.Verification) {
	runID := models.NewRunID()
	h.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"kind":     kind,
		"game_id":  gameID,
		"is_valid": result.IsValid,
	}).Info("verification completed")

	if h.broadcaster != nil {
		h.broadcaster.BroadcastVerification(models.Topic(kind, gameID), runID, result)
	}
}

func (h *VerifyHandler) verificationError(c *gin.Context, kind string, gameID uint64, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, vrf.ErrMalformedRecord) {
		status = http.StatusUnprocessableEntity
	}

	h.log.WithError(err).WithFields(logrus.Fields{
		"kind":    kind,
		"game_id": gameID,
	}).Warn("verification failed")

	c.JSON(status, gin.H{
		"error":   "Verification failed",
		"details": err.Error(),
		"display": vrf.NewDisplay(nil, err),
	})
}

func verificationResponse(result *models.Verification) gin.H {
	return gin.H{
		"is_valid":          result.IsValid,
		"verification_data": result.VerificationData,
		"details":           result.Details,
		"display":           vrf.NewDisplay(result, nil),
	}
}

func attachReport(c *gin.Context, kind string, gameID uint64, report string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", models.ReportFilename(kind, gameID)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": err.Error(),
	})
}

// reportParams reads the :kind and :id path segments of an archive route.
func reportParams(c *gin.Context) (string, uint64, bool) {
	kind := c.Param("kind")
	if !models.ValidKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report kind"})
		return "", 0, false
	}
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
		return "", 0, false
	}
	return kind, gameID, true
}

// blockParam reads the optional ?block= query. It writes the error response
// itself and returns false when the value is unusable.
func blockParam(c *gin.Context) (*uint64, bool) {
	raw, ok := c.GetQuery("block")
	if !ok || raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid block number",
			"details": err.Error(),
		})
		return nil, false
	}
	return &n, true
}

func (h *VerifyHandler) RegisterRoutes(api *gin.RouterGroup, verifyLimit gin.HandlerFunc) {
	verify := api.Group("/verify")
	if verifyLimit != nil {
		verify.Use(verifyLimit)
	}
	{
		verify.POST("/flipmatch", h.VerifyGame)
		verify.POST("/casino", h.VerifyCasinoGame)
	}

	reports := api.Group("/report")
	if verifyLimit != nil {
		reports.Use(verifyLimit)
	}
	{
		reports.POST("/flipmatch", h.GameReport)
		reports.POST("/casino", h.CasinoReport)
	}

	api.GET("/reports/:kind", h.ListReports)
	api.GET("/reports/:kind/:id", h.GetReport)
	api.DELETE("/reports/:kind/:id", middleware.RequireAuth(), h.DeleteReport)
	api.GET("/format", h.FormatResult)
}
