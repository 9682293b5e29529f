package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/polkadot-gov-forum/src/api/engine"
	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
)

type Reports struct {
	orch *engine.Orchestrator
}

func NewReports(orch *engine.Orchestrator) Reports {
	return Reports{orch: orch}
}

func (h Reports) Create(c *gin.Context) {
	var req struct {
		Network      string `json:"network" binding:"required"`
		Type         string `json:"type" binding:"required,oneof=post comment reply"`
		ContentID    string `json:"contentId" binding:"required"`
		ProposalType string `json:"proposalType" binding:"required"`
		Reason       string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": engine.KindValidation, "err": err.Error()})
		return
	}
	pt, err := gov.ParseProposalType(req.ProposalType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": engine.KindValidation, "err": err.Error()})
		return
	}

	result, err := h.orch.RecordReport(c.Request.Context(), engine.ReportRequest{
		Network:      req.Network,
		ContentType:  req.Type,
		ContentID:    req.ContentID,
		ProposalType: pt,
		ReporterID:   c.GetUint64("uid"),
		Reason:       req.Reason,
	})
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
