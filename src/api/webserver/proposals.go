package webserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/polkadot-gov-forum/src/api/engine"
	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
)

type Proposals struct {
	orch *engine.Orchestrator
}

func NewProposals(orch *engine.Orchestrator) Proposals {
	return Proposals{orch: orch}
}

// apiError maps engine errors onto the wire: typed errors keep their kind
// and status, anything else surfaces as a generic 500.
func apiError(c *gin.Context, err error) {
	var e *engine.Error
	if errors.As(err, &e) {
		c.JSON(e.HTTPStatus, gin.H{"kind": e.Kind, "err": e.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"kind": engine.KindUpstream, "err": "internal error"})
}

func parseType(c *gin.Context) (gov.ProposalType, bool) {
	t, err := gov.ParseProposalType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": engine.KindValidation, "err": err.Error()})
		return gov.ProposalTypeUnknown, false
	}
	return t, true
}

func (h Proposals) Listing(c *gin.Context) {
	t, ok := parseType(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	listing, err := h.orch.GetListing(c.Request.Context(), engine.ListingRequest{
		Network:  c.Param("net"),
		Type:     t,
		Page:     page,
		SortBy:   c.Query("sortBy"),
		Statuses: statuses,
	})
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h Proposals) Single(c *gin.Context) {
	t, ok := parseType(c)
	if !ok {
		return
	}
	item, err := h.orch.GetSingle(c.Request.Context(), gov.ProposalRef{
		Network: c.Param("net"),
		Type:    t,
		ID:      c.Param("id"),
	}, engine.SingleOptions{
		IncludeContent:  c.DefaultQuery("content", "true") == "true",
		IncludeComments: c.Query("comments") == "true",
	})
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h Proposals) Update(c *gin.Context) {
	t, ok := parseType(c)
	if !ok {
		return
	}
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": engine.KindValidation, "err": err.Error()})
		return
	}
	err := h.orch.UpdateEditorial(c.Request.Context(), gov.ProposalRef{
		Network: c.Param("net"),
		Type:    t,
		ID:      c.Param("id"),
	}, req.Title, req.Content, c.GetUint64("uid"))
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}
