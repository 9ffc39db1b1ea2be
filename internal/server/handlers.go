// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// BatchRequest is the body of POST /api/v1/batch. An empty Format asks for
// predictions; pdb or cif asks for structure documents.
type BatchRequest struct {
	IDs    []string `json:"ids"`
	Format string   `json:"format"`
}

// BatchResponse carries one result per requested id, in request order.
type BatchResponse struct {
	Results []types.BatchResult `json:"results"`
	Failed  int                 `json:"failed"`
}

func (s *Server) registerRoutes(rg *gin.RouterGroup) {
	rg.GET("/predictions/:id", s.predictions)
	rg.GET("/structures/:id", s.structure)
	rg.GET("/summary/:id", s.summary)
	rg.GET("/entities/:id", s.entity)
	rg.GET("/pae/:id", s.pairwiseError)
	rg.POST("/batch", s.batch)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "version": s.version})
}

func (s *Server) predictions(c *gin.Context) {
	preds, err := s.svc.FetchPredictions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if preds == nil {
		preds = []types.Prediction{}
	}
	c.JSON(http.StatusOK, preds)
}

// structure returns the document as JSON, or the raw coordinate text when
// raw=true.
func (s *Server) structure(c *gin.Context) {
	id := c.Param("id")
	format, err := types.ParseStructureFormat(c.Query("format"))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	doc, err := s.svc.FetchStructure(c.Request.Context(), id, format)
	if err != nil {
		respondErr(c, err)
		return
	}
	if doc == nil {
		respondError(c, http.StatusNotFound, codeNotFound, fmt.Sprintf("no structure available for %s", id))
		return
	}

	if c.Query("raw") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, doc.Prediction.EntryID, doc.Format))
		c.Data(http.StatusOK, contentType(doc.Format), []byte(doc.Data))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) summary(c *gin.Context) {
	id := c.Param("id")
	sum, err := s.svc.ConfidenceSummary(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	if sum == nil {
		respondError(c, http.StatusNotFound, codeNotFound, fmt.Sprintf("no confidence data for %s", id))
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) entity(c *gin.Context) {
	id := c.Param("id")
	e, err := s.svc.ToCanonicalEntity(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	if e == nil {
		respondError(c, http.StatusNotFound, codeNotFound, fmt.Sprintf("no structure available for %s", id))
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) pairwiseError(c *gin.Context) {
	id := c.Param("id")
	m, err := s.svc.FetchPairwiseError(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	if m == nil {
		respondError(c, http.StatusNotFound, codeNotFound, fmt.Sprintf("no pairwise error data for %s", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "matrix": m})
}

func (s *Server) batch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "ids must not be empty")
		return
	}
	if len(req.IDs) > MaxBatchSize {
		respondError(c, http.StatusBadRequest, codeInvalidRequest,
			fmt.Sprintf("at most %d ids per batch", MaxBatchSize))
		return
	}

	var format types.StructureFormat
	if strings.TrimSpace(req.Format) != "" {
		f, err := types.ParseStructureFormat(req.Format)
		if err != nil {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		format = f
	}

	results := s.svc.BatchFetch(c.Request.Context(), req.IDs, format)
	resp := BatchResponse{Results: results}
	for _, r := range results {
		if r.Failed() {
			resp.Failed++
		}
	}
	c.JSON(http.StatusOK, resp)
}

func contentType(f types.StructureFormat) string {
	if f == types.FormatCIF {
		return "chemical/x-mmcif"
	}
	return "chemical/x-pdb"
}
