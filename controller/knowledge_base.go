package controller

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/request"
	"bealive-agent-backend/response"
	"bealive-agent-backend/service/knowledge-base/etl"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// IngestCompanyDocument indexes an OSS object into the company information index.
func IngestCompanyDocument(c *gin.Context) {
	var req request.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	resp := response.IngestResponse{ObjectName: req.ObjectName, Queued: services.QueueIngest}

	var err error
	if services.QueueIngest {
		err = etl.Enqueue(ctx, req.ObjectName)
	} else {
		resp.Chunks, err = services.Pipeline.Ingest(ctx, req.ObjectName)
	}
	if err != nil {
		if errors.Is(err, etl.ErrUnsupportedFileType) {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
				Msg: ErrUnsupportedDocumentType.Error(),
			})
			return
		}
		slog.Error(ErrIngestCompanyDocument.Error(), "err", err, "object_name", req.ObjectName)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrIngestCompanyDocument.Error(),
		})
		return
	}

	status := http.StatusOK
	if resp.Queued {
		status = http.StatusAccepted
	}
	c.JSON(status, response.Response{
		Data: resp,
	})
}

func GetCompanyDocuments(c *gin.Context) {
	docs, err := dao.GetCompanyDocuments(c.Request.Context())
	if err != nil {
		slog.Error(ErrGetCompanyDocuments.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetCompanyDocuments.Error(),
		})
		return
	}

	resp := response.GetCompanyDocumentsResponse{Documents: []response.CompanyDocumentResponse{}}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, response.CompanyDocumentResponse{
			ObjectName: d.ObjectName,
			FileType:   string(d.FileType),
			Status:     string(d.Status),
			Chunks:     d.Chunks,
			UpdatedAt:  d.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}
