package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simpro/backend/internal/application/backup"
)

// ImportFormField is the multipart field carrying the uploaded file
const ImportFormField = "file"

// RestoreFromKeyRequest names a stored backup
type RestoreFromKeyRequest struct {
	Key string `json:"key" binding:"required,max=1024"`
}

// DataHandler serves exports, imports and stored backups
type DataHandler struct {
	BaseHandler
	svc *backup.Service
}

// NewDataHandler creates a new DataHandler
func NewDataHandler(svc *backup.Service) *DataHandler {
	return &DataHandler{svc: svc}
}

// ExportWorkbook downloads the whole account as an xlsx workbook
func (h *DataHandler) ExportWorkbook(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	file, err := h.svc.ExportWorkbook(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.attachment(c, file)
}

// ExportJSON downloads the whole account as a JSON document
func (h *DataHandler) ExportJSON(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	file, err := h.svc.ExportJSON(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.attachment(c, file)
}

func (h *DataHandler) attachment(c *gin.Context, file *backup.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Import replaces the account data with an uploaded workbook or JSON backup.
// Accepts a multipart upload in the "file" field or a raw JSON body.
func (h *DataHandler) Import(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}

	var (
		name string
		body io.Reader
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile(ImportFormField)
		if err != nil {
			h.BadRequest(c, "Missing upload in form field \""+ImportFormField+"\"")
			return
		}
		f, err := header.Open()
		if err != nil {
			h.HandleError(c, err)
			return
		}
		defer f.Close()
		name, body = header.Filename, f
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		name, body = "upload.json", bytes.NewReader(raw)
	}

	result, err := h.svc.Import(c.Request.Context(), accountID, name, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Backup uploads a workbook export to the backup store
func (h *DataHandler) Backup(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	stored, err := h.svc.Backup(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, stored)
}

// ListBackups lists the stored backups of the account
func (h *DataHandler) ListBackups(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	objects, err := h.svc.ListBackups(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, objects, len(objects))
}

// Restore replaces the account data with one of its stored backups
func (h *DataHandler) Restore(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req RestoreFromKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.svc.RestoreFromKey(c.Request.Context(), accountID, req.Key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RestoreRuns lists the latest imports and restores, newest first. ?limit= caps the count.
func (h *DataHandler) RestoreRuns(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := h.svc.RestoreRuns(c.Request.Context(), accountID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, runs, len(runs))
}
