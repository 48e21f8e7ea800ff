package controller

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrigankrai05/VitalSimple/models"
	"github.com/mrigankrai05/VitalSimple/services"
)

// ReportController handles the HTTP requests for the report API. It depends
// on the ReportService to perform the actual business logic.
type ReportController struct {
	reportService services.ReportService
}

// NewReportController is a constructor function that creates a new
// ReportController. This is called from main.go to inject the service
// dependency.
func NewReportController(service services.ReportService) *ReportController {
	return &ReportController{
		reportService: service,
	}
}

// AnalyzeReport is the gin handler for the POST /analyze endpoint. It
// accepts a multipart document upload and runs the analysis pipeline. The
// pipeline degrades internally (OCR failure still yields a valid analysis
// body), so the happy path and the degraded path both answer 200.
func (c *ReportController) AnalyzeReport(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload: " + err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not open upload: " + err.Error()})
		return
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload: " + err.Error()})
		return
	}

	response, err := c.reportService.Analyze(ctx.Request.Context(), document)
	if err != nil {
		log.Printf("CONTROLLER: Analyze failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze report"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ChatWithReport is the gin handler for the POST /chat endpoint. Unknown
// session ids map to 404; everything else answers 200 with the model's JSON
// object passed through verbatim.
func (c *ReportController) ChatWithReport(ctx *gin.Context) {
	var req models.ChatRequest

	// Use gin's binding to parse and validate the incoming JSON.
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	turn, err := c.reportService.Chat(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"detail": "Session not found"})
			return
		}
		log.Printf("CONTROLLER: Chat failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate AI response"})
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", turn)
}
