package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/mrigankrai05/VitalSimple/models"

	"github.com/joho/godotenv"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/render"
)

func init() {

	// Load .env file from the current directory
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	err := license.SetMeteredKey(os.Getenv("UNIDOC_LICENSE_KEY"))
	if err != nil {
		fmt.Printf("ERROR: Failed to set Unidoc license key: %v. PDF processing will fail.\n", err)
	}
}

// ErrExtractionFailed marks a document whose text could not be extracted at
// all (unreadable file or a missing system dependency). A successful
// extraction with empty page text is not an error.
var ErrExtractionFailed = errors.New("text extraction failed")

// OCRService converts raw PDF bytes into per-page text. Pages carrying an
// embedded text layer are read directly; scanned pages are rendered to a
// raster image and recognized with the external tesseract binary.
type OCRService struct {
	tesseractPath string
}

func NewOCRService(tesseractPath string) *OCRService {
	if tesseractPath == "" {
		tesseractPath = "tesseract"
	}
	return &OCRService{tesseractPath: tesseractPath}
}

// Extract returns the text of every page in document order. Each page is
// recognized independently; any open, rasterization or recognition failure
// fails the whole document.
func (s *OCRService) Extract(ctx context.Context, data []byte) ([]models.PageText, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: could not open document: %v", ErrExtractionFailed, err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("%w: could not read page count: %v", ErrExtractionFailed, err)
	}

	pages := make([]models.PageText, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}

		page, err := pdfReader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("%w: could not read page %d: %v", ErrExtractionFailed, i, err)
		}

		// Fast path: reports exported digitally carry a text layer.
		text, err := extractTextLayer(page)
		if err == nil && strings.TrimSpace(text) != "" {
			pages = append(pages, models.PageText{Number: i, Text: text})
			continue
		}

		// Scanned page: rasterize and hand the image to tesseract.
		text, err = s.recognizePage(ctx, page, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, models.PageText{Number: i, Text: text})
	}

	return pages, nil
}

func extractTextLayer(page *model.PdfPage) (string, error) {
	ex, err := extractor.New(page)
	if err != nil {
		return "", err
	}
	return ex.ExtractText()
}

func (s *OCRService) recognizePage(ctx context.Context, page *model.PdfPage, num int) (string, error) {
	device := render.NewImageDevice()
	img, err := device.Render(page)
	if err != nil {
		return "", fmt.Errorf("%w: could not rasterize page %d: %v", ErrExtractionFailed, num, err)
	}

	tmp, err := os.CreateTemp("", fmt.Sprintf("vitalsimple-page%d-*.png", num))
	if err != nil {
		return "", fmt.Errorf("%w: could not create temp image for page %d: %v", ErrExtractionFailed, num, err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: could not encode page %d image: %v", ErrExtractionFailed, num, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: could not write page %d image: %v", ErrExtractionFailed, num, err)
	}

	out, err := exec.CommandContext(ctx, s.tesseractPath, tmp.Name(), "stdout").Output()
	if err != nil {
		return "", fmt.Errorf("%w: recognition failed for page %d (is tesseract installed?): %v", ErrExtractionFailed, num, err)
	}
	return string(out), nil
}

// JoinPages concatenates page texts with the human-readable page headers the
// prompts and the frontend rely on for traceability.
func JoinPages(pages []models.PageText) string {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(fmt.Sprintf("\n--- Page %d ---\n", p.Number))
		sb.WriteString(p.Text)
	}
	return sb.String()
}
