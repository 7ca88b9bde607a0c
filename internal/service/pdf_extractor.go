package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"time"

	"code.sajari.com/docconv"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/Dubey-IITB/resume-tracker/internal/logger"
)

// ErrNoTextLayer is returned when none of the extraction strategies found text.
var ErrNoTextLayer = errors.New("no extractable text in pdf")

// TextExtractor turns uploaded bytes into best-effort text. An empty result
// is legitimate and comes back with ErrNoTextLayer.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

type PDFExtractor struct {
	// OCR enables rendering pages and running tesseract when no text layer exists.
	OCR        bool
	OCRTimeout time.Duration
	log        *zap.Logger

	convert func(data []byte) (string, error)
}

func NewPDFExtractor(ocr bool, log *zap.Logger) *PDFExtractor {
	return &PDFExtractor{
		OCR:        ocr,
		OCRTimeout: 60 * time.Second,
		log:        logger.OrNop(log),
		convert:    docconvText,
	}
}

// ExtractText tries the embedded text layer first, then docconv, then OCR.
func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoTextLayer
	}

	text, err := e.fitzText(data)
	if err != nil {
		e.log.Warn("fitz extraction failed", zap.Error(err))
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	convert := e.convert
	if convert == nil {
		convert = docconvText
	}
	text, err = convert(data)
	if err != nil {
		e.log.Warn("docconv extraction failed", zap.Error(err))
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	if e.OCR {
		text, err = e.ocrText(ctx, data)
		if err != nil {
			e.log.Warn("ocr extraction failed", zap.Error(err))
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", ErrNoTextLayer
}

// docconvText goes through poppler's pdftotext, which reads some files
// MuPDF renders without a text layer.
func docconvText(data []byte) (string, error) {
	text, _, err := docconv.ConvertPDF(bytes.NewReader(data))
	return text, err
}

func (e *PDFExtractor) fitzText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		page, err := doc.Text(n)
		if err != nil {
			e.log.Debug("page text failed", zap.Int("page", n+1), zap.Error(err))
			continue
		}
		b.WriteString(page)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (e *PDFExtractor) ocrText(ctx context.Context, data []byte) (string, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("tesseract not found: %w", err)
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	ctx, cancel := context.WithTimeout(ctx, e.OCRTimeout)
	defer cancel()

	var b strings.Builder
	var lastErr error
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: render: %w", n+1, err)
			continue
		}
		page, err := tesseractPage(ctx, img)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			continue
		}
		if page != "" {
			b.WriteString(page)
			b.WriteString("\n\n")
		}
	}
	if b.Len() == 0 && lastErr != nil {
		return "", lastErr
	}
	return b.String(), nil
}

func tesseractPage(ctx context.Context, img image.Image) (string, error) {
	tmp, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, err := exec.CommandContext(ctx, "tesseract", tmp.Name(), "stdout", "-l", "eng").Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
