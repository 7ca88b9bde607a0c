package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

const maxResumeSize = 5 * 1024 * 1024

// readUploads collects the PDF files under field together with one current
// and one expected CTC per file, sent either as repeated form values or as a
// single comma separated list.
func readUploads(c *fiber.Ctx, field string, withCTC bool) ([]usecase.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "multipart form is required")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, util.NewFormError("resume file is required", map[string]string{field: "at least one PDF is required"})
	}

	var current, expected []float64
	if withCTC {
		errs := map[string]string{}
		if current, err = floatList(form.Value["current_ctc"]); err != nil {
			errs["current_ctc"] = err.Error()
		} else if len(current) != len(files) {
			errs["current_ctc"] = fmt.Sprintf("expected %d values, got %d", len(files), len(current))
		}
		if expected, err = floatList(form.Value["expected_ctc"]); err != nil {
			errs["expected_ctc"] = err.Error()
		} else if len(expected) != len(files) {
			errs["expected_ctc"] = fmt.Sprintf("expected %d values, got %d", len(files), len(expected))
		}
		if len(errs) > 0 {
			return nil, util.NewFormError("each resume needs a current and an expected CTC", errs)
		}
	}
	emails := splitList(form.Value["email"])

	uploads := make([]usecase.Upload, 0, len(files))
	for i, fh := range files {
		data, err := readPDF(fh)
		if err != nil {
			return nil, err
		}
		up := usecase.Upload{FileName: fh.Filename, Data: data}
		if withCTC {
			up.CurrentCTC = current[i]
			up.ExpectedCTC = expected[i]
		}
		if i < len(emails) {
			up.Email = emails[i]
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

func readPDF(fh *multipart.FileHeader) ([]byte, error) {
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".pdf" {
		return nil, util.NewFormError("unsupported file type", map[string]string{fh.Filename: "only PDF files are accepted"})
	}
	if fh.Size > maxResumeSize {
		return nil, util.NewFormError("file size is too large", map[string]string{fh.Filename: "max 5MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			out = append(out, strings.TrimSpace(part))
		}
	}
	return out
}

func floatList(values []string) ([]float64, error) {
	parts := splitList(values)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out = append(out, f)
	}
	return out, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return uint(id), nil
}
