package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"dataimport/internal/model"
	"dataimport/internal/reader"
	"dataimport/internal/service"
	"dataimport/internal/storage"
)

// rowsRequest is the JSON body of POST /imports/{type}/rows.
type rowsRequest struct {
	Fields   []model.Field `json:"fields"`
	Rows     []model.Row   `json:"rows"`
	BasePath string        `json:"base_path"`
	Notify   []string      `json:"notify"`
}

// param and formValue copy request strings that outlive the handler.
// Fiber reuses the request buffer once the handler returns.
func param(c *fiber.Ctx, key string) string { return utils.CopyString(c.Params(key)) }

func formValue(c *fiber.Ctx, key string) string { return utils.CopyString(c.FormValue(key)) }

// writeServiceError translates service errors into the error envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidImportType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_IMPORT_TYPE", "invalid import type")
	case errors.Is(err, service.ErrIDRequired), errors.Is(err, service.ErrKeyRequired):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, reader.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "only .csv and .xlsx files are supported")
	case errors.Is(err, reader.ErrNoHeader):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE", "import file has no header row")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "import row not found")
	case errors.Is(err, storage.ErrNotExist):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "media not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ImportRows imports JSON rows.
//
// @Summary Import rows
// @Tags imports
// @Accept json
// @Produce json
// @Param type path string true "Import type, e.g. product"
// @Param body body rowsRequest true "Rows and field descriptions"
// @Success 200 {object} service.Summary
// @Failure 400 {object} errorPayload
// @Router /imports/{type}/rows [post]
func ImportRows(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body rowsRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		if len(body.Rows) == 0 {
			return writeError(c, fiber.StatusBadRequest, "ROWS_REQUIRED", "rows are required")
		}

		sum, err := svc.ImportRows(c.UserContext(), service.ImportRequest{
			ImportType: model.ImportType(param(c, "type")),
			Fields:     body.Fields,
			Rows:       body.Rows,
			BasePath:   body.BasePath,
			Notify:     body.Notify,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sum)
	}
}

// ImportFile imports a CSV or XLSX upload (multipart/form-data).
// Form fields: file, fields (JSON array), base_path, notify (comma separated).
//
// @Summary Import a file
// @Tags imports
// @Accept mpfd
// @Produce json
// @Param type path string true "Import type"
// @Param file formData file true "CSV or XLSX file"
// @Param fields formData string false "JSON array of field descriptions"
// @Param base_path formData string false "Prefix for existing media paths"
// @Param notify formData string false "Comma separated recipients"
// @Success 200 {object} service.Summary
// @Failure 400 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Router /imports/{type}/files [post]
func ImportFile(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		var fields []model.Field
		if raw := c.FormValue("fields"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &fields); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FIELDS", "fields must be a JSON array")
			}
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		sum, err := svc.ImportFile(c.UserContext(), utils.CopyString(fh.Filename), f, service.ImportRequest{
			ImportType: model.ImportType(param(c, "type")),
			Fields:     fields,
			BasePath:   formValue(c, "base_path"),
			Notify:     splitList(formValue(c, "notify")),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sum)
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// TransformField runs a single field transformation without persisting.
//
// @Summary Dry-run a field transformation
// @Tags imports
// @Accept json
// @Produce json
// @Param body body service.TransformRequest true "Field, value and row"
// @Success 200 {object} service.TransformResult
// @Router /imports/transform [post]
func TransformField(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.TransformRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		res, err := svc.Transform(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListImportRows lists stored rows with limit & offset, optionally filtered by type.
//
// @Summary List imported rows
// @Tags rows
// @Produce json
// @Param type query string false "Import type"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.ImportRowListResult
// @Router /imports/rows [get]
func ListImportRows(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), model.ImportType(utils.CopyString(c.Query("type"))), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetImportRow returns one stored row.
//
// @Summary Get an imported row
// @Tags rows
// @Produce json
// @Param id path string true "Row ID"
// @Success 200 {object} model.ImportRow
// @Failure 404 {object} errorPayload
// @Router /imports/rows/{id} [get]
func GetImportRow(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := param(c, "id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		row, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(row)
	}
}

// DeleteImportRow removes one stored row.
//
// @Summary Delete an imported row
// @Tags rows
// @Param id path string true "Row ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /imports/rows/{id} [delete]
func DeleteImportRow(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := param(c, "id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// MediaRedirect redirects to a presigned download URL for a stored media key.
//
// @Summary Download stored media
// @Tags media
// @Param key path string true "Storage key"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /media/{key} [get]
func MediaRedirect(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.MediaURL(c.UserContext(), param(c, "*"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}
