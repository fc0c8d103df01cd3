package handlers

import (
	"errors"
	"geopost-service/internal/service"
	"log"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// UploadFieldName is the multipart field carrying the post images
const UploadFieldName = "uploadedFile"

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

func (h *PostHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/posts", h.CreatePost)
}

func (h *PostHandler) CreatePost(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request must be multipart/form-data",
		})
	}

	fileHeaders := form.File[UploadFieldName]
	files := make([]service.FilePayload, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		files = append(files, service.PayloadFromFileHeader(UploadFieldName, fileHeader))
	}

	req := &service.IngestRequest{
		Fields: service.PostFields{
			Title:       formValue(form, "title"),
			Description: formValue(form, "description"),
			UserID:      formValue(form, "userId"),
		},
		GeoJSON: formValue(form, "geojson"),
		Files:   files,
	}

	post, err := h.postService.Ingest(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

func formValue(form *multipart.Form, name string) string {
	values := form.Value[name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// errorResponse maps ingestion errors to a status code. Server side causes are
// logged and replaced with the error's generic message.
func errorResponse(c fiber.Ctx, err error) error {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		log.Printf("Unexpected error creating post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	status := svcErr.Kind.Status()
	if status >= fiber.StatusInternalServerError {
		log.Printf("Error creating post: %v", svcErr)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": svcErr.Message,
	})
}
