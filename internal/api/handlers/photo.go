package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/api/middleware"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
)

const maxUploadMemory = 32 << 20

type PhotoHandler struct {
	photoService *services.PhotoService
}

func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

type createPhotoRequest struct {
	Image string `json:"image" binding:"required"`
}

// CreatePhoto attaches an image URL to a restaurant or menu item.
func (h *PhotoHandler) CreatePhoto(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		return
	}

	var req createPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendFieldErrors(c, "Invalid request data", map[string]string{"image": "This field is required."})
		return
	}

	uploader := middleware.GetViewer(c).UserID
	photo, err := h.photoService.CreatePhoto(c.Request.Context(), &uploader, target, req.Image, "")
	if err != nil {
		respondError(c, "Failed to add photo", err)
		return
	}

	utils.SendCreated(c, "Photo added successfully", photo)
}

// UploadPhotos accepts multipart files under the "images" field.
func (h *PhotoHandler) UploadPhotos(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.SendValidationError(c, "Invalid multipart form")
		return
	}
	headers := c.Request.MultipartForm.File["images"]
	if len(headers) == 0 {
		utils.SendFieldErrors(c, "No images provided", map[string]string{"images": "At least one image is required."})
		return
	}

	files := make([]services.ImageFile, 0, len(headers))
	for _, header := range headers {
		file, err := readImage(header)
		if err != nil {
			utils.SendValidationError(c, "Failed to read "+header.Filename)
			return
		}
		files = append(files, file)
	}

	uploader := middleware.GetViewer(c).UserID
	photos, err := h.photoService.UploadPhotos(c.Request.Context(), &uploader, target, files)
	if err != nil {
		respondError(c, "Failed to upload photos", err)
		return
	}

	utils.SendCreated(c, "Photos uploaded successfully", photos)
}

func readImage(header *multipart.FileHeader) (services.ImageFile, error) {
	file, err := header.Open()
	if err != nil {
		return services.ImageFile{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.ImageFile{}, err
	}

	return services.ImageFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}
