package services

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/config"
	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
)

// UploadBootcampPhoto stores an uploaded image in object storage and records
// the object name on the bootcamp.
func UploadBootcampPhoto(c *fiber.Ctx, id, userID, role string) (models.Bootcamp, error) {
	objID, err := parseObjectID("bootcamp", id)
	if err != nil {
		return models.Bootcamp{}, err
	}

	collection := db.GetCollection(db.Bootcamps)

	var bootcamp models.Bootcamp
	if err := collection.FindOne(c.Context(), bson.M{"_id": objID}).Decode(&bootcamp); err != nil {
		return models.Bootcamp{}, httperr.FromMongo(err, "bootcamp", id)
	}

	if !isOwner(bootcamp.User.Hex(), userID, role) {
		return models.Bootcamp{}, httperr.Forbidden("not authorized to update this bootcamp")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.Bootcamp{}, httperr.BadRequest("please upload a file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return models.Bootcamp{}, httperr.BadRequest("please upload an image file")
	}

	maxBytes, convErr := strconv.ParseInt(config.Getenv("MAX_FILE_UPLOAD", "1000000"), 10, 64)
	if convErr != nil {
		maxBytes = 1000000
	}
	if fileHeader.Size > maxBytes {
		return models.Bootcamp{}, httperr.BadRequest("please upload an image less than %d bytes", maxBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.Bootcamp{}, httperr.BadRequest("failed to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.Bootcamp{}, httperr.BadRequest("failed to read file")
	}

	objectName := fmt.Sprintf("photo_%s%s", bootcamp.ID.Hex(), filepath.Ext(fileHeader.Filename))
	if err := storage.PutPhoto(c.Context(), objectName, data, contentType); err != nil {
		return models.Bootcamp{}, fmt.Errorf("failed to store photo: %w", err)
	}

	err = collection.FindOneAndUpdate(
		c.Context(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"photo": objectName}},
		findOneAndUpdateAfter(),
	).Decode(&bootcamp)
	if err != nil {
		return models.Bootcamp{}, httperr.FromMongo(err, "bootcamp", id)
	}

	return bootcamp, nil
}
