package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"p9e.in/cartrade/config"
	"p9e.in/cartrade/middleware"
	"p9e.in/cartrade/models"
	"p9e.in/cartrade/utils"
)

// uploadRoot is the local storage directory for uploaded files.
func uploadRoot() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// saveUpload streams one multipart file to local storage and returns its
// public URL. Filenames get a timestamp-uuid prefix to avoid collisions.
func saveUpload(fh *multipart.FileHeader, subdir string) (string, error) {
	dir := filepath.Join(uploadRoot(), subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102-150405"),
		uuid.New().String()[:8],
		filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return "/uploads/" + subdir + "/" + name, nil
}

// UploadDocumentsHandler accepts multipart uploads keyed by category name,
// validates every file independently and stores only the valid ones. The
// response names each rejected file with its reason; one bad file never
// sinks the batch.
func UploadDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid user ID: "+err.Error(), http.StatusBadRequest)
		return
	}

	var saved []models.Attachment
	var rejected []utils.FileRejection
	picturesChanged := false

	for field, headers := range r.MultipartForm.File {
		category := models.DocumentCategory(field)
		if !category.IsValid() {
			rejected = append(rejected, utils.FileRejection{
				Name:   field,
				Reason: fmt.Sprintf("unknown document category %q", field),
			})
			continue
		}
		if !category.AllowsMultiple() && len(headers) > 1 {
			rejected = append(rejected, utils.FileRejection{
				Name:   field,
				Reason: fmt.Sprintf("category %q accepts a single file", field),
			})
			continue
		}

		metas := make([]utils.FileMeta, len(headers))
		for i, fh := range headers {
			metas[i] = utils.FileMeta{
				Name: fh.Filename,
				Type: fh.Header.Get("Content-Type"),
				Size: fh.Size,
			}
		}
		accepted, rejects := utils.FilterUploads(metas)
		rejected = append(rejected, rejects...)

		// accepted preserves input order, so walk both slices together
		next := 0
		for i, fh := range headers {
			if next == len(accepted) || metas[i] != accepted[next] {
				continue
			}
			next++

			url, err := saveUpload(fh, "documents")
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			attachment := models.Attachment{
				VehicleID:    vehicle.ID,
				Category:     category,
				FileName:     fh.Filename,
				FileType:     metas[i].Type,
				FileSize:     fh.Size,
				URL:          url,
				UploadedByID: userID,
			}
			if err := config.DB.Create(&attachment).Error; err != nil {
				http.Error(w, "failed to record attachment: "+err.Error(), http.StatusInternalServerError)
				return
			}
			saved = append(saved, attachment)

			if category == models.CategoryCarPictures {
				vehicle.AddCarPicture(url)
				picturesChanged = true
			}
		}
	}

	if picturesChanged {
		if err := config.DB.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).
			Update("car_picture_urls", vehicle.CarPictureURLs).Error; err != nil {
			http.Error(w, "failed to update picture gallery: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	var attachments []models.Attachment
	config.DB.Where("vehicle_id = ?", vehicle.ID).Order("created_at ASC").Find(&attachments)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"saved":       saved,
		"rejected":    rejected,
		"attachments": attachments,
	})
}

// GetDocumentsHandler lists a vehicle's attachments grouped by category.
func GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}

	var attachments []models.Attachment
	if err := config.DB.Where("vehicle_id = ?", vehicleID).Order("created_at ASC").Find(&attachments).Error; err != nil {
		http.Error(w, "failed to fetch documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	grouped := make(map[models.DocumentCategory][]models.Attachment)
	for _, a := range attachments {
		grouped[a.Category] = append(grouped[a.Category], a)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"documents":             grouped,
		"negotiationCompletion": NegotiationDocsCompletion(attachments),
	})
}

// DeleteDocumentHandler removes one attachment. Admins and managers only.
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	role := models.Role(claims.Role)
	if role != models.RoleAdmin && role != models.RoleManager {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	docID, err := uuid.Parse(vars["docId"])
	if err != nil {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	var attachment models.Attachment
	if err := config.DB.Where("id = ? AND vehicle_id = ?", docID, vars["id"]).First(&attachment).Error; err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	if err := config.DB.Delete(&attachment).Error; err != nil {
		http.Error(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// keep the gallery in sync with the surviving attachments
	if attachment.Category == models.CategoryCarPictures {
		var vehicle models.Vehicle
		if err := config.DB.First(&vehicle, "id = ?", attachment.VehicleID).Error; err == nil {
			vehicle.RemoveCarPicture(attachment.URL)
			config.DB.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).
				Update("car_picture_urls", vehicle.CarPictureURLs)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "document deleted"})
}
