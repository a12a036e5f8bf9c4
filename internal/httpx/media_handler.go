package httpx

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
	"github.com/brijmohangurjar/kishan/internal/media"
)

type VideoStore interface {
	ListActive(ctx context.Context) ([]media.Video, error)
	ListAll(ctx context.Context) ([]media.Video, error)
	Get(ctx context.Context, videoID int64) (media.Video, error)
	Create(ctx context.Context, adminID int64, in media.VideoInput) (media.Video, error)
	Update(ctx context.Context, videoID int64, in media.VideoInput) (media.Video, error)
	Delete(ctx context.Context, videoID int64) error
}

type Uploader interface {
	SaveImage(r io.Reader, filename, folder string) (string, error)
	SaveVideo(r io.Reader, filename, folder string) (string, error)
	SaveThumbnail(r io.Reader, filename string) (string, error)
	Delete(urlPath string) (bool, error)
}

type MediaHandler struct {
	Videos  VideoStore
	Uploads Uploader
}

// Register mounts the public video listing.
func (h *MediaHandler) Register(r chi.Router) {
	r.Get("/videos", h.listVideos)
	r.Get("/videos/{videoId}", h.getVideo)
}

// RegisterUser mounts image uploads available to logged-in users
// (listing photos and the like).
func (h *MediaHandler) RegisterUser(r chi.Router) {
	r.Post("/uploads/image", h.uploadImage)
	r.Post("/uploads/images", h.uploadImages)
}

// RegisterAdmin mounts video management and video/thumbnail uploads.
func (h *MediaHandler) RegisterAdmin(r chi.Router) {
	r.Get("/videos", h.listAllVideos)
	r.Post("/videos", h.createVideo)
	r.Put("/videos/{videoId}", h.updateVideo)
	r.Delete("/videos/{videoId}", h.deleteVideo)

	r.Post("/uploads/video", h.uploadVideo)
	r.Post("/uploads/thumbnail", h.uploadThumbnail)
	r.Delete("/uploads", h.deleteUpload)
}

func (h *MediaHandler) listVideos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	vs, err := h.Videos.ListActive(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *MediaHandler) listAllVideos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	vs, err := h.Videos.ListAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *MediaHandler) getVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Videos.Get(ctx, videoID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *MediaHandler) createVideo(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var in media.VideoInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	v, err := h.Videos.Create(ctx, id.AdminID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *MediaHandler) updateVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in media.VideoInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	v, err := h.Videos.Update(ctx, videoID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *MediaHandler) deleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Videos.Delete(ctx, videoID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "video deleted"})
}

func formFile(r *http.Request, field string, maxMemory int64) (io.ReadCloser, string, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, "", apperr.Invalid(field, "invalid multipart form")
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, "", apperr.Invalid(field, "no file provided")
	}
	return f, hdr.Filename, nil
}

func (h *MediaHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	f, name, err := formFile(r, "file", media.MaxImageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	url, err := h.Uploads.SaveImage(f, name, r.URL.Query().Get("folder"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *MediaHandler) uploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(media.MaxImageSize); err != nil {
		writeError(w, apperr.Invalid("files", "invalid multipart form"))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, apperr.Invalid("files", "no files provided"))
		return
	}

	// A failed file voids the whole batch; files already written are
	// removed before the error goes out.
	urls := make([]string, 0, len(files))
	fail := func(err error) {
		for _, u := range urls {
			_, _ = h.Uploads.Delete(u)
		}
		writeError(w, err)
	}
	for _, hdr := range files {
		f, err := hdr.Open()
		if err != nil {
			fail(apperr.Invalid("files", "unreadable file"))
			return
		}
		url, err := h.Uploads.SaveImage(f, hdr.Filename, r.URL.Query().Get("folder"))
		f.Close()
		if err != nil {
			fail(err)
			return
		}
		urls = append(urls, url)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"urls": urls})
}

func (h *MediaHandler) uploadVideo(w http.ResponseWriter, r *http.Request) {
	f, name, err := formFile(r, "file", 32<<20)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	url, err := h.Uploads.SaveVideo(f, name, r.URL.Query().Get("folder"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *MediaHandler) uploadThumbnail(w http.ResponseWriter, r *http.Request) {
	f, name, err := formFile(r, "file", media.MaxImageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	url, err := h.Uploads.SaveThumbnail(f, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

type deleteUploadReq struct {
	URL string `json:"url"`
}

func (h *MediaHandler) deleteUpload(w http.ResponseWriter, r *http.Request) {
	var req deleteUploadReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ok, err := h.Uploads.Delete(req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "file deleted"})
}
